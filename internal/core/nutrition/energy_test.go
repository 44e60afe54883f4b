package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateRER(t *testing.T) {
	// RER = 70 * kg^0.75
	assert.InDelta(t, 70.0, CalculateRER(1), 1e-9)
	assert.InDelta(t, 393.636, CalculateRER(10), 0.01)
	assert.InDelta(t, 662.02, CalculateRER(20), 0.01)
}

func TestCalculateMER(t *testing.T) {
	rer := CalculateRER(10)

	tests := []struct {
		activity ActivityLevel
		factor   float64
	}{
		{ActivityLow, 1.4},
		{ActivityNormal, 1.6},
		{ActivityHigh, 2.0},
	}
	for _, tt := range tests {
		profile, err := NewDogProfile(10, true, tt.activity)
		require.NoError(t, err)
		assert.InDelta(t, rer*tt.factor, CalculateMER(profile), 1e-9)
	}
}

func TestNewDogProfileValidation(t *testing.T) {
	_, err := NewDogProfile(0, false, ActivityNormal)
	assert.Error(t, err)

	_, err = NewDogProfile(-3, false, ActivityNormal)
	assert.Error(t, err)

	_, err = NewDogProfile(10, false, ActivityLevel("extreme"))
	assert.Error(t, err)

	profile, err := NewDogProfile(12.5, true, ActivityHigh)
	require.NoError(t, err)
	assert.Equal(t, 12.5, profile.WeightKg)
	assert.True(t, profile.Neutered)
	assert.Equal(t, ActivityHigh, profile.Activity)
}
