package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsToxicName(t *testing.T) {
	filter := NewDefaultToxicityFilter()

	toxic := []string{
		"Onion, raw",
		"Garlic powder",
		"Dark chocolate",
		"Grape juice",
		"Raisin bread",
		"洋葱",
		"大蒜",
		"巧克力蛋糕",
		"XYLITOL gum",
	}
	for _, name := range toxic {
		assert.True(t, filter.IsToxicName(name), name)
	}

	safe := []string{
		"Chicken breast, raw",
		"Egg, whole, raw",
		"Sweet potato",
		"鸡胸肉",
	}
	for _, name := range safe {
		assert.False(t, filter.IsToxicName(name), name)
	}
}

func TestIsToxicNameEmpty(t *testing.T) {
	filter := NewDefaultToxicityFilter()
	assert.False(t, filter.IsToxicName(""))
	assert.False(t, filter.IsToxicName("   "))
}

func TestCustomKeywords(t *testing.T) {
	filter := NewToxicityFilter([]string{"nutmeg"})
	assert.True(t, filter.IsToxicName("Ground Nutmeg"))
	assert.False(t, filter.IsToxicName("Onion, raw"))
}
