package nutrition

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dog-nutrition-api/internal/core/catalog"
	"dog-nutrition-api/internal/core/safety"
)

func newTestFormulaService(t *testing.T, reference []ReferenceEntry) (*FormulaService, *catalog.Store) {
	t.Helper()
	store, err := catalog.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	calc := NewCalculator(reference)
	optimizer := NewOptimizer(calc, safety.NewDefaultToxicityFilter(), 120, 0.1)
	return NewFormulaService(store, calc, optimizer), store
}

func TestFormulaServiceOptimize(t *testing.T) {
	reference := []ReferenceEntry{
		{NutrientKey: "protein_g", Min: 10, Suggest: 12, Max: nil},
	}
	svc, store := newTestFormulaService(t, reference)
	ctx := context.Background()

	id, err := store.UpsertFood(ctx, "Chicken breast, raw", 120, "test", nil)
	require.NoError(t, err)
	require.NoError(t, store.UpsertNutrient(ctx, id, "protein_g", 31))

	profile, err := NewDogProfile(10, false, ActivityNormal)
	require.NoError(t, err)

	result, err := svc.Optimize(ctx, profile, []int64{id})
	require.NoError(t, err)
	assert.True(t, result.Feasible)
	assert.Equal(t, "ok", result.Reason)
	require.Len(t, result.Items, 1)
	assert.Equal(t, id, result.Items[0].FoodID)
}

func TestFormulaServiceInjectsKcalFromFood(t *testing.T) {
	// 營養素表沒有 kcal 時用食材主檔熱量
	reference := []ReferenceEntry{
		{NutrientKey: "protein_g", Min: 10, Suggest: 12, Max: nil},
	}
	svc, store := newTestFormulaService(t, reference)
	ctx := context.Background()

	id, err := store.UpsertFood(ctx, "Beef, round, raw", 135, "test", nil)
	require.NoError(t, err)
	require.NoError(t, store.UpsertNutrient(ctx, id, "protein_g", 22))

	profile, err := NewDogProfile(10, false, ActivityNormal)
	require.NoError(t, err)

	result, err := svc.Optimize(ctx, profile, []int64{id})
	require.NoError(t, err)
	assert.True(t, result.Feasible)
}

func TestFormulaServiceSkipsMissingFoods(t *testing.T) {
	svc, store := newTestFormulaService(t, DefaultNrcReference())
	ctx := context.Background()

	id, err := store.UpsertFood(ctx, "Chicken breast, raw", 120, "test", nil)
	require.NoError(t, err)

	profile, err := NewDogProfile(10, false, ActivityNormal)
	require.NoError(t, err)

	// 不存在的 ID 跳過，不中斷計算
	result, err := svc.Optimize(ctx, profile, []int64{id, 9999})
	require.NoError(t, err)
	assert.NotEqual(t, "no safe foods available", result.Reason, "存在的食材仍要參與計算")
}

func TestFormulaServiceAllMissing(t *testing.T) {
	svc, _ := newTestFormulaService(t, DefaultNrcReference())

	profile, err := NewDogProfile(10, false, ActivityNormal)
	require.NoError(t, err)

	result, err := svc.Optimize(context.Background(), profile, []int64{42, 43})
	require.NoError(t, err)
	assert.False(t, result.Feasible)
	assert.Equal(t, "no safe foods available", result.Reason)
}
