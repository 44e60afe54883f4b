package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dog-nutrition-api/internal/core/safety"
)

func testProfile(t *testing.T) DogProfile {
	t.Helper()
	profile, err := NewDogProfile(10, false, ActivityNormal)
	require.NoError(t, err)
	return profile
}

func newTestOptimizer(reference []ReferenceEntry) *Optimizer {
	calc := NewCalculator(reference)
	return NewOptimizer(calc, safety.NewDefaultToxicityFilter(), 120, 0.1)
}

func TestOptimizeNoSafeFoods(t *testing.T) {
	o := newTestOptimizer(DefaultNrcReference())

	candidates := []CandidateFood{
		{ID: 1, Name: "Onion, raw", Nutrients: map[string]float64{"kcal": 40}},
		{ID: 2, Name: "Water", Nutrients: map[string]float64{"kcal": 0}},
	}

	result := o.Optimize(testProfile(t), candidates)
	assert.False(t, result.Feasible)
	assert.Equal(t, "no safe foods available", result.Reason)
	assert.Empty(t, result.Items)
	assert.Empty(t, result.NrcRows)
}

func TestOptimizeEmptyCandidates(t *testing.T) {
	o := newTestOptimizer(DefaultNrcReference())

	result := o.Optimize(testProfile(t), nil)
	assert.False(t, result.Feasible)
	assert.Equal(t, "no safe foods available", result.Reason)
}

func TestOptimizeFeasibleSingleFood(t *testing.T) {
	reference := []ReferenceEntry{
		{NutrientKey: "protein_g", Min: 10, Suggest: 12, Max: nil},
	}
	o := newTestOptimizer(reference)
	profile := testProfile(t)

	candidates := []CandidateFood{
		{ID: 1, Name: "Chicken breast, raw", Nutrients: map[string]float64{"kcal": 100, "protein_g": 30}},
	}

	result := o.Optimize(profile, candidates)
	require.True(t, result.Feasible)
	assert.Equal(t, "ok", result.Reason)
	require.Len(t, result.Items, 1)

	// 初始克數即涵蓋 MER，蛋白質隨之超過下限
	mer := CalculateMER(profile)
	assert.InDelta(t, mer, result.Items[0].Grams, 0.1)

	require.Len(t, result.NrcRows, 1)
	assert.Equal(t, "OK", result.NrcRows[0].Status)
}

func TestOptimizeRaisesLowNutrient(t *testing.T) {
	reference := []ReferenceEntry{
		{NutrientKey: "ca_mg", Min: 1250, Suggest: 1500, Max: nil},
	}
	o := newTestOptimizer(reference)
	profile := testProfile(t)

	// 初始克數下鈣不足，必須往鈣密度最高的食材加量
	candidates := []CandidateFood{
		{ID: 1, Name: "Chicken breast, raw", Nutrients: map[string]float64{"kcal": 120, "ca_mg": 5}},
		{ID: 2, Name: "Bone meal", Nutrients: map[string]float64{"kcal": 300, "ca_mg": 3000}},
	}

	result := o.Optimize(profile, candidates)
	require.True(t, result.Feasible)
	assert.Equal(t, "ok", result.Reason)
	require.Len(t, result.NrcRows, 1)
	assert.Equal(t, "OK", result.NrcRows[0].Status)

	for _, item := range result.Items {
		assert.GreaterOrEqual(t, item.Grams, 0.0)
	}
}

func TestOptimizeInfeasibleReportsRows(t *testing.T) {
	reference := []ReferenceEntry{
		{NutrientKey: "se_ug", Min: 90, Suggest: 100, Max: nil},
	}
	o := newTestOptimizer(reference)

	// 沒有任何候選含硒，缺口永遠補不上
	candidates := []CandidateFood{
		{ID: 1, Name: "Chicken breast, raw", Nutrients: map[string]float64{"kcal": 120}},
	}

	result := o.Optimize(testProfile(t), candidates)
	assert.False(t, result.Feasible)
	assert.Equal(t, "no feasible solution", result.Reason)
	assert.Empty(t, result.Items)

	require.Len(t, result.NrcRows, 1)
	assert.Equal(t, "se_ug", result.NrcRows[0].NutrientKey)
	assert.Equal(t, "LOW", result.NrcRows[0].Status)
}

func TestOptimizeDeterministic(t *testing.T) {
	o := newTestOptimizer(DefaultNrcReference())
	profile := testProfile(t)

	candidates := []CandidateFood{
		{ID: 1, Name: "Chicken breast, raw", Nutrients: map[string]float64{"kcal": 120, "protein_g": 31, "fat_g": 3.6}},
		{ID: 2, Name: "Sweet potato", Nutrients: map[string]float64{"kcal": 86, "k_mg": 337}},
	}

	first := o.Optimize(profile, candidates)
	second := o.Optimize(profile, candidates)
	assert.Equal(t, first, second, "同輸入必得同輸出")
}

func TestArgmaxDensityFirstWins(t *testing.T) {
	foods := []CandidateFood{
		{ID: 1, Name: "a", Nutrients: map[string]float64{"ca_mg": 50}},
		{ID: 2, Name: "b", Nutrients: map[string]float64{"ca_mg": 50}},
		{ID: 3, Name: "c", Nutrients: map[string]float64{"ca_mg": 10}},
	}

	idx, density := argmaxDensity(foods, "ca_mg")
	assert.Equal(t, 0, idx, "密度平手取順序在前者")
	assert.Equal(t, 50.0, density)
}

func TestBuildItemsRoundsAndDrops(t *testing.T) {
	foods := []CandidateFood{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
		{ID: 4, Name: "d"},
	}
	// 門檻比的是未取整克數：0.05 即使會進位到 0.1 也捨去，恰等於 0.1 亦捨去
	items := buildItems(foods, []float64{123.456, 0.05, 0.1, 0.14}, 0.1)

	require.Len(t, items, 2)
	assert.Equal(t, 123.5, items[0].Grams)
	assert.Equal(t, int64(4), items[1].FoodID)
	assert.Equal(t, 0.1, items[1].Grams)
}

func TestOptimizeExactReferenceDiet(t *testing.T) {
	o := newTestOptimizer(DefaultNrcReference())
	profile, err := NewDogProfile(5, false, ActivityLow)
	require.NoError(t, err)

	// 每 100g 營養恰為每 1000 kcal 建議值的十分之一：
	// 任何克數下每 1000 kcal 的營養密度都落在參考範圍內
	nutrients := map[string]float64{"kcal": 100}
	for _, entry := range DefaultNrcReference() {
		nutrients[entry.NutrientKey] = entry.Suggest / 10
	}
	candidates := []CandidateFood{
		{ID: 1, Name: "Complete diet, canned", Nutrients: nutrients},
	}

	result := o.Optimize(profile, candidates)
	require.True(t, result.Feasible)
	assert.Equal(t, "ok", result.Reason)

	require.Len(t, result.Items, 1)
	assert.InDelta(t, CalculateMER(profile), result.Items[0].Grams, 0.06)

	require.Len(t, result.NrcRows, 16)
	for _, row := range result.NrcRows {
		assert.Equal(t, "OK", row.Status, row.NutrientKey)
	}
}

func TestOptimizeExhaustionReportsFinalGrams(t *testing.T) {
	reference := []ReferenceEntry{
		{NutrientKey: "ca_mg", Min: 1250, Suggest: 1500, Max: nil},
	}
	calc := NewCalculator(reference)
	// 只允許一輪迭代：調整完即停，診斷列須反映調整後的克數
	o := NewOptimizer(calc, safety.NewDefaultToxicityFilter(), 1, 0.1)
	profile := testProfile(t)

	candidates := []CandidateFood{
		{ID: 1, Name: "Chicken breast, raw", Nutrients: map[string]float64{"kcal": 120, "ca_mg": 5}},
	}

	result := o.Optimize(profile, candidates)
	require.False(t, result.Feasible)
	assert.Equal(t, "no feasible solution", result.Reason)

	// 單次調整把鈣補到下限，回報的 Actual 應是補完後的量
	_, reqs := calc.Requirements(profile)
	require.Len(t, result.NrcRows, 1)
	assert.InDelta(t, reqs[0].MinPerDay, result.NrcRows[0].Actual, 1e-6)
}
