package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dog-nutrition-api/internal/pkg/common"
)

func food(id int64, name string) common.Food {
	return common.Food{ID: id, Name: name, KcalPer100g: 100, Source: "test"}
}

func TestMergeRankAliasHitsFirst(t *testing.T) {
	aliasHits := []common.AliasHit{
		{Food: food(1, "Chicken breast, raw"), Alias: "鸡胸肉", Lang: "zh", Weight: 120},
	}
	termHits := []TermHits{
		{Term: "chicken", Foods: []common.Food{food(2, "Chicken drumstick"), food(3, "Chicken liver")}},
	}

	results := MergeRank(IntentChickenBreast, aliasHits, termHits, 10)
	require.Len(t, results, 3)
	assert.Equal(t, int64(1), results[0].ID, "別名命中排最前")
}

func TestMergeRankAliasWeightOrder(t *testing.T) {
	aliasHits := []common.AliasHit{
		{Food: food(1, "Egg, whole, raw"), Alias: "鸡蛋", Weight: 110},
		{Food: food(2, "Chicken breast, raw"), Alias: "鸡胸肉", Weight: 120},
	}

	results := MergeRank(IntentNone, aliasHits, nil, 10)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[0].ID)
	assert.Equal(t, int64(1), results[1].ID)
}

func TestMergeRankTermSpecificity(t *testing.T) {
	// 較長的命中詞（更特異）優先
	termHits := []TermHits{
		{Term: "chicken", Foods: []common.Food{food(1, "Chicken liver")}},
		{Term: "chicken breast", Foods: []common.Food{food(2, "Chicken breast, raw")}},
	}

	results := MergeRank(IntentChickenBreast, nil, termHits, 10)
	require.Len(t, results, 2)
	assert.Equal(t, int64(2), results[0].ID)
}

func TestMergeRankIntentLexScore(t *testing.T) {
	// 等長命中詞之下，蛋意圖把純 egg 名稱排最前；
	// 名稱帶 chicken 的一律扣分，即使同時含 egg 也排其後
	termHits := []TermHits{
		{Term: "egg", Foods: []common.Food{
			food(1, "Chicken egg substitute"),
			food(2, "Egg, whole, raw"),
			food(3, "Chicken drumstick"),
		}},
	}

	results := MergeRank(IntentEgg, nil, termHits, 10)
	require.Len(t, results, 3)
	assert.Equal(t, int64(2), results[0].ID)
	assert.Equal(t, int64(1), results[1].ID)
	assert.Equal(t, int64(3), results[2].ID)
}

func TestMergeRankDedupeKeepsBest(t *testing.T) {
	// 同一食材同時出現在別名與展開詞命中時只留一筆，取較佳通道
	aliasHits := []common.AliasHit{
		{Food: food(1, "Chicken breast, raw"), Alias: "鸡胸肉", Weight: 120},
	}
	termHits := []TermHits{
		{Term: "chicken", Foods: []common.Food{food(1, "Chicken breast, raw")}},
	}

	results := MergeRank(IntentChickenBreast, aliasHits, termHits, 10)
	require.Len(t, results, 1)
	assert.Equal(t, int64(1), results[0].ID)
}

func TestMergeRankTieByName(t *testing.T) {
	termHits := []TermHits{
		{Term: "beef", Foods: []common.Food{food(2, "Beef, round"), food(1, "Beef, chuck")}},
	}

	results := MergeRank(IntentNone, nil, termHits, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "Beef, chuck", results[0].Name)
}

func TestMergeRankLimit(t *testing.T) {
	termHits := []TermHits{
		{Term: "beef", Foods: []common.Food{food(1, "Beef a"), food(2, "Beef b"), food(3, "Beef c")}},
	}

	results := MergeRank(IntentNone, nil, termHits, 2)
	assert.Len(t, results, 2)
}

func TestMergeRankEmpty(t *testing.T) {
	results := MergeRank(IntentNone, nil, nil, 10)
	assert.Empty(t, results)
}
