package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"dog-nutrition-api/internal/pkg/common"
)

// 排序層級：直接別名命中優先於展開詞命中
const (
	tierAlias = 0
	tierTerm  = 1
)

// TermHits 單一展開詞的檢索結果
type TermHits struct {
	Term  string
	Foods []common.Food
}

type rankedEntry struct {
	food        common.Food
	tier        int
	weight      int    // tierAlias：別名權重
	alias       string // tierAlias：別名文字
	specificity int    // tierTerm：命中詞 rune 長度
	lexScore    int    // tierTerm：意圖詞彙分數
}

// better 判斷 a 是否優先於 b（跨通道去重時保留較佳者）
func (a rankedEntry) better(b rankedEntry) bool {
	if a.tier != b.tier {
		return a.tier < b.tier
	}
	if a.tier == tierAlias {
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		return a.alias < b.alias
	}
	if a.specificity != b.specificity {
		return a.specificity > b.specificity
	}
	return a.lexScore > b.lexScore
}

// intentLexScore 意圖加權詞彙分數
// 加分給名稱含意圖相關 token 的食材，扣分給跨意圖的誤命中
func intentLexScore(intent Intent, name string) int {
	n := strings.ToLower(name)
	score := 0
	switch intent {
	case IntentChickenBreast:
		if strings.Contains(n, "breast") {
			score += 2
		}
		if strings.Contains(n, "chicken") {
			score++
		}
		if strings.Contains(n, "egg") {
			score -= 2
		}
	case IntentPoultryMeat:
		if strings.Contains(n, "chicken") {
			score += 2
		}
		if strings.Contains(n, "egg") {
			score -= 2
		}
	case IntentEgg:
		if strings.Contains(n, "egg") {
			score += 2
		}
		if strings.Contains(n, "chicken") {
			score -= 2
		}
	}
	return score
}

// MergeRank 合併別名命中與展開詞命中，依食材去重後排序
// 別名命中為 Tier 0（權重降冪、別名升冪），展開詞命中為 Tier 1
//（命中詞越長越優先，等長時比意圖分數），平手以名稱字母序決定
func MergeRank(intent Intent, aliasHits []common.AliasHit, termHits []TermHits, limit int) []common.Food {
	merged := make(map[int64]rankedEntry)

	for _, hit := range aliasHits {
		entry := rankedEntry{
			food:   hit.Food,
			tier:   tierAlias,
			weight: hit.Weight,
			alias:  hit.Alias,
		}
		if prev, ok := merged[hit.Food.ID]; !ok || entry.better(prev) {
			merged[hit.Food.ID] = entry
		}
	}

	for _, th := range termHits {
		specificity := utf8.RuneCountInString(th.Term)
		for _, food := range th.Foods {
			entry := rankedEntry{
				food:        food,
				tier:        tierTerm,
				specificity: specificity,
				lexScore:    intentLexScore(intent, food.Name),
			}
			if prev, ok := merged[food.ID]; !ok || entry.better(prev) {
				merged[food.ID] = entry
			}
		}
	}

	entries := make([]rankedEntry, 0, len(merged))
	for _, entry := range merged {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.tier == tierAlias {
			if a.weight != b.weight {
				return a.weight > b.weight
			}
			if a.alias != b.alias {
				return a.alias < b.alias
			}
		} else {
			if a.specificity != b.specificity {
				return a.specificity > b.specificity
			}
			if a.lexScore != b.lexScore {
				return a.lexScore > b.lexScore
			}
		}
		return strings.ToLower(a.food.Name) < strings.ToLower(b.food.Name)
	})

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	foods := make([]common.Food, len(entries))
	for i, entry := range entries {
		foods[i] = entry.food
	}
	return foods
}
