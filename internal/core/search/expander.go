package search

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"
)

// Intent 查詢意圖分類，用於展開與排序時抑制跨類別雜訊
type Intent int

const (
	IntentNone Intent = iota
	IntentPoultryMeat
	IntentChickenBreast
	IntentEgg
)

// 內建別名展開表，種子檔可覆蓋或補充
var builtinAliasTerms = map[string][]string{
	"鸡蛋黄": {"egg yolk", "yolk"},
	"鸡蛋白": {"egg white"},
	"牛心":  {"beef heart"},
	"牛霖":  {"beef round"},
	"羊腿":  {"lamb leg"},
	"鸭肉":  {"duck"},
	"猪里脊": {"pork loin", "pork tenderloin"},
}

// Expander 同義詞展開器
// 把（可能非英文的）查詢轉成依特異度排序的搜尋詞列表
type Expander struct {
	aliasTerms map[string][]string
	aliasKeys  []string // 依 rune 長度降冪排序，最長的鍵優先
}

// NewExpander 創建展開器，seed 可為 nil
func NewExpander(seed map[string][]string) *Expander {
	terms := make(map[string][]string, len(builtinAliasTerms)+len(seed))
	for key, values := range builtinAliasTerms {
		terms[key] = values
	}
	for key, values := range seed {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || len(values) == 0 {
			continue
		}
		terms[key] = append(terms[key], values...)
	}

	keys := make([]string, 0, len(terms))
	for key := range terms {
		keys = append(keys, key)
	}
	// 最長的別名鍵優先，等長時以字典序保持穩定
	sort.Slice(keys, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(keys[i]), utf8.RuneCountInString(keys[j])
		if li != lj {
			return li > lj
		}
		return keys[i] < keys[j]
	})

	return &Expander{aliasTerms: terms, aliasKeys: keys}
}

// LoadSeedAliasMap 載入別名種子檔（CSV：alias,expands_to，expands_to 以 | 分隔）
// 檔案不存在時回傳空表
func LoadSeedAliasMap(path string) (map[string][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string][]string{}, nil
		}
		return nil, fmt.Errorf("failed to open alias seed file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read alias seed file: %w", err)
	}

	mapping := make(map[string][]string)
	for i, record := range records {
		// 跳過表頭
		if i == 0 && len(record) >= 2 && strings.EqualFold(record[0], "alias") {
			continue
		}
		if len(record) < 2 {
			continue
		}
		alias := strings.ToLower(strings.TrimSpace(record[0]))
		if alias == "" {
			continue
		}
		var candidates []string
		for _, item := range strings.Split(record[1], "|") {
			item = strings.ToLower(strings.TrimSpace(item))
			if item != "" {
				candidates = append(candidates, item)
			}
		}
		if len(candidates) > 0 {
			mapping[alias] = candidates
		}
	}
	return mapping, nil
}

// DetectIntent 由查詢子字串判斷意圖
// 鸡胸（部位）優先於鸡蛋（蛋製品），再來才是泛雞肉
func DetectIntent(query string) Intent {
	switch {
	case strings.Contains(query, "鸡胸"):
		return IntentChickenBreast
	case strings.Contains(query, "鸡蛋"):
		return IntentEgg
	case strings.Contains(query, "鸡肉"):
		return IntentPoultryMeat
	}
	return IntentNone
}

// intentTerms 各意圖注入的標準搜尋詞
func intentTerms(intent Intent) []string {
	switch intent {
	case IntentChickenBreast:
		return []string{"chicken breast", "chicken", "breast"}
	case IntentPoultryMeat:
		return []string{"chicken", "chicken drumstick", "chicken breast"}
	case IntentEgg:
		return []string{"egg", "eggs", "whole egg"}
	}
	return nil
}

// Expand 展開查詢為去重後的搜尋詞列表（最特異的在前），並回傳偵測到的意圖
func (e *Expander) Expand(query string) ([]string, Intent) {
	normalized, _ := Normalize(query)
	intent := DetectIntent(query)

	var expanded []string
	if normalized != "" {
		expanded = append(expanded, normalized)
	}

	// 別名展開：最長的鍵先比對，較特異的片語不被較短的鍵遮蔽
	for _, key := range e.aliasKeys {
		if strings.Contains(normalized, key) || normalized == key {
			expanded = append(expanded, e.aliasTerms[key]...)
		}
	}

	// 意圖規則注入標準詞
	expanded = append(expanded, intentTerms(intent)...)

	// 蛋意圖時移除泛物種詞，避免蛋查詢被純肉結果稀釋
	if intent == IntentEgg {
		filtered := expanded[:0]
		for _, term := range expanded {
			if strings.EqualFold(term, "chicken") {
				continue
			}
			filtered = append(filtered, term)
		}
		expanded = filtered
	}

	// 去重（不分大小寫），保留首次出現順序
	seen := make(map[string]struct{}, len(expanded))
	deduped := expanded[:0]
	for _, term := range expanded {
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, term)
	}

	return deduped, intent
}
