package search

import (
	"regexp"
	"strings"
)

// 分詞用的分隔符號，含 CJK 標點與豎線
var tokenSplitRe = regexp.MustCompile(`[\s,;，；、|]+`)

// 停用詞
var stopwords = map[string]struct{}{
	"and": {},
	"or":  {},
	"&":   {},
	"the": {},
}

// 單一查詢最多保留的 token 數，限制下游查詢成本
const maxQueryTokens = 6

// Normalize 正規化查詢字串並回傳 token 列表
// 空白或純分隔符號的輸入回傳空 token 列表，下游一律視為無結果
func Normalize(query string) (string, []string) {
	normalized := strings.ToLower(strings.TrimSpace(query))
	return normalized, Tokenize(normalized)
}

// Tokenize 將查詢切為 token：小寫、去標點、去停用詞、截斷至上限
func Tokenize(query string) []string {
	var tokens []string
	for _, raw := range tokenSplitRe.Split(strings.ToLower(query), -1) {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if _, ok := stopwords[token]; ok {
			continue
		}
		tokens = append(tokens, token)
		if len(tokens) >= maxQueryTokens {
			break
		}
	}
	return tokens
}
