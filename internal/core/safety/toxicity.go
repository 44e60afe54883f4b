package safety

import (
	"strings"
)

// DefaultToxicKeywords 狗狗禁忌食材關鍵字（多語）
// 名稱比對為小寫子字串包含
var DefaultToxicKeywords = []string{
	"onion", "garlic", "chive", "leek", "chocolate", "cocoa", "grape", "raisin",
	"xylitol", "alcohol", "macadamia", "avocado pit", "coffee", "tea leaf",
	"洋葱", "大蒜", "韭菜", "巧克力", "可可", "葡萄", "葡萄干", "木糖醇", "酒精", "夏威夷果",
}

// ToxicityFilter 毒性過濾器
// 以固定關鍵字集合判斷食材名稱是否含禁忌成分
type ToxicityFilter struct {
	keywords []string
}

// NewToxicityFilter 創建毒性過濾器
func NewToxicityFilter(keywords []string) *ToxicityFilter {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &ToxicityFilter{keywords: lowered}
}

// NewDefaultToxicityFilter 使用預設關鍵字創建毒性過濾器
func NewDefaultToxicityFilter() *ToxicityFilter {
	return NewToxicityFilter(DefaultToxicKeywords)
}

// IsToxicName 判斷食材名稱是否含禁忌成分
// 空名稱永遠視為安全
func (f *ToxicityFilter) IsToxicName(name string) bool {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return false
	}
	for _, kw := range f.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
