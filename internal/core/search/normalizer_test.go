package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "空白分隔",
			query: "chicken breast raw",
			want:  []string{"chicken", "breast", "raw"},
		},
		{
			name:  "混合分隔符號",
			query: "chicken,breast;egg、yolk",
			want:  []string{"chicken", "breast", "egg", "yolk"},
		},
		{
			name:  "豎線與全形標點",
			query: "egg|yolk，white；raw",
			want:  []string{"egg", "yolk", "white", "raw"},
		},
		{
			name:  "去除停用詞",
			query: "chicken and rice or the egg & beef",
			want:  []string{"chicken", "rice", "egg", "beef"},
		},
		{
			name:  "轉小寫",
			query: "Chicken BREAST",
			want:  []string{"chicken", "breast"},
		},
		{
			name:  "超過上限截斷",
			query: "a b c d e f g h",
			want:  []string{"a", "b", "c", "d", "e", "f"},
		},
		{
			name:  "空字串",
			query: "",
			want:  nil,
		},
		{
			name:  "純分隔符號",
			query: " ,; ，；、 ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.query))
		})
	}
}

func TestNormalize(t *testing.T) {
	normalized, tokens := Normalize("  Chicken Breast  ")
	assert.Equal(t, "chicken breast", normalized)
	assert.Equal(t, []string{"chicken", "breast"}, tokens)

	normalized, tokens = Normalize("   ")
	assert.Equal(t, "", normalized)
	assert.Empty(t, tokens)
}
