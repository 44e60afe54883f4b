package search

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dog-nutrition-api/internal/core/safety"
	"dog-nutrition-api/internal/pkg/common"
)

// Catalog 食材目錄讀取介面
type Catalog interface {
	SearchByTokens(ctx context.Context, tokens []string, matchAll bool, limit int) ([]common.Food, error)
	SearchByAlias(ctx context.Context, query, lang string, limit int) ([]common.AliasHit, error)
}

// ResponseCache 搜尋結果快取介面
type ResponseCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Service 跨語言食材搜尋服務
type Service struct {
	catalog   Catalog
	expander  *Expander
	toxic     *safety.ToxicityFilter
	cache     ResponseCache // 可為 nil
	aliasLang string
}

// NewService 創建搜尋服務
func NewService(catalog Catalog, expander *Expander, toxic *safety.ToxicityFilter, cache ResponseCache, aliasLang string) *Service {
	return &Service{
		catalog:   catalog,
		expander:  expander,
		toxic:     toxic,
		cache:     cache,
		aliasLang: aliasLang,
	}
}

// Search 跨語言搜尋食材，回傳安全過濾後的排序結果
// 空白查詢回傳空列表而非錯誤
func (s *Service) Search(ctx context.Context, query string, limit int) ([]common.Food, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}

	start := time.Now()
	normalized, tokens := Normalize(query)
	if len(tokens) == 0 {
		return []common.Food{}, nil
	}

	cacheKey := fmt.Sprintf("search:%s:%s:%d", s.aliasLang, normalized, limit)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var foods []common.Food
			if err := common.ParseJSON(cached, &foods); err == nil {
				common.LogCacheHit("search", cacheKey)
				return foods, nil
			}
		}
	}

	// Tier 0：直接別名命中
	aliasHits, err := s.catalog.SearchByAlias(ctx, normalized, s.aliasLang, limit)
	if err != nil {
		return nil, fmt.Errorf("alias lookup failed: %w", err)
	}
	safeAliasHits := aliasHits[:0]
	for _, hit := range aliasHits {
		if s.toxic.IsToxicName(hit.Food.Name) {
			continue
		}
		safeAliasHits = append(safeAliasHits, hit)
	}

	// Tier 1：展開詞逐一檢索
	terms, intent := s.expander.Expand(query)
	termHits := make([]TermHits, 0, len(terms))
	for _, term := range terms {
		foods, err := s.Retrieve(ctx, term, limit, false)
		if err != nil {
			return nil, err
		}
		if len(foods) > 0 {
			termHits = append(termHits, TermHits{Term: term, Foods: foods})
		}
	}

	results := MergeRank(intent, safeAliasHits, termHits, limit)

	if s.cache != nil {
		if payload, err := common.ToJSON(results); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload); err != nil {
				common.LogWarn("搜尋快取寫入失敗", zap.Error(err))
			}
		}
	}

	common.LogSearch(normalized, len(results), time.Since(start))
	return results, nil
}

// Retrieve 以單一搜尋詞檢索食材
// 先以全部 token 為條件查詢，無結果時退回任一 token 即可
// includeUnsafe 僅供管理工具使用，一般流程一律過濾毒性食材
func (s *Service) Retrieve(ctx context.Context, term string, limit int, includeUnsafe bool) ([]common.Food, error) {
	tokens := Tokenize(term)
	if len(tokens) == 0 {
		return nil, nil
	}

	foods, err := s.catalog.SearchByTokens(ctx, tokens, true, limit)
	if err != nil {
		return nil, fmt.Errorf("token search failed: %w", err)
	}
	if len(foods) == 0 && len(tokens) > 1 {
		foods, err = s.catalog.SearchByTokens(ctx, tokens, false, limit)
		if err != nil {
			return nil, fmt.Errorf("token search failed: %w", err)
		}
	}

	if includeUnsafe {
		return foods, nil
	}

	safe := foods[:0]
	for _, food := range foods {
		if s.toxic.IsToxicName(food.Name) {
			continue
		}
		safe = append(safe, food)
	}
	return safe, nil
}
