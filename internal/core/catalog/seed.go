package catalog

import (
	"context"

	"go.uber.org/zap"

	"dog-nutrition-api/internal/pkg/common"
)

// defaultZhAlias 預設中文別名，依英文名稱 token 對應目錄中的食材
type defaultZhAlias struct {
	alias  string
	tokens []string
	weight int
}

// 權重越高，直接別名命中時排序越前
var defaultZhAliases = []defaultZhAlias{
	{alias: "鸡胸肉", tokens: []string{"chicken", "breast"}, weight: 120},
	{alias: "鸡蛋", tokens: []string{"egg", "whole"}, weight: 110},
	{alias: "鸡腿", tokens: []string{"chicken", "drumstick"}, weight: 100},
	{alias: "牛肉", tokens: []string{"beef"}, weight: 90},
	{alias: "羊腿", tokens: []string{"lamb", "leg"}, weight: 90},
	{alias: "三文鱼", tokens: []string{"salmon"}, weight: 90},
	{alias: "红薯", tokens: []string{"sweet", "potato"}, weight: 80},
	{alias: "西蓝花", tokens: []string{"broccoli"}, weight: 80},
	{alias: "南瓜", tokens: []string{"pumpkin"}, weight: 80},
	{alias: "胡萝卜", tokens: []string{"carrot"}, weight: 80},
}

// SeedDefaultZhAliases 為目錄中已存在的食材掛上預設中文別名
// 找不到對應食材的別名直接跳過，重複執行安全
func (s *Store) SeedDefaultZhAliases(ctx context.Context) (int, error) {
	seeded := 0
	for _, seed := range defaultZhAliases {
		foods, err := s.SearchByTokens(ctx, seed.tokens, true, 1)
		if err != nil {
			return seeded, err
		}
		if len(foods) == 0 {
			continue
		}
		if err := s.AddAlias(ctx, foods[0].ID, "zh", seed.alias, seed.weight); err != nil {
			return seeded, err
		}
		seeded++
	}

	common.LogDebug("預設別名種子完成", zap.Int("筆數", seeded))
	return seeded, nil
}
