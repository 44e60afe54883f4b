package nutrition

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"dog-nutrition-api/internal/core/catalog"
	"dog-nutrition-api/internal/pkg/common"
)

// FoodSource 食材資料來源介面
type FoodSource interface {
	GetFood(ctx context.Context, id int64) (*common.Food, error)
	Nutrients(ctx context.Context, foodID int64) (map[string]float64, error)
}

// FormulaService 配方服務：載入候選食材後交給求解器
type FormulaService struct {
	source    FoodSource
	calc      *Calculator
	optimizer *Optimizer
}

// NewFormulaService 創建配方服務
func NewFormulaService(source FoodSource, calc *Calculator, optimizer *Optimizer) *FormulaService {
	return &FormulaService{
		source:    source,
		calc:      calc,
		optimizer: optimizer,
	}
}

// Requirements 計算每日營養需求
func (s *FormulaService) Requirements(profile DogProfile) (float64, []common.NutrientRequirement) {
	return s.calc.Requirements(profile)
}

// Optimize 依指定食材 ID 求解配方
// 不存在的 ID 記警告後略過，全部缺失時視同無安全食材
func (s *FormulaService) Optimize(ctx context.Context, profile DogProfile, foodIDs []int64) (common.FormulaResult, error) {
	candidates := make([]CandidateFood, 0, len(foodIDs))
	for _, id := range foodIDs {
		food, err := s.source.GetFood(ctx, id)
		if err != nil {
			if errors.Is(err, catalog.ErrFoodNotFound) {
				common.LogWarn("配方候選食材不存在", zap.Int64("food_id", id))
				continue
			}
			return common.FormulaResult{}, fmt.Errorf("failed to load food %d: %w", id, err)
		}

		nutrients, err := s.source.Nutrients(ctx, id)
		if err != nil {
			return common.FormulaResult{}, fmt.Errorf("failed to load nutrients for food %d: %w", id, err)
		}
		// 營養素表沒有熱量時以食材主檔的值補上
		if _, ok := nutrients[energyKey]; !ok {
			nutrients[energyKey] = food.KcalPer100g
		}

		candidates = append(candidates, CandidateFood{
			ID:        food.ID,
			Name:      food.Name,
			Nutrients: nutrients,
		})
	}

	return s.optimizer.Optimize(profile, candidates), nil
}
