package food

import (
	"errors"
	"net/http"
	"strconv"

	"dog-nutrition-api/internal/core/catalog"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FoodDetailResponse 食材明細回應
type FoodDetailResponse struct {
	Food      common.Food        `json:"food"`
	Nutrients map[string]float64 `json:"nutrients"`
	Aliases   []string           `json:"aliases"`
}

// HandleGetFood 處理 /foods/:id 食材明細 API
func HandleGetFood(store *catalog.Store, aliasLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food id"})
			return
		}

		food, err := store.GetFood(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, catalog.ErrFoodNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
				return
			}
			common.LogError("查詢食材失敗", zap.Error(err), zap.Int64("food_id", id))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load food"})
			return
		}

		nutrients, err := store.Nutrients(c.Request.Context(), id)
		if err != nil {
			common.LogError("查詢營養素失敗", zap.Error(err), zap.Int64("food_id", id))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load nutrients"})
			return
		}

		aliases, err := store.GetFoodAliases(c.Request.Context(), id, aliasLang)
		if err != nil {
			common.LogError("查詢別名失敗", zap.Error(err), zap.Int64("food_id", id))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load aliases"})
			return
		}
		if aliases == nil {
			aliases = []string{}
		}

		c.JSON(http.StatusOK, FoodDetailResponse{
			Food:      *food,
			Nutrients: nutrients,
			Aliases:   aliases,
		})
	}
}
