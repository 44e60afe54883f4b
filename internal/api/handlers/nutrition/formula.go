package nutrition

import (
	"net/http"

	coreNutrition "dog-nutrition-api/internal/core/nutrition"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FormulaRequest 配方計算請求
type FormulaRequest struct {
	Profile ProfileRequest `json:"profile" binding:"required"`
	FoodIDs []int64        `json:"food_ids" binding:"required"`
}

// HandleFormula 處理 POST /nutrition/formula 配方計算 API
// 不可行的配方回 200 並帶 feasible=false，而不是錯誤
func HandleFormula(formulaService *coreNutrition.FormulaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = common.GenerateUUID()
			c.Header("X-Request-ID", requestID)
		}

		var req FormulaRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.LogError("請求格式無效",
				zap.Error(err),
				zap.String("request_id", requestID),
			)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		if len(req.FoodIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "food_ids cannot be empty"})
			return
		}

		profile, ok := bindProfile(c, req.Profile)
		if !ok {
			return
		}

		result, err := formulaService.Optimize(c.Request.Context(), profile, req.FoodIDs)
		if err != nil {
			common.LogError("配方計算失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.Int64s("food_ids", req.FoodIDs),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Formula calculation failed"})
			return
		}

		common.LogInfo("配方計算完成",
			zap.String("request_id", requestID),
			zap.Bool("feasible", result.Feasible),
			zap.String("reason", result.Reason),
			zap.Int("items", len(result.Items)),
		)

		c.JSON(http.StatusOK, result)
	}
}
