package nutrition

import (
	"net/http"

	coreNutrition "dog-nutrition-api/internal/core/nutrition"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileRequest 狗狗參數請求
type ProfileRequest struct {
	WeightKg float64 `json:"weight_kg" binding:"required"`
	Neutered bool    `json:"neutered"`
	Activity string  `json:"activity" binding:"required"`
}

// RequirementsResponse 每日營養需求回應
type RequirementsResponse struct {
	RER          float64                      `json:"rer"`
	MER          float64                      `json:"mer"`
	Requirements []common.NutrientRequirement `json:"requirements"`
}

// bindProfile 解析並驗證狗狗參數，失敗時直接回覆 400
func bindProfile(c *gin.Context, req ProfileRequest) (coreNutrition.DogProfile, bool) {
	profile, err := coreNutrition.NewDogProfile(req.WeightKg, req.Neutered, coreNutrition.ActivityLevel(req.Activity))
	if err != nil {
		common.LogWarn("狗狗參數無效",
			zap.Error(err),
			zap.Float64("weight_kg", req.WeightKg),
			zap.String("activity", req.Activity),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return coreNutrition.DogProfile{}, false
	}
	return profile, true
}

// HandleRequirements 處理 POST /nutrition/requirements 營養需求計算 API
func HandleRequirements(formulaService *coreNutrition.FormulaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.LogError("請求格式無效", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}

		profile, ok := bindProfile(c, req)
		if !ok {
			return
		}

		mer, requirements := formulaService.Requirements(profile)
		c.JSON(http.StatusOK, RequirementsResponse{
			RER:          coreNutrition.CalculateRER(profile.WeightKg),
			MER:          mer,
			Requirements: requirements,
		})
	}
}
