package food

import (
	"net/http"
	"strconv"

	"dog-nutrition-api/internal/core/search"
	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchResponse 食材搜尋回應
type SearchResponse struct {
	Query   string        `json:"query"`
	Results []common.Food `json:"results"`
	Count   int           `json:"count"`
}

// HandleFoodSearch 處理 /foods/search 跨語言食材搜尋 API
// q 為查詢字串，limit 超出上限時壓回 max_limit
func HandleFoodSearch(searchService *search.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = common.GenerateUUID()
			c.Header("X-Request-ID", requestID)
		}

		query := c.Query("q")
		limit := cfg.Search.DefaultLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
				return
			}
			limit = parsed
		}
		if limit > cfg.Search.MaxLimit {
			limit = cfg.Search.MaxLimit
		}

		results, err := searchService.Search(c.Request.Context(), query, limit)
		if err != nil {
			common.LogError("食材搜尋失敗",
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.String("query", query),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Food search failed"})
			return
		}

		c.JSON(http.StatusOK, SearchResponse{
			Query:   query,
			Results: results,
			Count:   len(results),
		})
	}
}
