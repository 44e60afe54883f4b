package food

import (
	"net/http"
	"strconv"

	"dog-nutrition-api/internal/core/catalog"
	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddAliasRequest 新增別名請求
type AddAliasRequest struct {
	Lang   string `json:"lang" binding:"required"`
	Alias  string `json:"alias" binding:"required"`
	Weight int    `json:"weight"`
}

// HandleAddAlias 處理 POST /foods/:id/aliases 新增別名 API
func HandleAddAlias(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		foodID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || foodID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid food id"})
			return
		}

		var req AddAliasRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			common.LogError("請求格式無效", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
			return
		}
		if req.Weight < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "weight must be >= 0"})
			return
		}

		// 先確認食材存在，避免別名掛到不存在的 id 上
		if _, err := store.GetFood(c.Request.Context(), foodID); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Food not found"})
			return
		}

		if err := store.AddAlias(c.Request.Context(), foodID, req.Lang, req.Alias, req.Weight); err != nil {
			common.LogError("新增別名失敗",
				zap.Error(err),
				zap.Int64("food_id", foodID),
				zap.String("alias", req.Alias),
			)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add alias"})
			return
		}

		common.LogInfo("別名已新增",
			zap.Int64("food_id", foodID),
			zap.String("lang", req.Lang),
			zap.String("alias", req.Alias),
			zap.Int("weight", req.Weight),
		)

		c.JSON(http.StatusCreated, gin.H{
			"food_id": foodID,
			"lang":    req.Lang,
			"alias":   req.Alias,
			"weight":  req.Weight,
		})
	}
}

// HandleDeleteAlias 處理 DELETE /aliases/:alias_id 刪除別名 API
func HandleDeleteAlias(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		aliasID, err := strconv.ParseInt(c.Param("alias_id"), 10, 64)
		if err != nil || aliasID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alias id"})
			return
		}

		if err := store.DeleteAlias(c.Request.Context(), aliasID); err != nil {
			common.LogError("刪除別名失敗", zap.Error(err), zap.Int64("alias_id", aliasID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete alias"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted": aliasID})
	}
}

// HandleListAliases 處理 GET /aliases 別名列表 API
// lang 未指定時用預設搜尋語言
func HandleListAliases(store *catalog.Store, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = cfg.Search.AliasLang
		}

		records, err := store.ListAliases(c.Request.Context(), lang)
		if err != nil {
			common.LogError("查詢別名列表失敗", zap.Error(err), zap.String("lang", lang))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list aliases"})
			return
		}
		if records == nil {
			records = []common.AliasRecord{}
		}

		c.JSON(http.StatusOK, gin.H{
			"lang":    lang,
			"aliases": records,
			"count":   len(records),
		})
	}
}
