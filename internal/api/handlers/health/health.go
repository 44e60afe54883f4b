package health

import (
	"net/http"
	"runtime"
	"time"

	"dog-nutrition-api/internal/core/catalog"
	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   *CatalogStatus         `json:"catalog,omitempty"`
	Cache     map[string]interface{} `json:"cache,omitempty"`
}

// CatalogStatus 食材目錄狀態
type CatalogStatus struct {
	Foods     int64 `json:"foods"`
	Nutrients int64 `json:"nutrients"`
}

// StatsProvider 快取統計來源（記憶體後端才有）
type StatsProvider interface {
	Stats() map[string]interface{}
}

// HealthCheck 健康檢查處理器
func HealthCheck(cfg *config.Config, store *catalog.Store, cacheStats StatsProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		response := HealthResponse{
			Status:    "ok",
			Timestamp: time.Now(),
			Version:   cfg.App.Version,
			Runtime: map[string]interface{}{
				"goroutines": runtime.NumGoroutine(),
				"memory": map[string]interface{}{
					"alloc":       m.Alloc,
					"total_alloc": m.TotalAlloc,
					"sys":         m.Sys,
					"num_gc":      m.NumGC,
				},
			},
		}

		if foods, nutrients, err := store.Counts(c.Request.Context()); err == nil {
			response.Catalog = &CatalogStatus{Foods: foods, Nutrients: nutrients}
		} else {
			response.Status = "degraded"
			common.LogWarn("健康檢查讀取目錄失敗", zap.Error(err))
		}

		if cacheStats != nil {
			response.Cache = cacheStats.Stats()
		}

		common.LogInfo("Health check request",
			zap.String("client_ip", c.ClientIP()),
			zap.String("path", c.Request.URL.Path),
		)

		c.JSON(http.StatusOK, response)
	}
}

// ReadinessCheck 就緒檢查處理器，資料庫不可用時回 503
func ReadinessCheck(store *catalog.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, err := store.Counts(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
		})
	}
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
