package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	foodHandler "dog-nutrition-api/internal/api/handlers/food"
	"dog-nutrition-api/internal/api/handlers/health"
	nutritionHandler "dog-nutrition-api/internal/api/handlers/nutrition"
	"dog-nutrition-api/internal/api/middleware"
	"dog-nutrition-api/internal/core/catalog"
	coreNutrition "dog-nutrition-api/internal/core/nutrition"
	"dog-nutrition-api/internal/core/safety"
	"dog-nutrition-api/internal/core/search"
	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 超時設置
	timeoutDuration = 30 * time.Second
	// 請求體大小限制 (1MB)，純 JSON API 不需要更大
	maxBodySize = 1 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, store *catalog.Store, responseCache search.ResponseCache, cacheStats health.StatsProvider) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.Deduplication(cfg))

	// 初始化核心服務
	seedAliases, err := search.LoadSeedAliasMap(cfg.Search.AliasSeedPath)
	if err != nil {
		common.LogError("Failed to load alias seed file", zap.Error(err))
		return nil, fmt.Errorf("failed to load alias seed file: %w", err)
	}
	expander := search.NewExpander(seedAliases)
	toxicFilter := safety.NewDefaultToxicityFilter()
	searchService := search.NewService(store, expander, toxicFilter, responseCache, cfg.Search.AliasLang)

	calculator := coreNutrition.NewCalculator(coreNutrition.DefaultNrcReference())
	optimizer := coreNutrition.NewOptimizer(calculator, toxicFilter, cfg.Nutrition.MaxIterations, cfg.Nutrition.MinGrams)
	formulaService := coreNutrition.NewFormulaService(store, calculator, optimizer)

	common.LogInfo("Core services initialized",
		zap.Int("seed_aliases", len(seedAliases)),
		zap.Bool("cache_enabled", responseCache != nil),
		zap.String("alias_lang", cfg.Search.AliasLang),
	)

	// 全局中間件：請求超時
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", c.GetHeader("X-Request-ID")),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  "REQUEST_TIMEOUT",
				"details": gin.H{
					"timeout": timeoutDuration.String(),
				},
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck(cfg, store, cacheStats))
	router.GET("/ready", health.ReadinessCheck(store))
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		foodGroup := api.Group("/foods")
		{
			// 跨語言食材搜尋
			foodGroup.GET("/search", foodHandler.HandleFoodSearch(searchService, cfg))

			// 食材明細
			foodGroup.GET("/:id", foodHandler.HandleGetFood(store, cfg.Search.AliasLang))

			// 別名管理
			foodGroup.POST("/:id/aliases", foodHandler.HandleAddAlias(store))
		}

		api.GET("/aliases", foodHandler.HandleListAliases(store, cfg))
		api.DELETE("/aliases/:alias_id", foodHandler.HandleDeleteAlias(store))

		nutritionGroup := api.Group("/nutrition")
		{
			// 每日營養需求
			nutritionGroup.POST("/requirements", nutritionHandler.HandleRequirements(formulaService))

			// 配方計算
			nutritionGroup.POST("/formula", nutritionHandler.HandleFormula(formulaService))
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
