package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dog-nutrition-api/internal/api"
	"dog-nutrition-api/internal/api/handlers/health"
	"dog-nutrition-api/internal/core/cache"
	"dog-nutrition-api/internal/core/catalog"
	"dog-nutrition-api/internal/core/search"
	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// 載入 .env
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	// 載入設定
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("db_path", cfg.Database.Path),
		zap.String("alias_lang", cfg.Search.AliasLang),
		zap.String("cache_backend", cfg.Cache.Backend),
	)

	// 開啟食材目錄
	store, err := catalog.NewStore(cfg.Database.Path)
	if err != nil {
		common.LogFatal("Failed to open food catalog", zap.Error(err))
	}
	defer store.Close()

	// 補內建中文別名（冪等，只掛到已存在的食材）
	if _, err := store.SeedDefaultZhAliases(context.Background()); err != nil {
		common.LogWarn("Failed to seed default aliases", zap.Error(err))
	}

	// 初始化快取後端
	var responseCache search.ResponseCache
	var cacheStats health.StatsProvider
	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case "redis":
			redisCache, err := cache.NewRedisService(&cfg.Cache)
			if err != nil {
				common.LogFatal("Failed to initialize Redis cache", zap.Error(err))
			}
			defer redisCache.Close()
			responseCache = redisCache
		default:
			manager := cache.NewManager(&cfg.Cache)
			if manager == nil {
				common.LogFatal("Failed to initialize cache manager")
			}
			defer manager.Close()
			responseCache = manager
			cacheStats = manager
		}
	}

	// 設置路由
	router, err := api.SetupRouter(cfg, store, responseCache, cacheStats)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.LogError("Failed to start server",
				zap.Error(err),
			)
			os.Exit(1)
		}
	}()

	// 等待中斷信號
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo("Shutting down server...")

	// 設置關閉超時
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown",
			zap.Error(err),
		)
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
