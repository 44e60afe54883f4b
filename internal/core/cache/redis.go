package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"dog-nutrition-api/internal/infrastructure/config"
	"dog-nutrition-api/internal/pkg/common"
)

// RedisService Redis 快取服務（多副本部署時共用搜尋結果）
type RedisService struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewRedisService 創建 Redis 快取服務並測試連線
func NewRedisService(cfg *config.CacheConfig) (*RedisService, error) {
	if !cfg.Enabled {
		return &RedisService{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisService{
		client: client,
		config: cfg,
	}, nil
}

// Get 讀取快取值，未命中回傳 ErrCacheDisabled
func (s *RedisService) Get(ctx context.Context, key string) (string, error) {
	if !s.config.Enabled || s.client == nil {
		return "", common.ErrCacheDisabled
	}

	value, err := s.client.Get(ctx, "search:"+hashKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", common.ErrCacheDisabled
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return value, nil
}

// Set 寫入快取值
func (s *RedisService) Set(ctx context.Context, key, value string) error {
	if !s.config.Enabled || s.client == nil {
		return nil
	}

	if err := s.client.Set(ctx, "search:"+hashKey(key), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連線
func (s *RedisService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}
