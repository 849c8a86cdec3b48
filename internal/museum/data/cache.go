package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/redis"
	"go.uber.org/zap"
)

const (
	// DefaultCacheTTL 搜索结果缓存时间
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCachePrefix 缓存键前缀
	DefaultCachePrefix = "museum:search:"
)

// RedisResultCache 基于 Redis 的聚合结果缓存
type RedisResultCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	logger *logger.Logger
}

// ResultCacheConfig 缓存配置
type ResultCacheConfig struct {
	TTL    time.Duration // 缓存过期时间
	Prefix string        // 缓存键前缀
}

// NewRedisResultCache 创建结果缓存
func NewRedisResultCache(client *redis.Client, cfg *ResultCacheConfig, lgr *logger.Logger) biz.ResultCache {
	if cfg == nil {
		cfg = &ResultCacheConfig{}
	}
	if cfg.TTL == 0 {
		cfg.TTL = DefaultCacheTTL
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultCachePrefix
	}

	log := lgr
	if log == nil {
		log = logger.L()
	}

	return &RedisResultCache{
		client: client,
		ttl:    cfg.TTL,
		prefix: cfg.Prefix,
		logger: log,
	}
}

// Get 读取缓存
func (c *RedisResultCache) Get(ctx context.Context, key string) (*types.PageResult, bool) {
	var page types.PageResult
	if err := c.client.GetJSON(ctx, c.cacheKey(key), &page); err != nil {
		if !redis.IsNil(err) {
			c.logger.Warn("search cache read failed", zap.Error(err))
		}
		return nil, false
	}
	return &page, true
}

// Set 写入缓存
func (c *RedisResultCache) Set(ctx context.Context, key string, page *types.PageResult) error {
	if page == nil {
		return fmt.Errorf("nil search page")
	}
	return c.client.SetJSON(ctx, c.cacheKey(key), page, c.ttl)
}

// cacheKey 对规范化请求键做哈希，避免超长或含特殊字符的 Redis 键
func (c *RedisResultCache) cacheKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return c.prefix + hex.EncodeToString(sum[:])
}
