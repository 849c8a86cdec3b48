package biz

import (
	"context"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/redis"
)

// RevokedTokenKeyPrefix 已注销 token 的 Redis key 前缀
const RevokedTokenKeyPrefix = "auth:revoked:"

// TokenBlacklist access token 黑名单（按 jti）
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenBlacklist Redis 实现，key 在 token 过期后自动删除
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist 创建黑名单
func NewRedisTokenBlacklist(client *redis.Client) TokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// Revoke 注销 token
func (b *RedisTokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, RevokedTokenKeyPrefix+jti, "1", ttl)
}

// IsRevoked 是否已注销
func (b *RedisTokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	n, err := b.client.Exists(ctx, RevokedTokenKeyPrefix+jti)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
