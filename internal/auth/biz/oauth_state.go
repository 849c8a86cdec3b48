package biz

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/auth"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/redis"
)

const (
	// OAuthStateTTL OAuth state 的过期时间（10分钟）
	OAuthStateTTL = 10 * time.Minute

	// OAuthStateKeyPrefix Redis key 前缀
	OAuthStateKeyPrefix = "oauth_state:"
)

// OAuthState 发起第三方登录时保存的 state
type OAuthState struct {
	State      string    `json:"state"`
	Provider   string    `json:"provider"`
	RedirectTo string    `json:"redirect_to,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// OAuthStateRepo OAuth state 仓储接口
type OAuthStateRepo interface {
	// Create 保存 state
	Create(ctx context.Context, state *OAuthState) error

	// Consume 读取并删除 state（一次性）
	Consume(ctx context.Context, state string) (*OAuthState, error)
}

// RedisOAuthStateRepo Redis 实现
type RedisOAuthStateRepo struct {
	client *redis.Client
}

// NewRedisOAuthStateRepo 创建 Redis OAuth state repo
func NewRedisOAuthStateRepo(client *redis.Client) OAuthStateRepo {
	return &RedisOAuthStateRepo{
		client: client,
	}
}

// Create 保存 state
func (r *RedisOAuthStateRepo) Create(ctx context.Context, state *OAuthState) error {
	return r.client.SetJSON(ctx, OAuthStateKeyPrefix+state.State, state, OAuthStateTTL)
}

// Consume 读取并删除 state
func (r *RedisOAuthStateRepo) Consume(ctx context.Context, state string) (*OAuthState, error) {
	key := OAuthStateKeyPrefix + state

	data, err := r.client.GetDel(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, ErrInvalidOAuthState
		}
		return nil, fmt.Errorf("failed to get oauth state: %w", err)
	}

	var s OAuthState
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal oauth state: %w", err)
	}

	// 检查是否过期
	if time.Now().After(s.ExpiresAt) {
		return nil, ErrInvalidOAuthState
	}

	return &s, nil
}

// NewOAuthState 创建新的 state
func NewOAuthState(provider, redirectTo string) (*OAuthState, error) {
	token, err := auth.GenerateRandomToken(24)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	return &OAuthState{
		State:      token,
		Provider:   provider,
		RedirectTo: redirectTo,
		CreatedAt:  now,
		ExpiresAt:  now.Add(OAuthStateTTL),
	}, nil
}
