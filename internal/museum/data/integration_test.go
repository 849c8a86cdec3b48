//go:build integration

package data

import (
	"context"
	"testing"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisResultCacheRoundTrip(t *testing.T) {
	cfg := redis.DefaultConfig()
	client, err := redis.New(cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	prefix := "test:museum:" + time.Now().Format("150405.000") + ":"
	cache := NewRedisResultCache(client, &ResultCacheConfig{TTL: time.Minute, Prefix: prefix}, logger.Nop())
	ctx := context.Background()
	key := types.SearchRequest{Query: "sunflowers"}.Key()

	_, ok := cache.Get(ctx, key)
	assert.False(t, ok)

	page := &types.PageResult{
		Data:         []*types.Artwork{{ID: "met-1", Title: "Sunflowers", Source: types.ProviderMet, Dating: types.IntPtr(1887)}},
		TotalResults: 1,
		TotalPages:   1,
		CurrentPage:  1,
	}
	require.NoError(t, cache.Set(ctx, key, page))

	got, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, 1, got.TotalResults)
	require.Len(t, got.Data, 1)
	assert.Equal(t, "Sunflowers", got.Data[0].Title)
	assert.Equal(t, 1887, got.Data[0].DatingOrZero())
}
