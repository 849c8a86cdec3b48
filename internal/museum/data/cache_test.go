package data

import (
	"strings"
	"testing"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
)

func TestNewRedisResultCacheDefaults(t *testing.T) {
	cache := NewRedisResultCache(nil, nil, logger.Nop()).(*RedisResultCache)
	assert.Equal(t, DefaultCacheTTL, cache.ttl)
	assert.Equal(t, DefaultCachePrefix, cache.prefix)

	cache = NewRedisResultCache(nil, &ResultCacheConfig{TTL: time.Minute, Prefix: "t:"}, logger.Nop()).(*RedisResultCache)
	assert.Equal(t, time.Minute, cache.ttl)
	assert.Equal(t, "t:", cache.prefix)
}

func TestCacheKey(t *testing.T) {
	cache := NewRedisResultCache(nil, nil, logger.Nop()).(*RedisResultCache)

	a := types.SearchRequest{Query: "Night Watch"}
	b := types.SearchRequest{Query: " night  watch", Museum: "BOTH"}
	c := types.SearchRequest{Query: "night watch", Page: 2}

	keyA := cache.cacheKey(a.Key())
	assert.True(t, strings.HasPrefix(keyA, DefaultCachePrefix))
	assert.Len(t, keyA, len(DefaultCachePrefix)+64)
	assert.Equal(t, keyA, cache.cacheKey(b.Key()))
	assert.NotEqual(t, keyA, cache.cacheKey(c.Key()))
}

func TestSetRejectsNilPage(t *testing.T) {
	cache := NewRedisResultCache(nil, nil, logger.Nop())
	assert.Error(t, cache.Set(t.Context(), "k", nil))
}
