package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/workerpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker(t *testing.T) {
	h := &HealthChecker{checks: map[string]CheckFunc{}, timeout: time.Second}
	h.Register("postgres", func(ctx context.Context) error { return nil })
	h.Register("redis", func(ctx context.Context) error { return nil })

	status, ok := h.Check(context.Background())
	assert.True(t, ok)
	assert.Equal(t, map[string]string{"postgres": "ok", "redis": "ok"}, status)

	h.Register("redis", func(ctx context.Context) error { return errors.New("connection refused") })
	status, ok = h.Check(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "ok", status["postgres"])
	assert.Equal(t, "connection refused", status["redis"])
}

func TestHealthCheckerDeadline(t *testing.T) {
	h := &HealthChecker{checks: map[string]CheckFunc{}, timeout: 50 * time.Millisecond}
	h.Register("slow", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	})

	_, ok := h.Check(context.Background())
	assert.True(t, ok)
}

func TestHealthCheckerStats(t *testing.T) {
	pool, err := workerpool.New(&workerpool.Config{Size: 3}, nil)
	require.NoError(t, err)
	defer pool.Shutdown()

	h := &HealthChecker{checks: map[string]CheckFunc{}, timeout: time.Second}
	h.RegisterStats("worker_pool", func() any { return pool.Stats() })
	h.RegisterStats("search", func() any { return map[string]int{"in_flight": 2} })

	stats := h.Stats()
	require.Len(t, stats, 2)

	poolStats, ok := stats["worker_pool"].(workerpool.Statistics)
	require.True(t, ok)
	assert.Equal(t, 3, poolStats.Capacity)
	assert.Equal(t, map[string]int{"in_flight": 2}, stats["search"])

	// 指标不参与健康判断
	_, healthy := h.Check(context.Background())
	assert.True(t, healthy)
}
