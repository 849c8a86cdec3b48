package server

import (
	"context"
	"sort"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/data"
	museumbiz "github.com/lk2023060901/exhibition-curator-backend/internal/museum/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/workerpool"
)

// CheckFunc 单个依赖的健康检查
type CheckFunc func(ctx context.Context) error

// StatsFunc 运行时指标快照，只用于展示，不影响健康状态
type StatsFunc func() any

// HealthChecker 汇总数据库、Redis 等依赖的状态
type HealthChecker struct {
	checks  map[string]CheckFunc
	stats   map[string]StatsFunc
	timeout time.Duration
}

// NewHealthChecker 检查 PostgreSQL 与 Redis，并附带 worker pool 与搜索会话指标
func NewHealthChecker(d *data.Data, pool *workerpool.Pool, search *museumbiz.SearchUseCase) *HealthChecker {
	h := &HealthChecker{
		checks:  make(map[string]CheckFunc),
		stats:   make(map[string]StatsFunc),
		timeout: 2 * time.Second,
	}
	h.Register("postgres", d.DB.HealthCheck)
	h.Register("redis", d.Redis.Ping)
	if pool != nil {
		h.RegisterStats("worker_pool", func() any { return pool.Stats() })
	}
	if search != nil {
		h.RegisterStats("search", func() any {
			return map[string]int{"in_flight": search.InFlight()}
		})
	}
	return h
}

// Register 添加检查项
func (h *HealthChecker) Register(name string, check CheckFunc) {
	h.checks[name] = check
}

// RegisterStats 添加指标项
func (h *HealthChecker) RegisterStats(name string, stats StatsFunc) {
	if h.stats == nil {
		h.stats = make(map[string]StatsFunc)
	}
	h.stats[name] = stats
}

// Stats 收集所有指标快照
func (h *HealthChecker) Stats() map[string]any {
	out := make(map[string]any, len(h.stats))
	for name, fn := range h.stats {
		out[name] = fn()
	}
	return out
}

// Check 依次执行所有检查，返回每项状态以及整体是否健康
func (h *HealthChecker) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	return status, healthy
}
