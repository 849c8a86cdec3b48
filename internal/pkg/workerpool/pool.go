package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var (
	ErrPoolClosed = errors.New("worker pool is closed")
)

// ============= 配置 =============

// Config Worker Pool 配置
type Config struct {
	Size           int           // worker 数量
	ExpiryDuration time.Duration // 空闲 worker 回收时间
	Nonblocking    bool          // 满载时直接返回错误而不是等待
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Size:           64,
		ExpiryDuration: 10 * time.Second,
		Nonblocking:    false,
	}
}

// ============= 统计信息 =============

// Statistics 统计信息
type Statistics struct {
	Capacity  int   `json:"capacity"`  // 池容量
	Idle      int   `json:"idle"`      // 空闲 worker
	Submitted int64 `json:"submitted"` // 已提交
	Completed int64 `json:"completed"` // 已完成
	Failed    int64 `json:"failed"`    // 提交失败
	Running   int64 `json:"running"`   // 运行中
}

type counters struct {
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	running   atomic.Int64
}

func (c *counters) snapshot() Statistics {
	return Statistics{
		Submitted: c.submitted.Load(),
		Completed: c.completed.Load(),
		Failed:    c.failed.Load(),
		Running:   c.running.Load(),
	}
}

// ============= Worker Pool =============

// Pool 基于 ants 的共享 goroutine 池
// 用于博物馆详情接口等需要大量并发 HTTP 调用的场景
type Pool struct {
	pool   *ants.Pool
	config *Config
	stats  counters
	closed atomic.Bool
	logger *zap.Logger
}

// New 创建 Worker Pool
func New(config *Config, logger *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Size <= 0 {
		return nil, fmt.Errorf("invalid pool size: %d", config.Size)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []ants.Option{
		ants.WithNonblocking(config.Nonblocking),
		ants.WithPanicHandler(func(err interface{}) {
			logger.Error("worker panic", zap.Any("error", err))
		}),
	}
	if config.ExpiryDuration > 0 {
		opts = append(opts, ants.WithExpiryDuration(config.ExpiryDuration))
	}

	antsPool, err := ants.NewPool(config.Size, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}

	return &Pool{
		pool:   antsPool,
		config: config,
		logger: logger,
	}, nil
}

// Submit 提交任务
func (p *Pool) Submit(task func()) error {
	if p.closed.Load() {
		return ErrPoolClosed
	}

	p.stats.submitted.Add(1)
	err := p.pool.Submit(func() {
		p.stats.running.Add(1)
		defer func() {
			p.stats.running.Add(-1)
			p.stats.completed.Add(1)
		}()
		task()
	})
	if err != nil {
		p.stats.failed.Add(1)
		if errors.Is(err, ants.ErrPoolClosed) {
			return ErrPoolClosed
		}
		return fmt.Errorf("submit task: %w", err)
	}
	return nil
}

// RunAll 并发执行 n 个任务并等待全部结束（不会因单个任务失败而提前返回）
// 返回值只表示提交是否失败；无法提交的任务会在当前 goroutine 中执行
func (p *Pool) RunAll(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	var (
		wg        sync.WaitGroup
		submitErr error
	)

	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		err := p.Submit(func() {
			defer wg.Done()
			fn(ctx, i)
		})
		if err != nil {
			if submitErr == nil {
				submitErr = err
				p.logger.Warn("worker pool rejected task, running inline", zap.Error(err))
			}
			fn(ctx, i)
			wg.Done()
		}
	}

	wg.Wait()
	return submitErr
}

// ============= 公共方法 =============

// Stats 获取统计信息
func (p *Pool) Stats() Statistics {
	stats := p.stats.snapshot()
	stats.Capacity = p.pool.Cap()
	stats.Idle = p.pool.Free()
	return stats
}

// Shutdown 关闭
func (p *Pool) Shutdown() {
	if p.closed.Swap(true) {
		return
	}
	p.pool.Release()
}
