package biz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/provider"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// DefaultPageSize 前端固定的每页作品数
	DefaultPageSize = 10

	// DefaultSearchTimeout 一次聚合搜索（所有源）的总超时
	DefaultSearchTimeout = 20 * time.Second
)

// ResultCache 聚合结果缓存，以 SearchRequest.Key() 为键
type ResultCache interface {
	// Get 返回缓存的页面；未命中或读取失败时 ok 为 false
	Get(ctx context.Context, key string) (page *types.PageResult, ok bool)

	// Set 写入页面
	Set(ctx context.Context, key string, page *types.PageResult) error
}

// SearchOptions 聚合搜索配置
type SearchOptions struct {
	PageSize      int
	SearchTimeout time.Duration
}

// SearchUseCase 多博物馆聚合搜索
type SearchUseCase struct {
	registry   *provider.Registry
	cache      ResultCache
	group      singleflight.Group
	superseder *Superseder
	pageSize   int
	timeout    time.Duration
	logger     *zap.Logger
}

// NewSearchUseCase 创建聚合搜索用例；cache 可为 nil
func NewSearchUseCase(registry *provider.Registry, cache ResultCache, opts SearchOptions, logger *zap.Logger) *SearchUseCase {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchTimeout <= 0 {
		opts.SearchTimeout = DefaultSearchTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SearchUseCase{
		registry:   registry,
		cache:      cache,
		superseder: NewSuperseder(),
		pageSize:   opts.PageSize,
		timeout:    opts.SearchTimeout,
		logger:     logger,
	}
}

// PageSize 返回固定的每页作品数
func (uc *SearchUseCase) PageSize() int {
	return uc.pageSize
}

// InFlight 尚未完成的搜索会话数
func (uc *SearchUseCase) InFlight() int {
	return uc.superseder.InFlight()
}

// Museums 返回当前启用的博物馆源（按合并顺序）
func (uc *SearchUseCase) Museums() []types.ProviderID {
	return uc.registry.IDs()
}

// Search 执行一次聚合搜索
func (uc *SearchUseCase) Search(ctx context.Context, req types.SearchRequest) (*types.PageResult, error) {
	return uc.SearchAs(ctx, "", req)
}

// SearchAs 以某个客户端身份执行聚合搜索
// 同一 clientID 的新搜索会使旧搜索返回 ErrSuperseded
func (uc *SearchUseCase) SearchAs(ctx context.Context, clientID string, req types.SearchRequest) (*types.PageResult, error) {
	req.Normalize()
	if req.IsEmpty() {
		return types.EmptyPage(req.Page), nil
	}

	sources, err := uc.activeSources(req.Museum)
	if err != nil {
		return nil, err
	}

	ctx, finish := uc.superseder.Begin(ctx, clientID)
	page, err := uc.search(ctx, req, sources)
	if finish() {
		uc.logger.Debug("search superseded",
			zap.String("client_id", clientID),
			zap.String("key", req.Key()))
		return nil, ErrSuperseded
	}
	return page, err
}

// search 先查缓存，再通过 singleflight 合并相同请求
func (uc *SearchUseCase) search(ctx context.Context, req types.SearchRequest, sources []provider.Provider) (*types.PageResult, error) {
	key := req.Key()

	if uc.cache != nil {
		if page, ok := uc.cache.Get(ctx, key); ok {
			uc.logger.Debug("search cache hit", zap.String("key", key))
			return page, nil
		}
	}

	// 共享的抓取不跟随单个调用方取消，只受总超时约束
	ch := uc.group.DoChan(key, func() (interface{}, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.timeout)
		defer cancel()

		page, err := uc.aggregate(workCtx, req, sources)
		if err != nil {
			return nil, err
		}

		if uc.cache != nil && !page.Degraded() {
			if err := uc.cache.Set(workCtx, key, page); err != nil {
				uc.logger.Warn("failed to cache search page",
					zap.String("key", key),
					zap.Error(err))
			}
		}
		return page, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*types.PageResult), nil
	}
}

// aggregate 并发调用所有源（settle-all），合并、排序并截取一页
func (uc *SearchUseCase) aggregate(ctx context.Context, req types.SearchRequest, sources []provider.Provider) (*types.PageResult, error) {
	perSource := SourceCap(uc.pageSize, len(sources))
	partials := make([]*types.PartialPageResult, len(sources))

	start := time.Now()
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src provider.Provider) {
			defer wg.Done()
			partials[i] = uc.safeFetch(ctx, src, &types.FetchRequest{
				Query:          req.Query,
				Page:           req.Page,
				SortBy:         req.SortBy,
				Type:           req.Type,
				ResultsPerPage: perSource,
			}, perSource)
		}(i, src)
	}
	wg.Wait()

	for _, partial := range partials {
		if partial.Err != nil && types.IsFatal(partial.Err) {
			return nil, fmt.Errorf("search %s: %w", partial.Source, partial.Err)
		}
	}

	page := MergePages(partials, req.SortBy, uc.pageSize, req.Page)

	uc.logger.Info("museum search",
		zap.String("query", req.Query),
		zap.Int("page", req.Page),
		zap.String("sort", string(req.SortBy)),
		zap.String("museum", req.Museum),
		zap.Int("sources", len(sources)),
		zap.Int("returned", len(page.Data)),
		zap.Int("total_results", page.TotalResults),
		zap.Duration("took", time.Since(start)))

	return page, nil
}

// safeFetch 调用单个源；非致命错误降级为空结果，结果截断到 limit
func (uc *SearchUseCase) safeFetch(ctx context.Context, src provider.Provider, req *types.FetchRequest, limit int) (result *types.PartialPageResult) {
	id := src.GetID()

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("museum provider panic",
				zap.String("museum", string(id)),
				zap.Any("panic", r))
			result = types.EmptyPartial(id, fmt.Errorf("provider panic: %v", r))
		}
	}()

	partial, err := src.Fetch(ctx, req)
	if err != nil {
		if !types.IsFatal(err) {
			uc.logger.Warn("museum provider failed, using empty result",
				zap.String("museum", string(id)),
				zap.Error(err))
		}
		return types.EmptyPartial(id, err)
	}
	if partial == nil {
		return types.EmptyPartial(id, nil)
	}

	partial.Source = id
	if partial.Artworks == nil {
		partial.Artworks = []*types.Artwork{}
	}
	if limit > 0 && len(partial.Artworks) > limit {
		partial.Artworks = partial.Artworks[:limit]
	}
	return partial
}

// activeSources 根据 museum 参数选择源
func (uc *SearchUseCase) activeSources(museum string) ([]provider.Provider, error) {
	if museum == types.MuseumBoth {
		all := uc.registry.All()
		if len(all) == 0 {
			return nil, ErrNoActiveMuseum
		}
		return all, nil
	}

	src, ok := uc.registry.Get(types.ProviderID(museum))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMuseum, museum)
	}
	return []provider.Provider{src}, nil
}
