package service

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/exhibition-curator-backend/internal/auth/middleware"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/provider"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/response"
	"go.uber.org/zap"
)

// ClientIDHeader 匿名客户端用于标识自身搜索会话的请求头
const ClientIDHeader = "X-Client-ID"

// MuseumService 博物馆搜索 HTTP 服务
type MuseumService struct {
	searchUC     *biz.SearchUseCase
	suggestionUC *biz.SuggestionUseCase
	registry     *provider.Registry
	logger       *logger.Logger
}

// NewMuseumService 创建博物馆搜索服务
func NewMuseumService(
	searchUC *biz.SearchUseCase,
	suggestionUC *biz.SuggestionUseCase,
	registry *provider.Registry,
	logger *logger.Logger,
) *MuseumService {
	return &MuseumService{
		searchUC:     searchUC,
		suggestionUC: suggestionUC,
		registry:     registry,
		logger:       logger,
	}
}

// Search 聚合搜索
// @Summary 多博物馆聚合搜索
// @Tags museum
// @Produce json
// @Param q query string true "搜索词"
// @Param page query int false "页码（从 1 开始）"
// @Param sortBy query string false "relevance|chronologic|achronologic|artist"
// @Param type query string false "painting|drawing|sculpture|photograph|print"
// @Param museum query string false "both|rijksmuseum|harvard|met|artic"
// @Router /search [get]
func (s *MuseumService) Search(c *gin.Context) {
	var query SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	page, err := s.searchUC.SearchAs(c.Request.Context(), clientID(c), query.toRequest())
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, page)
}

// Museums 返回启用的博物馆源
func (s *MuseumService) Museums(c *gin.Context) {
	providers := s.registry.All()
	museums := make([]*MuseumInfo, 0, len(providers))
	for _, p := range providers {
		museums = append(museums, &MuseumInfo{
			ID:        p.GetID(),
			Name:      p.GetName(),
			Available: p.IsAvailable(c.Request.Context()),
		})
	}

	response.Success(c, &MuseumsResponse{
		Museums:  museums,
		PageSize: s.searchUC.PageSize(),
	})
}

// Suggestions 返回推荐搜索词
func (s *MuseumService) Suggestions(c *gin.Context) {
	response.Success(c, gin.H{"groups": s.suggestionUC.List()})
}

// handleError 统一错误处理
func (s *MuseumService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrUnknownMuseum):
		response.ErrorWithCode(c, apperrors.ErrMuseumUnknown, c.Query("museum"))
	case errors.Is(err, biz.ErrNoActiveMuseum):
		response.ErrorWithCode(c, apperrors.ErrMuseumUnavailable)
	case errors.Is(err, biz.ErrMissingAPIKey):
		s.logger.Error("museum API key missing", zap.Error(err))
		response.ErrorWithCode(c, apperrors.ErrMuseumNotConfigured)
	case errors.Is(err, biz.ErrSuperseded), errors.Is(err, context.Canceled):
		response.ErrorWithCode(c, apperrors.ErrMuseumSuperseded)
	case errors.Is(err, context.DeadlineExceeded):
		response.ErrorWithCode(c, apperrors.ErrServiceUnavail, "search timed out")
	default:
		s.logger.Error("search failed", zap.Error(err))
		response.InternalError(c, "internal server error")
	}
}

// clientID 已登录用户按用户 ID，匿名用户按 X-Client-ID 区分搜索会话
func clientID(c *gin.Context) string {
	if userID := c.GetString(middleware.ContextUserID); userID != "" {
		return "user:" + userID
	}
	if id := c.GetHeader(ClientIDHeader); id != "" {
		return "client:" + id
	}
	return ""
}

// RegisterRoutes 注册路由；optionalAuth 用于识别已登录用户，limiters 只作用于 /search
func (s *MuseumService) RegisterRoutes(r *gin.RouterGroup, optionalAuth gin.HandlerFunc, limiters ...gin.HandlerFunc) {
	handlers := append([]gin.HandlerFunc{optionalAuth}, limiters...)
	r.GET("/search", append(handlers, s.Search)...)
	r.GET("/museums", s.Museums)
	r.GET("/suggestions", s.Suggestions)
}
