package service

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/exhibition-curator-backend/internal/collection/biz"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/response"
	userbiz "github.com/lk2023060901/exhibition-curator-backend/internal/user/biz"
	"go.uber.org/zap"
)

// UserReader 个人主页所需的用户信息来源
type UserReader interface {
	GetUser(ctx context.Context, id string) (*userbiz.User, error)
}

// CollectionService 收藏夹 HTTP 服务
type CollectionService struct {
	uc     *biz.CollectionUseCase
	users  UserReader
	logger *logger.Logger
}

// NewCollectionService 创建收藏夹服务
func NewCollectionService(uc *biz.CollectionUseCase, users UserReader, logger *logger.Logger) *CollectionService {
	return &CollectionService{
		uc:     uc,
		users:  users,
		logger: logger,
	}
}

// ListCollections 列出当前用户的收藏夹
func (s *CollectionService) ListCollections(c *gin.Context) {
	userID := c.GetString("user_id")

	collections, err := s.uc.ListCollections(c.Request.Context(), userID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, gin.H{"collections": toCollectionResponses(collections)})
}

// CreateCollection 创建收藏夹，可同时加入第一件作品
func (s *CollectionService) CreateCollection(c *gin.Context) {
	var req CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	var (
		collection *biz.Collection
		err        error
	)
	if req.Artwork != nil {
		collection, err = s.uc.CreateCollectionWithArtwork(ctx, userID, req.Name, req.Artwork)
	} else {
		collection, err = s.uc.CreateCollection(ctx, userID, req.Name)
	}
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Created(c, toCollectionResponse(collection))
}

// AddArtwork 将作品加入收藏夹
func (s *CollectionService) AddArtwork(c *gin.Context) {
	var req AddArtworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	item, err := s.uc.AddArtwork(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req.Artwork)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Created(c, &MembershipResponse{
		CollectionID: item.CollectionID,
		ArtworkID:    item.ArtworkID,
		CreatedAt:    item.CreatedAt,
	})
}

// GetProfile 个人主页：用户信息 + 收藏夹（含作品）
func (s *CollectionService) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	ctx := c.Request.Context()

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, userbiz.ErrUserNotFound) {
			response.ErrorWithCode(c, apperrors.ErrUserNotFound)
			return
		}
		s.handleError(c, err)
		return
	}

	collections, err := s.uc.GetProfileCollections(ctx, userID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, &ProfileResponse{
		User: &ProfileUser{
			ID:        user.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			AvatarURL: user.AvatarURL,
		},
		Collections: toCollectionResponses(collections),
	})
}

// handleError 统一错误处理
func (s *CollectionService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrCollectionNameRequired):
		response.ErrorWithCode(c, apperrors.ErrCollectionNameRequired)
	case errors.Is(err, biz.ErrCollectionNameTooLong):
		response.ErrorWithCode(c, apperrors.ErrCollectionInvalidInput, err.Error())
	case errors.Is(err, biz.ErrInvalidArtwork):
		response.ErrorWithCode(c, apperrors.ErrCollectionInvalidInput, err.Error())
	case errors.Is(err, biz.ErrCollectionNotFound):
		response.ErrorWithCode(c, apperrors.ErrCollectionNotFound)
	case errors.Is(err, biz.ErrArtworkAlreadyInCollection):
		response.ErrorWithCode(c, apperrors.ErrCollectionDuplicate)
	case apperrors.Is(err, apperrors.ErrDatabase):
		s.logger.Error("collection persistence failed", zap.Error(err))
		response.HandleError(c, err)
	default:
		s.logger.Error("internal error", zap.Error(err))
		response.InternalError(c, "internal server error")
	}
}

// RegisterRoutes 注册路由（需 JWT 认证）
func (s *CollectionService) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	collections := r.Group("/collections", auth)
	{
		collections.GET("", s.ListCollections)
		collections.POST("", s.CreateCollection)
		collections.POST("/:id/artworks", s.AddArtwork)
	}
	r.GET("/profile", auth, s.GetProfile)
}
