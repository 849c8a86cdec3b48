package service

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/response"
	"github.com/lk2023060901/exhibition-curator-backend/internal/user/biz"
	"go.uber.org/zap"
)

type UserService struct {
	uc     *biz.UserUseCase
	logger *logger.Logger
}

func NewUserService(uc *biz.UserUseCase, logger *logger.Logger) *UserService {
	return &UserService{
		uc:     uc,
		logger: logger,
	}
}

type UpdateProfileRequest struct {
	FullName  string  `json:"full_name" binding:"max=100"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=1024"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Provider  string  `json:"provider"`
	CreatedAt string  `json:"created_at"`
}

// GetMe 当前用户信息
func (s *UserService) GetMe(c *gin.Context) {
	user, err := s.uc.GetUser(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, s.toResponse(user))
}

// UpdateMe 更新当前用户资料
func (s *UserService) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := s.uc.UpdateProfile(c.Request.Context(), c.GetString("user_id"), req.FullName, req.AvatarURL)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, s.toResponse(user))
}

func (s *UserService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrUserNotFound):
		response.ErrorWithCode(c, apperrors.ErrUserNotFound)
	case errors.Is(err, biz.ErrInvalidFullName), errors.Is(err, biz.ErrInvalidAvatarURL):
		response.ErrorWithCode(c, apperrors.ErrUserInvalidInput, err.Error())
	default:
		s.logger.Error("user request failed", zap.Error(err))
		response.HandleError(c, err)
	}
}

func (s *UserService) toResponse(user *biz.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Provider:  user.Provider,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func (s *UserService) RegisterRoutes(r *gin.RouterGroup, auth gin.HandlerFunc) {
	users := r.Group("/users", auth)
	{
		users.GET("/me", s.GetMe)
		users.PATCH("/me", s.UpdateMe)
	}
}
