package service

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/exhibition-curator-backend/internal/auth/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/auth/middleware"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/response"
	"go.uber.org/zap"
)

// AuthService 认证服务
type AuthService struct {
	authUC *biz.AuthUseCase
	logger *logger.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(authUC *biz.AuthUseCase, log *logger.Logger) *AuthService {
	return &AuthService{
		authUC: authUC,
		logger: log,
	}
}

// SignUp 邮箱注册
func (s *AuthService) SignUp(c *gin.Context) {
	var req SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := s.authUC.SignUp(c.Request.Context(), req.Email, req.Password, req.FullName, c.ClientIP())
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Created(c, toAuthResponse(result))
}

// Login 邮箱密码登录
func (s *AuthService) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ip := c.ClientIP()
	result, err := s.authUC.Login(c.Request.Context(), req.Email, req.Password, ip)
	if err != nil {
		s.logger.Warn("login failed", zap.Error(err), zap.String("ip", ip))
		s.handleError(c, err)
		return
	}

	response.Success(c, toAuthResponse(result))
}

// RefreshToken 刷新 access token
func (s *AuthService) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := s.authUC.RefreshAccessToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, gin.H{"tokens": tokens})
}

// GoogleURL 获取 Google 授权地址
func (s *AuthService) GoogleURL(c *gin.Context) {
	var q GoogleURLQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	url, err := s.authUC.GoogleAuthURL(c.Request.Context(), q.RedirectTo)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, gin.H{"url": url})
}

// GoogleCallback Google 授权回调
func (s *AuthService) GoogleCallback(c *gin.Context) {
	var req GoogleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := s.authUC.GoogleCallback(c.Request.Context(), req.Code, req.State, c.ClientIP())
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, toAuthResponse(result))
}

// Session 当前会话
func (s *AuthService) Session(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	session, err := s.authUC.Session(c.Request.Context(), userID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, session)
}

// SignOut 注销
func (s *AuthService) SignOut(c *gin.Context) {
	claims, ok := middleware.GetClaims(c)
	if !ok {
		response.ErrorWithCode(c, apperrors.ErrUnauthorized)
		return
	}

	if err := s.authUC.SignOut(c.Request.Context(), claims); err != nil {
		s.handleError(c, err)
		return
	}

	response.Success(c, nil)
}

// handleError 统一错误处理
func (s *AuthService) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, biz.ErrInvalidCredentials):
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidCredentials)
	case errors.Is(err, biz.ErrAccountLocked):
		response.ErrorWithCode(c, apperrors.ErrForbidden, "account locked, try again in 15 minutes")
	case errors.Is(err, biz.ErrEmailAlreadyExists):
		response.ErrorWithCode(c, apperrors.ErrAuthEmailExists)
	case errors.Is(err, biz.ErrInvalidEmail):
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidEmail)
	case errors.Is(err, biz.ErrWeakPassword):
		response.ErrorWithCode(c, apperrors.ErrAuthWeakPassword)
	case errors.Is(err, biz.ErrInvalidToken):
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidToken)
	case errors.Is(err, biz.ErrUserNotFound):
		response.ErrorWithCode(c, apperrors.ErrAuthUserNotFound)
	case errors.Is(err, biz.ErrInvalidOAuthState):
		response.ErrorWithCode(c, apperrors.ErrAuthInvalidState)
	case errors.Is(err, biz.ErrOAuthFailed), errors.Is(err, biz.ErrOAuthEmailUnverified):
		response.ErrorWithCode(c, apperrors.ErrAuthOAuthFailed, err.Error())
	case errors.Is(err, biz.ErrOAuthNotConfigured):
		response.ErrorWithCode(c, apperrors.ErrServiceUnavail, "google sign-in is not configured")
	default:
		s.logger.Error("auth request failed", zap.Error(err))
		response.HandleError(c, err)
	}
}

// RegisterRoutes 注册路由
func (s *AuthService) RegisterRoutes(r *gin.RouterGroup, requireAuth, loginLimiter gin.HandlerFunc) {
	auth := r.Group("/auth")
	{
		// 公开端点
		auth.POST("/signup", loginLimiter, s.SignUp)
		auth.POST("/login", loginLimiter, s.Login)
		auth.POST("/refresh", s.RefreshToken)
		auth.GET("/google/url", s.GoogleURL)
		auth.POST("/google/callback", s.GoogleCallback)

		// 需要认证的端点
		auth.GET("/session", requireAuth, s.Session)
		auth.POST("/signout", requireAuth, s.SignOut)
	}
}
