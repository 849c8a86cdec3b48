package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/exhibition-curator-backend/internal/auth"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/response"
	"go.uber.org/zap"
)

// 上下文 key
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextClaims = "claims"
)

// RevocationChecker 检查 token 是否已注销
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// JWTAuth JWT 认证中间件
func JWTAuth(jwtManager *auth.JWTManager, revoked RevocationChecker, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, apperrors.ErrUnauthorized, "missing authorization")
			c.Abort()
			return
		}

		token, err := auth.ExtractTokenFromHeader(authHeader)
		if err != nil {
			response.ErrorWithCode(c, apperrors.ErrUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		// 验证 token
		claims, err := jwtManager.VerifyAccessToken(token)
		if err != nil {
			log.Warn("invalid access token",
				zap.Error(err),
				zap.String("ip", c.ClientIP()))
			response.ErrorWithCode(c, apperrors.ErrAuthInvalidToken)
			c.Abort()
			return
		}

		if isRevoked(c, revoked, claims, log) {
			response.ErrorWithCode(c, apperrors.ErrAuthInvalidToken)
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth 可选的 JWT 认证中间件（token 无效不拦截）
func OptionalJWTAuth(jwtManager *auth.JWTManager, revoked RevocationChecker, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		token, err := auth.ExtractTokenFromHeader(authHeader)
		if err != nil {
			c.Next()
			return
		}

		claims, err := jwtManager.VerifyAccessToken(token)
		if err != nil || isRevoked(c, revoked, claims, log) {
			c.Next()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// isRevoked Redis 故障时降级放行
func isRevoked(c *gin.Context, revoked RevocationChecker, claims *auth.JWTClaims, log *logger.Logger) bool {
	if revoked == nil {
		return false
	}
	ok, err := revoked.IsRevoked(c.Request.Context(), claims.TokenID())
	if err != nil {
		log.Error("token revocation check failed", zap.Error(err))
		return false
	}
	return ok
}

func setIdentity(c *gin.Context, claims *auth.JWTClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextClaims, claims)
	c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(ContextUserID)
	return userID, userID != ""
}

// GetClaims 从上下文获取 JWT 声明
func GetClaims(c *gin.Context) (*auth.JWTClaims, bool) {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*auth.JWTClaims)
	return claims, ok
}

// CORS 跨域中间件；allowedOrigins 为空时允许任意来源
func CORS(allowedOrigins ...string) gin.HandlerFunc {
	allowAll := len(allowedOrigins) == 0
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		method := c.Request.Method
		origin := c.Request.Header.Get("Origin")

		if origin != "" {
			if _, ok := allowed[origin]; allowAll || ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, PATCH")
				c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Client-ID, X-Request-ID")
				c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After")
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		if method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
