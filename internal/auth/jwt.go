package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT 默认配置
const (
	AccessTokenDuration  = 1 * time.Hour       // Access Token 有效期
	RefreshTokenDuration = 14 * 24 * time.Hour // Refresh Token 有效期（14天）

	DefaultIssuer = "exhibition-curator"
)

var (
	// ErrInvalidAuthHeader Authorization header 格式错误
	ErrInvalidAuthHeader = errors.New("invalid authorization header format")

	// ErrInvalidToken token 无效或已过期
	ErrInvalidToken = errors.New("invalid or expired token")
)

// JWTClaims JWT 声明
type JWTClaims struct {
	UserID string `json:"user_id"` // UUID
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenID 返回 jti
func (c *JWTClaims) TokenID() string {
	return c.ID
}

// Remaining token 剩余有效时间
func (c *JWTClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// JWTManager JWT 管理器
type JWTManager struct {
	secretKey   []byte
	issuer      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	currentTime func() time.Time
}

// JWTOption JWT 管理器选项
type JWTOption func(*JWTManager)

// WithIssuer 设置签发者
func WithIssuer(issuer string) JWTOption {
	return func(m *JWTManager) {
		if issuer != "" {
			m.issuer = issuer
		}
	}
}

// WithAccessTTL 设置 Access Token 有效期
func WithAccessTTL(d time.Duration) JWTOption {
	return func(m *JWTManager) {
		if d > 0 {
			m.accessTTL = d
		}
	}
}

// WithRefreshTTL 设置 Refresh Token 有效期
func WithRefreshTTL(d time.Duration) JWTOption {
	return func(m *JWTManager) {
		if d > 0 {
			m.refreshTTL = d
		}
	}
}

// NewJWTManager 创建 JWT 管理器
func NewJWTManager(secretKey string, opts ...JWTOption) *JWTManager {
	m := &JWTManager{
		secretKey:   []byte(secretKey),
		issuer:      DefaultIssuer,
		accessTTL:   AccessTokenDuration,
		refreshTTL:  RefreshTokenDuration,
		currentTime: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AccessTTL Access Token 有效期
func (m *JWTManager) AccessTTL() time.Duration {
	return m.accessTTL
}

// RefreshTTL Refresh Token 有效期
func (m *JWTManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// GenerateAccessToken 生成 Access Token
func (m *JWTManager) GenerateAccessToken(userID string, email string) (string, error) {
	now := m.currentTime()
	claims := &JWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// GenerateRefreshToken 生成 Refresh Token（随机字符串）
func (m *JWTManager) GenerateRefreshToken() (string, error) {
	return GenerateRandomToken(32)
}

// VerifyAccessToken 验证 Access Token
func (m *JWTManager) VerifyAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		// 验证签名方法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secretKey, nil
	},
		jwt.WithIssuer(m.issuer),
		jwt.WithTimeFunc(m.currentTime),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractTokenFromHeader 从 Authorization header 提取 token
// 格式：Authorization: Bearer <token>
func ExtractTokenFromHeader(authHeader string) (string, error) {
	const bearerPrefix = "Bearer "
	if len(authHeader) <= len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrInvalidAuthHeader
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrInvalidAuthHeader
	}
	return token, nil
}

// GenerateRandomToken 生成随机 hex token（length 字节）
func GenerateRandomToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
