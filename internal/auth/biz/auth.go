package biz

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/lk2023060901/exhibition-curator-backend/internal/auth"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/oauth2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailAlreadyExists   = errors.New("email already exists")
	ErrAccountLocked        = errors.New("account is locked due to too many failed login attempts")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrWeakPassword         = errors.New("password must be at least 8 characters")
	ErrOAuthNotConfigured   = errors.New("oauth provider is not configured")
	ErrInvalidOAuthState    = errors.New("invalid or expired oauth state")
	ErrOAuthFailed          = errors.New("oauth sign-in failed")
	ErrOAuthEmailUnverified = errors.New("oauth account email is not verified")
)

const (
	// MinPasswordLength 最小密码长度
	MinPasswordLength = 8

	// MaxFailedLogins 连续失败次数上限，超过后锁定
	MaxFailedLogins = 5

	// LockDuration 锁定时长
	LockDuration = 15 * time.Minute

	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// User 认证相关的用户模型
type User struct {
	ID                    string // UUID v7
	Email                 string
	FullName              string
	AvatarURL             *string
	PasswordHash          *string
	Provider              string
	GoogleID              *string
	FailedLoginAttempts   int
	LockedUntil           *time.Time
	LastLoginAt           *time.Time
	LastLoginIP           *string
	RefreshToken          *string
	RefreshTokenExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// UserRepo 用户仓库接口
type UserRepo interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*User, error)
	Update(ctx context.Context, user *User) error
	IncrementFailedLogins(ctx context.Context, userID string) error
	LockAccount(ctx context.Context, userID string, duration time.Duration) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

// AuthUseCase 认证业务逻辑
type AuthUseCase struct {
	userRepo   UserRepo
	stateRepo  OAuthStateRepo
	blacklist  TokenBlacklist
	jwtManager *auth.JWTManager
	google     oauth2.Provider
	logger     *zap.Logger
}

// NewAuthUseCase 创建认证用例；google 为 nil 时不支持 Google 登录
func NewAuthUseCase(
	userRepo UserRepo,
	stateRepo OAuthStateRepo,
	blacklist TokenBlacklist,
	jwtManager *auth.JWTManager,
	google oauth2.Provider,
	logger *zap.Logger,
) *AuthUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthUseCase{
		userRepo:   userRepo,
		stateRepo:  stateRepo,
		blacklist:  blacklist,
		jwtManager: jwtManager,
		google:     google,
		logger:     logger,
	}
}

// SignUp 邮箱注册，成功后直接登录
func (uc *AuthUseCase) SignUp(ctx context.Context, email, password, fullName, ip string) (*LoginResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	// 检查邮箱是否已存在
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	// 哈希密码
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	passwordHash := string(hash)

	now := time.Now()
	user := &User{
		// UUID v7 (时间有序)
		ID:           uuid.Must(uuid.NewV7()).String(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: &passwordHash,
		Provider:     ProviderEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user signed up", zap.String("user_id", user.ID))
	return uc.generateTokens(ctx, user, ip)
}

// Login 邮箱密码登录
func (uc *AuthUseCase) Login(ctx context.Context, email, password, ip string) (*LoginResult, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 检查账户是否被锁定
	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, ErrAccountLocked
	}

	// OAuth 用户没有密码
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		// 密码错误，增加失败次数
		if err := uc.userRepo.IncrementFailedLogins(ctx, user.ID); err != nil {
			uc.logger.Warn("failed to record failed login", zap.Error(err))
		}

		if user.FailedLoginAttempts+1 >= MaxFailedLogins {
			if err := uc.userRepo.LockAccount(ctx, user.ID, LockDuration); err != nil {
				uc.logger.Warn("failed to lock account", zap.Error(err))
			}
		}

		return nil, ErrInvalidCredentials
	}

	return uc.generateTokens(ctx, user, ip)
}

// RefreshAccessToken 刷新 Access Token
func (uc *AuthUseCase) RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidToken
	}

	user, err := uc.userRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	// 检查 refresh token 是否过期
	if user.RefreshTokenExpiresAt == nil || user.RefreshTokenExpiresAt.Before(time.Now()) {
		return nil, ErrInvalidToken
	}

	accessToken, err := uc.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken, // 复用原有的 refresh token
		ExpiresIn:    int(uc.jwtManager.AccessTTL().Seconds()),
	}, nil
}

// GoogleAuthURL 生成 Google 授权地址，state 存入 Redis
func (uc *AuthUseCase) GoogleAuthURL(ctx context.Context, redirectTo string) (string, error) {
	if uc.google == nil {
		return "", ErrOAuthNotConfigured
	}

	state, err := NewOAuthState(uc.google.Name(), redirectTo)
	if err != nil {
		return "", err
	}
	if err := uc.stateRepo.Create(ctx, state); err != nil {
		return "", fmt.Errorf("failed to save oauth state: %w", err)
	}

	return uc.google.AuthURL(state.State), nil
}

// GoogleCallback 校验 state、交换授权码并登录（必要时创建或关联账户）
func (uc *AuthUseCase) GoogleCallback(ctx context.Context, code, state, ip string) (*LoginResult, error) {
	if uc.google == nil {
		return nil, ErrOAuthNotConfigured
	}
	if code == "" || state == "" {
		return nil, ErrInvalidOAuthState
	}

	saved, err := uc.stateRepo.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if saved.Provider != uc.google.Name() {
		return nil, ErrInvalidOAuthState
	}

	info, err := uc.google.Exchange(ctx, code)
	if err != nil {
		uc.logger.Warn("google exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrOAuthFailed, err)
	}

	user, err := uc.upsertGoogleUser(ctx, info)
	if err != nil {
		return nil, err
	}

	result, err := uc.generateTokens(ctx, user, ip)
	if err != nil {
		return nil, err
	}
	result.RedirectTo = saved.RedirectTo
	return result, nil
}

func (uc *AuthUseCase) upsertGoogleUser(ctx context.Context, info *oauth2.UserInfo) (*User, error) {
	user, err := uc.userRepo.GetByGoogleID(ctx, info.Subject)
	if err == nil {
		return uc.refreshGoogleProfile(ctx, user, info)
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	email, err := normalizeEmail(info.Email)
	if err != nil {
		return nil, err
	}

	// 已有邮箱账户：仅在 Google 确认邮箱后关联
	user, err = uc.userRepo.GetByEmail(ctx, email)
	if err == nil {
		if !info.EmailVerified {
			return nil, ErrOAuthEmailUnverified
		}
		user.GoogleID = &info.Subject
		return uc.refreshGoogleProfile(ctx, user, info)
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	now := time.Now()
	user = &User{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Email:     email,
		FullName:  info.Name,
		AvatarURL: optionalString(info.Picture),
		Provider:  ProviderGoogle,
		GoogleID:  &info.Subject,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("user signed up with google", zap.String("user_id", user.ID))
	return user, nil
}

// refreshGoogleProfile 补全空缺的姓名与头像，不覆盖用户自己改过的资料
func (uc *AuthUseCase) refreshGoogleProfile(ctx context.Context, user *User, info *oauth2.UserInfo) (*User, error) {
	changed := false
	if user.FullName == "" && info.Name != "" {
		user.FullName = info.Name
		changed = true
	}
	if user.AvatarURL == nil && info.Picture != "" {
		user.AvatarURL = optionalString(info.Picture)
		changed = true
	}
	if user.GoogleID == nil || *user.GoogleID != info.Subject {
		user.GoogleID = &info.Subject
		changed = true
	}
	if !changed {
		return user, nil
	}

	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Session 当前会话
func (uc *AuthUseCase) Session(ctx context.Context, userID string) (*Session, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewSession(user), nil
}

// SignOut 注销当前 access token 并清除 refresh token
func (uc *AuthUseCase) SignOut(ctx context.Context, claims *auth.JWTClaims) error {
	if claims == nil {
		return ErrInvalidToken
	}

	if err := uc.blacklist.Revoke(ctx, claims.TokenID(), claims.Remaining(time.Now())); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if err := uc.userRepo.ClearRefreshToken(ctx, claims.UserID); err != nil {
		return err
	}

	uc.logger.Info("user signed out", zap.String("user_id", claims.UserID))
	return nil
}

// IsRevoked 检查 access token 是否已注销
func (uc *AuthUseCase) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return uc.blacklist.IsRevoked(ctx, jti)
}

// generateTokens 生成 token 对并记录登录信息
func (uc *AuthUseCase) generateTokens(ctx context.Context, user *User, ip string) (*LoginResult, error) {
	accessToken, err := uc.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, err := uc.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(uc.jwtManager.RefreshTTL())
	user.RefreshToken = &refreshToken
	user.RefreshTokenExpiresAt = &expiresAt
	user.LastLoginAt = &now
	if ip != "" {
		user.LastLoginIP = &ip
	}
	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.UpdatedAt = now

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return &LoginResult{
		User: user,
		Tokens: &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(uc.jwtManager.AccessTTL().Seconds()),
		},
	}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// LoginResult 登录结果
type LoginResult struct {
	User       *User
	Tokens     *TokenPair
	RedirectTo string
}

// TokenPair token 对
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // 秒
}

// Session 会话信息
type Session struct {
	User SessionUser `json:"user"`
}

// SessionUser 会话中的用户
type SessionUser struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

// UserMetadata 用户展示信息
type UserMetadata struct {
	FullName  string  `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}

// NewSession 由用户构造会话
func NewSession(user *User) *Session {
	return &Session{
		User: SessionUser{
			ID:    user.ID,
			Email: user.Email,
			UserMetadata: UserMetadata{
				FullName:  user.FullName,
				AvatarURL: user.AvatarURL,
			},
		},
	}
}
