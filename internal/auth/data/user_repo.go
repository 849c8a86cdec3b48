package data

import (
	"context"
	"errors"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/auth/biz"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/database"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"github.com/lk2023060901/exhibition-curator-backend/internal/user/data"
	"gorm.io/gorm"
)

// AuthUserRepo 认证用户仓库
// 使用 internal/pkg/database 封装
type AuthUserRepo struct {
	db *database.DB
}

// NewAuthUserRepo 创建认证用户仓库
func NewAuthUserRepo(db *database.DB) biz.UserRepo {
	return &AuthUserRepo{db: db}
}

// Create 创建用户
func (r *AuthUserRepo) Create(ctx context.Context, user *biz.User) error {
	po := r.toUserPO(user)
	if err := r.db.WithContext(ctx).GetDB().Create(po).Error; err != nil {
		if database.IsDuplicateKeyError(err) {
			return biz.ErrEmailAlreadyExists
		}
		return apperrors.NewDatabaseError(err, "create user")
	}
	user.ID = po.ID
	return nil
}

// GetByID 根据 ID 获取用户
func (r *AuthUserRepo) GetByID(ctx context.Context, id string) (*biz.User, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByEmail 根据邮箱获取用户
func (r *AuthUserRepo) GetByEmail(ctx context.Context, email string) (*biz.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByGoogleID 根据 Google sub 获取用户
func (r *AuthUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*biz.User, error) {
	return r.first(ctx, "google_id = ?", googleID)
}

// GetByRefreshToken 根据 refresh token 获取用户
func (r *AuthUserRepo) GetByRefreshToken(ctx context.Context, refreshToken string) (*biz.User, error) {
	user, err := r.first(ctx, "refresh_token = ?", refreshToken)
	if errors.Is(err, biz.ErrUserNotFound) {
		return nil, biz.ErrInvalidToken
	}
	return user, err
}

func (r *AuthUserRepo) first(ctx context.Context, query string, arg interface{}) (*biz.User, error) {
	var po data.UserPO
	if err := r.db.WithContext(ctx).GetDB().
		Where(query, arg).
		First(&po).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError(err, "get user")
	}
	return r.toBizUser(&po), nil
}

// Update 更新用户
func (r *AuthUserRepo) Update(ctx context.Context, user *biz.User) error {
	// Select("*") 让 nil 字段（如解锁后的 locked_until）也被写回
	err := r.db.WithContext(ctx).GetDB().
		Model(&data.UserPO{}).
		Where("id = ?", user.ID).
		Select("*").
		Omit("id", "created_at", "deleted_at").
		Updates(r.toUserPO(user)).Error
	if err != nil {
		if database.IsDuplicateKeyError(err) {
			return biz.ErrEmailAlreadyExists
		}
		return apperrors.NewDatabaseError(err, "update user")
	}
	return nil
}

// IncrementFailedLogins 增加失败登录次数
func (r *AuthUserRepo) IncrementFailedLogins(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).GetDB().
		Model(&data.UserPO{}).
		Where("id = ?", userID).
		UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1")).Error
}

// LockAccount 锁定账户
func (r *AuthUserRepo) LockAccount(ctx context.Context, userID string, duration time.Duration) error {
	lockedUntil := time.Now().Add(duration)
	return r.db.WithContext(ctx).GetDB().
		Model(&data.UserPO{}).
		Where("id = ?", userID).
		Update("locked_until", lockedUntil).Error
}

// ClearRefreshToken 清除 refresh token（登出）
func (r *AuthUserRepo) ClearRefreshToken(ctx context.Context, userID string) error {
	err := r.db.WithContext(ctx).GetDB().
		Model(&data.UserPO{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"refresh_token":            nil,
			"refresh_token_expires_at": nil,
		}).Error
	if err != nil {
		return apperrors.NewDatabaseError(err, "clear refresh token")
	}
	return nil
}

// toUserPO 业务模型转数据模型
func (r *AuthUserRepo) toUserPO(user *biz.User) *data.UserPO {
	return &data.UserPO{
		ID:                    user.ID,
		Email:                 user.Email,
		FullName:              user.FullName,
		AvatarURL:             user.AvatarURL,
		PasswordHash:          user.PasswordHash,
		Provider:              user.Provider,
		GoogleID:              user.GoogleID,
		RefreshToken:          user.RefreshToken,
		RefreshTokenExpiresAt: user.RefreshTokenExpiresAt,
		LastLoginAt:           user.LastLoginAt,
		LastLoginIP:           user.LastLoginIP,
		FailedLoginAttempts:   user.FailedLoginAttempts,
		LockedUntil:           user.LockedUntil,
		CreatedAt:             user.CreatedAt,
		UpdatedAt:             user.UpdatedAt,
	}
}

// toBizUser 数据模型转业务模型
func (r *AuthUserRepo) toBizUser(po *data.UserPO) *biz.User {
	return &biz.User{
		ID:                    po.ID,
		Email:                 po.Email,
		FullName:              po.FullName,
		AvatarURL:             po.AvatarURL,
		PasswordHash:          po.PasswordHash,
		Provider:              po.Provider,
		GoogleID:              po.GoogleID,
		FailedLoginAttempts:   po.FailedLoginAttempts,
		LockedUntil:           po.LockedUntil,
		LastLoginAt:           po.LastLoginAt,
		LastLoginIP:           po.LastLoginIP,
		RefreshToken:          po.RefreshToken,
		RefreshTokenExpiresAt: po.RefreshTokenExpiresAt,
		CreatedAt:             po.CreatedAt,
		UpdatedAt:             po.UpdatedAt,
	}
}
