package data

import (
	"context"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/database"
	apperrors "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/errors"
	"github.com/lk2023060901/exhibition-curator-backend/internal/user/biz"
	"gorm.io/gorm"
)

// UserPO represents the database model
type UserPO struct {
	ID    string `gorm:"type:uuid;primarykey"`
	Email string `gorm:"size:255;not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL"`

	// 个人资料
	FullName  string  `gorm:"size:100;not null;default:''"`
	AvatarURL *string `gorm:"size:1024"`

	// 认证信息（OAuth 用户没有密码）
	PasswordHash *string `gorm:"size:255"`
	Provider     string  `gorm:"size:20;not null;default:'email'"`
	GoogleID     *string `gorm:"size:64;uniqueIndex:idx_users_google_id,where:google_id IS NOT NULL"`

	// JWT Refresh Token
	RefreshToken          *string `gorm:"size:512;index:idx_users_refresh_token,where:refresh_token IS NOT NULL"`
	RefreshTokenExpiresAt *time.Time

	// 登录追踪
	LastLoginAt         *time.Time
	LastLoginIP         *string `gorm:"size:45"`
	FailedLoginAttempts int     `gorm:"not null;default:0"`
	LockedUntil         *time.Time

	// 时间戳
	CreatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (UserPO) TableName() string {
	return "users"
}

// UserRepo implements biz.UserRepo interface
type UserRepo struct {
	db *database.DB
}

func NewUserRepo(db *database.DB) biz.UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*biz.User, error) {
	var po UserPO
	if err := r.db.WithContext(ctx).GetDB().Where("id = ?", id).First(&po).Error; err != nil {
		if database.IsRecordNotFoundError(err) {
			return nil, biz.ErrUserNotFound
		}
		return nil, apperrors.NewDatabaseError(err, "get user")
	}

	return r.toUser(&po), nil
}

func (r *UserRepo) UpdateProfile(ctx context.Context, id, fullName string, avatarURL *string) error {
	res := r.db.WithContext(ctx).GetDB().
		Model(&UserPO{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"full_name":  fullName,
			"avatar_url": avatarURL,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return apperrors.NewDatabaseError(res.Error, "update user profile")
	}
	if res.RowsAffected == 0 {
		return biz.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) toUser(po *UserPO) *biz.User {
	return &biz.User{
		ID:        po.ID,
		Email:     po.Email,
		FullName:  po.FullName,
		AvatarURL: po.AvatarURL,
		Provider:  po.Provider,
		CreatedAt: po.CreatedAt,
		UpdatedAt: po.UpdatedAt,
	}
}
