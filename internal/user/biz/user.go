package biz

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidFullName 姓名过长
	ErrInvalidFullName = errors.New("full name must be at most 100 characters")

	// ErrInvalidAvatarURL 头像地址无效
	ErrInvalidAvatarURL = errors.New("avatar url must be an http(s) url")
)

// User represents the domain model
type User struct {
	ID        string
	Email     string
	FullName  string
	AvatarURL *string
	Provider  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserRepo defines the interface for user data operations
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id, fullName string, avatarURL *string) error
}

// UserUseCase contains business logic for user operations
type UserUseCase struct {
	repo UserRepo
}

func NewUserUseCase(repo UserRepo) *UserUseCase {
	return &UserUseCase{repo: repo}
}

func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*User, error) {
	return uc.repo.GetByID(ctx, id)
}

// UpdateProfile 更新姓名与头像
func (uc *UserUseCase) UpdateProfile(ctx context.Context, id, fullName string, avatarURL *string) (*User, error) {
	fullName = strings.TrimSpace(fullName)
	if utf8.RuneCountInString(fullName) > 100 {
		return nil, ErrInvalidFullName
	}

	if avatarURL != nil {
		trimmed := strings.TrimSpace(*avatarURL)
		switch {
		case trimmed == "":
			avatarURL = nil
		case !strings.HasPrefix(trimmed, "https://") && !strings.HasPrefix(trimmed, "http://"):
			return nil, ErrInvalidAvatarURL
		default:
			avatarURL = &trimmed
		}
	}

	if err := uc.repo.UpdateProfile(ctx, id, fullName, avatarURL); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, id)
}
