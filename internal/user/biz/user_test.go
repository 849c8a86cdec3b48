package biz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[string]*User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id, fullName string, avatarURL *string) error {
	u, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	u.FullName = fullName
	u.AvatarURL = avatarURL
	return nil
}

func strPtr(s string) *string { return &s }

func TestUserUseCase_UpdateProfile(t *testing.T) {
	tests := []struct {
		name       string
		fullName   string
		avatarURL  *string
		wantName   string
		wantAvatar *string
		wantErr    error
	}{
		{name: "trim name", fullName: "  Ada Lovelace ", wantName: "Ada Lovelace"},
		{name: "set avatar", fullName: "Ada", avatarURL: strPtr(" https://example.com/a.png "), wantName: "Ada", wantAvatar: strPtr("https://example.com/a.png")},
		{name: "blank avatar clears", fullName: "Ada", avatarURL: strPtr("  "), wantName: "Ada"},
		{name: "bad avatar scheme", fullName: "Ada", avatarURL: strPtr("javascript:alert(1)"), wantErr: ErrInvalidAvatarURL},
		{name: "name too long", fullName: strings.Repeat("x", 101), wantErr: ErrInvalidFullName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUserRepo{users: map[string]*User{
				"u1": {ID: "u1", Email: "ada@example.com", AvatarURL: strPtr("https://old.example.com/x.png")},
			}}
			uc := NewUserUseCase(repo)

			got, err := uc.UpdateProfile(context.Background(), "u1", tt.fullName, tt.avatarURL)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.FullName)
			assert.Equal(t, tt.wantAvatar, got.AvatarURL)
		})
	}
}

func TestUserUseCase_GetUserNotFound(t *testing.T) {
	uc := NewUserUseCase(&fakeUserRepo{users: map[string]*User{}})

	_, err := uc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
