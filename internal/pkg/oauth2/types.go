package oauth2

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured 未配置 client_id / client_secret
	ErrNotConfigured = errors.New("oauth2 provider is not configured")

	// ErrExchangeFailed 授权码交换失败
	ErrExchangeFailed = errors.New("oauth2 code exchange failed")

	// ErrUserInfo 获取用户信息失败
	ErrUserInfo = errors.New("oauth2 user info request failed")
)

// Provider 第三方登录提供者
type Provider interface {
	// Name 提供者标识，如 google
	Name() string

	// AuthURL 生成授权 URL
	AuthURL(state string) string

	// Exchange 用授权码换取令牌并获取用户信息
	Exchange(ctx context.Context, code string) (*UserInfo, error)
}

// UserInfo 第三方账户信息
type UserInfo struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

// Config OAuth2 配置
type Config struct {
	ClientID     string   `mapstructure:"client_id" json:"client_id"`
	ClientSecret string   `mapstructure:"client_secret" json:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url" json:"redirect_url"`
	Scopes       []string `mapstructure:"scopes" json:"scopes"`

	// 可选：自定义端点（默认使用 Google 端点）
	AuthURL     string `mapstructure:"auth_url" json:"auth_url,omitempty"`
	TokenURL    string `mapstructure:"token_url" json:"token_url,omitempty"`
	UserInfoURL string `mapstructure:"userinfo_url" json:"userinfo_url,omitempty"`
}

// Enabled 是否已配置
func (c *Config) Enabled() bool {
	return c != nil && c.ClientID != "" && c.ClientSecret != ""
}
