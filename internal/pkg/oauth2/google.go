package oauth2

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// GoogleProviderName 提供者标识
	GoogleProviderName = "google"

	defaultGoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

var defaultGoogleScopes = []string{"openid", "email", "profile"}

// GoogleProvider Google 登录
type GoogleProvider struct {
	oauth2Config *oauth2.Config
	userInfoURL  string
}

// NewGoogleProvider 创建 Google 登录提供者
func NewGoogleProvider(cfg *Config) (*GoogleProvider, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	// 默认使用 Google OAuth2 端点
	endpoint := google.Endpoint
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = defaultGoogleScopes
	}

	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultGoogleUserInfoURL
	}

	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       scopes,
			RedirectURL:  cfg.RedirectURL,
		},
		userInfoURL: userInfoURL,
	}, nil
}

// Name 提供者标识
func (p *GoogleProvider) Name() string {
	return GoogleProviderName
}

// AuthURL 生成 OAuth2 授权 URL
func (p *GoogleProvider) AuthURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange 交换授权码并读取用户信息
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	client := p.oauth2Config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfo, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUserInfo, resp.StatusCode)
	}

	return parseUserInfo(body)
}

func parseUserInfo(body []byte) (*UserInfo, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrUserInfo)
	}

	res := gjson.ParseBytes(body)
	info := &UserInfo{
		Subject:       res.Get("sub").String(),
		Email:         res.Get("email").String(),
		EmailVerified: res.Get("email_verified").Bool(),
		Name:          res.Get("name").String(),
		Picture:       res.Get("picture").String(),
	}
	if info.Subject == "" || info.Email == "" {
		return nil, fmt.Errorf("%w: missing sub or email", ErrUserInfo)
	}
	return info, nil
}
