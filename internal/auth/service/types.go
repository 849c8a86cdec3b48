package service

import "github.com/lk2023060901/exhibition-curator-backend/internal/auth/biz"

// SignUpRequest 注册请求
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=100"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest 刷新 token 请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// GoogleURLQuery 获取 Google 授权地址
type GoogleURLQuery struct {
	RedirectTo string `form:"redirect_to" binding:"omitempty,max=1024"`
}

// GoogleCallbackRequest Google 回调
type GoogleCallbackRequest struct {
	Code  string `json:"code" binding:"required"`
	State string `json:"state" binding:"required"`
}

// AuthResponse 登录/注册响应
type AuthResponse struct {
	*biz.Session
	Tokens     *biz.TokenPair `json:"tokens"`
	RedirectTo string         `json:"redirect_to,omitempty"`
}

func toAuthResponse(result *biz.LoginResult) *AuthResponse {
	return &AuthResponse{
		Session:    biz.NewSession(result.User),
		Tokens:     result.Tokens,
		RedirectTo: result.RedirectTo,
	}
}
