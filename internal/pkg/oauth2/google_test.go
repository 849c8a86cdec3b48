package oauth2

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGoogleProvider_NotConfigured(t *testing.T) {
	_, err := NewGoogleProvider(&Config{ClientID: "id"})
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewGoogleProvider(nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGoogleProvider_AuthURL(t *testing.T) {
	p, err := NewGoogleProvider(&Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:3000/auth/callback",
	})
	require.NoError(t, err)

	u, err := url.Parse(p.AuthURL("state-123"))
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.Equal(t, "google", p.Name())
}

func TestGoogleProvider_Exchange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.Form.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"invalid_grant"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"at","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"sub":"1234","email":"ada@example.com","email_verified":true,"name":"Ada Lovelace","picture":"https://example.com/a.png"}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p, err := NewGoogleProvider(&Config{
		ClientID:     "client",
		ClientSecret: "secret",
		TokenURL:     srv.URL + "/token",
		UserInfoURL:  srv.URL + "/userinfo",
	})
	require.NoError(t, err)

	info, err := p.Exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "1234", info.Subject)
	assert.Equal(t, "ada@example.com", info.Email)
	assert.True(t, info.EmailVerified)
	assert.Equal(t, "Ada Lovelace", info.Name)
	assert.Equal(t, "https://example.com/a.png", info.Picture)

	_, err = p.Exchange(context.Background(), "bad-code")
	assert.ErrorIs(t, err, ErrExchangeFailed)
}

func TestParseUserInfo(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{name: "valid", body: `{"sub":"1","email":"a@b.c"}`},
		{name: "missing email", body: `{"sub":"1"}`, wantErr: true},
		{name: "invalid json", body: `{"sub":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseUserInfo([]byte(tt.body))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUserInfo)
				return
			}
			assert.NoError(t, err)
		})
	}
}
