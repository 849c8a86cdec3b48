package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", WithIssuer("curator-test"), WithAccessTTL(time.Minute))

	token, err := m.GenerateAccessToken("user-1", "ada@example.com")
	require.NoError(t, err)

	claims, err := m.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.NotEmpty(t, claims.TokenID())
	assert.InDelta(t, time.Minute.Seconds(), claims.Remaining(time.Now()).Seconds(), 5)
}

func TestJWTManager_UniqueTokenIDs(t *testing.T) {
	m := NewJWTManager("test-secret")

	a, err := m.GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)
	b, err := m.GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)

	ca, err := m.VerifyAccessToken(a)
	require.NoError(t, err)
	cb, err := m.VerifyAccessToken(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.TokenID(), cb.TokenID())
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("test-secret")
	token, err := m.GenerateAccessToken("user-1", "a@example.com")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewJWTManager("other-secret").VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := NewJWTManager("test-secret", WithIssuer("someone-else")).VerifyAccessToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("test-secret", WithAccessTTL(time.Minute))
		expired.currentTime = func() time.Time { return time.Now().Add(-time.Hour) }
		old, err := expired.GenerateAccessToken("user-1", "a@example.com")
		require.NoError(t, err)

		_, err = m.VerifyAccessToken(old)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.VerifyAccessToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "bearer", header: "Bearer abc.def", want: "abc.def"},
		{name: "lowercase scheme", header: "bearer abc", want: "abc"},
		{name: "missing token", header: "Bearer ", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcg==", wantErr: true},
		{name: "empty", header: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAuthHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateRandomToken(t *testing.T) {
	a, err := GenerateRandomToken(32)
	require.NoError(t, err)
	b, err := GenerateRandomToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	assert.Empty(t, strings.Trim(a, "0123456789abcdef"))
}
