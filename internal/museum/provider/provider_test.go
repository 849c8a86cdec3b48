package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBaseProvider(t *testing.T) {
	config := &types.ProviderConfig{
		ID:      types.ProviderHarvard,
		Name:    "Harvard Art Museums",
		APIHost: "https://api.harvardartmuseums.org/",
		APIKey:  " test-key ",
		Timeout: 30,
	}

	base := NewBaseProvider(config, Deps{HTTPClient: NewHTTPClient(5 * time.Second)})
	assert.Equal(t, types.ProviderHarvard, base.GetID())
	assert.Equal(t, "Harvard Art Museums", base.GetName())
	assert.Equal(t, "test-key", base.GetAPIKey())
	assert.Equal(t, "https://api.harvardartmuseums.org/object", base.Endpoint("/object"))
	assert.Equal(t, 30*time.Second, base.httpClient.Timeout)
	assert.Nil(t, base.limiter)
}

func TestNewBaseProviderRateLimit(t *testing.T) {
	base := NewBaseProvider(&types.ProviderConfig{ID: types.ProviderMet, RateLimit: 0.5}, Deps{})
	require.NotNil(t, base.limiter)
	assert.Equal(t, 1, base.limiter.Burst())
}

func TestRequireAPIKey(t *testing.T) {
	tests := []struct {
		id      types.ProviderID
		key     string
		wantErr bool
	}{
		{types.ProviderRijksmuseum, "", true},
		{types.ProviderRijksmuseum, "k", false},
		{types.ProviderHarvard, "   ", true},
		{types.ProviderMet, "", false},
		{types.ProviderArtic, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			base := NewBaseProvider(&types.ProviderConfig{ID: tt.id, APIKey: tt.key}, Deps{})
			err := base.RequireAPIKey()
			if tt.wantErr {
				assert.True(t, types.IsFatal(err))
				assert.False(t, base.IsAvailable(context.Background()))
			} else {
				assert.NoError(t, err)
				assert.True(t, base.IsAvailable(context.Background()))
			}
		})
	}
}

func TestGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "v", r.URL.Query().Get("k"))
			_, _ = w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte("slow down"))
		}
	}))
	defer srv.Close()

	base := NewBaseProvider(&types.ProviderConfig{ID: types.ProviderMet, APIHost: srv.URL}, Deps{HTTPClient: srv.Client()})

	body, err := base.GetJSON(context.Background(), base.Endpoint("/ok"), url.Values{"k": {"v"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	_, err = base.GetJSON(context.Background(), base.Endpoint("/limited"), nil)
	var pe *types.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "HTTP_429", pe.Code)
	assert.Equal(t, "slow down", pe.Message)
	assert.False(t, pe.Fatal)
}

func TestGetJSONCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	base := NewBaseProvider(&types.ProviderConfig{ID: types.ProviderArtic, APIHost: srv.URL}, Deps{HTTPClient: srv.Client()})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := base.GetJSON(ctx, base.Endpoint("/slow"), nil)
	var pe *types.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "REQUEST_FAILED", pe.Code)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://example.org/api", url.Values{"key": {"secret"}, "apikey": {"secret"}, "q": {"cat"}})
	assert.NotContains(t, got, "secret")
	assert.Contains(t, got, "q=cat")
	assert.Equal(t, "https://example.org/api", redactURL("https://example.org/api", nil))
}

func TestPaging(t *testing.T) {
	assert.Equal(t, 10, perPage(&types.FetchRequest{}, 10))
	assert.Equal(t, 5, perPage(&types.FetchRequest{ResultsPerPage: 5}, 10))
	assert.Equal(t, 1, pageOf(&types.FetchRequest{Page: 0}))
	assert.Equal(t, 3, pageOf(&types.FetchRequest{Page: 3}))
}
