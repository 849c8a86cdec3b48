package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/workerpool"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Provider defines the interface for museum sources
type Provider interface {
	// Fetch returns one page of normalized artworks for the request
	Fetch(ctx context.Context, req *types.FetchRequest) (*types.PartialPageResult, error)

	// GetID returns the provider ID
	GetID() types.ProviderID

	// GetName returns the provider name
	GetName() string

	// Validate validates the provider configuration
	Validate() error

	// IsAvailable checks if the provider can serve requests
	IsAvailable(ctx context.Context) bool
}

// Deps carries the shared collaborators injected into every provider.
type Deps struct {
	Logger     *zap.Logger
	HTTPClient *http.Client
	Pool       *workerpool.Pool
}

// maxErrorBody caps how much of an error response is kept in ProviderError.Message.
const maxErrorBody = 512

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	config     *types.ProviderConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// NewHTTPClient builds the client shared by all providers.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config *types.ProviderConfig, deps Deps) *BaseProvider {
	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = NewHTTPClient(time.Duration(config.Timeout) * time.Second)
	} else if config.Timeout > 0 {
		// 每个源可单独配置超时，复用同一个 Transport
		clone := *httpClient
		clone.Timeout = time.Duration(config.Timeout) * time.Second
		httpClient = &clone
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		burst := int(config.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RateLimit), burst)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BaseProvider{
		config:     config,
		httpClient: httpClient,
		limiter:    limiter,
		logger:     logger.With(zap.String("museum", string(config.ID))),
	}
}

// GetID returns the provider ID
func (b *BaseProvider) GetID() types.ProviderID {
	return b.config.ID
}

// GetName returns the provider name
func (b *BaseProvider) GetName() string {
	return b.config.Name
}

// GetConfig returns the provider configuration
func (b *BaseProvider) GetConfig() *types.ProviderConfig {
	return b.config
}

// GetAPIKey returns the configured API key
func (b *BaseProvider) GetAPIKey() string {
	return strings.TrimSpace(b.config.APIKey)
}

// RequireAPIKey returns the fatal missing-key error for keyed sources without a key.
func (b *BaseProvider) RequireAPIKey() error {
	if b.config.ID.RequiresAPIKey() && b.GetAPIKey() == "" {
		return types.NewMissingKeyError(b.config.ID)
	}
	return nil
}

// BuildDefaultHeaders builds default HTTP headers
func (b *BaseProvider) BuildDefaultHeaders() map[string]string {
	return map[string]string{
		"Accept":     "application/json",
		"User-Agent": "Exhibition-Curator-Backend/1.0",
	}
}

// Endpoint joins the API host with path.
func (b *BaseProvider) Endpoint(path string) string {
	return strings.TrimRight(b.config.APIHost, "/") + path
}

// GetJSON performs a rate-limited GET and returns the body of a 200 response.
// Non-200 statuses and transport failures come back as *types.ProviderError.
func (b *BaseProvider) GetJSON(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return nil, &types.ProviderError{
				Provider: b.GetID(),
				Code:     "RATE_LIMIT_WAIT",
				Message:  "Rate limiter wait aborted",
				Err:      err,
			}
		}
	}

	reqURL := endpoint
	if len(params) > 0 {
		reqURL = endpoint + "?" + params.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range b.BuildDefaultHeaders() {
		httpReq.Header.Set(k, v)
	}

	b.logger.Debug("museum request", zap.String("url", redactURL(endpoint, params)))

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: b.GetID(),
			Code:     "REQUEST_FAILED",
			Message:  "Failed to execute request",
			Err:      err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &types.ProviderError{
			Provider: b.GetID(),
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  string(body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.ProviderError{
			Provider: b.GetID(),
			Code:     "READ_FAILED",
			Message:  "Failed to read response body",
			Err:      err,
		}
	}
	return body, nil
}

// Validate validates the provider configuration
func (b *BaseProvider) Validate() error {
	return b.config.Validate()
}

// IsAvailable reports whether the provider has the configuration it needs per call.
func (b *BaseProvider) IsAvailable(ctx context.Context) bool {
	return b.RequireAPIKey() == nil
}

// redactURL renders the request URL with credentials masked.
func redactURL(endpoint string, params url.Values) string {
	if len(params) == 0 {
		return endpoint
	}
	masked := make(url.Values, len(params))
	for k, v := range params {
		switch strings.ToLower(k) {
		case "key", "apikey", "api_key":
			masked[k] = []string{"***"}
		default:
			masked[k] = v
		}
	}
	return endpoint + "?" + masked.Encode()
}

// invalidResponse wraps a decode failure.
func invalidResponse(id types.ProviderID, err error) error {
	return &types.ProviderError{
		Provider: id,
		Code:     "INVALID_RESPONSE",
		Message:  "Failed to decode response",
		Err:      fmt.Errorf("%w: %v", types.ErrInvalidResponse, err),
	}
}

// perPage returns the effective page size of a fetch.
func perPage(req *types.FetchRequest, fallback int) int {
	if req.ResultsPerPage > 0 {
		return req.ResultsPerPage
	}
	return fallback
}

// pageOf returns the 1-based page of a fetch.
func pageOf(req *types.FetchRequest) int {
	if req.Page < 1 {
		return 1
	}
	return req.Page
}
