package injector

import (
	"errors"
	"net/http"

	"github.com/lk2023060901/exhibition-curator-backend/internal/auth"
	authbiz "github.com/lk2023060901/exhibition-curator-backend/internal/auth/biz"
	authdata "github.com/lk2023060901/exhibition-curator-backend/internal/auth/data"
	"github.com/lk2023060901/exhibition-curator-backend/internal/auth/middleware"
	collectionbiz "github.com/lk2023060901/exhibition-curator-backend/internal/collection/biz"
	collectiondata "github.com/lk2023060901/exhibition-curator-backend/internal/collection/data"
	collectionservice "github.com/lk2023060901/exhibition-curator-backend/internal/collection/service"
	"github.com/lk2023060901/exhibition-curator-backend/internal/conf"
	"github.com/lk2023060901/exhibition-curator-backend/internal/data"
	museumbiz "github.com/lk2023060901/exhibition-curator-backend/internal/museum/biz"
	museumdata "github.com/lk2023060901/exhibition-curator-backend/internal/museum/data"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/provider"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/oauth2"
	pkgredis "github.com/lk2023060901/exhibition-curator-backend/internal/pkg/redis"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/workerpool"
	"github.com/lk2023060901/exhibition-curator-backend/internal/server"
	userbiz "github.com/lk2023060901/exhibition-curator-backend/internal/user/biz"
	userdata "github.com/lk2023060901/exhibition-curator-backend/internal/user/data"
	"go.uber.org/zap"
)

// Data layer helpers

func provideData(config *conf.Config, log *logger.Logger) (*data.Data, func(), error) {
	return data.NewData(config, log)
}

func provideRedisClient(d *data.Data) *pkgredis.Client {
	return d.Redis
}

func provideZapLogger(log *logger.Logger) *zap.Logger {
	return log.Logger
}

// Repository providers

func provideUserRepo(d *data.Data) userbiz.UserRepo {
	return userdata.NewUserRepo(d.DB)
}

func provideAuthUserRepo(d *data.Data) authbiz.UserRepo {
	return authdata.NewAuthUserRepo(d.DB)
}

func provideCollectionRepo(d *data.Data) collectionbiz.CollectionRepo {
	return collectiondata.NewCollectionRepo(d.DB)
}

// Auth

func provideJWTManager(config *conf.Config) *auth.JWTManager {
	return auth.NewJWTManager(
		config.Auth.JWTSecret,
		auth.WithIssuer(config.Auth.JWTIssuer),
		auth.WithAccessTTL(config.Auth.AccessTokenTTL),
		auth.WithRefreshTTL(config.Auth.RefreshTokenTTL),
	)
}

// provideGoogleProvider 未配置 client_id 时返回 nil，Google 登录接口会返回未配置错误
func provideGoogleProvider(config *conf.Config, log *zap.Logger) (oauth2.Provider, error) {
	google, err := oauth2.NewGoogleProvider(&config.OAuth2.Google)
	if errors.Is(err, oauth2.ErrNotConfigured) {
		log.Info("google sign-in disabled")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return google, nil
}

func provideAuthUseCase(
	userRepo authbiz.UserRepo,
	client *pkgredis.Client,
	jwtManager *auth.JWTManager,
	google oauth2.Provider,
	log *zap.Logger,
) *authbiz.AuthUseCase {
	return authbiz.NewAuthUseCase(
		userRepo,
		authbiz.NewRedisOAuthStateRepo(client),
		authbiz.NewRedisTokenBlacklist(client),
		jwtManager,
		google,
		log,
	)
}

func provideMiddlewares(
	config *conf.Config,
	jwtManager *auth.JWTManager,
	authUC *authbiz.AuthUseCase,
	client *pkgredis.Client,
	log *logger.Logger,
) *server.Middlewares {
	return &server.Middlewares{
		CORS:          middleware.CORS(config.Auth.CORSOrigins...),
		RequireAuth:   middleware.JWTAuth(jwtManager, authUC, log),
		OptionalAuth:  middleware.OptionalJWTAuth(jwtManager, authUC, log),
		LoginLimiter:  middleware.LoginRateLimiter(client, config.Auth.LoginRateLimit, log),
		SearchLimiter: middleware.SearchRateLimiter(client, config.Auth.SearchRateLimit, log),
	}
}

// Museum

func provideWorkerPool(config *conf.Config, log *zap.Logger) (*workerpool.Pool, func(), error) {
	cfg := workerpool.DefaultConfig()
	if config.Museum.WorkerPoolSize > 0 {
		cfg.Size = config.Museum.WorkerPoolSize
	}
	pool, err := workerpool.New(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return pool, pool.Shutdown, nil
}

func provideHTTPClient(config *conf.Config) *http.Client {
	return provider.NewHTTPClient(config.Museum.RequestTimeout)
}

func provideRegistry(config *conf.Config, client *http.Client, pool *workerpool.Pool, log *zap.Logger) (*provider.Registry, error) {
	factory := provider.NewFactory(provider.Deps{
		Logger:     log.Named("museum"),
		HTTPClient: client,
		Pool:       pool,
	})
	return provider.NewRegistry(factory, config.Museum.Sources())
}

func provideResultCache(config *conf.Config, client *pkgredis.Client, log *logger.Logger) museumbiz.ResultCache {
	return museumdata.NewRedisResultCache(client, &museumdata.ResultCacheConfig{
		TTL: config.Museum.CacheTTL,
	}, log)
}

func provideSearchUseCase(
	config *conf.Config,
	registry *provider.Registry,
	cache museumbiz.ResultCache,
	log *zap.Logger,
) *museumbiz.SearchUseCase {
	return museumbiz.NewSearchUseCase(registry, cache, museumbiz.SearchOptions{
		PageSize:      config.Museum.PageSize,
		SearchTimeout: config.Museum.SearchTimeout,
	}, log)
}

// Collection

func provideUserReader(uc *userbiz.UserUseCase) collectionservice.UserReader {
	return uc
}
