//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	authservice "github.com/lk2023060901/exhibition-curator-backend/internal/auth/service"
	collectionbiz "github.com/lk2023060901/exhibition-curator-backend/internal/collection/biz"
	collectionservice "github.com/lk2023060901/exhibition-curator-backend/internal/collection/service"
	"github.com/lk2023060901/exhibition-curator-backend/internal/conf"
	museumbiz "github.com/lk2023060901/exhibition-curator-backend/internal/museum/biz"
	museumservice "github.com/lk2023060901/exhibition-curator-backend/internal/museum/service"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/server"
	userbiz "github.com/lk2023060901/exhibition-curator-backend/internal/user/biz"
	userservice "github.com/lk2023060901/exhibition-curator-backend/internal/user/service"
)

// ProviderSet is the Wire provider set for all dependencies
var ProviderSet = wire.NewSet(
	dataProviderSet,
	repositoryProviderSet,
	useCaseProviderSet,
	museumProviderSet,
	httpServiceProviderSet,
	serverProviderSet,
)

// Data layer providers
var dataProviderSet = wire.NewSet(
	provideData,
	provideRedisClient,
	provideZapLogger,
)

// Repository providers
var repositoryProviderSet = wire.NewSet(
	provideUserRepo,
	provideAuthUserRepo,
	provideCollectionRepo,
)

// Use case providers
var useCaseProviderSet = wire.NewSet(
	provideJWTManager,
	provideGoogleProvider,
	provideAuthUseCase,
	userbiz.NewUserUseCase,
	collectionbiz.NewCollectionUseCase,
)

// Museum search providers
var museumProviderSet = wire.NewSet(
	provideWorkerPool,
	provideHTTPClient,
	provideRegistry,
	provideResultCache,
	provideSearchUseCase,
	museumbiz.NewSuggestionUseCase,
)

// HTTP service providers
var httpServiceProviderSet = wire.NewSet(
	museumservice.NewMuseumService,
	authservice.NewAuthService,
	userservice.NewUserService,
	provideUserReader,
	collectionservice.NewCollectionService,
)

// Server providers
var serverProviderSet = wire.NewSet(
	provideMiddlewares,
	server.NewHealthChecker,
	server.NewHTTPServer,
	server.NewGRPCServer,
)

// InitializeApp initializes the application with Wire
func InitializeApp(config *conf.Config, log *logger.Logger) (*App, func(), error) {
	wire.Build(ProviderSet, newApp)
	return nil, nil, nil
}
