package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	authservice "github.com/lk2023060901/exhibition-curator-backend/internal/auth/service"
	collectionservice "github.com/lk2023060901/exhibition-curator-backend/internal/collection/service"
	"github.com/lk2023060901/exhibition-curator-backend/internal/conf"
	museumservice "github.com/lk2023060901/exhibition-curator-backend/internal/museum/service"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	userservice "github.com/lk2023060901/exhibition-curator-backend/internal/user/service"
	"go.uber.org/zap"
)

// Middlewares 路由层共享的认证与限流中间件
type Middlewares struct {
	CORS          gin.HandlerFunc
	RequireAuth   gin.HandlerFunc
	OptionalAuth  gin.HandlerFunc
	LoginLimiter  gin.HandlerFunc
	SearchLimiter gin.HandlerFunc
}

// HTTPServer HTTP 服务器
type HTTPServer struct {
	server *http.Server
	router *gin.Engine
	logger *logger.Logger
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	mw *Middlewares,
	health *HealthChecker,
	museumService *museumservice.MuseumService,
	authService *authservice.AuthService,
	userService *userservice.UserService,
	collectionService *collectionservice.CollectionService,
) *HTTPServer {
	if config.Server.Mode != "" {
		gin.SetMode(config.Server.Mode)
	}

	router := gin.New()
	router.Use(logger.GinRecovery(log))
	router.Use(logger.GinLogger(log, "/health", "/ready"))
	if mw.CORS != nil {
		router.Use(mw.CORS)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/ready", func(c *gin.Context) {
		checks, ok := health.Check(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"ready": ok, "checks": checks, "stats": health.Stats()})
	})

	api := router.Group("/api/v1")
	searchLimiters := []gin.HandlerFunc{}
	if mw.SearchLimiter != nil {
		searchLimiters = append(searchLimiters, mw.SearchLimiter)
	}
	museumService.RegisterRoutes(api, mw.OptionalAuth, searchLimiters...)
	authService.RegisterRoutes(api, mw.RequireAuth, mw.LoginLimiter)
	userService.RegisterRoutes(api, mw.RequireAuth)
	collectionService.RegisterRoutes(api, mw.RequireAuth)

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router: router,
		logger: log,
	}
}

// Handler 返回路由（测试用）
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
