package server

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/conf"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 在 gRPC health 中登记的服务名
const ServiceName = "exhibition.curator.v1"

// healthProbeInterval 依赖检查周期
const healthProbeInterval = 15 * time.Second

// GRPCServer gRPC 服务器，目前只提供 health 与 reflection
type GRPCServer struct {
	config     *conf.Config
	logger     *logger.Logger
	grpcServer *grpc.Server
	health     *health.Server
	checker    *HealthChecker
	stop       chan struct{}
}

// NewGRPCServer 创建 gRPC 服务器
func NewGRPCServer(config *conf.Config, log *logger.Logger, checker *HealthChecker) *GRPCServer {
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logger.RecoveryInterceptor(log),
			logger.UnaryServerInterceptor(log, "/grpc.health.v1.Health/Check"),
		),
		grpc.ChainStreamInterceptor(
			logger.StreamServerInterceptor(log),
		),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// 启用反射（用于 grpcurl 等工具）
	reflection.Register(grpcServer)

	return &GRPCServer{
		config:     config,
		logger:     log,
		grpcServer: grpcServer,
		health:     healthServer,
		checker:    checker,
		stop:       make(chan struct{}),
	}
}

// Start 启动 gRPC 服务器
func (s *GRPCServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.GRPCPort)

	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	go s.probe()

	s.logger.Info("starting gRPC server", zap.String("addr", addr))
	if err := s.grpcServer.Serve(lis); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// probe 定期把依赖状态同步到 health 服务
func (s *GRPCServer) probe() {
	ticker := time.NewTicker(healthProbeInterval)
	defer ticker.Stop()

	for {
		s.updateHealth(context.Background())
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *GRPCServer) updateHealth(ctx context.Context) {
	status := healthpb.HealthCheckResponse_SERVING
	if checks, ok := s.checker.Check(ctx); !ok {
		status = healthpb.HealthCheckResponse_NOT_SERVING
		s.logger.Warn("dependency health check failed", zap.Any("checks", checks))
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Stop 停止 gRPC 服务器
func (s *GRPCServer) Stop() {
	s.logger.Info("stopping gRPC server")
	close(s.stop)
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
