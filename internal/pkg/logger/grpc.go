package logger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryServerInterceptor 记录 gRPC 一元调用，skipMethods 中的方法不记录
func UnaryServerInterceptor(logger *Logger, skipMethods ...string) grpc.UnaryServerInterceptor {
	skip := make(map[string]struct{}, len(skipMethods))
	for _, m := range skipMethods {
		skip[m] = struct{}{}
	}

	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		requestID := requestIDFromMetadata(ctx)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = WithRequestID(ctx, requestID)

		if _, ok := skip[info.FullMethod]; ok {
			return handler(ctx, req)
		}

		start := time.Now()
		resp, err := handler(ctx, req)

		st, _ := status.FromError(err)
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", info.FullMethod),
			zap.String("code", st.Code().String()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		switch st.Code() {
		case codes.OK:
			logger.Info("gRPC call", fields...)
		case codes.Canceled, codes.DeadlineExceeded, codes.NotFound, codes.InvalidArgument:
			logger.Warn("gRPC call", fields...)
		default:
			logger.Error("gRPC call", fields...)
		}
		return resp, err
	}
}

// RecoveryInterceptor 捕获一元调用中的 panic
func RecoveryInterceptor(logger *Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("gRPC panic recovered",
					zap.String("request_id", GetRequestID(ctx)),
					zap.String("method", info.FullMethod),
					zap.Any("panic", r),
					zap.Stack("stacktrace"),
				)
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// StreamServerInterceptor 记录 gRPC 流调用（health Watch、reflection）
func StreamServerInterceptor(logger *Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)

		st, _ := status.FromError(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.String("code", st.Code().String()),
			zap.Duration("latency", time.Since(start)),
		}
		if err != nil && st.Code() != codes.Canceled {
			logger.Warn("gRPC stream", append(fields, zap.Error(err))...)
			return err
		}
		logger.Debug("gRPC stream", fields...)
		return err
	}
}

func requestIDFromMetadata(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	for _, key := range []string{"x-request-id", "request-id"} {
		if v := md.Get(key); len(v) > 0 {
			return v[0]
		}
	}
	return ""
}
