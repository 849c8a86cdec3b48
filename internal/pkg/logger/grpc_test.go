package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type mockServerStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (m *mockServerStream) Context() context.Context { return m.ctx }

func TestUnaryServerInterceptor(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	tests := []struct {
		name      string
		ctx       context.Context
		handler   grpc.UnaryHandler
		wantCode  codes.Code
		wantLevel zapcore.Level
		wantReqID string
	}{
		{
			name:      "success with incoming request id",
			ctx:       metadata.NewIncomingContext(context.Background(), metadata.Pairs("x-request-id", "abc")),
			handler:   func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil },
			wantCode:  codes.OK,
			wantLevel: zapcore.InfoLevel,
			wantReqID: "abc",
		},
		{
			name: "not found is a warning",
			ctx:  context.Background(),
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, status.Error(codes.NotFound, "missing")
			},
			wantCode:  codes.NotFound,
			wantLevel: zapcore.WarnLevel,
		},
		{
			name: "plain error is unknown",
			ctx:  context.Background(),
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, errors.New("boom")
			},
			wantCode:  codes.Unknown,
			wantLevel: zapcore.ErrorLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, logs := newObserved(zapcore.DebugLevel)
			var seenID string
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				seenID = GetRequestID(ctx)
				return tt.handler(ctx, req)
			}

			_, err := UnaryServerInterceptor(l)(tt.ctx, "req", info, handler)
			assert.Equal(t, tt.wantCode, status.Code(err))
			assert.NotEmpty(t, seenID)
			if tt.wantReqID != "" {
				assert.Equal(t, tt.wantReqID, seenID)
			}

			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.wantLevel, entry.Level)
			assert.Equal(t, tt.wantCode.String(), entry.ContextMap()["code"])
		})
	}
}

func TestUnaryServerInterceptor_SkipMethods(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	resp, err := UnaryServerInterceptor(l, info.FullMethod)(context.Background(), nil, info,
		func(ctx context.Context, req interface{}) (interface{}, error) { return "ok", nil })

	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Zero(t, logs.Len())
}

func TestRecoveryInterceptor(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	info := &grpc.UnaryServerInfo{FullMethod: "/svc/Panic"}

	resp, err := RecoveryInterceptor(l)(context.Background(), nil, info,
		func(ctx context.Context, req interface{}) (interface{}, error) { panic("kaboom") })

	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}

func TestStreamServerInterceptor(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch", IsServerStream: true}
	ss := &mockServerStream{ctx: context.Background()}

	err := StreamServerInterceptor(l)(nil, ss, info, func(srv interface{}, stream grpc.ServerStream) error {
		return status.Error(codes.Unavailable, "down")
	})

	assert.Equal(t, codes.Unavailable, status.Code(err))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)

	err = StreamServerInterceptor(l)(nil, ss, info, func(srv interface{}, stream grpc.ServerStream) error {
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, logs.All()[1].Level)
}
