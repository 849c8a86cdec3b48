package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{Logger: zap.New(core), config: DefaultConfig()}, logs
}

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil config uses default", config: nil},
		{name: "default config", config: DefaultConfig()},
		{
			name:   "console format",
			config: &Config{Level: "info", Format: "console", Output: "console"},
		},
		{
			name: "file output",
			config: &Config{
				Level:  "debug",
				Format: "json",
				Output: "file",
				File:   FileConfig{Filename: filepath.Join(dir, "app.log"), MaxSize: 10, MaxAge: 7},
			},
		},
		{
			name: "both output",
			config: &Config{
				Level:  "warn",
				Format: "json",
				Output: "both",
				File:   FileConfig{Filename: filepath.Join(dir, "nested", "app.log"), MaxSize: 10, MaxAge: 7},
			},
		},
		{
			name:    "invalid level",
			config:  &Config{Level: "verbose", Format: "json", Output: "console"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, l)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, l)
			l.Info("test message", zap.String("case", tt.name))
			_ = l.Sync()
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "default", mutate: func(c *Config) {}},
		{name: "upper case level", mutate: func(c *Config) { c.Level = "DEBUG" }},
		{name: "invalid format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: true},
		{name: "invalid output", mutate: func(c *Config) { c.Output = "syslog" }, wantErr: true},
		{
			name: "file without filename",
			mutate: func(c *Config) {
				c.Output = "file"
				c.File.Filename = ""
			},
			wantErr: true,
		},
		{
			name: "file with zero max size",
			mutate: func(c *Config) {
				c.Output = "both"
				c.File.MaxSize = 0
			},
			wantErr: true,
		},
		{
			name: "file ignored for console output",
			mutate: func(c *Config) {
				c.File = FileConfig{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if tt.wantErr {
				assert.Error(t, cfg.Validate())
			} else {
				assert.NoError(t, cfg.Validate())
			}
		})
	}
}

func TestLogger_WithAndNamed(t *testing.T) {
	l, logs := newObserved(zapcore.InfoLevel)

	l.With(zap.String("source", "met")).Named("museum").Info("searched")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "museum", entry.LoggerName)
	assert.Equal(t, "met", entry.ContextMap()["source"])
}

func TestContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithUserID(ctx, "user-1")

	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Equal(t, "user-1", GetUserID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))

	l, logs := newObserved(zapcore.DebugLevel)
	l.WithContext(ctx).Info("with ids")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "user-1", fields["user_id"])

	assert.Same(t, l, l.WithContext(context.Background()))
}

func TestFromContext(t *testing.T) {
	l, logs := newObserved(zapcore.DebugLevel)
	ctx := ToContext(WithRequestID(context.Background(), "req-9"), l)

	FromContext(ctx).Debug("from ctx")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-9", logs.All()[0].ContextMap()["request_id"])
	assert.NotNil(t, FromContext(context.Background()))
}

func TestGlobalLogger(t *testing.T) {
	prev := L()
	defer SetGlobal(prev)

	l, logs := newObserved(zapcore.InfoLevel)
	SetGlobal(l)

	Info("global info")
	Warn("global warn")
	Debug("dropped")

	assert.Equal(t, 2, logs.Len())
	assert.NoError(t, InitGlobal(DefaultConfig()))
}

func TestDevelopmentAndNop(t *testing.T) {
	l, err := Development()
	require.NoError(t, err)
	assert.Equal(t, "debug", l.Config().Level)

	nop := Nop()
	nop.Error("ignored")
	assert.NotNil(t, nop.Config())
}
