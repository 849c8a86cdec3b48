package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/lk2023060901/exhibition-curator-backend/internal/auth/middleware"
	"github.com/lk2023060901/exhibition-curator-backend/internal/museum/types"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/database"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/logger"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/oauth2"
	"github.com/lk2023060901/exhibition-curator-backend/internal/pkg/redis"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig    `mapstructure:"server"`
	Database database.Config `mapstructure:"database"`
	Redis    redis.Config    `mapstructure:"redis"`
	Log      logger.Config   `mapstructure:"log"`
	Auth     AuthConfig      `mapstructure:"auth"`
	OAuth2   OAuth2Config    `mapstructure:"oauth2"`
	Museum   MuseumConfig    `mapstructure:"museum"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	Mode            string        `mapstructure:"mode"` // gin: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	JWTSecret       string                       `mapstructure:"jwt_secret"`
	JWTIssuer       string                       `mapstructure:"jwt_issuer"`
	AccessTokenTTL  time.Duration                `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration                `mapstructure:"refresh_token_ttl"`
	CORSOrigins     []string                     `mapstructure:"cors_origins"`
	LoginRateLimit  middleware.RateLimiterConfig `mapstructure:"login_rate_limit"`
	SearchRateLimit middleware.RateLimiterConfig `mapstructure:"search_rate_limit"`
}

type OAuth2Config struct {
	Google oauth2.Config `mapstructure:"google"`
}

type MuseumConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
	SearchTimeout  time.Duration `mapstructure:"search_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"` // 单个源的 HTTP 超时
	WorkerPoolSize int           `mapstructure:"worker_pool_size"`

	Rijksmuseum types.ProviderConfig `mapstructure:"rijksmuseum"`
	Harvard     types.ProviderConfig `mapstructure:"harvard"`
	Met         types.ProviderConfig `mapstructure:"met"`
	Artic       types.ProviderConfig `mapstructure:"artic"`
}

// Sources 返回已启用的博物馆源配置，ID 由配置段名决定
func (m *MuseumConfig) Sources() []*types.ProviderConfig {
	all := []struct {
		id  types.ProviderID
		cfg *types.ProviderConfig
	}{
		{types.ProviderRijksmuseum, &m.Rijksmuseum},
		{types.ProviderHarvard, &m.Harvard},
		{types.ProviderMet, &m.Met},
		{types.ProviderArtic, &m.Artic},
	}

	out := make([]*types.ProviderConfig, 0, len(all))
	for _, s := range all {
		if !s.cfg.Enabled {
			continue
		}
		cfg := *s.cfg
		cfg.ID = s.id
		out = append(out, &cfg)
	}
	return out
}

// LoadConfig 读取 YAML 配置，环境变量（如 MUSEUM_HARVARD_API_KEY）覆盖文件中的值
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate 启动前检查；API key 缺失不在此报错，而是在调用对应源时返回
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	for _, src := range c.Museum.Sources() {
		if err := src.Validate(); err != nil {
			return fmt.Errorf("museum.%s: %w", src.ID, err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	db := database.DefaultConfig()
	v.SetDefault("database.host", db.Host)
	v.SetDefault("database.port", db.Port)
	v.SetDefault("database.user", db.User)
	v.SetDefault("database.dbname", "exhibition_curator")
	v.SetDefault("database.sslmode", db.SSLMode)
	v.SetDefault("database.max_idle_conns", db.MaxIdleConns)
	v.SetDefault("database.max_open_conns", db.MaxOpenConns)
	v.SetDefault("database.conn_max_lifetime", db.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", db.ConnMaxIdleTime)
	v.SetDefault("database.log_level", db.LogLevel)
	v.SetDefault("database.slow_threshold", db.SlowThreshold)
	v.SetDefault("database.prepare_stmt", db.PrepareStmt)
	v.SetDefault("database.timezone", db.Timezone)
	v.SetDefault("database.auto_migrate", true)

	rc := redis.DefaultConfig()
	v.SetDefault("redis.mode", string(rc.Mode))
	v.SetDefault("redis.addr", rc.Addr)
	v.SetDefault("redis.pool_size", rc.PoolSize)
	v.SetDefault("redis.min_idle_conns", rc.MinIdleConns)
	v.SetDefault("redis.dial_timeout", rc.DialTimeout)
	v.SetDefault("redis.read_timeout", rc.ReadTimeout)
	v.SetDefault("redis.write_timeout", rc.WriteTimeout)
	v.SetDefault("redis.pool_timeout", rc.PoolTimeout)
	v.SetDefault("redis.max_retries", rc.MaxRetries)
	v.SetDefault("redis.conn_max_idle_time", rc.ConnMaxIdleTime)

	lc := logger.DefaultConfig()
	v.SetDefault("log.level", lc.Level)
	v.SetDefault("log.format", lc.Format)
	v.SetDefault("log.output", lc.Output)
	v.SetDefault("log.enable_caller", lc.EnableCaller)
	v.SetDefault("log.enable_stacktrace", lc.EnableStacktrace)
	v.SetDefault("log.file.filename", lc.File.Filename)
	v.SetDefault("log.file.max_size", lc.File.MaxSize)
	v.SetDefault("log.file.max_age", lc.File.MaxAge)
	v.SetDefault("log.file.max_backups", lc.File.MaxBackups)
	v.SetDefault("log.file.compress", lc.File.Compress)

	v.SetDefault("auth.jwt_issuer", "exhibition-curator")
	v.SetDefault("auth.access_token_ttl", time.Hour)
	v.SetDefault("auth.refresh_token_ttl", 14*24*time.Hour)
	v.SetDefault("auth.login_rate_limit.max_requests", 5)
	v.SetDefault("auth.login_rate_limit.window_seconds", 300)
	v.SetDefault("auth.search_rate_limit.max_requests", 60)
	v.SetDefault("auth.search_rate_limit.window_seconds", 60)

	v.SetDefault("museum.page_size", 10)
	v.SetDefault("museum.cache_ttl", 5*time.Minute)
	v.SetDefault("museum.search_timeout", 20*time.Second)
	v.SetDefault("museum.request_timeout", 15*time.Second)
	v.SetDefault("museum.worker_pool_size", 64)

	sources := []struct {
		key, name, host string
		enabled         bool
		rate            float64
	}{
		{"rijksmuseum", "Rijksmuseum", "https://www.rijksmuseum.nl", true, 10},
		{"harvard", "Harvard Art Museums", "https://api.harvardartmuseums.org", true, 10},
		{"met", "The Metropolitan Museum of Art", "https://collectionapi.metmuseum.org", false, 40},
		{"artic", "Art Institute of Chicago", "https://api.artic.edu", false, 10},
	}
	for _, s := range sources {
		prefix := "museum." + s.key + "."
		v.SetDefault(prefix+"name", s.name)
		v.SetDefault(prefix+"enabled", s.enabled)
		v.SetDefault(prefix+"api_host", s.host)
		v.SetDefault(prefix+"rate_limit", s.rate)
		// 显式声明，使 AutomaticEnv 能覆盖未写在文件里的 key
		v.SetDefault(prefix+"api_key", "")
	}
	v.SetDefault("museum.artic.image_host", "https://www.artic.edu/iiif/2")

	v.SetDefault("oauth2.google.client_id", "")
	v.SetDefault("oauth2.google.client_secret", "")
	v.SetDefault("oauth2.google.redirect_url", "")
}
