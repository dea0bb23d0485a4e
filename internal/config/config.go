package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// 持久化后端。
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMinIO    = "minio"
)

// 镜像写入模式：direct 由 API 进程直接写后端，queue 经 Asynq 交给 worker 写入。
const (
	ModeDirect = "direct"
	ModeQueue  = "queue"
)

// Config aggregates application settings that may be sourced from files or environment variables.
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Persist  PersistConfig  `mapstructure:"persist"`
	Sync     SyncConfig     `mapstructure:"sync"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
}

// APIConfig contains HTTP server settings.
type APIConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains connection options for PostgreSQL.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// RedisConfig 包含 Redis 连接配置。
type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// Addr 返回 host:port 形式的地址。
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// MinIOConfig contains connection options for MinIO/S3-compatible storage.
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	Region           string `mapstructure:"region"`
	Bucket           string `mapstructure:"bucket"`
	AutoCreateBucket bool   `mapstructure:"auto_create_bucket"`
}

// PersistConfig 描述状态镜像写到哪里、怎么写。
type PersistConfig struct {
	Backend      string        `mapstructure:"backend"`
	Mode         string        `mapstructure:"mode"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SyncConfig 限定同步目录可选择的根路径；为空表示宿主不支持目录选择。
type SyncConfig struct {
	AllowedRoot string `mapstructure:"allowed_root"`
}

// AuthConfig 为单一所有者登录提供凭据。PasswordHash 为空时关闭鉴权。
type AuthConfig struct {
	PasswordHash   string        `mapstructure:"password_hash"`
	TokenSecret    string        `mapstructure:"token_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	// LoginRateLimitPerHour 仅在配置了 Redis 时生效。
	LoginRateLimitPerHour int `mapstructure:"login_rate_limit_per_hour"`
}

// Enabled 表示是否需要登录。
func (a AuthConfig) Enabled() bool {
	return strings.TrimSpace(a.PasswordHash) != ""
}

// LogConfig 控制日志级别。
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// SlogLevel 将配置中的级别字符串转换为 slog.Level，未知值回落到 info。
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DSN builds a lib/pq compatible connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
		d.SSLMode,
	)
}

// Load reads configuration solely from environment variables (with optional defaults).
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.API.AllowedOrigins = splitOrigins(cfg.API.AllowedOrigins)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad wraps Load and panics on failure.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", 8080)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "magicresume")
	v.SetDefault("database.user", "magicresume")
	v.SetDefault("database.password", "magicresume")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("minio.endpoint", "localhost:9000")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("minio.bucket", "magic-resume-state")
	v.SetDefault("minio.auto_create_bucket", true)
	v.SetDefault("persist.backend", BackendMemory)
	v.SetDefault("persist.mode", ModeDirect)
	v.SetDefault("persist.write_timeout", 5*time.Second)
	v.SetDefault("auth.access_token_ttl", 12*time.Hour)
	v.SetDefault("auth.login_rate_limit_per_hour", 10)
	v.SetDefault("log.level", "info")
}

func bindEnv(v *viper.Viper) error {
	mappings := map[string]string{
		"api.port":                       "API_PORT",
		"api.allowed_origins":            "API_ALLOWED_ORIGINS",
		"database.host":                  "DATABASE_HOST",
		"database.port":                  "DATABASE_PORT",
		"database.name":                  "POSTGRES_DB",
		"database.user":                  "POSTGRES_USER",
		"database.password":              "POSTGRES_PASSWORD",
		"database.sslmode":               "DATABASE_SSLMODE",
		"redis.host":                     "REDIS_HOST",
		"redis.port":                     "REDIS_PORT",
		"minio.endpoint":                 "MINIO_ENDPOINT",
		"minio.access_key_id":            "MINIO_ACCESS_KEY_ID",
		"minio.secret_access_key":        "MINIO_SECRET_ACCESS_KEY",
		"minio.use_ssl":                  "MINIO_USE_SSL",
		"minio.region":                   "MINIO_REGION",
		"minio.bucket":                   "MINIO_BUCKET",
		"minio.auto_create_bucket":       "MINIO_AUTO_CREATE_BUCKET",
		"persist.backend":                "PERSIST_BACKEND",
		"persist.mode":                   "PERSIST_MODE",
		"persist.key_prefix":             "PERSIST_KEY_PREFIX",
		"persist.write_timeout":          "PERSIST_WRITE_TIMEOUT",
		"sync.allowed_root":              "SYNC_ALLOWED_ROOT",
		"auth.password_hash":             "AUTH_PASSWORD_HASH",
		"auth.token_secret":              "AUTH_TOKEN_SECRET",
		"auth.access_token_ttl":          "AUTH_ACCESS_TOKEN_TTL",
		"auth.login_rate_limit_per_hour": "AUTH_LOGIN_RATE_LIMIT_PER_HOUR",
		"log.level":                      "LOG_LEVEL",
	}

	for key, env := range mappings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}

// 环境变量里的来源列表以逗号分隔。
func splitOrigins(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}

// UsesRedis 表示当前配置是否需要 Redis 连接。
func (c Config) UsesRedis() bool {
	return c.Persist.Backend == BackendRedis || c.Persist.Mode == ModeQueue
}

func validate(cfg Config) error {
	if cfg.API.Port <= 0 {
		return errors.New("api port must be positive")
	}
	if cfg.Persist.WriteTimeout <= 0 {
		return errors.New("persist write timeout must be positive")
	}

	switch cfg.Persist.Mode {
	case ModeDirect, ModeQueue:
	default:
		return fmt.Errorf("invalid persist mode %q", cfg.Persist.Mode)
	}

	switch cfg.Persist.Backend {
	case BackendMemory:
		if cfg.Persist.Mode == ModeQueue {
			return errors.New("persist mode queue requires a shared backend, not memory")
		}
	case BackendPostgres:
		if err := validateDatabase(cfg.Database); err != nil {
			return err
		}
	case BackendRedis:
	case BackendMinIO:
		if err := validateMinIO(cfg.MinIO); err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid persist backend %q", cfg.Persist.Backend)
	}

	if cfg.UsesRedis() {
		if cfg.Redis.Host == "" {
			return errors.New("redis host is required")
		}
		if cfg.Redis.Port <= 0 {
			return errors.New("redis port must be positive")
		}
	}

	if cfg.Auth.Enabled() {
		if strings.TrimSpace(cfg.Auth.TokenSecret) == "" {
			return errors.New("auth token secret is required when a password hash is set")
		}
		if cfg.Auth.AccessTokenTTL <= 0 {
			return errors.New("auth access token ttl must be positive")
		}
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	if d.Host == "" {
		return errors.New("database host is required")
	}
	if d.Port <= 0 {
		return errors.New("database port must be positive")
	}
	if d.Name == "" {
		return errors.New("database name is required")
	}
	if d.User == "" {
		return errors.New("database user is required")
	}
	if d.Password == "" {
		return errors.New("database password is required")
	}
	if d.SSLMode == "" {
		return errors.New("database sslmode is required")
	}
	return nil
}

func validateMinIO(m MinIOConfig) error {
	if m.Endpoint == "" {
		return errors.New("minio endpoint is required")
	}
	if m.AccessKeyID == "" {
		return errors.New("minio access key id is required")
	}
	if m.SecretAccessKey == "" {
		return errors.New("minio secret access key is required")
	}
	if m.Bucket == "" {
		return errors.New("minio bucket is required")
	}
	return nil
}
