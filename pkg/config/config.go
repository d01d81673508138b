package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Upstream UpstreamConfig
	Redis    RedisConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Cache    CacheConfig
	Session  SessionConfig
	Export   ExportConfig
	Audit    AuditConfig
}

// UpstreamConfig points at the remote wallet/ledger API.
type UpstreamConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// JWTConfig controls verification of upstream-issued tokens. When Secret is
// empty the resolver decodes claims without signature verification, matching
// the behaviour of the browser client this service replaced.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig tunes the short-lived balance cache.
type CacheConfig struct {
	Enabled    bool
	BalanceTTL time.Duration
}

// SessionConfig governs stored credential and selection-state lifetimes.
type SessionConfig struct {
	TTL          time.Duration
	SelectionTTL time.Duration
}

// ExportConfig toggles transaction export endpoints.
type ExportConfig struct {
	Enabled bool
}

// AuditConfig toggles the local mutation audit trail.
type AuditConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Upstream = UpstreamConfig{
		BaseURL: v.GetString("UPSTREAM_BASE_URL"),
		Timeout: parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 15*time.Second),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:    v.GetBool("ENABLE_BALANCE_CACHE"),
		BalanceTTL: parseDuration(v.GetString("BALANCE_CACHE_TTL"), 30*time.Second),
	}

	cfg.Session = SessionConfig{
		TTL:          parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		SelectionTTL: parseDuration(v.GetString("SELECTION_TTL"), 30*time.Minute),
	}

	cfg.Export = ExportConfig{Enabled: v.GetBool("ENABLE_EXPORTS")}
	cfg.Audit = AuditConfig{Enabled: v.GetBool("ENABLE_AUDIT_TRAIL")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("UPSTREAM_BASE_URL", "https://server.example.test")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "wallet_panel")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_BALANCE_CACHE", true)
	v.SetDefault("BALANCE_CACHE_TTL", "30s")

	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SELECTION_TTL", "30m")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("ENABLE_AUDIT_TRAIL", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
