package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/pitchbridge/internal/observability"
	"github.com/yungbote/pitchbridge/internal/platform/envutil"
	"github.com/yungbote/pitchbridge/internal/platform/logger"
)

const (
	BackendSQL  = "sql"
	BackendREST = "rest"
)

type Config struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	BackendMode     string        `yaml:"backend_mode"`
	SupabaseURL     string        `yaml:"supabase_url"`
	SupabaseAnonKey string        `yaml:"supabase_anon_key"`
	BackendTimeout  time.Duration `yaml:"backend_timeout"`

	DatabaseDriver  string        `yaml:"database_driver"`
	DatabaseDSN     string        `yaml:"database_dsn"`
	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl"`

	RedisAddr           string        `yaml:"redis_addr"`
	SessionTTL          time.Duration `yaml:"session_ttl"`
	SessionCookieSecure bool          `yaml:"session_cookie_secure"`

	AtomicLikes    bool     `yaml:"atomic_likes"`
	CORSOrigins    []string `yaml:"cors_origins"`
	MetricsEnabled bool     `yaml:"metrics_enabled"`

	Otel observability.OtelConfig `yaml:"-"`
}

func defaultConfig() Config {
	return Config{
		Port:            "8080",
		LogMode:         "development",
		BackendMode:     BackendSQL,
		DatabaseDriver:  "sqlite",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 30 * 24 * time.Hour,
		SessionTTL:      7 * 24 * time.Hour,
	}
}

// LoadConfig layers the optional YAML file named by CONFIG_FILE over the
// defaults, then the environment over both.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadConfigFile(path, &cfg); err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path)
	}

	cfg.Port = envutil.String("PORT", cfg.Port, log)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode, log)

	cfg.BackendMode = strings.ToLower(envutil.String("BACKEND_MODE", cfg.BackendMode, log))
	cfg.SupabaseURL = envutil.String("SUPABASE_URL", cfg.SupabaseURL, log)
	cfg.SupabaseAnonKey = envutil.String("SUPABASE_ANON_KEY", cfg.SupabaseAnonKey, log)
	cfg.BackendTimeout = envutil.Duration("BACKEND_TIMEOUT", cfg.BackendTimeout, log)

	cfg.DatabaseDriver = strings.ToLower(envutil.String("DATABASE_DRIVER", cfg.DatabaseDriver, log))
	cfg.DatabaseDSN = envutil.String("DATABASE_DSN", cfg.DatabaseDSN, log)
	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey, log)
	cfg.AccessTokenTTL = envutil.Duration("ACCESS_TOKEN_TTL", cfg.AccessTokenTTL, log)
	cfg.RefreshTokenTTL = envutil.Duration("REFRESH_TOKEN_TTL", cfg.RefreshTokenTTL, log)

	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr, log)
	cfg.SessionTTL = envutil.Duration("SESSION_TTL", cfg.SessionTTL, log)
	cfg.SessionCookieSecure = envutil.Bool("SESSION_COOKIE_SECURE", cfg.SessionCookieSecure, log)

	cfg.AtomicLikes = envutil.Bool("ATOMIC_LIKES", cfg.AtomicLikes, log)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins, log)
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled, log)

	cfg.Otel = observability.OtelConfig{
		Enabled:     envutil.Bool("OTEL_ENABLED", false, log),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", observability.DefaultServiceName, log),
		Environment: envutil.String("APP_ENV", cfg.LogMode, log),
		Version:     envutil.String("APP_VERSION", "", log),
		Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
		Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", log)),
		Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false, log),
		SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1, log),
	}

	return cfg, cfg.validate()
}

func loadConfigFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	switch c.BackendMode {
	case BackendSQL:
		if c.JWTSecretKey == "" {
			return fmt.Errorf("JWT_SECRET_KEY is required when BACKEND_MODE=%s", BackendSQL)
		}
	case BackendREST:
		if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required when BACKEND_MODE=%s", BackendREST)
		}
	default:
		return fmt.Errorf("unknown BACKEND_MODE %q", c.BackendMode)
	}
	return nil
}
