package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/keylinehq/keyline/pkg/jwtx"
)

// Config is the full runtime configuration, loaded from the environment.
type Config struct {
	Port     int `env:"PORT" envDefault:"8080"`      // HTTP listen port
	GRPCPort int `env:"GRPC_PORT" envDefault:"9090"` // gRPC listen port

	DatabaseFile string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"` // SQLite database path

	JWTSecret        string `env:"AUTH_JWT_SECRET"`                        // Required: HMAC signing secret, at least 32 bytes
	JWTAlgorithm     string `env:"AUTH_JWT_ALGORITHM" envDefault:"HS256"`  // HS256, HS384 or HS512
	AccessTTLMinutes int    `env:"AUTH_ACCESS_TTL_MINUTES" envDefault:"30"` // 1..1440
	RefreshTTLDays   int    `env:"AUTH_REFRESH_TTL_DAYS" envDefault:"7"`    // 1..30

	Env       string `env:"ENV" envDefault:"dev"`         // dev, staging, prod
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`  // debug, info, warn, error
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"` // json, text

	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

const (
	maxAccessTTLMinutes = 24 * 60 // one day
	maxRefreshTTLDays   = 30
)

// LoadConfig reads the configuration from environment variables and
// validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the signing and lifetime bounds. A weak secret or an
// out-of-range TTL is a startup failure, never a runtime surprise.
func (cfg Config) Validate() error {
	if len(cfg.JWTSecret) < jwtx.MinSecretLength {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength)
	}

	switch cfg.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("AUTH_JWT_ALGORITHM %q not supported, want HS256, HS384 or HS512", cfg.JWTAlgorithm)
	}

	if cfg.AccessTTLMinutes < 1 || cfg.AccessTTLMinutes > maxAccessTTLMinutes {
		return fmt.Errorf("AUTH_ACCESS_TTL_MINUTES must be in 1..%d, got %d",
			maxAccessTTLMinutes, cfg.AccessTTLMinutes)
	}

	if cfg.RefreshTTLDays < 1 || cfg.RefreshTTLDays > maxRefreshTTLDays {
		return fmt.Errorf("AUTH_REFRESH_TTL_DAYS must be in 1..%d, got %d",
			maxRefreshTTLDays, cfg.RefreshTTLDays)
	}

	return nil
}

// AccessTTL returns the configured access token lifetime.
func (cfg Config) AccessTTL() time.Duration {
	return time.Duration(cfg.AccessTTLMinutes) * time.Minute
}

// RefreshTTL returns the configured refresh token lifetime.
func (cfg Config) RefreshTTL() time.Duration {
	return time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour
}
