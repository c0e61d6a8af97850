// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded
// from a `.env` file), loads them into structured Go types, and
// validates that required values are present so they can be reused
// across the application runtime.
//
// Env vars use the USERHUB_ prefix and dot-delimited nesting, e.g.
// USERHUB_SERVER.PORT -> server.port -> Config.Server.Port.
package config

import (
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads a `.env` file (if present) into the
	// process environment before any env var is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional; defaults are
// injected at load time when it is missing.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Email         EmailConfig          `koanf:"email" validate:"required"`
	Jobs          JobsConfig           `koanf:"jobs"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details ("host:port").
// Redis backs both the asynq task queue and token revocation storage.
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig stores token-issuance settings.
//
// SecretKey signs HS256 access tokens. TokenExpiryHours bounds the
// token lifetime; revoked tokens are tracked until that bound passes.
type AuthConfig struct {
	SecretKey        string `koanf:"secret_key" validate:"required"`
	TokenExpiryHours int    `koanf:"token_expiry_hours" validate:"required,min=1"`
}

// EmailConfig holds mail-provider settings for the Resend client and
// the link embedded in registration confirmation messages.
type EmailConfig struct {
	ResendAPIKey    string `koanf:"resend_api_key" validate:"required"`
	FromName        string `koanf:"from_name" validate:"required"`
	FromAddress     string `koanf:"from_address" validate:"required,email"`
	ConfirmationURL string `koanf:"confirmation_url" validate:"required,url"`
}

// JobsConfig controls background job scheduling.
//
// AdminDigestCron is a standard 5-field cron expression for the daily
// admin digest trigger. Empty falls back to the default.
type JobsConfig struct {
	AdminDigestCron string `koanf:"admin_digest_cron"`
}

// DefaultAdminDigestCron fires the digest at 08:00 server time.
const DefaultAdminDigestCron = "0 8 * * *"

// New loads configuration from environment variables, unmarshals it
// into Config, validates it, and applies defaults for optional blocks.
//
// Missing or malformed required values are fatal: the process exits
// immediately rather than running half-configured.
func New() (*Config, error) {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	k := koanf.New(".")

	// Only env vars with the USERHUB_ prefix are read; the prefix is
	// stripped and the remainder lowercased to form the koanf key.
	err := k.Load(env.Provider("USERHUB_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "USERHUB_"))
	}), nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("Could not load initial env variables.")
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Could not unmarshal main config.")
	}

	validate := validator.New()
	if err := validate.Struct(mainConfig); err != nil {
		logger.Fatal().Err(err).Msg("Config validation failed.")
	}

	if mainConfig.Jobs.AdminDigestCron == "" {
		mainConfig.Jobs.AdminDigestCron = DefaultAdminDigestCron
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so telemetry is tagged
	// consistently regardless of what the operator set.
	mainConfig.Observability.ServiceName = "userhub"
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid observability config")
	}

	return mainConfig, nil
}
