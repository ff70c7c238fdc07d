package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Vendors  VendorsConfig  `mapstructure:"vendors" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// Environment distinguishes production from lower environments.
	// Vendor retry budgets depend on it: production retries once, lower
	// environments fail fast with a single attempt.
	Environment string `mapstructure:"environment" validate:"required,oneof=production staging development"`

	// GenerationsPerMinute is the per-user rate-limit backstop on generation
	// calls. It is a cost control, not part of the vendor resilience logic.
	GenerationsPerMinute int `mapstructure:"generations_per_minute" validate:"required,gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	// AutoMigrate runs pending goose migrations on startup when true.
	// Deployments that manage migrations out of band leave it false; the
	// credit store tolerates an absent ledger schema either way.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// VendorsConfig contains the settings for both external image-generation
// vendors plus the shared resilience policy applied to every vendor call.
type VendorsConfig struct {
	Restore  VendorConfig `mapstructure:"restore" validate:"required"`
	Portrait VendorConfig `mapstructure:"portrait" validate:"required"`

	// MaxAttempts bounds vendor calls for one logical generation.
	// Zero means "derive from environment" (2 in production, 1 elsewhere).
	MaxAttempts int `mapstructure:"max_attempts" validate:"gte=0,lte=5"`

	// AttemptTimeoutSeconds is the per-attempt HTTP timeout. Image
	// generation is slow; the upstream APIs routinely take over a minute.
	AttemptTimeoutSeconds int `mapstructure:"attempt_timeout_seconds" validate:"required,gt=0"`

	// RetryBaseDelayMs is the base of the exponential backoff between
	// attempts: delay = base * 2^(attempt-1).
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" validate:"required,gt=0"`
}

// VendorConfig holds the credentials and endpoint for a single vendor.
type VendorConfig struct {
	APIKey   string `mapstructure:"api_key" validate:"required"`
	Endpoint string `mapstructure:"endpoint" validate:"required,url"`
}

// EffectiveMaxAttempts resolves the vendor attempt budget, applying the
// environment-based default when no explicit override is configured.
func (c *Config) EffectiveMaxAttempts() int {
	if c.Vendors.MaxAttempts > 0 {
		return c.Vendors.MaxAttempts
	}
	if c.Server.Environment == "production" {
		return 2
	}
	return 1
}
