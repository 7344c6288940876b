package authgate

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig is the flat environment surface. Durations use Go syntax
// ("15m", "168h"); unset variables fall back to [DefaultConfig] values
// through the normal overlay.
type envConfig struct {
	AccessSecret  string        `env:"AUTHGATE_JWT_ACCESS_SECRET"`
	RefreshSecret string        `env:"AUTHGATE_JWT_REFRESH_SECRET"`
	AccessTTL     time.Duration `env:"AUTHGATE_JWT_ACCESS_TTL"`
	RefreshTTL    time.Duration `env:"AUTHGATE_JWT_REFRESH_TTL"`
	Issuer        string        `env:"AUTHGATE_JWT_ISSUER"`

	PasswordMinLength int  `env:"AUTHGATE_PASSWORD_MIN_LENGTH"`
	RequireUppercase  bool `env:"AUTHGATE_PASSWORD_REQUIRE_UPPERCASE" envDefault:"true"`
	RequireLowercase  bool `env:"AUTHGATE_PASSWORD_REQUIRE_LOWERCASE" envDefault:"true"`
	RequireNumbers    bool `env:"AUTHGATE_PASSWORD_REQUIRE_NUMBERS" envDefault:"true"`
	RequireSpecial    bool `env:"AUTHGATE_PASSWORD_REQUIRE_SPECIAL" envDefault:"true"`

	RateLimitMaxAttempts int           `env:"AUTHGATE_RATE_LIMIT_MAX_ATTEMPTS"`
	RateLimitWindow      time.Duration `env:"AUTHGATE_RATE_LIMIT_WINDOW"`

	MaxFailedAttempts int           `env:"AUTHGATE_ACCOUNT_MAX_FAILED_ATTEMPTS"`
	LockoutDuration   time.Duration `env:"AUTHGATE_ACCOUNT_LOCKOUT_DURATION"`

	TOTPIssuer string `env:"AUTHGATE_TOTP_ISSUER"`
}

// ConfigFromEnv assembles a [Config] from AUTHGATE_* environment variables,
// overlaying anything left unset with defaults.
func ConfigFromEnv() (Config, error) {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg := Config{
		JWT: JWTConfig{
			AccessSecret:  e.AccessSecret,
			RefreshSecret: e.RefreshSecret,
			AccessTTL:     e.AccessTTL,
			RefreshTTL:    e.RefreshTTL,
			Issuer:        e.Issuer,
		},
		Password: PasswordConfig{
			MinLength:           e.PasswordMinLength,
			RequireUppercase:    e.RequireUppercase,
			RequireLowercase:    e.RequireLowercase,
			RequireNumbers:      e.RequireNumbers,
			RequireSpecialChars: e.RequireSpecial,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts: e.RateLimitMaxAttempts,
			Window:      e.RateLimitWindow,
		},
		Account: AccountConfig{
			MaxFailedAttempts: e.MaxFailedAttempts,
			LockoutDuration:   e.LockoutDuration,
		},
		TOTP: TOTPConfig{Issuer: e.TOTPIssuer},
	}
	return cfg.normalize(), nil
}
