package authgate

import (
	"errors"
	"time"
)

// Config is the full engine configuration. Start from [DefaultConfig] and
// override fields, or pass a partially filled struct to [Builder.WithConfig]:
// zero-valued scalar fields are overlaid with their defaults at Build time.
// The boolean password-class requirements are taken as given, so disabling a
// character class only requires setting it to false on a [DefaultConfig]
// value.
type Config struct {
	JWT       JWTConfig
	Password  PasswordConfig
	RateLimit RateLimitConfig
	Account   AccountConfig
	TOTP      TOTPConfig
	Audit     AuditConfig
}

// JWTConfig controls the token engine. Access and refresh tokens are signed
// with distinct secrets so a refresh-secret compromise cannot mint access
// tokens.
type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Leeway        time.Duration
}

// PasswordConfig is the password-composition policy enforced on register and
// password change.
type PasswordConfig struct {
	MinLength           int
	RequireUppercase    bool
	RequireLowercase    bool
	RequireNumbers      bool
	RequireSpecialChars bool
}

// RateLimitConfig tunes the per-email login attempt window.
type RateLimitConfig struct {
	MaxAttempts int
	Window      time.Duration
	// SweepInterval is the background prune period for the in-memory
	// limiter. Defaults to Window.
	SweepInterval time.Duration
}

// AccountConfig tunes the failed-login lockout state machine.
type AccountConfig struct {
	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

// TOTPConfig tunes MFA code generation. Issuer defaults to the JWT issuer.
type TOTPConfig struct {
	Issuer string
	Digits int
	Period int
	Skew   int
}

// AuditConfig controls the asynchronous audit pipeline. Disabled by default.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking when the buffer is full;
	// drops are counted and visible via [Engine.AuditDropped].
	DropIfFull bool
}

// DefaultConfig returns the development defaults. The JWT secrets are
// placeholders and must be overridden in production; Build refuses empty
// secrets but cannot judge weak ones.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessSecret:  "change-this-access-secret-in-production",
			RefreshSecret: "change-this-refresh-secret-in-production",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			Issuer:        "authgate",
		},
		Password: PasswordConfig{
			MinLength:           8,
			RequireUppercase:    true,
			RequireLowercase:    true,
			RequireNumbers:      true,
			RequireSpecialChars: true,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts: 10,
			Window:      time.Minute,
		},
		Account: AccountConfig{
			MaxFailedAttempts: 5,
			LockoutDuration:   15 * time.Minute,
		},
		TOTP: TOTPConfig{
			Digits: 6,
			Period: 30,
			Skew:   1,
		},
		Audit: AuditConfig{
			BufferSize: 256,
		},
	}
}

// normalize overlays defaults onto zero-valued scalar fields, field by field.
func (c Config) normalize() Config {
	def := DefaultConfig()
	if c.JWT.AccessSecret == "" {
		c.JWT.AccessSecret = def.JWT.AccessSecret
	}
	if c.JWT.RefreshSecret == "" {
		c.JWT.RefreshSecret = def.JWT.RefreshSecret
	}
	if c.JWT.AccessTTL <= 0 {
		c.JWT.AccessTTL = def.JWT.AccessTTL
	}
	if c.JWT.RefreshTTL <= 0 {
		c.JWT.RefreshTTL = def.JWT.RefreshTTL
	}
	if c.JWT.Issuer == "" {
		c.JWT.Issuer = def.JWT.Issuer
	}
	if c.Password.MinLength <= 0 {
		c.Password.MinLength = def.Password.MinLength
	}
	if c.RateLimit.MaxAttempts <= 0 {
		c.RateLimit.MaxAttempts = def.RateLimit.MaxAttempts
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = def.RateLimit.Window
	}
	if c.RateLimit.SweepInterval <= 0 {
		c.RateLimit.SweepInterval = c.RateLimit.Window
	}
	if c.Account.MaxFailedAttempts <= 0 {
		c.Account.MaxFailedAttempts = def.Account.MaxFailedAttempts
	}
	if c.Account.LockoutDuration <= 0 {
		c.Account.LockoutDuration = def.Account.LockoutDuration
	}
	if c.TOTP.Issuer == "" {
		c.TOTP.Issuer = c.JWT.Issuer
	}
	if c.TOTP.Digits <= 0 {
		c.TOTP.Digits = def.TOTP.Digits
	}
	if c.TOTP.Period <= 0 {
		c.TOTP.Period = def.TOTP.Period
	}
	if c.TOTP.Skew < 0 {
		c.TOTP.Skew = 0
	}
	if c.Audit.BufferSize <= 0 {
		c.Audit.BufferSize = def.Audit.BufferSize
	}
	return c
}

func (c Config) validate() error {
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("access and refresh secrets must differ")
	}
	if c.JWT.Leeway < 0 || c.JWT.Leeway > 2*time.Minute {
		return errors.New("invalid leeway configuration")
	}
	return nil
}
