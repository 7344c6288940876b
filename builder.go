package authgate

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jjfarrow/authgate/internal/rate"
	"github.com/jjfarrow/authgate/jwt"
	"github.com/jjfarrow/authgate/password"
	"github.com/jjfarrow/authgate/revocation"
	"github.com/jjfarrow/authgate/totp"
)

// Builder assembles an [Engine]. Construction is allocation-only until
// Build, which validates the configuration and wires the backends: with a
// Redis client the rate windows and revocation set live in Redis and are
// shared across processes; without one they are in-process.
type Builder struct {
	config    Config
	hasConfig bool
	store     UserStore
	hasher    Hasher
	redis     redis.UniversalClient
	revoked   jwt.RevocationStore
	auditSink AuditSink
	logger    zerolog.Logger
	hasLogger bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{}
}

// WithConfig replaces the configuration. Zero-valued scalar fields are
// overlaid with defaults at Build time.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	b.hasConfig = true
	return b
}

// WithStore sets the credential store. Required.
func (b *Builder) WithStore(s UserStore) *Builder {
	b.store = s
	return b
}

// WithHasher overrides the password hasher. Defaults to Argon2id with
// [password.DefaultArgon2Config].
func (b *Builder) WithHasher(h Hasher) *Builder {
	b.hasher = h
	return b
}

// WithRedis backs the rate limiter and revocation set with Redis so
// multiple processes share throttle and logout state.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithRevocationStore overrides the revocation backend independently of
// WithRedis.
func (b *Builder) WithRevocationStore(s jwt.RevocationStore) *Builder {
	b.revoked = s
	return b
}

// WithAuditSink sets the audit consumer. Events flow only when
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the engine logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	b.hasLogger = true
	return b
}

// Build validates and wires everything into a ready Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.store == nil {
		return nil, errors.New("a user store is required")
	}

	cfg := b.config
	if !b.hasConfig {
		cfg = DefaultConfig()
	}
	cfg = cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	hasher := b.hasher
	if hasher == nil {
		var err error
		hasher, err = password.NewArgon2(password.DefaultArgon2Config())
		if err != nil {
			return nil, err
		}
	}

	revoked := b.revoked
	if revoked == nil {
		if b.redis != nil {
			revoked = revocation.NewRedis(b.redis)
		} else {
			revoked = revocation.NewMemory()
		}
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessSecret:  []byte(cfg.JWT.AccessSecret),
		RefreshSecret: []byte(cfg.JWT.RefreshSecret),
		AccessTTL:     cfg.JWT.AccessTTL,
		RefreshTTL:    cfg.JWT.RefreshTTL,
		Issuer:        cfg.JWT.Issuer,
		Leeway:        cfg.JWT.Leeway,
	}, revoked)
	if err != nil {
		return nil, err
	}

	var limiter rate.Limiter
	if b.redis != nil {
		limiter = rate.NewRedis(b.redis, cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	} else {
		limiter = rate.NewMemory(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window, cfg.RateLimit.SweepInterval)
	}

	logger := zerolog.Nop()
	if b.hasLogger {
		logger = b.logger
	}

	return &Engine{
		config: cfg,
		store:  b.store,
		hasher: hasher,
		tokens: tokens,
		totp: totp.Config{
			Issuer: cfg.TOTP.Issuer,
			Digits: cfg.TOTP.Digits,
			Period: cfg.TOTP.Period,
			Skew:   cfg.TOTP.Skew,
		}.WithDefaults(),
		limiter:   limiter,
		sessions:  newRefreshIndex(),
		accounts:  newKeyedLock(64),
		rotations: newKeyedLock(64),
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   newMetrics(),
		logger:    logger,
	}, nil
}
