package goSSO

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSSO/account"
	"github.com/MrEthical07/goSSO/internal/cas"
	"github.com/MrEthical07/goSSO/internal/flows"
	"github.com/MrEthical07/goSSO/internal/logging"
	"github.com/MrEthical07/goSSO/password"
	"github.com/MrEthical07/goSSO/session"
	"github.com/MrEthical07/goSSO/ticket"
)

// Builder assembles an Engine. A Builder can be built once.
type Builder struct {
	config Config
	redis  redis.UniversalClient
	logger *slog.Logger

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the store. Transactions WATCH keys of different slots, so
// use a standalone or failover client rather than a cluster client.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger sets the engine logger. Without one the engine is silent.
func (b *Builder) WithLogger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and wires the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client required")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hasher, err := newHasher(cfg.Password)
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = logging.Discard()
	}

	tx := cas.New(b.redis, cfg.Store.MaxTxRetries)

	engine := &Engine{
		config:   cloneConfig(cfg),
		redis:    b.redis,
		hasher:   hasher,
		logger:   logger,
		metrics:  NewMetrics(cfg.Metrics),
		accounts: account.NewDirectory(b.redis, cfg.Store.KeyPrefix, tx),
		tickets: ticket.NewManager(b.redis, hasher, tx, ticket.Options{
			KeyPrefix: cfg.Store.KeyPrefix,
			TTL:       cfg.Ticket.Duration,
			UsedTTL:   cfg.Session.LoginTokenDuration,
		}),
		sessions: session.NewManager(b.redis, session.Options{
			KeyPrefix:          cfg.Store.KeyPrefix,
			SessionTTL:         cfg.Session.LoginTokenDuration,
			RefreshTTL:         cfg.Session.RefreshTokenDuration,
			TokenLength:        cfg.Session.TokenLength,
			RefreshTokenLength: cfg.Session.RefreshTokenLength,
		}),
	}

	if cfg.Assertion.Enabled {
		jm, err := newAssertionManager(cfg.Assertion)
		if err != nil {
			return nil, err
		}
		engine.assertions = jm
	}

	engine.deps = flows.Deps{
		Accounts:               engine.accounts,
		Tickets:                engine.tickets,
		Sessions:               engine.sessions,
		Hasher:                 hasher,
		PasswordUpgradeOnLogin: cfg.Password.UpgradeOnLogin,
		Warn: func(msg string, args ...any) {
			logger.Warn(msg, args...)
		},
	}

	b.built = true
	return engine, nil
}

// newHasher registers both algorithms so stored hashes of either verify; the
// configured one hashes.
func newHasher(cfg PasswordConfig) (*password.Registry, error) {
	argon, err := password.NewArgon2(password.Config{
		Memory:      cfg.Memory,
		Time:        cfg.Time,
		Parallelism: cfg.Parallelism,
		SaltLength:  cfg.SaltLength,
		KeyLength:   cfg.KeyLength,
	})
	if err != nil && cfg.Algorithm == password.AlgorithmArgon2id {
		return nil, err
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = 10
	}
	bc, err := password.NewBcrypt(cost)
	if err != nil {
		return nil, err
	}

	if cfg.Algorithm == password.AlgorithmBcrypt {
		if argon == nil {
			return password.NewRegistry(bc), nil
		}
		return password.NewRegistry(bc, argon), nil
	}
	return password.NewRegistry(argon, bc), nil
}
