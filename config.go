package goSSO

import (
	"errors"
	"strings"
	"time"

	"github.com/MrEthical07/goSSO/password"
)

// Config is the engine configuration. Start from DefaultConfig and override.
type Config struct {
	Ticket    TicketConfig
	Session   SessionConfig
	Password  PasswordConfig
	Store     StoreConfig
	Assertion AssertionConfig
	Metrics   MetricsConfig
}

// TicketConfig controls ticket lifetime before login.
type TicketConfig struct {
	Duration time.Duration
}

// SessionConfig controls token lifetimes and lengths.
type SessionConfig struct {
	// LoginTokenDuration is the claim window: the lifetime of a used ticket
	// and of the session index entry.
	LoginTokenDuration   time.Duration
	RefreshTokenDuration time.Duration
	TokenLength          int
	RefreshTokenLength   int
}

// PasswordConfig selects the credential hasher. Argon2 fields apply when
// Algorithm is argon2id, BcryptCost when it is bcrypt. Hashes of the other
// algorithm still verify.
type PasswordConfig struct {
	Algorithm      password.Algorithm
	Memory         uint32 // in KB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	BcryptCost     int
	UpgradeOnLogin bool
}

// StoreConfig controls the Redis keyspace and optimistic transactions.
type StoreConfig struct {
	KeyPrefix    string
	MaxTxRetries int
}

// AssertionConfig enables the signed identity assertion returned by
// ClaimSession. SigningMethod is "hs256" or "ed25519".
type AssertionConfig struct {
	Enabled       bool
	SigningMethod string
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	TTL           time.Duration
}

// MetricsConfig toggles in-process metrics.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Ticket: TicketConfig{
			Duration: 2 * time.Hour,
		},
		Session: SessionConfig{
			LoginTokenDuration:   5 * time.Minute,
			RefreshTokenDuration: 7 * 24 * time.Hour,
			TokenLength:          64,
			RefreshTokenLength:   128,
		},
		Password: PasswordConfig{
			Algorithm:      password.AlgorithmArgon2id,
			Memory:         65536,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			BcryptCost:     10,
			UpgradeOnLogin: true,
		},
		Store: StoreConfig{
			KeyPrefix:    "sso",
			MaxTxRetries: 5,
		},
		Assertion: AssertionConfig{
			SigningMethod: "hs256",
			Issuer:        "gosso",
			TTL:           time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Assertion.PrivateKey = cloneBytes(cfg.Assertion.PrivateKey)
	out.Assertion.PublicKey = cloneBytes(cfg.Assertion.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	// Lifetimes
	if c.Ticket.Duration <= 0 {
		return errors.New("Ticket Duration must be > 0")
	}
	if c.Session.LoginTokenDuration <= 0 {
		return errors.New("Session LoginTokenDuration must be > 0")
	}
	if c.Session.RefreshTokenDuration <= 0 {
		return errors.New("Session RefreshTokenDuration must be > 0")
	}
	if c.Session.LoginTokenDuration > c.Ticket.Duration {
		return errors.New("Session LoginTokenDuration must be <= Ticket Duration")
	}
	if c.Session.LoginTokenDuration > c.Session.RefreshTokenDuration {
		return errors.New("Session LoginTokenDuration must be <= RefreshTokenDuration")
	}
	if c.Session.TokenLength < 32 {
		return errors.New("Session TokenLength must be >= 32")
	}
	if c.Session.RefreshTokenLength < 64 {
		return errors.New("Session RefreshTokenLength must be >= 64")
	}

	// Password
	switch c.Password.Algorithm {
	case password.AlgorithmArgon2id:
		if c.Password.Memory < 8*1024 {
			return errors.New("Password Memory must be >= 8192 KB")
		}
		if c.Password.Time < 1 {
			return errors.New("Password Time must be >= 1")
		}
		if c.Password.Parallelism < 1 {
			return errors.New("Password Parallelism must be >= 1")
		}
		if c.Password.SaltLength < 16 {
			return errors.New("Password SaltLength must be >= 16")
		}
		if c.Password.KeyLength < 16 {
			return errors.New("Password KeyLength must be >= 16")
		}
	case password.AlgorithmBcrypt:
		if c.Password.BcryptCost < 4 || c.Password.BcryptCost > 31 {
			return errors.New("Password BcryptCost must be between 4 and 31")
		}
	default:
		return errors.New("Password Algorithm must be 'argon2id' or 'bcrypt'")
	}

	// Store
	if strings.TrimSpace(c.Store.KeyPrefix) == "" {
		return errors.New("Store KeyPrefix must not be empty")
	}
	if strings.Contains(c.Store.KeyPrefix, ":") {
		return errors.New("Store KeyPrefix must not contain ':'")
	}
	if c.Store.MaxTxRetries < 0 {
		return errors.New("Store MaxTxRetries must be >= 0")
	}

	// Assertion
	if c.Assertion.Enabled {
		if c.Assertion.TTL <= 0 {
			return errors.New("Assertion TTL must be > 0")
		}
		switch c.Assertion.SigningMethod {
		case "hs256":
			if len(c.Assertion.PrivateKey) < 32 {
				return errors.New("hs256 requires a PrivateKey of at least 32 bytes")
			}
		case "ed25519":
			if len(c.Assertion.PrivateKey) == 0 {
				return errors.New("ed25519 requires PrivateKey")
			}
		default:
			return errors.New("unsupported Assertion signing method")
		}
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
