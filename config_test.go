package goSSO

import (
	"testing"
	"time"

	"github.com/MrEthical07/goSSO/password"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantValid bool
	}{
		{
			name:      "ticket duration zero",
			mutate:    func(c *Config) { c.Ticket.Duration = 0 },
			wantValid: false,
		},
		{
			name:      "claim window longer than ticket",
			mutate:    func(c *Config) { c.Session.LoginTokenDuration = 3 * time.Hour },
			wantValid: false,
		},
		{
			name: "claim window longer than refresh",
			mutate: func(c *Config) {
				c.Session.RefreshTokenDuration = time.Minute
			},
			wantValid: false,
		},
		{
			name:      "short token",
			mutate:    func(c *Config) { c.Session.TokenLength = 16 },
			wantValid: false,
		},
		{
			name:      "short refresh token",
			mutate:    func(c *Config) { c.Session.RefreshTokenLength = 32 },
			wantValid: false,
		},
		{
			name:      "argon memory too low",
			mutate:    func(c *Config) { c.Password.Memory = 1024 },
			wantValid: false,
		},
		{
			name: "bcrypt ignores argon params",
			mutate: func(c *Config) {
				c.Password.Algorithm = password.AlgorithmBcrypt
				c.Password.Memory = 0
			},
			wantValid: true,
		},
		{
			name: "bcrypt cost out of range",
			mutate: func(c *Config) {
				c.Password.Algorithm = password.AlgorithmBcrypt
				c.Password.BcryptCost = 40
			},
			wantValid: false,
		},
		{
			name:      "unknown algorithm",
			mutate:    func(c *Config) { c.Password.Algorithm = "scrypt" },
			wantValid: false,
		},
		{
			name:      "empty prefix",
			mutate:    func(c *Config) { c.Store.KeyPrefix = "  " },
			wantValid: false,
		},
		{
			name:      "prefix with separator",
			mutate:    func(c *Config) { c.Store.KeyPrefix = "a:b" },
			wantValid: false,
		},
		{
			name:      "negative retries",
			mutate:    func(c *Config) { c.Store.MaxTxRetries = -1 },
			wantValid: false,
		},
		{
			name: "assertion without key",
			mutate: func(c *Config) {
				c.Assertion.Enabled = true
			},
			wantValid: false,
		},
		{
			name: "assertion hs256 short key",
			mutate: func(c *Config) {
				c.Assertion.Enabled = true
				c.Assertion.PrivateKey = []byte("short")
			},
			wantValid: false,
		},
		{
			name: "assertion hs256 valid",
			mutate: func(c *Config) {
				c.Assertion.Enabled = true
				c.Assertion.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
			},
			wantValid: true,
		},
		{
			name: "assertion unsupported method",
			mutate: func(c *Config) {
				c.Assertion.Enabled = true
				c.Assertion.SigningMethod = "rs256"
				c.Assertion.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
			},
			wantValid: false,
		},
		{
			name: "latency without metrics",
			mutate: func(c *Config) {
				c.Metrics.Enabled = false
				c.Metrics.EnableLatencyHistograms = true
			},
			wantValid: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantValid && err != nil {
				t.Fatalf("expected valid config, got %v", err)
			}
			if !tc.wantValid && err == nil {
				t.Fatal("expected invalid config")
			}
		})
	}
}

func TestBuilderRequiresRedis(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("expected error without redis client")
	}
}

func TestBuilderSingleUse(t *testing.T) {
	_, rdb := newTestRedis(t)

	b := New().WithConfig(testConfig()).WithRedis(rdb)
	if _, err := b.Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}
}

func TestBuilderRejectsInvalidConfig(t *testing.T) {
	_, rdb := newTestRedis(t)

	cfg := testConfig()
	cfg.Store.KeyPrefix = ""
	if _, err := New().WithConfig(cfg).WithRedis(rdb).Build(); err == nil {
		t.Fatal("expected invalid config to fail Build")
	}
}

func TestBuilderCopiesConfig(t *testing.T) {
	_, rdb := newTestRedis(t)

	cfg := testConfig()
	cfg.Assertion.Enabled = true
	cfg.Assertion.PrivateKey = []byte("0123456789abcdef0123456789abcdef")

	b := New().WithConfig(cfg).WithRedis(rdb)
	cfg.Assertion.PrivateKey[0] = 'X'

	e, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if e.config.Assertion.PrivateKey[0] != '0' {
		t.Fatal("engine config shares memory with caller")
	}
}
