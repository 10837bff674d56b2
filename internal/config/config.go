// Package config loads process configuration for the gosso server from the
// environment and an optional .env file using Viper.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/viper"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/password"
)

// DefaultEnvFile is read when Load is given no path.
const DefaultEnvFile = ".env"

// Config holds server configuration. Environment variables override the
// .env file, which overrides defaults.
type Config struct {
	HTTPAddr string `mapstructure:"HTTP_ADDR"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	KeyPrefix     string `mapstructure:"KEY_PREFIX"`

	TicketDuration       time.Duration `mapstructure:"TICKET_DURATION"`
	LoginTokenDuration   time.Duration `mapstructure:"LOGIN_TOKEN_DURATION"`
	RefreshTokenDuration time.Duration `mapstructure:"REFRESH_TOKEN_DURATION"`

	PasswordAlgorithm string `mapstructure:"PASSWORD_ALGORITHM"`
	BcryptCost        int    `mapstructure:"BCRYPT_COST"`

	// AssertionSecret is the HS256 key for identity assertions.
	AssertionEnabled bool          `mapstructure:"ASSERTION_ENABLED"`
	AssertionSecret  string        `mapstructure:"ASSERTION_SECRET"`
	AssertionIssuer  string        `mapstructure:"ASSERTION_ISSUER"`
	AssertionTTL     time.Duration `mapstructure:"ASSERTION_TTL"`

	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogFormat      string `mapstructure:"LOG_FORMAT"`
	MetricsEnabled bool   `mapstructure:"METRICS_ENABLED"`

	// Env is the deployment environment, e.g. "development" or "production".
	Env string `mapstructure:"APP_ENV"`
}

var defaults = map[string]any{
	"HTTP_ADDR":              ":1931",
	"REDIS_ADDR":             "localhost:6379",
	"REDIS_PASSWORD":         "",
	"REDIS_DB":               0,
	"KEY_PREFIX":             "sso",
	"TICKET_DURATION":        "2h",
	"LOGIN_TOKEN_DURATION":   "5m",
	"REFRESH_TOKEN_DURATION": "168h",
	"PASSWORD_ALGORITHM":     string(password.AlgorithmArgon2id),
	"BCRYPT_COST":            10,
	"ASSERTION_ENABLED":      false,
	"ASSERTION_SECRET":       "",
	"ASSERTION_ISSUER":       "gosso",
	"ASSERTION_TTL":          "1m",
	"LOG_LEVEL":              "info",
	"LOG_FORMAT":             "json",
	"METRICS_ENABLED":        true,
	"APP_ENV":                "development",
}

// Load reads envFile (DefaultEnvFile when empty) if it exists, then the
// environment. A missing file is not an error; a malformed one is.
func Load(envFile string) (*Config, error) {
	errb := oops.In("config").Code("invalid_config")

	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, errb.With("file", envFile).Wrapf(err, "read env file")
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, errb.With("file", envFile).Wrapf(err, "stat env file")
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errb.Wrapf(err, "decode config")
	}

	if strings.TrimSpace(cfg.HTTPAddr) == "" {
		return nil, errb.Errorf("HTTP_ADDR must be set")
	}
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil, errb.Errorf("REDIS_ADDR must be set")
	}
	if cfg.RedisDB < 0 {
		return nil, errb.Errorf("REDIS_DB must be >= 0")
	}
	if cfg.IsProduction() && cfg.AssertionEnabled && len(cfg.AssertionSecret) < 32 {
		return nil, errb.Errorf("ASSERTION_SECRET must be at least 32 bytes when APP_ENV=production")
	}

	return &cfg, nil
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// EngineConfig maps the process settings onto a validated engine Config.
func (c *Config) EngineConfig() (goSSO.Config, error) {
	cfg := goSSO.DefaultConfig()
	cfg.Ticket.Duration = c.TicketDuration
	cfg.Session.LoginTokenDuration = c.LoginTokenDuration
	cfg.Session.RefreshTokenDuration = c.RefreshTokenDuration
	cfg.Password.Algorithm = password.Algorithm(strings.ToLower(c.PasswordAlgorithm))
	cfg.Password.BcryptCost = c.BcryptCost
	cfg.Store.KeyPrefix = c.KeyPrefix
	cfg.Metrics.Enabled = c.MetricsEnabled
	cfg.Metrics.EnableLatencyHistograms = c.MetricsEnabled

	if c.AssertionEnabled {
		cfg.Assertion.Enabled = true
		cfg.Assertion.SigningMethod = "hs256"
		cfg.Assertion.PrivateKey = []byte(c.AssertionSecret)
		cfg.Assertion.Issuer = c.AssertionIssuer
		cfg.Assertion.TTL = c.AssertionTTL
	}

	if err := cfg.Validate(); err != nil {
		return goSSO.Config{}, oops.In("config").Code("invalid_config").Wrap(err)
	}
	return cfg, nil
}

// RedisOptions returns client options for the configured server.
func (c *Config) RedisOptions() *redis.Options {
	return &redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
