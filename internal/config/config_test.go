package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goSSO "github.com/MrEthical07/goSSO"
	"github.com/MrEthical07/goSSO/password"
)

func missingFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":1931", cfg.HTTPAddr)
	assert.Equal(t, "sso", cfg.KeyPrefix)
	assert.Equal(t, 2*time.Hour, cfg.TicketDuration)
	assert.Equal(t, 5*time.Minute, cfg.LoginTokenDuration)
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenDuration)
	assert.Equal(t, "argon2id", cfg.PasswordAlgorithm)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.MetricsEnabled)
	assert.False(t, cfg.AssertionEnabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("TICKET_DURATION", "30m")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("PASSWORD_ALGORITHM", "bcrypt")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Minute, cfg.TicketDuration)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "bcrypt", cfg.PasswordAlgorithm)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gosso.env")
	require.NoError(t, os.WriteFile(path, []byte("KEY_PREFIX=staging\nLOGIN_TOKEN_DURATION=2m\nHTTP_ADDR=:8000\n"), 0o600))
	t.Setenv("HTTP_ADDR", ":7000")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "staging", cfg.KeyPrefix)
	assert.Equal(t, 2*time.Minute, cfg.LoginTokenDuration)
	assert.Equal(t, ":7000", cfg.HTTPAddr, "environment wins over the file")
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("TICKET_DURATION", "soon")

	_, err := Load(missingFile(t))
	require.Error(t, err)
}

func TestLoadProductionRequiresAssertionSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("ASSERTION_ENABLED", "true")
	t.Setenv("ASSERTION_SECRET", "short")

	_, err := Load(missingFile(t))
	require.Error(t, err)
}

func TestEngineConfig(t *testing.T) {
	t.Setenv("PASSWORD_ALGORITHM", "BCRYPT")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("ASSERTION_ENABLED", "true")
	t.Setenv("ASSERTION_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	ec, err := cfg.EngineConfig()
	require.NoError(t, err)

	assert.Equal(t, password.AlgorithmBcrypt, ec.Password.Algorithm)
	assert.Equal(t, 4, ec.Password.BcryptCost)
	assert.True(t, ec.Assertion.Enabled)
	assert.Equal(t, "gosso", ec.Assertion.Issuer)
	assert.Equal(t, time.Minute, ec.Assertion.TTL)
	assert.Equal(t, goSSO.DefaultConfig().Session.TokenLength, ec.Session.TokenLength)
}

func TestEngineConfigInvalid(t *testing.T) {
	t.Setenv("LOGIN_TOKEN_DURATION", "3h")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	_, err = cfg.EngineConfig()
	require.Error(t, err)
	assert.False(t, errors.Is(err, goSSO.ErrUnavailable))
}

func TestRedisOptions(t *testing.T) {
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load(missingFile(t))
	require.NoError(t, err)

	opts := cfg.RedisOptions()
	assert.Equal(t, "redis:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
}
