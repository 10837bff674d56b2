package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/MrEthical07/goSSO/internal"
)

var (
	// ErrNotFound is returned when a session index entry is absent or expired.
	ErrNotFound = errors.New("session entry not found")
	// ErrRedisUnavailable wraps store failures.
	ErrRedisUnavailable = errors.New("session redis unavailable")
)

const (
	DefaultTokenLength        = 64
	DefaultRefreshTokenLength = 128
)

// Options configures a Manager.
type Options struct {
	KeyPrefix          string
	SessionTTL         time.Duration
	RefreshTTL         time.Duration
	TokenLength        int
	RefreshTokenLength int
}

// Manager mints session material and maintains the session indexes.
type Manager struct {
	redis      redis.UniversalClient
	prefix     string
	sessionTTL time.Duration
	refreshTTL time.Duration
	tokenLen   int
	refreshLen int
}

// NewManager returns a Manager backed by client.
func NewManager(client redis.UniversalClient, opts Options) *Manager {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "sso"
	}
	if opts.TokenLength <= 0 {
		opts.TokenLength = DefaultTokenLength
	}
	if opts.RefreshTokenLength <= 0 {
		opts.RefreshTokenLength = DefaultRefreshTokenLength
	}
	return &Manager{
		redis:      client,
		prefix:     opts.KeyPrefix,
		sessionTTL: opts.SessionTTL,
		refreshTTL: opts.RefreshTTL,
		tokenLen:   opts.TokenLength,
		refreshLen: opts.RefreshTokenLength,
	}
}

func (m *Manager) sessionKey(sessionID string) string {
	return m.prefix + ":accountsBySession:" + sessionID
}

func (m *Manager) refreshKey(sessionID string) string {
	return m.prefix + ":accountsByRefreshSession:" + sessionID
}

// Mint generates a token pair for sessionID, or for a new session id when
// sessionID is empty. Nothing is written to Redis.
func (m *Manager) Mint(sessionID string) (*Issued, error) {
	var err error
	if sessionID == "" {
		if sessionID, err = internal.NewID(); err != nil {
			return nil, err
		}
	}
	token, err := internal.RandomString(m.tokenLen)
	if err != nil {
		return nil, err
	}
	refresh, err := internal.RandomString(m.refreshLen)
	if err != nil {
		return nil, err
	}
	return &Issued{SessionID: sessionID, Token: token, RefreshToken: refresh}, nil
}

// Activate points both indexes for sessionID at email with fresh TTLs. When
// previousSessionID is set and differs from sessionID, its entries are deleted
// in the same MULTI.
func (m *Manager) Activate(ctx context.Context, email, previousSessionID, sessionID string) error {
	_, err := m.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previousSessionID != "" && previousSessionID != sessionID {
			pipe.Del(ctx, m.sessionKey(previousSessionID), m.refreshKey(previousSessionID))
		}
		pipe.Set(ctx, m.sessionKey(sessionID), email, m.sessionTTL)
		pipe.Set(ctx, m.refreshKey(sessionID), email, m.refreshTTL)
		return nil
	})
	if err != nil {
		return unavailable(err, "session_id", sessionID)
	}
	return nil
}

// IssueSession mints a new session for email and activates it, invalidating
// previousSessionID everywhere.
func (m *Manager) IssueSession(ctx context.Context, email, previousSessionID string) (*Issued, error) {
	issued, err := m.Mint("")
	if err != nil {
		return nil, err
	}
	if err := m.Activate(ctx, email, previousSessionID, issued.SessionID); err != nil {
		return nil, err
	}
	return issued, nil
}

// ResolveSession returns the email bound to a claimable session.
func (m *Manager) ResolveSession(ctx context.Context, sessionID string) (string, error) {
	return m.resolve(ctx, m.sessionKey(sessionID))
}

// ResolveRefreshSession returns the email bound to a refreshable session.
func (m *Manager) ResolveRefreshSession(ctx context.Context, sessionID string) (string, error) {
	return m.resolve(ctx, m.refreshKey(sessionID))
}

func (m *Manager) resolve(ctx context.Context, key string) (string, error) {
	email, err := m.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", unavailable(err, "key", key)
	}
	return email, nil
}

// InvalidateSessionEntry deletes only the session index entry. The refresh
// entry survives. It reports whether the entry existed.
func (m *Manager) InvalidateSessionEntry(ctx context.Context, sessionID string) (bool, error) {
	n, err := m.redis.Del(ctx, m.sessionKey(sessionID)).Result()
	if err != nil {
		return false, unavailable(err, "session_id", sessionID)
	}
	return n > 0, nil
}

// TouchSessionEntry rewrites the session index entry with a fresh TTL.
func (m *Manager) TouchSessionEntry(ctx context.Context, sessionID, email string) error {
	if err := m.redis.Set(ctx, m.sessionKey(sessionID), email, m.sessionTTL).Err(); err != nil {
		return unavailable(err, "session_id", sessionID)
	}
	return nil
}

func unavailable(err error, attrs ...any) error {
	return oops.In("session").Code("redis_unavailable").With(attrs...).Wrapf(ErrRedisUnavailable, "%v", err)
}
