package ticket

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/MrEthical07/goSSO/internal"
	"github.com/MrEthical07/goSSO/internal/cas"
	"github.com/MrEthical07/goSSO/password"
)

// ErrRedisUnavailable wraps every store failure that is not a ticket outcome.
var ErrRedisUnavailable = errors.New("ticket redis unavailable")

// Manager issues, transitions and consumes tickets.
type Manager struct {
	redis   redis.UniversalClient
	prefix  string
	tx      *cas.Runner
	hasher  password.Hasher
	ttl     time.Duration
	usedTTL time.Duration
}

// Options configures a Manager.
type Options struct {
	KeyPrefix string
	// TTL is the lifetime of a freshly created ticket.
	TTL time.Duration
	// UsedTTL replaces the remaining lifetime once the ticket is marked used.
	UsedTTL time.Duration
}

// NewManager returns a Manager. hasher hashes and verifies ticket keys.
func NewManager(client redis.UniversalClient, hasher password.Hasher, tx *cas.Runner, opts Options) *Manager {
	if opts.KeyPrefix == "" {
		opts.KeyPrefix = "sso"
	}
	if tx == nil {
		tx = cas.New(client, 0)
	}
	return &Manager{
		redis:   client,
		prefix:  opts.KeyPrefix,
		tx:      tx,
		hasher:  hasher,
		ttl:     opts.TTL,
		usedTTL: opts.UsedTTL,
	}
}

func (m *Manager) key(ticketID string) string {
	return m.prefix + ":tickets:" + ticketID
}

// Create stores a new unused ticket and returns its id.
func (m *Manager) Create(ctx context.Context, ticketKey, redirectURL string) (string, error) {
	keyHash, err := m.hasher.Hash(ticketKey)
	if err != nil {
		return "", err
	}
	id, err := internal.NewID()
	if err != nil {
		return "", err
	}

	encoded, err := encode(&Ticket{ID: id, KeyHash: keyHash, RedirectURL: redirectURL, State: Unused})
	if err != nil {
		return "", err
	}

	ok, err := m.redis.SetNX(ctx, m.key(id), encoded, m.ttl).Result()
	if err != nil {
		return "", unavailable(err, "ticket_id", id)
	}
	if !ok {
		return "", oops.In("ticket").Code("id_collision").With("ticket_id", id).Errorf("ticket id already in use")
	}
	return id, nil
}

// Get returns the ticket in whatever state it is in.
func (m *Manager) Get(ctx context.Context, ticketID string) (*Ticket, error) {
	raw, err := m.redis.Get(ctx, m.key(ticketID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, unavailable(err, "ticket_id", ticketID)
	}
	return decode(raw)
}

// RequireUnused returns the ticket if it exists and has not been used.
func (m *Manager) RequireUnused(ctx context.Context, ticketID string) (*Ticket, error) {
	return m.require(ctx, ticketID, Unused)
}

// RequireUsed returns the ticket if it exists and is waiting to be claimed.
func (m *Manager) RequireUsed(ctx context.Context, ticketID string) (*Ticket, error) {
	return m.require(ctx, ticketID, Used)
}

func (m *Manager) require(ctx context.Context, ticketID string, want State) (*Ticket, error) {
	t, err := m.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if t.State != want {
		return nil, ErrWrongState
	}
	return t, nil
}

// MarkUsed moves an unused ticket to Used and shortens its lifetime to the
// claim window. Only one concurrent caller can succeed; the others get
// ErrWrongState.
func (m *Manager) MarkUsed(ctx context.Context, ticketID string) (*Ticket, error) {
	key := m.key(ticketID)
	var marked *Ticket

	err := m.tx.Watch(ctx, func(tx *redis.Tx) error {
		t, err := getTx(ctx, tx, key)
		if err != nil {
			return err
		}
		if t.State, err = t.State.Use(); err != nil {
			return err
		}
		encoded, err := encode(t)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, m.usedTTL)
			return nil
		})
		if err == nil {
			marked = t
		}
		return err
	}, key)
	if err != nil {
		return nil, settle(err, "ticket_id", ticketID)
	}
	return marked, nil
}

// VerifyClaimSecret reports whether candidateKey matches the ticket's key hash.
func (m *Manager) VerifyClaimSecret(t *Ticket, candidateKey string) (bool, error) {
	if t == nil || candidateKey == "" {
		return false, nil
	}
	ok, err := m.hasher.Verify(candidateKey, t.KeyHash)
	if err != nil {
		if errors.Is(err, password.ErrSecretTooLong) || errors.Is(err, password.ErrUnsupportedHash) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// Consume deletes a used ticket. A ticket that is unused, already consumed or
// expired is left alone and ErrWrongState or ErrNotFound is returned.
func (m *Manager) Consume(ctx context.Context, ticketID string) error {
	key := m.key(ticketID)

	err := m.tx.Watch(ctx, func(tx *redis.Tx) error {
		t, err := getTx(ctx, tx, key)
		if err != nil {
			return err
		}
		if _, err := t.State.Consume(); err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	return settle(err, "ticket_id", ticketID)
}

func getTx(ctx context.Context, tx *redis.Tx, key string) (*Ticket, error) {
	raw, err := tx.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, unavailable(err, "key", key)
	}
	return decode(raw)
}

func settle(err error, attrs ...any) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrWrongState),
		errors.Is(err, ErrCorruptRecord),
		errors.Is(err, ErrRedisUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, cas.ErrContention):
		// Another caller moved the ticket first.
		return ErrWrongState
	default:
		return unavailable(err, attrs...)
	}
}

func unavailable(err error, attrs ...any) error {
	return oops.In("ticket").Code("redis_unavailable").With(attrs...).Wrapf(ErrRedisUnavailable, "%v", err)
}
