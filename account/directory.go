package account

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/MrEthical07/goSSO/internal"
	"github.com/MrEthical07/goSSO/internal/cas"
)

var (
	ErrNotFound         = errors.New("account not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrUsernameExists   = errors.New("username already in use")
	ErrRedisUnavailable = errors.New("account redis unavailable")
)

// Directory owns account records and the username index.
type Directory struct {
	redis  redis.UniversalClient
	prefix string
	tx     *cas.Runner
}

// NewDirectory returns a Directory that stores keys under prefix.
func NewDirectory(client redis.UniversalClient, prefix string, tx *cas.Runner) *Directory {
	if prefix == "" {
		prefix = "sso"
	}
	if tx == nil {
		tx = cas.New(client, 0)
	}
	return &Directory{redis: client, prefix: prefix, tx: tx}
}

func (d *Directory) accountKey(email string) string {
	return d.prefix + ":accounts:" + email
}

func (d *Directory) usernameKey(username string) string {
	return d.prefix + ":accountsByUsername:" + username
}

// Register creates the account and its username index entry in one
// transaction. Email uniqueness is checked before username uniqueness.
func (d *Directory) Register(ctx context.Context, email, username, passwordHash string) (*Account, error) {
	accountID, err := internal.NewID()
	if err != nil {
		return nil, err
	}

	acc := &Account{
		AccountID:    accountID,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		Version:      1,
	}
	encoded, err := encode(acc)
	if err != nil {
		return nil, err
	}

	emailKey := d.accountKey(email)
	usernameKey := d.usernameKey(username)

	err = d.tx.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, emailKey).Result()
		if err != nil {
			return unavailable(err, "email", email)
		}
		if n > 0 {
			return ErrEmailExists
		}
		n, err = tx.Exists(ctx, usernameKey).Result()
		if err != nil {
			return unavailable(err, "username", username)
		}
		if n > 0 {
			return ErrUsernameExists
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, emailKey, encoded, 0)
			pipe.Set(ctx, usernameKey, email, 0)
			return nil
		})
		return err
	}, emailKey, usernameKey)
	if err != nil {
		return nil, settle(err, "email", email)
	}

	return acc, nil
}

// Lookup returns the account stored under email.
func (d *Directory) Lookup(ctx context.Context, email string) (*Account, error) {
	raw, err := d.redis.Get(ctx, d.accountKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, unavailable(err, "email", email)
	}
	return decode(raw)
}

// Update reads the account under email, applies mutate, and writes the result
// back only if the record did not change in between. An error from mutate
// aborts the write and is returned as is. The stored Version is incremented.
func (d *Directory) Update(ctx context.Context, email string, mutate func(*Account) error) (*Account, error) {
	key := d.accountKey(email)
	var updated *Account

	err := d.tx.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return unavailable(err, "email", email)
		}
		acc, err := decode(raw)
		if err != nil {
			return err
		}

		if err := mutate(acc); err != nil {
			return mutateError{err}
		}
		acc.Version++

		encoded, err := encode(acc)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, 0)
			return nil
		})
		if err == nil {
			updated = acc
		}
		return err
	}, key)
	if err != nil {
		return nil, settle(err, "email", email)
	}

	return updated, nil
}

// settle classifies an error returned by a watched transaction. Errors the
// callback already classified pass through; anything else is an
// infrastructure failure.
func settle(err error, attrs ...any) error {
	var me mutateError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &me):
		return me.err
	case errors.Is(err, ErrRedisUnavailable),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrEmailExists),
		errors.Is(err, ErrUsernameExists),
		errors.Is(err, ErrCorruptRecord),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, cas.ErrContention):
		return oops.In("account").Code("tx_contention").With(attrs...).Wrapf(ErrRedisUnavailable, "%v", err)
	default:
		return unavailable(err, attrs...)
	}
}

type mutateError struct{ err error }

func (e mutateError) Error() string { return e.err.Error() }
func (e mutateError) Unwrap() error { return e.err }

func unavailable(err error, attrs ...any) error {
	return oops.In("account").Code("redis_unavailable").With(attrs...).Wrapf(ErrRedisUnavailable, "%v", err)
}
