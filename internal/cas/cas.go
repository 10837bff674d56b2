// Package cas runs optimistic Redis transactions (WATCH/MULTI/EXEC) and retries
// them with bounded exponential backoff when a watched key changes before EXEC.
//
// Every state transition in goSSO that must not race (ticket use, account
// rewrite, registration) is expressed as one call to [Runner.Watch].
package cas

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sethvargo/go-retry"
)

// ErrContention is returned when every attempt lost the race on its watched keys.
var ErrContention = errors.New("optimistic transaction contention")

const defaultBaseDelay = 2 * time.Millisecond

// Runner executes watched transactions against a Redis client.
type Runner struct {
	redis      redis.UniversalClient
	maxRetries uint64
	baseDelay  time.Duration
}

// New returns a Runner that retries a conflicting transaction at most maxRetries times.
func New(client redis.UniversalClient, maxRetries int) *Runner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Runner{
		redis:      client,
		maxRetries: uint64(maxRetries),
		baseDelay:  defaultBaseDelay,
	}
}

// Watch runs fn with keys watched. fn must queue its writes through
// tx.TxPipelined so they only apply if none of the keys changed. Errors
// returned by fn are passed through untouched; only redis.TxFailedErr is retried.
func (r *Runner) Watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	backoff := retry.WithJitterPercent(25, retry.NewExponential(r.baseDelay))
	backoff = retry.WithMaxRetries(r.maxRetries, backoff)

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := r.redis.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			return retry.RetryableError(err)
		}
		return err
	})
	if errors.Is(err, redis.TxFailedErr) {
		return ErrContention
	}
	return err
}
