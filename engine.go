package goSSO

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goSSO/account"
	"github.com/MrEthical07/goSSO/internal/flows"
	"github.com/MrEthical07/goSSO/internal/logging"
	"github.com/MrEthical07/goSSO/jwt"
	"github.com/MrEthical07/goSSO/password"
	"github.com/MrEthical07/goSSO/session"
	"github.com/MrEthical07/goSSO/ticket"
)

// Engine is the SSO protocol orchestrator. Build one with [Builder].
type Engine struct {
	config     Config
	redis      redis.UniversalClient
	accounts   *account.Directory
	tickets    *ticket.Manager
	sessions   *session.Manager
	hasher     *password.Registry
	assertions *jwt.Manager
	metrics    *Metrics
	logger     *slog.Logger
	deps       flows.Deps
}

// Ping checks that the store answers.
func (e *Engine) Ping(ctx context.Context) error {
	if e == nil || e.redis == nil {
		return ErrEngineNotReady
	}
	if err := e.redis.Ping(ctx).Err(); err != nil {
		return ErrUnavailable
	}
	return nil
}

// MetricsSnapshot returns a copy of the engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observe(id MetricID, start time.Time) {
	if e == nil || !e.metrics.LatencyEnabled() {
		return
	}
	e.metrics.Observe(id, time.Since(start))
}

// failureError maps a flow failure onto the public error taxonomy and logs
// what an operator needs to see.
func (e *Engine) failureError(ctx context.Context, op string, f *flows.Failure) error {
	if f == nil {
		return nil
	}
	l := e.requestLogger(ctx).With("op", op, "reason", f.Reason)

	switch f.Kind {
	case flows.FailureNotReady:
		return ErrEngineNotReady
	case flows.FailureInvalidRequest:
		return ErrInvalidRequest
	case flows.FailureEmailTaken:
		return ErrEmailTaken
	case flows.FailureUsernameTaken:
		return ErrUsernameTaken
	case flows.FailureInvalidTicket:
		return ErrInvalidTicket
	case flows.FailureInvalidCredentials:
		return ErrInvalidCredentials
	case flows.FailureForbidden:
		l.Debug("request rejected")
		return ErrForbidden
	default:
		e.metricInc(MetricBackendError)
		if f.Err != nil {
			logging.LogError(l, "backend failure", f.Err)
		} else {
			l.Error("backend failure")
		}
		return ErrUnavailable
	}
}

func (e *Engine) requestLogger(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l := logging.FromContext(ctx); l != slog.Default() {
			return l
		}
	}
	return e.logger
}
