package goSSO

import (
	"context"
	"time"

	"github.com/MrEthical07/goSSO/internal/flows"
)

// Login authenticates against an unused ticket, marks it used and issues a new
// session. The account's previous session stops resolving.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (*SessionResult, error) {
	start := time.Now()
	defer e.observe(MetricLoginLatency, start)

	res := flows.RunLogin(ctx, req.TicketID, req.Email, req.Password, e.deps)
	if res.Failure != nil {
		e.metricInc(MetricLoginFailure)
		return nil, e.failureError(ctx, "login", res.Failure)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionCreated)
	if res.PreviousSessionID != "" {
		e.metricInc(MetricSessionInvalidated)
	}
	if res.PasswordUpgraded {
		e.metricInc(MetricPasswordUpgraded)
	}
	return sessionResult(res), nil
}

// RefreshSession rotates the bearer and refresh tokens of an existing session.
// It requires a fresh unused ticket, which it marks used.
func (e *Engine) RefreshSession(ctx context.Context, req RefreshRequest) (*SessionResult, error) {
	start := time.Now()
	defer e.observe(MetricRefreshLatency, start)

	res := flows.RunRefresh(ctx, req.TicketID, req.SessionID, req.RefreshToken, e.deps)
	if res.Failure != nil {
		e.metricInc(MetricRefreshFailure)
		if res.Failure.Reason == "stale_refresh_entry" || res.Failure.Reason == "refresh_race" {
			e.requestLogger(ctx).Warn("refresh rejected", "reason", res.Failure.Reason, "session_id", req.SessionID)
		}
		return nil, e.failureError(ctx, "refresh_session", res.Failure)
	}

	e.metricInc(MetricRefreshSuccess)
	return sessionResult(res), nil
}

func sessionResult(res flows.SessionResult) *SessionResult {
	return &SessionResult{
		SessionID:    res.SessionID,
		RedirectURL:  NewSecret(res.RedirectURL),
		Token:        NewSecret(res.Token),
		RefreshToken: NewSecret(res.RefreshToken),
	}
}
