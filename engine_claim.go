package goSSO

import (
	"context"
	"time"

	"github.com/MrEthical07/goSSO/internal/flows"
)

// ClaimSession exchanges a used ticket, its key and the bearer token for the
// account identity. The ticket is deleted on success. A call that presents
// the right ticket key but a wrong token still clears the token.
func (e *Engine) ClaimSession(ctx context.Context, req ClaimRequest) (*ClaimResult, error) {
	start := time.Now()
	defer e.observe(MetricClaimLatency, start)

	res := flows.RunClaim(ctx, req.TicketID, req.TicketKey, req.SessionID, req.Token, e.deps)
	if res.TokenBurned {
		e.metricInc(MetricTokenBurned)
		e.requestLogger(ctx).Warn("bearer token burned by failed claim", "session_id", req.SessionID)
	}
	if res.Failure != nil {
		e.metricInc(MetricClaimFailure)
		return nil, e.failureError(ctx, "claim_session", res.Failure)
	}

	out := &ClaimResult{AccountID: res.AccountID, Username: res.Username}
	if e.assertions != nil {
		assertion, err := e.assertions.CreateAssertion(res.AccountID, res.Username, res.SessionID)
		if err != nil {
			// The ticket is already consumed; the claim itself stands.
			e.requestLogger(ctx).Error("identity assertion signing failed", "error", err)
		} else {
			out.Assertion = assertion
		}
	}

	e.metricInc(MetricClaimSuccess)
	return out, nil
}

// VerifyAssertion checks an identity assertion issued by ClaimSession.
func (e *Engine) VerifyAssertion(token string) (*Identity, error) {
	if e == nil || e.assertions == nil {
		return nil, ErrEngineNotReady
	}
	return verifyAssertion(e.assertions, token)
}
