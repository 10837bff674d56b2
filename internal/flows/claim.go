package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSSO/account"
	"github.com/MrEthical07/goSSO/session"
	"github.com/MrEthical07/goSSO/ticket"
)

var errSessionMismatch = errors.New("session entry does not match account session")

// ClaimResult carries the claimed identity or a failure. TokenBurned is set
// when a presented token was cleared even though the claim failed.
type ClaimResult struct {
	Failure     *Failure
	AccountID   string
	Username    string
	SessionID   string
	TokenBurned bool
}

// RunClaim exchanges a used ticket, its key, and the session's bearer token
// for the account identity. The bearer token is cleared before it is verified.
func RunClaim(ctx context.Context, ticketID, ticketKey, sessionID, token string, deps Deps) ClaimResult {
	if !deps.ready() {
		return ClaimResult{Failure: fail(FailureNotReady, "not_ready", nil)}
	}
	if ticketID == "" || ticketKey == "" || sessionID == "" || token == "" {
		return ClaimResult{Failure: fail(FailureInvalidRequest, "missing_field", nil)}
	}

	t, err := deps.Tickets.RequireUsed(ctx, ticketID)
	if err != nil {
		if isTicketOutcome(err) {
			return ClaimResult{Failure: fail(FailureForbidden, "ticket_not_claimable", nil)}
		}
		return ClaimResult{Failure: fail(FailureUnavailable, "ticket_store", err)}
	}

	ok, err := deps.Tickets.VerifyClaimSecret(t, ticketKey)
	if err != nil {
		return ClaimResult{Failure: fail(FailureUnavailable, "hash", err)}
	}
	if !ok {
		return ClaimResult{Failure: fail(FailureForbidden, "ticket_key_mismatch", nil)}
	}

	email, err := deps.Sessions.ResolveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return ClaimResult{Failure: fail(FailureForbidden, "session_entry_missing", nil)}
		}
		return ClaimResult{Failure: fail(FailureUnavailable, "session_store", err)}
	}

	var tokenHash string
	acc, err := deps.Accounts.Update(ctx, email, func(a *account.Account) error {
		if a.SessionID != sessionID {
			return errSessionMismatch
		}
		h, err := a.ConsumeToken()
		tokenHash = h
		return err
	})
	switch {
	case err == nil:
	case errors.Is(err, account.ErrTokenConsumed):
		return ClaimResult{Failure: fail(FailureForbidden, "token_already_claimed", nil)}
	case errors.Is(err, errSessionMismatch), errors.Is(err, account.ErrNotFound):
		return ClaimResult{Failure: fail(FailureForbidden, "stale_session_entry", nil)}
	default:
		return ClaimResult{Failure: fail(FailureUnavailable, "account_store", err)}
	}

	if _, err := deps.Sessions.InvalidateSessionEntry(ctx, sessionID); err != nil {
		return ClaimResult{
			Failure:     fail(FailureUnavailable, "session_store", err),
			TokenBurned: true,
		}
	}

	ok, err = deps.Hasher.Verify(token, tokenHash)
	if err != nil || !ok {
		return ClaimResult{
			Failure:     fail(FailureForbidden, "token_mismatch", err),
			TokenBurned: true,
		}
	}

	if err := deps.Tickets.Consume(ctx, ticketID); err != nil {
		if isTicketOutcome(err) {
			return ClaimResult{Failure: fail(FailureForbidden, "ticket_race", err)}
		}
		return ClaimResult{Failure: fail(FailureUnavailable, "ticket_store", err)}
	}

	return ClaimResult{
		AccountID: acc.AccountID,
		Username:  acc.Username,
		SessionID: sessionID,
	}
}

func isTicketOutcome(err error) bool {
	return errors.Is(err, ticket.ErrNotFound) ||
		errors.Is(err, ticket.ErrWrongState) ||
		errors.Is(err, ticket.ErrCorruptRecord)
}
