package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSSO/account"
	"github.com/MrEthical07/goSSO/session"
)

var errStaleRefresh = errors.New("refresh entry does not match account session")

// RunRefresh rotates the token pair of sessionID. Like login it requires a
// fresh unused ticket, which it marks used.
func RunRefresh(ctx context.Context, ticketID, sessionID, refreshToken string, deps Deps) SessionResult {
	if !deps.ready() {
		return SessionResult{Failure: fail(FailureNotReady, "not_ready", nil)}
	}
	if ticketID == "" || sessionID == "" || refreshToken == "" {
		return SessionResult{Failure: fail(FailureInvalidRequest, "missing_field", nil)}
	}

	if _, f := requireUnusedTicket(ctx, deps.Tickets, ticketID); f != nil {
		return SessionResult{Failure: f}
	}

	email, err := deps.Sessions.ResolveRefreshSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return SessionResult{Failure: fail(FailureForbidden, "refresh_entry_missing", nil)}
		}
		return SessionResult{Failure: fail(FailureUnavailable, "session_store", err)}
	}

	acc, err := deps.Accounts.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return SessionResult{Failure: fail(FailureForbidden, "account_missing", nil)}
		}
		return SessionResult{Failure: fail(FailureUnavailable, "account_store", err)}
	}
	if acc.SessionID != sessionID || acc.RefreshTokenHash == "" {
		deps.warn("stale refresh entry", "session_id", sessionID)
		return SessionResult{Failure: fail(FailureForbidden, "stale_refresh_entry", nil)}
	}

	ok, err := deps.Hasher.Verify(refreshToken, acc.RefreshTokenHash)
	if err != nil || !ok {
		return SessionResult{Failure: fail(FailureForbidden, "refresh_token_mismatch", err)}
	}

	t, f := markTicketUsed(ctx, deps.Tickets, ticketID)
	if f != nil {
		return SessionResult{Failure: f}
	}

	minted, err := mintAndHash(deps.Sessions, deps.Hasher, sessionID)
	if err != nil {
		return SessionResult{Failure: fail(FailureUnavailable, "mint", err)}
	}

	updated, err := deps.Accounts.Update(ctx, email, func(a *account.Account) error {
		// A concurrent refresh or login already rotated this session.
		if a.SessionID != sessionID || a.RefreshTokenHash != acc.RefreshTokenHash {
			return errStaleRefresh
		}
		a.IssueTokens(sessionID, minted.tokenHash, minted.refreshHash)
		return nil
	})
	if err != nil {
		if errors.Is(err, errStaleRefresh) {
			return SessionResult{Failure: fail(FailureForbidden, "refresh_race", err)}
		}
		return SessionResult{Failure: fail(FailureUnavailable, "account_store", err)}
	}

	if err := deps.Sessions.Activate(ctx, email, sessionID, sessionID); err != nil {
		return SessionResult{Failure: fail(FailureUnavailable, "session_store", err)}
	}

	redirect, err := HandoffURL(t.RedirectURL, ticketID, sessionID, minted.issued.Token)
	if err != nil {
		return SessionResult{Failure: fail(FailureUnavailable, "redirect_url", err)}
	}

	return SessionResult{
		AccountID:    updated.AccountID,
		RedirectURL:  redirect,
		SessionID:    sessionID,
		Token:        minted.issued.Token,
		RefreshToken: minted.issued.RefreshToken,
	}
}
