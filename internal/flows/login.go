package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSSO/account"
)

// RunLogin authenticates email/password against an unused ticket and issues a
// new session, invalidating the account's previous one.
func RunLogin(ctx context.Context, ticketID, email, plain string, deps Deps) SessionResult {
	if !deps.ready() {
		return SessionResult{Failure: fail(FailureNotReady, "not_ready", nil)}
	}
	if ticketID == "" || email == "" || plain == "" {
		return SessionResult{Failure: fail(FailureInvalidRequest, "missing_field", nil)}
	}

	if _, f := requireUnusedTicket(ctx, deps.Tickets, ticketID); f != nil {
		return SessionResult{Failure: f}
	}

	acc, err := deps.Accounts.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return SessionResult{Failure: fail(FailureInvalidCredentials, "account_not_found", nil)}
		}
		return SessionResult{Failure: fail(FailureUnavailable, "account_store", err)}
	}

	ok, err := deps.Hasher.Verify(plain, acc.PasswordHash)
	if err != nil || !ok {
		return SessionResult{Failure: fail(FailureInvalidCredentials, "password_mismatch", err)}
	}

	upgradedHash := ""
	if deps.PasswordUpgradeOnLogin {
		if needs, err := deps.Hasher.NeedsUpgrade(acc.PasswordHash); err == nil && needs {
			if upgradedHash, err = deps.Hasher.Hash(plain); err != nil {
				deps.warn("password hash upgrade generation failed", "error", err)
				upgradedHash = ""
			}
		}
	}
	plain = ""

	t, f := markTicketUsed(ctx, deps.Tickets, ticketID)
	if f != nil {
		return SessionResult{Failure: f}
	}

	minted, err := mintAndHash(deps.Sessions, deps.Hasher, "")
	if err != nil {
		return SessionResult{Failure: fail(FailureUnavailable, "mint", err)}
	}

	var previous string
	updated, err := deps.Accounts.Update(ctx, email, func(a *account.Account) error {
		previous = a.SessionID
		a.IssueTokens(minted.issued.SessionID, minted.tokenHash, minted.refreshHash)
		if upgradedHash != "" && a.PasswordHash == acc.PasswordHash {
			a.PasswordHash = upgradedHash
		}
		return nil
	})
	if err != nil {
		return SessionResult{Failure: fail(FailureUnavailable, "account_store", err)}
	}

	if err := deps.Sessions.Activate(ctx, email, previous, minted.issued.SessionID); err != nil {
		return SessionResult{Failure: fail(FailureUnavailable, "session_store", err)}
	}

	redirect, err := HandoffURL(t.RedirectURL, ticketID, minted.issued.SessionID, minted.issued.Token)
	if err != nil {
		return SessionResult{Failure: fail(FailureUnavailable, "redirect_url", err)}
	}

	return SessionResult{
		AccountID:         updated.AccountID,
		RedirectURL:       redirect,
		SessionID:         minted.issued.SessionID,
		Token:             minted.issued.Token,
		RefreshToken:      minted.issued.RefreshToken,
		PreviousSessionID: previous,
		PasswordUpgraded:  upgradedHash != "" && updated.PasswordHash == upgradedHash,
	}
}
