package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSSO/account"
	"github.com/MrEthical07/goSSO/password"
)

// RegisterResult carries the created account id or a failure.
type RegisterResult struct {
	Failure   *Failure
	AccountID string
}

// RunRegister hashes the password and creates the account. Email uniqueness
// is checked before username uniqueness.
func RunRegister(ctx context.Context, email, username, plain string, deps Deps) RegisterResult {
	if !deps.ready() {
		return RegisterResult{Failure: fail(FailureNotReady, "not_ready", nil)}
	}
	if email == "" || username == "" || plain == "" {
		return RegisterResult{Failure: fail(FailureInvalidRequest, "missing_field", nil)}
	}

	hash, err := deps.Hasher.Hash(plain)
	if err != nil {
		if errors.Is(err, password.ErrSecretTooLong) {
			return RegisterResult{Failure: fail(FailureInvalidRequest, "password_too_long", err)}
		}
		return RegisterResult{Failure: fail(FailureUnavailable, "hash", err)}
	}

	acc, err := deps.Accounts.Register(ctx, email, username, hash)
	switch {
	case err == nil:
		return RegisterResult{AccountID: acc.AccountID}
	case errors.Is(err, account.ErrEmailExists):
		return RegisterResult{Failure: fail(FailureEmailTaken, "email_taken", err)}
	case errors.Is(err, account.ErrUsernameExists):
		return RegisterResult{Failure: fail(FailureUsernameTaken, "username_taken", err)}
	default:
		return RegisterResult{Failure: fail(FailureUnavailable, "account_store", err)}
	}
}
