package account

import "errors"

// ErrTokenConsumed is returned by ConsumeToken when no bearer token is live.
var ErrTokenConsumed = errors.New("bearer token already consumed")

// TokenState tracks the one-time bearer token bound to an account's session.
type TokenState uint8

const (
	// TokenConsumed means no bearer token is outstanding: either it was claimed
	// or none was ever issued.
	TokenConsumed TokenState = iota
	// TokenIssued means TokenHash holds the hash of an unclaimed bearer token.
	TokenIssued
)

func (s TokenState) String() string {
	switch s {
	case TokenIssued:
		return "issued"
	case TokenConsumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Account is the persisted account record.
//
// TokenHash is non-empty exactly when TokenState is TokenIssued. Use the
// transition methods rather than writing those two fields directly.
type Account struct {
	AccountID        string
	Email            string
	Username         string
	PasswordHash     string
	SessionID        string
	TokenState       TokenState
	TokenHash        string
	RefreshTokenHash string
	Version          uint32
}

// IssueTokens binds a new session to the account, replacing any previous
// token and refresh-token hashes.
func (a *Account) IssueTokens(sessionID, tokenHash, refreshTokenHash string) {
	a.SessionID = sessionID
	a.TokenState = TokenIssued
	a.TokenHash = tokenHash
	a.RefreshTokenHash = refreshTokenHash
}

// ConsumeToken clears the live bearer token and returns its hash.
func (a *Account) ConsumeToken() (string, error) {
	if a.TokenState != TokenIssued {
		return "", ErrTokenConsumed
	}
	hash := a.TokenHash
	a.TokenState = TokenConsumed
	a.TokenHash = ""
	return hash, nil
}

// HasSession reports whether a session was ever bound to the account.
func (a *Account) HasSession() bool {
	return a.SessionID != ""
}
