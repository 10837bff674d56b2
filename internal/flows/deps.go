package flows

import (
	"context"

	"github.com/MrEthical07/goSSO/account"
	"github.com/MrEthical07/goSSO/session"
	"github.com/MrEthical07/goSSO/ticket"
)

// AccountDirectory is the subset of *account.Directory the flows use.
type AccountDirectory interface {
	Register(ctx context.Context, email, username, passwordHash string) (*account.Account, error)
	Lookup(ctx context.Context, email string) (*account.Account, error)
	Update(ctx context.Context, email string, mutate func(*account.Account) error) (*account.Account, error)
}

// TicketManager is the subset of *ticket.Manager the flows use.
type TicketManager interface {
	Create(ctx context.Context, ticketKey, redirectURL string) (string, error)
	RequireUnused(ctx context.Context, ticketID string) (*ticket.Ticket, error)
	RequireUsed(ctx context.Context, ticketID string) (*ticket.Ticket, error)
	MarkUsed(ctx context.Context, ticketID string) (*ticket.Ticket, error)
	VerifyClaimSecret(t *ticket.Ticket, candidateKey string) (bool, error)
	Consume(ctx context.Context, ticketID string) error
}

// SessionManager is the subset of *session.Manager the flows use.
type SessionManager interface {
	Mint(sessionID string) (*session.Issued, error)
	Activate(ctx context.Context, email, previousSessionID, sessionID string) error
	ResolveSession(ctx context.Context, sessionID string) (string, error)
	ResolveRefreshSession(ctx context.Context, sessionID string) (string, error)
	InvalidateSessionEntry(ctx context.Context, sessionID string) (bool, error)
}

// Hasher hashes passwords, ticket keys and tokens.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encodedHash string) (bool, error)
	NeedsUpgrade(encodedHash string) (bool, error)
}

// Deps is built once by the Engine and shared by every flow.
type Deps struct {
	Accounts AccountDirectory
	Tickets  TicketManager
	Sessions SessionManager
	Hasher   Hasher

	PasswordUpgradeOnLogin bool

	// Warn receives non-fatal problems (for example a failed hash upgrade).
	Warn func(msg string, args ...any)
}

func (d *Deps) ready() bool {
	return d != nil && d.Accounts != nil && d.Tickets != nil && d.Sessions != nil && d.Hasher != nil
}

func (d *Deps) warn(msg string, args ...any) {
	if d.Warn != nil {
		d.Warn(msg, args...)
	}
}
