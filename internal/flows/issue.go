package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSSO/session"
	"github.com/MrEthical07/goSSO/ticket"
)

// SessionResult is the output shared by Login and RefreshSession. Token and
// RefreshToken are plaintext and returned to the caller once.
type SessionResult struct {
	Failure           *Failure
	AccountID         string
	RedirectURL       string
	SessionID         string
	Token             string
	RefreshToken      string
	PreviousSessionID string
	PasswordUpgraded  bool
}

type hashedIssue struct {
	issued      *session.Issued
	tokenHash   string
	refreshHash string
}

func mintAndHash(sessions SessionManager, hasher Hasher, sessionID string) (*hashedIssue, error) {
	issued, err := sessions.Mint(sessionID)
	if err != nil {
		return nil, err
	}
	tokenHash, err := hasher.Hash(issued.Token)
	if err != nil {
		return nil, err
	}
	refreshHash, err := hasher.Hash(issued.RefreshToken)
	if err != nil {
		return nil, err
	}
	return &hashedIssue{issued: issued, tokenHash: tokenHash, refreshHash: refreshHash}, nil
}

// markTicketUsed maps ticket manager outcomes onto failures. Losing the race
// to another caller is the same outcome as presenting a used ticket.
func markTicketUsed(ctx context.Context, tickets TicketManager, ticketID string) (*ticket.Ticket, *Failure) {
	t, err := tickets.MarkUsed(ctx, ticketID)
	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, ticket.ErrNotFound), errors.Is(err, ticket.ErrWrongState):
		return nil, fail(FailureInvalidTicket, "ticket_race", err)
	default:
		return nil, fail(FailureUnavailable, "ticket_store", err)
	}
}

func requireUnusedTicket(ctx context.Context, tickets TicketManager, ticketID string) (*ticket.Ticket, *Failure) {
	t, err := tickets.RequireUnused(ctx, ticketID)
	switch {
	case err == nil:
		return t, nil
	case errors.Is(err, ticket.ErrNotFound):
		return nil, fail(FailureInvalidTicket, "ticket_not_found", err)
	case errors.Is(err, ticket.ErrWrongState), errors.Is(err, ticket.ErrCorruptRecord):
		return nil, fail(FailureInvalidTicket, "ticket_used", err)
	default:
		return nil, fail(FailureUnavailable, "ticket_store", err)
	}
}
