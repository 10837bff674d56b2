package flows

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSSO/password"
)

// CreateTicketResult carries the new ticket id or a failure.
type CreateTicketResult struct {
	Failure  *Failure
	TicketID string
}

// RunCreateTicket stores a new unused ticket bound to ticketKey and redirectURL.
func RunCreateTicket(ctx context.Context, ticketKey, redirectURL string, deps Deps) CreateTicketResult {
	if !deps.ready() {
		return CreateTicketResult{Failure: fail(FailureNotReady, "not_ready", nil)}
	}
	if ticketKey == "" {
		return CreateTicketResult{Failure: fail(FailureInvalidRequest, "missing_ticket_key", nil)}
	}
	if !ValidRedirectURL(redirectURL) {
		return CreateTicketResult{Failure: fail(FailureInvalidRequest, "invalid_redirect_url", nil)}
	}

	id, err := deps.Tickets.Create(ctx, ticketKey, redirectURL)
	if err != nil {
		if errors.Is(err, password.ErrSecretTooLong) {
			return CreateTicketResult{Failure: fail(FailureInvalidRequest, "ticket_key_too_long", err)}
		}
		return CreateTicketResult{Failure: fail(FailureUnavailable, "ticket_store", err)}
	}
	return CreateTicketResult{TicketID: id}
}
