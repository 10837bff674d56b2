package goSSO

import (
	"context"

	"github.com/MrEthical07/goSSO/internal/flows"
)

// CreateTicket stores a new one-time ticket. RedirectURL must be absolute;
// TicketKey is hashed and later proves the claimant owns the ticket.
func (e *Engine) CreateTicket(ctx context.Context, req CreateTicketRequest) (string, error) {
	res := flows.RunCreateTicket(ctx, req.TicketKey, req.RedirectURL, e.deps)
	if res.Failure != nil {
		e.metricInc(MetricTicketRejected)
		return "", e.failureError(ctx, "create_ticket", res.Failure)
	}
	e.metricInc(MetricTicketCreated)
	return res.TicketID, nil
}
