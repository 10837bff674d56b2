package goSSO

import (
	"context"

	"github.com/MrEthical07/goSSO/internal/flows"
)

// Register creates an account. It fails with ErrEmailTaken or
// ErrUsernameTaken (both ErrConflict), checking the email first.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	res := flows.RunRegister(ctx, req.Email, req.Username, req.Password, e.deps)
	if res.Failure != nil {
		if res.Failure.Kind == flows.FailureEmailTaken || res.Failure.Kind == flows.FailureUsernameTaken {
			e.metricInc(MetricRegisterConflict)
		}
		return nil, e.failureError(ctx, "register", res.Failure)
	}
	e.metricInc(MetricRegisterSuccess)
	return &RegisterResult{AccountID: res.AccountID}, nil
}
