package flows

// FailureKind classifies a flow failure for root-level mapping.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNotReady
	FailureInvalidRequest
	FailureEmailTaken
	FailureUsernameTaken
	FailureInvalidTicket
	FailureInvalidCredentials
	FailureForbidden
	FailureUnavailable
)

func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "none"
	case FailureNotReady:
		return "not_ready"
	case FailureInvalidRequest:
		return "invalid_request"
	case FailureEmailTaken:
		return "email_taken"
	case FailureUsernameTaken:
		return "username_taken"
	case FailureInvalidTicket:
		return "invalid_ticket"
	case FailureInvalidCredentials:
		return "invalid_credentials"
	case FailureForbidden:
		return "forbidden"
	case FailureUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Failure describes why a flow stopped. Reason is a short stable token for
// logs and metrics; Err is the underlying cause, if any.
type Failure struct {
	Kind   FailureKind
	Reason string
	Err    error
}

func fail(kind FailureKind, reason string, err error) *Failure {
	return &Failure{Kind: kind, Reason: reason, Err: err}
}
