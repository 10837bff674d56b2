package goSSO

// CreateTicketRequest is the input for [Engine.CreateTicket].
type CreateTicketRequest struct {
	TicketKey   string
	RedirectURL string
}

// RegisterRequest is the input for [Engine.Register].
type RegisterRequest struct {
	Email    string
	Username string
	Password string
}

// RegisterResult is returned by [Engine.Register].
type RegisterResult struct {
	AccountID string
}

// LoginRequest is the input for [Engine.Login].
type LoginRequest struct {
	TicketID string
	Email    string
	Password string
}

// SessionResult is returned by [Engine.Login] and [Engine.RefreshSession].
//
// RedirectURL carries the bearer token in its query and is therefore a
// Secret as well. Each Secret can be revealed once.
type SessionResult struct {
	SessionID    string
	RedirectURL  *Secret
	Token        *Secret
	RefreshToken *Secret
}

// ClaimRequest is the input for [Engine.ClaimSession].
type ClaimRequest struct {
	TicketID  string
	TicketKey string
	SessionID string
	Token     string
}

// ClaimResult is returned by [Engine.ClaimSession]. Assertion is set only
// when identity assertions are enabled.
type ClaimResult struct {
	AccountID string
	Username  string
	Assertion string
}

// RefreshRequest is the input for [Engine.RefreshSession].
type RefreshRequest struct {
	TicketID     string
	SessionID    string
	RefreshToken string
}

// Identity is a verified identity assertion.
type Identity struct {
	AccountID string
	Username  string
	SessionID string
}
