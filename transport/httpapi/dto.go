package httpapi

type createTicketRequest struct {
	TicketKey   string `json:"ticketKey"`
	RedirectURL string `json:"redirectUrl"`
}

type createTicketResponse struct {
	TicketID string `json:"ticketId"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	TicketID string `json:"ticketId"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type claimRequest struct {
	TicketID  string `json:"ticketId"`
	TicketKey string `json:"ticketKey"`
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

type refreshRequest struct {
	TicketID     string `json:"ticketId"`
	SessionID    string `json:"sessionId"`
	RefreshToken string `json:"refreshToken"`
}

// sessionResponse is returned by login and refresh.
type sessionResponse struct {
	RedirectURL  string `json:"redirectUrl"`
	SessionID    string `json:"sessionId"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type claimResponse struct {
	AccountID string `json:"accountId"`
	Username  string `json:"username"`
	Assertion string `json:"assertion,omitempty"`
}

type envelope struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}
