package flows

import (
	"net/url"
)

// ValidRedirectURL reports whether raw is an absolute URL with a host.
func ValidRedirectURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != "" && u.Fragment == ""
}

// HandoffURL appends ticketId, sessionId and token to base, keeping any query
// parameters base already carries.
func HandoffURL(base, ticketID, sessionID, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("ticketId", ticketID)
	q.Set("sessionId", sessionID)
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
