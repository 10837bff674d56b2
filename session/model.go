package session

// Issued is freshly minted session material. Token and RefreshToken are
// plaintext and must not be persisted by the caller.
type Issued struct {
	SessionID    string
	Token        string
	RefreshToken string
}
