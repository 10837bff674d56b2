package goSSO

import (
	"errors"

	"github.com/MrEthical07/goSSO/jwt"
)

// Verifier checks identity assertions without a store. Destination
// applications that never run an Engine use it with the issuer's public key
// (ed25519) or shared secret (hs256).
type Verifier struct {
	assertions *jwt.Manager
}

// NewVerifier builds a Verifier from the same settings the issuing engine
// uses. Enabled is ignored.
func NewVerifier(cfg AssertionConfig) (*Verifier, error) {
	m, err := newAssertionManager(cfg)
	if err != nil {
		return nil, err
	}
	return &Verifier{assertions: m}, nil
}

func (v *Verifier) VerifyAssertion(token string) (*Identity, error) {
	if v == nil || v.assertions == nil {
		return nil, ErrEngineNotReady
	}
	return verifyAssertion(v.assertions, token)
}

func newAssertionManager(cfg AssertionConfig) (*jwt.Manager, error) {
	return jwt.NewManager(jwt.Config{
		TTL:           cfg.TTL,
		SigningMethod: jwt.SigningMethod(cfg.SigningMethod),
		PrivateKey:    cloneBytes(cfg.PrivateKey),
		PublicKey:     cloneBytes(cfg.PublicKey),
		Issuer:        cfg.Issuer,
		Audience:      cfg.Audience,
	})
}

func verifyAssertion(m *jwt.Manager, token string) (*Identity, error) {
	claims, err := m.ParseAssertion(token)
	if err != nil {
		return nil, errors.Join(ErrForbidden, err)
	}
	return &Identity{
		AccountID: claims.Subject,
		Username:  claims.Username,
		SessionID: claims.SID,
	}, nil
}
