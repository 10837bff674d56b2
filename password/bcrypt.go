package password

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const bcryptMaxInput = 72

// Bcrypt hashes secrets with bcrypt at a fixed cost.
type Bcrypt struct {
	cost int
}

// NewBcrypt validates cost against the bcrypt bounds.
func NewBcrypt(cost int) (*Bcrypt, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("bcrypt cost must be between 4 and 31")
	}
	return &Bcrypt{cost: cost}, nil
}

func (b *Bcrypt) Algorithm() Algorithm {
	return AlgorithmBcrypt
}

func (b *Bcrypt) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	out, err := bcrypt.GenerateFromPassword(bcryptInput(secret), b.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (b *Bcrypt) Verify(secret, encodedHash string) (bool, error) {
	if secret == "" {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), bcryptInput(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}

func (b *Bcrypt) NeedsUpgrade(encodedHash string) (bool, error) {
	cost, err := bcrypt.Cost([]byte(encodedHash))
	if err != nil {
		return false, err
	}
	return cost < b.cost, nil
}

// bcryptInput keeps short secrets verbatim so plain bcrypt hashes stay
// verifiable; longer ones (e.g. 128-char refresh tokens) are digested first
// because bcrypt rejects input beyond 72 bytes.
func bcryptInput(secret string) []byte {
	if len(secret) <= bcryptMaxInput {
		return []byte(secret)
	}
	sum := sha256.Sum256([]byte(secret))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}
