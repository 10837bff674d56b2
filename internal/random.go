package internal

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var alphabetSize = big.NewInt(int64(len(alphanumeric)))

// NewID returns a random (version 4) UUID string. Tickets, sessions and
// accounts all draw their identifiers from this space.
func NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// RandomString returns n characters drawn uniformly from [A-Za-z0-9].
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid random string length")
	}

	var b strings.Builder
	b.Grow(n)

	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b.WriteByte(alphanumeric[idx.Int64()])
	}

	return b.String(), nil
}

// IsAlphanumeric reports whether s consists only of characters RandomString can emit.
func IsAlphanumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(alphanumeric, s[i]) < 0 {
			return false
		}
	}
	return s != ""
}
