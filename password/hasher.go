package password

import (
	"errors"
	"strings"
)

// Algorithm names a supported hash family.
type Algorithm string

const (
	// AlgorithmArgon2id is the default algorithm.
	AlgorithmArgon2id Algorithm = "argon2id"
	// AlgorithmBcrypt is accepted for compatibility with bcrypt-hashed stores.
	AlgorithmBcrypt Algorithm = "bcrypt"
)

var (
	// ErrEmptySecret is returned when hashing or verifying an empty input.
	ErrEmptySecret = errors.New("secret cannot be empty")
	// ErrSecretTooLong is returned when an input exceeds the configured byte limit.
	ErrSecretTooLong = errors.New("secret exceeds maximum length")
	// ErrUnsupportedHash is returned when no registered hasher understands a hash.
	ErrUnsupportedHash = errors.New("unsupported hash format")
)

// Hasher is a one-way, salted, slow hash with a verify function.
type Hasher interface {
	Algorithm() Algorithm
	Hash(secret string) (string, error)
	// Verify returns (true, nil) on match, (false, nil) on mismatch and an
	// error only when encodedHash cannot be parsed.
	Verify(secret, encodedHash string) (bool, error)
	NeedsUpgrade(encodedHash string) (bool, error)
}

// Detect returns the algorithm that produced encodedHash, or "" when unknown.
func Detect(encodedHash string) Algorithm {
	switch {
	case strings.HasPrefix(encodedHash, "$argon2id$"):
		return AlgorithmArgon2id
	case strings.HasPrefix(encodedHash, "$2a$"),
		strings.HasPrefix(encodedHash, "$2b$"),
		strings.HasPrefix(encodedHash, "$2y$"):
		return AlgorithmBcrypt
	default:
		return ""
	}
}

// Registry hashes with a primary Hasher and verifies with whichever registered
// Hasher matches the stored hash.
type Registry struct {
	primary Hasher
	byAlg   map[Algorithm]Hasher
}

// NewRegistry builds a Registry. The primary hasher is always registered.
func NewRegistry(primary Hasher, others ...Hasher) *Registry {
	r := &Registry{
		primary: primary,
		byAlg:   make(map[Algorithm]Hasher, len(others)+1),
	}
	for _, h := range others {
		if h != nil {
			r.byAlg[h.Algorithm()] = h
		}
	}
	r.byAlg[primary.Algorithm()] = primary
	return r
}

// Algorithm returns the primary algorithm.
func (r *Registry) Algorithm() Algorithm {
	return r.primary.Algorithm()
}

// Hash hashes secret with the primary hasher.
func (r *Registry) Hash(secret string) (string, error) {
	return r.primary.Hash(secret)
}

// Verify dispatches on the algorithm encoded in the hash.
func (r *Registry) Verify(secret, encodedHash string) (bool, error) {
	h, ok := r.byAlg[Detect(encodedHash)]
	if !ok {
		return false, ErrUnsupportedHash
	}
	return h.Verify(secret, encodedHash)
}

// NeedsUpgrade is true for hashes from a non-primary algorithm, or from the
// primary algorithm with weaker parameters.
func (r *Registry) NeedsUpgrade(encodedHash string) (bool, error) {
	alg := Detect(encodedHash)
	if _, ok := r.byAlg[alg]; !ok {
		return false, ErrUnsupportedHash
	}
	if alg != r.primary.Algorithm() {
		return true, nil
	}
	return r.primary.NeedsUpgrade(encodedHash)
}
