package goSSO

import (
	"log/slog"
	"sync"
)

const redacted = "[REDACTED]"

// Secret holds a plaintext credential that may be revealed exactly once.
// Formatting or logging a Secret never prints its value.
type Secret struct {
	mu       sync.Mutex
	value    string
	revealed bool
}

// NewSecret wraps value.
func NewSecret(value string) *Secret {
	return &Secret{value: value}
}

// Reveal returns the plaintext on the first call and ("", false) afterwards.
func (s *Secret) Reveal() (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.revealed {
		return "", false
	}
	v := s.value
	s.value = ""
	s.revealed = true
	return v, true
}

// Revealed reports whether Reveal already handed out the value.
func (s *Secret) Revealed() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed
}

func (s *Secret) String() string {
	return redacted
}

func (s *Secret) GoString() string {
	return redacted
}

// LogValue implements slog.LogValuer.
func (s *Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// MarshalText keeps a Secret from leaking through encoders.
func (s *Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}
