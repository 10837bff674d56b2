package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"
	"time"
)

// FuzzParseAssertion feeds arbitrary strings to the parser: no panics, and
// nothing but a real signed assertion may verify.
func FuzzParseAssertion(f *testing.F) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		f.Fatal(err)
	}
	mgr, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		Issuer:        "fuzz",
		KeyID:         "k1",
	})
	if err != nil {
		f.Fatal(err)
	}

	valid, err := mgr.CreateAssertion("acc", "alice", "sid")
	if err != nil {
		f.Fatal(err)
	}
	f.Add(valid)
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJub25lIn0.e30.")

	f.Fuzz(func(t *testing.T, token string) {
		claims, err := mgr.ParseAssertion(token)
		if err == nil && claims.Subject != "acc" {
			t.Fatalf("forged assertion accepted: %+v", claims)
		}
	})
}
