package middleware

import (
	"context"
	"net/http"
	"strings"

	goSSO "github.com/MrEthical07/goSSO"
)

// AssertionVerifier checks a signed identity assertion. *goSSO.Engine and
// *goSSO.Verifier satisfy it.
type AssertionVerifier interface {
	VerifyAssertion(token string) (*goSSO.Identity, error)
}

type identityContextKey struct{}

func IdentityFromContext(ctx context.Context) (*goSSO.Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(*goSSO.Identity)
	return id, ok
}

// RequireIdentity rejects requests without a valid assertion with 401.
func RequireIdentity(verifier AssertionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			id, err := verifier.VerifyAssertion(token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if len(value) < len(bearer) || !strings.EqualFold(value[:len(bearer)], bearer) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}

	return token, true
}
