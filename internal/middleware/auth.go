package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/AnshRaj112/serenify-engagement/internal/auth"
)

// UnauthorizedHint tells clients how to authenticate. It never says why a
// credential was rejected.
const UnauthorizedHint = "Include 'Authorization: Bearer <token>' header with valid identity token"

// PrincipalVerifier resolves an Authorization header to a principal.
type PrincipalVerifier interface {
	Verify(ctx context.Context, header string) (auth.Principal, bool)
}

// RequireAuth rejects requests without a verifiable bearer credential and
// stores the principal in the request context for handlers.
func RequireAuth(verifier PrincipalVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := verifier.Verify(r.Context(), r.Header.Get("Authorization"))
			if !ok {
				WriteUnauthorized(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// WriteUnauthorized writes the generic 401 body.
func WriteUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "Unauthorized",
		"hint":  UnauthorizedHint,
	})
}

func writeTooManyRequests(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
