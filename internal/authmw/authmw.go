// Package authmw provides HTTP middleware for the manager review surface:
// bearer token authentication plus the reviewer identity header.
package authmw

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// ReviewerHeader carries the manager identity on review requests. The
// review log records this value verbatim.
const ReviewerHeader = "X-Reviewer"

// BearerToken returns middleware that validates the Authorization header
// contains a Bearer token matching the expected value. Comparison uses
// constant-time equality to prevent timing side-channel attacks.
func BearerToken(token string) func(http.Handler) http.Handler {
	expected := []byte(token)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")

			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, `{"error":"missing or malformed authorization header"}`, http.StatusUnauthorized)
				return
			}

			got := []byte(auth[len("Bearer "):])

			if subtle.ConstantTimeCompare(got, expected) != 1 {
				http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Reviewer extracts the reviewer identity from the request. Empty when the
// header is absent or blank.
func Reviewer(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(ReviewerHeader))
}

// RequireReviewer returns middleware that rejects requests lacking a
// reviewer identity. Layered after BearerToken on the review endpoints: the
// token authorizes the call, the header attributes it.
func RequireReviewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Reviewer(r) == "" {
			http.Error(w, `{"error":"missing `+ReviewerHeader+` header"}`, http.StatusBadRequest)
			return
		}
		next.ServeHTTP(w, r)
	})
}
