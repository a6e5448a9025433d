// Package auth provides HTTP middleware for bearer token authentication
// on the MCP server surface.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// bearerPrefix is the required Authorization scheme. The prefix is
// case-sensitive and must be followed by exactly one space.
const bearerPrefix = "Bearer "

// NewAuthMiddleware returns an HTTP middleware that enforces bearer token
// authentication. If the configured token is empty, authentication is
// disabled and all requests pass through to the next handler.
//
// When enabled, the incoming request must carry:
//
//	Authorization: Bearer <token>
//
// Any deviation (missing header, wrong token, lowercase scheme, extra
// spaces, empty token value) yields 401 Unauthorized and the next handler
// is never called. Token comparison is constant-time.
func NewAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !authorized(r.Header.Get("Authorization"), token) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// authorized reports whether header carries exactly the expected bearer
// token.
func authorized(header, token string) bool {
	if !strings.HasPrefix(header, bearerPrefix) {
		return false
	}
	provided := header[len(bearerPrefix):]
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(token)) == 1
}
