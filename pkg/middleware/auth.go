// Package middleware provides the HTTP middleware stack: authentication,
// role checks, logging, panic recovery, CORS and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// Identity is the resolved caller attached to the request context by Auth.
type Identity struct {
	UserID uint
	Role   string
}

// IdentitySource resolves a token's user ID to a live identity. Implemented
// by the user repository; the indirection keeps middleware free of any
// storage dependency.
type IdentitySource interface {
	FindIdentity(ctx context.Context, userID uint) (Identity, error)
}

type identityKey struct{}

// IdentityFromCtx returns the identity stored by Auth, if any.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// UserIDFromCtx returns the authenticated user's ID, or 0 when the request
// is unauthenticated.
func UserIDFromCtx(ctx context.Context) uint {
	id, _ := IdentityFromCtx(ctx)
	return id.UserID
}

// RoleFromCtx returns the authenticated user's role, or "".
func RoleFromCtx(ctx context.Context) string {
	id, _ := IdentityFromCtx(ctx)
	return id.Role
}

// Auth returns middleware that gates protected routes.
//
// Per-request state machine: extract the bearer token (missing → 401),
// verify signature and expiry (invalid → 401), resolve the embedded user ID
// against the store (gone → 401), then attach the identity to the request
// context for downstream handlers. The role is re-read from the store on
// every request rather than trusted from the token.
func Auth(users IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if header == "" || token == header {
				response.Unauthorized(w, "Access denied. No token provided.")
				return
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				response.Unauthorized(w, "Invalid token.")
				return
			}

			identity, err := users.FindIdentity(r.Context(), claims.UserID)
			if err != nil {
				response.Unauthorized(w, "Invalid token.")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin blocks callers whose resolved role is not ADMIN.
// Must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RoleFromCtx(r.Context()) != "ADMIN" {
			response.Forbidden(w, "Access denied. Admin privileges required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
