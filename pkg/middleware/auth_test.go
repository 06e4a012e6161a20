package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/pkg/auth"
)

type stubIdentitySource map[uint]Identity

func (s stubIdentitySource) FindIdentity(_ context.Context, userID uint) (Identity, error) {
	id, ok := s[userID]
	if !ok {
		return Identity{}, assert.AnError
	}
	return id, nil
}

func protected(users IdentitySource) http.Handler {
	return Auth(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthMissingToken(t *testing.T) {
	h := protected(stubIdentitySource{})

	for _, header := range []string{"", "Basic abc", "token-without-scheme"} {
		req := httptest.NewRequest("GET", "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
		assert.Contains(t, rr.Body.String(), "Access denied. No token provided.")
	}
}

func TestAuthInvalidToken(t *testing.T) {
	h := protected(stubIdentitySource{})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token.")
}

// A valid token whose user has since been deleted is treated as invalid.
func TestAuthDeletedUser(t *testing.T) {
	token, err := auth.GenerateToken(7)
	require.NoError(t, err)

	h := protected(stubIdentitySource{})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token.")
}

func TestAuthAttachesIdentity(t *testing.T) {
	token, err := auth.GenerateToken(7)
	require.NoError(t, err)

	users := stubIdentitySource{7: {UserID: 7, Role: "CUSTOMER"}}
	var got Identity
	h := Auth(users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFromCtx(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "CUSTOMER", got.Role)
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		role string
		code int
	}{
		{"ADMIN", http.StatusOK},
		{"CUSTOMER", http.StatusForbidden},
		{"", http.StatusForbidden},
	}
	for _, c := range cases {
		req := httptest.NewRequest("GET", "/", nil)
		if c.role != "" {
			ctx := context.WithValue(req.Context(), identityKey{}, Identity{UserID: 1, Role: c.role})
			req = req.WithContext(ctx)
		}
		rr := httptest.NewRecorder()
		RequireAdmin(next).ServeHTTP(rr, req)
		assert.Equal(t, c.code, rr.Code, "role %q", c.role)
	}
}
