package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
)

func TestRegisterAndLogin(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/users/register", "", map[string]any{
		"email":     "alice@example.com",
		"password":  "secret123",
		"firstName": "Alice",
		"lastName":  "Smith",
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	decode(t, rr, &created)
	assert.Equal(t, "alice@example.com", created.User.Email)
	assert.Equal(t, models.RoleCustomer, created.User.Role)
	assert.NotEmpty(t, created.Token)
	assert.NotContains(t, rr.Body.String(), "secret123")
	assert.NotContains(t, rr.Body.String(), `"password"`)

	rr = doJSON(t, h, http.MethodPost, "/api/users/login", "", map[string]any{
		"email":    "alice@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, _ := newTestServer(t)
	register(t, h, "dup@example.com")

	rr := doJSON(t, h, http.MethodPost, "/api/users/register", "", map[string]any{
		"email":     "dup@example.com",
		"password":  "secret123",
		"firstName": "Dup",
		"lastName":  "User",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "User already exists")
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodPost, "/api/users/register", "", map[string]any{
		"email":    "not-an-email",
		"password": "123",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var out struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	decode(t, rr, &out)
	assert.Equal(t, "Validation failed", out.Error)
	assert.Contains(t, out.Details, "email")
	assert.Contains(t, out.Details, "password")
	assert.Contains(t, out.Details, "firstName")
}

func TestLoginWrongPassword(t *testing.T) {
	h, _ := newTestServer(t)
	register(t, h, "bob@example.com")

	for _, body := range []map[string]any{
		{"email": "bob@example.com", "password": "wrong-pass"},
		{"email": "nobody@example.com", "password": "secret123"},
	} {
		rr := doJSON(t, h, http.MethodPost, "/api/users/login", "", body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "Invalid credentials")
	}
}

func TestProtectedRouteWithoutToken(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodGet, "/api/users/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Access denied. No token provided.")

	rr = doJSON(t, h, http.MethodGet, "/api/users/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid token.")
}

func TestAdminRouteAsCustomer(t *testing.T) {
	h, db := newTestServer(t)
	token := register(t, h, "customer@example.com")

	rr := doJSON(t, h, http.MethodPost, "/api/categories", token, map[string]any{
		"name": "Toys",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Contains(t, rr.Body.String(), "Admin privileges required")

	// The rejected request must not have written anything.
	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}

// Promoting a user takes effect on their existing token because the role is
// read from the database on every request, never from the token.
func TestRolePromotionTakesEffectImmediately(t *testing.T) {
	h, db := newTestServer(t)
	token := register(t, h, "promoted@example.com")

	rr := doJSON(t, h, http.MethodPost, "/api/categories", token, map[string]any{"name": "Toys"})
	require.Equal(t, http.StatusForbidden, rr.Code)

	err := db.Model(&models.User{}).Where("email = ?", "promoted@example.com").
		Update("role", models.RoleAdmin).Error
	require.NoError(t, err)

	rr = doJSON(t, h, http.MethodPost, "/api/categories", token, map[string]any{"name": "Toys"})
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestUpdateProfile(t *testing.T) {
	h, _ := newTestServer(t)
	token := register(t, h, "rename@example.com")

	rr := doJSON(t, h, http.MethodPut, "/api/users/profile", token, map[string]any{
		"firstName": "New",
		"lastName":  "Name",
	})
	require.Equal(t, http.StatusOK, rr.Code)

	var user models.User
	decode(t, rr, &user)
	assert.Equal(t, "New", user.FirstName)
	assert.Equal(t, "rename@example.com", user.Email)
}

func TestDefaultAddressIsExclusive(t *testing.T) {
	h, _ := newTestServer(t)
	token := register(t, h, "addr@example.com")

	addr := func(street string, isDefault bool) models.Address {
		rr := doJSON(t, h, http.MethodPost, "/api/users/addresses", token, map[string]any{
			"street":    street,
			"city":      "Springfield",
			"state":     "IL",
			"zipCode":   "62704",
			"country":   "USA",
			"isDefault": isDefault,
		})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		var out models.Address
		decode(t, rr, &out)
		return out
	}

	first := addr("1 First St", true)
	assert.True(t, first.IsDefault)

	// A second default displaces the first.
	second := addr("2 Second Ave", true)
	assert.True(t, second.IsDefault)

	third := addr("3 Third Rd", false)

	rr := doJSON(t, h, http.MethodGet, "/api/users/addresses", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var all []models.Address
	decode(t, rr, &all)
	require.Len(t, all, 3)

	defaults := 0
	for _, a := range all {
		if a.IsDefault {
			defaults++
			assert.Equal(t, second.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)

	// Flipping the default moves it, still exactly one.
	rr = doJSON(t, h, http.MethodPut,
		"/api/users/addresses/"+itoa(third.ID)+"/default", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, h, http.MethodGet, "/api/users/addresses", token, nil)
	decode(t, rr, &all)

	defaults = 0
	for _, a := range all {
		if a.IsDefault {
			defaults++
			assert.Equal(t, third.ID, a.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestSetDefaultOnForeignAddress(t *testing.T) {
	h, _ := newTestServer(t)
	owner := register(t, h, "owner@example.com")
	other := register(t, h, "other@example.com")

	rr := doJSON(t, h, http.MethodPost, "/api/users/addresses", owner, map[string]any{
		"street":  "1 Owner St",
		"city":    "Springfield",
		"state":   "IL",
		"zipCode": "62704",
		"country": "USA",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var created models.Address
	decode(t, rr, &created)

	rr = doJSON(t, h, http.MethodPut,
		"/api/users/addresses/"+itoa(created.ID)+"/default", other, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
