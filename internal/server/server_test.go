package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/internal/server"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

var dbSeq atomic.Int64

// newTestServer boots the full application over a fresh in-memory database.
func newTestServer(t *testing.T) (http.Handler, *gorm.DB) {
	t.Helper()

	config.Set("REDIS_ADDR", "")
	config.Set("STORAGE_DISK", "local")
	config.Set("STORAGE_LOCAL_ROOT", t.TempDir())

	// cache=shared keeps every pool connection on the same in-memory DB.
	dsn := fmt.Sprintf("file:test%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Address{},
		&models.Category{}, &models.Product{},
		&models.Review{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))

	return server.New(db).Handler(), db
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dest))
}

// register creates an account through the API and returns its token.
func register(t *testing.T, h http.Handler, email string) string {
	t.Helper()

	rr := doJSON(t, h, http.MethodPost, "/api/users/register", "", map[string]any{
		"email":     email,
		"password":  "secret123",
		"firstName": "Test",
		"lastName":  "User",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	decode(t, rr, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

// registerAdmin registers through the API then promotes the row directly.
// The role lives only in the database, so the token needs no reissue.
func registerAdmin(t *testing.T, h http.Handler, db *gorm.DB, email string) string {
	t.Helper()

	token := register(t, h, email)
	err := db.Model(&models.User{}).Where("email = ?", email).
		Update("role", models.RoleAdmin).Error
	require.NoError(t, err)
	return token
}

func createCategory(t *testing.T, h http.Handler, admin, name string) uint {
	t.Helper()

	rr := doJSON(t, h, http.MethodPost, "/api/categories", admin, map[string]any{
		"name": name,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var out models.Category
	decode(t, rr, &out)
	return out.ID
}

func createProduct(t *testing.T, h http.Handler, admin string, categoryID uint, name string, price float64, stock int) uint {
	t.Helper()

	rr := doJSON(t, h, http.MethodPost, "/api/products", admin, map[string]any{
		"name":       name,
		"price":      price,
		"stock":      stock,
		"categoryId": categoryID,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var out models.Product
	decode(t, rr, &out)
	return out.ID
}
