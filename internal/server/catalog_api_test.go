package server_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/pagination"
)

func TestProductListPagination(t *testing.T) {
	h, db := newTestServer(t)
	admin := registerAdmin(t, h, db, "admin@example.com")
	catID := createCategory(t, h, admin, "Electronics")

	for i := 1; i <= 25; i++ {
		createProduct(t, h, admin, catID, fmt.Sprintf("Widget %02d", i), 9.99, 5)
	}

	var out struct {
		Products   []models.Product      `json:"products"`
		Pagination pagination.Pagination `json:"pagination"`
	}

	rr := doJSON(t, h, http.MethodGet, "/api/products?page=1&limit=10", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &out)
	assert.Len(t, out.Products, 10)
	assert.Equal(t, int64(25), out.Pagination.Total)
	assert.Equal(t, 3, out.Pagination.Pages) // ceil(25/10)

	// Last page holds the remainder.
	rr = doJSON(t, h, http.MethodGet, "/api/products?page=3&limit=10", "", nil)
	decode(t, rr, &out)
	assert.Len(t, out.Products, 5)

	// Past the end: empty slice, same metadata.
	rr = doJSON(t, h, http.MethodGet, "/api/products?page=9&limit=10", "", nil)
	decode(t, rr, &out)
	assert.Len(t, out.Products, 0)
	assert.Equal(t, 3, out.Pagination.Pages)

	// Nonsense paging inputs fall back to defaults.
	rr = doJSON(t, h, http.MethodGet, "/api/products?page=0&limit=-3", "", nil)
	decode(t, rr, &out)
	assert.Equal(t, 1, out.Pagination.Page)
	assert.Equal(t, 10, out.Pagination.Limit)
}

func TestProductSearchAndCategoryFilter(t *testing.T) {
	h, db := newTestServer(t)
	admin := registerAdmin(t, h, db, "admin@example.com")
	electronics := createCategory(t, h, admin, "Electronics")
	books := createCategory(t, h, admin, "Books")

	createProduct(t, h, admin, electronics, "Wireless Mouse", 25, 10)
	createProduct(t, h, admin, electronics, "Wireless Keyboard", 45, 10)
	createProduct(t, h, admin, books, "Mouse Tales", 12, 10)

	var out struct {
		Products []models.Product `json:"products"`
	}

	rr := doJSON(t, h, http.MethodGet, "/api/products?search=Mouse", "", nil)
	decode(t, rr, &out)
	assert.Len(t, out.Products, 2)

	// Search matches regardless of case.
	rr = doJSON(t, h, http.MethodGet, "/api/products?search=mOuSe", "", nil)
	decode(t, rr, &out)
	assert.Len(t, out.Products, 2)

	rr = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products?search=Mouse&categoryId=%d", books), "", nil)
	decode(t, rr, &out)
	require.Len(t, out.Products, 1)
	assert.Equal(t, "Mouse Tales", out.Products[0].Name)

	rr = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products?categoryId=%d", electronics), "", nil)
	decode(t, rr, &out)
	assert.Len(t, out.Products, 2)

	// The shorter name is accepted as an alias.
	rr = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products?category=%d", books), "", nil)
	decode(t, rr, &out)
	assert.Len(t, out.Products, 1)

	rr = doJSON(t, h, http.MethodGet, "/api/products?categoryId=banana", "", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProductsByCategoryRoute(t *testing.T) {
	h, db := newTestServer(t)
	admin := registerAdmin(t, h, db, "admin@example.com")
	electronics := createCategory(t, h, admin, "Electronics")
	books := createCategory(t, h, admin, "Books")

	createProduct(t, h, admin, electronics, "Wireless Mouse", 25, 10)
	createProduct(t, h, admin, electronics, "Wireless Keyboard", 45, 10)
	createProduct(t, h, admin, books, "Mouse Tales", 12, 10)

	var out struct {
		Products   []models.Product      `json:"products"`
		Pagination pagination.Pagination `json:"pagination"`
	}

	rr := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/category/%d", electronics), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &out)
	require.Len(t, out.Products, 2)
	assert.Equal(t, int64(2), out.Pagination.Total)
	for _, p := range out.Products {
		assert.Equal(t, electronics, p.CategoryID)
	}

	// An unknown category simply yields an empty page.
	rr = doJSON(t, h, http.MethodGet, "/api/products/category/9999", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &out)
	assert.Len(t, out.Products, 0)

	rr = doJSON(t, h, http.MethodGet, "/api/products/category/not-a-number", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductRatingDerivedFromReviews(t *testing.T) {
	h, db := newTestServer(t)
	admin := registerAdmin(t, h, db, "admin@example.com")
	catID := createCategory(t, h, admin, "Electronics")
	prodID := createProduct(t, h, admin, catID, "Rated Widget", 10, 5)

	for i, rating := range []int{5, 4, 4} {
		token := register(t, h, fmt.Sprintf("reviewer%d@example.com", i))
		rr := doJSON(t, h, http.MethodPost,
			fmt.Sprintf("/api/products/%d/reviews", prodID), token, map[string]any{
				"rating":  rating,
				"comment": "fine",
			})
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}

	rr := doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", prodID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var product models.Product
	decode(t, rr, &product)
	assert.Equal(t, 3, product.ReviewCount)
	assert.InDelta(t, 13.0/3.0, product.AverageRating, 1e-9)
	require.Len(t, product.Reviews, 3)
	require.NotNil(t, product.Reviews[0].User)
	assert.NotContains(t, rr.Body.String(), `"password"`)

	// An unreviewed product reports zero without being null.
	fresh := createProduct(t, h, admin, catID, "Fresh Widget", 10, 5)
	rr = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/products/%d", fresh), "", nil)
	decode(t, rr, &product)
	assert.Zero(t, product.AverageRating)
	assert.Zero(t, product.ReviewCount)
	assert.Contains(t, rr.Body.String(), `"averageRating":0`)
}

func TestProductCRUDValidationAndErrors(t *testing.T) {
	h, db := newTestServer(t)
	admin := registerAdmin(t, h, db, "admin@example.com")
	catID := createCategory(t, h, admin, "Electronics")

	// Negative price fails validation.
	rr := doJSON(t, h, http.MethodPost, "/api/products", admin, map[string]any{
		"name":       "Bad Widget",
		"price":      -5,
		"categoryId": catID,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown category on create.
	rr = doJSON(t, h, http.MethodPost, "/api/products", admin, map[string]any{
		"name":       "Orphan Widget",
		"price":      5,
		"categoryId": 9999,
	})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	prodID := createProduct(t, h, admin, catID, "Widget", 10, 5)

	rr = doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/products/%d", prodID), admin, map[string]any{
		"name":       "Widget v2",
		"price":      12.5,
		"stock":      7,
		"categoryId": catID,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var product models.Product
	decode(t, rr, &product)
	assert.Equal(t, "Widget v2", product.Name)
	assert.Equal(t, 7, product.Stock)

	rr = doJSON(t, h, http.MethodGet, "/api/products/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Product not found")

	rr = doJSON(t, h, http.MethodGet, "/api/products/not-a-number", "", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", prodID), admin, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/products/%d", prodID), admin, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

// Submitting the same update twice must succeed both times even when the
// second pass changes no columns. MySQL reports zero affected rows for such
// no-op updates, which must not be read as the record missing.
func TestRepeatedUpdateIsIdempotent(t *testing.T) {
	h, db := newTestServer(t)
	admin := registerAdmin(t, h, db, "admin@example.com")
	catID := createCategory(t, h, admin, "Electronics")
	prodID := createProduct(t, h, admin, catID, "Widget", 10, 5)

	productBody := map[string]any{
		"name":       "Widget v2",
		"price":      12.5,
		"stock":      7,
		"categoryId": catID,
	}
	for i := 0; i < 2; i++ {
		rr := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/products/%d", prodID), admin, productBody)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	categoryBody := map[string]any{"name": "Electronics", "description": "Gadgets"}
	for i := 0; i < 2; i++ {
		rr := doJSON(t, h, http.MethodPut, fmt.Sprintf("/api/categories/%d", catID), admin, categoryBody)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	profileBody := map[string]any{"firstName": "Ada", "lastName": "Lovelace"}
	for i := 0; i < 2; i++ {
		rr := doJSON(t, h, http.MethodPut, "/api/users/profile", admin, profileBody)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}

	// Missing records still come back as 404.
	rr := doJSON(t, h, http.MethodPut, "/api/categories/9999", admin, categoryBody)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCategoryEndpoints(t *testing.T) {
	h, db := newTestServer(t)
	admin := registerAdmin(t, h, db, "admin@example.com")
	catID := createCategory(t, h, admin, "Electronics")
	createProduct(t, h, admin, catID, "Widget", 10, 5)
	createProduct(t, h, admin, catID, "Gadget", 20, 5)
	empty := createCategory(t, h, admin, "Empty Shelf")

	// Listing carries product counts.
	rr := doJSON(t, h, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var categories []models.Category
	decode(t, rr, &categories)
	require.Len(t, categories, 2)
	for _, c := range categories {
		if c.ID == catID {
			assert.Equal(t, int64(2), c.ProductCount)
		}
	}

	// Duplicate name conflicts.
	rr = doJSON(t, h, http.MethodPost, "/api/categories", admin, map[string]any{"name": "Electronics"})
	assert.Equal(t, http.StatusConflict, rr.Code)

	// Show includes products with derived ratings.
	rr = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/categories/%d", catID), "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var category models.Category
	decode(t, rr, &category)
	assert.Len(t, category.Products, 2)

	// A populated category refuses deletion; an empty one goes.
	rr = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/categories/%d", catID), admin, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/api/categories/%d", empty), admin, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	rr := doJSON(t, h, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"OK"`)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	doJSON(t, h, http.MethodGet, "/api/health", "", nil)
	rr := doJSON(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "storefront_http_requests_total")
}
