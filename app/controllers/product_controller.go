package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/pagination"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

// maxImageBytes caps product image uploads.
const maxImageBytes = 5 << 20 // 5 MB

type ProductController struct {
	products *repositories.ProductRepository
	storage  *storage.Manager
}

func NewProductController(products *repositories.ProductRepository, store *storage.Manager) *ProductController {
	return &ProductController{products: products, storage: store}
}

type productInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Description string  `json:"description" validate:"nullable,max=5000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	CategoryID  uint    `json:"categoryId" validate:"required,gt=0"`
}

type productPage struct {
	Products   []models.Product      `json:"products"`
	Pagination pagination.Pagination `json:"pagination"`
}

// List returns one page of the catalogue. Supports ?page, ?limit, ?search
// (case-insensitive name substring) and ?categoryId filters.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("categoryId")
	if raw == "" {
		raw = r.URL.Query().Get("category") // accepted alias
	}

	var categoryID uint
	if raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid category filter")
			return
		}
		categoryID = uint(id)
	}

	c.list(w, r, categoryID)
}

// ListByCategory serves the category-scoped listing, paginated like List.
func (c *ProductController) ListByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := urlID(w, r, "categoryId", "Category not found")
	if !ok {
		return
	}
	c.list(w, r, categoryID)
}

func (c *ProductController) list(w http.ResponseWriter, r *http.Request, categoryID uint) {
	page, limit := pagination.FromRequest(r)

	filter := repositories.ProductFilter{
		Search:     r.URL.Query().Get("search"),
		CategoryID: categoryID,
		Offset:     (page - 1) * limit,
		Limit:      limit,
	}
	products, total, err := c.products.List(r.Context(), filter)
	if err != nil {
		fail(w, r, err, "", "")
		return
	}

	response.OK(w, productPage{
		Products:   products,
		Pagination: pagination.New(page, limit, total),
	})
}

func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Product not found")
	if !ok {
		return
	}

	product, err := c.products.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Product not found", "")
		return
	}
	response.OK(w, product)
}

func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product := &models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}
	if err := c.products.Create(r.Context(), product); err != nil {
		fail(w, r, err, "Category not found", "")
		return
	}
	response.Created(w, product)
}

func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Product not found")
	if !ok {
		return
	}

	var in productInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product := &models.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
	}
	if err := c.products.Update(r.Context(), product); err != nil {
		fail(w, r, err, "Product not found", "")
		return
	}

	fresh, err := c.products.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Product not found", "")
		return
	}
	response.OK(w, fresh)
}

func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Product not found")
	if !ok {
		return
	}

	if err := c.products.Delete(r.Context(), id); err != nil {
		fail(w, r, err, "Product not found", "")
		return
	}
	response.NoContent(w)
}

// UploadImage stores a product image on the configured disk and records its
// public URL. Expects multipart/form-data with an "image" part.
func (c *ProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Product not found")
	if !ok {
		return
	}

	if _, err := c.products.FindByID(r.Context(), id); err != nil {
		fail(w, r, err, "Product not found", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		response.Error(w, http.StatusBadRequest, "Unsupported image type")
		return
	}

	path := fmt.Sprintf("products/%d%s", id, ext)
	disk := c.storage.Default()
	if err := disk.PutStream(path, file); err != nil {
		fail(w, r, err, "", "")
		return
	}

	url := disk.URL(path)
	if err := c.products.SetImageURL(r.Context(), id, url); err != nil {
		fail(w, r, err, "Product not found", "")
		return
	}

	response.OK(w, map[string]string{"imageUrl": url})
}
