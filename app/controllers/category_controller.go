package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type CategoryController struct {
	categories *repositories.CategoryRepository
}

func NewCategoryController(categories *repositories.CategoryRepository) *CategoryController {
	return &CategoryController{categories: categories}
}

type categoryInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"nullable,max=5000"`
}

func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.categories.All(r.Context())
	if err != nil {
		fail(w, r, err, "", "")
		return
	}
	response.OK(w, categories)
}

func (c *CategoryController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Category not found")
	if !ok {
		return
	}

	category, err := c.categories.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Category not found", "")
		return
	}
	response.OK(w, category)
}

func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category := &models.Category{Name: in.Name, Description: in.Description}
	if err := c.categories.Create(r.Context(), category); err != nil {
		fail(w, r, err, "", "Category already exists")
		return
	}
	response.Created(w, category)
}

func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Category not found")
	if !ok {
		return
	}

	var in categoryInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	category := &models.Category{ID: id, Name: in.Name, Description: in.Description}
	if err := c.categories.Update(r.Context(), category); err != nil {
		fail(w, r, err, "Category not found", "Category already exists")
		return
	}

	fresh, err := c.categories.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Category not found", "")
		return
	}
	response.OK(w, fresh)
}

// Delete removes an empty category. A category that still has products
// answers 409.
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Category not found")
	if !ok {
		return
	}

	if err := c.categories.Delete(r.Context(), id); err != nil {
		fail(w, r, err, "Category not found", "Category still has products")
		return
	}
	response.NoContent(w)
}
