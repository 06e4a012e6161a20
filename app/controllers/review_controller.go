package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type ReviewController struct {
	reviews *repositories.ReviewRepository
}

func NewReviewController(reviews *repositories.ReviewRepository) *ReviewController {
	return &ReviewController{reviews: reviews}
}

type reviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"nullable,max=5000"`
}

type createReviewInput struct {
	ProductID uint   `json:"productId" validate:"required,gt=0"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"nullable,max=5000"`
}

// productIDParam reads the product id from whichever mount the handler is
// serving: {productId} under /reviews, {id} under /products.
func productIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	name := "productId"
	if chi.URLParam(r, name) == "" {
		name = "id"
	}
	return urlID(w, r, name, "Product not found")
}

func (c *ReviewController) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	reviews, err := c.reviews.ListByProduct(r.Context(), productID)
	if err != nil {
		fail(w, r, err, "", "")
		return
	}
	response.OK(w, reviews)
}

// Create adds a review to the product named in the body. One review per
// user per product; a second attempt answers 409.
func (c *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
	var in createReviewInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c.create(w, r, in.ProductID, in.Rating, in.Comment)
}

// CreateForProduct is Create with the product taken from the URL instead of
// the body.
func (c *ReviewController) CreateForProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := urlID(w, r, "id", "Product not found")
	if !ok {
		return
	}

	var in reviewInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	c.create(w, r, productID, in.Rating, in.Comment)
}

func (c *ReviewController) create(w http.ResponseWriter, r *http.Request, productID uint, rating int, comment string) {
	review := &models.Review{
		ProductID: productID,
		UserID:    middleware.UserIDFromCtx(r.Context()),
		Rating:    rating,
		Comment:   comment,
	}
	if err := c.reviews.Create(r.Context(), review); err != nil {
		fail(w, r, err, "Product not found", "You have already reviewed this product")
		return
	}
	response.Created(w, review)
}

// Update edits a review. The author may edit their own; an admin may edit
// any.
func (c *ReviewController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Review not found")
	if !ok {
		return
	}

	var in reviewInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	review, ok := c.authorize(w, r, id)
	if !ok {
		return
	}

	review.Rating = in.Rating
	review.Comment = in.Comment
	if err := c.reviews.Update(r.Context(), review); err != nil {
		fail(w, r, err, "Review not found", "")
		return
	}
	response.OK(w, review)
}

func (c *ReviewController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Review not found")
	if !ok {
		return
	}

	if _, ok := c.authorize(w, r, id); !ok {
		return
	}

	if err := c.reviews.Delete(r.Context(), id); err != nil {
		fail(w, r, err, "Review not found", "")
		return
	}
	response.NoContent(w)
}

// authorize loads the review and checks the caller may modify it. Writes the
// error response itself when not.
func (c *ReviewController) authorize(w http.ResponseWriter, r *http.Request, id uint) (*models.Review, bool) {
	review, err := c.reviews.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Review not found", "")
		return nil, false
	}

	identity, _ := middleware.IdentityFromCtx(r.Context())
	if review.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		response.Forbidden(w, "Access denied.")
		return nil, false
	}
	return review, true
}
