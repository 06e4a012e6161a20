package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type CartController struct {
	cart *repositories.CartRepository
}

func NewCartController(cart *repositories.CartRepository) *CartController {
	return &CartController{cart: cart}
}

type addToCartInput struct {
	ProductID uint `json:"productId" validate:"required,gt=0"`
	Quantity  int  `json:"quantity" validate:"required,gte=1"`
}

type updateCartInput struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

type cartPayload struct {
	Items []models.CartItem `json:"items"`
	Total float64           `json:"total"`
}

// Show returns the caller's cart lines plus a running total priced at the
// products' current prices.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	items, err := c.cart.Items(r.Context(), middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		fail(w, r, err, "", "")
		return
	}

	total := 0.0
	for _, item := range items {
		if item.Product != nil {
			total += item.Product.Price * float64(item.Quantity)
		}
	}
	response.OK(w, cartPayload{Items: items, Total: total})
}

func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var in addToCartInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.cart.Add(r.Context(), middleware.UserIDFromCtx(r.Context()), in.ProductID, in.Quantity)
	if err != nil {
		fail(w, r, err, "Product not found", "")
		return
	}
	response.Created(w, item)
}

func (c *CartController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "itemId", "Cart item not found")
	if !ok {
		return
	}

	var in updateCartInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	item, err := c.cart.UpdateQuantity(r.Context(), middleware.UserIDFromCtx(r.Context()), id, in.Quantity)
	if err != nil {
		fail(w, r, err, "Cart item not found", "")
		return
	}
	response.OK(w, item)
}

func (c *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "itemId", "Cart item not found")
	if !ok {
		return
	}

	if err := c.cart.Remove(r.Context(), middleware.UserIDFromCtx(r.Context()), id); err != nil {
		fail(w, r, err, "Cart item not found", "")
		return
	}
	response.NoContent(w)
}

func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.cart.Clear(r.Context(), middleware.UserIDFromCtx(r.Context())); err != nil {
		fail(w, r, err, "", "")
		return
	}
	response.NoContent(w)
}
