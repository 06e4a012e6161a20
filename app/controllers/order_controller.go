package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

type OrderController struct {
	orders *repositories.OrderRepository
}

func NewOrderController(orders *repositories.OrderRepository) *OrderController {
	return &OrderController{orders: orders}
}

type updateOrderStatusInput struct {
	Status string `json:"status" validate:"required,in=PENDING,PAID,SHIPPED,DELIVERED,CANCELLED"`
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.ListByUser(r.Context(), middleware.UserIDFromCtx(r.Context()))
	if err != nil {
		fail(w, r, err, "", "")
		return
	}
	response.OK(w, orders)
}

// Show returns one order. A customer can only see their own orders; someone
// else's order answers 404 so order IDs stay unguessable.
func (c *OrderController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Order not found")
	if !ok {
		return
	}

	order, err := c.orders.FindByID(r.Context(), id)
	if err != nil {
		fail(w, r, err, "Order not found", "")
		return
	}

	identity, _ := middleware.IdentityFromCtx(r.Context())
	if order.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		response.NotFound(w, "Order not found")
		return
	}
	response.OK(w, order)
}

// Create checks out the caller's cart.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromCtx(r.Context())
	order, err := c.orders.CreateFromCart(r.Context(), userID)
	if err != nil {
		fail(w, r, err, "Product not found", "")
		return
	}

	logger.WithCtx(r.Context()).Info("order placed",
		"order_id", order.ID, "user_id", userID, "total", order.Total)
	response.Created(w, order)
}

func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, "id", "Order not found")
	if !ok {
		return
	}

	var in updateOrderStatusInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	order, err := c.orders.UpdateStatus(r.Context(), id, in.Status)
	if err != nil {
		fail(w, r, err, "Order not found", "")
		return
	}
	response.OK(w, order)
}
