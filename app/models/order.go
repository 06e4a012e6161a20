package models

import "time"

// Order lifecycle states.
const (
	OrderPending   = "PENDING"
	OrderPaid      = "PAID"
	OrderShipped   = "SHIPPED"
	OrderDelivered = "DELIVERED"
	OrderCancelled = "CANCELLED"
)

// Order is a placed order. Total and the per-item prices are snapshots taken
// at checkout; later product price changes do not affect past orders.
type Order struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	UserID    uint        `gorm:"not null;index" json:"userId"`
	Status    string      `gorm:"size:20;not null;default:PENDING" json:"status"`
	Total     float64     `gorm:"not null" json:"total"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	OrderID   uint     `gorm:"not null;index" json:"orderId"`
	ProductID uint     `gorm:"not null" json:"productId"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int      `gorm:"not null" json:"quantity"`
	Price     float64  `gorm:"not null" json:"price"` // unit price at purchase time
}

// CartItem is one product in a user's cart. (UserID, ProductID) is unique;
// adding the same product again raises the quantity instead.
type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
