package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// ErrEmptyCart signals checkout with nothing in the cart.
var ErrEmptyCart = errors.New("cart is empty")

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	defer metrics.ObserveQuery("order_list", time.Now())

	orders := []models.Order{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items.Product").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, translate(err)
	}
	return orders, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	defer metrics.ObserveQuery("order_find", time.Now())

	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items.Product").
		First(&order, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// CreateFromCart turns the user's cart into an order inside one transaction:
// stock is re-checked and decremented per line, unit prices are snapshotted,
// and the cart is emptied. Any failure rolls the whole checkout back.
func (r *OrderRepository) CreateFromCart(ctx context.Context, userID uint) (*models.Order, error) {
	defer metrics.ObserveQuery("order_create", time.Now())

	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := []models.CartItem{}
		err := tx.Where("user_id = ?", userID).Preload("Product").Find(&items).Error
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		order = models.Order{UserID: userID, Status: models.OrderPending}
		for _, item := range items {
			if item.Product == nil {
				return gorm.ErrRecordNotFound
			}
			if item.Quantity > item.Product.Stock {
				return ErrInsufficientStock
			}
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
			order.Items = append(order.Items, models.OrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			})
			order.Total += item.Product.Price * float64(item.Quantity)
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Preload("Items.Product").First(&order, order.ID).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

// UpdateStatus moves an order to a new lifecycle state.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint, status string) (*models.Order, error) {
	defer metrics.ObserveQuery("order_update", time.Now())

	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&order).Update("status", status).Error; err != nil {
			return err
		}
		return tx.Preload("Items.Product").First(&order, id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}
