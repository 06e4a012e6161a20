package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// ErrInsufficientStock signals a quantity larger than the product's stock.
var ErrInsufficientStock = errors.New("insufficient stock")

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) Items(ctx context.Context, userID uint) ([]models.CartItem, error) {
	defer metrics.ObserveQuery("cart_list", time.Now())

	items := []models.CartItem{}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Product").
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// Add puts a product in the cart. If the product is already there the
// quantities are merged. The combined quantity must fit in stock.
func (r *CartRepository) Add(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	defer metrics.ObserveQuery("cart_add", time.Now())

	var item models.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&item).Error
		switch {
		case err == nil:
			item.Quantity += quantity
			if item.Quantity > product.Stock {
				return ErrInsufficientStock
			}
			if err := tx.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if quantity > product.Stock {
				return ErrInsufficientStock
			}
			item = models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return tx.Preload("Product").First(&item, item.ID).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// UpdateQuantity replaces the quantity of one cart line. The line must
// belong to the user.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, itemID uint, quantity int) (*models.CartItem, error) {
	defer metrics.ObserveQuery("cart_update", time.Now())

	var item models.CartItem
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Preload("Product").
			Where("user_id = ?", userID).
			First(&item, itemID).Error
		if err != nil {
			return err
		}
		if item.Product != nil && quantity > item.Product.Stock {
			return ErrInsufficientStock
		}
		if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *CartRepository) Remove(ctx context.Context, userID, itemID uint) error {
	defer metrics.ObserveQuery("cart_remove", time.Now())

	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}, itemID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID uint) error {
	defer metrics.ObserveQuery("cart_clear", time.Now())

	return translate(r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error)
}
