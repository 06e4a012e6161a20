package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Search     string
	CategoryID uint
	Offset     int
	Limit      int
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns one page of products plus the total row count for the same
// filter. Derived rating fields are filled, the raw review rows are not
// serialised on listings.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	defer metrics.ObserveQuery("product_list", time.Now())

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	products := []models.Product{}
	err := query.
		Preload("Category").
		Preload("Reviews").
		Order("id").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, translate(err)
	}

	for i := range products {
		products[i].ComputeRating()
		products[i].Reviews = nil
	}
	return products, total, nil
}

// FindByID loads one product with its category and reviews, reviewer
// attached to each review.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	defer metrics.ObserveQuery("product_find", time.Now())

	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Reviews.User").
		First(&product, id).Error
	if err != nil {
		return nil, translate(err)
	}
	product.ComputeRating()
	return &product, nil
}

// Create inserts a product after checking the category exists.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveQuery("product_create", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, product.CategoryID).Error; err != nil {
			return err
		}
		return tx.Create(product).Error
	}))
}

func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	defer metrics.ObserveQuery("product_update", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.Select("id").First(&existing, product.ID).Error; err != nil {
			return err
		}
		var category models.Category
		if err := tx.First(&category, product.CategoryID).Error; err != nil {
			return err
		}
		return tx.Model(product).
			Select("name", "description", "price", "stock", "category_id").
			Updates(map[string]any{
				"name":        product.Name,
				"description": product.Description,
				"price":       product.Price,
				"stock":       product.Stock,
				"category_id": product.CategoryID,
			}).Error
	}))
}

// SetImageURL stores the public URL of an uploaded product image.
func (r *ProductRepository) SetImageURL(ctx context.Context, id uint, url string) error {
	defer metrics.ObserveQuery("product_update", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.Select("id").First(&existing, id).Error; err != nil {
			return err
		}
		return tx.Model(&existing).Update("image_url", url).Error
	}))
}

// Delete removes a product and everything hanging off it.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveQuery("product_delete", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}
