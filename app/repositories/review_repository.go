package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) ListByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	defer metrics.ObserveQuery("review_list", time.Now())

	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Preload("User").
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, translate(err)
	}
	return reviews, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	defer metrics.ObserveQuery("review_find", time.Now())

	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

// Create inserts a review after checking the product exists. The unique
// (product, user) index turns a second review into ErrConflict.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	defer metrics.ObserveQuery("review_create", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, review.ProductID).Error; err != nil {
			return err
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(review, review.ID).Error
	}))
}

func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	defer metrics.ObserveQuery("review_update", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		if err := tx.Select("id").First(&existing, review.ID).Error; err != nil {
			return err
		}
		return tx.Model(review).
			Select("rating", "comment").
			Updates(map[string]any{
				"rating":  review.Rating,
				"comment": review.Comment,
			}).Error
	}))
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveQuery("review_delete", time.Now())

	res := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
