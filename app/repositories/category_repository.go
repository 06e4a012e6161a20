package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// All returns every category with its product count filled in.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	defer metrics.ObserveQuery("category_list", time.Now())

	categories := []models.Category{}
	err := r.db.WithContext(ctx).Order("name").Find(&categories).Error
	if err != nil {
		return nil, translate(err)
	}

	type countRow struct {
		CategoryID uint
		Count      int64
	}
	rows := []countRow{}
	err = r.db.WithContext(ctx).Model(&models.Product{}).
		Select("category_id, count(*) as count").
		Group("category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	for i := range categories {
		categories[i].ProductCount = counts[categories[i].ID]
	}
	return categories, nil
}

// FindByID loads a category together with its products, rated.
func (r *CategoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	defer metrics.ObserveQuery("category_find", time.Now())

	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Products.Reviews").
		First(&category, id).Error
	if err != nil {
		return nil, translate(err)
	}
	for i := range category.Products {
		category.Products[i].ComputeRating()
		category.Products[i].Reviews = nil
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	defer metrics.ObserveQuery("category_create", time.Now())
	return translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *CategoryRepository) Update(ctx context.Context, category *models.Category) error {
	defer metrics.ObserveQuery("category_update", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Category
		if err := tx.Select("id").First(&existing, category.ID).Error; err != nil {
			return err
		}
		return tx.Model(category).
			Select("name", "description").
			Updates(map[string]any{
				"name":        category.Name,
				"description": category.Description,
			}).Error
	}))
}

// Delete refuses to remove a category that still has products.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	defer metrics.ObserveQuery("category_delete", time.Now())

	return translate(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}
