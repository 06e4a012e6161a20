package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type CreateReviewsTable struct{}

func init() {
	migration.Register("20260101000003_create_reviews_table", &CreateReviewsTable{})
}

func (m *CreateReviewsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Review{})
}

func (m *CreateReviewsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Review{})
}
