package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type CreateCatalogTables struct{}

func init() {
	migration.Register("20260101000002_create_catalog_tables", &CreateCatalogTables{})
}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{}, &models.Category{})
}
