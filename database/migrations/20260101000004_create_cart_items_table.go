package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type CreateCartItemsTable struct{}

func init() {
	migration.Register("20260101000004_create_cart_items_table", &CreateCartItemsTable{})
}

func (m *CreateCartItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.CartItem{})
}

func (m *CreateCartItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.CartItem{})
}
