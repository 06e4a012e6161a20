package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type CreateOrdersTables struct{}

func init() {
	migration.Register("20260101000005_create_orders_tables", &CreateOrdersTables{})
}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
}
