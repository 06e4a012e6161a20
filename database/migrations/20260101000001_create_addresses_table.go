package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type CreateAddressesTable struct{}

func init() {
	migration.Register("20260101000001_create_addresses_table", &CreateAddressesTable{})
}

func (m *CreateAddressesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Address{})
}

func (m *CreateAddressesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Address{})
}
