// Package migrations holds the schema history. Files register themselves
// with the migration runner from init() and run in lexical order.
package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

type CreateUsersTable struct{}

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}
