// Package seeders fills an empty database with an admin account and a small
// sample catalogue. Seeding is idempotent: rows that already exist are left
// alone.
package seeders

import (
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Run executes all seeders.
func Run(db *gorm.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	return seedCatalog(db)
}

func seedAdmin(db *gorm.DB) error {
	var existing models.User
	err := db.Where("email = ?", "admin@storefront.local").First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword("admin123")
	if err != nil {
		return err
	}
	admin := models.User{
		Email:     "admin@storefront.local",
		Password:  hash,
		FirstName: "Store",
		LastName:  "Admin",
		Role:      models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	logger.Info("seeded admin user", "email", admin.Email)
	return nil
}

func seedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Electronics", Description: "Phones, laptops and accessories"},
		{Name: "Books", Description: "Fiction and non-fiction"},
		{Name: "Home & Kitchen", Description: "Appliances and cookware"},
	}
	if err := db.Create(&categories).Error; err != nil {
		return err
	}

	products := []models.Product{
		{Name: "Wireless Headphones", Description: "Over-ear, noise cancelling", Price: 199.99, Stock: 50, CategoryID: categories[0].ID},
		{Name: "USB-C Charger 65W", Description: "GaN fast charger", Price: 39.99, Stock: 200, CategoryID: categories[0].ID},
		{Name: "The Go Programming Language", Description: "Donovan & Kernighan", Price: 44.95, Stock: 30, CategoryID: categories[1].ID},
		{Name: "Cast Iron Skillet", Description: "12 inch, pre-seasoned", Price: 29.99, Stock: 80, CategoryID: categories[2].ID},
	}
	if err := db.Create(&products).Error; err != nil {
		return err
	}

	logger.Info("seeded catalogue",
		"categories", len(categories), "products", len(products))
	return nil
}
