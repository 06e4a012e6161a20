package models

import "time"

// Roles a user account can hold.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User is an account holder. The password column stores a bcrypt hash and is
// never serialised.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	FirstName string    `gorm:"size:100;not null" json:"firstName"`
	LastName  string    `gorm:"size:100;not null" json:"lastName"`
	Role      string    `gorm:"size:20;not null;default:CUSTOMER" json:"role"`
	Addresses []Address `gorm:"foreignKey:UserID" json:"addresses,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Address is a shipping address owned by a user. At most one address per
// user has IsDefault set; the repository enforces this transactionally.
type Address struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Street    string    `gorm:"size:255;not null" json:"street"`
	City      string    `gorm:"size:100;not null" json:"city"`
	State     string    `gorm:"size:100;not null" json:"state"`
	ZipCode   string    `gorm:"size:20;not null" json:"zipCode"`
	Country   string    `gorm:"size:100;not null" json:"country"`
	IsDefault bool      `gorm:"not null;default:false" json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
