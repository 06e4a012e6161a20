package models

import "time"

// Review is a rating left by a user on a product. A user may review a
// product once; the unique index backs the conflict check.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProductID uint      `gorm:"not null;index;uniqueIndex:idx_review_product_user" json:"productId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_product_user" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
