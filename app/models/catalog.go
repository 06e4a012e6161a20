package models

import "time"

// Category groups products.
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Products    []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// ProductCount is filled on category listings, not stored.
	ProductCount int64 `gorm:"-" json:"productCount,omitempty"`
}

// Product is a catalogue item. AverageRating and ReviewCount are derived
// from the attached reviews at read time and never stored.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null;index" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Price       float64   `gorm:"not null" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	ImageURL    string    `gorm:"size:512" json:"imageUrl,omitempty"`
	CategoryID  uint      `gorm:"not null;index" json:"categoryId"`
	Category    *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Reviews     []Review  `gorm:"foreignKey:ProductID" json:"reviews,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	AverageRating float64 `gorm:"-" json:"averageRating"`
	ReviewCount   int     `gorm:"-" json:"reviewCount"`
}

// ComputeRating fills the derived fields from the loaded review set.
// The mean is kept exact; rounding is a presentation concern.
func (p *Product) ComputeRating() {
	p.ReviewCount = len(p.Reviews)
	if p.ReviewCount == 0 {
		p.AverageRating = 0
		return
	}

	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.AverageRating = float64(sum) / float64(p.ReviewCount)
}
