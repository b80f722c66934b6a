// internal/domain/book/entity.go
package book

import (
	"time"

	"gorm.io/gorm"
)

// Book represents a book in the catalog
type Book struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null;size:255;index" json:"title"`
	Author      string `gorm:"size:255;index" json:"author"`
	Description string `gorm:"type:text" json:"description"`
	Category    string `gorm:"size:100;index" json:"category"`

	// Price per unit in cents
	PriceCents int64 `gorm:"not null" json:"price_cents"`

	// Rating is derived from approved reviews; never written directly
	// by catalog updates.
	Rating      float64 `gorm:"default:0" json:"rating"`
	RatingCount int     `gorm:"default:0" json:"rating_count"`

	StockQuantity int    `gorm:"not null;default:0" json:"stock_quantity"`
	CoverURL      string `gorm:"size:512" json:"cover_url"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Book) TableName() string { return "books" }

// IsPurchasable reports whether the requested quantity can be ordered
func (b *Book) IsPurchasable(quantity int) bool {
	return quantity > 0 && b.IsActive && b.PriceCents > 0 && b.StockQuantity >= quantity
}

// GetFormattedPrice returns the price in major currency units
func (b *Book) GetFormattedPrice() float64 {
	return float64(b.PriceCents) / 100
}
