// internal/domain/review/entity.go
package review

import (
	"time"

	"gorm.io/gorm"
)

// Review represents a buyer's review of a book, tied to the order
// that made them eligible to review it.
type Review struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	BookID  uint `gorm:"not null;index" json:"book_id"`
	UserID  uint `gorm:"not null;index" json:"user_id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`

	// Reviewer identity captured at submission so listings render
	// without extra user lookups
	UserEmail string `gorm:"not null;size:255" json:"user_email"`
	UserName  string `gorm:"size:200" json:"user_name"`

	Rating     int            `gorm:"not null" json:"rating"` // 1..5
	Content    string         `gorm:"type:text" json:"content"`
	IsApproved bool           `gorm:"default:true" json:"is_approved"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Review) TableName() string { return "reviews" }

// MeanRating returns the arithmetic mean of the given ratings.
// Returns 0 and false when there are no ratings, so callers can tell
// "no reviews" apart from a genuine zero.
func MeanRating(ratings []int) (float64, bool) {
	if len(ratings) == 0 {
		return 0, false
	}
	var sum int
	for _, r := range ratings {
		sum += r
	}
	return float64(sum) / float64(len(ratings)), true
}
