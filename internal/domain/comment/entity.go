// internal/domain/comment/entity.go
package comment

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a public discussion comment under a book.
// Unlike reviews, comments carry no rating and require no purchase.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookID    uint           `gorm:"not null;index" json:"book_id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	UserEmail string         `gorm:"not null;size:255" json:"user_email"`
	Content   string         `gorm:"not null;type:text" json:"content"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Comment) TableName() string { return "comments" }
