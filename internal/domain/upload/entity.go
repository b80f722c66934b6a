// internal/domain/upload/entity.go
package upload

import (
	"time"

	"gorm.io/gorm"
)

// UploadedFile records a stored cover image and where it lives
type UploadedFile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FileName    string         `gorm:"not null;size:255" json:"file_name"`
	StoredName  string         `gorm:"not null;size:255" json:"stored_name"`
	URL         string         `gorm:"not null;size:512" json:"url"`
	Provider    string         `gorm:"not null;size:20" json:"provider"` // cloudinary, minio or local
	Size        int64          `gorm:"not null" json:"size"`
	ContentType string         `gorm:"size:100" json:"content_type"`
	UploadedBy  uint           `gorm:"index" json:"uploaded_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (UploadedFile) TableName() string { return "uploaded_files" }
