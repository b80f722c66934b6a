// internal/domain/comment/service.go
package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tduong196/bookstore/internal/config"
	"gorm.io/gorm"
)

// Comment errors
var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrEmptyContent    = errors.New("comment content cannot be empty")
	ErrNotCommentOwner = errors.New("comment does not belong to user")
)

const maxCommentLength = 2000

// Service handles comment business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new comment service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, config: cfg}
}

// CreateCommentRequest represents a comment submission
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

// ListRequest represents comment listing parameters
type ListRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// ListResponse represents a paginated comment list
type ListResponse struct {
	Comments   []Comment `json:"comments"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// CreateComment posts a comment under a book. The book must exist
// and be active.
func (s *Service) CreateComment(ctx context.Context, bookID, userID uint, userEmail string, req *CreateCommentRequest) (*Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > maxCommentLength {
		return nil, fmt.Errorf("comment exceeds %d characters", maxCommentLength)
	}

	var count int64
	if err := s.db.WithContext(ctx).Table("books").
		Where("id = ? AND is_active = ? AND deleted_at IS NULL", bookID, true).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check book: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("book not found or inactive")
	}

	c := &Comment{
		BookID:    bookID,
		UserID:    userID,
		UserEmail: userEmail,
		Content:   content,
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return c, nil
}

// ListBookComments returns the comments under a book, newest first
func (s *Service) ListBookComments(ctx context.Context, bookID uint, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Comment{}).Where("book_id = ?", bookID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count comments: %w", err)
	}

	var comments []Comment
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ListResponse{
		Comments:   comments,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// DeleteComment removes a comment. Non-admin callers may only delete
// their own comments.
func (s *Service) DeleteComment(ctx context.Context, commentID, userID uint, isAdmin bool) error {
	var c Comment
	err := s.db.WithContext(ctx).Where("id = ?", commentID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCommentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load comment: %w", err)
	}

	if !isAdmin && c.UserID != userID {
		return ErrNotCommentOwner
	}

	if err := s.db.WithContext(ctx).Delete(&c).Error; err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}
