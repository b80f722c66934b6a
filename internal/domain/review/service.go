// internal/domain/review/service.go
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/order"
	"github.com/tduong196/bookstore/internal/domain/user"
	"gorm.io/gorm"
)

// Review errors
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrNotEligible    = errors.New("order is not eligible for review")
	ErrBookNotInOrder = errors.New("book is not part of the order")
)

// Service handles review business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	log    *logrus.Logger
}

// NewService creates a new review service
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		log:    log,
	}
}

// CreateReviewRequest represents a review submission
type CreateReviewRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	BookID  uint   `json:"book_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Content string `json:"content"`
}

// ListRequest represents review listing parameters
type ListRequest struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// ListResponse represents a paginated review list
type ListResponse struct {
	Reviews    []Review `json:"reviews"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}

// CreateReview records a review for a purchased book.
//
// The buyer must own the order, the order must be approved or
// delivered and not yet reviewed, and the book must appear on it.
// The review, the order's reviewed flag, and the book's recomputed
// rating are committed together.
func (s *Service) CreateReview(ctx context.Context, userID uint, req *CreateReviewRequest) (*Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	var o order.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", req.OrderID, userID).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, order.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if !o.CanBeReviewed() {
		return nil, ErrNotEligible
	}

	found := false
	for _, item := range o.Items {
		if item.BookID == req.BookID {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrBookNotInOrder
	}

	var reviewer user.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&reviewer).Error; err != nil {
		return nil, fmt.Errorf("failed to load reviewer: %w", err)
	}

	r := &Review{
		BookID:     req.BookID,
		UserID:     userID,
		OrderID:    req.OrderID,
		UserEmail:  reviewer.Email,
		UserName:   reviewer.FullName(),
		Rating:     req.Rating,
		Content:    req.Content,
		IsApproved: true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(r).Error; err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		if err := tx.Model(&order.Order{}).Where("id = ?", o.ID).Update("reviewed", true).Error; err != nil {
			return fmt.Errorf("failed to mark order reviewed: %w", err)
		}
		return s.recomputeRating(tx, req.BookID)
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// ListBookReviews returns the approved reviews of a book, newest first
func (s *Service) ListBookReviews(ctx context.Context, bookID uint, req *ListRequest) (*ListResponse, error) {
	return s.list(ctx, req, s.db.WithContext(ctx).Model(&Review{}).
		Where("book_id = ? AND is_approved = ?", bookID, true))
}

// ListUserReviews returns the reviews written by a user, newest first
func (s *Service) ListUserReviews(ctx context.Context, userID uint, req *ListRequest) (*ListResponse, error) {
	return s.list(ctx, req, s.db.WithContext(ctx).Model(&Review{}).
		Where("user_id = ?", userID))
}

// ListAllReviews returns all reviews for admins, newest first
func (s *Service) ListAllReviews(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	return s.list(ctx, req, s.db.WithContext(ctx).Model(&Review{}))
}

func (s *Service) list(ctx context.Context, req *ListRequest, query *gorm.DB) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var reviews []Review
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ListResponse{
		Reviews:    reviews,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// SetApproval flips a review's moderation state and recomputes the
// book's rating in the same transaction.
func (s *Service) SetApproval(ctx context.Context, reviewID uint, approved bool) (*Review, error) {
	var r Review
	err := s.db.WithContext(ctx).Where("id = ?", reviewID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&r).Update("is_approved", approved).Error; err != nil {
			return fmt.Errorf("failed to update review approval: %w", err)
		}
		return s.recomputeRating(tx, r.BookID)
	})
	if err != nil {
		return nil, err
	}
	r.IsApproved = approved
	return &r, nil
}

// DeleteReview removes a review and recomputes the book's rating
func (s *Service) DeleteReview(ctx context.Context, reviewID uint) error {
	var r Review
	err := s.db.WithContext(ctx).Where("id = ?", reviewID).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReviewNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load review: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&r).Error; err != nil {
			return fmt.Errorf("failed to delete review: %w", err)
		}
		return s.recomputeRating(tx, r.BookID)
	})
}

// recomputeRating recalculates a book's rating from its approved
// reviews. With no approved reviews left, the stored rating is not
// touched.
func (s *Service) recomputeRating(tx *gorm.DB, bookID uint) error {
	var ratings []int
	err := tx.Model(&Review{}).
		Where("book_id = ? AND is_approved = ?", bookID, true).
		Pluck("rating", &ratings).Error
	if err != nil {
		return fmt.Errorf("failed to load ratings: %w", err)
	}

	mean, ok := MeanRating(ratings)
	if !ok {
		return nil
	}

	// Addressed by table name to keep this package independent of the
	// catalog package, which depends on reviews for removal.
	err = tx.Table("books").Where("id = ?", bookID).Updates(map[string]interface{}{
		"rating":       mean,
		"rating_count": len(ratings),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to update book rating: %w", err)
	}
	return nil
}
