// internal/domain/book/service.go
package book

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/comment"
	"github.com/tduong196/bookstore/internal/domain/order"
	"github.com/tduong196/bookstore/internal/domain/review"
	"gorm.io/gorm"
)

// ErrBookNotFound is returned when a book does not exist
var ErrBookNotFound = errors.New("book not found")

// RemovalNotifier is told about committed catalog removals so buyers
// with affected orders can be informed. Delivery failures are logged,
// never surfaced to the admin who removed the book.
type RemovalNotifier interface {
	NotifyBookRemoved(ctx context.Context, title string, recipients []string) error
}

// Service handles catalog business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	notifier RemovalNotifier
	log      *logrus.Logger
}

// NewService creates a new book service. notifier may be nil.
func NewService(db *gorm.DB, cfg *config.Config, notifier RemovalNotifier, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		notifier: notifier,
		log:      log,
	}
}

// ListRequest represents catalog listing parameters
type ListRequest struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	Category string `form:"category"`
	SortBy   string `form:"sort_by"` // created_at, price, rating, title
	SortDesc bool   `form:"sort_desc"`
	// IncludeInactive is only honored for admin callers
	IncludeInactive bool `form:"-"`
}

// ListResponse represents a paginated catalog page
type ListResponse struct {
	Books      []Book `json:"books"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// CreateBookRequest represents an admin create request
type CreateBookRequest struct {
	Title         string `json:"title" binding:"required"`
	Author        string `json:"author" binding:"required"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	PriceCents    int64  `json:"price_cents" binding:"required,min=1"`
	StockQuantity int    `json:"stock_quantity" binding:"min=0"`
	CoverURL      string `json:"cover_url"`
}

// UpdateBookRequest represents an admin update request. Pointer
// fields distinguish "not sent" from zero values.
type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	Description   *string `json:"description"`
	Category      *string `json:"category"`
	PriceCents    *int64  `json:"price_cents"`
	StockQuantity *int    `json:"stock_quantity"`
	CoverURL      *string `json:"cover_url"`
	IsActive      *bool   `json:"is_active"`
}

// ListBooks returns a page of the catalog
func (s *Service) ListBooks(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.WithContext(ctx).Model(&Book{})
	if !req.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if search := strings.TrimSpace(req.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title ILIKE ? OR author ILIKE ?", pattern, pattern)
	}
	if req.Category != "" {
		query = query.Where("category = ?", req.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	orderClause := buildOrderClause(req.SortBy, req.SortDesc)

	var books []Book
	offset := (req.Page - 1) * req.Limit
	if err := query.Order(orderClause).Offset(offset).Limit(req.Limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ListResponse{
		Books:      books,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

func buildOrderClause(sortBy string, desc bool) string {
	column := "created_at"
	switch sortBy {
	case "price":
		column = "price_cents"
	case "rating":
		column = "rating"
	case "title":
		column = "title"
	case "created_at", "":
	default:
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

// GetBook returns a single book by ID
func (s *Service) GetBook(ctx context.Context, id uint) (*Book, error) {
	var b Book
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &b, nil
}

// CreateBook adds a book to the catalog
func (s *Service) CreateBook(ctx context.Context, req *CreateBookRequest) (*Book, error) {
	b := &Book{
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Description:   req.Description,
		Category:      req.Category,
		PriceCents:    req.PriceCents,
		StockQuantity: req.StockQuantity,
		CoverURL:      req.CoverURL,
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return b, nil
}

// UpdateBook applies a partial update to a book. The derived rating
// fields cannot be set through this path.
func (s *Service) UpdateBook(ctx context.Context, id uint, req *UpdateBookRequest) (*Book, error) {
	b, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Author != nil {
		updates["author"] = strings.TrimSpace(*req.Author)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.PriceCents != nil {
		if *req.PriceCents <= 0 {
			return nil, fmt.Errorf("price must be positive")
		}
		updates["price_cents"] = *req.PriceCents
	}
	if req.StockQuantity != nil {
		if *req.StockQuantity < 0 {
			return nil, fmt.Errorf("stock quantity cannot be negative")
		}
		updates["stock_quantity"] = *req.StockQuantity
	}
	if req.CoverURL != nil {
		updates["cover_url"] = *req.CoverURL
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) == 0 {
		return b, nil
	}

	if err := s.db.WithContext(ctx).Model(b).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return b, nil
}

// AffectedOrderIDs returns the distinct order IDs among the given
// items, in first-seen order.
func AffectedOrderIDs(items []order.OrderItem) []uint {
	seen := make(map[uint]bool)
	var ids []uint
	for _, item := range items {
		if !seen[item.OrderID] {
			seen[item.OrderID] = true
			ids = append(ids, item.OrderID)
		}
	}
	return ids
}

// DeleteBook removes a book and everything that references it in one
// transaction: its reviews and comments, its order lines, and any
// order left with no lines. Orders that still hold other books keep
// their remaining lines.
//
// Order lines are found through the book_id index on order_items, so
// removal cost scales with references to this book, not catalog-wide
// order volume.
func (s *Service) DeleteBook(ctx context.Context, id uint) error {
	b, err := s.GetBook(ctx, id)
	if err != nil {
		return err
	}

	recipients, err := s.affectedBuyerEmails(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&review.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}

		if err := tx.Where("book_id = ?", id).Delete(&comment.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}

		var items []order.OrderItem
		if err := tx.Where("book_id = ?", id).Find(&items).Error; err != nil {
			return fmt.Errorf("failed to find order items: %w", err)
		}

		if len(items) > 0 {
			if err := tx.Where("book_id = ?", id).Delete(&order.OrderItem{}).Error; err != nil {
				return fmt.Errorf("failed to delete order items: %w", err)
			}

			// Orders stripped of their last line are removed entirely.
			affected := AffectedOrderIDs(items)
			if err := tx.
				Where("id IN ? AND NOT EXISTS (SELECT 1 FROM order_items WHERE order_items.order_id = orders.id)", affected).
				Delete(&order.Order{}).Error; err != nil {
				return fmt.Errorf("failed to delete emptied orders: %w", err)
			}

			if err := tx.Exec(`UPDATE orders SET total_cents = (
					SELECT COALESCE(SUM(total_cents), 0)
					FROM order_items WHERE order_items.order_id = orders.id
				) WHERE id IN ? AND deleted_at IS NULL`, affected).Error; err != nil {
				return fmt.Errorf("failed to update order totals: %w", err)
			}
		}

		if err := tx.Delete(b).Error; err != nil {
			return fmt.Errorf("failed to delete book: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"book_id": id,
		"title":   b.Title,
	}).Info("book removed from catalog with dependent records")

	// Buyer notification is best effort
	if s.notifier != nil && len(recipients) > 0 {
		if err := s.notifier.NotifyBookRemoved(ctx, b.Title, recipients); err != nil {
			s.log.WithFields(logrus.Fields{
				"book_id": id,
				"error":   err.Error(),
			}).Warn("failed to send book removal notice")
		}
	}
	return nil
}

// affectedBuyerEmails collects the distinct addresses of buyers whose
// live orders contain the book.
func (s *Service) affectedBuyerEmails(ctx context.Context, bookID uint) ([]string, error) {
	var emails []string
	err := s.db.WithContext(ctx).
		Table("order_items").
		Distinct("users.email").
		Joins("JOIN orders ON orders.id = order_items.order_id AND orders.deleted_at IS NULL").
		Joins("JOIN users ON users.id = orders.user_id AND users.deleted_at IS NULL").
		Where("order_items.book_id = ?", bookID).
		Pluck("users.email", &emails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to collect affected buyers: %w", err)
	}
	return emails, nil
}
