// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/book"
	"github.com/tduong196/bookstore/internal/domain/cart"
	"github.com/tduong196/bookstore/internal/domain/order"
	"gorm.io/gorm"
)

// Checkout validation errors
var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrBookUnavailable   = errors.New("book not found or inactive")
	ErrInvalidPrice      = errors.New("book has no valid price")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrMissingPhone         = errors.New("phone is required")
	ErrMissingAddress       = errors.New("address is required")
	ErrMissingPaymentMethod = errors.New("payment method is required")
)

// Service handles checkout business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
	cartService *cart.Service
	log         *logrus.Logger
}

// NewService creates a new checkout service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
		cartService: cart.NewService(db, redisClient, cfg),
		log:         log,
	}
}

// PlaceOrderRequest represents a checkout request
type PlaceOrderRequest struct {
	Phone          string `json:"phone" binding:"required"`
	Address        string `json:"address" binding:"required"`
	PaymentMethod  string `json:"payment_method" binding:"required"`
	IdempotencyKey string `json:"idempotency_key"`
}

// ResolvedLine is a cart line after re-resolution against the
// current catalog. Cart snapshots are never trusted for pricing.
type ResolvedLine struct {
	BookID         uint
	Title          string
	UnitPriceCents int64
	Quantity       int
	TotalCents     int64
}

// ValidateDelivery checks the delivery details of a checkout request
func ValidateDelivery(phone, address, paymentMethod string) error {
	if strings.TrimSpace(phone) == "" {
		return ErrMissingPhone
	}
	if strings.TrimSpace(address) == "" {
		return ErrMissingAddress
	}
	if strings.TrimSpace(paymentMethod) == "" {
		return ErrMissingPaymentMethod
	}
	return nil
}

// ResolveLines re-resolves cart items against the current catalog.
// Every line must map to an active book with a positive price and
// enough stock; any failure rejects the whole checkout.
func ResolveLines(items []cart.CartItem, books map[uint]book.Book) ([]ResolvedLine, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]ResolvedLine, 0, len(items))
	for _, item := range items {
		b, ok := books[item.BookID]
		if !ok || !b.IsActive {
			return nil, fmt.Errorf("%w: book %d", ErrBookUnavailable, item.BookID)
		}
		if b.PriceCents <= 0 {
			return nil, fmt.Errorf("%w: book %d", ErrInvalidPrice, item.BookID)
		}
		if b.StockQuantity < item.Quantity {
			return nil, fmt.Errorf("%w: book %d, available %d", ErrInsufficientStock, item.BookID, b.StockQuantity)
		}
		lines = append(lines, ResolvedLine{
			BookID:         b.ID,
			Title:          b.Title,
			UnitPriceCents: b.PriceCents,
			Quantity:       item.Quantity,
			TotalCents:     b.PriceCents * int64(item.Quantity),
		})
	}
	return lines, nil
}

// TotalCents sums resolved lines
func TotalCents(lines []ResolvedLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.TotalCents
	}
	return total
}

// PlaceOrder turns the caller's cart into a PENDING order.
//
// The order, its items, and the stock decrements are committed in one
// transaction. When an idempotency key is supplied and an order with
// that key already exists for the user, that order is returned and
// nothing is written.
func (s *Service) PlaceOrder(ctx context.Context, userID uint, sessionID string, req *PlaceOrderRequest) (*order.Order, error) {
	if err := ValidateDelivery(req.Phone, req.Address, req.PaymentMethod); err != nil {
		return nil, err
	}

	// Idempotent replay check before touching the cart
	if req.IdempotencyKey != "" {
		var existing order.Order
		err := s.db.WithContext(ctx).
			Preload("Items").
			Where("user_id = ? AND idempotency_key = ?", userID, req.IdempotencyKey).
			First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
	}

	cartResponse, err := s.cartService.GetCart(ctx, &userID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cartResponse.Items) == 0 {
		return nil, ErrEmptyCart
	}

	bookIDs := make([]uint, 0, len(cartResponse.Items))
	for _, item := range cartResponse.Items {
		bookIDs = append(bookIDs, item.BookID)
	}

	var books []book.Book
	if err := s.db.WithContext(ctx).Where("id IN ?", bookIDs).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	bookMap := make(map[uint]book.Book, len(books))
	for _, b := range books {
		bookMap[b.ID] = b
	}

	lines, err := ResolveLines(cartResponse.Items, bookMap)
	if err != nil {
		return nil, err
	}

	newOrder := &order.Order{
		UserID:        userID,
		Status:        order.OrderStatusPending,
		TotalCents:    TotalCents(lines),
		Phone:         strings.TrimSpace(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		newOrder.IdempotencyKey = &key
	}
	for _, line := range lines {
		newOrder.Items = append(newOrder.Items, order.OrderItem{
			BookID:         line.BookID,
			Title:          line.Title,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents,
		})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(newOrder).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		newOrder.OrderNumber = newOrder.GenerateOrderNumber()
		if err := tx.Model(newOrder).Update("order_number", newOrder.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		// Guarded decrement: the WHERE clause wins any race with a
		// concurrent checkout for the same book.
		for _, line := range lines {
			result := tx.Model(&book.Book{}).
				Where("id = ? AND stock_quantity >= ?", line.BookID, line.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if result.Error != nil {
				return fmt.Errorf("failed to decrement stock for book %d: %w", line.BookID, result.Error)
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: book %d", ErrInsufficientStock, line.BookID)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// A failed cart clear must not fail an already committed order.
	if clearErr := s.cartService.ClearCart(ctx, &userID, sessionID); clearErr != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": newOrder.ID,
			"user_id":  userID,
			"error":    clearErr.Error(),
		}).Warn("order placed but cart clear failed")
	}

	return newOrder, nil
}
