// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/book"
	"gorm.io/gorm"
)

// ErrCartCorrupt is returned when a stored cart cannot be
// deserialized. The stored blob is left in place for inspection;
// callers decide whether to reset it.
var ErrCartCorrupt = errors.New("stored cart is corrupt")

// ErrItemNotFound is returned when a cart line does not exist
var ErrItemNotFound = errors.New("item not found in cart")

const (
	guestCartTTL = 24 * time.Hour
	userCartTTL  = 7 * 24 * time.Hour
)

// ownerKey pairs a cart's Redis key with the TTL its owner class gets
type ownerKey struct {
	key string
	ttl time.Duration
}

// Service handles cart business logic. Carts live in Redis as one
// JSON blob per owner; the database is only consulted to validate
// books on mutation.
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// AddToCartRequest represents an add to cart request
type AddToCartRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// UpdateCartItemRequest represents an update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CartResponse is the cart plus computed totals
type CartResponse struct {
	Items      []CartItem `json:"items"`
	ItemCount  int        `json:"item_count"`
	TotalCents int64      `json:"total_cents"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// cartKey builds the Redis key for a cart owner. A logged-in user's
// cart survives across devices; a guest cart is bound to its session.
func cartKey(userID *uint, sessionID string) (string, time.Duration, error) {
	if userID != nil {
		return fmt.Sprintf("cart:user:%d", *userID), userCartTTL, nil
	}
	if sessionID == "" {
		return "", 0, fmt.Errorf("session ID required for guest cart")
	}
	return fmt.Sprintf("cart:session:%s", sessionID), guestCartTTL, nil
}

// GetCart retrieves the cart for a user or guest session
func (s *Service) GetCart(ctx context.Context, userID *uint, sessionID string) (*CartResponse, error) {
	c, _, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

// AddToCart validates the book and merges it into the cart
func (s *Service) AddToCart(ctx context.Context, userID *uint, sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	var b book.Book
	result := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", req.BookID, true).First(&b)
	if result.Error != nil {
		return nil, fmt.Errorf("book not found or inactive")
	}

	c, key, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	existing := 0
	for idx := range c.Items {
		if c.Items[idx].BookID == req.BookID {
			existing = c.Items[idx].Quantity
		}
	}
	if b.StockQuantity < existing+quantity {
		return nil, fmt.Errorf("insufficient stock, available: %d", b.StockQuantity)
	}

	c.Add(CartItem{
		BookID:         b.ID,
		Title:          b.Title,
		UnitPriceCents: b.PriceCents,
		Quantity:       quantity,
		CoverURL:       b.CoverURL,
	})

	if err := s.save(ctx, key, c); err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

// UpdateCartItem sets the quantity of a cart line; zero removes it
func (s *Service) UpdateCartItem(ctx context.Context, userID *uint, sessionID string, bookID uint, req *UpdateCartItemRequest) (*CartResponse, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}

	if req.Quantity > 0 {
		var b book.Book
		result := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", bookID, true).First(&b)
		if result.Error != nil {
			return nil, fmt.Errorf("book not found or inactive")
		}
		if b.StockQuantity < req.Quantity {
			return nil, fmt.Errorf("insufficient stock, available: %d", b.StockQuantity)
		}
	}

	c, key, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if !c.UpdateQuantity(bookID, req.Quantity) {
		return nil, ErrItemNotFound
	}

	if err := s.save(ctx, key, c); err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

// RemoveFromCart deletes a cart line
func (s *Service) RemoveFromCart(ctx context.Context, userID *uint, sessionID string, bookID uint) (*CartResponse, error) {
	c, key, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if !c.Remove(bookID) {
		return nil, ErrItemNotFound
	}

	if err := s.save(ctx, key, c); err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

// ClearCart removes the cart entirely
func (s *Service) ClearCart(ctx context.Context, userID *uint, sessionID string) error {
	key, _, err := cartKey(userID, sessionID)
	if err != nil {
		return err
	}
	return s.redisClient.Del(ctx, key).Err()
}

// GetCartItemCount returns the number of units in the cart
func (s *Service) GetCartItemCount(ctx context.Context, userID *uint, sessionID string) (int, error) {
	c, _, err := s.load(ctx, userID, sessionID)
	if err != nil {
		return 0, err
	}
	return c.ItemCount(), nil
}

// MergeGuestCartToUser merges a guest session cart into the user's
// cart at login, then discards the guest cart.
func (s *Service) MergeGuestCartToUser(ctx context.Context, userID uint, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	guest, _, err := s.load(ctx, nil, sessionID)
	if err != nil {
		if errors.Is(err, ErrCartCorrupt) {
			// A corrupt guest cart is not worth failing a login over.
			return s.ClearCart(ctx, nil, sessionID)
		}
		return err
	}
	if guest.IsEmpty() {
		return nil
	}

	userCart, key, err := s.load(ctx, &userID, "")
	if err != nil {
		return err
	}

	for _, item := range guest.Items {
		userCart.Add(item)
	}

	if err := s.save(ctx, key, userCart); err != nil {
		return err
	}
	return s.ClearCart(ctx, nil, sessionID)
}

func (s *Service) load(ctx context.Context, userID *uint, sessionID string) (*Cart, ownerKey, error) {
	key, ttl, err := cartKey(userID, sessionID)
	if err != nil {
		return nil, ownerKey{}, err
	}
	owner := ownerKey{key: key, ttl: ttl}

	data, err := s.redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return &Cart{UpdatedAt: time.Now().UTC()}, owner, nil
	} else if err != nil {
		return nil, ownerKey{}, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, ownerKey{}, fmt.Errorf("%w: %v", ErrCartCorrupt, err)
	}
	return &c, owner, nil
}

func (s *Service) save(ctx context.Context, owner ownerKey, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to serialize cart: %w", err)
	}
	return s.redisClient.Set(ctx, owner.key, data, owner.ttl).Err()
}

func (s *Service) toResponse(c *Cart) *CartResponse {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return &CartResponse{
		Items:      items,
		ItemCount:  c.ItemCount(),
		TotalCents: c.TotalCents(),
		UpdatedAt:  c.UpdatedAt,
	}
}
