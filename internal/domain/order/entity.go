// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
)

// validTransitions maps each status to the statuses it may move to.
// Terminal statuses have no entries.
var validTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:  {OrderStatusApproved, OrderStatusRejected},
	OrderStatusApproved: {OrderStatusDelivered},
}

// CanTransitionTo reports whether a status change is allowed
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range validTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsValid reports whether the status is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusRejected, OrderStatusDelivered:
		return true
	}
	return false
}

// Order represents a placed order
type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	OrderNumber string      `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint        `gorm:"not null;index;uniqueIndex:idx_orders_user_idempotency" json:"user_id"`
	Status      OrderStatus `gorm:"not null;default:'PENDING';size:20" json:"status"`

	TotalCents int64 `gorm:"not null" json:"total_cents"`

	// Delivery details captured at checkout
	Phone         string `gorm:"not null;size:20" json:"phone"`
	Address       string `gorm:"not null;type:text" json:"address"`
	PaymentMethod string `gorm:"not null;size:50" json:"payment_method"`

	// Reviewed is set once the buyer has left a review for this order
	Reviewed bool `gorm:"default:false" json:"reviewed"`

	// IdempotencyKey deduplicates checkout retries; replaying the same
	// key returns the order created by the first attempt. The unique
	// index is scoped per user so two users may submit the same key.
	IdempotencyKey *string `gorm:"uniqueIndex:idx_orders_user_idempotency;size:64" json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items         []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// OrderItem represents a line in an order
type OrderItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderID        uint      `gorm:"not null;index" json:"order_id"`
	BookID         uint      `gorm:"not null;index" json:"book_id"`
	Title          string    `gorm:"not null;size:255" json:"title"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`
	TotalCents     int64     `gorm:"not null" json:"total_cents"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// OrderStatusHistory tracks order status changes
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   uint        `gorm:"not null;index" json:"order_id"`
	Status    OrderStatus `gorm:"not null;size:20" json:"status"`
	Comment   string      `gorm:"type:text" json:"comment"`
	CreatedBy uint        `gorm:"index" json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string              { return "orders" }
func (OrderItem) TableName() string          { return "order_items" }
func (OrderStatusHistory) TableName() string { return "order_status_history" }

// GenerateOrderNumber generates a unique order number
func (o *Order) GenerateOrderNumber() string {
	// Format: BK-YYYYMMDD-XXXXX
	return fmt.Sprintf("BK-%s-%05d", time.Now().Format("20060102"), o.ID)
}

// GetFormattedTotal returns the order total in major currency units
func (o *Order) GetFormattedTotal() float64 {
	return float64(o.TotalCents) / 100
}

// CanBeReviewed reports whether the buyer may leave a review for this
// order: the order must have been approved or delivered and not
// reviewed before.
func (o *Order) CanBeReviewed() bool {
	return (o.Status == OrderStatusApproved || o.Status == OrderStatusDelivered) && !o.Reviewed
}

// AddStatusHistory appends a status change record
func (o *Order) AddStatusHistory(status OrderStatus, comment string, createdBy uint) {
	o.StatusHistory = append(o.StatusHistory, OrderStatusHistory{
		OrderID:   o.ID,
		Status:    status,
		Comment:   comment,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	})
}
