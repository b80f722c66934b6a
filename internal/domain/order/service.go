// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/user"
	"gorm.io/gorm"
)

// Order errors
var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotOrderOwner     = errors.New("order does not belong to user")
)

// StatusNotifier is told about committed status changes. Delivery
// failures are logged, never surfaced to the admin who made the
// change.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, o *Order, recipient *user.User) error
}

// Service handles order business logic
type Service struct {
	db       *gorm.DB
	config   *config.Config
	notifier StatusNotifier
	log      *logrus.Logger
}

// NewService creates a new order service. notifier may be nil.
func NewService(db *gorm.DB, cfg *config.Config, notifier StatusNotifier, log *logrus.Logger) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		notifier: notifier,
		log:      log,
	}
}

// ListRequest represents order listing parameters
type ListRequest struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Status string `form:"status"`
}

// ListResponse represents a paginated order list
type ListResponse struct {
	Orders     []Order `json:"orders"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"total_pages"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	Status  OrderStatus `json:"status" binding:"required"`
	Comment string      `json:"comment"`
}

// ListUserOrders returns the caller's orders, newest first
func (s *Service) ListUserOrders(ctx context.Context, userID uint, req *ListRequest) (*ListResponse, error) {
	return s.list(ctx, req, s.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", userID))
}

// ListAllOrders returns all orders for admins, newest first
func (s *Service) ListAllOrders(ctx context.Context, req *ListRequest) (*ListResponse, error) {
	return s.list(ctx, req, s.db.WithContext(ctx).Model(&Order{}))
}

func (s *Service) list(ctx context.Context, req *ListRequest, query *gorm.DB) (*ListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	if req.Status != "" {
		status := OrderStatus(req.Status)
		if !status.IsValid() {
			return nil, ErrInvalidStatus
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	var orders []Order
	offset := (req.Page - 1) * req.Limit
	err := query.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(req.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &ListResponse{
		Orders:     orders,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetOrder returns an order with its items and history
func (s *Service) GetOrder(ctx context.Context, id uint) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("StatusHistory").
		Where("id = ?", id).
		First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return &o, nil
}

// GetUserOrder returns an order only if it belongs to the given user
func (s *Service) GetUserOrder(ctx context.Context, id, userID uint) (*Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return o, nil
}

// UpdateStatus moves an order through its lifecycle. Only the
// transitions PENDING→APPROVED, PENDING→REJECTED and
// APPROVED→DELIVERED are allowed; anything else is rejected without
// touching the order.
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, adminID uint, req *UpdateStatusRequest) (*Order, error) {
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	o, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !o.Status.CanTransitionTo(req.Status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, req.Status)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(o).Update("status", req.Status).Error; err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		history := OrderStatusHistory{
			OrderID:   o.ID,
			Status:    req.Status,
			Comment:   req.Comment,
			CreatedBy: adminID,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	o.Status = req.Status

	s.notify(ctx, o)

	return o, nil
}

func (s *Service) notify(ctx context.Context, o *Order) {
	if s.notifier == nil {
		return
	}

	var recipient user.User
	if err := s.db.WithContext(ctx).Where("id = ?", o.UserID).First(&recipient).Error; err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": o.ID,
			"user_id":  o.UserID,
		}).Warn("status change notification skipped, user not found")
		return
	}

	if err := s.notifier.NotifyStatusChange(ctx, o, &recipient); err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": o.ID,
			"error":    err.Error(),
		}).Warn("failed to send status change notification")
	}
}
