// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/checkout"
	"github.com/tduong196/bookstore/internal/domain/user"
	"github.com/tduong196/bookstore/internal/interfaces/http/middleware"
	"github.com/tduong196/bookstore/internal/pkg/email"
	"gorm.io/gorm"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	emailService    *email.EmailService
	db              *gorm.DB
	config          *config.Config
	log             *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkout.NewService(db, redisClient, cfg, log),
		emailService:    email.NewEmailService(cfg, log),
		db:              db,
		config:          cfg,
		log:             log,
	}
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	sessionID := middleware.GetSessionID(c)

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, sessionID, &req)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		case errors.Is(err, checkout.ErrMissingPhone),
			errors.Is(err, checkout.ErrMissingAddress),
			errors.Is(err, checkout.ErrMissingPaymentMethod):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, checkout.ErrBookUnavailable),
			errors.Is(err, checkout.ErrInvalidPrice),
			errors.Is(err, checkout.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		}
		return
	}

	// Confirmation email is best effort
	var buyer user.User
	if err := h.db.WithContext(c.Request.Context()).Where("id = ?", userID).First(&buyer).Error; err == nil {
		if err := h.emailService.SendOrderConfirmation(o, &buyer); err != nil {
			h.log.WithFields(logrus.Fields{
				"order_id": o.ID,
				"error":    err.Error(),
			}).Warn("failed to send order confirmation email")
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    o,
	})
}
