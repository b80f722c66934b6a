// internal/interfaces/http/handlers/chat.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/book"
	"github.com/tduong196/bookstore/internal/pkg/chat"
	"gorm.io/gorm"
)

// ChatHandler handles the storefront assistant endpoint
type ChatHandler struct {
	chatService *chat.Service
	db          *gorm.DB
	config      *config.Config
	log         *logrus.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chat.NewService(cfg),
		db:          db,
		config:      cfg,
		log:         log,
	}
}

// chatRequest is the assistant request body
type chatRequest struct {
	Message string         `json:"message" binding:"required"`
	History []chat.Message `json:"history"`
}

// maxHistoryTurns bounds how much conversation is replayed per call
const maxHistoryTurns = 20

// Chat handles POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if len(req.History) > maxHistoryTurns {
		req.History = req.History[len(req.History)-maxHistoryTurns:]
	}

	// Ground the assistant in the live catalog
	var books []book.Book
	if err := h.db.WithContext(c.Request.Context()).
		Where("is_active = ?", true).
		Order("rating DESC").
		Limit(100).
		Find(&books).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	summaries := make([]chat.BookSummary, 0, len(books))
	for _, b := range books {
		summaries = append(summaries, chat.BookSummary{
			Title:      b.Title,
			Author:     b.Author,
			Category:   b.Category,
			PriceCents: b.PriceCents,
			Rating:     b.Rating,
			InStock:    b.StockQuantity > 0,
		})
	}

	systemPrompt := chat.BuildSystemPrompt(summaries)

	reply, err := h.chatService.Complete(c.Request.Context(), systemPrompt, req.History, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrNoAPIKey), errors.Is(err, chat.ErrInvalidAPIKey):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Assistant is not available"})
		case errors.Is(err, chat.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Assistant is busy, please try again shortly"})
		case errors.Is(err, chat.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		default:
			h.log.WithField("error", err.Error()).Error("chat completion failed")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Assistant request failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Assistant replied successfully",
		"data":    gin.H{"reply": reply},
	})
}
