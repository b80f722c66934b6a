// internal/interfaces/http/handlers/book.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/book"
	"github.com/tduong196/bookstore/internal/interfaces/http/middleware"
	"github.com/tduong196/bookstore/internal/pkg/email"
	"gorm.io/gorm"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *book.Service
	config      *config.Config
}

// NewBookHandler creates a new book handler
func NewBookHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) *BookHandler {
	return &BookHandler{
		bookService: book.NewService(db, cfg, email.NewEmailService(cfg, log), log),
		config:      cfg,
	}
}

// ListBooks handles GET /books
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req book.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	// Admins may browse the full catalog including inactive titles
	req.IncludeInactive = middleware.IsAdminFromContext(c) && c.Query("include_inactive") == "true"

	resp, err := h.bookService.ListBooks(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list books"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books retrieved successfully",
		"data":    resp,
	})
}

// GetBook handles GET /books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	b, err := h.bookService.GetBook(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve book"})
		return
	}

	if !b.IsActive && !middleware.IsAdminFromContext(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book retrieved successfully",
		"data":    b,
	})
}

// CreateBook handles POST /admin/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req book.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bookService.CreateBook(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create book"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"data":    b,
	})
}

// UpdateBook handles PUT /admin/books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req book.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bookService.UpdateBook(c.Request.Context(), uint(id), &req)
	if err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book updated successfully",
		"data":    b,
	})
}

// DeleteBook handles DELETE /admin/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	if err := h.bookService.DeleteBook(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, book.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book and related records deleted successfully",
	})
}
