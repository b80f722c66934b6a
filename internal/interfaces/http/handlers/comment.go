// internal/interfaces/http/handlers/comment.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/comment"
	"github.com/tduong196/bookstore/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CommentHandler handles comment endpoints
type CommentHandler struct {
	commentService *comment.Service
	config         *config.Config
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(db *gorm.DB, cfg *config.Config) *CommentHandler {
	return &CommentHandler{
		commentService: comment.NewService(db, cfg),
		config:         cfg,
	}
}

// CreateComment handles POST /books/:id/comments
func (h *CommentHandler) CreateComment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	userEmail, _ := middleware.GetUserEmailFromContext(c)

	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req comment.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cm, err := h.commentService.CreateComment(c.Request.Context(), uint(bookID), userID, userEmail, &req)
	if err != nil {
		if errors.Is(err, comment.ErrEmptyContent) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content cannot be empty"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Comment posted successfully",
		"data":    cm,
	})
}

// ListBookComments handles GET /books/:id/comments
func (h *CommentHandler) ListBookComments(c *gin.Context) {
	bookID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req comment.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.commentService.ListBookComments(c.Request.Context(), uint(bookID), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comments retrieved successfully",
		"data":    resp,
	})
}

// DeleteComment handles DELETE /comments/:id
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment ID"})
		return
	}

	err = h.commentService.DeleteComment(c.Request.Context(), uint(id), userID, middleware.IsAdminFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, comment.ErrCommentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		case errors.Is(err, comment.ErrNotCommentOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Comment deleted successfully",
	})
}
