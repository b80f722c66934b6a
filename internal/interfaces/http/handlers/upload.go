// internal/interfaces/http/handlers/upload.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"github.com/tduong196/bookstore/internal/domain/upload"
	"github.com/tduong196/bookstore/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// UploadHandler handles cover image uploads
type UploadHandler struct {
	uploadService *upload.Service
	config        *config.Config
	log           *logrus.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(db *gorm.DB, cfg *config.Config, log *logrus.Logger) (*UploadHandler, error) {
	uploadService, err := upload.NewService(db, cfg, log)
	if err != nil {
		return nil, err
	}
	return &UploadHandler{
		uploadService: uploadService,
		config:        cfg,
		log:           log,
	}, nil
}

// UploadCover handles POST /admin/uploads
func (h *UploadHandler) UploadCover(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Missing file",
			"details": err.Error(),
		})
		return
	}

	uploaded, err := h.uploadService.UploadCover(c.Request.Context(), userID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the maximum allowed size"})
		case errors.Is(err, upload.ErrUnsupportedType):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type"})
		default:
			h.log.WithField("error", err.Error()).Error("cover upload failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"data":    uploaded,
	})
}
