package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
	"github.com/bankacem/ExtensionTo-CMS/internal/middleware"
	"github.com/bankacem/ExtensionTo-CMS/internal/repository"
	"github.com/bankacem/ExtensionTo-CMS/internal/validator"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ExtensionHandler handles the extension directory. The catalog lives whole
// on shard 0, so the handler works against the repository directly - there is
// no cross-shard orchestration to hide behind a service.
type ExtensionHandler struct {
	extensions repository.ExtensionRepository
	validator  *validator.Validator
}

// NewExtensionHandler creates a new ExtensionHandler.
func NewExtensionHandler(extensions repository.ExtensionRepository, v *validator.Validator) *ExtensionHandler {
	return &ExtensionHandler{
		extensions: extensions,
		validator:  v,
	}
}

// ListExtensions handles GET /extensions.
func (h *ExtensionHandler) ListExtensions(c *gin.Context) {
	exts, err := h.extensions.List(c.Request.Context())
	if err != nil {
		log.Printf("[request_id=%s] Failed to list extensions: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to retrieve extensions, please retry"})
		return
	}

	c.JSON(http.StatusOK, exts)
}

// CreateExtension handles POST /admin/extensions.
func (h *ExtensionHandler) CreateExtension(c *gin.Context) {
	var ext domain.Extension
	if err := c.ShouldBindJSON(&ext); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if ext.ID == "" {
		ext.ID = uuid.New().String()
	}

	h.saveExtension(c, &ext)
}

// UpdateExtension handles PUT /admin/extensions/:id.
func (h *ExtensionHandler) UpdateExtension(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	var ext domain.Extension
	if err := c.ShouldBindJSON(&ext); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ext.ID = id

	h.saveExtension(c, &ext)
}

func (h *ExtensionHandler) saveExtension(c *gin.Context, ext *domain.Extension) {
	if err := h.validator.ValidateExtension(ext); err != nil {
		var ve validation.Errors
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "validation failed",
				"fields": validator.FieldErrors(err),
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.extensions.Upsert(c.Request.Context(), ext); err != nil {
		log.Printf("[request_id=%s] Failed to save extension %s: %v", middleware.GetRequestID(c), ext.ID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to save extension, please retry"})
		return
	}

	c.JSON(http.StatusOK, ext)
}

// DeleteExtension handles DELETE /admin/extensions/:id.
func (h *ExtensionHandler) DeleteExtension(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.extensions.DeleteByID(c.Request.Context(), id); err != nil {
		log.Printf("[request_id=%s] Failed to delete extension %s: %v", middleware.GetRequestID(c), id, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to delete extension, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "extension deleted"})
}
