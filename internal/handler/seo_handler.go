package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bankacem/ExtensionTo-CMS/internal/middleware"
	"github.com/bankacem/ExtensionTo-CMS/internal/service"
)

// SEOHandler serves crawler-facing documents.
type SEOHandler struct {
	postService service.PostServiceInterface
}

// NewSEOHandler creates a new SEOHandler.
func NewSEOHandler(postService service.PostServiceInterface) *SEOHandler {
	return &SEOHandler{postService: postService}
}

// Sitemap handles GET /sitemap.xml.
func (h *SEOHandler) Sitemap(c *gin.Context) {
	xml, err := h.postService.Sitemap(c.Request.Context())
	if err != nil {
		log.Printf("[request_id=%s] Failed to render sitemap: %v", middleware.GetRequestID(c), err)
		c.String(http.StatusServiceUnavailable, "sitemap unavailable")
		return
	}

	c.Data(http.StatusOK, "application/xml; charset=utf-8", []byte(xml))
}

// Robots handles GET /robots.txt.
func (h *SEOHandler) Robots(c *gin.Context) {
	c.String(http.StatusOK, h.postService.RobotsTxt())
}
