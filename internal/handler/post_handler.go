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
	"github.com/bankacem/ExtensionTo-CMS/internal/service"
	"github.com/bankacem/ExtensionTo-CMS/internal/validator"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PostHandler handles public and admin post HTTP requests.
type PostHandler struct {
	postService service.PostServiceInterface
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// ListPosts handles GET /posts - public listing, newest first.
func (h *PostHandler) ListPosts(c *gin.Context) {
	posts, err := h.postService.ListPublished(c.Request.Context())
	if err != nil {
		log.Printf("[request_id=%s] Failed to list posts: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to retrieve posts, please retry"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// ListAllPosts handles GET /admin/posts - every post, for the dashboard.
func (h *PostHandler) ListAllPosts(c *gin.Context) {
	posts, err := h.postService.ListAll(c.Request.Context())
	if err != nil {
		log.Printf("[request_id=%s] Failed to list all posts: %v", middleware.GetRequestID(c), err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to retrieve posts, please retry"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost handles GET /posts/:slug - single post with internal links
// rewritten into the content.
func (h *PostHandler) GetPost(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.postService.GetPost(c.Request.Context(), slug)
	if err != nil {
		log.Printf("[request_id=%s] Failed to get post %s: %v", middleware.GetRequestID(c), slug, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to retrieve post, please retry"})
		return
	}

	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}

	c.JSON(http.StatusOK, post)
}

// CreatePost handles POST /admin/posts.
func (h *PostHandler) CreatePost(c *gin.Context) {
	var post domain.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.savePost(c, &post)
}

// UpdatePost handles PUT /admin/posts/:id.
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	var post domain.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	// The path id wins over whatever the body carries.
	post.ID = id

	h.savePost(c, &post)
}

func (h *PostHandler) savePost(c *gin.Context, post *domain.Post) {
	err := h.postService.SavePost(c.Request.Context(), post)
	if err == nil {
		c.JSON(http.StatusOK, post)
		return
	}

	var ve validation.Errors
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "validation failed",
			"fields": validator.FieldErrors(err),
		})
	case errors.Is(err, repository.ErrSlugConflict):
		c.JSON(http.StatusConflict, gin.H{
			"error": "slug already in use by another post, choose a different slug",
			"slug":  post.Slug,
		})
	default:
		log.Printf("[request_id=%s] Failed to save post %s: %v", middleware.GetRequestID(c), post.ID, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to save post, please retry"})
	}
}

// DeletePost handles DELETE /admin/posts/:id. An optional ?slug= query
// routes the delete straight to the home shard; without it the delete fans
// out to every shard.
func (h *PostHandler) DeletePost(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a valid UUID"})
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), id, c.Query("slug")); err != nil {
		log.Printf("[request_id=%s] Failed to delete post %s: %v", middleware.GetRequestID(c), id, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to delete post, please retry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}
