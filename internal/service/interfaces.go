package service

import (
	"context"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
)

// PostServiceInterface defines the interface for post operations.
// Used for dependency injection and mocking in tests.
type PostServiceInterface interface {
	// ListPublished returns publicly visible posts, newest publish date first.
	ListPublished(ctx context.Context) ([]domain.Post, error)
	// ListAll returns every post across all shards, for the admin dashboard.
	ListAll(ctx context.Context) ([]domain.Post, error)
	// GetPost returns one post with internal links rewritten into its
	// content, or nil when no post owns the slug.
	GetPost(ctx context.Context, slug string) (*domain.Post, error)
	// SavePost validates and persists a post to its home shard.
	SavePost(ctx context.Context, post *domain.Post) error
	// DeletePost removes a post; the slug hint routes the delete when known.
	DeletePost(ctx context.Context, id, slugHint string) error
	// Sitemap renders the sitemap XML for all visible posts.
	Sitemap(ctx context.Context) (string, error)
	// RobotsTxt renders the robots.txt body.
	RobotsTxt() string
}
