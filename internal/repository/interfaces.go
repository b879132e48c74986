package repository

import (
	"context"
	"errors"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
)

// ErrSlugConflict is returned when the target shard already holds a post with
// the same slug under a different id. Distinct from generic failures so the
// admin UI can prompt for another slug.
var ErrSlugConflict = errors.New("slug already in use on this shard")

// PostRepository defines methods for post data access across the shard set.
type PostRepository interface {
	Upsert(ctx context.Context, post *domain.Post) error
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	ListPublished(ctx context.Context) ([]domain.Post, error)
	ListAll(ctx context.Context) ([]domain.Post, error)
	ListPublishedLinks(ctx context.Context, excludeID string) ([]domain.PostLink, error)
	DeleteByID(ctx context.Context, id, slugHint string) error
	IncrementViews(ctx context.Context, slug string) error
}

// ExtensionRepository defines methods for the extension directory, which is
// small enough to live unsharded on shard 0.
type ExtensionRepository interface {
	List(ctx context.Context) ([]domain.Extension, error)
	Upsert(ctx context.Context, ext *domain.Extension) error
	DeleteByID(ctx context.Context, id string) error
}
