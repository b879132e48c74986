package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
	"github.com/bankacem/ExtensionTo-CMS/internal/sharding"
)

// extensionShard pins the extension catalog to the first shard. The catalog
// is tiny compared to posts and is always read whole, so fanning it out buys
// nothing.
const extensionShard = 0

// PinnedExtensionRepository implements ExtensionRepository against shard 0.
type PinnedExtensionRepository struct {
	shards *sharding.ShardSet
}

// NewPinnedExtensionRepository creates a new PinnedExtensionRepository.
func NewPinnedExtensionRepository(shards *sharding.ShardSet) *PinnedExtensionRepository {
	return &PinnedExtensionRepository{shards: shards}
}

// List returns the whole extension directory, highest-rated first.
func (r *PinnedExtensionRepository) List(ctx context.Context) ([]domain.Extension, error) {
	rows, err := r.shards.Shard(extensionShard).Query(ctx, `
		SELECT id, name, description, category, rating, downloads, icon, store_url, created_at, updated_at
		FROM extensions
		ORDER BY rating DESC, downloads DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list extensions: %w", err)
	}
	defer rows.Close()

	var exts []domain.Extension
	for rows.Next() {
		var e domain.Extension
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Category, &e.Rating,
			&e.Downloads, &e.Icon, &e.StoreURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan extension: %w", err)
		}
		exts = append(exts, e)
	}
	return exts, rows.Err()
}

// Upsert inserts or replaces an extension by id.
func (r *PinnedExtensionRepository) Upsert(ctx context.Context, ext *domain.Extension) error {
	now := time.Now()
	if ext.CreatedAt.IsZero() {
		ext.CreatedAt = now
	}
	ext.UpdatedAt = now

	_, err := r.shards.Shard(extensionShard).Exec(ctx, `
		INSERT INTO extensions (id, name, description, category, rating, downloads, icon, store_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			rating = EXCLUDED.rating,
			downloads = EXCLUDED.downloads,
			icon = EXCLUDED.icon,
			store_url = EXCLUDED.store_url,
			updated_at = EXCLUDED.updated_at
	`, ext.ID, ext.Name, ext.Description, ext.Category, ext.Rating, ext.Downloads,
		ext.Icon, ext.StoreURL, ext.CreatedAt, ext.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert extension: %w", err)
	}
	return nil
}

// DeleteByID removes an extension from the catalog.
func (r *PinnedExtensionRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.shards.Shard(extensionShard).Exec(ctx, `DELETE FROM extensions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete extension: %w", err)
	}
	return nil
}
