package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
	"github.com/bankacem/ExtensionTo-CMS/internal/logger"
	"github.com/bankacem/ExtensionTo-CMS/internal/sharding"
)

const postColumns = `id, slug, title, excerpt, content, category, image, tags, status, featured,
	seo_title, seo_desc, seo_keywords, publish_date, published_at, created_at, updated_at, views`

// visibleRows selects posts that should appear on public reads: published, or
// scheduled with a due publish date. The time gate runs in SQL so every shard
// applies the same instant-of-read cutoff.
const visibleRows = `status = 'published' OR (status = 'scheduled' AND publish_date IS NOT NULL AND publish_date <= now())`

// ShardedPostRepository implements PostRepository over a ShardSet. Writes go
// to the slug's home shard; collection reads scatter-gather across all shards.
type ShardedPostRepository struct {
	shards *sharding.ShardSet
}

// NewShardedPostRepository creates a new ShardedPostRepository.
func NewShardedPostRepository(shards *sharding.ShardSet) *ShardedPostRepository {
	return &ShardedPostRepository{shards: shards}
}

// Upsert writes the post to its home shard, computed from the slug. Insert or
// replace by id; a unique violation on the slug index means another post owns
// that slug on this shard and surfaces as ErrSlugConflict.
//
// The shard is recomputed from the current slug on every call, so a slug
// change moves the post to its new home. The copy under the old slug's shard
// is removed afterwards - without that sweep a rename would orphan a stale
// duplicate.
func (r *ShardedPostRepository) Upsert(ctx context.Context, post *domain.Post) error {
	home := r.shards.RouteIndex(post.Slug)
	pool := r.shards.Shard(home)

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	_, err := pool.Exec(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug,
			title = EXCLUDED.title,
			excerpt = EXCLUDED.excerpt,
			content = EXCLUDED.content,
			category = EXCLUDED.category,
			image = EXCLUDED.image,
			tags = EXCLUDED.tags,
			status = EXCLUDED.status,
			featured = EXCLUDED.featured,
			seo_title = EXCLUDED.seo_title,
			seo_desc = EXCLUDED.seo_desc,
			seo_keywords = EXCLUDED.seo_keywords,
			publish_date = EXCLUDED.publish_date,
			published_at = EXCLUDED.published_at,
			updated_at = EXCLUDED.updated_at,
			views = EXCLUDED.views
	`, post.ID, post.Slug, post.Title, post.Excerpt, post.Content, post.Category, post.Image,
		post.Tags, string(post.Status), post.Featured, post.SEOTitle, post.SEODesc, post.SEOKeywords,
		post.PublishDate, post.PublishedAt, post.CreatedAt, post.UpdatedAt, post.Views)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("shard %d: %w", home, ErrSlugConflict)
		}
		return fmt.Errorf("upsert post on shard %d: %w", home, err)
	}

	if sweepErr := r.sweepStaleCopies(ctx, post.ID, home); sweepErr != nil {
		// The write itself succeeded; a failed sweep leaves a stale copy that
		// the next upsert will retry. Log and move on.
		logger.WarnContext(ctx, "Failed to sweep stale post copies after slug change",
			slog.String("post_id", post.ID),
			slog.String("error", sweepErr.Error()))
	}
	return nil
}

// sweepStaleCopies deletes the post id from every shard except its home.
// Only does real work after a slug change moved the post between shards.
func (r *ShardedPostRepository) sweepStaleCopies(ctx context.Context, id string, home int) error {
	return sharding.BroadcastExec(ctx, r.shards, "sweep_stale", func(ctx context.Context, shard int, pool *pgxpool.Pool) error {
		if shard == home {
			return nil
		}
		_, err := pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		return err
	})
}

// GetBySlug reads the post from its home shard only. Absence is a normal
// result, not an error: returns (nil, nil).
func (r *ShardedPostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	shard := r.shards.RouteIndex(slug)
	row := r.shards.Shard(shard).QueryRow(ctx, `
		SELECT `+postColumns+` FROM posts WHERE slug = $1
	`, slug)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get post by slug on shard %d: %w", shard, err)
	}
	return post, nil
}

// ListPublished gathers publicly visible posts from every shard. Results
// arrive in shard order; callers sort as needed.
func (r *ShardedPostRepository) ListPublished(ctx context.Context) ([]domain.Post, error) {
	return sharding.Broadcast(ctx, r.shards, "list_published", func(ctx context.Context, shard int, pool *pgxpool.Pool) ([]domain.Post, error) {
		rows, err := pool.Query(ctx, `SELECT `+postColumns+` FROM posts WHERE `+visibleRows)
		if err != nil {
			return nil, err
		}
		return collectPosts(rows)
	})
}

// ListAll gathers every post from every shard, for the admin dashboard.
func (r *ShardedPostRepository) ListAll(ctx context.Context) ([]domain.Post, error) {
	return sharding.Broadcast(ctx, r.shards, "list_all", func(ctx context.Context, shard int, pool *pgxpool.Pool) ([]domain.Post, error) {
		rows, err := pool.Query(ctx, `SELECT `+postColumns+` FROM posts`)
		if err != nil {
			return nil, err
		}
		return collectPosts(rows)
	})
}

// ListPublishedLinks gathers the {id, title, slug} projection of visible
// posts for link rewriting, excluding the given post id. Exclusion is by id,
// not slug, so a post never links to itself even mid-rename.
func (r *ShardedPostRepository) ListPublishedLinks(ctx context.Context, excludeID string) ([]domain.PostLink, error) {
	return sharding.Broadcast(ctx, r.shards, "link_candidates", func(ctx context.Context, shard int, pool *pgxpool.Pool) ([]domain.PostLink, error) {
		rows, err := pool.Query(ctx, `
			SELECT id, title, slug FROM posts WHERE (`+visibleRows+`) AND id <> $1
		`, excludeID)
		if err != nil {
			return nil, err
		}
		defer rows.Close()

		var links []domain.PostLink
		for rows.Next() {
			var l domain.PostLink
			if err := rows.Scan(&l.ID, &l.Title, &l.Slug); err != nil {
				return nil, err
			}
			links = append(links, l)
		}
		return links, rows.Err()
	})
}

// DeleteByID removes the post from its home shard when the slug is known.
// Without a slug hint the home shard cannot be computed, so the delete is
// broadcast to every shard - safe because ids are unique across the set.
func (r *ShardedPostRepository) DeleteByID(ctx context.Context, id, slugHint string) error {
	if slugHint != "" {
		shard := r.shards.RouteIndex(slugHint)
		if _, err := r.shards.Shard(shard).Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete post on shard %d: %w", shard, err)
		}
		return nil
	}

	return sharding.BroadcastExec(ctx, r.shards, "delete_by_id", func(ctx context.Context, shard int, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
		return err
	})
}

// IncrementViews bumps the view counter on the post's home shard. The
// increment runs in SQL, so concurrent readers cannot lose each other's
// updates; callers treat any failure as best-effort.
func (r *ShardedPostRepository) IncrementViews(ctx context.Context, slug string) error {
	shard := r.shards.RouteIndex(slug)
	if _, err := r.shards.Shard(shard).Exec(ctx, `
		UPDATE posts SET views = views + 1 WHERE slug = $1
	`, slug); err != nil {
		return fmt.Errorf("increment views on shard %d: %w", shard, err)
	}
	return nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	var status string
	if err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content, &p.Category, &p.Image,
		&p.Tags, &status, &p.Featured, &p.SEOTitle, &p.SEODesc, &p.SEOKeywords,
		&p.PublishDate, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt, &p.Views); err != nil {
		return nil, err
	}
	p.Status = domain.PostStatus(status)
	return &p, nil
}

func collectPosts(rows pgx.Rows) ([]domain.Post, error) {
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}
