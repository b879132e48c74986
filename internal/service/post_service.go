package service

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
	"github.com/bankacem/ExtensionTo-CMS/internal/linker"
	"github.com/bankacem/ExtensionTo-CMS/internal/logger"
	"github.com/bankacem/ExtensionTo-CMS/internal/metrics"
	"github.com/bankacem/ExtensionTo-CMS/internal/repository"
	"github.com/bankacem/ExtensionTo-CMS/internal/validator"
)

// PostService orchestrates post reads and writes over the sharded repository.
type PostService struct {
	posts     repository.PostRepository
	validator *validator.Validator
	baseURL   string
}

// NewPostService creates a new PostService.
func NewPostService(posts repository.PostRepository, v *validator.Validator, baseURL string) *PostService {
	return &PostService{
		posts:     posts,
		validator: v,
		baseURL:   baseURL,
	}
}

// ListPublished returns visible posts, newest effective publish date first.
func (s *PostService) ListPublished(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].EffectivePublishDate().After(posts[j].EffectivePublishDate())
	})
	for i := range posts {
		posts[i].ComputeDerived()
	}
	return posts, nil
}

// ListAll returns every post for the admin dashboard, newest update first.
func (s *PostService) ListAll(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all posts: %w", err)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].UpdatedAt.After(posts[j].UpdatedAt)
	})
	return posts, nil
}

// GetPost reads the post from its home shard and rewrites internal links into
// its content. Link enrichment is best-effort: when the candidate broadcast
// fails, the post is served with its original content rather than failing the
// whole read. The view counter bump is best-effort too.
func (s *PostService) GetPost(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, nil
	}

	candidates, err := s.posts.ListPublishedLinks(ctx, post.ID)
	if err != nil {
		logger.WarnContext(ctx, "Link candidate broadcast failed, serving post without internal links",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
		metrics.RecordLinkRewrite("degraded")
	} else {
		post.Content = linker.Rewrite(post.Content, candidates)
		metrics.RecordLinkRewrite("ok")
	}

	if err := s.posts.IncrementViews(ctx, slug); err != nil {
		logger.WarnContext(ctx, "Failed to increment view counter",
			slog.String("slug", slug),
			slog.String("error", err.Error()))
	} else {
		post.Views++
	}

	post.ComputeDerived()
	return post, nil
}

// SavePost validates the post, fills defaults, and writes it to its home
// shard. Returns repository.ErrSlugConflict unchanged so callers can map it
// to a conflict response.
func (s *PostService) SavePost(ctx context.Context, post *domain.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.Slug == "" {
		post.Slug = domain.Slugify(post.Title)
	}
	if post.Status == "" {
		post.Status = domain.StatusDraft
	}
	if post.Status == domain.StatusPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := s.validator.ValidatePost(post); err != nil {
		return err
	}

	return s.posts.Upsert(ctx, post)
}

// DeletePost removes the post. With a slug hint the delete routes straight to
// the home shard; without one it fans out to all shards.
func (s *PostService) DeletePost(ctx context.Context, id, slugHint string) error {
	return s.posts.DeleteByID(ctx, id, slugHint)
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

type urlset struct {
	XMLName xml.Name     `xml:"urlset"`
	Xmlns   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// Sitemap renders the sitemap XML enumerating every visible post URL.
// Order does not matter to crawlers, so the shard-order merge is used as is.
func (s *PostService) Sitemap(ctx context.Context) (string, error) {
	posts, err := s.posts.ListPublished(ctx)
	if err != nil {
		return "", fmt.Errorf("gather sitemap entries: %w", err)
	}

	set := urlset{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  make([]sitemapURL, 0, len(posts)),
	}
	for _, p := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:     s.baseURL + "/post/" + p.Slug,
			LastMod: p.UpdatedAt.UTC().Format("2006-01-02"),
		})
	}

	body, err := xml.Marshal(set)
	if err != nil {
		return "", fmt.Errorf("render sitemap: %w", err)
	}
	return xml.Header + string(body), nil
}

// RobotsTxt renders the robots.txt body with the sitemap location.
func (s *PostService) RobotsTxt() string {
	return "User-agent: *\nAllow: /\nSitemap: " + s.baseURL + "/sitemap.xml\n"
}
