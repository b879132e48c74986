package domain

import (
	"math"
	"strings"
	"time"
)

// PostStatus is the publication state of a blog post.
type PostStatus string

const (
	StatusDraft     PostStatus = "draft"
	StatusPublished PostStatus = "published"
	StatusScheduled PostStatus = "scheduled"
	StatusArchived  PostStatus = "archived"
)

// ValidStatuses contains all valid post statuses.
var ValidStatuses = []PostStatus{StatusDraft, StatusPublished, StatusScheduled, StatusArchived}

// IsValidStatus checks if a status is valid.
func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if string(s) == status {
			return true
		}
	}
	return false
}

// Post represents a blog post. Posts are partitioned across shards by slug;
// every field except ID and CreatedAt is mutable.
type Post struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Content     string     `json:"content"`
	Category    string     `json:"category,omitempty"`
	Image       string     `json:"image,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Status      PostStatus `json:"status"`
	Featured    bool       `json:"featured"`
	SEOTitle    string     `json:"seo_title,omitempty"`
	SEODesc     string     `json:"seo_desc,omitempty"`
	SEOKeywords string     `json:"seo_keywords,omitempty"`
	PublishDate *time.Time `json:"publish_date,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Views       int64      `json:"views"`

	// Derived at read time, never stored.
	WordCount   int `json:"word_count,omitempty"`
	ReadingTime int `json:"reading_time,omitempty"`
}

// PostLink is the projection used for internal link rewriting: just enough
// to match a title and build an anchor.
type PostLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// IsVisible reports whether the post should appear on public reads at the
// given instant: published outright, or scheduled with a due publish date.
func (p *Post) IsVisible(now time.Time) bool {
	switch p.Status {
	case StatusPublished:
		return true
	case StatusScheduled:
		return p.PublishDate != nil && !p.PublishDate.After(now)
	default:
		return false
	}
}

// EffectivePublishDate is the timestamp used for ordering public listings.
// Falls back to CreatedAt for rows that predate the publish-date column.
func (p *Post) EffectivePublishDate() time.Time {
	if p.PublishedAt != nil {
		return *p.PublishedAt
	}
	if p.PublishDate != nil {
		return *p.PublishDate
	}
	return p.CreatedAt
}

// ComputeDerived fills WordCount and ReadingTime from the current content.
// Reading time assumes 200 words per minute, with a floor of one minute.
func (p *Post) ComputeDerived() {
	p.WordCount = len(strings.Fields(p.Content))
	p.ReadingTime = int(math.Ceil(float64(p.WordCount) / 200))
	if p.ReadingTime < 1 {
		p.ReadingTime = 1
	}
}

// Slugify derives a URL-safe slug from a title: lowercase, spaces to hyphens,
// everything outside [a-z0-9-] dropped, runs of hyphens collapsed.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
