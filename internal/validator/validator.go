package validator

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/bankacem/ExtensionTo-CMS/internal/domain"
)

var (
	slugRegex   = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	validStatus = []interface{}{domain.StatusDraft, domain.StatusPublished, domain.StatusScheduled, domain.StatusArchived}
)

// Validator provides validation methods for domain entities.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePost validates a Post entity.
func (v *Validator) ValidatePost(p *domain.Post) error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.ID,
			validation.Required.Error("id_required"),
			is.UUID.Error("invalid_id_format"),
		),
		validation.Field(&p.Slug,
			validation.Required.Error("slug_required"),
			validation.Match(slugRegex).Error("invalid_slug_format"),
		),
		validation.Field(&p.Title,
			validation.Required.Error("title_required"),
		),
		validation.Field(&p.Status,
			validation.Required.Error("status_required"),
			validation.In(validStatus...).Error("invalid_status"),
		),
	)
	if err != nil {
		return err
	}

	// Custom rule: scheduled posts need a publish date to ever become visible
	if p.Status == domain.StatusScheduled && p.PublishDate == nil {
		return validation.Errors{
			"publish_date": validation.NewError("scheduled_requires_publish_date", "scheduled posts must have a publish date"),
		}
	}

	// Custom rule: published posts must carry their publication timestamp
	if p.Status == domain.StatusPublished && p.PublishedAt == nil {
		return validation.Errors{
			"published_at": validation.NewError("published_requires_published_at", "published posts must have published_at"),
		}
	}

	return nil
}

// ValidateExtension validates an Extension entity.
func (v *Validator) ValidateExtension(e *domain.Extension) error {
	err := validation.ValidateStruct(e,
		validation.Field(&e.ID,
			validation.Required.Error("id_required"),
			is.UUID.Error("invalid_id_format"),
		),
		validation.Field(&e.Name,
			validation.Required.Error("name_required"),
		),
		validation.Field(&e.Rating,
			validation.Min(0.0).Error("rating_below_zero"),
			validation.Max(5.0).Error("rating_above_five"),
		),
		validation.Field(&e.Downloads,
			validation.Min(int64(0)).Error("downloads_negative"),
		),
	)
	if err != nil {
		return err
	}

	if e.StoreURL != nil && *e.StoreURL != "" {
		if urlErr := validation.Validate(*e.StoreURL, is.URL.Error("invalid_store_url")); urlErr != nil {
			return validation.Errors{"store_url": urlErr}
		}
	}

	return nil
}

// FieldErrors flattens ozzo validation errors into a field -> message map for
// API responses.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if ve, ok := err.(validation.Errors); ok {
		for field, fieldErr := range ve {
			out[field] = fieldErr.Error()
		}
	} else if err != nil {
		out["error"] = err.Error()
	}
	return out
}
