// Package bundle validates the batch of template definitions submitted
// alongside a campaign.
package bundle

import (
	"context"
	"path"
	"strings"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/storage"
)

// Preview is an attached preview asset as received from the wire.
type Preview struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TemplateInput is one raw template definition from the submitted batch.
// Tags arrive as a single comma-separated string, matching the admin form.
type TemplateInput struct {
	Name        string
	Prompt      string
	Description string
	Category    string
	Tags        string
	Preview     *Preview
}

// Validator checks a template batch and commits accepted preview assets to
// the storage collaborator.
type Validator struct {
	Previews storage.Store
}

// NewValidator constructs a Validator backed by the given preview store.
func NewValidator(previews storage.Store) *Validator {
	return &Validator{Previews: previews}
}

// Validate applies the bundle rules in order, first failure wins:
// non-empty bundle, required name and prompt per entry, tag parsing,
// category defaulting, preview acceptance. Output preserves input order.
func (v *Validator) Validate(ctx context.Context, inputs []TemplateInput) ([]domain.TemplateDraft, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyBundle
	}

	for i, in := range inputs {
		if strings.TrimSpace(in.Name) == "" {
			return nil, domain.NewTemplateValidationError(i, "name", "is required")
		}
		if strings.TrimSpace(in.Prompt) == "" {
			return nil, domain.NewTemplateValidationError(i, "prompt", "is required")
		}
	}

	drafts := make([]domain.TemplateDraft, 0, len(inputs))
	for _, in := range inputs {
		draft := domain.TemplateDraft{
			Name:        strings.TrimSpace(in.Name),
			Prompt:      in.Prompt,
			Description: strings.TrimSpace(in.Description),
			Category:    strings.TrimSpace(in.Category),
			Tags:        ParseTags(in.Tags),
		}
		if draft.Category == "" {
			draft.Category = domain.TemplateCategoryDefault
		}
		if in.Preview != nil {
			url, err := v.Previews.Put(ctx, storage.Object{
				Key:         previewKey(in.Preview.Filename),
				ContentType: in.Preview.ContentType,
				Data:        in.Preview.Data,
			})
			if err != nil {
				return nil, err
			}
			draft.PreviewURL = url
		}
		drafts = append(drafts, draft)
	}
	return drafts, nil
}

// ParseTags splits a comma-separated tag string, trims whitespace and
// discards empty entries, preserving order.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func previewKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return "previews/" + uuid.NewString() + ext
}
