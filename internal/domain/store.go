package domain

import "context"

// CampaignStore persists campaigns and their templates. Implementations
// must make CreateCampaign and DeleteCampaign atomic across the campaign
// and its templates, and DebitTokens a single conditional update: a
// concurrent reader never observes a partially applied unit.
type CampaignStore interface {
	// CreateCampaign persists the campaign and its templates as one unit,
	// reserving the campaign slug globally and each template slug within
	// the campaign's namespace. It fails with ErrCelebrityNotFound when
	// the referenced celebrity does not exist and with SlugCollisionError
	// when a slug is already taken; nothing is persisted on failure.
	CreateCampaign(ctx context.Context, campaign *Campaign, templates []Template) error

	// DeleteCampaign removes the campaign and every template it owns as
	// one unit. ErrNotFound when the id is absent.
	DeleteCampaign(ctx context.Context, id string) error

	// DebitTokens atomically checks tokens >= amount, decrements the pool
	// and increments total_generations by one, returning the new snapshot.
	// ErrInsufficientTokens leaves the campaign untouched.
	DebitTokens(ctx context.Context, id string, amount int) (LedgerSnapshot, error)

	// SetActive flips the active flag. ErrNotFound when the id is absent.
	SetActive(ctx context.Context, id string, active bool) error

	GetCampaign(ctx context.Context, id string) (*Campaign, error)
	GetCampaignBySlug(ctx context.Context, slug string) (*Campaign, error)
	ListCampaigns(ctx context.Context) ([]Campaign, error)
	ListTemplates(ctx context.Context, campaignID string) ([]Template, error)
}

// CelebrityStore reads celebrities owned by the wider platform.
type CelebrityStore interface {
	GetCelebrity(ctx context.Context, id string) (*Celebrity, error)
	ListCelebrities(ctx context.Context) ([]Celebrity, error)
}
