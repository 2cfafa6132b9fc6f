package domain

import "time"

// Celebrity is the public figure a campaign personalizes generations around.
// Celebrities are managed outside this service; the engine only reads them.
type Celebrity struct {
	ID        string
	Name      string
	Slug      string
	ImageURL  string
	Category  string
	CreatedAt time.Time
}

// Campaign is the root aggregate: a sponsor-scoped bundle granting a shared
// token pool and an exclusive template set, addressable by a public slug.
type Campaign struct {
	ID               string
	Name             string
	Slug             string
	Description      string
	CandidateName    string
	CelebrityID      string
	Tokens           int
	TotalGenerations int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Template is a prompt pattern owned by exactly one campaign. Its slug is
// unique within the owning campaign's namespace, never globally.
type Template struct {
	ID          string
	CampaignID  string
	Name        string
	Slug        string
	Prompt      string
	Description string
	Category    string
	Tags        []string
	PreviewURL  string
	Position    int
	CreatedAt   time.Time
}

// TemplateCategoryDefault is applied when a submitted template leaves the
// category blank.
const TemplateCategoryDefault = "campaign"

// CelebNamePlaceholder is the marker inside a template prompt that the
// downstream generation pipeline substitutes with the celebrity's name.
const CelebNamePlaceholder = "{{celeb_name}}"

// CampaignMeta carries the campaign fields an administrator submits.
// Paused inverts the usual default so the zero value still creates an
// active campaign.
type CampaignMeta struct {
	Name          string
	Description   string
	CandidateName string
	CelebrityID   string
	Tokens        int
	Paused        bool
}

// TemplateDraft is a validated template definition ready to be bound to a
// campaign. Drafts only exist between bundle validation and the atomic
// commit; they carry no identity yet.
type TemplateDraft struct {
	Name        string
	Prompt      string
	Description string
	Category    string
	Tags        []string
	PreviewURL  string
}

// LedgerSnapshot is the post-debit view of a campaign's counters.
type LedgerSnapshot struct {
	Tokens           int
	TotalGenerations int
}
