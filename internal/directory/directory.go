// Package directory serves public and administrative lookups of campaigns,
// their bound celebrity and their exclusive template set.
package directory

import (
	"context"

	"server/internal/domain"
)

// Service resolves read paths. It never mutates state.
type Service struct {
	campaigns   domain.CampaignStore
	celebrities domain.CelebrityStore
}

// NewService constructs a directory service.
func NewService(campaigns domain.CampaignStore, celebrities domain.CelebrityStore) *Service {
	return &Service{campaigns: campaigns, celebrities: celebrities}
}

// CampaignBySlug resolves a campaign by its public slug. Inactive campaigns
// still resolve: deactivation and absence are distinct, observable states,
// and an administrator previews inactive pages through the same URL.
func (s *Service) CampaignBySlug(ctx context.Context, slug string) (*domain.Campaign, error) {
	return s.campaigns.GetCampaignBySlug(ctx, slug)
}

// TemplatesForCampaign returns the templates owned by the campaign in their
// submission order. Templates belonging to other campaigns are never
// returned, even when names collide.
func (s *Service) TemplatesForCampaign(ctx context.Context, campaignID string) ([]domain.Template, error) {
	return s.campaigns.ListTemplates(ctx, campaignID)
}

// ListCampaigns returns every campaign in recency order. Administrative
// view only.
func (s *Service) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns.ListCampaigns(ctx)
}

// CelebrityByID is a passthrough read of the externally managed celebrity.
func (s *Service) CelebrityByID(ctx context.Context, id string) (*domain.Celebrity, error) {
	return s.celebrities.GetCelebrity(ctx, id)
}
