// Package ledger owns campaign records and their token accounting.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/slug"
)

// ExchangeRate is the number of tokens one generation costs. It is owned by
// the ledger, not configurable per campaign.
const ExchangeRate = 10

// FreeGenerations reports how many free generations a token balance buys.
// Always computed at read time, never stored.
func FreeGenerations(tokens int) int {
	return tokens / ExchangeRate
}

// Service enforces the campaign lifecycle and token invariants on top of a
// CampaignStore. Atomicity of each unit is delegated to the store.
type Service struct {
	store  domain.CampaignStore
	logger zerolog.Logger
}

// NewService constructs a ledger service.
func NewService(store domain.CampaignStore, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// CreateCampaign provisions a campaign and its validated template bundle as
// one atomic unit. On any failure nothing is persisted: no partial
// campaign, no orphaned templates.
func (s *Service) CreateCampaign(ctx context.Context, meta domain.CampaignMeta, drafts []domain.TemplateDraft) (*domain.Campaign, error) {
	if strings.TrimSpace(meta.Name) == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if strings.TrimSpace(meta.CelebrityID) == "" {
		return nil, domain.NewValidationError("celebrityId", "is required")
	}
	if len(drafts) == 0 {
		return nil, domain.ErrEmptyBundle
	}

	campaignSlug, err := slug.Derive(meta.Name)
	if err != nil {
		return nil, fmt.Errorf("campaign name %q: %w", meta.Name, err)
	}

	if meta.Tokens < 0 {
		return nil, domain.NewValidationError("tokens", "must not be negative")
	}

	now := time.Now().UTC()
	campaign := &domain.Campaign{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(meta.Name),
		Slug:             campaignSlug,
		Description:      meta.Description,
		CandidateName:    meta.CandidateName,
		CelebrityID:      meta.CelebrityID,
		Tokens:           meta.Tokens,
		TotalGenerations: 0,
		IsActive:         !meta.Paused,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	templates := make([]domain.Template, 0, len(drafts))
	seen := make(map[string]struct{}, len(drafts))
	for i, draft := range drafts {
		templateSlug, err := slug.Derive(draft.Name)
		if err != nil {
			return nil, fmt.Errorf("templates[%d] name %q: %w", i, draft.Name, err)
		}
		if _, dup := seen[templateSlug]; dup {
			return nil, &domain.SlugCollisionError{Namespace: campaignSlug, Slug: templateSlug}
		}
		seen[templateSlug] = struct{}{}
		templates = append(templates, domain.Template{
			ID:          uuid.NewString(),
			CampaignID:  campaign.ID,
			Name:        draft.Name,
			Slug:        templateSlug,
			Prompt:      draft.Prompt,
			Description: draft.Description,
			Category:    draft.Category,
			Tags:        draft.Tags,
			PreviewURL:  draft.PreviewURL,
			Position:    i,
			CreatedAt:   now,
		})
	}

	if err := s.store.CreateCampaign(ctx, campaign, templates); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("campaign_id", campaign.ID).
		Str("slug", campaign.Slug).
		Int("tokens", campaign.Tokens).
		Int("templates", len(templates)).
		Msg("campaign created")
	return campaign, nil
}

// DeleteCampaign removes the campaign and cascades to every template it
// owns as one unit.
func (s *Service) DeleteCampaign(ctx context.Context, id string) error {
	if err := s.store.DeleteCampaign(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("campaign_id", id).Msg("campaign deleted")
	return nil
}

// DebitTokens charges amount tokens against the campaign's pool and counts
// one generation. Debits that would drive the balance negative are
// rejected, not clamped.
func (s *Service) DebitTokens(ctx context.Context, id string, amount int) (domain.LedgerSnapshot, error) {
	if amount <= 0 {
		return domain.LedgerSnapshot{}, domain.NewValidationError("amount", "must be positive")
	}
	snap, err := s.store.DebitTokens(ctx, id, amount)
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}
	s.logger.Debug().
		Str("campaign_id", id).
		Int("amount", amount).
		Int("tokens", snap.Tokens).
		Msg("tokens debited")
	return snap, nil
}

// RedeemGeneration debits exactly one generation's worth of tokens.
func (s *Service) RedeemGeneration(ctx context.Context, id string) (domain.LedgerSnapshot, error) {
	return s.DebitTokens(ctx, id, ExchangeRate)
}

// SetActive toggles the campaign between its active and inactive states.
func (s *Service) SetActive(ctx context.Context, id string, active bool) error {
	if err := s.store.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info().Str("campaign_id", id).Bool("active", active).Msg("campaign active flag updated")
	return nil
}
