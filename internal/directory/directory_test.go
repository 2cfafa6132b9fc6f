package directory

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/ledger"
)

func newFixture(t *testing.T) (*Service, *ledger.Service, *repo.MemoryStore) {
	t.Helper()
	store := repo.NewMemoryStore()
	store.PutCelebrity(domain.Celebrity{ID: "celeb-1", Name: "Narendra Modi", Slug: "narendra-modi", Category: "politician"})
	return NewService(store, store), ledger.NewService(store, zerolog.Nop()), store
}

func create(t *testing.T, svc *ledger.Service, name string, drafts ...domain.TemplateDraft) *domain.Campaign {
	t.Helper()
	if len(drafts) == 0 {
		drafts = []domain.TemplateDraft{{Name: name + " Template", Prompt: "prompt", Category: "campaign"}}
	}
	campaign, err := svc.CreateCampaign(context.Background(), domain.CampaignMeta{
		Name:        name,
		CelebrityID: "celeb-1",
		Tokens:      100,
	}, drafts)
	require.NoError(t, err)
	return campaign
}

func TestCampaignBySlug(t *testing.T) {
	dir, led, _ := newFixture(t)
	created := create(t, led, "Modi 2024 Campaign")

	got, err := dir.CampaignBySlug(context.Background(), "modi-2024-campaign")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	// Reads are idempotent: no mutation in between means identical results.
	again, err := dir.CampaignBySlug(context.Background(), "modi-2024-campaign")
	require.NoError(t, err)
	assert.Equal(t, got, again)

	_, err = dir.CampaignBySlug(context.Background(), "unknown-slug")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCampaignBySlugResolvesInactive(t *testing.T) {
	dir, led, _ := newFixture(t)
	created := create(t, led, "Paused Campaign")

	require.NoError(t, led.SetActive(context.Background(), created.ID, false))

	got, err := dir.CampaignBySlug(context.Background(), created.Slug)
	require.NoError(t, err)
	assert.False(t, got.IsActive, "inactive state is observable, not a 404")
}

func TestTemplatesForCampaignOwnershipAndOrder(t *testing.T) {
	dir, led, _ := newFixture(t)
	first := create(t, led, "First Campaign",
		domain.TemplateDraft{Name: "Rally Portrait", Prompt: "p", Category: "campaign"},
		domain.TemplateDraft{Name: "Victory Speech", Prompt: "p", Category: "campaign"},
	)
	// Same template name in another campaign: slugs collide only within a
	// campaign's namespace.
	second := create(t, led, "Second Campaign",
		domain.TemplateDraft{Name: "Rally Portrait", Prompt: "p", Category: "campaign"},
	)

	templates, err := dir.TemplatesForCampaign(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, templates, 2)
	assert.Equal(t, "rally-portrait", templates[0].Slug)
	assert.Equal(t, "victory-speech", templates[1].Slug)
	for _, tmpl := range templates {
		assert.Equal(t, first.ID, tmpl.CampaignID)
	}

	others, err := dir.TemplatesForCampaign(context.Background(), second.ID)
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, second.ID, others[0].CampaignID)
}

func TestListCampaignsRecencyOrder(t *testing.T) {
	dir, led, _ := newFixture(t)
	create(t, led, "Older Campaign")
	create(t, led, "Newer Campaign")

	campaigns, err := dir.ListCampaigns(context.Background())
	require.NoError(t, err)
	require.Len(t, campaigns, 2)
	assert.Equal(t, "newer-campaign", campaigns[0].Slug)
	assert.Equal(t, "older-campaign", campaigns[1].Slug)
}

func TestCelebrityByID(t *testing.T) {
	dir, _, _ := newFixture(t)

	celebrity, err := dir.CelebrityByID(context.Background(), "celeb-1")
	require.NoError(t, err)
	assert.Equal(t, "Narendra Modi", celebrity.Name)

	_, err = dir.CelebrityByID(context.Background(), "celeb-2")
	assert.ErrorIs(t, err, domain.ErrCelebrityNotFound)
}
