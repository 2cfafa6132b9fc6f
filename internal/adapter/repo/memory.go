package repo

import (
	"context"
	"sort"
	"sync"

	"server/internal/domain"
)

// MemoryStore is an in-memory implementation of domain.CampaignStore and
// domain.CelebrityStore. It backs local development (STORE_DRIVER=memory)
// and the test suites; a single mutex gives each operation the same
// all-or-nothing semantics the SQL implementation gets from transactions.
type MemoryStore struct {
	mu          sync.Mutex
	celebrities map[string]domain.Celebrity
	campaigns   map[string]domain.Campaign
	bySlug      map[string]string            // campaign slug -> id
	templates   map[string][]domain.Template // campaign id -> owned templates
	seq         int64                        // insertion order tiebreaker for listings
	order       map[string]int64
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		celebrities: make(map[string]domain.Celebrity),
		campaigns:   make(map[string]domain.Campaign),
		bySlug:      make(map[string]string),
		templates:   make(map[string][]domain.Template),
		order:       make(map[string]int64),
	}
}

// PutCelebrity registers a celebrity. Celebrities are managed outside the
// engine, so this is a seeding hook, not part of the store contract.
func (s *MemoryStore) PutCelebrity(c domain.Celebrity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.celebrities[c.ID] = c
}

// CreateCampaign persists the campaign and its templates as one unit.
func (s *MemoryStore) CreateCampaign(ctx context.Context, campaign *domain.Campaign, templates []domain.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.celebrities[campaign.CelebrityID]; !ok {
		return domain.ErrCelebrityNotFound
	}
	if _, taken := s.bySlug[campaign.Slug]; taken {
		return &domain.SlugCollisionError{Namespace: "campaigns", Slug: campaign.Slug}
	}
	seen := make(map[string]struct{}, len(templates))
	for _, t := range templates {
		if _, dup := seen[t.Slug]; dup {
			return &domain.SlugCollisionError{Namespace: campaign.Slug, Slug: t.Slug}
		}
		seen[t.Slug] = struct{}{}
	}

	s.campaigns[campaign.ID] = *campaign
	s.bySlug[campaign.Slug] = campaign.ID
	s.templates[campaign.ID] = copyTemplates(templates)
	s.seq++
	s.order[campaign.ID] = s.seq
	return nil
}

// DeleteCampaign removes the campaign and every template it owns.
func (s *MemoryStore) DeleteCampaign(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(s.campaigns, id)
	delete(s.bySlug, campaign.Slug)
	delete(s.templates, id)
	delete(s.order, id)
	return nil
}

// DebitTokens checks and decrements the balance under the store lock, so
// concurrent debits serialize and exactly one wins a contested balance.
func (s *MemoryStore) DebitTokens(ctx context.Context, id string, amount int) (domain.LedgerSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return domain.LedgerSnapshot{}, domain.ErrNotFound
	}
	if campaign.Tokens < amount {
		return domain.LedgerSnapshot{}, domain.ErrInsufficientTokens
	}
	campaign.Tokens -= amount
	campaign.TotalGenerations++
	s.campaigns[id] = campaign
	return domain.LedgerSnapshot{Tokens: campaign.Tokens, TotalGenerations: campaign.TotalGenerations}, nil
}

// SetActive flips the active flag.
func (s *MemoryStore) SetActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return domain.ErrNotFound
	}
	campaign.IsActive = active
	s.campaigns[id] = campaign
	return nil
}

// GetCampaign returns the campaign by id.
func (s *MemoryStore) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, ok := s.campaigns[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &campaign, nil
}

// GetCampaignBySlug returns the campaign addressed by slug, regardless of
// its active state.
func (s *MemoryStore) GetCampaignBySlug(ctx context.Context, slug string) (*domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	campaign := s.campaigns[id]
	return &campaign, nil
}

// ListCampaigns returns all campaigns, newest first.
func (s *MemoryStore) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaigns := make([]domain.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		campaigns = append(campaigns, c)
	}
	sort.Slice(campaigns, func(i, j int) bool {
		return s.order[campaigns[i].ID] > s.order[campaigns[j].ID]
	})
	return campaigns, nil
}

// ListTemplates returns the campaign's templates in submission order. A
// deleted or unknown campaign yields an empty sequence, never another
// campaign's templates.
func (s *MemoryStore) ListTemplates(ctx context.Context, campaignID string) ([]domain.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyTemplates(s.templates[campaignID]), nil
}

// GetCelebrity returns the celebrity by id.
func (s *MemoryStore) GetCelebrity(ctx context.Context, id string) (*domain.Celebrity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	celebrity, ok := s.celebrities[id]
	if !ok {
		return nil, domain.ErrCelebrityNotFound
	}
	return &celebrity, nil
}

// ListCelebrities returns every celebrity in name order.
func (s *MemoryStore) ListCelebrities(ctx context.Context) ([]domain.Celebrity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	celebrities := make([]domain.Celebrity, 0, len(s.celebrities))
	for _, c := range s.celebrities {
		celebrities = append(celebrities, c)
	}
	sort.Slice(celebrities, func(i, j int) bool { return celebrities[i].Name < celebrities[j].Name })
	return celebrities, nil
}

func copyTemplates(templates []domain.Template) []domain.Template {
	out := make([]domain.Template, len(templates))
	for i, t := range templates {
		out[i] = t
		out[i].Tags = append([]string(nil), t.Tags...)
	}
	return out
}

var (
	_ domain.CampaignStore  = (*MemoryStore)(nil)
	_ domain.CelebrityStore = (*MemoryStore)(nil)
)
