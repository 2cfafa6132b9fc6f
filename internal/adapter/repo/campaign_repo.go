package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// CampaignRepositoryPG implements domain.CampaignStore using PostgreSQL.
// Creation and deletion run inside a single transaction; the token debit is
// one conditional UPDATE, so the balance check and the decrement are
// indivisible even under concurrent callers.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository constructs a new campaign repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

const uniqueViolation = "23505"

// CreateCampaign persists the campaign and its templates as one unit. Slug
// reservation rides on the unique indexes: a concurrent creation racing for
// the same slug loses the commit and surfaces SlugCollisionError.
func (r *CampaignRepositoryPG) CreateCampaign(ctx context.Context, campaign *domain.Campaign, templates []domain.Template) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM celebrities WHERE id = $1);
`, campaign.CelebrityID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrCelebrityNotFound
	}

	_, err = tx.Exec(ctx, `
INSERT INTO campaigns (id, name, slug, description, candidate_name, celebrity_id, tokens, total_generations, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`, campaign.ID, campaign.Name, campaign.Slug, campaign.Description, campaign.CandidateName,
		campaign.CelebrityID, campaign.Tokens, campaign.TotalGenerations, campaign.IsActive,
		campaign.CreatedAt, campaign.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.SlugCollisionError{Namespace: "campaigns", Slug: campaign.Slug}
		}
		return err
	}

	for _, t := range templates {
		_, err = tx.Exec(ctx, `
INSERT INTO campaign_templates (id, campaign_id, name, slug, prompt, description, category, tags, preview_url, position, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`, t.ID, t.CampaignID, t.Name, t.Slug, t.Prompt, t.Description, t.Category, t.Tags, t.PreviewURL, t.Position, t.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return &domain.SlugCollisionError{Namespace: campaign.Slug, Slug: t.Slug}
			}
			return err
		}
	}

	return tx.Commit(ctx)
}

// DeleteCampaign removes the campaign; templates cascade via the foreign
// key, so the whole unit is one statement.
func (r *CampaignRepositoryPG) DeleteCampaign(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `
DELETE FROM campaigns WHERE id = $1;
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DebitTokens performs the compare-balance-then-decrement as a single
// conditional update. Two racing debits against a balance that can satisfy
// only one resolve with exactly one winner.
func (r *CampaignRepositoryPG) DebitTokens(ctx context.Context, id string, amount int) (domain.LedgerSnapshot, error) {
	var snap domain.LedgerSnapshot
	err := r.pool.QueryRow(ctx, `
UPDATE campaigns
SET tokens = tokens - $2,
    total_generations = total_generations + 1,
    updated_at = now()
WHERE id = $1 AND tokens >= $2
RETURNING tokens, total_generations;
`, id, amount).Scan(&snap.Tokens, &snap.TotalGenerations)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.LedgerSnapshot{}, err
	}

	// The condition failed: either the campaign is gone or the balance is
	// short. This read only classifies the error.
	var exists bool
	if err := r.pool.QueryRow(ctx, `
SELECT EXISTS (SELECT 1 FROM campaigns WHERE id = $1);
`, id).Scan(&exists); err != nil {
		return domain.LedgerSnapshot{}, err
	}
	if !exists {
		return domain.LedgerSnapshot{}, domain.ErrNotFound
	}
	return domain.LedgerSnapshot{}, domain.ErrInsufficientTokens
}

// SetActive flips the active flag.
func (r *CampaignRepositoryPG) SetActive(ctx context.Context, id string, active bool) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE campaigns SET is_active = $2, updated_at = now() WHERE id = $1;
`, id, active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const campaignColumns = `id, name, slug, description, candidate_name, celebrity_id, tokens, total_generations, is_active, created_at, updated_at`

// GetCampaign returns the campaign by id.
func (r *CampaignRepositoryPG) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return r.getCampaign(ctx, `WHERE id = $1`, id)
}

// GetCampaignBySlug returns the campaign addressed by the public slug,
// regardless of its active state.
func (r *CampaignRepositoryPG) GetCampaignBySlug(ctx context.Context, slug string) (*domain.Campaign, error) {
	return r.getCampaign(ctx, `WHERE slug = $1`, slug)
}

func (r *CampaignRepositoryPG) getCampaign(ctx context.Context, where string, arg any) (*domain.Campaign, error) {
	var c domain.Campaign
	err := r.pool.QueryRow(ctx, `
SELECT `+campaignColumns+`
FROM campaigns
`+where+`;
`, arg).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CandidateName, &c.CelebrityID,
		&c.Tokens, &c.TotalGenerations, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListCampaigns returns all campaigns, newest first.
func (r *CampaignRepositoryPG) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+campaignColumns+`
FROM campaigns
ORDER BY created_at DESC, id DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CandidateName, &c.CelebrityID,
			&c.Tokens, &c.TotalGenerations, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// ListTemplates returns the campaign's templates in submission order.
func (r *CampaignRepositoryPG) ListTemplates(ctx context.Context, campaignID string) ([]domain.Template, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, campaign_id, name, slug, prompt, description, category, tags, preview_url, position, created_at
FROM campaign_templates
WHERE campaign_id = $1
ORDER BY position ASC;
`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.CampaignID, &t.Name, &t.Slug, &t.Prompt, &t.Description,
			&t.Category, &t.Tags, &t.PreviewURL, &t.Position, &t.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ domain.CampaignStore = (*CampaignRepositoryPG)(nil)
