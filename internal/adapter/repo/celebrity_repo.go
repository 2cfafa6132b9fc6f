package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// CelebrityRepositoryPG implements domain.CelebrityStore using PostgreSQL.
// Celebrities are owned by the wider platform; this repository only reads.
type CelebrityRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCelebrityRepository constructs a new celebrity repository instance.
func NewCelebrityRepository(pool *pgxpool.Pool) *CelebrityRepositoryPG {
	return &CelebrityRepositoryPG{pool: pool}
}

// GetCelebrity returns the celebrity by id.
func (r *CelebrityRepositoryPG) GetCelebrity(ctx context.Context, id string) (*domain.Celebrity, error) {
	var c domain.Celebrity
	err := r.pool.QueryRow(ctx, `
SELECT id, name, slug, image_url, category, created_at
FROM celebrities
WHERE id = $1;
`, id).Scan(&c.ID, &c.Name, &c.Slug, &c.ImageURL, &c.Category, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCelebrityNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListCelebrities returns every celebrity in name order.
func (r *CelebrityRepositoryPG) ListCelebrities(ctx context.Context) ([]domain.Celebrity, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, name, slug, image_url, category, created_at
FROM celebrities
ORDER BY name ASC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var celebrities []domain.Celebrity
	for rows.Next() {
		var c domain.Celebrity
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ImageURL, &c.Category, &c.CreatedAt); err != nil {
			return nil, err
		}
		celebrities = append(celebrities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return celebrities, nil
}

var _ domain.CelebrityStore = (*CelebrityRepositoryPG)(nil)
