package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type celebrityResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	ImageURL  string    `json:"imageUrl"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCelebrityResponse(c *domain.Celebrity) celebrityResponse {
	return celebrityResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		ImageURL:  c.ImageURL,
		Category:  c.Category,
		CreatedAt: c.CreatedAt,
	}
}

// CelebrityByID resolves the public figure a campaign page personalizes
// its generations around.
func (a *App) CelebrityByID(w http.ResponseWriter, r *http.Request) {
	celebrity, err := a.Directory.CelebrityByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCelebrityResponse(celebrity))
}
