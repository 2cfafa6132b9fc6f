package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// RouterConfig carries the knobs the router needs beyond its handlers.
type RouterConfig struct {
	AdminJWTSecret  string
	CORSOrigins     []string
	DefaultLocale   string
	RateLimitPerMin int
	CountryLookup   middleware.CountryLookup

	// StaticDir, when set, is served under /static. The local storage
	// driver points preview URLs here.
	StaticDir string
}

// NewRouter assembles the full HTTP surface: the public campaign
// directory, the token redeem endpoint and the admin provisioning API.
func NewRouter(app *handlers.App, cfg RouterConfig) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(app.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.I18N(cfg.DefaultLocale, cfg.CountryLookup))

	r.Get("/v1/healthz", app.Health)

	if cfg.StaticDir != "" {
		fs := stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(cfg.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminAuth(cfg.AdminJWTSecret))
			r.Route("/campaigns", func(r chi.Router) {
				r.Post("/", app.CampaignsCreate)
				r.Get("/", app.CampaignsList)
				r.Delete("/{id}", app.CampaignsDelete)
				r.Patch("/{id}", app.CampaignsSetActive)
			})
		})

		r.Route("/campaigns/{slug}", func(r chi.Router) {
			r.Get("/", app.CampaignBySlug)
			r.Get("/templates", app.CampaignTemplates)
			r.With(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute)).
				Post("/redeem", app.CampaignRedeem)
		})

		r.Get("/celebrities/{id}", app.CelebrityByID)
	})

	return r
}
