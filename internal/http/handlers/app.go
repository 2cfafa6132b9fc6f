package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"server/internal/bundle"
	"server/internal/directory"
	"server/internal/domain"
	"server/internal/ledger"
)

// App carries the collaborators every handler needs.
type App struct {
	Logger    zerolog.Logger
	Ledger    *ledger.Service
	Directory *directory.Service
	Bundles   *bundle.Validator

	validate *validator.Validate
}

// NewApp wires the handler container.
func NewApp(logger zerolog.Logger, led *ledger.Service, dir *directory.Service, bundles *bundle.Validator) *App {
	return &App{
		Logger:    logger,
		Ledger:    led,
		Directory: dir,
		Bundles:   bundles,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Index   *int   `json:"index,omitempty"`
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, errorBody{Message: message})
}

// domainError translates the service error taxonomy to HTTP. Unknown
// errors are logged and masked as 500 so internals never leak.
func (a *App) domainError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		collision  *domain.SlugCollisionError
		rejected   *domain.StorageRejectedError
	)
	switch {
	case errors.As(err, &validation):
		body := errorBody{Message: validation.Msg, Field: validation.Field}
		if validation.Index >= 0 {
			idx := validation.Index
			body.Index = &idx
		}
		a.json(w, http.StatusBadRequest, body)
	case errors.Is(err, domain.ErrEmptyBundle):
		a.error(w, http.StatusBadRequest, "at least one template is required")
	case errors.Is(err, domain.ErrEmptySlug):
		a.error(w, http.StatusBadRequest, "name does not yield a usable slug")
	case errors.As(err, &collision):
		a.error(w, http.StatusConflict, collision.Error())
	case errors.Is(err, domain.ErrCelebrityNotFound):
		a.error(w, http.StatusNotFound, "celebrity not found")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInsufficientTokens):
		a.error(w, http.StatusPaymentRequired, "insufficient tokens")
	case errors.As(err, &rejected):
		a.error(w, http.StatusUnprocessableEntity, rejected.Error())
	default:
		a.Logger.Error().Err(err).Msg("unhandled handler error")
		a.error(w, http.StatusInternalServerError, "internal error")
	}
}
