package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"server/internal/bundle"
	"server/internal/domain"
	"server/internal/ledger"
	"server/internal/storage"
)

const maxCampaignFormBytes = 64 << 20

type campaignForm struct {
	Name          string `validate:"required"`
	Description   string
	CandidateName string
	CelebrityID   string `validate:"required"`
	Tokens        int    `validate:"gte=0"`
	IsActive      bool
}

type campaignResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description"`
	CandidateName    string    `json:"candidateName"`
	CelebrityID      string    `json:"celebrityId"`
	Tokens           int       `json:"tokens"`
	TotalGenerations int       `json:"totalGenerations"`
	FreeGenerations  int       `json:"freeGenerations"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type templateResponse struct {
	ID          string   `json:"id"`
	CampaignID  string   `json:"campaignId"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Prompt      string   `json:"prompt"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	PreviewURL  string   `json:"previewImage"`
}

func toCampaignResponse(c *domain.Campaign) campaignResponse {
	return campaignResponse{
		ID:               c.ID,
		Name:             c.Name,
		Slug:             c.Slug,
		Description:      c.Description,
		CandidateName:    c.CandidateName,
		CelebrityID:      c.CelebrityID,
		Tokens:           c.Tokens,
		TotalGenerations: c.TotalGenerations,
		FreeGenerations:  ledger.FreeGenerations(c.Tokens),
		IsActive:         c.IsActive,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func toTemplateResponse(t domain.Template) templateResponse {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return templateResponse{
		ID:          t.ID,
		CampaignID:  t.CampaignID,
		Name:        t.Name,
		Slug:        t.Slug,
		Prompt:      t.Prompt,
		Description: t.Description,
		Category:    t.Category,
		Tags:        tags,
		PreviewURL:  t.PreviewURL,
	}
}

// CampaignsCreate provisions a campaign with its template bundle from the
// admin dashboard's multipart form. Either everything lands or nothing does.
func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxCampaignFormBytes); err != nil {
		a.error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	form := campaignForm{
		Name:          r.FormValue("name"),
		Description:   r.FormValue("description"),
		CandidateName: r.FormValue("candidateName"),
		CelebrityID:   r.FormValue("celebrityId"),
		IsActive:      true,
	}
	if raw := r.FormValue("tokens"); raw != "" {
		tokens, err := strconv.Atoi(raw)
		if err != nil {
			a.domainError(w, domain.NewValidationError("tokens", "must be an integer"))
			return
		}
		form.Tokens = tokens
	}
	if raw := r.FormValue("isActive"); raw != "" {
		form.IsActive = raw == "true" || raw == "1"
	}

	if err := a.validate.Struct(form); err != nil {
		a.domainError(w, translateFormError(err))
		return
	}

	inputs, err := parseTemplateInputs(r.MultipartForm)
	if err != nil {
		a.domainError(w, err)
		return
	}

	drafts, err := a.Bundles.Validate(r.Context(), inputs)
	if err != nil {
		a.domainError(w, err)
		return
	}

	campaign, err := a.Ledger.CreateCampaign(r.Context(), domain.CampaignMeta{
		Name:          form.Name,
		Description:   form.Description,
		CandidateName: form.CandidateName,
		CelebrityID:   form.CelebrityID,
		Tokens:        form.Tokens,
		Paused:        !form.IsActive,
	}, drafts)
	if err != nil {
		a.domainError(w, err)
		return
	}

	templates, err := a.Directory.TemplatesForCampaign(r.Context(), campaign.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		items = append(items, toTemplateResponse(t))
	}

	a.json(w, http.StatusCreated, map[string]any{
		"campaign":  toCampaignResponse(campaign),
		"templates": items,
	})
}

// CampaignsList returns every campaign, newest first, for the admin
// dashboard.
func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Directory.ListCampaigns(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]campaignResponse, 0, len(campaigns))
	for i := range campaigns {
		items = append(items, toCampaignResponse(&campaigns[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CampaignsDelete tears down a campaign and all of its templates.
func (a *App) CampaignsDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Ledger.DeleteCampaign(r.Context(), id); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setActiveRequest struct {
	IsActive *bool `json:"isActive"`
}

// CampaignsSetActive pauses or resumes a campaign without touching its
// token pool.
func (a *App) CampaignsSetActive(w http.ResponseWriter, r *http.Request) {
	var req setActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		a.domainError(w, domain.NewValidationError("isActive", "is required"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := a.Ledger.SetActive(r.Context(), id, *req.IsActive); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"id": id, "isActive": *req.IsActive})
}

// CampaignBySlug resolves one campaign by its public slug. Paused
// campaigns resolve too; the client decides what to render.
func (a *App) CampaignBySlug(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Directory.CampaignBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignResponse(campaign))
}

// CampaignTemplates lists the templates owned by the campaign behind the
// slug, in submission order.
func (a *App) CampaignTemplates(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Directory.CampaignBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	templates, err := a.Directory.TemplatesForCampaign(r.Context(), campaign.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]templateResponse, 0, len(templates))
	for _, t := range templates {
		items = append(items, toTemplateResponse(t))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CampaignRedeem spends one generation's worth of tokens from the
// campaign's pool.
func (a *App) CampaignRedeem(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Directory.CampaignBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if !campaign.IsActive {
		a.error(w, http.StatusConflict, "campaign is paused")
		return
	}
	snapshot, err := a.Ledger.RedeemGeneration(r.Context(), campaign.ID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"tokens":           snapshot.Tokens,
		"totalGenerations": snapshot.TotalGenerations,
		"freeGenerations":  ledger.FreeGenerations(snapshot.Tokens),
	})
}

var templateFieldPattern = regexp.MustCompile(`^templates\[(\d+)\]\[([A-Za-z]+)\]$`)

// maxTemplatesPerBundle caps the template index the form may address.
// The decoded slice is sized by the largest index seen, so an unbounded
// value would let a single form field demand an arbitrary allocation.
const maxTemplatesPerBundle = 100

func templateIndex(raw string) (int, error) {
	i, err := strconv.Atoi(raw)
	if err != nil || i >= maxTemplatesPerBundle {
		return 0, domain.NewValidationError("templates",
			fmt.Sprintf("index must be below %d", maxTemplatesPerBundle))
	}
	return i, nil
}

// parseTemplateInputs reassembles the admin form's templates[i][field]
// encoding into ordered template inputs. Gaps in the index sequence come
// back as empty entries and fail validation at their position.
func parseTemplateInputs(form *multipart.Form) ([]bundle.TemplateInput, error) {
	if form == nil {
		return nil, nil
	}

	byIndex := map[int]*bundle.TemplateInput{}
	max := -1
	at := func(i int) *bundle.TemplateInput {
		if in, ok := byIndex[i]; ok {
			return in
		}
		in := &bundle.TemplateInput{}
		byIndex[i] = in
		if i > max {
			max = i
		}
		return in
	}

	for key, values := range form.Value {
		m := templateFieldPattern.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		i, err := templateIndex(m[1])
		if err != nil {
			return nil, err
		}
		in := at(i)
		switch m[2] {
		case "name":
			in.Name = values[0]
		case "prompt":
			in.Prompt = values[0]
		case "description":
			in.Description = values[0]
		case "category":
			in.Category = values[0]
		case "tags":
			in.Tags = values[0]
		}
	}

	for key, files := range form.File {
		m := templateFieldPattern.FindStringSubmatch(key)
		if m == nil || m[2] != "previewImage" || len(files) == 0 {
			continue
		}
		i, err := templateIndex(m[1])
		if err != nil {
			return nil, err
		}
		preview, err := readPreview(i, files[0])
		if err != nil {
			return nil, err
		}
		at(i).Preview = preview
	}

	inputs := make([]bundle.TemplateInput, max+1)
	for i, in := range byIndex {
		inputs[i] = *in
	}
	return inputs, nil
}

func readPreview(index int, header *multipart.FileHeader) (*bundle.Preview, error) {
	f, err := header.Open()
	if err != nil {
		return nil, domain.NewTemplateValidationError(index, "previewImage", "could not read upload")
	}
	defer f.Close()

	// One byte past the cap so oversized uploads are caught downstream
	// instead of silently truncated.
	data, err := io.ReadAll(io.LimitReader(f, storage.MaxPreviewBytes+1))
	if err != nil {
		return nil, domain.NewTemplateValidationError(index, "previewImage", "could not read upload")
	}
	return &bundle.Preview{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// translateFormError maps the struct validator's first failure onto the
// shared validation error shape.
func translateFormError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError("form", "invalid input")
	}
	fe := fieldErrs[0]
	field := formFieldName(fe.StructField())
	switch fe.Tag() {
	case "required":
		return domain.NewValidationError(field, "is required")
	case "gte":
		return domain.NewValidationError(field, "must be at least "+fe.Param())
	default:
		return domain.NewValidationError(field, "is invalid")
	}
}

func formFieldName(structField string) string {
	switch structField {
	case "Name":
		return "name"
	case "CelebrityID":
		return "celebrityId"
	case "Tokens":
		return "tokens"
	case "Description":
		return "description"
	case "CandidateName":
		return "candidateName"
	default:
		return structField
	}
}
