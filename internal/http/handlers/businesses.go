package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/prompt"
)

type businessRequest struct {
	Name             string                 `json:"name"`
	Tagline          string                 `json:"tagline"`
	BrandVoice       string                 `json:"brandVoice"`
	Colors           domain.BrandColors     `json:"colors"`
	Offerings        []string               `json:"offerings"`
	Hours            []string               `json:"hours"`
	Contact          domain.BusinessContact `json:"contact"`
	LogoURL          string                 `json:"logoUrl"`
	Compliance       string                 `json:"compliance"`
	Subjects         []domain.Subject       `json:"subjects"`
	Styles           []domain.Style         `json:"styles"`
	SocialLocationID string                 `json:"socialLocationId"`
}

type businessJSON struct {
	ID               string                 `json:"id"`
	Name             string                 `json:"name"`
	Tagline          string                 `json:"tagline,omitempty"`
	BrandVoice       string                 `json:"brandVoice,omitempty"`
	Colors           domain.BrandColors     `json:"colors"`
	Offerings        []string               `json:"offerings"`
	Hours            []string               `json:"hours"`
	Contact          domain.BusinessContact `json:"contact"`
	LogoURL          string                 `json:"logoUrl,omitempty"`
	Compliance       string                 `json:"compliance,omitempty"`
	Subjects         []domain.Subject       `json:"subjects"`
	Styles           []domain.Style         `json:"styles"`
	SocialLocationID string                 `json:"socialLocationId,omitempty"`
	CreditBalance    int                    `json:"creditBalance"`
	CreatedAt        time.Time              `json:"createdAt"`
	UpdatedAt        time.Time              `json:"updatedAt"`
}

func businessToJSON(b *domain.Business) businessJSON {
	out := businessJSON{
		ID:               b.ID,
		Name:             b.Name,
		Tagline:          b.Tagline,
		BrandVoice:       b.BrandVoice,
		Colors:           b.Colors,
		Offerings:        b.Offerings,
		Hours:            b.Hours,
		Contact:          b.Contact,
		LogoURL:          b.LogoURL,
		Compliance:       b.Compliance,
		Subjects:         b.Subjects,
		Styles:           b.Styles,
		SocialLocationID: b.SocialLocationID,
		CreditBalance:    b.CreditBalance,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
	if out.Offerings == nil {
		out.Offerings = []string{}
	}
	if out.Hours == nil {
		out.Hours = []string{}
	}
	if out.Subjects == nil {
		out.Subjects = []domain.Subject{}
	}
	if out.Styles == nil {
		out.Styles = []domain.Style{}
	}
	return out
}

func (req *businessRequest) toDomain() *domain.Business {
	b := &domain.Business{
		Name:             strings.TrimSpace(req.Name),
		Tagline:          req.Tagline,
		BrandVoice:       req.BrandVoice,
		Colors:           req.Colors,
		Offerings:        req.Offerings,
		Hours:            req.Hours,
		Contact:          req.Contact,
		LogoURL:          req.LogoURL,
		Compliance:       req.Compliance,
		Subjects:         req.Subjects,
		Styles:           req.Styles,
		SocialLocationID: req.SocialLocationID,
	}
	for i := range b.Subjects {
		if b.Subjects[i].ID == "" {
			b.Subjects[i].ID = uuid.NewString()
		}
	}
	for i := range b.Styles {
		if b.Styles[i].ID == "" {
			b.Styles[i].ID = uuid.NewString()
		}
	}
	return b
}

func (a *App) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req businessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	business := req.toDomain()
	business.OwnerID = userID
	if err := a.Businesses.Create(r.Context(), business); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			a.error(w, http.StatusConflict, "duplicate_business", "a business with this name already exists")
			return
		}
		a.Logger.Error().Err(err).Msg("create business failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create business")
		return
	}
	business.CreditBalance = a.Config.SignupCreditGrant
	a.json(w, http.StatusCreated, businessToJSON(business))
}

func (a *App) GetBusiness(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	businessID := chi.URLParam(r, "businessId")
	if _, err := uuid.Parse(businessID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "business not found")
		return
	}
	business, err := a.Businesses.GetByID(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "business not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load business failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load business")
		return
	}
	a.json(w, http.StatusOK, businessToJSON(business))
}

// UpdateBusiness replaces the brand profile. The credit balance and owner are
// not part of the payload and cannot be changed here.
func (a *App) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	businessID := chi.URLParam(r, "businessId")
	if _, err := uuid.Parse(businessID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "business not found")
		return
	}
	var req businessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name is required")
		return
	}
	business := req.toDomain()
	business.ID = businessID
	if err := a.Businesses.Update(r.Context(), business); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "business not found")
			return
		}
		a.Logger.Error().Err(err).Msg("update business failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to update business")
		return
	}
	fresh, err := a.Businesses.GetByID(r.Context(), businessID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("reload business failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load business")
		return
	}
	a.json(w, http.StatusOK, businessToJSON(fresh))
}

type creditEntryJSON struct {
	ID        string    `json:"id"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"`
	JobID     *string   `json:"jobId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func (a *App) BusinessCredits(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	businessID := chi.URLParam(r, "businessId")
	if _, err := uuid.Parse(businessID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "business not found")
		return
	}
	balance, err := a.Credits.Balance(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "business not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load balance failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load balance")
		return
	}
	entries, err := a.Credits.ListRecent(r.Context(), businessID, 50)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list ledger failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load ledger")
		return
	}
	items := make([]creditEntryJSON, 0, len(entries))
	for _, e := range entries {
		items = append(items, creditEntryJSON{
			ID:        e.ID,
			Delta:     e.Delta,
			Reason:    e.Reason,
			JobID:     e.JobID,
			CreatedAt: e.CreatedAt,
		})
	}
	a.json(w, http.StatusOK, map[string]any{"balance": balance, "entries": items})
}

type promptTemplateRequest struct {
	Template string `json:"template"`
	Active   *bool  `json:"active"`
}

func (a *App) GetPromptTemplate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	businessID := chi.URLParam(r, "businessId")
	if _, err := uuid.Parse(businessID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "business not found")
		return
	}
	body, err := a.Templates.Get(r.Context(), businessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "no template override configured")
			return
		}
		a.Logger.Error().Err(err).Msg("load template failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load template")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"template": body})
}

func (a *App) PutPromptTemplate(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	businessID := chi.URLParam(r, "businessId")
	if _, err := uuid.Parse(businessID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "business not found")
		return
	}
	var req promptTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := prompt.ValidateTemplate(req.Template); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_template", err.Error())
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	if err := a.Templates.Upsert(r.Context(), businessID, req.Template, active); err != nil {
		a.Logger.Error().Err(err).Msg("store template failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to store template")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}
