package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/middleware"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/caption"
)

type generateCaptionRequest struct {
	BusinessID string `json:"businessId"`
	Topic      string `json:"topic"`
	Platform   string `json:"platform"`
	Tone       string `json:"tone"`
	AssetID    string `json:"assetId"`
}

type generateCaptionResponse struct {
	Caption  string   `json:"caption"`
	Hashtags []string `json:"hashtags"`
	Locale   string   `json:"locale"`
}

// GenerateCaption is synchronous: caption calls are fast enough that the job
// queue would only add latency.
func (a *App) GenerateCaption(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req generateCaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	if req.BusinessID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "businessId is required")
		return
	}
	if _, err := uuid.Parse(req.BusinessID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "business not found")
		return
	}
	business, err := a.Businesses.GetByID(r.Context(), req.BusinessID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "business not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load business failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load business")
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" && req.AssetID != "" {
		if asset, err := a.Assets.GetByID(r.Context(), req.AssetID); err == nil {
			topic = asset.Prompt
		}
	}
	locale := middleware.LocaleFromContext(r.Context())
	start := time.Now()
	result, err := a.Captions.Generate(r.Context(), caption.Request{
		Business: business,
		Topic:    topic,
		Platform: req.Platform,
		Tone:     req.Tone,
		Locale:   locale,
	})
	a.recordCaptionUsage(r, business.ID, err == nil, time.Since(start))
	if err != nil {
		a.Logger.Error().Err(err).Msg("caption generation failed")
		a.error(w, http.StatusBadGateway, "provider_failure", "caption provider failed")
		return
	}
	a.json(w, http.StatusOK, generateCaptionResponse{
		Caption:  result.Caption,
		Hashtags: result.Hashtags,
		Locale:   result.Locale,
	})
}

func (a *App) recordCaptionUsage(r *http.Request, businessID string, success bool, latency time.Duration) {
	ev := &domain.UsageEvent{
		BusinessID: businessID,
		EventType:  domain.UsageEventCaptionGeneration,
		Success:    success,
		LatencyMS:  latency.Milliseconds(),
		Country:    middleware.CountryFromContext(r.Context()),
	}
	if err := a.Usage.Insert(r.Context(), ev); err != nil {
		a.Logger.Warn().Err(err).Msg("record caption usage failed")
	}
}
