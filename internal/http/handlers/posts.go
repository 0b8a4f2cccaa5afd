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
)

type socialPostRequest struct {
	BusinessID  string     `json:"businessId"`
	AssetID     string     `json:"assetId"`
	Caption     string     `json:"caption"`
	Platforms   []string   `json:"platforms"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

type postJSON struct {
	ID           string     `json:"id"`
	BusinessID   string     `json:"businessId"`
	AssetID      string     `json:"assetId,omitempty"`
	Caption      string     `json:"caption"`
	Platforms    []string   `json:"platforms"`
	ScheduledAt  *time.Time `json:"scheduledAt,omitempty"`
	Status       string     `json:"status"`
	ExternalID   string     `json:"externalId,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func postToJSON(p *domain.SocialPost) postJSON {
	out := postJSON{
		ID:           p.ID,
		BusinessID:   p.BusinessID,
		AssetID:      p.AssetID,
		Caption:      p.Caption,
		Platforms:    p.Platforms,
		ScheduledAt:  p.ScheduledAt,
		Status:       string(p.Status),
		ExternalID:   p.ExternalID,
		ErrorMessage: p.ErrorMessage,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if out.Platforms == nil {
		out.Platforms = []string{}
	}
	return out
}

// CreateSocialPost stores a draft, or a scheduled post when scheduledAt is
// set. Scheduled posts are picked up by the publish loop once due; drafts sit
// until rescheduled or cancelled.
func (a *App) CreateSocialPost(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req socialPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.Caption = strings.TrimSpace(req.Caption)
	if req.BusinessID == "" || req.Caption == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "businessId and caption are required")
		return
	}
	if len(req.Platforms) == 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "at least one platform is required")
		return
	}
	if _, err := uuid.Parse(req.BusinessID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "business not found")
		return
	}
	if _, err := a.Businesses.GetByID(r.Context(), req.BusinessID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "business not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load business failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load business")
		return
	}
	if req.AssetID != "" {
		if _, err := a.Assets.GetByID(r.Context(), req.AssetID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				a.error(w, http.StatusNotFound, "not_found", "asset not found")
				return
			}
			a.Logger.Error().Err(err).Msg("load asset failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to load asset")
			return
		}
	}
	status := domain.PostStatusDraft
	if req.ScheduledAt != nil {
		status = domain.PostStatusScheduled
	}
	post := &domain.SocialPost{
		BusinessID:  req.BusinessID,
		AssetID:     req.AssetID,
		Caption:     req.Caption,
		Platforms:   req.Platforms,
		ScheduledAt: req.ScheduledAt,
		Status:      status,
	}
	if err := a.Posts.Create(r.Context(), post); err != nil {
		a.Logger.Error().Err(err).Msg("create post failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create post")
		return
	}
	a.json(w, http.StatusCreated, postToJSON(post))
}

func (a *App) GetSocialPost(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	postID := chi.URLParam(r, "postId")
	if _, err := uuid.Parse(postID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "post not found")
		return
	}
	post, err := a.Posts.GetByID(r.Context(), postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "post not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load post failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load post")
		return
	}
	a.json(w, http.StatusOK, postToJSON(post))
}

func (a *App) ListBusinessPosts(w http.ResponseWriter, r *http.Request) {
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
	posts, err := a.Posts.ListByBusiness(r.Context(), businessID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list posts failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list posts")
		return
	}
	items := make([]postJSON, 0, len(posts))
	for i := range posts {
		items = append(items, postToJSON(&posts[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// CancelSocialPost deletes a post that has not reached the publisher yet.
// Posts already publishing or published stay for the audit trail.
func (a *App) CancelSocialPost(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	postID := chi.URLParam(r, "postId")
	if _, err := uuid.Parse(postID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "post not found")
		return
	}
	if err := a.Posts.Cancel(r.Context(), postID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "not_found", "post not found")
		case errors.Is(err, domain.ErrNotCancelable):
			a.error(w, http.StatusConflict, "not_cancelable", "post is already publishing or published")
		default:
			a.Logger.Error().Err(err).Msg("cancel post failed")
			a.error(w, http.StatusInternalServerError, "internal", "failed to cancel post")
		}
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}
