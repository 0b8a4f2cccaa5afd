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

type generateImageRequest struct {
	BusinessID       string `json:"businessId"`
	Prompt           string `json:"prompt"`
	AspectRatio      string `json:"aspectRatio"`
	StyleID          string `json:"styleId"`
	SubjectID        string `json:"subjectId"`
	ModelTier        string `json:"modelTier"`
	Strategy         string `json:"strategy"`
	SubjectContext   string `json:"subjectContext"`
	StylePreset      string `json:"stylePreset"`
	Promotion        string `json:"promotion"`
	Benefits         string `json:"benefits"`
	TargetAudience   string `json:"targetAudience"`
	PreserveLikeness bool   `json:"preserveLikeness"`
}

type enqueueResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type jobJSON struct {
	ID            string     `json:"id"`
	BusinessID    string     `json:"businessId"`
	Status        string     `json:"status"`
	Stage         string     `json:"stage,omitempty"`
	Prompt        string     `json:"prompt"`
	AspectRatio   string     `json:"aspectRatio"`
	StyleID       string     `json:"styleId,omitempty"`
	SubjectID     string     `json:"subjectId,omitempty"`
	ModelTier     string     `json:"modelTier"`
	Strategy      string     `json:"strategy,omitempty"`
	ResultAssetID string     `json:"resultAssetId,omitempty"`
	ErrorMessage  string     `json:"errorMessage,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Asset         *assetJSON `json:"asset,omitempty"`
}

func jobToJSON(job *domain.GenerationJob) jobJSON {
	return jobJSON{
		ID:            job.ID,
		BusinessID:    job.BusinessID,
		Status:        string(job.Status),
		Stage:         string(job.Stage),
		Prompt:        job.Prompt,
		AspectRatio:   job.AspectRatio,
		StyleID:       job.StyleID,
		SubjectID:     job.SubjectID,
		ModelTier:     string(job.ModelTier),
		Strategy:      job.Strategy,
		ResultAssetID: job.ResultAssetID,
		ErrorMessage:  job.ErrorMessage,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
}

func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	var req generateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	req.BusinessID = strings.TrimSpace(req.BusinessID)
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.BusinessID == "" || req.Prompt == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "businessId and prompt are required")
		return
	}
	if _, err := uuid.Parse(req.BusinessID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "business not found")
		return
	}
	tier := domain.ModelTier(req.ModelTier)
	switch tier {
	case "":
		tier = domain.ModelTierStandard
	case domain.ModelTierStandard, domain.ModelTierPremium:
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported model tier")
		return
	}
	if req.AspectRatio == "" {
		req.AspectRatio = "1:1"
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
	job, err := a.Jobs.Enqueue(r.Context(), &domain.GenerationJob{
		BusinessID:  req.BusinessID,
		Prompt:      req.Prompt,
		AspectRatio: req.AspectRatio,
		StyleID:     req.StyleID,
		SubjectID:   req.SubjectID,
		ModelTier:   tier,
		Strategy:    req.Strategy,
		Context: domain.GenerationContext{
			SubjectContext:   req.SubjectContext,
			StylePreset:      req.StylePreset,
			Promotion:        req.Promotion,
			Benefits:         req.Benefits,
			TargetAudience:   req.TargetAudience,
			PreserveLikeness: req.PreserveLikeness,
		},
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientCredits) {
			a.error(w, http.StatusForbidden, "insufficient_credits", "credit balance is below the generation cost")
			return
		}
		a.Logger.Error().Err(err).Msg("enqueue job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create job")
		return
	}
	a.json(w, http.StatusOK, enqueueResponse{JobID: job.ID, Status: string(job.Status)})
}

func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "jobId")
	if _, err := uuid.Parse(jobID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "job not found")
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "job not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load job")
		return
	}
	out := jobToJSON(job)
	if job.Status == domain.JobStatusCompleted && job.ResultAssetID != "" {
		if asset, err := a.Assets.GetByID(r.Context(), job.ResultAssetID); err == nil {
			aj := assetToJSON(asset)
			out.Asset = &aj
		}
	}
	a.json(w, http.StatusOK, out)
}

func (a *App) PendingJobs(w http.ResponseWriter, r *http.Request) {
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
	jobs, err := a.Jobs.ListActiveByBusiness(r.Context(), businessID)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list active jobs failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list jobs")
		return
	}
	items := make([]jobJSON, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobToJSON(&jobs[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": items})
}

// DeleteJob removes the row no matter what state the job is in. In-flight
// work is not cancelled; the worker's terminal update will simply match zero
// rows.
func (a *App) DeleteJob(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	jobID := chi.URLParam(r, "jobId")
	if err := a.Jobs.Delete(r.Context(), jobID); err != nil {
		a.Logger.Error().Err(err).Msg("delete job failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to delete job")
		return
	}
	a.json(w, http.StatusOK, map[string]bool{"success": true})
}
