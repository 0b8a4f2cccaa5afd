package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/pkg/zip"
)

const (
	defaultAssetPageSize = 20
	maxAssetPageSize     = 100
	maxExportAssets      = 50
)

type assetJSON struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"businessId"`
	Kind        string    `json:"kind"`
	Content     string    `json:"content"`
	Prompt      string    `json:"prompt,omitempty"`
	AspectRatio string    `json:"aspectRatio,omitempty"`
	StylePreset string    `json:"stylePreset,omitempty"`
	StyleID     string    `json:"styleId,omitempty"`
	SubjectID   string    `json:"subjectId,omitempty"`
	ModelTier   string    `json:"modelTier,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func assetToJSON(a *domain.Asset) assetJSON {
	return assetJSON{
		ID:          a.ID,
		BusinessID:  a.BusinessID,
		Kind:        string(a.Kind),
		Content:     a.Content,
		Prompt:      a.Prompt,
		AspectRatio: a.AspectRatio,
		StylePreset: a.StylePreset,
		StyleID:     a.StyleID,
		SubjectID:   a.SubjectID,
		ModelTier:   string(a.ModelTier),
		CreatedAt:   a.CreatedAt,
	}
}

func (a *App) GetAsset(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	assetID := chi.URLParam(r, "assetId")
	if _, err := uuid.Parse(assetID); err != nil {
		a.error(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	asset, err := a.Assets.GetByID(r.Context(), assetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "asset not found")
			return
		}
		a.Logger.Error().Err(err).Msg("load asset failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load asset")
		return
	}
	a.json(w, http.StatusOK, assetToJSON(asset))
}

func (a *App) ListBusinessAssets(w http.ResponseWriter, r *http.Request) {
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
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = defaultAssetPageSize
	}
	if limit > maxAssetPageSize {
		limit = maxAssetPageSize
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}
	assets, err := a.Assets.ListByBusiness(r.Context(), businessID, limit, offset)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list assets failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to list assets")
		return
	}
	items := make([]assetJSON, 0, len(assets))
	for i := range assets {
		items = append(items, assetToJSON(&assets[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items, "limit": limit, "offset": offset})
}

// ExportBusinessAssets streams a zip of the business's most recent generated
// images. Objects that cannot be read locally are embedded as their URL so
// the archive still names every asset.
func (a *App) ExportBusinessAssets(w http.ResponseWriter, r *http.Request) {
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
	assets, err := a.Assets.ListByBusiness(r.Context(), businessID, maxExportAssets, 0)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list assets for export failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to export assets")
		return
	}
	var entries []zip.Asset
	for i := range assets {
		asset := &assets[i]
		entries = append(entries, zip.Asset{
			Filename: fmt.Sprintf("%s.png", asset.ID),
			MIME:     "image/png",
			Data:     a.loadAssetData(asset.Content),
		})
	}
	archive := zip.ArchiveAssets(entries)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=assets-%s.zip", businessID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

// loadAssetData maps a stored content URL back to bytes. URLs under the
// filesystem driver's base URL are read from the local storage directory;
// anything else stays a URL reference inside the archive.
func (a *App) loadAssetData(content string) []byte {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil
	}
	base := strings.TrimRight(a.Config.StorageBaseURL, "/")
	if base != "" && strings.HasPrefix(content, base+"/") {
		key := strings.TrimPrefix(content, base+"/")
		path := filepath.Join(a.Config.StoragePath, filepath.FromSlash(key))
		if data, err := os.ReadFile(path); err == nil {
			return data
		}
	}
	return []byte(content)
}
