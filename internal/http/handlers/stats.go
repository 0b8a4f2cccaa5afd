package handlers

import (
	"net/http"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	summary, err := a.Usage.Summary(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to load stats")
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"totalEvents":       summary.TotalEvents,
		"imagesGenerated":   summary.ImagesGenerated,
		"captionsGenerated": summary.CaptionsGenerated,
		"postsPublished":    summary.PostsPublished,
		"eventsLast24h":     summary.EventsLast24h,
		"failuresLast24h":   summary.FailuresLast24h,
	})
}
