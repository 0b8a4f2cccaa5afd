package handlers

import (
	"net/http"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/middleware"
)

// Me echoes the authenticated request context. There is no local user table;
// identity comes entirely from the verified token.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	if userID == "" {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	a.json(w, http.StatusOK, map[string]string{
		"userId":  userID,
		"locale":  middleware.LocaleFromContext(r.Context()),
		"country": middleware.CountryFromContext(r.Context()),
	})
}
