// Package handlers implements the HTTP API. Handlers stay thin: decode,
// validate, call a repository or provider, encode. All business state lives
// behind the domain repositories.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/middleware"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/caption"
)

// App is the handler container. Every field is an interface or config so
// tests can swap in fakes.
type App struct {
	Config *infra.Config
	Logger zerolog.Logger

	Businesses domain.BusinessRepository
	Jobs       domain.JobRepository
	Assets     domain.AssetRepository
	Posts      domain.PostRepository
	Credits    domain.CreditRepository
	Templates  domain.TemplateRepository
	Usage      domain.UsageRepository

	Captions caption.Generator
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
