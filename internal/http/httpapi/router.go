// Package httpapi assembles the chi router: public surface, middleware
// chain, and the authenticated /api group.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/http/handlers"
	appmw "github.com/IkonicR/ads-x-create-v2-sub001/internal/middleware"
)

// Options carries the router's cross-cutting dependencies.
type Options struct {
	Verifier      appmw.TokenVerifier
	CountryLookup appmw.CountryLookup
	DefaultLocale string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		appmw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		appmw.Logger(app.Logger),
	)

	// Public surface: probes, docs, and locally stored assets.
	r.Get("/healthz", app.Health)
	r.Get("/openapi.json", app.OpenAPIJSON)
	r.Get("/docs", app.OpenAPIDocs)
	if app.Config.StorageDriver == "filesystem" {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(app.Config.StoragePath)))
		r.Get("/static/*", fileServer.ServeHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(
			appmw.CORS(app.Config.CORSAllowedOrigins),
			appmw.RateLimit(app.Config.RateLimitPerMin, time.Minute),
			appmw.I18N(opts.DefaultLocale, opts.CountryLookup),
			appmw.AuthJWT(opts.Verifier),
		)

		r.Post("/generate-image", app.GenerateImage)
		r.Get("/generate-image/status/{jobId}", app.JobStatus)
		r.Get("/generate-image/pending/{businessId}", app.PendingJobs)
		r.Delete("/generate-image/job/{jobId}", app.DeleteJob)

		r.Post("/generate-caption", app.GenerateCaption)

		r.Route("/businesses", func(r chi.Router) {
			r.Post("/", app.CreateBusiness)
			r.Route("/{businessId}", func(r chi.Router) {
				r.Get("/", app.GetBusiness)
				r.Put("/", app.UpdateBusiness)
				r.Get("/credits", app.BusinessCredits)
				r.Get("/assets", app.ListBusinessAssets)
				r.Get("/assets/export", app.ExportBusinessAssets)
				r.Get("/social-posts", app.ListBusinessPosts)
				r.Get("/prompt-template", app.GetPromptTemplate)
				r.Put("/prompt-template", app.PutPromptTemplate)
			})
		})

		r.Route("/social-posts", func(r chi.Router) {
			r.Post("/", app.CreateSocialPost)
			r.Get("/{postId}", app.GetSocialPost)
			r.Delete("/{postId}", app.CancelSocialPost)
		})

		r.Get("/assets/{assetId}", app.GetAsset)
		r.Get("/stats/summary", app.StatsSummary)
		r.Get("/me", app.Me)
	})

	return r
}
