package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/adapter/repo"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/db"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/http/handlers"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/http/httpapi"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra/credentials"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra/geoip"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra/jwks"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/middleware"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/caption"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/gemini"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("failed to apply migrations")
	}

	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sql := infra.NewSQLRunner(dbpool, logger)
	creds := credentials.NewStore(sql)

	app := &handlers.App{
		Config:     cfg,
		Logger:     logger,
		Businesses: repo.NewBusinessRepository(sql, cfg.SignupCreditGrant),
		Jobs:       repo.NewJobRepository(sql),
		Assets:     repo.NewAssetRepository(sql),
		Posts:      repo.NewPostRepository(sql),
		Credits:    repo.NewCreditRepository(sql),
		Templates:  repo.NewTemplateRepository(sql),
		Usage:      repo.NewUsageRepository(sql),
		Captions:   buildCaptionGenerator(ctx, cfg, creds, logger),
	}

	opts := httpapi.Options{
		Verifier:      buildVerifier(cfg),
		DefaultLocale: "en",
	}
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, country detection uses headers only")
	} else if resolver != nil {
		opts.CountryLookup = resolver.CountryCode
	}

	router := httpapi.NewRouter(app, opts)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// buildCaptionGenerator prefers the Gemini-backed generator. Without an API
// key in the environment or the integration token store, captions come from
// the static templates.
func buildCaptionGenerator(ctx context.Context, cfg *infra.Config, creds *credentials.Store, logger zerolog.Logger) caption.Generator {
	fallback := caption.NewStaticGenerator()
	apiKey := cfg.GeminiAPIKey
	if apiKey == "" {
		stored, err := creds.GeminiAPIKey(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("read stored gemini key failed")
		}
		apiKey = stored
	}
	if apiKey == "" {
		logger.Warn().Msg("no gemini api key configured, captions use static copy")
		return fallback
	}
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:    apiKey,
		TextModel: cfg.GeminiTextModel,
		Logger:    &logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("gemini client init failed, captions use static copy")
		return fallback
	}
	return caption.NewGeminiGenerator(client, fallback, logger)
}

// buildVerifier assembles the token verifier from config. A shared HS256
// secret and a JWKS URL can both be active; the first to accept wins.
func buildVerifier(cfg *infra.Config) middleware.TokenVerifier {
	var verifiers []middleware.TokenVerifier
	if cfg.JWTSecret != "" {
		verifiers = append(verifiers, middleware.HSVerifier{Secret: cfg.JWTSecret})
	}
	if cfg.AuthJWKSURL != "" {
		verifiers = append(verifiers, middleware.JWKSVerifier{
			Source: jwks.NewVerifier(cfg.AuthJWKSURL, cfg.AuthIssuer, cfg.AuthAudience),
		})
	}
	return middleware.ChainVerifier(verifiers...)
}
