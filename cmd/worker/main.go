package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/adapter/repo"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra/credentials"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/pipeline"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/prompt"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/gemini"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/image"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/social"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/references"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/storage"
)

const (
	jobPollInterval     = 2 * time.Second
	publishPollInterval = 15 * time.Second
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	sql := infra.NewSQLRunner(pool, logger)
	creds := credentials.NewStore(sql)

	businesses := repo.NewBusinessRepository(sql, cfg.SignupCreditGrant)
	jobs := repo.NewJobRepository(sql)
	assets := repo.NewAssetRepository(sql)
	posts := repo.NewPostRepository(sql)
	templates := repo.NewTemplateRepository(sql)
	usage := repo.NewUsageRepository(sql)

	store, err := buildStore(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	runner := &pipeline.Runner{
		Businesses:  businesses,
		Jobs:        jobs,
		Assets:      assets,
		Usage:       usage,
		Prompts:     prompt.NewEngine(templates, logger),
		References:  references.NewFetcher(cfg.ImageSourceAllowlist, cfg.MaxReferenceImageSize, logger),
		Generator:   buildImageGenerator(ctx, cfg, creds, logger),
		Store:       store,
		Logger:      logger,
		DebugBypass: cfg.DebugRenderBypass,
	}

	publisher := &pipeline.Publisher{
		Posts:      posts,
		Businesses: businesses,
		Assets:     assets,
		Usage:      usage,
		Social:     buildSocialClient(ctx, cfg, creds, logger),
		Logger:     logger,
	}

	workers := cfg.GenerationWorkers
	if workers < 1 {
		workers = 1
	}
	logger.Info().Int("workers", workers).Msg("worker: started")

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimLoop(ctx, jobs, runner, logger)
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		publishLoop(ctx, publisher, logger)
	}()

	<-ctx.Done()
	wg.Wait()
	logger.Info().Msg("worker: stopped")
}

// claimLoop pulls pending generation jobs until the context ends. An empty
// queue backs off for one poll interval.
func claimLoop(ctx context.Context, jobs domain.JobRepository, runner *pipeline.Runner, logger zerolog.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}
		job, err := jobs.Claim(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Error().Err(err).Msg("worker: claim failed")
			}
			pause(ctx, jobPollInterval)
			continue
		}
		runner.Process(ctx, job)
	}
}

func publishLoop(ctx context.Context, publisher *pipeline.Publisher, logger zerolog.Logger) {
	for {
		if ctx.Err() != nil {
			return
		}
		err := publisher.ProcessNext(ctx)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if !errors.Is(err, pipeline.ErrNoDuePost) {
			logger.Error().Err(err).Msg("worker: publish claim failed")
		}
		pause(ctx, publishPollInterval)
	}
}

func pause(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func buildStore(cfg *infra.Config) (storage.Store, error) {
	if cfg.StorageDriver == "bucket" {
		return storage.NewBucketStore(cfg.StorageEndpoint, cfg.StorageServiceKey, cfg.StorageBucket, nil)
	}
	path := cfg.StoragePath
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	return storage.NewFileStore(path, cfg.StorageBaseURL)
}

// buildImageGenerator falls back to local synthetic renders when no Gemini
// key is configured, so the queue keeps draining in dev environments.
func buildImageGenerator(ctx context.Context, cfg *infra.Config, creds *credentials.Store, logger zerolog.Logger) image.Generator {
	apiKey := strings.TrimSpace(cfg.GeminiAPIKey)
	if apiKey == "" {
		stored, err := creds.GeminiAPIKey(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("worker: read stored gemini key failed")
		}
		apiKey = stored
	}
	if apiKey == "" {
		logger.Warn().Msg("worker: no gemini api key configured, using synthetic renders")
		return image.NewSynthetic()
	}
	client, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:        apiKey,
		ImageModel:    cfg.GeminiImageModel,
		ImageModelPro: cfg.GeminiImageModelPro,
		Logger:        &logger,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("worker: gemini client init failed, using synthetic renders")
		return image.NewSynthetic()
	}
	return image.NewGeminiGenerator(client)
}

func buildSocialClient(ctx context.Context, cfg *infra.Config, creds *credentials.Store, logger zerolog.Logger) *social.Client {
	apiKey := strings.TrimSpace(cfg.SocialAPIKey)
	if apiKey == "" {
		stored, err := creds.HighLevelAPIKey(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("worker: read stored social key failed")
		}
		apiKey = stored
	}
	client, err := social.NewClient(social.Options{
		APIKey:     apiKey,
		BaseURL:    cfg.SocialBaseURL,
		APIVersion: cfg.SocialAPIVersion,
		Logger:     &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure social client")
	}
	if !client.HasCredentials() {
		logger.Warn().Msg("worker: no social api key configured, scheduled posts will fail to publish")
	}
	return client
}
