// Package pipeline executes claimed generation jobs: prompt assembly,
// reference resolution, the model call, object storage, and the terminal
// status write. The claim loops in cmd/worker feed it.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/prompt"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/image"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/references"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/storage"
)

const (
	// DebugPromptPrefix short-circuits the model call when debug renders
	// are enabled. The match is case-insensitive.
	DebugPromptPrefix = "debug:"

	// DebugPlaceholderURL is recorded as the asset content for bypassed
	// renders.
	DebugPlaceholderURL = "https://placehold.co/1024x1024/png?text=ADX+Debug+Render"

	// ModelCallTimeout bounds a single model invocation. There is no retry;
	// a timed-out job fails and the user resubmits.
	ModelCallTimeout = 40 * time.Second
)

// Runner processes one claimed generation job to a terminal state.
type Runner struct {
	Businesses domain.BusinessRepository
	Jobs       domain.JobRepository
	Assets     domain.AssetRepository
	Usage      domain.UsageRepository

	Prompts    *prompt.Engine
	References *references.Fetcher
	Generator  image.Generator
	Store      storage.Store

	Logger      zerolog.Logger
	DebugBypass bool

	// ModelTimeout overrides ModelCallTimeout when positive.
	ModelTimeout time.Duration

	// Now feeds object keys and ticket ids. Defaults to time.Now.
	Now func() time.Time
}

// Process runs the job and persists the outcome. The row is terminal when it
// returns; failures are written best-effort and logged.
func (r *Runner) Process(ctx context.Context, job *domain.GenerationJob) {
	start := time.Now()
	err := r.run(ctx, job)
	if err != nil {
		r.Logger.Error().Err(err).Str("job_id", job.ID).Msg("worker: generation failed")
		if failErr := r.Jobs.Fail(ctx, job.ID, err.Error()); failErr != nil {
			r.Logger.Error().Err(failErr).Str("job_id", job.ID).Msg("worker: recording failure failed")
		}
	}
	r.recordUsage(ctx, job, err == nil, time.Since(start))
}

func (r *Runner) run(ctx context.Context, job *domain.GenerationJob) error {
	business, err := r.Businesses.GetByID(ctx, job.BusinessID)
	if err != nil {
		return fmt.Errorf("load business: %w", err)
	}

	r.setStage(ctx, job.ID, domain.JobStageBuildingPrompt)

	var subject *domain.Subject
	if job.SubjectID != "" {
		if s, ok := business.SubjectByID(job.SubjectID); ok {
			subject = &s
		} else {
			r.Logger.Debug().Str("job_id", job.ID).Str("subject_id", job.SubjectID).Msg("worker: subject not on business, ignoring")
		}
	}
	var style *domain.Style
	if job.StyleID != "" {
		if s, ok := business.StyleByID(job.StyleID); ok {
			style = &s
		} else {
			r.Logger.Debug().Str("job_id", job.ID).Str("style_id", job.StyleID).Msg("worker: style not on business, ignoring")
		}
	}

	rendered := r.Prompts.Render(ctx, prompt.TicketInput{
		Business:    business,
		Request:     job.Prompt,
		AspectRatio: job.AspectRatio,
		Strategy:    job.Strategy,
		Subject:     subject,
		Style:       style,
		Context:     job.Context,
		IssuedAt:    r.clock(),
	})

	stylePreset := job.Context.StylePreset
	if stylePreset == "" && style != nil {
		stylePreset = style.Preset
	}

	if r.DebugBypass && strings.HasPrefix(strings.ToLower(strings.TrimSpace(job.Prompt)), DebugPromptPrefix) {
		return r.completeWith(ctx, job, stylePreset, DebugPlaceholderURL, "debug render bypass")
	}

	r.setStage(ctx, job.ID, domain.JobStageFetchingReferences)
	refs := references.Collect(business, subject, style)
	var inline []image.Reference
	for _, res := range r.References.Resolve(ctx, refs) {
		if res.Skipped {
			continue
		}
		inline = append(inline, image.Reference{Data: res.Data, MIMEType: res.MIMEType})
	}

	r.setStage(ctx, job.ID, domain.JobStageCallingModel)
	timeout := r.ModelTimeout
	if timeout <= 0 {
		timeout = ModelCallTimeout
	}
	modelCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := r.Generator.Generate(modelCtx, image.GenerateRequest{
		Prompt:      rendered,
		AspectRatio: job.AspectRatio,
		Tier:        job.ModelTier,
		References:  inline,
		RequestID:   job.ID,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(modelCtx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("model call timed out after %s", timeout)
		}
		return fmt.Errorf("model call: %w", err)
	}

	r.setStage(ctx, job.ID, domain.JobStageUploadingResult)
	contentType := result.Format
	if contentType == "" {
		contentType = "image/png"
	}
	key := storage.GeneratedObjectKey(job.BusinessID, r.clock())
	url, err := r.Store.Write(ctx, key, result.Data, contentType)
	if err != nil {
		return fmt.Errorf("store result: %w", err)
	}

	return r.completeWith(ctx, job, stylePreset, url, "generation completed")
}

func (r *Runner) completeWith(ctx context.Context, job *domain.GenerationJob, stylePreset, contentURL, msg string) error {
	asset := &domain.Asset{
		BusinessID:  job.BusinessID,
		Kind:        domain.AssetKindImage,
		Content:     contentURL,
		Prompt:      job.Prompt,
		AspectRatio: job.AspectRatio,
		StylePreset: stylePreset,
		StyleID:     job.StyleID,
		SubjectID:   job.SubjectID,
		ModelTier:   job.ModelTier,
	}
	if err := r.Assets.Create(ctx, asset); err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	if err := r.Jobs.Complete(ctx, job.ID, asset.ID); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	r.Logger.Info().Str("job_id", job.ID).Str("asset_id", asset.ID).Msg("worker: " + msg)
	return nil
}

// setStage is informational; a failed write never stops the pipeline.
func (r *Runner) setStage(ctx context.Context, jobID string, stage domain.JobStage) {
	if err := r.Jobs.SetStage(ctx, jobID, stage); err != nil {
		r.Logger.Warn().Err(err).Str("job_id", jobID).Str("stage", string(stage)).Msg("worker: stage update failed")
	}
}

func (r *Runner) recordUsage(ctx context.Context, job *domain.GenerationJob, success bool, latency time.Duration) {
	if r.Usage == nil {
		return
	}
	jobID := job.ID
	ev := &domain.UsageEvent{
		BusinessID: job.BusinessID,
		JobID:      &jobID,
		EventType:  domain.UsageEventImageGeneration,
		Success:    success,
		LatencyMS:  latency.Milliseconds(),
		Properties: map[string]any{"modelTier": string(job.ModelTier)},
	}
	if err := r.Usage.Insert(ctx, ev); err != nil {
		r.Logger.Warn().Err(err).Str("job_id", job.ID).Msg("worker: usage event insert failed")
	}
}

func (r *Runner) clock() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
