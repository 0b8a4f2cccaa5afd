package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/social"
)

// SocialPublisher is the slice of the social client the publisher needs.
type SocialPublisher interface {
	Publish(ctx context.Context, req social.PublishRequest) (*social.PublishResult, error)
}

// Publisher pushes due scheduled posts to the connected social accounts.
type Publisher struct {
	Posts      domain.PostRepository
	Businesses domain.BusinessRepository
	Assets     domain.AssetRepository
	Usage      domain.UsageRepository

	Social SocialPublisher
	Logger zerolog.Logger
}

// ProcessNext claims and publishes one due post. It returns ErrNoDuePost
// when the queue has nothing to do.
func (p *Publisher) ProcessNext(ctx context.Context) error {
	post, err := p.Posts.ClaimDue(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrNoDuePost
		}
		return err
	}
	p.publish(ctx, post)
	return nil
}

// ErrNoDuePost signals an empty publish queue.
var ErrNoDuePost = errors.New("no due post")

func (p *Publisher) publish(ctx context.Context, post *domain.SocialPost) {
	start := time.Now()
	err := p.deliver(ctx, post)
	if err != nil {
		p.Logger.Error().Err(err).Str("post_id", post.ID).Msg("worker: publish failed")
		if markErr := p.Posts.MarkFailed(ctx, post.ID, err.Error()); markErr != nil {
			p.Logger.Error().Err(markErr).Str("post_id", post.ID).Msg("worker: recording publish failure failed")
		}
	}
	p.recordUsage(ctx, post, err == nil, time.Since(start))
}

func (p *Publisher) deliver(ctx context.Context, post *domain.SocialPost) error {
	business, err := p.Businesses.GetByID(ctx, post.BusinessID)
	if err != nil {
		return fmt.Errorf("load business: %w", err)
	}
	if business.SocialLocationID == "" {
		return errors.New("business has no social location configured")
	}

	var mediaURLs []string
	if post.AssetID != "" {
		asset, err := p.Assets.GetByID(ctx, post.AssetID)
		if err != nil {
			return fmt.Errorf("load asset: %w", err)
		}
		mediaURLs = append(mediaURLs, asset.Content)
	}

	result, err := p.Social.Publish(ctx, social.PublishRequest{
		LocationID: business.SocialLocationID,
		Caption:    post.Caption,
		MediaURLs:  mediaURLs,
		Platforms:  post.Platforms,
	})
	if err != nil {
		return err
	}

	if err := p.Posts.MarkPublished(ctx, post.ID, result.ExternalID); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	p.Logger.Info().Str("post_id", post.ID).Str("external_id", result.ExternalID).Msg("worker: post published")
	return nil
}

func (p *Publisher) recordUsage(ctx context.Context, post *domain.SocialPost, success bool, latency time.Duration) {
	if p.Usage == nil {
		return
	}
	ev := &domain.UsageEvent{
		BusinessID: post.BusinessID,
		EventType:  domain.UsageEventSocialPublish,
		Success:    success,
		LatencyMS:  latency.Milliseconds(),
		Properties: map[string]any{"platforms": post.Platforms},
	}
	if err := p.Usage.Insert(ctx, ev); err != nil {
		p.Logger.Warn().Err(err).Str("post_id", post.ID).Msg("worker: usage event insert failed")
	}
}
