package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/social"
)

type fakePosts struct {
	due        *domain.SocialPost
	published  string
	externalID string
	failed     string
}

func (f *fakePosts) Create(ctx context.Context, p *domain.SocialPost) error {
	return errors.New("not implemented")
}

func (f *fakePosts) GetByID(ctx context.Context, id string) (*domain.SocialPost, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePosts) ListByBusiness(ctx context.Context, businessID string) ([]domain.SocialPost, error) {
	return nil, errors.New("not implemented")
}

func (f *fakePosts) Cancel(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func (f *fakePosts) ClaimDue(ctx context.Context) (*domain.SocialPost, error) {
	if f.due == nil {
		return nil, domain.ErrNotFound
	}
	post := f.due
	f.due = nil
	post.Status = domain.PostStatusPublishing
	return post, nil
}

func (f *fakePosts) MarkPublished(ctx context.Context, id, externalID string) error {
	f.published = id
	f.externalID = externalID
	return nil
}

func (f *fakePosts) MarkFailed(ctx context.Context, id, errorMessage string) error {
	f.failed = errorMessage
	return nil
}

type fakeSocial struct {
	result *social.PublishResult
	err    error
	reqs   []social.PublishRequest
}

func (f *fakeSocial) Publish(ctx context.Context, req social.PublishRequest) (*social.PublishResult, error) {
	f.reqs = append(f.reqs, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func duePost() *domain.SocialPost {
	at := time.Now().Add(-time.Minute)
	return &domain.SocialPost{
		ID:          "post-1",
		BusinessID:  "biz-1",
		AssetID:     "asset-1",
		Caption:     "Weekend special: two for one",
		Platforms:   []string{"facebook"},
		ScheduledAt: &at,
		Status:      domain.PostStatusScheduled,
	}
}

func newTestPublisher(posts *fakePosts, client *fakeSocial) (*Publisher, *fakeUsage) {
	business := testBusiness()
	business.SocialLocationID = "loc-77"
	usage := &fakeUsage{}
	return &Publisher{
		Posts:      posts,
		Businesses: &fakeBusinesses{businesses: map[string]*domain.Business{"biz-1": business}},
		Assets: &fakeAssets{byID: map[string]*domain.Asset{
			"asset-1": {ID: "asset-1", Content: "https://cdn.example.com/biz-1/generated/1.png"},
		}},
		Usage:  usage,
		Social: client,
		Logger: zerolog.Nop(),
	}, usage
}

func TestPublisherPublishesDuePost(t *testing.T) {
	posts := &fakePosts{due: duePost()}
	client := &fakeSocial{result: &social.PublishResult{ExternalID: "ext-9", Status: "published"}}
	publisher, usage := newTestPublisher(posts, client)

	if err := publisher.ProcessNext(context.Background()); err != nil {
		t.Fatalf("ProcessNext: %v", err)
	}

	if posts.published != "post-1" || posts.externalID != "ext-9" {
		t.Fatalf("published = %q external = %q", posts.published, posts.externalID)
	}
	if posts.failed != "" {
		t.Fatalf("post failed: %s", posts.failed)
	}
	if len(client.reqs) != 1 {
		t.Fatalf("publish calls = %d, want 1", len(client.reqs))
	}
	req := client.reqs[0]
	if req.LocationID != "loc-77" {
		t.Fatalf("location = %q, want loc-77", req.LocationID)
	}
	if len(req.MediaURLs) != 1 || !strings.HasSuffix(req.MediaURLs[0], "1.png") {
		t.Fatalf("media = %v", req.MediaURLs)
	}
	if req.ScheduleAt != nil {
		t.Fatalf("due post must publish immediately, got schedule %v", req.ScheduleAt)
	}
	if len(usage.events) != 1 || !usage.events[0].Success {
		t.Fatalf("usage events = %+v", usage.events)
	}
}

func TestPublisherNothingDue(t *testing.T) {
	publisher, _ := newTestPublisher(&fakePosts{}, &fakeSocial{})

	if err := publisher.ProcessNext(context.Background()); !errors.Is(err, ErrNoDuePost) {
		t.Fatalf("err = %v, want ErrNoDuePost", err)
	}
}

func TestPublisherUpstreamFailure(t *testing.T) {
	posts := &fakePosts{due: duePost()}
	client := &fakeSocial{err: errors.New("upstream rejected the post")}
	publisher, usage := newTestPublisher(posts, client)

	if err := publisher.ProcessNext(context.Background()); err != nil {
		t.Fatalf("ProcessNext: %v", err)
	}

	if posts.published != "" {
		t.Fatalf("post marked published, want failed")
	}
	if !strings.Contains(posts.failed, "upstream rejected the post") {
		t.Fatalf("failure = %q", posts.failed)
	}
	if len(usage.events) != 1 || usage.events[0].Success {
		t.Fatalf("usage events = %+v, want one failure", usage.events)
	}
}

func TestPublisherMissingLocation(t *testing.T) {
	posts := &fakePosts{due: duePost()}
	client := &fakeSocial{result: &social.PublishResult{ExternalID: "ext-9"}}
	publisher, _ := newTestPublisher(posts, client)
	publisher.Businesses = &fakeBusinesses{businesses: map[string]*domain.Business{
		"biz-1": testBusiness(),
	}}

	if err := publisher.ProcessNext(context.Background()); err != nil {
		t.Fatalf("ProcessNext: %v", err)
	}

	if len(client.reqs) != 0 {
		t.Fatalf("publish called without a location")
	}
	if !strings.Contains(posts.failed, "no social location") {
		t.Fatalf("failure = %q", posts.failed)
	}
}

func TestPublisherCaptionOnlyPost(t *testing.T) {
	post := duePost()
	post.AssetID = ""
	posts := &fakePosts{due: post}
	client := &fakeSocial{result: &social.PublishResult{ExternalID: "ext-10"}}
	publisher, _ := newTestPublisher(posts, client)

	if err := publisher.ProcessNext(context.Background()); err != nil {
		t.Fatalf("ProcessNext: %v", err)
	}

	if len(client.reqs) != 1 || len(client.reqs[0].MediaURLs) != 0 {
		t.Fatalf("media = %v, want none", client.reqs)
	}
	if posts.published != "post-1" {
		t.Fatalf("post not published")
	}
}
