package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/middleware"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/providers/caption"
)

type fakeBusinesses struct {
	mu        sync.Mutex
	items     map[string]*domain.Business
	createErr error
}

func newFakeBusinesses() *fakeBusinesses {
	return &fakeBusinesses{items: map[string]*domain.Business{}}
}

func (f *fakeBusinesses) Create(_ context.Context, b *domain.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	f.items[b.ID] = &clone
	return nil
}

func (f *fakeBusinesses) GetByID(_ context.Context, id string) (*domain.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (f *fakeBusinesses) Update(_ context.Context, b *domain.Business) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.items[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	b.OwnerID = stored.OwnerID
	b.CreditBalance = stored.CreditBalance
	b.CreatedAt = stored.CreatedAt
	b.UpdatedAt = time.Now()
	clone := *b
	f.items[b.ID] = &clone
	return nil
}

type fakeJobs struct {
	mu           sync.Mutex
	items        map[string]*domain.GenerationJob
	order        []string
	insufficient bool
	enqueueErr   error
	deleteErr    error
	deleted      []string
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{items: map[string]*domain.GenerationJob{}}
}

func (f *fakeJobs) Enqueue(_ context.Context, job *domain.GenerationJob) (*domain.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.enqueueErr != nil {
		return nil, f.enqueueErr
	}
	if f.insufficient {
		return nil, domain.ErrInsufficientCredits
	}
	stored := *job
	stored.ID = uuid.NewString()
	stored.Status = domain.JobStatusPending
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	f.items[stored.ID] = &stored
	f.order = append(f.order, stored.ID)
	clone := stored
	return &clone, nil
}

func (f *fakeJobs) Claim(context.Context) (*domain.GenerationJob, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeJobs) SetStage(context.Context, string, domain.JobStage) error { return nil }

func (f *fakeJobs) Complete(context.Context, string, string) error { return nil }

func (f *fakeJobs) Fail(context.Context, string, string) error { return nil }

func (f *fakeJobs) GetByID(_ context.Context, jobID string) (*domain.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.items[jobID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *job
	return &clone, nil
}

func (f *fakeJobs) ListActiveByBusiness(_ context.Context, businessID string) ([]domain.GenerationJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.GenerationJob
	for _, id := range f.order {
		job := f.items[id]
		if job.BusinessID == businessID && !job.Status.Terminal() {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (f *fakeJobs) Delete(_ context.Context, jobID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.items, jobID)
	f.deleted = append(f.deleted, jobID)
	return nil
}

type fakeAssets struct {
	mu    sync.Mutex
	items map[string]*domain.Asset
	order []string
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{items: map[string]*domain.Asset{}}
}

func (f *fakeAssets) Create(_ context.Context, a *domain.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now()
	clone := *a
	f.items[a.ID] = &clone
	f.order = append(f.order, a.ID)
	return nil
}

func (f *fakeAssets) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAssets) ListByBusiness(_ context.Context, businessID string, limit, offset int) ([]domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []domain.Asset
	for i := len(f.order) - 1; i >= 0; i-- {
		a := f.items[f.order[i]]
		if a.BusinessID == businessID {
			matched = append(matched, *a)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

type fakePosts struct {
	mu    sync.Mutex
	items map[string]*domain.SocialPost
	order []string
}

func newFakePosts() *fakePosts {
	return &fakePosts{items: map[string]*domain.SocialPost{}}
}

func (f *fakePosts) Create(_ context.Context, p *domain.SocialPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	f.items[p.ID] = &clone
	f.order = append(f.order, p.ID)
	return nil
}

func (f *fakePosts) GetByID(_ context.Context, id string) (*domain.SocialPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePosts) ListByBusiness(_ context.Context, businessID string) ([]domain.SocialPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SocialPost
	for i := len(f.order) - 1; i >= 0; i-- {
		p := f.items[f.order[i]]
		if p.BusinessID == businessID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePosts) Cancel(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if p.Status != domain.PostStatusDraft && p.Status != domain.PostStatusScheduled {
		return domain.ErrNotCancelable
	}
	delete(f.items, id)
	return nil
}

func (f *fakePosts) ClaimDue(context.Context) (*domain.SocialPost, error) {
	return nil, domain.ErrNotFound
}

func (f *fakePosts) MarkPublished(context.Context, string, string) error { return nil }

func (f *fakePosts) MarkFailed(context.Context, string, string) error { return nil }

type fakeCredits struct {
	mu       sync.Mutex
	balances map[string]int
	entries  map[string][]domain.CreditEntry
}

func newFakeCredits() *fakeCredits {
	return &fakeCredits{balances: map[string]int{}, entries: map[string][]domain.CreditEntry{}}
}

func (f *fakeCredits) Balance(_ context.Context, businessID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.balances[businessID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return balance, nil
}

func (f *fakeCredits) Grant(_ context.Context, businessID string, delta int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.balances[businessID]; !ok {
		return domain.ErrNotFound
	}
	f.balances[businessID] += delta
	f.entries[businessID] = append(f.entries[businessID], domain.CreditEntry{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Delta:      delta,
		Reason:     reason,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (f *fakeCredits) ListRecent(_ context.Context, businessID string, limit int) ([]domain.CreditEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := f.entries[businessID]
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	out := make([]domain.CreditEntry, len(entries))
	copy(out, entries)
	return out, nil
}

type fakeTemplates struct {
	mu    sync.Mutex
	items map[string]string
}

func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{items: map[string]string{}}
}

func (f *fakeTemplates) Get(_ context.Context, businessID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if body, ok := f.items[businessID]; ok {
		return body, nil
	}
	if body, ok := f.items[""]; ok {
		return body, nil
	}
	return "", domain.ErrNotFound
}

func (f *fakeTemplates) Upsert(_ context.Context, businessID, body string, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if active {
		f.items[businessID] = body
	} else {
		delete(f.items, businessID)
	}
	return nil
}

type fakeUsage struct {
	mu      sync.Mutex
	events  []domain.UsageEvent
	summary domain.UsageSummary
}

func (f *fakeUsage) Insert(_ context.Context, ev *domain.UsageEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, *ev)
	return nil
}

func (f *fakeUsage) Summary(context.Context) (*domain.UsageSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := f.summary
	return &clone, nil
}

type fakeCaptions struct {
	result *caption.Result
	err    error
	last   caption.Request
}

func (f *fakeCaptions) Generate(_ context.Context, req caption.Request) (*caption.Result, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &caption.Result{Caption: "Fresh out of the roastery.", Hashtags: []string{"#coffee"}, Locale: req.Locale}, nil
}

type fixtures struct {
	businesses *fakeBusinesses
	jobs       *fakeJobs
	assets     *fakeAssets
	posts      *fakePosts
	credits    *fakeCredits
	templates  *fakeTemplates
	usage      *fakeUsage
	captions   *fakeCaptions
}

func newTestApp(t *testing.T) (*App, *fixtures) {
	t.Helper()
	f := &fixtures{
		businesses: newFakeBusinesses(),
		jobs:       newFakeJobs(),
		assets:     newFakeAssets(),
		posts:      newFakePosts(),
		credits:    newFakeCredits(),
		templates:  newFakeTemplates(),
		usage:      &fakeUsage{},
		captions:   &fakeCaptions{},
	}
	app := &App{
		Config: &infra.Config{
			SignupCreditGrant: 10,
			StoragePath:       t.TempDir(),
			StorageBaseURL:    "http://localhost:8080/static",
		},
		Logger:     zerolog.Nop(),
		Businesses: f.businesses,
		Jobs:       f.jobs,
		Assets:     f.assets,
		Posts:      f.posts,
		Credits:    f.credits,
		Templates:  f.templates,
		Usage:      f.usage,
		Captions:   f.captions,
	}
	return app, f
}

// seedBusiness installs a business with a ledger balance and returns its id.
func seedBusiness(t *testing.T, f *fixtures, balance int) string {
	t.Helper()
	business := &domain.Business{
		Name:       "Harbor Coffee Co",
		Tagline:    "Slow mornings, fast espresso",
		BrandVoice: "warm",
		Offerings:  []string{"espresso", "pastries"},
		Subjects:   []domain.Subject{{ID: "subj-1", Name: "Barista Alex", ImageURL: "https://img.example.com/alex.png"}},
		Styles:     []domain.Style{{ID: "style-1", Name: "Film grain", Preset: "film", Active: true}},
	}
	if err := f.businesses.Create(context.Background(), business); err != nil {
		t.Fatalf("seed business: %v", err)
	}
	f.businesses.items[business.ID].CreditBalance = balance
	f.credits.balances[business.ID] = balance
	return business.ID
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.ContextWithUserID(req.Context(), "user-123"))
}

// withParams injects chi URL parameters for direct handler calls.
func withParams(req *http.Request, pairs ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(pairs); i += 2 {
		rctx.URLParams.Add(pairs[i], pairs[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body=%s)", err, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]errorBody
	decodeJSON(t, rec, &body)
	return body["error"].Code
}
