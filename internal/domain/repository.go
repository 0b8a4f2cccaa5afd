package domain

import "context"

// BusinessRepository defines access to brand profiles.
type BusinessRepository interface {
	Create(ctx context.Context, b *Business) error
	GetByID(ctx context.Context, id string) (*Business, error)
	Update(ctx context.Context, b *Business) error
}

// JobRepository defines persistence for generation jobs. Enqueue debits the
// business's credit balance and inserts the row in a single statement,
// returning ErrInsufficientCredits when the balance is short of the tier
// cost. Claim moves the oldest pending job to processing and returns
// ErrNotFound when the queue is empty.
type JobRepository interface {
	Enqueue(ctx context.Context, job *GenerationJob) (*GenerationJob, error)
	Claim(ctx context.Context) (*GenerationJob, error)
	SetStage(ctx context.Context, jobID string, stage JobStage) error
	Complete(ctx context.Context, jobID, resultAssetID string) error
	Fail(ctx context.Context, jobID, errorMessage string) error
	GetByID(ctx context.Context, jobID string) (*GenerationJob, error)
	ListActiveByBusiness(ctx context.Context, businessID string) ([]GenerationJob, error)
	Delete(ctx context.Context, jobID string) error
}

// AssetRepository handles persistence for generated assets.
type AssetRepository interface {
	Create(ctx context.Context, a *Asset) error
	GetByID(ctx context.Context, id string) (*Asset, error)
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]Asset, error)
}

// PostRepository handles persistence for social posts. ClaimDue moves the
// oldest due scheduled post to publishing and returns ErrNotFound when
// nothing is due.
type PostRepository interface {
	Create(ctx context.Context, p *SocialPost) error
	GetByID(ctx context.Context, id string) (*SocialPost, error)
	ListByBusiness(ctx context.Context, businessID string) ([]SocialPost, error)
	Cancel(ctx context.Context, id string) error
	ClaimDue(ctx context.Context) (*SocialPost, error)
	MarkPublished(ctx context.Context, id, externalID string) error
	MarkFailed(ctx context.Context, id, errorMessage string) error
}

// CreditRepository reads and appends to the credit ledger.
type CreditRepository interface {
	Balance(ctx context.Context, businessID string) (int, error)
	Grant(ctx context.Context, businessID string, delta int, reason string) error
	ListRecent(ctx context.Context, businessID string, limit int) ([]CreditEntry, error)
}

// TemplateRepository stores admin-authored prompt template overrides. Get
// returns the active business-scoped body, falling back to the global row,
// and ErrNotFound when neither exists.
type TemplateRepository interface {
	Get(ctx context.Context, businessID string) (string, error)
	Upsert(ctx context.Context, businessID, body string, active bool) error
}

// UsageRepository records usage events and aggregates them.
type UsageRepository interface {
	Insert(ctx context.Context, ev *UsageEvent) error
	Summary(ctx context.Context) (*UsageSummary, error)
}
