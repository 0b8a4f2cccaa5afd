package domain

import "time"

// PostStatus enumerates social post lifecycle states.
type PostStatus string

const (
	PostStatusDraft      PostStatus = "draft"
	PostStatusScheduled  PostStatus = "scheduled"
	PostStatusPublishing PostStatus = "publishing"
	PostStatusPublished  PostStatus = "published"
	PostStatusFailed     PostStatus = "failed"
)

// SocialPost is a caption plus optional media bound for the business's
// connected social accounts.
type SocialPost struct {
	ID           string
	BusinessID   string
	AssetID      string
	Caption      string
	Platforms    []string
	ScheduledAt  *time.Time
	Status       PostStatus
	ExternalID   string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Due reports whether a scheduled post should be published at now.
func (p *SocialPost) Due(now time.Time) bool {
	return p.Status == PostStatusScheduled && p.ScheduledAt != nil && !p.ScheduledAt.After(now)
}
