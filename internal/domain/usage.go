package domain

import "time"

// Usage event types.
const (
	UsageEventImageGeneration   = "image_generation"
	UsageEventCaptionGeneration = "caption_generation"
	UsageEventSocialPublish     = "social_publish"
)

// UsageEvent records one observable action for the stats rollup.
type UsageEvent struct {
	ID         string
	BusinessID string
	JobID      *string
	EventType  string
	Success    bool
	LatencyMS  int64
	Country    string
	Properties map[string]any
	CreatedAt  time.Time
}

// UsageSummary aggregates usage counters for the stats endpoint.
type UsageSummary struct {
	TotalEvents       int
	ImagesGenerated   int
	CaptionsGenerated int
	PostsPublished    int
	EventsLast24h     int
	FailuresLast24h   int
}
