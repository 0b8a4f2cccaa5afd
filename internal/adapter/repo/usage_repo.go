package repo

import (
	"context"
	"fmt"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
)

// UsageRepositoryPG implements domain.UsageRepository.
type UsageRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUsageRepository creates a usage event repository backed by PostgreSQL.
func NewUsageRepository(sql infra.SQLExecutor) *UsageRepositoryPG {
	return &UsageRepositoryPG{sql: sql}
}

// Insert appends one usage event.
func (r *UsageRepositoryPG) Insert(ctx context.Context, ev *domain.UsageEvent) error {
	properties, err := marshalJSONB(ev.Properties)
	if err != nil {
		return fmt.Errorf("marshal properties: %w", err)
	}

	var jobID string
	if ev.JobID != nil {
		jobID = *ev.JobID
	}

	_, err = r.sql.Exec(ctx, sqlinline.QInsertUsageEvent,
		ev.BusinessID,
		jobID,
		ev.EventType,
		ev.Success,
		ev.LatencyMS,
		ev.Country,
		properties,
	)
	if err != nil {
		return fmt.Errorf("insert usage event: %w", err)
	}
	return nil
}

// Summary reads the aggregate counters from the rollup view.
func (r *UsageRepositoryPG) Summary(ctx context.Context) (*domain.UsageSummary, error) {
	var s domain.UsageSummary
	err := r.sql.QueryRow(ctx, sqlinline.QUsageSummary).Scan(
		&s.TotalEvents,
		&s.ImagesGenerated,
		&s.CaptionsGenerated,
		&s.PostsPublished,
		&s.EventsLast24h,
		&s.FailuresLast24h,
	)
	if err != nil {
		return nil, fmt.Errorf("usage summary: %w", err)
	}
	return &s, nil
}

var _ domain.UsageRepository = (*UsageRepositoryPG)(nil)
