package repo

import (
	"context"
	"fmt"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
	"github.com/jackc/pgx/v5"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// Enqueue debits the business and inserts the pending row in one statement.
// Zero rows back means the balance check failed, which surfaces as
// ErrInsufficientCredits; callers verify the business exists beforehand.
func (r *JobRepositoryPG) Enqueue(ctx context.Context, job *domain.GenerationJob) (*domain.GenerationJob, error) {
	contextJSON, err := marshalJSONB(job.Context)
	if err != nil {
		return nil, fmt.Errorf("marshal generation context: %w", err)
	}

	row := r.sql.QueryRow(ctx, sqlinline.QEnqueueGenerationJob,
		job.BusinessID,
		job.Prompt,
		job.AspectRatio,
		job.StyleID,
		job.SubjectID,
		string(job.ModelTier),
		job.Strategy,
		contextJSON,
		job.ModelTier.CreditCost(),
	)

	queued := *job
	var status string
	if err := row.Scan(&queued.ID, &status, &queued.CreatedAt, &queued.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrInsufficientCredits
		}
		return nil, fmt.Errorf("enqueue job: %w", err)
	}
	queued.Status = domain.JobStatus(status)
	return &queued, nil
}

// Claim moves the oldest pending job to processing and returns it. An empty
// queue reports ErrNotFound.
func (r *JobRepositoryPG) Claim(ctx context.Context) (*domain.GenerationJob, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimGenerationJob)

	var (
		job         domain.GenerationJob
		contextJSON []byte
	)
	err := row.Scan(
		&job.ID,
		&job.BusinessID,
		&job.Prompt,
		&job.AspectRatio,
		&job.StyleID,
		&job.SubjectID,
		&job.ModelTier,
		&job.Strategy,
		&contextJSON,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("claim job: %w", err)
	}
	if err := unmarshalJSONB(contextJSON, &job.Context); err != nil {
		return nil, fmt.Errorf("decode generation context: %w", err)
	}
	job.Status = domain.JobStatusProcessing
	return &job, nil
}

// SetStage records a progress marker on a processing job. A row that has
// already left processing is left untouched.
func (r *JobRepositoryPG) SetStage(ctx context.Context, jobID string, stage domain.JobStage) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QSetJobStage, jobID, string(stage)); err != nil {
		return fmt.Errorf("set job stage: %w", err)
	}
	return nil
}

// Complete marks the job completed and links the stored asset.
func (r *JobRepositoryPG) Complete(ctx context.Context, jobID, resultAssetID string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QCompleteJob, jobID, resultAssetID); err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	return nil
}

// Fail marks the job failed with the given message.
func (r *JobRepositoryPG) Fail(ctx context.Context, jobID, errorMessage string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QFailJob, jobID, errorMessage); err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	return nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.GenerationJob, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectJobByID, jobID)
	return scanJob(row)
}

// ListActiveByBusiness returns the business's pending and processing jobs,
// newest first.
func (r *JobRepositoryPG) ListActiveByBusiness(ctx context.Context, businessID string) ([]domain.GenerationJob, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListActiveJobsByBusiness, businessID)
	if err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.GenerationJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active jobs: %w", err)
	}
	return jobs, nil
}

// Delete removes the job row. Deleting a missing job is not an error.
func (r *JobRepositoryPG) Delete(ctx context.Context, jobID string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QDeleteJob, jobID); err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	return nil
}

func scanJob(row pgx.Row) (*domain.GenerationJob, error) {
	var (
		job         domain.GenerationJob
		contextJSON []byte
	)
	err := row.Scan(
		&job.ID,
		&job.BusinessID,
		&job.Status,
		&job.Stage,
		&job.Prompt,
		&job.AspectRatio,
		&job.StyleID,
		&job.SubjectID,
		&job.ModelTier,
		&job.Strategy,
		&contextJSON,
		&job.ResultAssetID,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalJSONB(contextJSON, &job.Context); err != nil {
		return nil, fmt.Errorf("decode generation context: %w", err)
	}
	return &job, nil
}

var _ domain.JobRepository = (*JobRepositoryPG)(nil)
