package repo

import (
	"context"
	"fmt"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
	"github.com/jackc/pgx/v5"
)

// PostRepositoryPG implements domain.PostRepository.
type PostRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPostRepository creates a social post repository backed by PostgreSQL.
func NewPostRepository(sql infra.SQLExecutor) *PostRepositoryPG {
	return &PostRepositoryPG{sql: sql}
}

// Create persists the post and fills the generated identifier and
// timestamps.
func (r *PostRepositoryPG) Create(ctx context.Context, p *domain.SocialPost) error {
	platforms, err := marshalJSONB(emptySlice(p.Platforms))
	if err != nil {
		return fmt.Errorf("marshal platforms: %w", err)
	}

	row := r.sql.QueryRow(ctx, sqlinline.QInsertSocialPost,
		p.BusinessID,
		p.AssetID,
		p.Caption,
		platforms,
		p.ScheduledAt,
		string(p.Status),
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetByID fetches a post by its identifier.
func (r *PostRepositoryPG) GetByID(ctx context.Context, id string) (*domain.SocialPost, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectSocialPostByID, id)
	return scanPost(row)
}

// ListByBusiness returns the business's posts, newest first.
func (r *PostRepositoryPG) ListByBusiness(ctx context.Context, businessID string) ([]domain.SocialPost, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListSocialPostsByBusiness, businessID)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.SocialPost
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// Cancel removes a draft or scheduled post. Posts that already entered
// publishing stay put and report ErrNotCancelable; a missing id reports
// ErrNotFound.
func (r *PostRepositoryPG) Cancel(ctx context.Context, id string) error {
	var deleted string
	err := r.sql.QueryRow(ctx, sqlinline.QDeleteCancelableSocialPost, id).Scan(&deleted)
	if err == nil {
		return nil
	}
	if !infra.IsNoRows(err) {
		return fmt.Errorf("cancel post: %w", err)
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return domain.ErrNotCancelable
}

// ClaimDue moves the oldest due scheduled post to publishing and returns it.
// ErrNotFound means nothing is due.
func (r *PostRepositoryPG) ClaimDue(ctx context.Context) (*domain.SocialPost, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimDueSocialPost)

	var (
		post      domain.SocialPost
		platforms []byte
	)
	err := row.Scan(
		&post.ID,
		&post.BusinessID,
		&post.AssetID,
		&post.Caption,
		&platforms,
		&post.ScheduledAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("claim due post: %w", err)
	}
	if err := unmarshalJSONB(platforms, &post.Platforms); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	post.Status = domain.PostStatusPublishing
	return &post, nil
}

// MarkPublished records the upstream identifier and finishes the post.
func (r *PostRepositoryPG) MarkPublished(ctx context.Context, id, externalID string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QMarkSocialPostPublished, id, externalID); err != nil {
		return fmt.Errorf("mark post published: %w", err)
	}
	return nil
}

// MarkFailed records the publish failure.
func (r *PostRepositoryPG) MarkFailed(ctx context.Context, id, errorMessage string) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QMarkSocialPostFailed, id, errorMessage); err != nil {
		return fmt.Errorf("mark post failed: %w", err)
	}
	return nil
}

func scanPost(row pgx.Row) (*domain.SocialPost, error) {
	var (
		post      domain.SocialPost
		platforms []byte
	)
	err := row.Scan(
		&post.ID,
		&post.BusinessID,
		&post.AssetID,
		&post.Caption,
		&platforms,
		&post.ScheduledAt,
		&post.Status,
		&post.ExternalID,
		&post.ErrorMessage,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalJSONB(platforms, &post.Platforms); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}
	return &post, nil
}

var _ domain.PostRepository = (*PostRepositoryPG)(nil)
