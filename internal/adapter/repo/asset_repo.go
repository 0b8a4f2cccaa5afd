package repo

import (
	"context"
	"fmt"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
	"github.com/jackc/pgx/v5"
)

// AssetRepositoryPG implements domain.AssetRepository using PostgreSQL.
type AssetRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewAssetRepository constructs a new asset repository instance.
func NewAssetRepository(sql infra.SQLExecutor) *AssetRepositoryPG {
	return &AssetRepositoryPG{sql: sql}
}

// Create persists the asset and fills the generated identifier and
// timestamp.
func (r *AssetRepositoryPG) Create(ctx context.Context, a *domain.Asset) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertAsset,
		a.BusinessID,
		string(a.Kind),
		a.Content,
		a.Prompt,
		a.AspectRatio,
		a.StylePreset,
		a.StyleID,
		a.SubjectID,
		string(a.ModelTier),
	)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("insert asset: %w", err)
	}
	return nil
}

// GetByID fetches an asset by its identifier.
func (r *AssetRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectAssetByID, id)
	return scanAsset(row)
}

// ListByBusiness returns the business's assets, newest first.
func (r *AssetRepositoryPG) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]domain.Asset, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAssetsByBusiness, businessID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var assets []domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	var a domain.Asset
	err := row.Scan(
		&a.ID,
		&a.BusinessID,
		&a.Kind,
		&a.Content,
		&a.Prompt,
		&a.AspectRatio,
		&a.StylePreset,
		&a.StyleID,
		&a.SubjectID,
		&a.ModelTier,
		&a.CreatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ domain.AssetRepository = (*AssetRepositoryPG)(nil)
