package repo

import (
	"context"
	"fmt"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
)

// TemplateRepositoryPG implements domain.TemplateRepository.
type TemplateRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewTemplateRepository creates a prompt template repository backed by
// PostgreSQL.
func NewTemplateRepository(sql infra.SQLExecutor) *TemplateRepositoryPG {
	return &TemplateRepositoryPG{sql: sql}
}

// Get returns the active template body for the business, preferring a
// business-scoped override over the global row. ErrNotFound means neither
// exists and the built-in template applies.
func (r *TemplateRepositoryPG) Get(ctx context.Context, businessID string) (string, error) {
	var body string
	err := r.sql.QueryRow(ctx, sqlinline.QSelectPromptTemplate, businessID).Scan(&body)
	if err != nil {
		if infra.IsNoRows(err) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("select prompt template: %w", err)
	}
	return body, nil
}

// Upsert stores the template body for the business, or the global template
// when businessID is empty.
func (r *TemplateRepositoryPG) Upsert(ctx context.Context, businessID, body string, active bool) error {
	if _, err := r.sql.Exec(ctx, sqlinline.QUpsertPromptTemplate, businessID, body, active); err != nil {
		return fmt.Errorf("upsert prompt template: %w", err)
	}
	return nil
}

var _ domain.TemplateRepository = (*TemplateRepositoryPG)(nil)
