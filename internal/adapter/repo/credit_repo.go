package repo

import (
	"context"
	"fmt"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
)

// CreditRepositoryPG implements domain.CreditRepository. Balances live on the
// business row; the ledger is the audit trail behind them.
type CreditRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCreditRepository creates a credit repository backed by PostgreSQL.
func NewCreditRepository(sql infra.SQLExecutor) *CreditRepositoryPG {
	return &CreditRepositoryPG{sql: sql}
}

// Balance returns the business's current credit balance.
func (r *CreditRepositoryPG) Balance(ctx context.Context, businessID string) (int, error) {
	var balance int
	err := r.sql.QueryRow(ctx, sqlinline.QSelectCreditBalance, businessID).Scan(&balance)
	if err != nil {
		if infra.IsNoRows(err) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("select balance: %w", err)
	}
	return balance, nil
}

// Grant adjusts the balance and appends the matching ledger entry. A missing
// business reports ErrNotFound.
func (r *CreditRepositoryPG) Grant(ctx context.Context, businessID string, delta int, reason string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QGrantCredits, businessID, delta, reason)
	if err != nil {
		return fmt.Errorf("grant credits: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListRecent returns the business's newest ledger entries.
func (r *CreditRepositoryPG) ListRecent(ctx context.Context, businessID string, limit int) ([]domain.CreditEntry, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListCreditEntries, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("list credit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CreditEntry
	for rows.Next() {
		var (
			entry domain.CreditEntry
			jobID string
		)
		err := rows.Scan(
			&entry.ID,
			&entry.BusinessID,
			&entry.Delta,
			&entry.Reason,
			&jobID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		if jobID != "" {
			entry.JobID = &jobID
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list credit entries: %w", err)
	}
	return entries, nil
}

var _ domain.CreditRepository = (*CreditRepositoryPG)(nil)
