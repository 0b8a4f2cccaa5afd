package repo

import (
	"context"
	"fmt"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
	"github.com/jackc/pgx/v5"
)

// BusinessRepositoryPG implements domain.BusinessRepository.
type BusinessRepositoryPG struct {
	sql infra.SQLExecutor

	// signupGrant is the credit balance a new business opens with. The
	// insert statement records the matching ledger entry.
	signupGrant int
}

// NewBusinessRepository creates a business repository backed by PostgreSQL.
func NewBusinessRepository(sql infra.SQLExecutor, signupGrant int) *BusinessRepositoryPG {
	return &BusinessRepositoryPG{sql: sql, signupGrant: signupGrant}
}

// Create inserts the business row together with its signup credit grant and
// fills the generated identifier and timestamps.
func (r *BusinessRepositoryPG) Create(ctx context.Context, b *domain.Business) error {
	colors, err := marshalJSONB(b.Colors)
	if err != nil {
		return fmt.Errorf("marshal colors: %w", err)
	}
	offerings, err := marshalJSONB(emptySlice(b.Offerings))
	if err != nil {
		return fmt.Errorf("marshal offerings: %w", err)
	}
	hours, err := marshalJSONB(emptySlice(b.Hours))
	if err != nil {
		return fmt.Errorf("marshal hours: %w", err)
	}
	contact, err := marshalJSONB(b.Contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	subjects, err := marshalJSONB(emptySubjects(b.Subjects))
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}
	styles, err := marshalJSONB(emptyStyles(b.Styles))
	if err != nil {
		return fmt.Errorf("marshal styles: %w", err)
	}

	row := r.sql.QueryRow(ctx, sqlinline.QInsertBusiness,
		b.OwnerID,
		b.Name,
		b.Tagline,
		b.BrandVoice,
		colors,
		offerings,
		hours,
		contact,
		b.LogoURL,
		b.Compliance,
		subjects,
		styles,
		b.SocialLocationID,
		r.signupGrant,
	)
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID fetches a business by its identifier.
func (r *BusinessRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Business, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectBusinessByID, id)
	return scanBusiness(row)
}

// Update replaces the mutable profile fields. The credit balance is owned by
// the ledger queries and never written here.
func (r *BusinessRepositoryPG) Update(ctx context.Context, b *domain.Business) error {
	colors, err := marshalJSONB(b.Colors)
	if err != nil {
		return fmt.Errorf("marshal colors: %w", err)
	}
	offerings, err := marshalJSONB(emptySlice(b.Offerings))
	if err != nil {
		return fmt.Errorf("marshal offerings: %w", err)
	}
	hours, err := marshalJSONB(emptySlice(b.Hours))
	if err != nil {
		return fmt.Errorf("marshal hours: %w", err)
	}
	contact, err := marshalJSONB(b.Contact)
	if err != nil {
		return fmt.Errorf("marshal contact: %w", err)
	}
	subjects, err := marshalJSONB(emptySubjects(b.Subjects))
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}
	styles, err := marshalJSONB(emptyStyles(b.Styles))
	if err != nil {
		return fmt.Errorf("marshal styles: %w", err)
	}

	row := r.sql.QueryRow(ctx, sqlinline.QUpdateBusiness,
		b.ID,
		b.Name,
		b.Tagline,
		b.BrandVoice,
		colors,
		offerings,
		hours,
		contact,
		b.LogoURL,
		b.Compliance,
		subjects,
		styles,
		b.SocialLocationID,
	)
	if err := row.Scan(&b.UpdatedAt); err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update business: %w", err)
	}
	return nil
}

func scanBusiness(row pgx.Row) (*domain.Business, error) {
	var (
		b         domain.Business
		colors    []byte
		offerings []byte
		hours     []byte
		contact   []byte
		subjects  []byte
		styles    []byte
		balance   int
	)
	err := row.Scan(
		&b.ID,
		&b.OwnerID,
		&b.Name,
		&b.Tagline,
		&b.BrandVoice,
		&colors,
		&offerings,
		&hours,
		&contact,
		&b.LogoURL,
		&b.Compliance,
		&subjects,
		&styles,
		&b.SocialLocationID,
		&balance,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := unmarshalJSONB(colors, &b.Colors); err != nil {
		return nil, fmt.Errorf("decode colors: %w", err)
	}
	if err := unmarshalJSONB(offerings, &b.Offerings); err != nil {
		return nil, fmt.Errorf("decode offerings: %w", err)
	}
	if err := unmarshalJSONB(hours, &b.Hours); err != nil {
		return nil, fmt.Errorf("decode hours: %w", err)
	}
	if err := unmarshalJSONB(contact, &b.Contact); err != nil {
		return nil, fmt.Errorf("decode contact: %w", err)
	}
	if err := unmarshalJSONB(subjects, &b.Subjects); err != nil {
		return nil, fmt.Errorf("decode subjects: %w", err)
	}
	if err := unmarshalJSONB(styles, &b.Styles); err != nil {
		return nil, fmt.Errorf("decode styles: %w", err)
	}
	b.CreditBalance = balance
	return &b, nil
}

func emptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func emptySubjects(s []domain.Subject) []domain.Subject {
	if s == nil {
		return []domain.Subject{}
	}
	return s
}

func emptyStyles(s []domain.Style) []domain.Style {
	if s == nil {
		return []domain.Style{}
	}
	return s
}

var _ domain.BusinessRepository = (*BusinessRepositoryPG)(nil)
