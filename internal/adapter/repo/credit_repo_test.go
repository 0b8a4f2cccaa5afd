package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/sqlinline"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestCreditRepositoryBalance(t *testing.T) {
	sql := &stubSQL{
		rowFn: func(query string, args ...any) pgx.Row {
			return NewSimpleRow(func(dest ...any) error {
				return setVals(dest, 7)
			})
		},
	}
	repo := NewCreditRepository(sql)

	balance, err := repo.Balance(context.Background(), "biz-1")
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if balance != 7 {
		t.Fatalf("balance = %d, want 7", balance)
	}
}

func TestCreditRepositoryBalanceMissingBusiness(t *testing.T) {
	sql := &stubSQL{
		rowFn: func(query string, args ...any) pgx.Row {
			return SimpleRow{}
		},
	}
	repo := NewCreditRepository(sql)

	if _, err := repo.Balance(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestCreditRepositoryGrant(t *testing.T) {
	testCases := []struct {
		name    string
		tag     pgconn.CommandTag
		wantErr error
	}{
		{name: "existing business", tag: pgconn.NewCommandTag("INSERT 0 1"), wantErr: nil},
		{name: "missing business", tag: pgconn.NewCommandTag("INSERT 0 0"), wantErr: domain.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sql := &stubSQL{
				execFn: func(query string, args ...any) (pgconn.CommandTag, error) {
					return tc.tag, nil
				},
			}
			repo := NewCreditRepository(sql)

			err := repo.Grant(context.Background(), "biz-1", 25, domain.CreditReasonGrant)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if sql.queries[0] != sqlinline.QGrantCredits {
				t.Fatalf("unexpected query: %s", sql.queries[0])
			}
			if got := sql.args[0][1].(int); got != 25 {
				t.Fatalf("delta arg = %d, want 25", got)
			}
		})
	}
}

func TestCreditRepositoryListRecent(t *testing.T) {
	now := time.Now()
	sql := &stubSQL{
		queryFn: func(query string, args ...any) (pgx.Rows, error) {
			return &stubRows{scans: []func(dest ...any) error{
				func(dest ...any) error {
					return setVals(dest, "entry-2", "biz-1", -4, "generation", "job-7", now)
				},
				func(dest ...any) error {
					return setVals(dest, "entry-1", "biz-1", 10, "signup_grant", "", now)
				},
			}}, nil
		},
	}
	repo := NewCreditRepository(sql)

	entries, err := repo.ListRecent(context.Background(), "biz-1", 50)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].JobID == nil || *entries[0].JobID != "job-7" {
		t.Fatalf("entries[0].JobID = %v, want job-7", entries[0].JobID)
	}
	if entries[1].JobID != nil {
		t.Fatalf("entries[1].JobID = %v, want nil", entries[1].JobID)
	}
	if entries[0].Delta != -4 {
		t.Fatalf("entries[0].Delta = %d, want -4", entries[0].Delta)
	}
}
