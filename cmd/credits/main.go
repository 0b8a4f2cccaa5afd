// Command credits appends a manual adjustment to a business's credit ledger.
// Deltas can be negative; the ledger never drops a business below zero
// through generation, but operators can correct balances directly.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/adapter/repo"
	"github.com/IkonicR/ads-x-create-v2-sub001/internal/infra"
)

func main() {
	var (
		businessFlag string
		deltaFlag    int
		reasonFlag   string
	)
	flag.StringVar(&businessFlag, "business", "", "business ID to adjust (UUID)")
	flag.IntVar(&deltaFlag, "delta", 0, "credits to add (negative to deduct)")
	flag.StringVar(&reasonFlag, "reason", "manual_adjustment", "ledger reason recorded with the entry")
	flag.Parse()

	businessID := strings.TrimSpace(businessFlag)
	if businessID == "" {
		exitWithError(errors.New("-business is required"))
	}
	if _, err := uuid.Parse(businessID); err != nil {
		exitWithError(fmt.Errorf("invalid business id %q", businessFlag))
	}
	if deltaFlag == 0 {
		exitWithError(errors.New("-delta must be non-zero"))
	}
	reason := strings.TrimSpace(reasonFlag)
	if reason == "" {
		exitWithError(errors.New("-reason is required"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger(os.Getenv("APP_ENV"), "credits")
	credits := repo.NewCreditRepository(infra.NewSQLRunner(pool, logger))

	execCtx, cancelExec := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelExec()

	if err := credits.Grant(execCtx, businessID, deltaFlag, reason); err != nil {
		exitWithError(fmt.Errorf("failed to record credit entry: %w", err))
	}
	balance, err := credits.Balance(execCtx, businessID)
	if err != nil {
		exitWithError(fmt.Errorf("entry recorded but balance read failed: %w", err))
	}

	fmt.Printf("Business %s adjusted by %+d (%s); balance is now %d\n", businessID, deltaFlag, reason, balance)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
