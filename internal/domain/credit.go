package domain

import "time"

// Credit ledger reasons. The ledger is append-only; a business's balance is
// the sum of its deltas.
const (
	CreditReasonGeneration  = "generation"
	CreditReasonGrant       = "grant"
	CreditReasonSignupGrant = "signup_grant"
)

// CreditEntry is one ledger row. Debits carry a negative delta.
type CreditEntry struct {
	ID         string
	BusinessID string
	Delta      int
	Reason     string
	JobID      *string
	CreatedAt  time.Time
}
