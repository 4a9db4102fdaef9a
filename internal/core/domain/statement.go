package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSnapshot is the denormalized account identity captured at generation
// time. It is not a live reference: later changes to the account do not
// propagate into existing statements.
type AccountSnapshot struct {
	// ID is the legacy internal account id, kept for statements generated
	// before IBAN became the primary owner identifier.
	ID    string `json:"id,omitempty"`
	IBAN  string `json:"iban"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OwnerIdentifier returns the identifier statements for this account are
// keyed by: the IBAN when present, the legacy id otherwise.
func (a AccountSnapshot) OwnerIdentifier() string {
	if a.IBAN != "" {
		return a.IBAN
	}
	return a.ID
}

// StatementTransaction is one normalized transaction line inside a statement.
type StatementTransaction struct {
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
}

// Statement is a persisted monthly summary of an account's transactions.
// At most one statement exists per (owner identifier, year, month).
type Statement struct {
	StatementID   string                 `json:"statementID"`
	Account       AccountSnapshot        `json:"account"`
	Year          int                    `json:"year"`
	Month         int                    `json:"month"` // 1-12
	DateStart     time.Time              `json:"date_start"`
	DateEnd       time.Time              `json:"date_end"`
	Transactions  []StatementTransaction `json:"transactions"` // ascending by date
	TotalIncoming decimal.Decimal        `json:"total_incoming"`
	TotalOutgoing decimal.Decimal        `json:"total_outgoing"`
	AuditFields
}

// Total is informational: the sum of both accumulated magnitudes.
func (s Statement) Total() decimal.Decimal {
	return s.TotalIncoming.Add(s.TotalOutgoing)
}

// StatementUpdate carries the fields an explicit update may replace.
// Nil fields are left untouched.
type StatementUpdate struct {
	Transactions  *[]StatementTransaction
	TotalIncoming *decimal.Decimal
	TotalOutgoing *decimal.Decimal
}

// UpsertOutcome tells a generation caller what happened to the statement.
type UpsertOutcome string

const (
	OutcomeCreated  UpsertOutcome = "created"
	OutcomeUpdated  UpsertOutcome = "updated"
	OutcomeExisting UpsertOutcome = "existing"
)

// GenerationResult is the per-account outcome of a bulk generation run.
type GenerationResult struct {
	OwnerIdentifier string
	Statement       *Statement
	Outcome         UpsertOutcome
	// Persisted is false when the statement only exists in memory because the
	// database write failed.
	Persisted bool
	Err       error
}
