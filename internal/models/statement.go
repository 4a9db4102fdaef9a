package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Statement is the database row shape for a persisted statement. The
// normalized transaction list is stored as a JSONB document; all queries key
// on the scalar columns.
type Statement struct {
	StatementID   string
	AccountID     string // legacy owner id, empty for IBAN-keyed statements
	AccountIBAN   string
	AccountName   string
	AccountEmail  string
	Year          int
	Month         int
	DateStart     time.Time
	DateEnd       time.Time
	Transactions  []byte // JSONB
	TotalIncoming decimal.Decimal
	TotalOutgoing decimal.Decimal
	AuditFields
}

// AuditFields holds row timestamps.
type AuditFields struct {
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}
