package dto

import (
	"time"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	"github.com/SscSPs/bank_statements_svc/internal/utils/aggregation"
	"github.com/shopspring/decimal"
)

// The statement wire format is snake_case: it is the external contract other
// services in the platform already consume.

// AccountPayload mirrors domain.AccountSnapshot on the wire.
type AccountPayload struct {
	ID    string `json:"id,omitempty"`
	IBAN  string `json:"iban"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TransactionPayload is one normalized statement transaction on the wire.
type TransactionPayload struct {
	Date        time.Time       `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency" binding:"required"`
	Description string          `json:"description"`
}

func (p TransactionPayload) ToDomain() domain.StatementTransaction {
	return domain.StatementTransaction{
		Date:        p.Date,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Description: p.Description,
	}
}

// StatementPayload is a full statement document as accepted by the
// replace-statements endpoint.
type StatementPayload struct {
	Account       AccountPayload       `json:"account"`
	DateStart     time.Time            `json:"date_start" binding:"required"`
	DateEnd       time.Time            `json:"date_end" binding:"required"`
	Transactions  []TransactionPayload `json:"transactions" binding:"dive"`
	TotalIncoming decimal.Decimal      `json:"total_incoming"`
	TotalOutgoing decimal.Decimal      `json:"total_outgoing"`
	Year          int                  `json:"year" binding:"required,min=2000,max=2100"`
	Month         int                  `json:"month" binding:"required,min=1,max=12"`
}

func (p StatementPayload) ToDomain() domain.Statement {
	txns := make([]domain.StatementTransaction, len(p.Transactions))
	for i, t := range p.Transactions {
		txns[i] = t.ToDomain()
	}
	return domain.Statement{
		Account: domain.AccountSnapshot{
			ID:    p.Account.ID,
			IBAN:  p.Account.IBAN,
			Name:  p.Account.Name,
			Email: p.Account.Email,
		},
		Year:          p.Year,
		Month:         p.Month,
		DateStart:     p.DateStart,
		DateEnd:       p.DateEnd,
		Transactions:  txns,
		TotalIncoming: p.TotalIncoming,
		TotalOutgoing: p.TotalOutgoing,
	}
}

// StatementResponse is the full statement representation returned to callers.
type StatementResponse struct {
	ID            string               `json:"id"`
	Account       AccountPayload       `json:"account"`
	Year          int                  `json:"year"`
	Month         int                  `json:"month"`
	DateStart     time.Time            `json:"date_start"`
	DateEnd       time.Time            `json:"date_end"`
	Transactions  []TransactionPayload `json:"transactions"`
	TotalIncoming decimal.Decimal      `json:"total_incoming"`
	TotalOutgoing decimal.Decimal      `json:"total_outgoing"`
	Total         decimal.Decimal      `json:"total"`
}

// ToStatementResponse converts a domain.Statement to its wire form.
func ToStatementResponse(s *domain.Statement) StatementResponse {
	txns := make([]TransactionPayload, len(s.Transactions))
	for i, t := range s.Transactions {
		txns[i] = TransactionPayload{
			Date:        t.Date,
			Amount:      t.Amount,
			Currency:    t.Currency,
			Description: t.Description,
		}
	}
	return StatementResponse{
		ID: s.StatementID,
		Account: AccountPayload{
			ID:    s.Account.ID,
			IBAN:  s.Account.IBAN,
			Name:  s.Account.Name,
			Email: s.Account.Email,
		},
		Year:          s.Year,
		Month:         s.Month,
		DateStart:     s.DateStart,
		DateEnd:       s.DateEnd,
		Transactions:  txns,
		TotalIncoming: s.TotalIncoming,
		TotalOutgoing: s.TotalOutgoing,
		Total:         s.Total(),
	}
}

// MonthSummaryResponse is one entry of the by-IBAN month listing.
type MonthSummaryResponse struct {
	ID               string          `json:"id"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	MonthName        string          `json:"month_name"`
	DateStart        time.Time       `json:"date_start"`
	DateEnd          time.Time       `json:"date_end"`
	TotalIncoming    decimal.Decimal `json:"total_incoming"`
	TotalOutgoing    decimal.Decimal `json:"total_outgoing"`
	TransactionCount int             `json:"transaction_count"`
}

// ToMonthSummaryResponse converts a statement to its listing summary.
func ToMonthSummaryResponse(s *domain.Statement) MonthSummaryResponse {
	return MonthSummaryResponse{
		ID:               s.StatementID,
		Year:             s.Year,
		Month:            s.Month,
		MonthName:        aggregation.MonthName(s.Month),
		DateStart:        s.DateStart,
		DateEnd:          s.DateEnd,
		TotalIncoming:    s.TotalIncoming,
		TotalOutgoing:    s.TotalOutgoing,
		TransactionCount: len(s.Transactions),
	}
}

// ErrorResponse is the JSON failure body: a machine-readable kind plus an
// optional human message.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
