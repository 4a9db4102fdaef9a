package dto

import (
	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IBANPathParams binds the :iban path parameter.
type IBANPathParams struct {
	IBAN string `uri:"iban" binding:"required,iban_es"`
}

// StatementIDPathParams binds the :id path parameter.
type StatementIDPathParams struct {
	ID string `uri:"id" binding:"required,uuid4"`
}

// ListByIBANParams are the optional period-range filters of the month listing.
type ListByIBANParams struct {
	From string `form:"from" binding:"omitempty,yearmonth"`
	To   string `form:"to" binding:"omitempty,yearmonth"`
}

// GetByIBANMonthParams identify one statement by IBAN and period.
type GetByIBANMonthParams struct {
	IBAN  string `form:"iban" binding:"required,iban_es"`
	Month string `form:"month" binding:"required,yearmonth"`
}

// GenerateStatementRequest is the point-in-time generation body. When no
// discriminating field is present the endpoint triggers a bulk run instead.
type GenerateStatementRequest struct {
	AccountID    string                  `json:"accountId"`
	Month        string                  `json:"month" binding:"omitempty,yearmonth"`
	Transactions []domain.RawTransaction `json:"transactions"`
}

// IsBulkTrigger reports whether the body carries nothing that scopes the
// request to one account.
func (r GenerateStatementRequest) IsBulkTrigger() bool {
	return r.AccountID == "" && r.Month == "" && len(r.Transactions) == 0
}

// GenerateCurrentRequest optionally pins the refresh to an IBAN; it must
// match the caller's token claim.
type GenerateCurrentRequest struct {
	IBAN string `json:"iban" binding:"omitempty,iban_es"`
}

// UpdateStatementRequest is the partial update body; nil fields are left
// untouched.
type UpdateStatementRequest struct {
	Transactions  *[]TransactionPayload `json:"transactions" binding:"omitempty,dive"`
	TotalIncoming *decimal.Decimal      `json:"total_incoming"`
	TotalOutgoing *decimal.Decimal      `json:"total_outgoing"`
}

// ToDomain converts the request into a domain update.
func (r UpdateStatementRequest) ToDomain() domain.StatementUpdate {
	update := domain.StatementUpdate{
		TotalIncoming: r.TotalIncoming,
		TotalOutgoing: r.TotalOutgoing,
	}
	if r.Transactions != nil {
		txns := make([]domain.StatementTransaction, len(*r.Transactions))
		for i, t := range *r.Transactions {
			txns[i] = t.ToDomain()
		}
		update.Transactions = &txns
	}
	return update
}

// DeleteByIdentifierRequest deletes one statement either by id or by a
// (accountId|accountName, month) composite.
type DeleteByIdentifierRequest struct {
	ID          string `json:"id" binding:"omitempty,uuid4"`
	AccountID   string `json:"accountId"`
	AccountName string `json:"accountName"`
	Month       string `json:"month" binding:"omitempty,yearmonth"`
}

// HasUsableIdentifier reports whether the body identifies a statement at all.
func (r DeleteByIdentifierRequest) HasUsableIdentifier() bool {
	if r.ID != "" {
		return true
	}
	return (r.AccountID != "" || r.AccountName != "") && r.Month != ""
}
