package domain

import "github.com/shopspring/decimal"

// AccountInfo is an account directory record as served by the accounts
// microservice.
type AccountInfo struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	IBAN         string          `json:"iban"`
	Email        string          `json:"email"`
	PhoneNumber  string          `json:"phoneNumber"`
	Subscription string          `json:"subscription"`
	Balance      decimal.Decimal `json:"balance"`
	IsBlocked    bool            `json:"isBlocked"`
}

// Snapshot converts the directory record into the denormalized form stored on
// a statement.
func (a AccountInfo) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		ID:    a.ID,
		IBAN:  a.IBAN,
		Name:  a.Name,
		Email: a.Email,
	}
}
