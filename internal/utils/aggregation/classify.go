// Package aggregation holds the pure statement arithmetic: classifying raw
// transactions as incoming or outgoing relative to an owner, accumulating
// totals, and calendar-month bookkeeping. Nothing here touches storage or
// the network, which keeps the generation logic trivially testable.
package aggregation

import (
	"sort"
	"time"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Totals are the accumulated incoming/outgoing magnitudes of a statement.
// Both are monotonically accumulated and never negative.
type Totals struct {
	Incoming decimal.Decimal
	Outgoing decimal.Decimal
}

// Classify turns raw transactions into normalized statement lines and totals
// for the given owner identifier (IBAN or legacy account id).
//
// Precedence per transaction:
//  1. receiver == owner: incoming, |amount| added to the incoming total
//  2. sender == owner: outgoing, |amount| added to the outgoing total
//  3. neither matches: the sign of the amount decides; positive amounts are
//     added to incoming as-is, negative amounts to outgoing as |amount|, and
//     zero contributes to neither total.
//
// Normalized lines default the date to now when the source timestamp is
// absent and the currency to fallbackCurrency when empty. The result is
// sorted ascending by date.
func Classify(owner string, raw []domain.RawTransaction, fallbackCurrency string, now time.Time) ([]domain.StatementTransaction, Totals) {
	totals := Totals{Incoming: decimal.Zero, Outgoing: decimal.Zero}
	normalized := make([]domain.StatementTransaction, 0, len(raw))

	for _, txn := range raw {
		amount := txn.Amount

		switch {
		case owner != "" && txn.Receiver == owner:
			totals.Incoming = totals.Incoming.Add(amount.Abs())
		case owner != "" && txn.Sender == owner:
			totals.Outgoing = totals.Outgoing.Add(amount.Abs())
		case amount.IsPositive():
			totals.Incoming = totals.Incoming.Add(amount)
		case amount.IsNegative():
			totals.Outgoing = totals.Outgoing.Add(amount.Abs())
		}

		date := now
		if txn.Time != nil {
			date = *txn.Time
		}
		currency := txn.Currency
		if currency == "" {
			currency = fallbackCurrency
		}

		normalized = append(normalized, domain.StatementTransaction{
			Date:        date,
			Amount:      amount,
			Currency:    currency,
			Description: txn.Description,
		})
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Date.Before(normalized[j].Date)
	})

	return normalized, totals
}

// OpeningBalance returns the sender_balance of the first raw transaction in
// arrival order, modelling the account's opening balance for the month. Zero
// when no transaction carries one.
func OpeningBalance(raw []domain.RawTransaction) decimal.Decimal {
	if len(raw) == 0 || raw[0].SenderBalance == nil {
		return decimal.Zero
	}
	return *raw[0].SenderBalance
}
