package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// RawTransaction is the canonical form of a transaction record as produced by
// the transactions microservice. The upstream wire shape is heterogeneous
// (the amount may arrive as `amount` or `quantity`, the timestamp as
// `gmt_time` or `date` or not at all), so normalization happens once, here,
// and the raw shape never travels past this type.
type RawTransaction struct {
	Sender          string
	Receiver        string
	Amount          decimal.Decimal
	Currency        string
	Description     string
	Status          string
	SenderBalance   *decimal.Decimal
	ReceiverBalance *decimal.Decimal
	// Time is nil when the source timestamp is absent or unparseable.
	Time *time.Time
}

type rawTransactionWire struct {
	Sender          string          `json:"sender"`
	Receiver        string          `json:"receiver"`
	Amount          json.RawMessage `json:"amount"`
	Quantity        json.RawMessage `json:"quantity"`
	Currency        string          `json:"currency"`
	Description     string          `json:"description"`
	Status          string          `json:"status"`
	SenderBalance   json.RawMessage `json:"sender_balance"`
	ReceiverBalance json.RawMessage `json:"receiver_balance"`
	GMTTime         string          `json:"gmt_time"`
	Date            string          `json:"date"`
}

// UnmarshalJSON decodes the lenient upstream shape. Amount coercion never
// fails: non-numeric or missing values become zero.
func (t *RawTransaction) UnmarshalJSON(data []byte) error {
	var wire rawTransactionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	amount := wire.Amount
	if len(amount) == 0 {
		amount = wire.Quantity
	}

	*t = RawTransaction{
		Sender:          wire.Sender,
		Receiver:        wire.Receiver,
		Amount:          coerceDecimal(amount),
		Currency:        wire.Currency,
		Description:     wire.Description,
		Status:          wire.Status,
		SenderBalance:   coerceDecimalPtr(wire.SenderBalance),
		ReceiverBalance: coerceDecimalPtr(wire.ReceiverBalance),
		Time:            parseWireTime(wire.GMTTime, wire.Date),
	}
	return nil
}

// coerceDecimal turns a JSON number or numeric string into a decimal,
// defaulting to zero for anything else.
func coerceDecimal(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if d, err := decimal.NewFromString(s); err == nil {
			return d
		}
		return decimal.Zero
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err == nil {
		return d
	}
	return decimal.Zero
}

func coerceDecimalPtr(raw json.RawMessage) *decimal.Decimal {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	d := coerceDecimal(raw)
	return &d
}

func parseWireTime(candidates ...string) *time.Time {
	layouts := []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, c); err == nil {
				return &ts
			}
		}
	}
	return nil
}
