package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	"github.com/shopspring/decimal"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestRawTransactionUnmarshal_AmountField(t *testing.T) {
	var txn domain.RawTransaction
	err := json.Unmarshal([]byte(`{"sender":"a","receiver":"b","amount":12.5,"currency":"EUR"}`), &txn)

	require.NoError(t, err)
	assert.Equal(t, "a", txn.Sender)
	assert.True(t, txn.Amount.Equal(decimalFromString(t, "12.5")))
}

func TestRawTransactionUnmarshal_QuantityFallback(t *testing.T) {
	var txn domain.RawTransaction
	err := json.Unmarshal([]byte(`{"sender":"a","receiver":"b","quantity":99}`), &txn)

	require.NoError(t, err)
	assert.True(t, txn.Amount.Equal(decimalFromString(t, "99")))
}

func TestRawTransactionUnmarshal_StringAmount(t *testing.T) {
	var txn domain.RawTransaction
	err := json.Unmarshal([]byte(`{"amount":"42.75"}`), &txn)

	require.NoError(t, err)
	assert.True(t, txn.Amount.Equal(decimalFromString(t, "42.75")))
}

func TestRawTransactionUnmarshal_GarbageAmountBecomesZero(t *testing.T) {
	var txn domain.RawTransaction
	err := json.Unmarshal([]byte(`{"amount":"not-a-number"}`), &txn)

	require.NoError(t, err)
	assert.True(t, txn.Amount.IsZero())
}

func TestRawTransactionUnmarshal_MissingAmountBecomesZero(t *testing.T) {
	var txn domain.RawTransaction
	err := json.Unmarshal([]byte(`{"sender":"a"}`), &txn)

	require.NoError(t, err)
	assert.True(t, txn.Amount.IsZero())
}

func TestRawTransactionUnmarshal_Timestamps(t *testing.T) {
	var txn domain.RawTransaction
	err := json.Unmarshal([]byte(`{"gmt_time":"2025-03-02T10:30:00Z"}`), &txn)
	require.NoError(t, err)
	require.NotNil(t, txn.Time)
	assert.Equal(t, time.Date(2025, 3, 2, 10, 30, 0, 0, time.UTC), txn.Time.UTC())

	// Plain date fallback through the "date" field.
	txn = domain.RawTransaction{}
	err = json.Unmarshal([]byte(`{"date":"2025-03-02"}`), &txn)
	require.NoError(t, err)
	require.NotNil(t, txn.Time)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), txn.Time.UTC())

	// No timestamp at all.
	txn = domain.RawTransaction{}
	err = json.Unmarshal([]byte(`{"amount":1}`), &txn)
	require.NoError(t, err)
	assert.Nil(t, txn.Time)
}

func TestRawTransactionUnmarshal_SenderBalance(t *testing.T) {
	var txn domain.RawTransaction
	err := json.Unmarshal([]byte(`{"sender_balance":1500.25,"receiver_balance":null}`), &txn)

	require.NoError(t, err)
	require.NotNil(t, txn.SenderBalance)
	assert.True(t, txn.SenderBalance.Equal(decimalFromString(t, "1500.25")))
	assert.Nil(t, txn.ReceiverBalance)
}

func TestIsIBAN(t *testing.T) {
	assert.True(t, domain.IsIBAN("ES1111111111111111111111"))
	assert.True(t, domain.IsIBAN("ES1234567890123456789012"))

	assert.False(t, domain.IsIBAN("ES123"))
	assert.False(t, domain.IsIBAN("FR1111111111111111111111"))
	assert.False(t, domain.IsIBAN("ES11111111111111111111112"))
	assert.False(t, domain.IsIBAN("662a1b3c4d5e6f7a8b9c0d1e"))
	assert.False(t, domain.IsIBAN(""))
}
