package aggregation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	"github.com/SscSPs/bank_statements_svc/internal/utils/aggregation"
)

const testOwner = "ES1111111111111111111111"

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func tsPtr(t time.Time) *time.Time {
	return &t
}

func TestClassify_OwnerAsReceiverAndSender(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	raw := []domain.RawTransaction{
		{
			Sender:   "ES2222222222222222222222",
			Receiver: testOwner,
			Amount:   dec("150"),
			Currency: "EUR",
			Time:     tsPtr(time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)),
		},
		{
			Sender:   testOwner,
			Receiver: "ES2222222222222222222222",
			Amount:   dec("50"),
			Currency: "EUR",
			Time:     tsPtr(time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)),
		},
	}

	lines, totals := aggregation.Classify(testOwner, raw, "EUR", now)

	require.Len(t, lines, 2)
	assert.True(t, totals.Incoming.Equal(dec("150")), "incoming = %s", totals.Incoming)
	assert.True(t, totals.Outgoing.Equal(dec("50")), "outgoing = %s", totals.Outgoing)
}

func TestClassify_ReceiverMatchWinsOverSender(t *testing.T) {
	// Self-transfer: receiver match takes precedence, the amount counts as
	// incoming only.
	raw := []domain.RawTransaction{
		{Sender: testOwner, Receiver: testOwner, Amount: dec("30")},
	}

	_, totals := aggregation.Classify(testOwner, raw, "EUR", time.Now())

	assert.True(t, totals.Incoming.Equal(dec("30")))
	assert.True(t, totals.Outgoing.IsZero())
}

func TestClassify_NegativeAmountForOwnerCountsAbsolute(t *testing.T) {
	raw := []domain.RawTransaction{
		{Sender: testOwner, Receiver: "ES3333333333333333333333", Amount: dec("-75.25")},
	}

	_, totals := aggregation.Classify(testOwner, raw, "EUR", time.Now())

	assert.True(t, totals.Outgoing.Equal(dec("75.25")))
	assert.True(t, totals.Incoming.IsZero())
}

func TestClassify_SignFallbackWhenNeitherPartyMatches(t *testing.T) {
	raw := []domain.RawTransaction{
		{Sender: "a", Receiver: "b", Amount: dec("20")},
		{Sender: "a", Receiver: "b", Amount: dec("-10")},
		{Sender: "a", Receiver: "b", Amount: decimal.Zero},
	}

	lines, totals := aggregation.Classify(testOwner, raw, "EUR", time.Now())

	// Zero amounts still produce a statement line, they just contribute to
	// neither total.
	assert.Len(t, lines, 3)
	assert.True(t, totals.Incoming.Equal(dec("20")))
	assert.True(t, totals.Outgoing.Equal(dec("10")))
}

func TestClassify_DefaultsDateAndCurrency(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	raw := []domain.RawTransaction{
		{Sender: "a", Receiver: testOwner, Amount: dec("5")},
	}

	lines, _ := aggregation.Classify(testOwner, raw, "EUR", now)

	require.Len(t, lines, 1)
	assert.Equal(t, now, lines[0].Date)
	assert.Equal(t, "EUR", lines[0].Currency)
}

func TestClassify_SortsAscendingByDate(t *testing.T) {
	raw := []domain.RawTransaction{
		{Receiver: testOwner, Amount: dec("1"), Time: tsPtr(time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))},
		{Receiver: testOwner, Amount: dec("2"), Time: tsPtr(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))},
		{Receiver: testOwner, Amount: dec("3"), Time: tsPtr(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))},
	}

	lines, _ := aggregation.Classify(testOwner, raw, "EUR", time.Now())

	require.Len(t, lines, 3)
	assert.True(t, lines[0].Amount.Equal(dec("2")))
	assert.True(t, lines[1].Amount.Equal(dec("3")))
	assert.True(t, lines[2].Amount.Equal(dec("1")))
}

func TestClassify_EmptyInput(t *testing.T) {
	lines, totals := aggregation.Classify(testOwner, nil, "EUR", time.Now())

	assert.Empty(t, lines)
	assert.True(t, totals.Incoming.IsZero())
	assert.True(t, totals.Outgoing.IsZero())
}

func TestOpeningBalance_FirstTransactionSenderBalance(t *testing.T) {
	raw := []domain.RawTransaction{
		{Receiver: testOwner, Amount: dec("1"), SenderBalance: decPtr("1200.50")},
		{Receiver: testOwner, Amount: dec("2"), SenderBalance: decPtr("999")},
	}

	assert.True(t, aggregation.OpeningBalance(raw).Equal(dec("1200.50")))
}

func TestOpeningBalance_MissingIsZero(t *testing.T) {
	assert.True(t, aggregation.OpeningBalance(nil).IsZero())
	assert.True(t, aggregation.OpeningBalance([]domain.RawTransaction{{Amount: dec("5")}}).IsZero())
}
