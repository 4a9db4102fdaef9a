package clients_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/bank_statements_svc/internal/adapters/clients"
	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
)

func TestMockPartnerServices_AccountPool(t *testing.T) {
	m := clients.NewMockPartnerServices(slog.Default())
	ctx := context.Background()

	accounts, err := m.GetAllAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 10)

	for _, a := range accounts {
		assert.True(t, domain.IsIBAN(a.IBAN), "pool IBAN %q", a.IBAN)
	}

	// Lookup works by IBAN and by internal id.
	byIBAN, err := m.GetAccount(ctx, "ES1111111111111111111111")
	require.NoError(t, err)
	byID, err := m.GetAccount(ctx, byIBAN.ID)
	require.NoError(t, err)
	assert.Equal(t, byIBAN.IBAN, byID.IBAN)

	_, err = m.GetAccount(ctx, "ES0000000000000000000099")
	assert.Error(t, err)
}

func TestMockPartnerServices_TransactionsSpanTwoMonths(t *testing.T) {
	m := clients.NewMockPartnerServices(slog.Default())

	txns, err := m.GetTransactions(context.Background(), "ES1111111111111111111111", "")
	require.NoError(t, err)
	require.NotEmpty(t, txns)

	var incoming, outgoing int
	months := map[int]bool{}
	for _, txn := range txns {
		require.NotNil(t, txn.Time)
		months[int(txn.Time.Month())] = true
		if txn.Receiver == "ES1111111111111111111111" {
			incoming++
		} else {
			outgoing++
		}
		assert.False(t, txn.Amount.IsZero())
	}

	assert.GreaterOrEqual(t, len(months), 1)
	assert.Positive(t, incoming)
	assert.Positive(t, outgoing)
}

func TestMockPartnerServices_UnknownOwnerStillGetsHistory(t *testing.T) {
	m := clients.NewMockPartnerServices(slog.Default())

	txns, err := m.GetTransactions(context.Background(), "ES7070707070707070707070", "")
	require.NoError(t, err)
	assert.NotEmpty(t, txns)
}

func TestMockPartnerServices_SendNotification(t *testing.T) {
	m := clients.NewMockPartnerServices(slog.Default())

	err := m.SendNotification(context.Background(), domain.Notification{
		Type:      "statement_generated",
		Recipient: "demo@example.com",
		IBAN:      "ES1111111111111111111111",
		Year:      2025,
		Month:     3,
	})
	assert.NoError(t, err)
}
