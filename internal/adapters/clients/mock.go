package clients

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	portsclients "github.com/SscSPs/bank_statements_svc/internal/core/ports/clients"
)

// MockPartnerServices serves a fixed pool of ten accounts with deterministic
// synthetic transactions for the current and previous month. It exists so the
// service can run end to end without the partner microservices.
type MockPartnerServices struct {
	accounts []domain.AccountInfo
	logger   *slog.Logger
	now      func() time.Time
}

// NewMockPartnerServices builds the mock strategy with its fixed account pool.
func NewMockPartnerServices(logger *slog.Logger) *MockPartnerServices {
	m := &MockPartnerServices{logger: logger, now: time.Now}

	ibans := []string{
		"ES1111111111111111111111",
		"ES2222222222222222222222",
		"ES3333333333333333333333",
		"ES4444444444444444444444",
		"ES5555555555555555555555",
		"ES6666666666666666666666",
		"ES7777777777777777777777",
		"ES8888888888888888888888",
		"ES9999999999999999999999",
		"ES1234567890123456789012",
	}
	for i, iban := range ibans {
		m.accounts = append(m.accounts, domain.AccountInfo{
			ID:           fmt.Sprintf("mock-account-%02d", i+1),
			Name:         fmt.Sprintf("Cliente Demo %d", i+1),
			IBAN:         iban,
			Email:        fmt.Sprintf("cliente%d@example.com", i+1),
			PhoneNumber:  fmt.Sprintf("+3460000000%d", i),
			Subscription: "basico",
			Balance:      decimal.NewFromInt(int64(1000 * (i + 1))),
		})
	}
	return m
}

var _ portsclients.PartnerServices = (*MockPartnerServices)(nil)

// GetAccount resolves an account by id or IBAN from the pool.
func (m *MockPartnerServices) GetAccount(_ context.Context, id string) (*domain.AccountInfo, error) {
	for i := range m.accounts {
		if m.accounts[i].ID == id || m.accounts[i].IBAN == id {
			account := m.accounts[i]
			return &account, nil
		}
	}
	return nil, fmt.Errorf("mock account %q not found", id)
}

// GetAllAccounts returns the whole pool.
func (m *MockPartnerServices) GetAllAccounts(_ context.Context) ([]domain.AccountInfo, error) {
	accounts := make([]domain.AccountInfo, len(m.accounts))
	copy(accounts, m.accounts)
	return accounts, nil
}

// GetTransactions synthesizes a deterministic history for the owner: three
// transactions in the previous month and two in the current one, mixing
// incoming and outgoing directions.
func (m *MockPartnerServices) GetTransactions(_ context.Context, owner string, _ string) ([]domain.RawTransaction, error) {
	account := m.findOwner(owner)
	if account == nil {
		// Unknown owners still get a history so ad hoc generation works.
		account = &domain.AccountInfo{IBAN: owner, ID: owner}
	}

	self := account.IBAN
	if self == "" {
		self = account.ID
	}
	counterparty := "ES0000000000000000000000"

	now := m.now().UTC()
	currentFirst := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	previousFirst := currentFirst.AddDate(0, -1, 0)

	at := func(base time.Time, day, hour int) *time.Time {
		ts := base.AddDate(0, 0, day-1).Add(time.Duration(hour) * time.Hour)
		return &ts
	}
	balance := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}

	return []domain.RawTransaction{
		{
			Sender:        counterparty,
			Receiver:      self,
			Amount:        decimal.NewFromInt(1200),
			Currency:      "EUR",
			Description:   "Nomina",
			Status:        "completed",
			SenderBalance: balance(5000),
			Time:          at(previousFirst, 1, 9),
		},
		{
			Sender:        self,
			Receiver:      counterparty,
			Amount:        decimal.NewFromInt(350),
			Currency:      "EUR",
			Description:   "Alquiler",
			Status:        "completed",
			SenderBalance: balance(6200),
			Time:          at(previousFirst, 5, 12),
		},
		{
			Sender:        self,
			Receiver:      counterparty,
			Amount:        decimal.NewFromFloat(42.50),
			Currency:      "EUR",
			Description:   "Supermercado",
			Status:        "completed",
			SenderBalance: balance(5850),
			Time:          at(previousFirst, 14, 18),
		},
		{
			Sender:        counterparty,
			Receiver:      self,
			Amount:        decimal.NewFromInt(75),
			Currency:      "EUR",
			Description:   "Transferencia recibida",
			Status:        "completed",
			SenderBalance: balance(900),
			Time:          at(currentFirst, 2, 10),
		},
		{
			Sender:        self,
			Receiver:      counterparty,
			Amount:        decimal.NewFromFloat(19.99),
			Currency:      "EUR",
			Description:   "Suscripcion",
			Status:        "completed",
			SenderBalance: balance(5880),
			Time:          at(currentFirst, 3, 8),
		},
	}, nil
}

// SendNotification logs the payload instead of delivering it.
func (m *MockPartnerServices) SendNotification(_ context.Context, notification domain.Notification) error {
	m.logger.Info("Mock notification sent",
		slog.String("type", notification.Type),
		slog.String("recipient", notification.Recipient),
		slog.String("iban", notification.IBAN),
		slog.Int("year", notification.Year),
		slog.Int("month", notification.Month),
	)
	return nil
}

func (m *MockPartnerServices) findOwner(owner string) *domain.AccountInfo {
	for i := range m.accounts {
		if m.accounts[i].ID == owner || strings.EqualFold(m.accounts[i].IBAN, owner) {
			return &m.accounts[i]
		}
	}
	return nil
}
