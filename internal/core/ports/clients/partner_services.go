package clients

import (
	"context"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
)

// PartnerServices abstracts the accounts, transactions and notifications
// microservices behind one pluggable strategy. Implementations are selected
// at startup (mock or http) and injected into the services that need them;
// nothing reaches for a strategy through ambient state.
type PartnerServices interface {
	GetAccount(ctx context.Context, id string) (*domain.AccountInfo, error)
	GetAllAccounts(ctx context.Context) ([]domain.AccountInfo, error)
	// GetTransactions fetches the raw transaction history for an owner
	// identifier, forwarding the caller's bearer token when non-empty.
	GetTransactions(ctx context.Context, owner string, token string) ([]domain.RawTransaction, error)
	// SendNotification is fire-and-forget; callers swallow its errors.
	SendNotification(ctx context.Context, notification domain.Notification) error
}
