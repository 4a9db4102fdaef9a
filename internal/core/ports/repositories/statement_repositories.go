package repositories

import (
	"context"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
)

// StatementRepository defines persistence operations for statements.
// Owner-keyed lookups match either the account IBAN or the legacy account id,
// since statements generated before the IBAN migration are keyed by the
// latter.
type StatementRepository interface {
	SaveStatement(ctx context.Context, statement domain.Statement) error
	FindStatementByID(ctx context.Context, statementID string) (*domain.Statement, error)
	FindByOwnerYearMonth(ctx context.Context, owner string, period domain.YearMonth) (*domain.Statement, error)
	FindByAccountNameYearMonth(ctx context.Context, accountName string, period domain.YearMonth) (*domain.Statement, error)
	ListByIBAN(ctx context.Context, iban string, rng domain.MonthRange) ([]domain.Statement, error)
	UpdateStatement(ctx context.Context, statementID string, update domain.StatementUpdate) (*domain.Statement, error)
	DeleteStatementByID(ctx context.Context, statementID string) error
	// ReplaceStatementsForAccount atomically removes all statements owned by
	// owner and inserts the given ones in their place.
	ReplaceStatementsForAccount(ctx context.Context, owner string, statements []domain.Statement) ([]domain.Statement, error)
}

// RepositoryProvider bundles the repositories the service container needs.
type RepositoryProvider struct {
	Statement StatementRepository
}
