package services

import (
	"context"

	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	"github.com/SscSPs/bank_statements_svc/internal/dto"
)

// StatementSvcFacade exposes CRUD over persisted statements.
type StatementSvcFacade interface {
	ListByIBAN(ctx context.Context, iban string, rng domain.MonthRange) ([]domain.Statement, error)
	GetByID(ctx context.Context, statementID string) (*domain.Statement, error)
	// GetByIBANMonth fetches the statement for one period. When the service is
	// configured to auto-generate on miss, the claims and bearer token feed the
	// generation path; otherwise a miss is ErrNotFound.
	GetByIBANMonth(ctx context.Context, iban string, period domain.YearMonth, claims *domain.UserClaims, token string) (*domain.Statement, domain.UpsertOutcome, error)
	UpdateByID(ctx context.Context, statementID string, update domain.StatementUpdate) (*domain.Statement, error)
	DeleteByID(ctx context.Context, statementID string) error
	DeleteByIdentifier(ctx context.Context, req dto.DeleteByIdentifierRequest) error
	ReplaceForAccount(ctx context.Context, owner string, statements []domain.Statement) ([]domain.Statement, error)
}

// GenerationSvcFacade exposes the three statement-generation entry points.
type GenerationSvcFacade interface {
	// GenerateBulk runs scheduler-driven generation across the whole account
	// directory. One account's failure never aborts the others; there is no
	// caller to report to, so per-account errors live in the results.
	GenerateBulk(ctx context.Context) []domain.GenerationResult
	// GenerateSingle is the point-in-time, create-only path. The live month is
	// rejected and an existing statement is returned unchanged.
	GenerateSingle(ctx context.Context, req dto.GenerateStatementRequest, claims *domain.UserClaims) (*domain.Statement, domain.UpsertOutcome, error)
	// RefreshCurrentMonth upserts the statement for the live calendar month
	// from freshly fetched transactions.
	RefreshCurrentMonth(ctx context.Context, owner string, claims *domain.UserClaims, token string) (*domain.Statement, domain.UpsertOutcome, error)
}

// ServiceContainer holds instances of all the application services and is the
// entry point the handlers receive their dependencies through.
type ServiceContainer struct {
	Statement  StatementSvcFacade
	Generation GenerationSvcFacade
}
