package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/SscSPs/bank_statements_svc/internal/apperrors"
	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_statements_svc/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_statements_svc/internal/core/ports/services"
	"github.com/SscSPs/bank_statements_svc/internal/dto"
	"github.com/SscSPs/bank_statements_svc/internal/middleware"
	"github.com/SscSPs/bank_statements_svc/internal/utils/aggregation"
)

// statementService implements CRUD over persisted statements.
type statementService struct {
	repo               portsrepo.StatementRepository
	generation         portssvc.GenerationSvcFacade
	autoGenerateOnMiss bool
	now                func() time.Time
}

// NewStatementService creates the statement CRUD facade.
func NewStatementService(repo portsrepo.StatementRepository, generation portssvc.GenerationSvcFacade, autoGenerateOnMiss bool) *statementService {
	return &statementService{
		repo:               repo,
		generation:         generation,
		autoGenerateOnMiss: autoGenerateOnMiss,
		now:                time.Now,
	}
}

func (s *statementService) ListByIBAN(ctx context.Context, iban string, rng domain.MonthRange) ([]domain.Statement, error) {
	return s.repo.ListByIBAN(ctx, iban, rng)
}

func (s *statementService) GetByID(ctx context.Context, statementID string) (*domain.Statement, error) {
	return s.repo.FindStatementByID(ctx, statementID)
}

// GetByIBANMonth fetches one period's statement. On a miss the behaviour is
// policy-driven: plain ErrNotFound by default, or on-demand generation when
// the service is configured for it. The live month is refreshed from freshly
// fetched transactions; a closed month gets a point-in-time statement with an
// empty transaction list, since its history can no longer be fetched.
func (s *statementService) GetByIBANMonth(ctx context.Context, iban string, period domain.YearMonth, claims *domain.UserClaims, token string) (*domain.Statement, domain.UpsertOutcome, error) {
	stmt, err := s.repo.FindByOwnerYearMonth(ctx, iban, period)
	if err == nil && stmt != nil {
		return stmt, domain.OutcomeExisting, nil
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", err
	}

	if !s.autoGenerateOnMiss {
		return nil, "", fmt.Errorf("%w: no statement for %s in %04d-%02d", apperrors.ErrNotFound, iban, period.Year, period.Month)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Statement miss, generating on demand",
		slog.String("iban", iban), slog.Int("year", period.Year), slog.Int("month", period.Month))

	if period == aggregation.CurrentMonth(s.now()) {
		return s.generation.RefreshCurrentMonth(ctx, iban, claims, token)
	}
	return s.generation.GenerateSingle(ctx, dto.GenerateStatementRequest{
		AccountID:    iban,
		Month:        fmt.Sprintf("%04d-%02d", period.Year, period.Month),
		Transactions: nil,
	}, claims)
}

func (s *statementService) UpdateByID(ctx context.Context, statementID string, update domain.StatementUpdate) (*domain.Statement, error) {
	return s.repo.UpdateStatement(ctx, statementID, update)
}

func (s *statementService) DeleteByID(ctx context.Context, statementID string) error {
	return s.repo.DeleteStatementByID(ctx, statementID)
}

// DeleteByIdentifier deletes one statement named by id or by a
// (accountId|accountName, month) composite.
func (s *statementService) DeleteByIdentifier(ctx context.Context, req dto.DeleteByIdentifierRequest) error {
	if !req.HasUsableIdentifier() {
		return fmt.Errorf("%w: an id, or an accountId or accountName together with a month, is required", apperrors.ErrValidation)
	}

	if req.ID != "" {
		return s.repo.DeleteStatementByID(ctx, req.ID)
	}

	period, err := aggregation.ParseMonth(req.Month)
	if err != nil {
		return err
	}

	var stmt *domain.Statement
	if req.AccountID != "" {
		stmt, err = s.repo.FindByOwnerYearMonth(ctx, req.AccountID, period)
	} else {
		stmt, err = s.repo.FindByAccountNameYearMonth(ctx, req.AccountName, period)
	}
	if err != nil {
		return err
	}
	return s.repo.DeleteStatementByID(ctx, stmt.StatementID)
}

// ReplaceForAccount swaps an account's entire statement history in one
// transaction. Each incoming statement is stamped with the owner so the
// replacement cannot scatter rows across accounts.
func (s *statementService) ReplaceForAccount(ctx context.Context, owner string, statements []domain.Statement) ([]domain.Statement, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: owner identifier is required", apperrors.ErrValidation)
	}

	now := s.now().UTC()
	for i := range statements {
		if statements[i].StatementID == "" {
			statements[i].StatementID = uuid.NewString()
		}
		if domain.IsIBAN(owner) {
			statements[i].Account.IBAN = owner
		} else {
			statements[i].Account.ID = owner
		}
		if statements[i].CreatedAt.IsZero() {
			statements[i].CreatedAt = now
		}
		statements[i].LastUpdatedAt = now
	}
	return s.repo.ReplaceStatementsForAccount(ctx, owner, statements)
}
