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
	portsclients "github.com/SscSPs/bank_statements_svc/internal/core/ports/clients"
	portsrepo "github.com/SscSPs/bank_statements_svc/internal/core/ports/repositories"
	"github.com/SscSPs/bank_statements_svc/internal/dto"
	"github.com/SscSPs/bank_statements_svc/internal/middleware"
	"github.com/SscSPs/bank_statements_svc/internal/utils/aggregation"
)

// generationService implements the three statement-generation entry points.
type generationService struct {
	repo             portsrepo.StatementRepository
	partners         portsclients.PartnerServices
	targetPrevMonth  bool
	fallbackCurrency string
	now              func() time.Time
}

// NewGenerationService creates the generation facade.
func NewGenerationService(repo portsrepo.StatementRepository, partners portsclients.PartnerServices, targetPreviousMonth bool, fallbackCurrency string) *generationService {
	return &generationService{
		repo:             repo,
		partners:         partners,
		targetPrevMonth:  targetPreviousMonth,
		fallbackCurrency: fallbackCurrency,
		now:              time.Now,
	}
}

// buildStatement assembles an in-memory statement from raw transactions.
// Pure computation: no storage, no network.
func (s *generationService) buildStatement(account domain.AccountSnapshot, period domain.YearMonth, raw []domain.RawTransaction) domain.Statement {
	start, end := aggregation.MonthBounds(period)
	lines, totals := aggregation.Classify(account.OwnerIdentifier(), raw, s.fallbackCurrency, s.now())

	// The first raw transaction's sender balance models the account's
	// opening balance for the month and seeds the incoming total.
	opening := aggregation.OpeningBalance(raw)

	now := s.now().UTC()
	return domain.Statement{
		StatementID:   uuid.NewString(),
		Account:       account,
		Year:          period.Year,
		Month:         period.Month,
		DateStart:     start,
		DateEnd:       end,
		Transactions:  lines,
		TotalIncoming: opening.Add(totals.Incoming),
		TotalOutgoing: totals.Outgoing,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}

// resolveSnapshot picks the account identity for a new statement. Claims that
// match the owner win, then the accounts directory, then a bare identifier.
func (s *generationService) resolveSnapshot(ctx context.Context, owner string, claims *domain.UserClaims) domain.AccountSnapshot {
	if claims != nil && (claims.IBAN == owner || claims.ID == owner) {
		return claims.Snapshot()
	}

	if account, err := s.partners.GetAccount(ctx, owner); err == nil && account != nil {
		return account.Snapshot()
	} else if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Account lookup failed, using bare owner identifier",
			slog.String("owner", owner), slog.String("error", err.Error()))
	}

	snapshot := domain.AccountSnapshot{}
	if domain.IsIBAN(owner) {
		snapshot.IBAN = owner
	} else {
		snapshot.ID = owner
	}
	return snapshot
}

// notify sends a best-effort statement notification. Failures are logged and
// swallowed so partner outages never fail generation.
func (s *generationService) notify(ctx context.Context, kind string, stmt *domain.Statement) {
	notification := domain.Notification{
		Type:      kind,
		Recipient: stmt.Account.Email,
		IBAN:      stmt.Account.IBAN,
		Year:      stmt.Year,
		Month:     stmt.Month,
		Message:   fmt.Sprintf("Tu extracto de %s %d ya esta disponible", aggregation.MonthName(stmt.Month), stmt.Year),
	}
	if err := s.partners.SendNotification(ctx, notification); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to send statement notification",
			slog.String("iban", stmt.Account.IBAN), slog.String("error", err.Error()))
	}
}

// GenerateSingle creates a statement for one closed month from the
// transactions provided in the request. It never overwrites: an existing
// statement for the period is returned unchanged.
func (s *generationService) GenerateSingle(ctx context.Context, req dto.GenerateStatementRequest, claims *domain.UserClaims) (*domain.Statement, domain.UpsertOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	owner := req.AccountID
	if owner == "" && claims != nil {
		owner = claims.IBAN
	}
	if owner == "" {
		return nil, "", fmt.Errorf("%w: accountId is required", apperrors.ErrValidation)
	}
	if req.Month == "" {
		return nil, "", fmt.Errorf("%w: month is required", apperrors.ErrValidation)
	}

	period, err := aggregation.ParseMonth(req.Month)
	if err != nil {
		return nil, "", err
	}
	if period == aggregation.CurrentMonth(s.now()) {
		return nil, "", fmt.Errorf("%w: statements for the current month are generated through the refresh endpoint", apperrors.ErrMonthInProgress)
	}

	if existing, err := s.repo.FindByOwnerYearMonth(ctx, owner, period); err == nil && existing != nil {
		logger.Info("Statement already exists for period, returning unchanged",
			slog.String("owner", owner), slog.Int("year", period.Year), slog.Int("month", period.Month))
		return existing, domain.OutcomeExisting, nil
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, "", fmt.Errorf("%w: checking for existing statement: %v", apperrors.ErrPersistence, err)
	}

	snapshot := s.resolveSnapshot(ctx, owner, claims)
	stmt := s.buildStatement(snapshot, period, req.Transactions)

	if err := s.repo.SaveStatement(ctx, stmt); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent run won the insert race; the period row is the
			// authoritative one.
			if existing, findErr := s.repo.FindByOwnerYearMonth(ctx, owner, period); findErr == nil {
				return existing, domain.OutcomeExisting, nil
			}
		}
		// Degraded mode: hand back the computed statement even though the
		// write failed, so the caller still gets its data. Notification is
		// attempted regardless of the persistence outcome.
		logger.Warn("Failed to persist generated statement, returning in-memory result",
			slog.String("owner", owner), slog.String("error", err.Error()))
		s.notify(ctx, "statement_generated", &stmt)
		return &stmt, domain.OutcomeCreated, nil
	}

	s.notify(ctx, "statement_generated", &stmt)
	return &stmt, domain.OutcomeCreated, nil
}

// RefreshCurrentMonth regenerates the live month's statement from freshly
// fetched transactions, creating or updating in place.
func (s *generationService) RefreshCurrentMonth(ctx context.Context, owner string, claims *domain.UserClaims, token string) (*domain.Statement, domain.UpsertOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if owner == "" {
		return nil, "", fmt.Errorf("%w: owner identifier is required", apperrors.ErrValidation)
	}

	raw, err := s.partners.GetTransactions(ctx, owner, token)
	if err != nil {
		return nil, "", err
	}

	period := aggregation.CurrentMonth(s.now())
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("%w: no transactions found for %04d-%02d", apperrors.ErrNoTransactions, period.Year, period.Month)
	}

	snapshot := s.resolveSnapshot(ctx, owner, claims)
	stmt := s.buildStatement(snapshot, period, raw)

	existing, err := s.repo.FindByOwnerYearMonth(ctx, owner, period)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Failed to look up current month statement, returning in-memory result",
			slog.String("owner", owner), slog.String("error", err.Error()))
		s.notify(ctx, "statement_generated", &stmt)
		return &stmt, domain.OutcomeCreated, nil
	}

	if existing != nil {
		updated, err := s.repo.UpdateStatement(ctx, existing.StatementID, domain.StatementUpdate{
			Transactions:  &stmt.Transactions,
			TotalIncoming: &stmt.TotalIncoming,
			TotalOutgoing: &stmt.TotalOutgoing,
		})
		if err != nil {
			logger.Warn("Failed to persist refreshed statement, returning in-memory result",
				slog.String("owner", owner), slog.String("error", err.Error()))
			stmt.StatementID = existing.StatementID
			s.notify(ctx, "statement_refreshed", &stmt)
			return &stmt, domain.OutcomeUpdated, nil
		}
		s.notify(ctx, "statement_refreshed", updated)
		return updated, domain.OutcomeUpdated, nil
	}

	if err := s.repo.SaveStatement(ctx, stmt); err != nil {
		logger.Warn("Failed to persist current month statement, returning in-memory result",
			slog.String("owner", owner), slog.String("error", err.Error()))
		s.notify(ctx, "statement_generated", &stmt)
		return &stmt, domain.OutcomeCreated, nil
	}
	s.notify(ctx, "statement_generated", &stmt)
	return &stmt, domain.OutcomeCreated, nil
}

// GenerateBulk generates statements for every account in the directory. The
// target month comes from configuration: the month that just closed (the
// scheduled first-of-month run) or the live month. Accounts are processed
// serially and one account's failure never aborts the rest.
func (s *generationService) GenerateBulk(ctx context.Context) []domain.GenerationResult {
	logger := middleware.GetLoggerFromCtx(ctx)

	var target domain.YearMonth
	if s.targetPrevMonth {
		target = aggregation.PreviousMonth(s.now())
	} else {
		target = aggregation.CurrentMonth(s.now())
	}
	currentMonthTarget := target == aggregation.CurrentMonth(s.now())

	accounts, err := s.partners.GetAllAccounts(ctx)
	if err != nil {
		logger.Error("Failed to fetch account directory for bulk generation", slog.String("error", err.Error()))
		return nil
	}

	logger.Info("Starting bulk statement generation",
		slog.Int("accounts", len(accounts)), slog.Int("year", target.Year), slog.Int("month", target.Month))

	results := make([]domain.GenerationResult, 0, len(accounts))
	for _, account := range accounts {
		results = append(results, s.generateForAccount(ctx, account, target, currentMonthTarget))
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	logger.Info("Bulk statement generation finished",
		slog.Int("total", len(results)), slog.Int("failed", failed))
	return results
}

func (s *generationService) generateForAccount(ctx context.Context, account domain.AccountInfo, target domain.YearMonth, currentMonthTarget bool) domain.GenerationResult {
	logger := middleware.GetLoggerFromCtx(ctx)
	snapshot := account.Snapshot()
	owner := snapshot.OwnerIdentifier()
	result := domain.GenerationResult{OwnerIdentifier: owner}

	raw, err := s.partners.GetTransactions(ctx, owner, "")
	if err != nil {
		result.Err = err
		return result
	}
	if len(raw) == 0 {
		result.Err = fmt.Errorf("%w: no transactions for %04d-%02d", apperrors.ErrNoTransactions, target.Year, target.Month)
		return result
	}

	// The month window is descriptive, not a filter: every fetched
	// transaction is classified and attached.
	stmt := s.buildStatement(snapshot, target, raw)

	existing, err := s.repo.FindByOwnerYearMonth(ctx, owner, target)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		result.Err = fmt.Errorf("%w: %v", apperrors.ErrPersistence, err)
		return result
	}

	if existing != nil {
		if !currentMonthTarget {
			// Closed months are immutable: the existing statement stands.
			result.Statement = existing
			result.Outcome = domain.OutcomeExisting
			result.Persisted = true
			return result
		}
		updated, err := s.repo.UpdateStatement(ctx, existing.StatementID, domain.StatementUpdate{
			Transactions:  &stmt.Transactions,
			TotalIncoming: &stmt.TotalIncoming,
			TotalOutgoing: &stmt.TotalOutgoing,
		})
		if err != nil {
			logger.Warn("Failed to persist bulk statement update",
				slog.String("owner", owner), slog.String("error", err.Error()))
			stmt.StatementID = existing.StatementID
			s.notify(ctx, "statement_refreshed", &stmt)
			result.Statement = &stmt
			result.Outcome = domain.OutcomeUpdated
			return result
		}
		s.notify(ctx, "statement_refreshed", updated)
		result.Statement = updated
		result.Outcome = domain.OutcomeUpdated
		result.Persisted = true
		return result
	}

	if err := s.repo.SaveStatement(ctx, stmt); err != nil {
		// The notification still goes out: persistence failure is non-fatal
		// for bulk generation.
		logger.Warn("Failed to persist bulk statement",
			slog.String("owner", owner), slog.String("error", err.Error()))
		s.notify(ctx, "statement_generated", &stmt)
		result.Statement = &stmt
		result.Outcome = domain.OutcomeCreated
		return result
	}

	s.notify(ctx, "statement_generated", &stmt)
	result.Statement = &stmt
	result.Outcome = domain.OutcomeCreated
	result.Persisted = true
	return result
}
