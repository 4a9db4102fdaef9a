package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/bank_statements_svc/internal/apperrors"
	"github.com/SscSPs/bank_statements_svc/internal/core/domain"
	portssvc "github.com/SscSPs/bank_statements_svc/internal/core/ports/services"
	"github.com/SscSPs/bank_statements_svc/internal/core/services"
	"github.com/SscSPs/bank_statements_svc/internal/dto"
	"github.com/SscSPs/bank_statements_svc/internal/utils/aggregation"
)

// --- Mock GenerationSvcFacade ---
type MockGenerationService struct {
	mock.Mock
}

func (m *MockGenerationService) GenerateBulk(ctx context.Context) []domain.GenerationResult {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.GenerationResult)
}

func (m *MockGenerationService) GenerateSingle(ctx context.Context, req dto.GenerateStatementRequest, claims *domain.UserClaims) (*domain.Statement, domain.UpsertOutcome, error) {
	args := m.Called(ctx, req, claims)
	var stmt *domain.Statement
	if args.Get(0) != nil {
		stmt = args.Get(0).(*domain.Statement)
	}
	return stmt, args.Get(1).(domain.UpsertOutcome), args.Error(2)
}

func (m *MockGenerationService) RefreshCurrentMonth(ctx context.Context, owner string, claims *domain.UserClaims, token string) (*domain.Statement, domain.UpsertOutcome, error) {
	args := m.Called(ctx, owner, claims, token)
	var stmt *domain.Statement
	if args.Get(0) != nil {
		stmt = args.Get(0).(*domain.Statement)
	}
	return stmt, args.Get(1).(domain.UpsertOutcome), args.Error(2)
}

// --- Test Suite ---
type StatementServiceTestSuite struct {
	suite.Suite
	mockRepo       *MockStatementRepository
	mockGeneration *MockGenerationService
	service        portssvc.StatementSvcFacade
}

func (suite *StatementServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockStatementRepository)
	suite.mockGeneration = new(MockGenerationService)
	suite.service = services.NewStatementService(suite.mockRepo, suite.mockGeneration, false)
}

func (suite *StatementServiceTestSuite) TestListByIBAN() {
	ctx := context.Background()
	expected := []domain.Statement{{StatementID: "s1"}, {StatementID: "s2"}}
	rng := domain.MonthRange{}

	suite.mockRepo.On("ListByIBAN", ctx, testIBAN, rng).Return(expected, nil).Once()

	statements, err := suite.service.ListByIBAN(ctx, testIBAN, rng)

	suite.Require().NoError(err)
	suite.Equal(expected, statements)
}

func (suite *StatementServiceTestSuite) TestGetByIBANMonth_Found() {
	ctx := context.Background()
	period := domain.YearMonth{Year: 2025, Month: 3}
	existing := &domain.Statement{StatementID: "s1", Year: 2025, Month: 3}

	suite.mockRepo.On("FindByOwnerYearMonth", ctx, testIBAN, period).Return(existing, nil).Once()

	stmt, outcome, err := suite.service.GetByIBANMonth(ctx, testIBAN, period, nil, "")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeExisting, outcome)
	suite.Equal(existing, stmt)
}

func (suite *StatementServiceTestSuite) TestGetByIBANMonth_MissIs404WhenAutoGenerateOff() {
	ctx := context.Background()
	period := domain.YearMonth{Year: 2025, Month: 3}

	suite.mockRepo.On("FindByOwnerYearMonth", ctx, testIBAN, period).Return(nil, apperrors.ErrNotFound).Once()

	_, _, err := suite.service.GetByIBANMonth(ctx, testIBAN, period, nil, "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockGeneration.AssertNotCalled(suite.T(), "GenerateSingle", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestGetByIBANMonth_AutoGenerateClosedMonth() {
	ctx := context.Background()
	service := services.NewStatementService(suite.mockRepo, suite.mockGeneration, true)
	period := aggregation.PreviousMonth(time.Now())
	generated := &domain.Statement{StatementID: "new", Year: period.Year, Month: period.Month}

	suite.mockRepo.On("FindByOwnerYearMonth", ctx, testIBAN, period).Return(nil, apperrors.ErrNotFound).Once()
	// Closed-month history is no longer fetchable: the generation request
	// carries no transactions.
	suite.mockGeneration.On("GenerateSingle", ctx, mock.MatchedBy(func(req dto.GenerateStatementRequest) bool {
		return req.AccountID == testIBAN && req.Month != "" && req.Transactions == nil
	}), (*domain.UserClaims)(nil)).Return(generated, domain.OutcomeCreated, nil).Once()

	stmt, outcome, err := service.GetByIBANMonth(ctx, testIBAN, period, nil, "")

	suite.Require().NoError(err)
	suite.Equal(domain.OutcomeCreated, outcome)
	suite.Equal("new", stmt.StatementID)
}

func (suite *StatementServiceTestSuite) TestGetByIBANMonth_AutoGenerateCurrentMonthRefreshes() {
	ctx := context.Background()
	service := services.NewStatementService(suite.mockRepo, suite.mockGeneration, true)
	period := aggregation.CurrentMonth(time.Now())
	refreshed := &domain.Statement{StatementID: "live", Year: period.Year, Month: period.Month}

	suite.mockRepo.On("FindByOwnerYearMonth", ctx, testIBAN, period).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockGeneration.On("RefreshCurrentMonth", ctx, testIBAN, (*domain.UserClaims)(nil), "tok").Return(refreshed, domain.OutcomeCreated, nil).Once()

	stmt, _, err := service.GetByIBANMonth(ctx, testIBAN, period, nil, "tok")

	suite.Require().NoError(err)
	suite.Equal("live", stmt.StatementID)
	suite.mockGeneration.AssertNotCalled(suite.T(), "GenerateSingle", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestUpdateByID() {
	ctx := context.Background()
	incoming := decimal.NewFromInt(500)
	update := domain.StatementUpdate{TotalIncoming: &incoming}
	updated := &domain.Statement{StatementID: "s1", TotalIncoming: incoming}

	suite.mockRepo.On("UpdateStatement", ctx, "s1", update).Return(updated, nil).Once()

	stmt, err := suite.service.UpdateByID(ctx, "s1", update)

	suite.Require().NoError(err)
	suite.True(stmt.TotalIncoming.Equal(incoming))
}

func (suite *StatementServiceTestSuite) TestDeleteByID_NotFound() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteStatementByID", ctx, "missing").Return(apperrors.ErrNotFound).Once()

	err := suite.service.DeleteByID(ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *StatementServiceTestSuite) TestDeleteByIdentifier_ByID() {
	ctx := context.Background()

	suite.mockRepo.On("DeleteStatementByID", ctx, "11111111-2222-4333-8444-555555555555").Return(nil).Once()

	err := suite.service.DeleteByIdentifier(ctx, dto.DeleteByIdentifierRequest{ID: "11111111-2222-4333-8444-555555555555"})

	suite.Require().NoError(err)
}

func (suite *StatementServiceTestSuite) TestDeleteByIdentifier_ByAccountAndMonth() {
	ctx := context.Background()
	period := domain.YearMonth{Year: 2025, Month: 2}
	found := &domain.Statement{StatementID: "s9"}

	suite.mockRepo.On("FindByOwnerYearMonth", ctx, "acc-1", period).Return(found, nil).Once()
	suite.mockRepo.On("DeleteStatementByID", ctx, "s9").Return(nil).Once()

	err := suite.service.DeleteByIdentifier(ctx, dto.DeleteByIdentifierRequest{AccountID: "acc-1", Month: "2025-02"})

	suite.Require().NoError(err)
}

func (suite *StatementServiceTestSuite) TestDeleteByIdentifier_ByAccountName() {
	ctx := context.Background()
	period := domain.YearMonth{Year: 2025, Month: 2}
	found := &domain.Statement{StatementID: "s10"}

	suite.mockRepo.On("FindByAccountNameYearMonth", ctx, "Cliente Demo", period).Return(found, nil).Once()
	suite.mockRepo.On("DeleteStatementByID", ctx, "s10").Return(nil).Once()

	err := suite.service.DeleteByIdentifier(ctx, dto.DeleteByIdentifierRequest{AccountName: "Cliente Demo", Month: "2025-02"})

	suite.Require().NoError(err)
}

func (suite *StatementServiceTestSuite) TestDeleteByIdentifier_NoUsableIdentifier() {
	err := suite.service.DeleteByIdentifier(context.Background(), dto.DeleteByIdentifierRequest{AccountID: "acc-1"})
	suite.ErrorIs(err, apperrors.ErrValidation)

	err = suite.service.DeleteByIdentifier(context.Background(), dto.DeleteByIdentifierRequest{Month: "2025-02"})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StatementServiceTestSuite) TestDeleteByIdentifier_LookupMiss() {
	ctx := context.Background()
	period := domain.YearMonth{Year: 2025, Month: 2}

	suite.mockRepo.On("FindByOwnerYearMonth", ctx, "acc-1", period).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeleteByIdentifier(ctx, dto.DeleteByIdentifierRequest{AccountID: "acc-1", Month: "2025-02"})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertNotCalled(suite.T(), "DeleteStatementByID", mock.Anything, mock.Anything)
}

func (suite *StatementServiceTestSuite) TestReplaceForAccount_StampsOwnerIBAN() {
	ctx := context.Background()
	input := []domain.Statement{
		{Year: 2025, Month: 1, Account: domain.AccountSnapshot{IBAN: "ES9999999999999999999999"}},
		{Year: 2025, Month: 2},
	}

	suite.mockRepo.On("ReplaceStatementsForAccount", ctx, testIBAN, mock.MatchedBy(func(stmts []domain.Statement) bool {
		for _, s := range stmts {
			if s.Account.IBAN != testIBAN || s.StatementID == "" {
				return false
			}
		}
		return len(stmts) == 2
	})).Return(input, nil).Once()

	_, err := suite.service.ReplaceForAccount(ctx, testIBAN, input)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *StatementServiceTestSuite) TestReplaceForAccount_LegacyIDOwner() {
	ctx := context.Background()
	input := []domain.Statement{{Year: 2025, Month: 1}}

	suite.mockRepo.On("ReplaceStatementsForAccount", ctx, "legacy-id", mock.MatchedBy(func(stmts []domain.Statement) bool {
		return len(stmts) == 1 && stmts[0].Account.ID == "legacy-id" && stmts[0].Account.IBAN == ""
	})).Return(input, nil).Once()

	_, err := suite.service.ReplaceForAccount(ctx, "legacy-id", input)

	suite.Require().NoError(err)
}

func (suite *StatementServiceTestSuite) TestReplaceForAccount_EmptyOwner() {
	_, err := suite.service.ReplaceForAccount(context.Background(), "", nil)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *StatementServiceTestSuite) TestGetByIBANMonth_RepoErrorPropagates() {
	ctx := context.Background()
	period := domain.YearMonth{Year: 2025, Month: 3}
	dbErr := errors.New("connection reset")

	suite.mockRepo.On("FindByOwnerYearMonth", ctx, testIBAN, period).Return(nil, dbErr).Once()

	_, _, err := suite.service.GetByIBANMonth(ctx, testIBAN, period, nil, "")

	suite.ErrorIs(err, dbErr)
}

func TestStatementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(StatementServiceTestSuite))
}
