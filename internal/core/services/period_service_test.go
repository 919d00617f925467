package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hrportal/finance_ledger/internal/apperrors"
	"github.com/hrportal/finance_ledger/internal/core/domain"
	portsrepo "github.com/hrportal/finance_ledger/internal/core/ports/repositories"
	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/core/services"
	"github.com/hrportal/finance_ledger/internal/dto"
)

// --- Mock PeriodRepository ---
type MockPeriodRepository struct {
	mock.Mock
}

// Ensure MockPeriodRepository implements portsrepo.PeriodRepositoryFacade
var _ portsrepo.PeriodRepositoryFacade = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.PeriodSummary, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodSummary), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodByKey(ctx context.Context, key domain.PeriodKey) (*domain.PeriodSummary, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodSummary), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context, filter portsrepo.PeriodFilter, limit int, nextToken *string) ([]domain.PeriodSummary, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.PeriodSummary), returnedNextToken, args.Error(2)
}

func (m *MockPeriodRepository) ResolvePeriodInTx(ctx context.Context, tx pgx.Tx, key domain.PeriodKey, createdBy string, now time.Time) (*domain.PeriodSummary, error) {
	args := m.Called(ctx, tx, key, createdBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PeriodSummary), args.Error(1)
}

func (m *MockPeriodRepository) ApplyPeriodDeltaInTx(ctx context.Context, tx pgx.Tx, periodID string, revenueDelta, expenseDelta decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, tx, periodID, revenueDelta, expenseDelta, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, periodID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPeriodRepository) ListPeriodStoredTotals(ctx context.Context) ([]portsrepo.PeriodTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.PeriodTotals), args.Error(1)
}

func (m *MockPeriodRepository) ComputePeriodTotals(ctx context.Context) ([]portsrepo.PeriodTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portsrepo.PeriodTotals), args.Error(1)
}

func (m *MockPeriodRepository) RepairPeriodTotals(ctx context.Context, periodID string, revenue, expense decimal.Decimal, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, periodID, revenue, expense, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Test Suite Setup ---
type PeriodServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo *MockPeriodRepository
	service        portssvc.PeriodSvcFacade
	userID         string
}

func (suite *PeriodServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewPeriodService(suite.mockPeriodRepo)
	suite.userID = uuid.NewString()
}

func (suite *PeriodServiceTestSuite) openPeriod() *domain.PeriodSummary {
	return &domain.PeriodSummary{
		PeriodID:      uuid.NewString(),
		Year:          2025,
		Month:         3,
		TotalRevenue:  decimal.NewFromInt(5000),
		TotalExpenses: decimal.NewFromInt(2000),
		NetResult:     decimal.NewFromInt(3000),
		Status:        domain.PeriodOpen,
	}
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_OpenPeriod_Succeeds() {
	period := suite.openPeriod()

	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", mock.Anything, period.PeriodID, domain.PeriodClosed, suite.userID, mock.Anything).Return(nil).Once()

	closed, err := suite.service.ClosePeriod(context.Background(), period.PeriodID, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.PeriodClosed, closed.Status)
	assert.Equal(suite.T(), suite.userID, closed.LastUpdatedBy)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_AlreadyClosed_Fails() {
	period := suite.openPeriod()
	period.Status = domain.PeriodClosed

	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, period.PeriodID).Return(period, nil).Once()

	_, err := suite.service.ClosePeriod(context.Background(), period.PeriodID, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrPeriodNotClosable)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PeriodServiceTestSuite) TestReopenPeriod_ClosedPeriod_Succeeds() {
	period := suite.openPeriod()
	period.Status = domain.PeriodClosed

	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", mock.Anything, period.PeriodID, domain.PeriodOpen, suite.userID, mock.Anything).Return(nil).Once()

	reopened, err := suite.service.ReopenPeriod(context.Background(), period.PeriodID, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), domain.PeriodOpen, reopened.Status)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *PeriodServiceTestSuite) TestReopenPeriod_OpenPeriod_Fails() {
	period := suite.openPeriod()

	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, period.PeriodID).Return(period, nil).Once()

	_, err := suite.service.ReopenPeriod(context.Background(), period.PeriodID, suite.userID)

	assert.ErrorIs(suite.T(), err, services.ErrPeriodNotReopable)
}

func (suite *PeriodServiceTestSuite) TestClosePeriod_NotFound() {
	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ClosePeriod(context.Background(), "missing", suite.userID)

	assert.ErrorIs(suite.T(), err, apperrors.ErrNotFound)
}

func (suite *PeriodServiceTestSuite) TestListPeriods_MapsFilterAndToken() {
	year := 2025
	params := dto.ListPeriodsParams{Limit: 5, Year: &year}
	periods := []domain.PeriodSummary{*suite.openPeriod()}

	suite.mockPeriodRepo.On("ListPeriods", mock.Anything,
		mock.MatchedBy(func(filter portsrepo.PeriodFilter) bool {
			return filter.Year != nil && *filter.Year == 2025 && filter.Month == nil
		}),
		5, (*string)(nil),
	).Return(periods, "token", nil).Once()

	resp, err := suite.service.ListPeriods(context.Background(), params)

	suite.Require().NoError(err)
	suite.Require().Len(resp.Periods, 1)
	suite.Require().NotNil(resp.NextToken)
	assert.Equal(suite.T(), "token", *resp.NextToken)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func TestPeriodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PeriodServiceTestSuite))
}
