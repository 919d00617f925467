package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hrportal/finance_ledger/internal/apperrors"
	"github.com/hrportal/finance_ledger/internal/core/domain"
	portssvc "github.com/hrportal/finance_ledger/internal/core/ports/services"
	"github.com/hrportal/finance_ledger/internal/core/services"
)

type RecurringServiceTestSuite struct {
	suite.Suite
	mockTxnRepo    *MockTransactionRepository
	mockPeriodRepo *MockPeriodRepository
	service        portssvc.RecurringSvc
	userID         string
	asOf           time.Time
}

func (suite *RecurringServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.service = services.NewRecurringService(suite.mockTxnRepo, suite.mockPeriodRepo)
	suite.userID = uuid.NewString()
	suite.asOf = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
}

// monthlyRule returns a department-owned rule. The rule record itself covers
// its start month, so the first materialized occurrence lands one month later.
func (suite *RecurringServiceTestSuite) monthlyRule(start time.Time) domain.TransactionRecord {
	deptID := uuid.NewString()
	return domain.TransactionRecord{
		TransactionID: uuid.NewString(),
		Kind:          domain.Expense,
		Category:      domain.CategoryOfficeRent,
		Amount:        decimal.NewFromInt(3000),
		Date:          start,
		Description:   "Monthly office rent payment",
		Status:        domain.StatusPending,
		CurrencyCode:  "USD",
		DepartmentID:  &deptID,
		Owner:         domain.OwnerRef{Type: domain.OwnerDepartment, ID: deptID},
		PeriodID:      uuid.NewString(),
		Recurrence: &domain.Recurrence{
			IsRecurring: true,
			Frequency:   domain.Monthly,
			StartDate:   start,
		},
		Version: 1,
	}
}

// expectRulePeriod stubs the lookup of the rule's snapshotted period row.
func (suite *RecurringServiceTestSuite) expectRulePeriod(rule domain.TransactionRecord, departmentID *string) {
	period := &domain.PeriodSummary{
		PeriodID:     rule.PeriodID,
		Year:         rule.Date.Year(),
		Month:        int(rule.Date.Month()),
		DepartmentID: departmentID,
		Status:       domain.PeriodOpen,
	}
	suite.mockPeriodRepo.On("FindPeriodByID", mock.Anything, rule.PeriodID).Return(period, nil)
}

func (suite *RecurringServiceTestSuite) TestMaterializeDueRules_CreatesDueOccurrence() {
	rule := suite.monthlyRule(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	occurrence := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	windowStart := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTxnRepo.On("ListActiveRecurringRules", mock.Anything, suite.asOf).
		Return([]domain.TransactionRecord{rule}, nil).Once()
	suite.expectRulePeriod(rule, rule.DepartmentID)
	suite.mockTxnRepo.On("FindMaterializedForRule", mock.Anything, rule.TransactionID, windowStart, windowEnd).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything,
		mock.MatchedBy(func(txn domain.TransactionRecord) bool {
			return txn.SourceRuleID != nil && *txn.SourceRuleID == rule.TransactionID &&
				txn.Owner == rule.Owner &&
				txn.Date.Equal(occurrence) &&
				txn.Recurrence == nil
		}),
		mock.MatchedBy(func(key domain.PeriodKey) bool {
			return key.Year == 2025 && key.Month == 3 &&
				key.DepartmentID != nil && *key.DepartmentID == *rule.DepartmentID
		}),
		mock.MatchedBy(func(rev decimal.Decimal) bool { return rev.IsZero() }),
		mock.MatchedBy(func(exp decimal.Decimal) bool { return exp.Equal(rule.Amount) }),
	).Return(uuid.NewString(), nil).Once()
	suite.mockTxnRepo.On("MarkRuleProcessed", mock.Anything, rule.TransactionID, occurrence, suite.userID, mock.Anything).
		Return(nil).Once()

	report, err := suite.service.MaterializeDueRules(context.Background(), suite.asOf, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, report.Created)
	assert.Equal(suite.T(), 0, report.Skipped)
	assert.Equal(suite.T(), 0, report.Failed)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestMaterializeDueRules_StartWindowNotRematerialized() {
	// The rule record itself was charged to March at creation; a pass inside
	// March must not create a second March transaction for the same rule.
	rule := suite.monthlyRule(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))

	suite.mockTxnRepo.On("ListActiveRecurringRules", mock.Anything, suite.asOf).
		Return([]domain.TransactionRecord{rule}, nil).Once()

	report, err := suite.service.MaterializeDueRules(context.Background(), suite.asOf, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, report.Created)
	assert.Equal(suite.T(), 0, report.Skipped)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestMaterializeDueRules_KeysPeriodFromRuleSnapshot() {
	// A project-linked rule carries no explicit department; its occurrences
	// must land in the same department-keyed period its own record did, not
	// in the company-wide row.
	rule := suite.monthlyRule(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	rule.DepartmentID = nil
	projectDeptID := uuid.NewString()

	suite.mockTxnRepo.On("ListActiveRecurringRules", mock.Anything, suite.asOf).
		Return([]domain.TransactionRecord{rule}, nil).Once()
	suite.expectRulePeriod(rule, &projectDeptID)
	suite.mockTxnRepo.On("FindMaterializedForRule", mock.Anything, rule.TransactionID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything,
		mock.MatchedBy(func(key domain.PeriodKey) bool {
			return key.DepartmentID != nil && *key.DepartmentID == projectDeptID
		}),
		mock.Anything, mock.Anything,
	).Return(uuid.NewString(), nil).Once()
	suite.mockTxnRepo.On("MarkRuleProcessed", mock.Anything, rule.TransactionID, mock.Anything, suite.userID, mock.Anything).
		Return(nil).Once()

	report, err := suite.service.MaterializeDueRules(context.Background(), suite.asOf, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, report.Created)
	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestMaterializeDueRules_SkipsAlreadyMaterialized() {
	rule := suite.monthlyRule(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	occurrence := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	existing := suite.monthlyRule(occurrence)

	suite.mockTxnRepo.On("ListActiveRecurringRules", mock.Anything, suite.asOf).
		Return([]domain.TransactionRecord{rule}, nil).Once()
	suite.expectRulePeriod(rule, rule.DepartmentID)
	suite.mockTxnRepo.On("FindMaterializedForRule", mock.Anything, rule.TransactionID, mock.Anything, mock.Anything).
		Return(&existing, nil).Once()
	suite.mockTxnRepo.On("MarkRuleProcessed", mock.Anything, rule.TransactionID, occurrence, suite.userID, mock.Anything).
		Return(nil).Once()

	report, err := suite.service.MaterializeDueRules(context.Background(), suite.asOf, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, report.Created)
	assert.Equal(suite.T(), 1, report.Skipped)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurringServiceTestSuite) TestMaterializeDueRules_CatchesUpMissedOccurrences() {
	// Rule started in January and never ran; January is covered by the rule
	// record itself, so a mid-March pass owes February and March.
	rule := suite.monthlyRule(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	suite.mockTxnRepo.On("ListActiveRecurringRules", mock.Anything, suite.asOf).
		Return([]domain.TransactionRecord{rule}, nil).Once()
	suite.expectRulePeriod(rule, rule.DepartmentID)
	suite.mockTxnRepo.On("FindMaterializedForRule", mock.Anything, rule.TransactionID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Times(2)
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(uuid.NewString(), nil).Times(2)
	suite.mockTxnRepo.On("MarkRuleProcessed", mock.Anything, rule.TransactionID, mock.Anything, suite.userID, mock.Anything).
		Return(nil).Times(2)

	report, err := suite.service.MaterializeDueRules(context.Background(), suite.asOf, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 2, report.Created)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *RecurringServiceTestSuite) TestMaterializeDueRules_DuplicateOnSave_CountsSkipped() {
	rule := suite.monthlyRule(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	occurrence := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.mockTxnRepo.On("ListActiveRecurringRules", mock.Anything, suite.asOf).
		Return([]domain.TransactionRecord{rule}, nil).Once()
	suite.expectRulePeriod(rule, rule.DepartmentID)
	suite.mockTxnRepo.On("FindMaterializedForRule", mock.Anything, rule.TransactionID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", apperrors.NewAppError(409, "duplicate materialization", apperrors.ErrDuplicate)).Once()
	suite.mockTxnRepo.On("MarkRuleProcessed", mock.Anything, rule.TransactionID, occurrence, suite.userID, mock.Anything).
		Return(nil).Once()

	report, err := suite.service.MaterializeDueRules(context.Background(), suite.asOf, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, report.Created)
	assert.Equal(suite.T(), 1, report.Skipped)
	assert.Equal(suite.T(), 0, report.Failed)
}

func (suite *RecurringServiceTestSuite) TestMaterializeDueRules_OneRuleFailing_OthersProceed() {
	failing := suite.monthlyRule(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	healthy := suite.monthlyRule(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))

	suite.mockTxnRepo.On("ListActiveRecurringRules", mock.Anything, suite.asOf).
		Return([]domain.TransactionRecord{failing, healthy}, nil).Once()
	suite.expectRulePeriod(failing, failing.DepartmentID)
	suite.expectRulePeriod(healthy, healthy.DepartmentID)
	suite.mockTxnRepo.On("FindMaterializedForRule", mock.Anything, failing.TransactionID, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewAppError(500, "lookup failed", apperrors.ErrInternal)).Once()
	suite.mockTxnRepo.On("FindMaterializedForRule", mock.Anything, healthy.TransactionID, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTxnRepo.On("SaveTransaction", mock.Anything,
		mock.MatchedBy(func(txn domain.TransactionRecord) bool {
			return txn.SourceRuleID != nil && *txn.SourceRuleID == healthy.TransactionID
		}),
		mock.Anything, mock.Anything, mock.Anything,
	).Return(uuid.NewString(), nil).Once()
	suite.mockTxnRepo.On("MarkRuleProcessed", mock.Anything, healthy.TransactionID, mock.Anything, suite.userID, mock.Anything).
		Return(nil).Once()

	report, err := suite.service.MaterializeDueRules(context.Background(), suite.asOf, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, report.Created)
	assert.Equal(suite.T(), 1, report.Failed)
	suite.Require().Len(report.Failures, 1)
	assert.Equal(suite.T(), failing.TransactionID, report.Failures[0].RuleID)
}

func (suite *RecurringServiceTestSuite) TestMaterializeDueRules_NothingDue() {
	rule := suite.monthlyRule(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) // starts after asOf

	suite.mockTxnRepo.On("ListActiveRecurringRules", mock.Anything, suite.asOf).
		Return([]domain.TransactionRecord{rule}, nil).Once()

	report, err := suite.service.MaterializeDueRules(context.Background(), suite.asOf, suite.userID)

	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, report.Created)
	assert.Equal(suite.T(), 0, report.Skipped)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindMaterializedForRule", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRecurringServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}
