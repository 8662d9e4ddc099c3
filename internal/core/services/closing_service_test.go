package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/core/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

// --- Mock PeriodRepository ---
type MockPeriodRepository struct {
	mock.Mock
}

var _ portsrepo.PeriodRepository = (*MockPeriodRepository)(nil)

func (m *MockPeriodRepository) CreatePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodsCovering(ctx context.Context, businessID string, date time.Time) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, businessID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindOpenFinerPeriods(ctx context.Context, businessID string, periodType domain.PeriodType, start, end time.Time) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, businessID, periodType, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriodsByBusiness(ctx context.Context, businessID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, closedBy string, closedAt *time.Time, statementIDs []string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, periodID, status, closedBy, closedAt, statementIDs, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPeriodRepository) MarkPeriodReopened(ctx context.Context, periodID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, periodID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockPeriodRepository) TryAcquireClosingLock(ctx context.Context, businessID, periodID string) (bool, error) {
	args := m.Called(ctx, businessID, periodID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPeriodRepository) ReleaseClosingLock(ctx context.Context, businessID, periodID string) error {
	args := m.Called(ctx, businessID, periodID)
	return args.Error(0)
}

func (m *MockPeriodRepository) SaveStatement(ctx context.Context, statement domain.Statement) error {
	args := m.Called(ctx, statement)
	return args.Error(0)
}

func (m *MockPeriodRepository) MarkStatementsStale(ctx context.Context, periodID string) error {
	args := m.Called(ctx, periodID)
	return args.Error(0)
}

func (m *MockPeriodRepository) ListStatementsByPeriod(ctx context.Context, periodID string) ([]domain.Statement, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Statement), args.Error(1)
}

// --- Mock ReportingRepository ---
type MockReportingRepository struct {
	mock.Mock
}

var _ portsrepo.ReportingRepository = (*MockReportingRepository)(nil)

func (m *MockReportingRepository) GetTrialBalanceData(ctx context.Context, businessID string, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, businessID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

func (m *MockReportingRepository) GetIncomeStatementData(ctx context.Context, businessID string, from, to time.Time) (*domain.IncomeStatementData, error) {
	args := m.Called(ctx, businessID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatementData), args.Error(1)
}

func (m *MockReportingRepository) GetBalanceSheetData(ctx context.Context, businessID string, asOf time.Time) ([]domain.AccountAmount, []domain.AccountAmount, []domain.AccountAmount, error) {
	args := m.Called(ctx, businessID, asOf)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).([]domain.AccountAmount), args.Get(1).([]domain.AccountAmount), args.Get(2).([]domain.AccountAmount), args.Error(3)
}

// --- Test Suite Setup ---
type ClosingServiceTestSuite struct {
	suite.Suite
	mockPeriodRepo    *MockPeriodRepository
	mockReportingRepo *MockReportingRepository
	service           portssvc.ClosingSvcFacade
	businessID        string
	userID            string
}

func (suite *ClosingServiceTestSuite) SetupTest() {
	suite.mockPeriodRepo = new(MockPeriodRepository)
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewClosingService(suite.mockPeriodRepo, suite.mockReportingRepo)

	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *ClosingServiceTestSuite) openPeriod(periodType domain.PeriodType) *domain.AccountingPeriod {
	return &domain.AccountingPeriod{
		PeriodID:   uuid.NewString(),
		BusinessID: suite.businessID,
		PeriodType: periodType,
		StartDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC),
		Status:     domain.PeriodOpen,
	}
}

func balancedRows() []domain.TrialBalanceRow {
	return []domain.TrialBalanceRow{
		{AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(1180)},
		{AccountName: "Sales", AccountType: domain.Revenue, Credit: decimal.NewFromInt(1000)},
		{AccountName: "GST Output", AccountType: domain.Liability, Credit: decimal.NewFromInt(180)},
	}
}

// --- Test Cases ---

func (suite *ClosingServiceTestSuite) TestClosePeriod_MonthlyStopsAtTrialBalance() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodMonthly)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("TryAcquireClosingLock", ctx, suite.businessID, period.PeriodID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("ReleaseClosingLock", ctx, suite.businessID, period.PeriodID).Return(nil).Once()
	suite.mockPeriodRepo.On("FindOpenFinerPeriods", ctx, suite.businessID, domain.PeriodMonthly, period.StartDate, period.EndDate).Return([]domain.AccountingPeriod{}, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, period.PeriodID, domain.PeriodClosing, "", (*time.Time)(nil), ([]string)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.businessID, period.EndDate).Return(balancedRows(), nil).Once()
	suite.mockPeriodRepo.On("SaveStatement", ctx, mock.AnythingOfType("domain.Statement")).Return(nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, period.PeriodID, domain.PeriodClosed, suite.userID, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("[]string"), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.ClosePeriod(ctx, suite.businessID, period.PeriodID, suite.userID, dto.CloseOptions{})

	suite.Require().NoError(err)
	suite.Require().NotNil(result.TrialBalance)
	suite.Nil(result.PAndL)
	suite.Nil(result.BalanceSheet)
	suite.True(result.BalanceSheetBalanced)
	suite.Len(result.StatementIDs, 1)
	suite.Equal(domain.PeriodClosed, result.Period.Status)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) TestClosePeriod_TrialBalanceGateAborts() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodMonthly)
	rows := []domain.TrialBalanceRow{
		{AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(50000)},
		{AccountName: "Sales", AccountType: domain.Revenue, Credit: decimal.RequireFromString("49999.50")},
	}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("TryAcquireClosingLock", ctx, suite.businessID, period.PeriodID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("ReleaseClosingLock", ctx, suite.businessID, period.PeriodID).Return(nil).Once()
	suite.mockPeriodRepo.On("FindOpenFinerPeriods", ctx, suite.businessID, domain.PeriodMonthly, period.StartDate, period.EndDate).Return([]domain.AccountingPeriod{}, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, period.PeriodID, domain.PeriodClosing, "", (*time.Time)(nil), ([]string)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.businessID, period.EndDate).Return(rows, nil).Once()
	// The aborted run must put the period back to OPEN
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, period.PeriodID, domain.PeriodOpen, "", (*time.Time)(nil), ([]string)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err := suite.service.ClosePeriod(ctx, suite.businessID, period.PeriodID, suite.userID, dto.CloseOptions{})

	suite.Require().ErrorIs(err, services.ErrTrialBalanceUnbalanced)
	suite.Contains(err.Error(), "0.5")
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SaveStatement", mock.Anything, mock.Anything)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) TestClosePeriod_AlreadyClosed() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodMonthly)
	period.Status = domain.PeriodClosed

	// The status read happens under the lock, so a closer that lost the
	// race sees CLOSED here and backs off without writing anything.
	suite.mockPeriodRepo.On("TryAcquireClosingLock", ctx, suite.businessID, period.PeriodID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("ReleaseClosingLock", ctx, suite.businessID, period.PeriodID).Return(nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()

	_, err := suite.service.ClosePeriod(ctx, suite.businessID, period.PeriodID, suite.userID, dto.CloseOptions{})

	suite.Require().ErrorIs(err, services.ErrPeriodAlreadyClosed)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "SaveStatement", mock.Anything, mock.Anything)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) TestClosePeriod_LockHeldElsewhere() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodMonthly)

	suite.mockPeriodRepo.On("TryAcquireClosingLock", ctx, suite.businessID, period.PeriodID).Return(false, nil).Once()

	_, err := suite.service.ClosePeriod(ctx, suite.businessID, period.PeriodID, suite.userID, dto.CloseOptions{})

	suite.Require().ErrorIs(err, services.ErrClosingInProgress)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "FindPeriodByID", mock.Anything, mock.Anything)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "ReleaseClosingLock", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestClosePeriod_FinerPeriodsStillOpen() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodQuarterly)
	period.EndDate = time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("TryAcquireClosingLock", ctx, suite.businessID, period.PeriodID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("ReleaseClosingLock", ctx, suite.businessID, period.PeriodID).Return(nil).Once()
	suite.mockPeriodRepo.On("FindOpenFinerPeriods", ctx, suite.businessID, domain.PeriodQuarterly, period.StartDate, period.EndDate).
		Return([]domain.AccountingPeriod{*suite.openPeriod(domain.PeriodMonthly)}, nil).Once()

	_, err := suite.service.ClosePeriod(ctx, suite.businessID, period.PeriodID, suite.userID, dto.CloseOptions{})

	suite.Require().ErrorIs(err, services.ErrFinerPeriodsOpen)
	suite.mockReportingRepo.AssertNotCalled(suite.T(), "GetTrialBalanceData", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestClosePeriod_AnnualGeneratesFullTier() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodAnnual)
	period.StartDate = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	period.EndDate = time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	incomeData := &domain.IncomeStatementData{
		DirectIncome:      []domain.AccountAmount{{Name: "Sales", SubType: domain.SubTypeDirectIncome, NetAmount: decimal.NewFromInt(1000)}},
		OperatingExpenses: []domain.AccountAmount{{Name: "Rent", SubType: domain.SubTypeOperatingExpense, NetAmount: decimal.NewFromInt(200)}},
	}
	assets := []domain.AccountAmount{{Name: "Cash", SubType: domain.SubTypeCash, NetAmount: decimal.NewFromInt(800)}}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{{Name: "Retained Earnings", SubType: domain.SubTypeCapital, NetAmount: decimal.NewFromInt(800)}}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("TryAcquireClosingLock", ctx, suite.businessID, period.PeriodID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("ReleaseClosingLock", ctx, suite.businessID, period.PeriodID).Return(nil).Once()
	suite.mockPeriodRepo.On("FindOpenFinerPeriods", ctx, suite.businessID, domain.PeriodAnnual, period.StartDate, period.EndDate).Return([]domain.AccountingPeriod{}, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, period.PeriodID, domain.PeriodClosing, "", (*time.Time)(nil), ([]string)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.businessID, period.EndDate).Return(balancedRows(), nil).Once()
	suite.mockReportingRepo.On("GetIncomeStatementData", ctx, suite.businessID, period.StartDate, period.EndDate).Return(incomeData, nil).Once()
	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.businessID, period.EndDate).Return(assets, liabilities, equity, nil).Once()
	suite.mockPeriodRepo.On("SaveStatement", ctx, mock.AnythingOfType("domain.Statement")).Return(nil).Times(3)
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, period.PeriodID, domain.PeriodClosed, suite.userID, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("[]string"), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.ClosePeriod(ctx, suite.businessID, period.PeriodID, suite.userID, dto.CloseOptions{})

	suite.Require().NoError(err)
	suite.Require().NotNil(result.PAndL)
	suite.Nil(result.Trading, "trading account is only built for inventory-holding businesses")
	suite.Require().NotNil(result.BalanceSheet)
	suite.True(result.PAndL.GrossProfit.Equal(decimal.NewFromInt(1000)))
	suite.True(result.PAndL.NetProfit.Equal(decimal.NewFromInt(800)))
	suite.True(result.BalanceSheet.Discrepancy.IsZero())
	suite.True(result.BalanceSheetBalanced)
	suite.Len(result.StatementIDs, 3)

	suite.Require().NotNil(result.Ratios)
	suite.Nil(result.Ratios.CurrentRatio, "no current liabilities, so the ratio is omitted")
	suite.Require().NotNil(result.Ratios.NetProfitMargin)
	suite.True(result.Ratios.NetProfitMargin.Equal(decimal.NewFromInt(80)))
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) TestClosePeriod_BalanceSheetDiscrepancyReportedNotRolledBack() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodMonthly)

	assets := []domain.AccountAmount{{Name: "Cash", SubType: domain.SubTypeCash, NetAmount: decimal.NewFromInt(900)}}
	liabilities := []domain.AccountAmount{}
	equity := []domain.AccountAmount{{Name: "Capital", SubType: domain.SubTypeCapital, NetAmount: decimal.NewFromInt(800)}}

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("TryAcquireClosingLock", ctx, suite.businessID, period.PeriodID).Return(true, nil).Once()
	suite.mockPeriodRepo.On("ReleaseClosingLock", ctx, suite.businessID, period.PeriodID).Return(nil).Once()
	suite.mockPeriodRepo.On("FindOpenFinerPeriods", ctx, suite.businessID, domain.PeriodMonthly, period.StartDate, period.EndDate).Return([]domain.AccountingPeriod{}, nil).Once()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, period.PeriodID, domain.PeriodClosing, "", (*time.Time)(nil), ([]string)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.businessID, period.EndDate).Return(balancedRows(), nil).Once()
	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.businessID, period.EndDate).Return(assets, liabilities, equity, nil).Once()
	suite.mockPeriodRepo.On("SaveStatement", ctx, mock.AnythingOfType("domain.Statement")).Return(nil).Times(2)
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, period.PeriodID, domain.PeriodClosed, suite.userID, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("[]string"), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.ClosePeriod(ctx, suite.businessID, period.PeriodID, suite.userID, dto.CloseOptions{IncludeBalanceSheet: true})

	suite.Require().NoError(err)
	suite.False(result.BalanceSheetBalanced)
	suite.True(result.BalanceSheet.Discrepancy.Equal(decimal.NewFromInt(100)))
	suite.Equal(domain.PeriodClosed, result.Period.Status)
	suite.Len(result.StatementIDs, 2)
}

func (suite *ClosingServiceTestSuite) TestReopenPeriod_MarksStatementsStale() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodMonthly)
	period.Status = domain.PeriodClosed

	reopened := *period
	reopened.Status = domain.PeriodOpen
	reopened.ReopenCount = 1

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()
	suite.mockPeriodRepo.On("MarkPeriodReopened", ctx, period.PeriodID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPeriodRepo.On("MarkStatementsStale", ctx, period.PeriodID).Return(nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(&reopened, nil).Once()

	got, err := suite.service.ReopenPeriod(ctx, suite.businessID, period.PeriodID, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.PeriodOpen, got.Status)
	suite.Equal(1, got.ReopenCount)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) TestClosePeriod_RecloseAfterReopenReproducesTotals() {
	ctx := context.Background()
	open := suite.openPeriod(domain.PeriodMonthly)

	closed := *open
	closed.Status = domain.PeriodClosed

	reopened := *open
	reopened.ReopenCount = 1

	// FindPeriodByID is consumed in order: first close, reopen (before and
	// after), then the second close.
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, open.PeriodID).Return(open, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, open.PeriodID).Return(&closed, nil).Once()
	suite.mockPeriodRepo.On("FindPeriodByID", ctx, open.PeriodID).Return(&reopened, nil).Twice()

	suite.mockPeriodRepo.On("TryAcquireClosingLock", ctx, suite.businessID, open.PeriodID).Return(true, nil).Twice()
	suite.mockPeriodRepo.On("ReleaseClosingLock", ctx, suite.businessID, open.PeriodID).Return(nil).Twice()
	suite.mockPeriodRepo.On("FindOpenFinerPeriods", ctx, suite.businessID, domain.PeriodMonthly, open.StartDate, open.EndDate).Return([]domain.AccountingPeriod{}, nil).Twice()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, open.PeriodID, domain.PeriodClosing, "", (*time.Time)(nil), ([]string)(nil), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Twice()
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.businessID, open.EndDate).Return(balancedRows(), nil).Twice()
	suite.mockPeriodRepo.On("SaveStatement", ctx, mock.AnythingOfType("domain.Statement")).Return(nil).Twice()
	suite.mockPeriodRepo.On("UpdatePeriodStatus", ctx, open.PeriodID, domain.PeriodClosed, suite.userID, mock.AnythingOfType("*time.Time"), mock.AnythingOfType("[]string"), suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Twice()

	suite.mockPeriodRepo.On("MarkPeriodReopened", ctx, open.PeriodID, suite.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockPeriodRepo.On("MarkStatementsStale", ctx, open.PeriodID).Return(nil).Once()

	first, err := suite.service.ClosePeriod(ctx, suite.businessID, open.PeriodID, suite.userID, dto.CloseOptions{})
	suite.Require().NoError(err)

	_, err = suite.service.ReopenPeriod(ctx, suite.businessID, open.PeriodID, suite.userID)
	suite.Require().NoError(err)

	second, err := suite.service.ClosePeriod(ctx, suite.businessID, open.PeriodID, suite.userID, dto.CloseOptions{})
	suite.Require().NoError(err)

	// Unchanged ledger data must reproduce the same statement totals
	suite.True(first.TrialBalance.TotalDebit.Equal(second.TrialBalance.TotalDebit))
	suite.True(first.TrialBalance.TotalCredit.Equal(second.TrialBalance.TotalCredit))
	suite.Len(second.StatementIDs, 1)
	suite.mockPeriodRepo.AssertExpectations(suite.T())
}

func (suite *ClosingServiceTestSuite) TestReopenPeriod_RequiresClosedStatus() {
	ctx := context.Background()
	period := suite.openPeriod(domain.PeriodMonthly)

	suite.mockPeriodRepo.On("FindPeriodByID", ctx, period.PeriodID).Return(period, nil).Once()

	_, err := suite.service.ReopenPeriod(ctx, suite.businessID, period.PeriodID, suite.userID)

	suite.Require().ErrorIs(err, services.ErrPeriodNotClosed)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "MarkPeriodReopened", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ClosingServiceTestSuite) TestEnsurePostable_BlocksLockedAndClosedPeriods() {
	ctx := context.Background()
	date := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	closing := *suite.openPeriod(domain.PeriodMonthly)
	closing.Status = domain.PeriodClosing
	suite.mockPeriodRepo.On("FindPeriodsCovering", ctx, suite.businessID, date).Return([]domain.AccountingPeriod{closing}, nil).Once()
	suite.Require().ErrorIs(suite.service.EnsurePostable(ctx, suite.businessID, date), services.ErrPeriodLocked)

	closed := *suite.openPeriod(domain.PeriodMonthly)
	closed.Status = domain.PeriodClosed
	suite.mockPeriodRepo.On("FindPeriodsCovering", ctx, suite.businessID, date).Return([]domain.AccountingPeriod{closed}, nil).Once()
	suite.Require().ErrorIs(suite.service.EnsurePostable(ctx, suite.businessID, date), services.ErrPeriodClosed)

	open := *suite.openPeriod(domain.PeriodMonthly)
	suite.mockPeriodRepo.On("FindPeriodsCovering", ctx, suite.businessID, date).Return([]domain.AccountingPeriod{open}, nil).Once()
	suite.Require().NoError(suite.service.EnsurePostable(ctx, suite.businessID, date))
}

func (suite *ClosingServiceTestSuite) TestCreatePeriod_RejectsInvertedSpan() {
	ctx := context.Background()
	req := dto.CreatePeriodRequest{
		PeriodType: domain.PeriodMonthly,
		StartDate:  time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}

	_, err := suite.service.CreatePeriod(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, services.ErrInvalidPeriodSpan)
	suite.mockPeriodRepo.AssertNotCalled(suite.T(), "CreatePeriod", mock.Anything, mock.Anything)
}

func TestClosingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ClosingServiceTestSuite))
}
