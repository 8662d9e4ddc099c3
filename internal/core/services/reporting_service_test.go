package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	service           portssvc.ReportingSvcFacade
	businessID        string
	asOf              time.Time
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockReportingRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockReportingRepo)

	suite.businessID = uuid.NewString()
	suite.asOf = time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC)
}

// --- Test Cases ---

func (suite *ReportingServiceTestSuite) TestTrialBalance_TotalsBothSides() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		{AccountName: "Cash", AccountType: domain.Asset, Debit: decimal.NewFromInt(1180)},
		{AccountName: "Purchases", AccountType: domain.Expense, Debit: decimal.NewFromInt(500)},
		{AccountName: "Sales", AccountType: domain.Revenue, Credit: decimal.NewFromInt(1500)},
		{AccountName: "GST Output", AccountType: domain.Liability, Credit: decimal.NewFromInt(180)},
	}
	suite.mockReportingRepo.On("GetTrialBalanceData", ctx, suite.businessID, suite.asOf).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, suite.businessID, suite.asOf)

	suite.Require().NoError(err)
	suite.Len(report.Rows, 4)
	suite.True(report.TotalDebit.Equal(decimal.NewFromInt(1680)))
	suite.True(report.TotalCredit.Equal(decimal.NewFromInt(1680)))
	suite.True(report.Difference().IsZero())
}

func (suite *ReportingServiceTestSuite) TestProfitAndLoss_NetsIncomeAgainstExpenses() {
	ctx := context.Background()
	from := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	data := &domain.IncomeStatementData{
		DirectIncome:      []domain.AccountAmount{{Name: "Sales", SubType: domain.SubTypeDirectIncome, NetAmount: decimal.NewFromInt(10000)}},
		DirectExpenses:    []domain.AccountAmount{{Name: "Purchases", SubType: domain.SubTypeDirectExpense, NetAmount: decimal.NewFromInt(6000)}},
		OtherIncome:       []domain.AccountAmount{{Name: "Interest", SubType: domain.SubTypeOtherIncome, NetAmount: decimal.NewFromInt(500)}},
		OperatingExpenses: []domain.AccountAmount{{Name: "Rent", SubType: domain.SubTypeOperatingExpense, NetAmount: decimal.NewFromInt(1500)}},
	}
	suite.mockReportingRepo.On("GetIncomeStatementData", ctx, suite.businessID, from, suite.asOf).Return(data, nil).Once()

	report, err := suite.service.ProfitAndLoss(ctx, suite.businessID, from, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.GrossProfit.Equal(decimal.NewFromInt(4000)))
	suite.True(report.NetProfit.Equal(decimal.NewFromInt(3000)))
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_ReportsDiscrepancy() {
	ctx := context.Background()
	assets := []domain.AccountAmount{{Name: "Cash", SubType: domain.SubTypeCash, NetAmount: decimal.NewFromInt(5000)}}
	liabilities := []domain.AccountAmount{{Name: "Creditors", SubType: domain.SubTypePayable, NetAmount: decimal.NewFromInt(2000)}}
	equity := []domain.AccountAmount{{Name: "Capital", SubType: domain.SubTypeCapital, NetAmount: decimal.NewFromInt(2900)}}
	suite.mockReportingRepo.On("GetBalanceSheetData", ctx, suite.businessID, suite.asOf).Return(assets, liabilities, equity, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, suite.businessID, suite.asOf)

	suite.Require().NoError(err)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(5000)))
	suite.True(report.TotalLiabilities.Equal(decimal.NewFromInt(2000)))
	suite.True(report.Discrepancy.Equal(decimal.NewFromInt(100)), "assets exceed liabilities plus equity by 100")
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
