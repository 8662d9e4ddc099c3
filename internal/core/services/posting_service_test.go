package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portsrepo "github.com/bahikhata/bahikhata_backend/internal/core/ports/repositories"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/core/services"
	"github.com/bahikhata/bahikhata_backend/internal/dto"
)

// --- Mock VoucherRepository ---
type MockVoucherRepository struct {
	mock.Mock
}

// Ensure MockVoucherRepository implements portsrepo.VoucherRepositoryWithTx
var _ portsrepo.VoucherRepositoryWithTx = (*MockVoucherRepository)(nil)

func (m *MockVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher, lines []domain.LedgerLine, balanceChanges map[string]decimal.Decimal) (int64, error) {
	args := m.Called(ctx, voucher, lines, balanceChanges)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVouchersByBusiness(ctx context.Context, businessID string, limit int, nextToken *string, includeReversals bool) ([]domain.Voucher, *string, error) {
	args := m.Called(ctx, businessID, limit, nextToken, includeReversals)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.Voucher), returnedToken, args.Error(2)
}

func (m *MockVoucherRepository) ListVouchersByDateRange(ctx context.Context, businessID string, from, to time.Time) ([]domain.Voucher, error) {
	args := m.Called(ctx, businessID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) ListVoucherNumbers(ctx context.Context, businessID string, from, to time.Time) ([]int64, error) {
	args := m.Called(ctx, businessID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockVoucherRepository) LedgerTotals(ctx context.Context, businessID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, businessID, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockVoucherRepository) FindLinesByVoucherID(ctx context.Context, voucherID string) ([]domain.LedgerLine, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerLine), args.Error(1)
}

func (m *MockVoucherRepository) FindLinesByVoucherIDs(ctx context.Context, voucherIDs []string) (map[string][]domain.LedgerLine, error) {
	args := m.Called(ctx, voucherIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.LedgerLine), args.Error(1)
}

func (m *MockVoucherRepository) ListLinesByAccount(ctx context.Context, businessID, accountID string, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	args := m.Called(ctx, businessID, accountID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerLine), returnedToken, args.Error(2)
}

func (m *MockVoucherRepository) AccountLedgerBalance(ctx context.Context, businessID, accountID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, businessID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockVoucherRepository) UpdateVoucherStatusAndLinks(ctx context.Context, voucherID string, status domain.VoucherStatus, reversingVoucherID *string, originalVoucherID *string, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, voucherID, status, reversingVoucherID, originalVoucherID, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockVoucherRepository) UpdateTaxBreakdown(ctx context.Context, voucherID string, tax domain.TaxBreakdown, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, voucherID, tax, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockVoucherRepository) UpdateVoucherType(ctx context.Context, voucherID string, voucherType domain.VoucherType, amount decimal.Decimal, updatedByUserID string, updatedAt time.Time) error {
	args := m.Called(ctx, voucherID, voucherType, amount, updatedByUserID, updatedAt)
	return args.Error(0)
}

func (m *MockVoucherRepository) DeleteVoucher(ctx context.Context, voucherID string) error {
	args := m.Called(ctx, voucherID)
	return args.Error(0)
}

func (m *MockVoucherRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockVoucherRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockVoucherRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, businessID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, businessID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, businessID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, businessID string) ([]domain.Account, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, businessID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) EnsureAccount(ctx context.Context, businessID, name string, accountType domain.AccountType, class domain.AccountClass, subType domain.AccountSubType, userID string) (*domain.Account, error) {
	args := m.Called(ctx, businessID, name, accountType, class, subType, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, businessID, accountID, userID string) error {
	args := m.Called(ctx, businessID, accountID, userID)
	return args.Error(0)
}

// --- Mock ClosingService ---
type MockClosingService struct {
	mock.Mock
}

var _ portssvc.ClosingSvcFacade = (*MockClosingService)(nil)

func (m *MockClosingService) CreatePeriod(ctx context.Context, businessID string, req dto.CreatePeriodRequest, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, businessID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockClosingService) GetPeriod(ctx context.Context, businessID, periodID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, businessID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockClosingService) ListPeriods(ctx context.Context, businessID string) ([]domain.AccountingPeriod, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountingPeriod), args.Error(1)
}

func (m *MockClosingService) ClosePeriod(ctx context.Context, businessID, periodID, userID string, opts dto.CloseOptions) (*domain.ClosingResult, error) {
	args := m.Called(ctx, businessID, periodID, userID, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClosingResult), args.Error(1)
}

func (m *MockClosingService) ReopenPeriod(ctx context.Context, businessID, periodID, userID string) (*domain.AccountingPeriod, error) {
	args := m.Called(ctx, businessID, periodID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccountingPeriod), args.Error(1)
}

func (m *MockClosingService) EnsurePostable(ctx context.Context, businessID string, date time.Time) error {
	args := m.Called(ctx, businessID, date)
	return args.Error(0)
}

func (m *MockClosingService) ListStatements(ctx context.Context, businessID, periodID string) ([]domain.Statement, error) {
	args := m.Called(ctx, businessID, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Statement), args.Error(1)
}

// --- Test Suite Setup ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	mockAccountSvc  *MockAccountService
	mockClosingSvc  *MockClosingService
	service         portssvc.PostingSvcFacade
	businessID      string
	userID          string
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockClosingSvc = new(MockClosingService)
	rateSvc := services.NewRateResolverService(decimal.NewFromInt(18))
	suite.service = services.NewPostingService(suite.mockVoucherRepo, suite.mockAccountSvc, rateSvc, suite.mockClosingSvc, "27")

	suite.businessID = uuid.NewString()
	suite.userID = uuid.NewString()
}

// expectEnsureAccount registers a lazily created account of the given shape.
func (suite *PostingServiceTestSuite) expectEnsureAccount(name string, accountType domain.AccountType) *domain.Account {
	account := &domain.Account{
		AccountID:   uuid.NewString(),
		BusinessID:  suite.businessID,
		Name:        name,
		AccountType: accountType,
		IsActive:    true,
	}
	suite.mockAccountSvc.On("EnsureAccount", mock.Anything, suite.businessID, name, accountType, mock.Anything, mock.Anything, suite.userID).
		Return(account, nil)
	return account
}

// --- Test Cases ---

func (suite *PostingServiceTestSuite) TestCreateVoucher_SalesCashBalanced() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{
		VoucherType:  domain.VoucherSales,
		Date:         time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC),
		Narration:    "Counter sale",
		Source:       domain.SourceManual,
		PaymentMode:  domain.PayCash,
		TaxableValue: decimal.NewFromInt(1000),
		Tax: &domain.TaxBreakdown{
			TaxableValue: decimal.NewFromInt(1000),
			Rate:         decimal.NewFromInt(18),
			Levy:         domain.LevyStandard,
			Components:   domain.TaxComponents{CGST: decimal.NewFromInt(90), SGST: decimal.NewFromInt(90)},
			Jurisdiction: domain.JurisdictionPair{SupplierState: "27", PlaceOfSupply: "27"},
		},
	}

	suite.mockClosingSvc.On("EnsurePostable", ctx, suite.businessID, req.Date).Return(nil).Once()
	suite.expectEnsureAccount("Cash", domain.Asset)
	suite.expectEnsureAccount("Sales", domain.Revenue)
	suite.expectEnsureAccount("GST Output", domain.Liability)

	var savedLines []domain.LedgerLine
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.AnythingOfType("[]domain.LedgerLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.LedgerLine)
		}).
		Return(int64(1), nil).Once()

	voucher, err := suite.service.CreateVoucher(ctx, suite.businessID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher)
	suite.Equal(int64(1), voucher.VoucherNumber)
	suite.Equal(domain.Posted, voucher.Status)
	suite.True(voucher.Amount.Equal(decimal.NewFromInt(1180)))
	suite.Len(savedLines, 3)

	debits, credits := decimal.Zero, decimal.Zero
	for _, l := range savedLines {
		debits = debits.Add(l.DebitAmount())
		credits = credits.Add(l.CreditAmount())
	}
	suite.True(debits.Equal(credits))
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestCreateVoucher_MissingNarration() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{
		VoucherType:  domain.VoucherSales,
		Date:         time.Now(),
		Source:       domain.SourceManual,
		PaymentMode:  domain.PayCash,
		TaxableValue: decimal.NewFromInt(100),
	}

	_, err := suite.service.CreateVoucher(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, services.ErrNarrationMissing)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestCreateVoucher_PeriodClosed() {
	ctx := context.Background()
	req := dto.CreateVoucherRequest{
		VoucherType:  domain.VoucherSales,
		Date:         time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Narration:    "Backdated sale",
		Source:       domain.SourceManual,
		PaymentMode:  domain.PayCash,
		TaxableValue: decimal.NewFromInt(500),
	}

	suite.mockClosingSvc.On("EnsurePostable", ctx, suite.businessID, req.Date).Return(services.ErrPeriodClosed).Once()

	_, err := suite.service.CreateVoucher(ctx, suite.businessID, req, suite.userID)

	suite.Require().ErrorIs(err, services.ErrPeriodClosed)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostIntent_TaxInclusiveIntraState() {
	ctx := context.Background()
	override := decimal.NewFromInt(18)
	intent := dto.TransactionIntent{
		IntentType:        "SALE",
		Amount:            decimal.NewFromInt(1180),
		Date:              time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		PaymentMode:       "CASH",
		GSTApplicable:     true,
		GSTRate:           &override,
		AmountIncludesTax: true,
		PlaceOfSupply:     "27",
		Source:            "POS",
		BusinessID:        suite.businessID,
		Narration:         "POS sale",
	}

	suite.mockClosingSvc.On("EnsurePostable", ctx, suite.businessID, intent.Date).Return(nil).Once()
	suite.expectEnsureAccount("Cash", domain.Asset)
	suite.expectEnsureAccount("Sales", domain.Revenue)
	suite.expectEnsureAccount("GST Output", domain.Liability)

	var savedVoucher domain.Voucher
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.AnythingOfType("[]domain.LedgerLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			savedVoucher = args.Get(1).(domain.Voucher)
		}).
		Return(int64(7), nil).Once()

	voucher, err := suite.service.PostIntent(ctx, intent, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher.Tax)
	suite.True(voucher.Tax.TaxableValue.Equal(decimal.NewFromInt(1000)), "base should be extracted from the gross")
	suite.True(voucher.Tax.Components.CGST.Equal(decimal.NewFromInt(90)))
	suite.True(voucher.Tax.Components.SGST.Equal(decimal.NewFromInt(90)))
	suite.True(voucher.Tax.Components.IGST.IsZero())
	suite.True(voucher.Amount.Equal(decimal.NewFromInt(1180)))
	suite.Equal(domain.VoucherSales, savedVoucher.VoucherType)
}

func (suite *PostingServiceTestSuite) TestPostIntent_InterStateUsesIGST() {
	ctx := context.Background()
	override := decimal.NewFromInt(18)
	intent := dto.TransactionIntent{
		IntentType:        "SALE",
		Amount:            decimal.NewFromInt(1000),
		Date:              time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		PaymentMode:       "BANK",
		GSTApplicable:     true,
		GSTRate:           &override,
		AmountIncludesTax: false,
		PlaceOfSupply:     "29",
		Source:            "MANUAL",
		BusinessID:        suite.businessID,
		Narration:         "Inter-state sale",
	}

	suite.mockClosingSvc.On("EnsurePostable", ctx, suite.businessID, intent.Date).Return(nil).Once()
	suite.expectEnsureAccount("Bank", domain.Asset)
	suite.expectEnsureAccount("Sales", domain.Revenue)
	suite.expectEnsureAccount("GST Output", domain.Liability)
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.AnythingOfType("[]domain.LedgerLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Return(int64(8), nil).Once()

	voucher, err := suite.service.PostIntent(ctx, intent, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(voucher.Tax)
	suite.True(voucher.Tax.Components.IGST.Equal(decimal.NewFromInt(180)))
	suite.True(voucher.Tax.Components.CGST.IsZero())
	suite.True(voucher.Tax.Components.SGST.IsZero())
}

func (suite *PostingServiceTestSuite) TestReverseVoucher_FlipsSides() {
	ctx := context.Background()
	originalID := uuid.NewString()
	cashAccountID := uuid.NewString()
	salesAccountID := uuid.NewString()

	original := &domain.Voucher{
		VoucherID:     originalID,
		BusinessID:    suite.businessID,
		VoucherType:   domain.VoucherSales,
		VoucherNumber: 12,
		VoucherDate:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Narration:     "Counter sale",
		Status:        domain.Posted,
		Amount:        decimal.NewFromInt(500),
	}
	originalLines := []domain.LedgerLine{
		{LineID: uuid.NewString(), VoucherID: originalID, AccountID: cashAccountID, Amount: decimal.NewFromInt(500), Side: domain.Debit, PostingDate: original.VoucherDate},
		{LineID: uuid.NewString(), VoucherID: originalID, AccountID: salesAccountID, Amount: decimal.NewFromInt(500), Side: domain.Credit, PostingDate: original.VoucherDate},
	}
	accounts := map[string]domain.Account{
		cashAccountID:  {AccountID: cashAccountID, BusinessID: suite.businessID, AccountType: domain.Asset, IsActive: true},
		salesAccountID: {AccountID: salesAccountID, BusinessID: suite.businessID, AccountType: domain.Revenue, IsActive: true},
	}

	suite.mockVoucherRepo.On("FindVoucherByID", ctx, originalID).Return(original, nil).Once()
	suite.mockClosingSvc.On("EnsurePostable", ctx, suite.businessID, original.VoucherDate).Return(nil).Once()
	suite.mockVoucherRepo.On("FindLinesByVoucherID", ctx, originalID).Return(originalLines, nil).Once()
	suite.mockAccountSvc.On("GetAccountsByIDs", ctx, suite.businessID, mock.AnythingOfType("[]string")).Return(accounts, nil).Once()

	var reversingLines []domain.LedgerLine
	suite.mockVoucherRepo.On("SaveVoucher", ctx, mock.AnythingOfType("domain.Voucher"), mock.AnythingOfType("[]domain.LedgerLine"), mock.AnythingOfType("map[string]decimal.Decimal")).
		Run(func(args mock.Arguments) {
			reversingLines = args.Get(2).([]domain.LedgerLine)
		}).
		Return(int64(13), nil).Once()
	suite.mockVoucherRepo.On("UpdateVoucherStatusAndLinks", ctx, originalID, domain.Reversed, mock.AnythingOfType("*string"), (*string)(nil), suite.userID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	reversing, err := suite.service.ReverseVoucher(ctx, suite.businessID, originalID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing)
	suite.Require().NotNil(reversing.OriginalVoucherID)
	suite.Equal(originalID, *reversing.OriginalVoucherID)
	suite.Contains(reversing.Narration, "Reversal of voucher #12")

	suite.Require().Len(reversingLines, 2)
	for i, l := range reversingLines {
		suite.Equal(originalLines[i].AccountID, l.AccountID)
		suite.NotEqual(originalLines[i].Side, l.Side)
		suite.True(originalLines[i].Amount.Equal(l.Amount))
	}
	suite.mockVoucherRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverseVoucher_RejectsReversalOfReversal() {
	ctx := context.Background()
	reversalID := uuid.NewString()
	sourceID := uuid.NewString()

	reversal := &domain.Voucher{
		VoucherID:         reversalID,
		BusinessID:        suite.businessID,
		VoucherType:       domain.VoucherSales,
		Status:            domain.Posted,
		OriginalVoucherID: &sourceID,
	}
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, reversalID).Return(reversal, nil).Once()

	_, err := suite.service.ReverseVoucher(ctx, suite.businessID, reversalID, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrConflict)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "SaveVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverseVoucher_RejectsAlreadyReversed() {
	ctx := context.Background()
	originalID := uuid.NewString()
	reversingID := uuid.NewString()

	original := &domain.Voucher{
		VoucherID:          originalID,
		BusinessID:         suite.businessID,
		VoucherType:        domain.VoucherSales,
		Status:             domain.Posted,
		ReversingVoucherID: &reversingID,
	}
	suite.mockVoucherRepo.On("FindVoucherByID", ctx, originalID).Return(original, nil).Once()

	_, err := suite.service.ReverseVoucher(ctx, suite.businessID, originalID, suite.userID)

	suite.Require().ErrorIs(err, services.ErrAlreadyReversed)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
