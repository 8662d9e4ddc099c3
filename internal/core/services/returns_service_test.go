package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/bahikhata/bahikhata_backend/internal/apperrors"
	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	portssvc "github.com/bahikhata/bahikhata_backend/internal/core/ports/services"
	"github.com/bahikhata/bahikhata_backend/internal/core/services"
)

type ReturnsServiceTestSuite struct {
	suite.Suite
	mockVoucherRepo *MockVoucherRepository
	service         portssvc.ReturnsSvcFacade
	businessID      string
	from            time.Time
	to              time.Time
}

func (suite *ReturnsServiceTestSuite) SetupTest() {
	suite.mockVoucherRepo = new(MockVoucherRepository)
	suite.service = services.NewReturnsService(suite.mockVoucherRepo, decimal.NewFromInt(250000))

	suite.businessID = uuid.NewString()
	suite.from = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	suite.to = time.Date(2025, 4, 30, 23, 59, 59, 0, time.UTC)
}

func (suite *ReturnsServiceTestSuite) taxedVoucher(number int64, voucherType domain.VoucherType, gstin string, taxable int64, rate int64, place string) domain.Voucher {
	taxableDec := decimal.NewFromInt(taxable)
	tax := taxableDec.Mul(decimal.NewFromInt(rate)).Div(decimal.NewFromInt(100))
	intra := place == "27"
	components := domain.TaxComponents{IGST: tax}
	if intra {
		half := tax.Div(decimal.NewFromInt(2)).Round(2)
		components = domain.TaxComponents{CGST: half, SGST: tax.Sub(half)}
	}
	return domain.Voucher{
		VoucherID:         uuid.NewString(),
		BusinessID:        suite.businessID,
		VoucherType:       voucherType,
		VoucherNumber:     number,
		VoucherDate:       suite.from.Add(48 * time.Hour),
		Status:            domain.Posted,
		Amount:            taxableDec.Add(tax),
		CounterpartyGSTIN: gstin,
		Tax: &domain.TaxBreakdown{
			TaxableValue: taxableDec,
			Rate:         decimal.NewFromInt(rate),
			Levy:         domain.LevyStandard,
			Components:   components,
			Jurisdiction: domain.JurisdictionPair{SupplierState: "27", PlaceOfSupply: place},
		},
	}
}

// --- Test Cases ---

func (suite *ReturnsServiceTestSuite) TestAssembleOutwardReturn_SectionGrouping() {
	ctx := context.Background()

	registered := suite.taxedVoucher(1, domain.VoucherSales, "27AAPFU0939F1ZV", 10000, 18, "27")
	registered.Tax.HSNCode = "8471"
	registered.Tax.Quantity = decimal.NewFromInt(5)

	b2cLarge := suite.taxedVoucher(2, domain.VoucherSales, "", 300000, 18, "29")
	b2cSmall := suite.taxedVoucher(3, domain.VoucherSales, "", 500, 18, "27")
	b2cSmall.Tax.HSNCode = "8471"

	exempt := suite.taxedVoucher(4, domain.VoucherSales, "", 2000, 0, "27")
	exempt.Tax.Levy = domain.LevyExempt

	untaxed := domain.Voucher{
		VoucherID:     uuid.NewString(),
		BusinessID:    suite.businessID,
		VoucherType:   domain.VoucherSales,
		VoucherNumber: 5,
		VoucherDate:   suite.from.Add(72 * time.Hour),
		Status:        domain.Posted,
		Amount:        decimal.NewFromInt(700),
	}

	export := suite.taxedVoucher(6, domain.VoucherSales, "", 5000, 18, "96")

	note := suite.taxedVoucher(7, domain.VoucherCreditNote, "27AAPFU0939F1ZV", 1000, 18, "27")

	payment := domain.Voucher{
		VoucherID:     uuid.NewString(),
		BusinessID:    suite.businessID,
		VoucherType:   domain.VoucherPayment,
		VoucherNumber: 8,
		VoucherDate:   suite.from.Add(72 * time.Hour),
		Status:        domain.Posted,
		Amount:        decimal.NewFromInt(900),
	}

	originalID := registered.VoucherID
	reversal := suite.taxedVoucher(9, domain.VoucherSales, "", 100, 18, "27")
	reversal.OriginalVoucherID = &originalID

	vouchers := []domain.Voucher{registered, b2cLarge, b2cSmall, exempt, untaxed, export, note, payment, reversal}
	suite.mockVoucherRepo.On("ListVouchersByDateRange", ctx, suite.businessID, suite.from, suite.to).Return(vouchers, nil).Once()

	summary, err := suite.service.AssembleOutwardReturn(ctx, suite.businessID, suite.from, suite.to)

	suite.Require().NoError(err)

	suite.Require().Len(summary.B2B, 1)
	suite.Equal("27AAPFU0939F1ZV", summary.B2B[0].CounterpartyGSTIN)
	suite.Equal(1, summary.B2B[0].InvoiceCount)
	suite.True(summary.B2B[0].TaxableValue.Equal(decimal.NewFromInt(10000)))
	suite.True(summary.B2B[0].Tax.Total().Equal(decimal.NewFromInt(1800)))

	suite.Require().Len(summary.B2CLarge, 1)
	suite.Equal("29", summary.B2CLarge[0].PlaceOfSupply)
	suite.True(summary.B2CLarge[0].TaxableValue.Equal(decimal.NewFromInt(300000)))
	suite.True(summary.B2CLarge[0].Tax.IGST.Equal(decimal.NewFromInt(54000)))

	suite.Require().Len(summary.B2CSmall, 1)
	suite.True(summary.B2CSmall[0].TaxableValue.Equal(decimal.NewFromInt(500)))

	// Exempt and untaxed supplies both land in the nil-rated bucket
	suite.True(summary.NilRated.Equal(decimal.NewFromInt(2700)))

	suite.Require().Len(summary.Exports, 1)
	suite.Equal("96", summary.Exports[0].PlaceOfSupply)
	suite.True(summary.Exports[0].TaxableValue.Equal(decimal.NewFromInt(5000)))

	suite.Require().Len(summary.Notes, 1)
	suite.Equal(domain.VoucherCreditNote, summary.Notes[0].NoteType)
	suite.Equal(1, summary.Notes[0].NoteCount)
	suite.True(summary.Notes[0].TaxableValue.Equal(decimal.NewFromInt(1000)))

	suite.Require().Len(summary.HSN, 1)
	suite.Equal("8471", summary.HSN[0].HSNCode)
	suite.Equal(2, summary.HSN[0].InvoiceCount)
	// The over-the-counter sale carries no unit count, so it adds one.
	suite.True(summary.HSN[0].Quantity.Equal(decimal.NewFromInt(6)))
	suite.True(summary.HSN[0].TaxableValue.Equal(decimal.NewFromInt(10500)))

	suite.True(summary.TotalTaxableValue.Equal(decimal.NewFromInt(318200)))
}

func (suite *ReturnsServiceTestSuite) TestAssembleOutwardReturn_DocSeriesCountsReversalsCancelled() {
	ctx := context.Background()

	sale := suite.taxedVoucher(1, domain.VoucherSales, "", 1000, 18, "27")
	originalID := sale.VoucherID
	reversal := suite.taxedVoucher(2, domain.VoucherSales, "", 1000, 18, "27")
	reversal.OriginalVoucherID = &originalID
	note := suite.taxedVoucher(3, domain.VoucherCreditNote, "", 200, 18, "27")

	suite.mockVoucherRepo.On("ListVouchersByDateRange", ctx, suite.businessID, suite.from, suite.to).
		Return([]domain.Voucher{sale, reversal, note}, nil).Once()

	summary, err := suite.service.AssembleOutwardReturn(ctx, suite.businessID, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.Require().Len(summary.DocSeries, 2)

	// Sorted by voucher type: CREDIT_NOTE before SALES
	suite.Equal(domain.VoucherCreditNote, summary.DocSeries[0].VoucherType)
	suite.Equal(1, summary.DocSeries[0].TotalCount)
	suite.Zero(summary.DocSeries[0].Cancelled)

	suite.Equal(domain.VoucherSales, summary.DocSeries[1].VoucherType)
	suite.Equal(int64(1), summary.DocSeries[1].FromNumber)
	suite.Equal(int64(2), summary.DocSeries[1].ToNumber)
	suite.Equal(2, summary.DocSeries[1].TotalCount)
	suite.Equal(1, summary.DocSeries[1].Cancelled)

	// The reversal cancels a document but contributes no supply value
	suite.True(summary.TotalTaxableValue.Equal(decimal.NewFromInt(1000)))
}

func (suite *ReturnsServiceTestSuite) TestAssembleOutwardReturn_InterStateBelowThresholdIsSmall() {
	ctx := context.Background()

	v := suite.taxedVoucher(1, domain.VoucherSales, "", 1000, 18, "29")
	suite.mockVoucherRepo.On("ListVouchersByDateRange", ctx, suite.businessID, suite.from, suite.to).
		Return([]domain.Voucher{v}, nil).Once()

	summary, err := suite.service.AssembleOutwardReturn(ctx, suite.businessID, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.Empty(summary.B2CLarge)
	suite.Require().Len(summary.B2CSmall, 1)
	suite.Equal("29", summary.B2CSmall[0].PlaceOfSupply)
	suite.True(summary.B2CSmall[0].Tax.IGST.Equal(decimal.NewFromInt(180)))
}

func (suite *ReturnsServiceTestSuite) TestAssembleOutwardReturn_EmptyPeriod() {
	ctx := context.Background()

	suite.mockVoucherRepo.On("ListVouchersByDateRange", ctx, suite.businessID, suite.from, suite.to).
		Return([]domain.Voucher{}, nil).Once()

	summary, err := suite.service.AssembleOutwardReturn(ctx, suite.businessID, suite.from, suite.to)

	suite.Require().NoError(err)
	suite.Empty(summary.B2B)
	suite.Empty(summary.DocSeries)
	suite.True(summary.TotalTaxableValue.IsZero())
	suite.True(summary.NilRated.IsZero())
}

func (suite *ReturnsServiceTestSuite) TestAssembleOutwardReturn_InvertedPeriodRejected() {
	ctx := context.Background()

	_, err := suite.service.AssembleOutwardReturn(ctx, suite.businessID, suite.to, suite.from)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockVoucherRepo.AssertNotCalled(suite.T(), "ListVouchersByDateRange", context.Background(), suite.businessID, suite.to, suite.from)
}

func TestReturnsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReturnsServiceTestSuite))
}
