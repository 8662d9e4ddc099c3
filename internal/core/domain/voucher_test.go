package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
)

func ledgerLine(amount int64, side domain.EntrySide) domain.LedgerLine {
	return domain.LedgerLine{Amount: decimal.NewFromInt(amount), Side: side}
}

func TestLedgerLine_SideAmounts(t *testing.T) {
	debit := ledgerLine(100, domain.Debit)
	credit := ledgerLine(100, domain.Credit)

	assert.True(t, debit.DebitAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, debit.CreditAmount().IsZero())
	assert.True(t, credit.CreditAmount().Equal(decimal.NewFromInt(100)))
	assert.True(t, credit.DebitAmount().IsZero())
}

func TestVoucher_Imbalance(t *testing.T) {
	tests := []struct {
		name          string
		lines         []domain.LedgerLine
		wantDebits    int64
		wantCredits   int64
		wantImbalance int64
	}{
		{
			name: "balanced sales voucher",
			lines: []domain.LedgerLine{
				ledgerLine(1180, domain.Debit),
				ledgerLine(1000, domain.Credit),
				ledgerLine(180, domain.Credit),
			},
			wantDebits:    1180,
			wantCredits:   1180,
			wantImbalance: 0,
		},
		{
			name: "short credit side",
			lines: []domain.LedgerLine{
				ledgerLine(500, domain.Debit),
				ledgerLine(400, domain.Credit),
			},
			wantDebits:    500,
			wantCredits:   400,
			wantImbalance: 100,
		},
		{
			name: "excess credit side",
			lines: []domain.LedgerLine{
				ledgerLine(300, domain.Debit),
				ledgerLine(350, domain.Credit),
			},
			wantDebits:    300,
			wantCredits:   350,
			wantImbalance: -50,
		},
		{
			name:          "no lines",
			lines:         nil,
			wantDebits:    0,
			wantCredits:   0,
			wantImbalance: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := domain.Voucher{Lines: tt.lines}
			assert.True(t, v.TotalDebits().Equal(decimal.NewFromInt(tt.wantDebits)), "debits: got %s", v.TotalDebits())
			assert.True(t, v.TotalCredits().Equal(decimal.NewFromInt(tt.wantCredits)), "credits: got %s", v.TotalCredits())
			assert.True(t, v.Imbalance().Equal(decimal.NewFromInt(tt.wantImbalance)), "imbalance: got %s", v.Imbalance())
		})
	}
}

func TestVoucherType_ReturnType(t *testing.T) {
	tests := []struct {
		voucherType domain.VoucherType
		want        domain.VoucherType
		ok          bool
	}{
		{domain.VoucherSales, domain.VoucherCreditNote, true},
		{domain.VoucherPurchase, domain.VoucherDebitNote, true},
		{domain.VoucherPayment, "", false},
		{domain.VoucherJournal, "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.voucherType), func(t *testing.T) {
			got, ok := tt.voucherType.ReturnType()
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
