package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bahikhata/bahikhata_backend/internal/core/domain"
	"github.com/bahikhata/bahikhata_backend/internal/utils/accounting"
)

func line(accountID string, amount int64, side domain.EntrySide) domain.LedgerLine {
	return domain.LedgerLine{
		LineID:    accountID + "-line",
		AccountID: accountID,
		Amount:    decimal.NewFromInt(amount),
		Side:      side,
	}
}

func TestCalculateSignedAmount(t *testing.T) {
	tests := []struct {
		name        string
		accountType domain.AccountType
		side        domain.EntrySide
		want        int64
	}{
		{"debit to asset increases", domain.Asset, domain.Debit, 100},
		{"credit to asset decreases", domain.Asset, domain.Credit, -100},
		{"debit to expense increases", domain.Expense, domain.Debit, 100},
		{"credit to liability increases", domain.Liability, domain.Credit, 100},
		{"debit to liability decreases", domain.Liability, domain.Debit, -100},
		{"credit to revenue increases", domain.Revenue, domain.Credit, 100},
		{"debit to revenue decreases", domain.Revenue, domain.Debit, -100},
		{"credit to equity increases", domain.Equity, domain.Credit, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.CalculateSignedAmount(line("a1", 100, tt.side), tt.accountType)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.NewFromInt(tt.want)), "got %s, want %d", got, tt.want)
		})
	}
}

func TestCalculateSignedAmount_UnknownAccountType(t *testing.T) {
	_, err := accounting.CalculateSignedAmount(line("a1", 100, domain.Debit), domain.AccountType("SUSPENSE"))
	assert.Error(t, err)
}

func TestBalanceChanges_AggregatesPerAccount(t *testing.T) {
	lines := []domain.LedgerLine{
		line("cash", 1180, domain.Debit),
		line("sales", 1000, domain.Credit),
		line("gst-output", 180, domain.Credit),
		line("cash", 20, domain.Credit),
	}
	accountTypes := map[string]domain.AccountType{
		"cash":       domain.Asset,
		"sales":      domain.Revenue,
		"gst-output": domain.Liability,
	}

	changes, err := accounting.BalanceChanges(lines, accountTypes)
	require.NoError(t, err)

	assert.True(t, changes["cash"].Equal(decimal.NewFromInt(1160)))
	assert.True(t, changes["sales"].Equal(decimal.NewFromInt(1000)))
	assert.True(t, changes["gst-output"].Equal(decimal.NewFromInt(180)))
}

func TestBalanceChanges_UnknownAccount(t *testing.T) {
	lines := []domain.LedgerLine{line("ghost", 100, domain.Debit)}

	_, err := accounting.BalanceChanges(lines, map[string]domain.AccountType{})
	assert.Error(t, err)
}
