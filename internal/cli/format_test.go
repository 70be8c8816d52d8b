package cli

import (
	"testing"

	"github.com/theirongolddev/pbudget/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":         "$0.00",
		"3":         "$3.00",
		"1234.5":    "$1,234.50",
		"1234567.8": "$1,234,567.80",
		"-42.1":     "-$42.10",
		"0.005":     "$0.01",
		"-0.001":    "$0.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatMoney(dec(in)), in)
	}
}

func TestFormatMoneyShort(t *testing.T) {
	assert.Equal(t, "$99.50", FormatMoneyShort(dec("99.5")))
	assert.Equal(t, "$1,600", FormatMoneyShort(dec("1600.2")))
	assert.Equal(t, "$12.3K", FormatMoneyShort(dec("12345")))
	assert.Equal(t, "-$250", FormatMoneyShort(dec("-250")))
}

func TestFormatSigned(t *testing.T) {
	assert.Equal(t, "+$10.00", FormatSigned(dec("10")))
	assert.Equal(t, "-$10.00", FormatSigned(dec("-10")))
	assert.Equal(t, "+$0.00", FormatSigned(decimal.Zero))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "999", FormatNumber(999))
	assert.Equal(t, "1,000", FormatNumber(1000))
	assert.Equal(t, "-1,234,567", FormatNumber(-1234567))
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "$700.00 unallocated", FormatStatus(model.AllocationCheck{Gap: dec("700"), Status: model.AllocationUnder}))
	assert.Equal(t, "$5.00 over-allocated", FormatStatus(model.AllocationCheck{Gap: dec("-5"), Status: model.AllocationOver}))
	assert.Equal(t, "fully allocated", FormatStatus(model.AllocationCheck{}))
}

func TestDescribeTransfer(t *testing.T) {
	got := DescribeTransfer(model.Transfer{From: "Leisure", FromPriority: 2, To: "Groceries", Amount: dec("60")})
	assert.Equal(t, "Move $60.00 from Leisure (P2) to Groceries", got)
}

func TestPlanDriver(t *testing.T) {
	fs := []model.Forecast{
		{Category: "Groceries", Budget: dec("350"), Spent: dec("150"), Projected: dec("450")},
		{Category: "Transport", Budget: dec("100"), Spent: dec("40"), Projected: dec("120")},
		{Category: "Leisure", Budget: dec("200"), Spent: dec("20"), Projected: dec("60")},
	}
	assert.Equal(t, "Groceries is projected $100.00 over its budget at the current pace.",
		PlanDriver(fs, model.PaceStats{}))

	fs[1].Spent = dec("130")
	assert.Equal(t, "Transport is already above its budget by $30.00.", PlanDriver(fs, model.PaceStats{}))

	calm := []model.Forecast{{Category: "Leisure", Budget: dec("200"), Spent: dec("20"), Projected: dec("60")}}
	assert.Contains(t, PlanDriver(calm, model.PaceStats{OverBy: dec("180")}), "overall pace")
	assert.Contains(t, PlanDriver(calm, model.PaceStats{OverBy: dec("180")}), "$180.00")
	assert.Equal(t, "Nothing is projected over budget.", PlanDriver(calm, model.PaceStats{OverBy: dec("-5")}))
}

func TestTransferReason(t *testing.T) {
	fs := []model.Forecast{{Category: "Leisure", Priority: 2, Budget: dec("200"), Spent: dec("20"), Projected: dec("60")}}
	tr := model.Transfer{From: "Leisure", FromPriority: 2, To: "Groceries", Amount: dec("60")}
	assert.Equal(t,
		"Why: Leisure has priority P2 and still has $180.00 remaining (budget $200.00, spent $20.00, projected $60.00).",
		TransferReason(tr, fs))
	assert.Equal(t, "Why: Ghost has priority P1.", TransferReason(model.Transfer{From: "Ghost", FromPriority: 1}, fs))
}
