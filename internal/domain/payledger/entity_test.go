package payledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func flatType(t *testing.T, code, worker, employer string) deduction.DeductionType {
	t.Helper()
	return deduction.DeductionType{
		ID:             "dt-" + code,
		Code:           code,
		Mode:           deduction.ModeFlat,
		WorkerAmount:   dec(t, worker),
		EmployerAmount: dec(t, employer),
		IsActive:       true,
	}
}

func TestApplyDeductions_FlatCatalog(t *testing.T) {
	t.Parallel()

	detail := PayCalculationDetail{GrossSalary: dec(t, "1000")}
	catalog := []deduction.DeductionType{flatType(t, "EPF", "21.25", "42.50")}

	err := detail.ApplyDeductions(catalog)

	require.NoError(t, err)
	assert.True(t, detail.WorkerDeductions.Equal(dec(t, "21.25")), "worker deductions: %s", detail.WorkerDeductions)
	assert.True(t, detail.EmployerDeductions.Equal(dec(t, "42.50")), "employer deductions: %s", detail.EmployerDeductions)
	assert.True(t, detail.NetSalary.Equal(dec(t, "978.75")), "net: %s", detail.NetSalary)
	require.Contains(t, detail.DeductionBreakdown, "EPF")
	assert.True(t, detail.DeductionBreakdown["EPF"].Worker.Equal(dec(t, "21.25")))
}

func TestApplyDeductions_ReapplyAfterGrossGrows(t *testing.T) {
	t.Parallel()

	detail := PayCalculationDetail{GrossSalary: dec(t, "1000")}
	catalog := []deduction.DeductionType{flatType(t, "EPF", "21.25", "42.50")}
	require.NoError(t, detail.ApplyDeductions(catalog))

	// A second work order lands in the same month.
	detail.GrossSalary = detail.GrossSalary.Add(dec(t, "750"))
	require.NoError(t, detail.ApplyDeductions(catalog))

	assert.True(t, detail.GrossSalary.Equal(dec(t, "1750")))
	assert.True(t, detail.WorkerDeductions.Equal(dec(t, "21.25")), "flat deduction must not double up")
	assert.True(t, detail.NetSalary.Equal(dec(t, "1728.75")), "net: %s", detail.NetSalary)
}

func TestApplyDeductions_SumsMultipleTypes(t *testing.T) {
	t.Parallel()

	detail := PayCalculationDetail{GrossSalary: dec(t, "2000")}
	catalog := []deduction.DeductionType{
		flatType(t, "EPF", "160", "240"),
		flatType(t, "ETF", "0", "60"),
		flatType(t, "UNION", "12.50", "0"),
	}

	err := detail.ApplyDeductions(catalog)

	require.NoError(t, err)
	assert.True(t, detail.WorkerDeductions.Equal(dec(t, "172.50")))
	assert.True(t, detail.EmployerDeductions.Equal(dec(t, "300")))
	assert.True(t, detail.NetSalary.Equal(dec(t, "1827.50")))
	assert.Len(t, detail.DeductionBreakdown, 3)
}

func TestApplyDeductions_BracketMissPropagates(t *testing.T) {
	t.Parallel()

	bracketed := deduction.DeductionType{
		ID:       "dt-STAMP",
		Code:     "STAMP",
		Mode:     deduction.ModeWageBracket,
		IsActive: true,
		WageRanges: []deduction.WageRange{
			{MinWage: dec(t, "0"), MaxWage: dec(t, "1000"), WorkerAmount: dec(t, "25"), EmployerAmount: dec(t, "0")},
		},
	}
	detail := PayCalculationDetail{GrossSalary: dec(t, "5000"), WorkerDeductions: dec(t, "9")}

	err := detail.ApplyDeductions([]deduction.DeductionType{bracketed})

	require.Error(t, err)
	assert.ErrorIs(t, err, deduction.ErrNoMatchingBracket)
	// The detail must keep its previous state when resolution fails.
	assert.True(t, detail.WorkerDeductions.Equal(dec(t, "9")))
	assert.Nil(t, detail.DeductionBreakdown)
}

func TestValidMonthKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		key  string
		want bool
	}{
		{"2025-07", true},
		{"2024-12", true},
		{"2025-13", false},
		{"2025-00", false},
		{"2025-7", false},
		{"2025/07", false},
		{"202507", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ValidMonthKey(tc.key), "key %q", tc.key)
	}
}

func TestMonthWindow(t *testing.T) {
	t.Parallel()

	start, end, err := MonthWindow("2025-07")

	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), end)

	_, _, err = MonthWindow("not-a-month")
	assert.ErrorIs(t, err, ErrInvalidMonthKey)
}
