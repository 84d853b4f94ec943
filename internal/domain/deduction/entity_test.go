package deduction

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func bracketType(code string, ranges ...WageRange) DeductionType {
	return DeductionType{
		ID:         "dt-1",
		Code:       code,
		Mode:       ModeWageBracket,
		IsActive:   true,
		WageRanges: ranges,
	}
}

func TestResolveAmounts_FlatMode(t *testing.T) {
	t.Parallel()

	dt := DeductionType{
		Code:           "EPF",
		Mode:           ModeFlat,
		WorkerAmount:   dec("21.25"),
		EmployerAmount: dec("42.50"),
	}

	worker, employer, err := dt.ResolveAmounts(dec("1000"))

	require.NoError(t, err)
	assert.True(t, worker.Equal(dec("21.25")))
	assert.True(t, employer.Equal(dec("42.50")))

	// Flat amounts do not depend on the wage
	worker2, _, err := dt.ResolveAmounts(dec("0"))
	require.NoError(t, err)
	assert.True(t, worker2.Equal(worker))
}

func TestResolveAmounts_BracketLookup(t *testing.T) {
	t.Parallel()

	dt := bracketType("ETF",
		WageRange{MinWage: dec("0"), MaxWage: dec("1000"), WorkerAmount: dec("10"), EmployerAmount: dec("20")},
		WageRange{MinWage: dec("1000"), MaxWage: dec("5000"), WorkerAmount: dec("50"), EmployerAmount: dec("100")},
	)

	cases := []struct {
		name       string
		wage       string
		wantWorker string
	}{
		{"inside first range", "500", "10"},
		{"lower bound of first range", "0", "10"},
		{"inside second range", "2500", "50"},
		{"just under boundary stays in first", "999.99", "10"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			worker, _, err := dt.ResolveAmounts(dec(c.wage))
			require.NoError(t, err)
			assert.True(t, worker.Equal(dec(c.wantWorker)), "worker = %s", worker)
		})
	}
}

func TestResolveAmounts_BoundaryBelongsToUpperRange(t *testing.T) {
	t.Parallel()

	dt := bracketType("ETF",
		WageRange{MinWage: dec("0"), MaxWage: dec("1000"), WorkerAmount: dec("10"), EmployerAmount: dec("0")},
		WageRange{MinWage: dec("1000"), MaxWage: dec("5000"), WorkerAmount: dec("50"), EmployerAmount: dec("0")},
	)

	// A wage exactly on the shared boundary resolves to the range whose
	// min equals the wage, deterministically.
	worker, _, err := dt.ResolveAmounts(dec("1000"))

	require.NoError(t, err)
	assert.True(t, worker.Equal(dec("50")))
}

func TestResolveAmounts_NoMatchingBracket(t *testing.T) {
	t.Parallel()

	dt := bracketType("ETF",
		WageRange{MinWage: dec("100"), MaxWage: dec("1000"), WorkerAmount: dec("10"), EmployerAmount: dec("0")},
		WageRange{MinWage: dec("2000"), MaxWage: dec("5000"), WorkerAmount: dec("50"), EmployerAmount: dec("0")},
	)

	for _, wage := range []string{"50", "1500", "5000", "99999"} {
		_, _, err := dt.ResolveAmounts(dec(wage))
		require.Error(t, err, "wage %s", wage)
		assert.True(t, errors.Is(err, ErrNoMatchingBracket))
		assert.Contains(t, err.Error(), "ETF")
		assert.Contains(t, err.Error(), dec(wage).String())
	}
}

func TestEffectiveAt(t *testing.T) {
	t.Parallel()

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	open := DeductionType{IsActive: true, EffectiveFrom: from}
	assert.False(t, open.EffectiveAt(from.Add(-time.Hour)))
	assert.True(t, open.EffectiveAt(from))
	assert.True(t, open.EffectiveAt(from.AddDate(10, 0, 0)))

	closed := DeductionType{IsActive: true, EffectiveFrom: from, EffectiveUntil: &until}
	assert.True(t, closed.EffectiveAt(until.Add(-time.Second)))
	assert.False(t, closed.EffectiveAt(until))

	inactive := DeductionType{IsActive: false, EffectiveFrom: from}
	assert.False(t, inactive.EffectiveAt(from.Add(time.Hour)))
}

func TestCreateDeductionTypeRequest_Validate(t *testing.T) {
	t.Parallel()

	flatAmount := dec("21.25")

	t.Run("valid flat", func(t *testing.T) {
		req := CreateDeductionTypeRequest{Code: "EPF", Mode: "flat", WorkerAmount: &flatAmount}
		assert.NoError(t, req.Validate())
	})

	t.Run("flat without worker amount", func(t *testing.T) {
		req := CreateDeductionTypeRequest{Code: "EPF", Mode: "flat"}
		assert.Error(t, req.Validate())
	})

	t.Run("lowercase code rejected", func(t *testing.T) {
		req := CreateDeductionTypeRequest{Code: "epf", Mode: "flat", WorkerAmount: &flatAmount}
		assert.Error(t, req.Validate())
	})

	t.Run("valid brackets", func(t *testing.T) {
		req := CreateDeductionTypeRequest{Code: "ETF", Mode: "wage_bracket", Brackets: []BracketInput{
			{MinWage: dec("0"), MaxWage: dec("1000"), WorkerAmount: dec("10")},
			{MinWage: dec("1000"), MaxWage: dec("5000"), WorkerAmount: dec("50")},
		}}
		assert.NoError(t, req.Validate())
	})

	t.Run("overlapping brackets rejected", func(t *testing.T) {
		req := CreateDeductionTypeRequest{Code: "ETF", Mode: "wage_bracket", Brackets: []BracketInput{
			{MinWage: dec("0"), MaxWage: dec("1000"), WorkerAmount: dec("10")},
			{MinWage: dec("500"), MaxWage: dec("5000"), WorkerAmount: dec("50")},
		}}
		assert.Error(t, req.Validate())
	})

	t.Run("inverted bracket rejected", func(t *testing.T) {
		req := CreateDeductionTypeRequest{Code: "ETF", Mode: "wage_bracket", Brackets: []BracketInput{
			{MinWage: dec("1000"), MaxWage: dec("100"), WorkerAmount: dec("10")},
		}}
		assert.Error(t, req.Validate())
	})

	t.Run("bracket mode without brackets rejected", func(t *testing.T) {
		req := CreateDeductionTypeRequest{Code: "ETF", Mode: "wage_bracket"}
		assert.Error(t, req.Validate())
	})
}
