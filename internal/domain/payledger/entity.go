package payledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
)

// MonthKeyLayout is the canonical month bucket format ("2025-07").
const MonthKeyLayout = "2006-01"

// PayCalculation is the monthly header row. One row per month, identified
// by its MonthYear key. OverallTotal always equals the sum of net salary
// across the month's detail rows; it is derived, never edited directly.
type PayCalculation struct {
	ID           string          `json:"id"`
	MonthYear    string          `json:"month_year"`
	OverallTotal decimal.Decimal `json:"overall_total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Details []PayCalculationDetail `json:"details,omitempty"`
}

// PayCalculationDetail is one worker's accumulating slice of a month.
// GrossSalary grows as approved work orders are processed; NetSalary is
// always GrossSalary minus WorkerDeductions.
type PayCalculationDetail struct {
	ID                 string                      `json:"id"`
	PayCalculationID   string                      `json:"pay_calculation_id"`
	WorkerID           string                      `json:"worker_id"`
	GrossSalary        decimal.Decimal             `json:"gross_salary"`
	WorkerDeductions   decimal.Decimal             `json:"worker_deductions"`
	EmployerDeductions decimal.Decimal             `json:"employer_deductions"`
	NetSalary          decimal.Decimal             `json:"net_salary"`
	Currency           string                      `json:"currency"`
	DeductionBreakdown map[string]deduction.Amounts `json:"deduction_breakdown"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`

	// Joined from workers for read endpoints.
	WorkerName *string `json:"worker_name,omitempty"`
}

// ApplyDeductions recomputes the deduction side of a detail from the
// effective catalog, using the detail's current gross salary. Bracket
// lookup failures propagate unchanged so callers can abort the
// surrounding transaction.
func (d *PayCalculationDetail) ApplyDeductions(types []deduction.DeductionType) error {
	workerTotal := decimal.Zero
	employerTotal := decimal.Zero
	breakdown := make(map[string]deduction.Amounts, len(types))

	for _, t := range types {
		workerAmt, employerAmt, err := t.ResolveAmounts(d.GrossSalary)
		if err != nil {
			return err
		}
		breakdown[t.Code] = deduction.Amounts{Worker: workerAmt, Employer: employerAmt}
		workerTotal = workerTotal.Add(workerAmt)
		employerTotal = employerTotal.Add(employerAmt)
	}

	d.WorkerDeductions = workerTotal
	d.EmployerDeductions = employerTotal
	d.DeductionBreakdown = breakdown
	d.NetSalary = d.GrossSalary.Sub(workerTotal)
	return nil
}

// ValidMonthKey reports whether s is a well-formed "YYYY-MM" key.
func ValidMonthKey(s string) bool {
	if len(s) != 7 {
		return false
	}
	_, err := time.Parse(MonthKeyLayout, s)
	return err == nil
}

// MonthWindow returns the [start, end) UTC window covered by a month key.
func MonthWindow(monthKey string) (time.Time, time.Time, error) {
	start, err := time.Parse(MonthKeyLayout, monthKey)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidMonthKey
	}
	return start, start.AddDate(0, 1, 0), nil
}
