package report

import (
	"github.com/shopspring/decimal"

	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
)

// ========================================
// MONTH PAY REPORT
// ========================================

type MonthPayReportRequest struct {
	MonthYear string `json:"month_year"`
}

func (r *MonthPayReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidMonthKey(r.MonthYear); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "month_year",
			Message: "must be in YYYY-MM format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthPayReport struct {
	MonthYear   string `json:"month_year"`
	GeneratedAt string `json:"generated_at"`

	OverallTotal            decimal.Decimal `json:"overall_total"`
	TotalGross              decimal.Decimal `json:"total_gross"`
	TotalWorkerDeductions   decimal.Decimal `json:"total_worker_deductions"`
	TotalEmployerDeductions decimal.Decimal `json:"total_employer_deductions"`
	TotalNet                decimal.Decimal `json:"total_net"`
	WorkerCount             int             `json:"worker_count"`

	// DeductionTotals sums the per-worker breakdowns by deduction code.
	DeductionTotals map[string]deduction.Amounts `json:"deduction_totals"`

	Orders MonthOrderStats `json:"orders"`
	Rows   []MonthPayRow   `json:"rows"`
}

type MonthPayRow struct {
	WorkerID           string                       `json:"worker_id"`
	WorkerCode         string                       `json:"worker_code"`
	WorkerName         string                       `json:"worker_name"`
	GrossSalary        decimal.Decimal              `json:"gross_salary"`
	WorkerDeductions   decimal.Decimal              `json:"worker_deductions"`
	EmployerDeductions decimal.Decimal              `json:"employer_deductions"`
	NetSalary          decimal.Decimal              `json:"net_salary"`
	Currency           string                       `json:"currency"`
	NetInWords         string                       `json:"net_in_words"`
	DeductionBreakdown map[string]deduction.Amounts `json:"deduction_breakdown"`
}

type MonthOrderStats struct {
	TotalOrders       int `json:"total_orders"`
	ProcessedOrders   int `json:"processed_orders"`
	Ongoing           int `json:"ongoing"`
	Pending           int `json:"pending"`
	Completed         int `json:"completed"`
	Rejected          int `json:"rejected"`
	AmendmentRequired int `json:"amendment_required"`
}
