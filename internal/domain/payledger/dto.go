package payledger

import (
	"github.com/shopspring/decimal"

	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
)

// ========== PAY CALCULATION DTOs ==========

type PayCalculationResponse struct {
	ID           string                         `json:"id"`
	MonthYear    string                         `json:"month_year"`
	OverallTotal decimal.Decimal                `json:"overall_total"`
	CreatedAt    string                         `json:"created_at"`
	UpdatedAt    string                         `json:"updated_at"`
	Details      []PayCalculationDetailResponse `json:"details,omitempty"`
}

type PayCalculationDetailResponse struct {
	ID                 string                       `json:"id"`
	WorkerID           string                       `json:"worker_id"`
	WorkerName         *string                      `json:"worker_name,omitempty"`
	GrossSalary        decimal.Decimal              `json:"gross_salary"`
	WorkerDeductions   decimal.Decimal              `json:"worker_deductions"`
	EmployerDeductions decimal.Decimal              `json:"employer_deductions"`
	NetSalary          decimal.Decimal              `json:"net_salary"`
	Currency           string                       `json:"currency"`
	DeductionBreakdown map[string]deduction.Amounts `json:"deduction_breakdown"`
}

// ProcessResult reports what a single work-order payroll run did.
// Processed is false when the run was a no-op: the order was not in an
// approved state, or an earlier run had already stamped it. Summary
// carries the human-readable outcome either way.
type ProcessResult struct {
	MonthYear    string          `json:"month_year,omitempty"`
	WorkOrderID  string          `json:"work_order_id"`
	Processed    bool            `json:"processed"`
	Summary      string          `json:"summary"`
	WorkersPaid  int             `json:"workers_paid"`
	OverallTotal decimal.Decimal `json:"overall_total"`
}

// ========== RECALCULATION DTOs ==========

type RecalculateMonthRequest struct {
	MonthYear string `json:"month_year"`
}

func (r *RecalculateMonthRequest) Validate() error {
	var errs validator.ValidationErrors

	if !ValidMonthKey(r.MonthYear) {
		errs = append(errs, validator.ValidationError{Field: "month_year", Message: "must be in YYYY-MM format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
