package payledger

import "context"

// PayLedgerService defines the interface for payroll processing and
// ledger queries.
type PayLedgerService interface {
	// ProcessApprovedWorkOrder folds one approved work order into the
	// pay calculation of the month it was created in. Orders that are
	// not approved, or were processed by an earlier call, are a no-op
	// with Processed=false rather than an error.
	ProcessApprovedWorkOrder(ctx context.Context, workOrderID string) (ProcessResult, error)

	// GetCalculation returns a month header with its detail rows.
	GetCalculation(ctx context.Context, monthYear string) (PayCalculationResponse, error)

	// GetDetail returns a single worker's row for a month.
	GetDetail(ctx context.Context, monthYear, workerID string) (PayCalculationDetailResponse, error)

	// RecalculateMonth rebuilds a month from its processed work orders,
	// re-resolving deductions against the current catalog.
	RecalculateMonth(ctx context.Context, req RecalculateMonthRequest) (PayCalculationResponse, error)

	// ReconcileRecentMonths compares stored gross totals of the most
	// recent months against their processed work orders and logs any
	// drift. Returns the first error encountered.
	ReconcileRecentMonths(ctx context.Context, months int) error
}
