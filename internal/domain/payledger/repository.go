package payledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayLedgerRepository defines the interface for pay ledger data access.
// Accumulation methods expect to run inside a transaction started by the
// caller; row locks taken here live until that transaction ends.
type PayLedgerRepository interface {
	// GetOrCreateForUpdate returns the month header for monthYear,
	// creating it when absent, and locks it against concurrent writers.
	GetOrCreateForUpdate(ctx context.Context, monthYear string) (PayCalculation, error)

	// GetByMonth returns the header without details.
	GetByMonth(ctx context.Context, monthYear string) (PayCalculation, error)

	// AccumulateGross adds delta to the (calculation, worker) detail row,
	// inserting it when absent, and returns the row with its new gross.
	AccumulateGross(ctx context.Context, calculationID, workerID string, delta decimal.Decimal, currency string) (PayCalculationDetail, error)

	// UpdateDetailDeductions overwrites the deduction side of a detail row.
	UpdateDetailDeductions(ctx context.Context, detail PayCalculationDetail) error

	// RecomputeOverallTotal resets the header total to the sum of net
	// salary over all detail rows and returns the new total.
	RecomputeOverallTotal(ctx context.Context, calculationID string) (decimal.Decimal, error)

	GetDetail(ctx context.Context, monthYear, workerID string) (PayCalculationDetail, error)
	ListDetails(ctx context.Context, monthYear string) ([]PayCalculationDetail, error)

	// ResetMonth deletes all detail rows for the month and zeroes the
	// header total, keeping the header row. Used by recalculation.
	ResetMonth(ctx context.Context, calculationID string) error

	// RecentMonths returns the newest month keys on record, most recent
	// first, capped at limit.
	RecentMonths(ctx context.Context, limit int) ([]string, error)

	// SumProcessedGross returns, per worker, the gross total of work
	// orders stamped as processed inside [from, to). Reconciliation
	// compares this against the stored detail rows.
	SumProcessedGross(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error)
}
