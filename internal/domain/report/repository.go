package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Month Pay Report rows, one per worker with a detail row that month
	GetMonthPayRows(ctx context.Context, monthYear string) ([]MonthPayRow, error)

	// Work order counts for the month window [from, to)
	GetMonthOrderStats(ctx context.Context, from, to time.Time) (MonthOrderStats, error)
}
