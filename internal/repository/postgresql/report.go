package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/agrilabor/fieldpay-backend/internal/domain/report"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// GetMonthPayRows implements report.ReportRepository.
func (r *reportRepositoryImpl) GetMonthPayRows(ctx context.Context, monthYear string) ([]report.MonthPayRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.worker_id,
			   COALESCE(w.code, ''),
			   COALESCE(w.full_name, ''),
			   d.gross_salary,
			   d.worker_deductions,
			   d.employer_deductions,
			   d.net_salary,
			   d.currency,
			   d.deduction_breakdown
		FROM pay_calculation_details d
		INNER JOIN pay_calculations pc ON d.pay_calculation_id = pc.id
		LEFT JOIN workers w ON d.worker_id = w.id
		WHERE pc.month_year = $1
		ORDER BY w.full_name ASC NULLS LAST, d.worker_id ASC
	`

	rows, err := q.Query(ctx, query, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query month pay rows: %w", err)
	}
	defer rows.Close()

	var result []report.MonthPayRow
	for rows.Next() {
		var row report.MonthPayRow
		var breakdownJSON []byte
		err := rows.Scan(
			&row.WorkerID,
			&row.WorkerCode,
			&row.WorkerName,
			&row.GrossSalary,
			&row.WorkerDeductions,
			&row.EmployerDeductions,
			&row.NetSalary,
			&row.Currency,
			&breakdownJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan month pay row: %w", err)
		}
		if err := json.Unmarshal(breakdownJSON, &row.DeductionBreakdown); err != nil {
			return nil, fmt.Errorf("failed to decode deduction breakdown: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// GetMonthOrderStats implements report.ReportRepository.
func (r *reportRepositoryImpl) GetMonthOrderStats(ctx context.Context, from, to time.Time) (report.MonthOrderStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT status,
			   COUNT(*),
			   COUNT(*) FILTER (WHERE pay_processed_at IS NOT NULL)
		FROM work_orders
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return report.MonthOrderStats{}, fmt.Errorf("failed to query month order stats: %w", err)
	}
	defer rows.Close()

	var stats report.MonthOrderStats
	for rows.Next() {
		var status string
		var count, processed int
		if err := rows.Scan(&status, &count, &processed); err != nil {
			return report.MonthOrderStats{}, fmt.Errorf("failed to scan month order stats: %w", err)
		}

		stats.TotalOrders += count
		stats.ProcessedOrders += processed
		switch status {
		case "ongoing":
			stats.Ongoing = count
		case "pending":
			stats.Pending = count
		case "completed":
			stats.Completed = count
		case "rejected":
			stats.Rejected = count
		case "amendment_required":
			stats.AmendmentRequired = count
		}
	}

	return stats, rows.Err()
}
