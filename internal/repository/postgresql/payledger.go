package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/agrilabor/fieldpay-backend/internal/domain/payledger"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/database"
)

type payLedgerRepositoryImpl struct {
	db *database.DB
}

func NewPayLedgerRepository(db *database.DB) payledger.PayLedgerRepository {
	return &payLedgerRepositoryImpl{db: db}
}

// GetOrCreateForUpdate implements payledger.PayLedgerRepository. The
// insert is a no-op when the month already exists; the following select
// takes the row lock either way. With a lock_timeout set on the
// transaction, a contended lock surfaces as SQLSTATE 55P03.
func (r *payLedgerRepositoryImpl) GetOrCreateForUpdate(ctx context.Context, monthYear string) (payledger.PayCalculation, error) {
	q := GetQuerier(ctx, r.db)

	insertQuery := `
		INSERT INTO pay_calculations (id, month_year, overall_total, created_at, updated_at)
		VALUES (uuidv7(), $1, 0, NOW(), NOW())
		ON CONFLICT (month_year) DO NOTHING
	`
	if _, err := q.Exec(ctx, insertQuery, monthYear); err != nil {
		return payledger.PayCalculation{}, fmt.Errorf("failed to ensure pay calculation: %w", err)
	}

	query := `
		SELECT id, month_year, overall_total, created_at, updated_at
		FROM pay_calculations
		WHERE month_year = $1
		FOR UPDATE
	`

	var pc payledger.PayCalculation
	err := q.QueryRow(ctx, query, monthYear).Scan(
		&pc.ID,
		&pc.MonthYear,
		&pc.OverallTotal,
		&pc.CreatedAt,
		&pc.UpdatedAt,
	)
	if err != nil {
		if IsLockNotAvailable(err) {
			return payledger.PayCalculation{}, err
		}
		return payledger.PayCalculation{}, fmt.Errorf("failed to lock pay calculation: %w", err)
	}

	return pc, nil
}

// GetByMonth implements payledger.PayLedgerRepository.
func (r *payLedgerRepositoryImpl) GetByMonth(ctx context.Context, monthYear string) (payledger.PayCalculation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, month_year, overall_total, created_at, updated_at
		FROM pay_calculations
		WHERE month_year = $1
	`

	var pc payledger.PayCalculation
	err := q.QueryRow(ctx, query, monthYear).Scan(
		&pc.ID,
		&pc.MonthYear,
		&pc.OverallTotal,
		&pc.CreatedAt,
		&pc.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payledger.PayCalculation{}, payledger.ErrCalculationNotFound
		}
		return payledger.PayCalculation{}, fmt.Errorf("failed to get pay calculation: %w", err)
	}

	return pc, nil
}

// AccumulateGross implements payledger.PayLedgerRepository. A fresh
// worker gets a new row; a returning worker has delta added to the
// existing gross atomically. Deduction columns are left for the caller
// to recompute from the returned gross.
func (r *payLedgerRepositoryImpl) AccumulateGross(ctx context.Context, calculationID, workerID string, delta decimal.Decimal, currency string) (payledger.PayCalculationDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_calculation_details (
			id, pay_calculation_id, worker_id, gross_salary,
			worker_deductions, employer_deductions, net_salary,
			currency, deduction_breakdown, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			0, 0, $3,
			$4, '{}'::jsonb, NOW(), NOW()
		)
		ON CONFLICT (pay_calculation_id, worker_id) DO UPDATE
		SET gross_salary = pay_calculation_details.gross_salary + EXCLUDED.gross_salary,
			updated_at = NOW()
		RETURNING id, pay_calculation_id, worker_id, gross_salary,
				  worker_deductions, employer_deductions, net_salary,
				  currency, deduction_breakdown, created_at, updated_at
	`

	var d payledger.PayCalculationDetail
	var breakdownJSON []byte
	err := q.QueryRow(ctx, query, calculationID, workerID, delta, currency).Scan(
		&d.ID,
		&d.PayCalculationID,
		&d.WorkerID,
		&d.GrossSalary,
		&d.WorkerDeductions,
		&d.EmployerDeductions,
		&d.NetSalary,
		&d.Currency,
		&breakdownJSON,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if IsLockNotAvailable(err) {
			return payledger.PayCalculationDetail{}, err
		}
		return payledger.PayCalculationDetail{}, fmt.Errorf("failed to accumulate gross salary: %w", err)
	}

	if err := json.Unmarshal(breakdownJSON, &d.DeductionBreakdown); err != nil {
		return payledger.PayCalculationDetail{}, fmt.Errorf("failed to decode deduction breakdown: %w", err)
	}

	return d, nil
}

// UpdateDetailDeductions implements payledger.PayLedgerRepository.
func (r *payLedgerRepositoryImpl) UpdateDetailDeductions(ctx context.Context, detail payledger.PayCalculationDetail) error {
	q := GetQuerier(ctx, r.db)

	breakdownJSON, err := json.Marshal(detail.DeductionBreakdown)
	if err != nil {
		return fmt.Errorf("failed to encode deduction breakdown: %w", err)
	}

	query := `
		UPDATE pay_calculation_details
		SET worker_deductions = $2,
			employer_deductions = $3,
			net_salary = $4,
			deduction_breakdown = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		detail.ID, detail.WorkerDeductions, detail.EmployerDeductions, detail.NetSalary, breakdownJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update detail deductions: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return payledger.ErrDetailNotFound
	}
	return nil
}

// RecomputeOverallTotal implements payledger.PayLedgerRepository. The
// total is rebuilt from the full detail set in one statement, so a stale
// value left by an earlier partial failure heals on the next run.
func (r *payLedgerRepositoryImpl) RecomputeOverallTotal(ctx context.Context, calculationID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE pay_calculations pc
		SET overall_total = COALESCE((
				SELECT SUM(d.net_salary)
				FROM pay_calculation_details d
				WHERE d.pay_calculation_id = pc.id
			), 0),
			updated_at = NOW()
		WHERE pc.id = $1
		RETURNING overall_total
	`

	var total decimal.Decimal
	err := q.QueryRow(ctx, query, calculationID).Scan(&total)
	if err != nil {
		if err == pgx.ErrNoRows {
			return decimal.Zero, payledger.ErrCalculationNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to recompute overall total: %w", err)
	}

	return total, nil
}

// GetDetail implements payledger.PayLedgerRepository.
func (r *payLedgerRepositoryImpl) GetDetail(ctx context.Context, monthYear, workerID string) (payledger.PayCalculationDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.pay_calculation_id, d.worker_id, d.gross_salary,
			   d.worker_deductions, d.employer_deductions, d.net_salary,
			   d.currency, d.deduction_breakdown, d.created_at, d.updated_at,
			   w.full_name
		FROM pay_calculation_details d
		INNER JOIN pay_calculations pc ON d.pay_calculation_id = pc.id
		LEFT JOIN workers w ON d.worker_id = w.id
		WHERE pc.month_year = $1 AND d.worker_id = $2
	`

	d, err := scanPayDetail(q.QueryRow(ctx, query, monthYear, workerID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payledger.PayCalculationDetail{}, payledger.ErrDetailNotFound
		}
		return payledger.PayCalculationDetail{}, fmt.Errorf("failed to get pay detail: %w", err)
	}

	return d, nil
}

// ListDetails implements payledger.PayLedgerRepository.
func (r *payLedgerRepositoryImpl) ListDetails(ctx context.Context, monthYear string) ([]payledger.PayCalculationDetail, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT d.id, d.pay_calculation_id, d.worker_id, d.gross_salary,
			   d.worker_deductions, d.employer_deductions, d.net_salary,
			   d.currency, d.deduction_breakdown, d.created_at, d.updated_at,
			   w.full_name
		FROM pay_calculation_details d
		INNER JOIN pay_calculations pc ON d.pay_calculation_id = pc.id
		LEFT JOIN workers w ON d.worker_id = w.id
		WHERE pc.month_year = $1
		ORDER BY w.full_name ASC NULLS LAST, d.created_at ASC
	`

	rows, err := q.Query(ctx, query, monthYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay details: %w", err)
	}
	defer rows.Close()

	var details []payledger.PayCalculationDetail
	for rows.Next() {
		d, err := scanPayDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay detail: %w", err)
		}
		details = append(details, d)
	}

	return details, rows.Err()
}

func scanPayDetail(row pgx.Row) (payledger.PayCalculationDetail, error) {
	var d payledger.PayCalculationDetail
	var breakdownJSON []byte
	err := row.Scan(
		&d.ID,
		&d.PayCalculationID,
		&d.WorkerID,
		&d.GrossSalary,
		&d.WorkerDeductions,
		&d.EmployerDeductions,
		&d.NetSalary,
		&d.Currency,
		&breakdownJSON,
		&d.CreatedAt,
		&d.UpdatedAt,
		&d.WorkerName,
	)
	if err != nil {
		return payledger.PayCalculationDetail{}, err
	}
	if err := json.Unmarshal(breakdownJSON, &d.DeductionBreakdown); err != nil {
		return payledger.PayCalculationDetail{}, fmt.Errorf("failed to decode deduction breakdown: %w", err)
	}
	return d, nil
}

// ResetMonth implements payledger.PayLedgerRepository.
func (r *payLedgerRepositoryImpl) ResetMonth(ctx context.Context, calculationID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM pay_calculation_details WHERE pay_calculation_id = $1`, calculationID); err != nil {
		return fmt.Errorf("failed to clear pay details: %w", err)
	}

	commandTag, err := q.Exec(ctx, `UPDATE pay_calculations SET overall_total = 0, updated_at = NOW() WHERE id = $1`, calculationID)
	if err != nil {
		return fmt.Errorf("failed to reset pay calculation: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return payledger.ErrCalculationNotFound
	}
	return nil
}

// RecentMonths implements payledger.PayLedgerRepository.
func (r *payLedgerRepositoryImpl) RecentMonths(ctx context.Context, limit int) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT month_year
		FROM pay_calculations
		ORDER BY month_year DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent months: %w", err)
	}
	defer rows.Close()

	var months []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("failed to scan month: %w", err)
		}
		months = append(months, m)
	}

	return months, rows.Err()
}

// SumProcessedGross implements payledger.PayLedgerRepository. Quantity
// follows the order's rate type: work_days orders pay days worked, all
// others pay area covered.
func (r *payLedgerRepositoryImpl) SumProcessedGross(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT wc.worker_id,
			   SUM(COALESCE(CASE WHEN wo.rate_type = 'work_days' THEN wc.work_days ELSE wc.work_area_size END, 0) * wc.rate)
		FROM work_orders wo
		INNER JOIN worker_contributions wc ON wc.work_order_id = wo.id
		WHERE wo.pay_processed_at IS NOT NULL
		  AND wo.created_at >= $1 AND wo.created_at < $2
		GROUP BY wc.worker_id
	`

	rows, err := q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum processed gross: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var workerID string
		var total decimal.Decimal
		if err := rows.Scan(&workerID, &total); err != nil {
			return nil, fmt.Errorf("failed to scan processed gross: %w", err)
		}
		totals[workerID] = total
	}

	return totals, rows.Err()
}
