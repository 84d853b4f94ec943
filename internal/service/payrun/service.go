package payrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrilabor/fieldpay-backend/internal/config"
	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
	"github.com/agrilabor/fieldpay-backend/internal/domain/payledger"
	"github.com/agrilabor/fieldpay-backend/internal/domain/workorder"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/database"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/events"
	"github.com/agrilabor/fieldpay-backend/internal/repository/postgresql"
)

type PayrunServiceImpl struct {
	db            *database.DB
	workOrderRepo workorder.WorkOrderRepository
	ledgerRepo    payledger.PayLedgerRepository
	deductionRepo deduction.DeductionRepository
	hub           *events.Hub
	cfg           config.PayrollConfig
}

func NewPayrunService(
	db *database.DB,
	workOrderRepo workorder.WorkOrderRepository,
	ledgerRepo payledger.PayLedgerRepository,
	deductionRepo deduction.DeductionRepository,
	hub *events.Hub,
	cfg config.PayrollConfig,
) payledger.PayLedgerService {
	return &PayrunServiceImpl{
		db:            db,
		workOrderRepo: workOrderRepo,
		ledgerRepo:    ledgerRepo,
		deductionRepo: deductionRepo,
		hub:           hub,
		cfg:           cfg,
	}
}

// ProcessApprovedWorkOrder implements payledger.PayLedgerService. Lock
// contention on the month is retried with linear backoff up to the
// configured budget; every other failure is reported once, with an
// internal reference for ops follow-up.
func (s *PayrunServiceImpl) ProcessApprovedWorkOrder(ctx context.Context, workOrderID string) (payledger.ProcessResult, error) {
	var lastErr error
	for attempt := 1; attempt <= s.cfg.AccumulateRetry; attempt++ {
		result, err := s.processOnce(ctx, workOrderID)
		if err == nil {
			if result.Processed {
				slog.Info("Processed work order payroll",
					"work_order_id", result.WorkOrderID,
					"month", result.MonthYear,
					"workers_paid", result.WorkersPaid,
					"overall_total", result.OverallTotal,
				)
				s.hub.Publish(events.Event{Name: "payroll.processed", Data: result})
			}
			return result, nil
		}
		if errors.Is(err, workorder.ErrWorkOrderNotFound) {
			return payledger.ProcessResult{}, err
		}
		if !postgresql.IsLockNotAvailable(err) {
			ref := uuid.NewString()
			slog.Error("Payroll processing failed", "ref", ref, "work_order_id", workOrderID, "error", err)
			return payledger.ProcessResult{}, &payledger.ProcessingFailure{Ref: ref, Err: err}
		}

		lastErr = err
		slog.Warn("Pay calculation lock busy, retrying",
			"work_order_id", workOrderID,
			"attempt", attempt,
			"max_attempts", s.cfg.AccumulateRetry,
		)
		if attempt < s.cfg.AccumulateRetry {
			select {
			case <-ctx.Done():
				return payledger.ProcessResult{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * s.cfg.RetryBackoffBase):
			}
		}
	}

	ref := uuid.NewString()
	slog.Error("Payroll processing exhausted its retry budget", "ref", ref, "work_order_id", workOrderID, "error", lastErr)
	return payledger.ProcessResult{}, &payledger.ProcessingFailure{Ref: ref, Err: payledger.ErrAccumulationConflict}
}

// processOnce runs a single processing attempt in one transaction. Lock
// order is fixed: work order row first, then the month header; detail
// rows are only touched while the header lock is held, so concurrent
// approvals for the same month serialize instead of deadlocking.
func (s *PayrunServiceImpl) processOnce(ctx context.Context, workOrderID string) (payledger.ProcessResult, error) {
	var result payledger.ProcessResult

	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := postgresql.SetLockTimeout(txCtx, tx, s.cfg.LockTimeout); err != nil {
			return err
		}

		wo, err := s.workOrderRepo.GetByIDForUpdate(txCtx, workOrderID)
		if err != nil {
			return err
		}

		result.WorkOrderID = wo.ID
		result.MonthYear = wo.MonthKey()

		if wo.Status != workorder.StatusCompleted {
			result.Summary = fmt.Sprintf("work order is %s; nothing to process", wo.Status)
			return nil
		}
		if wo.PayProcessedAt != nil {
			result.Summary = fmt.Sprintf("already processed for %s", result.MonthYear)
			header, err := s.ledgerRepo.GetByMonth(txCtx, result.MonthYear)
			if err != nil {
				if errors.Is(err, payledger.ErrCalculationNotFound) {
					return nil
				}
				return err
			}
			result.OverallTotal = header.OverallTotal
			return nil
		}

		header, err := s.ledgerRepo.GetOrCreateForUpdate(txCtx, result.MonthYear)
		if err != nil {
			return err
		}

		catalog, err := s.deductionRepo.ListEffective(txCtx, time.Now().UTC())
		if err != nil {
			return err
		}

		for _, c := range wo.Contributions {
			qty := c.Quantity(wo.RateType)
			if qty == nil || !qty.IsPositive() || !c.Rate.IsPositive() {
				return fmt.Errorf("%w: work order %s, worker %s", workorder.ErrInvalidContribution, wo.ID, c.WorkerID)
			}

			detail, err := s.ledgerRepo.AccumulateGross(txCtx, header.ID, c.WorkerID, qty.Mul(c.Rate), s.cfg.Currency)
			if err != nil {
				return err
			}
			if err := detail.ApplyDeductions(catalog); err != nil {
				return err
			}
			if err := s.ledgerRepo.UpdateDetailDeductions(txCtx, detail); err != nil {
				return err
			}
			result.WorkersPaid++
		}

		total, err := s.ledgerRepo.RecomputeOverallTotal(txCtx, header.ID)
		if err != nil {
			return err
		}
		result.OverallTotal = total

		if err := s.workOrderRepo.MarkPayProcessed(txCtx, wo.ID, time.Now().UTC()); err != nil {
			return err
		}

		result.Processed = true
		result.Summary = fmt.Sprintf("processed for %s", result.MonthYear)
		return nil
	})
	if err != nil {
		return payledger.ProcessResult{}, err
	}

	return result, nil
}

// GetCalculation implements payledger.PayLedgerService.
func (s *PayrunServiceImpl) GetCalculation(ctx context.Context, monthYear string) (payledger.PayCalculationResponse, error) {
	if !payledger.ValidMonthKey(monthYear) {
		return payledger.PayCalculationResponse{}, payledger.ErrInvalidMonthKey
	}

	header, err := s.ledgerRepo.GetByMonth(ctx, monthYear)
	if err != nil {
		return payledger.PayCalculationResponse{}, err
	}
	details, err := s.ledgerRepo.ListDetails(ctx, monthYear)
	if err != nil {
		return payledger.PayCalculationResponse{}, err
	}

	return toCalculationResponse(header, details), nil
}

// GetDetail implements payledger.PayLedgerService.
func (s *PayrunServiceImpl) GetDetail(ctx context.Context, monthYear, workerID string) (payledger.PayCalculationDetailResponse, error) {
	if !payledger.ValidMonthKey(monthYear) {
		return payledger.PayCalculationDetailResponse{}, payledger.ErrInvalidMonthKey
	}

	detail, err := s.ledgerRepo.GetDetail(ctx, monthYear, workerID)
	if err != nil {
		return payledger.PayCalculationDetailResponse{}, err
	}

	return toDetailResponse(detail), nil
}

// RecalculateMonth implements payledger.PayLedgerService. The month is
// rebuilt from scratch under the header lock: details are wiped, then
// refilled from the stamped work orders, with deductions re-resolved
// against the catalog effective now.
func (s *PayrunServiceImpl) RecalculateMonth(ctx context.Context, req payledger.RecalculateMonthRequest) (payledger.PayCalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payledger.PayCalculationResponse{}, err
	}

	start, end, err := payledger.MonthWindow(req.MonthYear)
	if err != nil {
		return payledger.PayCalculationResponse{}, err
	}

	err = postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := postgresql.SetLockTimeout(txCtx, tx, s.cfg.LockTimeout); err != nil {
			return err
		}

		header, err := s.ledgerRepo.GetOrCreateForUpdate(txCtx, req.MonthYear)
		if err != nil {
			return err
		}
		if err := s.ledgerRepo.ResetMonth(txCtx, header.ID); err != nil {
			return err
		}

		totals, err := s.ledgerRepo.SumProcessedGross(txCtx, start, end)
		if err != nil {
			return err
		}
		catalog, err := s.deductionRepo.ListEffective(txCtx, time.Now().UTC())
		if err != nil {
			return err
		}

		workerIDs := make([]string, 0, len(totals))
		for id := range totals {
			workerIDs = append(workerIDs, id)
		}
		sort.Strings(workerIDs)

		for _, workerID := range workerIDs {
			detail, err := s.ledgerRepo.AccumulateGross(txCtx, header.ID, workerID, totals[workerID], s.cfg.Currency)
			if err != nil {
				return err
			}
			if err := detail.ApplyDeductions(catalog); err != nil {
				return err
			}
			if err := s.ledgerRepo.UpdateDetailDeductions(txCtx, detail); err != nil {
				return err
			}
		}

		_, err = s.ledgerRepo.RecomputeOverallTotal(txCtx, header.ID)
		return err
	})
	if err != nil {
		if postgresql.IsLockNotAvailable(err) {
			return payledger.PayCalculationResponse{}, payledger.ErrAccumulationConflict
		}
		return payledger.PayCalculationResponse{}, err
	}

	slog.Info("Recalculated pay month", "month", req.MonthYear)
	return s.GetCalculation(ctx, req.MonthYear)
}

// ReconcileRecentMonths implements payledger.PayLedgerService. Read-only
// sweep: drift is reported through the log, never repaired in place.
func (s *PayrunServiceImpl) ReconcileRecentMonths(ctx context.Context, months int) error {
	keys, err := s.ledgerRepo.RecentMonths(ctx, months)
	if err != nil {
		return err
	}

	for _, monthYear := range keys {
		start, end, err := payledger.MonthWindow(monthYear)
		if err != nil {
			return err
		}

		expected, err := s.ledgerRepo.SumProcessedGross(ctx, start, end)
		if err != nil {
			return err
		}
		details, err := s.ledgerRepo.ListDetails(ctx, monthYear)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(details))
		drift := 0
		for _, d := range details {
			seen[d.WorkerID] = true
			want, ok := expected[d.WorkerID]
			if !ok {
				slog.Error("Pay ledger drift: detail row has no processed work orders",
					"month", monthYear, "worker_id", d.WorkerID, "ledger_gross", d.GrossSalary)
				drift++
				continue
			}
			if !d.GrossSalary.Equal(want) {
				slog.Error("Pay ledger drift: gross salary mismatch",
					"month", monthYear, "worker_id", d.WorkerID, "ledger_gross", d.GrossSalary, "expected_gross", want)
				drift++
			}
		}
		for workerID, want := range expected {
			if !seen[workerID] {
				slog.Error("Pay ledger drift: processed work orders missing a detail row",
					"month", monthYear, "worker_id", workerID, "expected_gross", want)
				drift++
			}
		}

		if drift == 0 {
			slog.Info("Pay ledger reconciled", "month", monthYear)
		}
	}

	return nil
}

func toCalculationResponse(header payledger.PayCalculation, details []payledger.PayCalculationDetail) payledger.PayCalculationResponse {
	resp := payledger.PayCalculationResponse{
		ID:           header.ID,
		MonthYear:    header.MonthYear,
		OverallTotal: header.OverallTotal,
		CreatedAt:    header.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    header.UpdatedAt.Format(time.RFC3339),
	}
	for _, d := range details {
		resp.Details = append(resp.Details, toDetailResponse(d))
	}
	return resp
}

func toDetailResponse(d payledger.PayCalculationDetail) payledger.PayCalculationDetailResponse {
	return payledger.PayCalculationDetailResponse{
		ID:                 d.ID,
		WorkerID:           d.WorkerID,
		WorkerName:         d.WorkerName,
		GrossSalary:        d.GrossSalary,
		WorkerDeductions:   d.WorkerDeductions,
		EmployerDeductions: d.EmployerDeductions,
		NetSalary:          d.NetSalary,
		Currency:           d.Currency,
		DeductionBreakdown: d.DeductionBreakdown,
	}
}
