package cron

import (
	"context"
	"log/slog"

	"github.com/agrilabor/fieldpay-backend/internal/config"
	"github.com/agrilabor/fieldpay-backend/internal/domain/payledger"
)

type PayLedgerJobs struct {
	payLedgerService payledger.PayLedgerService
	cfg              config.CronConfig
}

func NewPayLedgerJobs(payLedgerService payledger.PayLedgerService, cfg config.CronConfig) *PayLedgerJobs {
	return &PayLedgerJobs{
		payLedgerService: payLedgerService,
		cfg:              cfg,
	}
}

func (j *PayLedgerJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_pay_ledger", j.cfg.ReconcileInterval, j.ReconcilePayLedger)
}

// ReconcilePayLedger sweeps recent pay months and compares ledger rows
// against the stamped work orders. Drift is logged, never repaired here.
func (j *PayLedgerJobs) ReconcilePayLedger(ctx context.Context) error {
	slog.Info("Cron: Starting pay ledger reconciliation", "months", j.cfg.ReconcileMonths)
	return j.payLedgerService.ReconcileRecentMonths(ctx, j.cfg.ReconcileMonths)
}
