package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrilabor/fieldpay-backend/internal/config"
	appHTTP "github.com/agrilabor/fieldpay-backend/internal/handler/http"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/cron"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/database"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/events"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/jwt"
	"github.com/agrilabor/fieldpay-backend/internal/repository/postgresql"
	deductionService "github.com/agrilabor/fieldpay-backend/internal/service/deduction"
	payrunService "github.com/agrilabor/fieldpay-backend/internal/service/payrun"
	reportService "github.com/agrilabor/fieldpay-backend/internal/service/report"
	workerService "github.com/agrilabor/fieldpay-backend/internal/service/worker"
	workOrderService "github.com/agrilabor/fieldpay-backend/internal/service/workorder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	workOrderRepo := postgresql.NewWorkOrderRepository(db)
	workerRepo := postgresql.NewWorkerRepository(db)
	deductionRepo := postgresql.NewDeductionRepository(db)
	payLedgerRepo := postgresql.NewPayLedgerRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret)
	hub := events.NewHub()

	payrunSvc := payrunService.NewPayrunService(db, workOrderRepo, payLedgerRepo, deductionRepo, hub, cfg.Payroll)
	workOrderSvc := workOrderService.NewWorkOrderService(db, workOrderRepo, workerRepo, payrunSvc, hub)
	deductionSvc := deductionService.NewDeductionService(db, deductionRepo)
	workerSvc := workerService.NewWorkerService(workerRepo)
	reportSvc := reportService.NewReportService(reportRepo, payLedgerRepo)

	workOrderHandler := appHTTP.NewWorkOrderHandler(workOrderSvc)
	workerHandler := appHTTP.NewWorkerHandler(workerSvc)
	deductionHandler := appHTTP.NewDeductionHandler(deductionSvc)
	payLedgerHandler := appHTTP.NewPayLedgerHandler(payrunSvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)
	eventsHandler := appHTTP.NewEventsHandler(hub, JWTService)

	router := appHTTP.NewRouter(
		JWTService,
		workOrderHandler,
		workerHandler,
		deductionHandler,
		payLedgerHandler,
		reportHandler,
		eventsHandler,
		cfg.App.Env,
	)

	scheduler := cron.NewScheduler()
	payLedgerJobs := cron.NewPayLedgerJobs(payrunSvc, cfg.Cron)
	payLedgerJobs.RegisterJobs(scheduler)
	scheduler.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server running", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	scheduler.Stop()
}
