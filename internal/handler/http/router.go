package http

import (
	"log/slog"
	"os"

	"github.com/agrilabor/fieldpay-backend/internal/handler/http/middleware"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	JWTService jwt.Service,
	workOrderHandler WorkOrderHandler,
	workerHandler WorkerHandler,
	deductionHandler DeductionHandler,
	payLedgerHandler PayLedgerHandler,
	reportHandler ReportHandler,
	eventsHandler EventsHandler,
	env string,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "fieldpay"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentType("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// The SSE feed authenticates with its own short-lived query token
		r.Get("/events/stream", eventsHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Post("/events/token", eventsHandler.Token)

			r.Route("/work-orders", func(r chi.Router) {
				r.Get("/", workOrderHandler.List)
				r.Post("/", workOrderHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", workOrderHandler.Get)
					r.Post("/transition", workOrderHandler.Transition)
					r.Get("/events", workOrderHandler.ListEvents)
					r.Post("/process", payLedgerHandler.ProcessWorkOrder)

					r.Post("/contributions", workOrderHandler.AddContribution)
					r.Delete("/contributions/{contributionId}", workOrderHandler.RemoveContribution)
					r.Post("/items", workOrderHandler.AddItem)
					r.Delete("/items/{itemId}", workOrderHandler.RemoveItem)
				})
			})

			r.Route("/workers", func(r chi.Router) {
				r.Get("/", workerHandler.List)
				r.Post("/", workerHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", workerHandler.Get)
					r.Put("/", workerHandler.Update)
					r.Delete("/", workerHandler.Deactivate)
				})
			})

			r.Route("/deductions", func(r chi.Router) {
				r.Get("/", deductionHandler.List)
				r.Post("/", deductionHandler.Create)

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deductionHandler.Get)
					r.Put("/", deductionHandler.Update)
					r.Delete("/", deductionHandler.Deactivate)
					r.Put("/brackets", deductionHandler.ReplaceBrackets)
				})
			})

			r.Route("/pay-calculations", func(r chi.Router) {
				r.Route("/{month}", func(r chi.Router) {
					r.Get("/", payLedgerHandler.GetCalculation)
					r.Get("/workers/{workerId}", payLedgerHandler.GetDetail)
					r.Post("/recalculate", payLedgerHandler.Recalculate)
				})
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/pay-register", reportHandler.GetMonthPayReport)
				r.Get("/pay-register/export", reportHandler.ExportMonthPayReport)
			})
		})
	})
	return r
}
