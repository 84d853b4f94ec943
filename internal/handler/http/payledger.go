package http

import (
	"net/http"

	"github.com/agrilabor/fieldpay-backend/internal/domain/payledger"
	"github.com/agrilabor/fieldpay-backend/internal/handler/http/response"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type PayLedgerHandler interface {
	GetCalculation(w http.ResponseWriter, r *http.Request)
	GetDetail(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	ProcessWorkOrder(w http.ResponseWriter, r *http.Request)
}

type payLedgerHandlerImpl struct {
	payLedgerService payledger.PayLedgerService
}

func NewPayLedgerHandler(payLedgerService payledger.PayLedgerService) PayLedgerHandler {
	return &payLedgerHandlerImpl{payLedgerService: payLedgerService}
}

// GetCalculation handles GET /pay-calculations/{month}
func (h *payLedgerHandlerImpl) GetCalculation(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if month == "" {
		response.BadRequest(w, "Month is required", nil)
		return
	}

	result, err := h.payLedgerService.GetCalculation(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDetail handles GET /pay-calculations/{month}/workers/{workerId}
func (h *payLedgerHandlerImpl) GetDetail(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	workerID := chi.URLParam(r, "workerId")
	if month == "" {
		response.BadRequest(w, "Month is required", nil)
		return
	}
	if !validator.IsValidUUID(workerID) {
		response.BadRequest(w, "Worker ID must be a valid UUID", nil)
		return
	}

	result, err := h.payLedgerService.GetDetail(r.Context(), month, workerID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Recalculate handles POST /pay-calculations/{month}/recalculate
func (h *payLedgerHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	if month == "" {
		response.BadRequest(w, "Month is required", nil)
		return
	}

	result, err := h.payLedgerService.RecalculateMonth(r.Context(), payledger.RecalculateMonthRequest{MonthYear: month})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Pay month recalculated", result)
}

// ProcessWorkOrder handles POST /work-orders/{id}/process. Approval already
// triggers processing; this endpoint re-drives it after a reported failure.
// Orders that are not approved, or were already processed, report a no-op.
func (h *payLedgerHandlerImpl) ProcessWorkOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !validator.IsValidUUID(id) {
		response.BadRequest(w, "Work order ID must be a valid UUID", nil)
		return
	}

	result, err := h.payLedgerService.ProcessApprovedWorkOrder(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
