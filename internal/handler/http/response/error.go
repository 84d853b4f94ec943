package response

import (
	"errors"
	"net/http"

	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
	"github.com/agrilabor/fieldpay-backend/internal/domain/payledger"
	"github.com/agrilabor/fieldpay-backend/internal/domain/report"
	"github.com/agrilabor/fieldpay-backend/internal/domain/worker"
	"github.com/agrilabor/fieldpay-backend/internal/domain/workorder"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Lifecycle refusals carry their own caller-facing message
	var transitionErr *workorder.TransitionError
	if errors.As(err, &transitionErr) {
		if transitionErr.Kind == workorder.TransitionErrorGuardFailure {
			UnprocessableEntity(w, "GUARD_FAILURE", transitionErr.Message)
		} else {
			Conflict(w, transitionErr.Message)
		}
		return
	}

	// Payroll processing failures stay generic; the cause is logged under
	// the embedded reference
	var procErr *payledger.ProcessingFailure
	if errors.As(err, &procErr) {
		if errors.Is(procErr.Err, payledger.ErrAccumulationConflict) {
			Conflict(w, procErr.Error())
		} else {
			InternalServerError(w, procErr.Error())
		}
		return
	}

	switch {
	// Work order domain errors
	case errors.Is(err, workorder.ErrWorkOrderNotFound):
		NotFound(w, "Work order not found")
	case errors.Is(err, workorder.ErrContributionNotFound):
		NotFound(w, "Worker contribution not found")
	case errors.Is(err, workorder.ErrItemNotFound):
		NotFound(w, "Order item not found")
	case errors.Is(err, workorder.ErrOrderNotEditable):
		Conflict(w, "Work order can no longer be edited")
	case errors.Is(err, workorder.ErrWorkerAlreadyAssigned):
		Conflict(w, "Worker already assigned to this order")
	case errors.Is(err, workorder.ErrStaleStatus):
		Conflict(w, "Work order was changed by another request")
	case errors.Is(err, workorder.ErrInvalidContribution):
		UnprocessableEntity(w, "INVALID_CONTRIBUTION", err.Error())

	// Deduction domain errors
	case errors.Is(err, deduction.ErrDeductionTypeNotFound):
		NotFound(w, "Deduction type not found")
	case errors.Is(err, deduction.ErrDeductionCodeExists):
		Conflict(w, "An effective deduction with this code already exists")
	case errors.Is(err, deduction.ErrNoMatchingBracket):
		UnprocessableEntity(w, "BRACKET_LOOKUP_FAILED", err.Error())
	case errors.Is(err, deduction.ErrNotBracketMode):
		BadRequest(w, "Deduction type is not in wage_bracket mode", nil)

	// Worker domain errors
	case errors.Is(err, worker.ErrWorkerNotFound):
		NotFound(w, "Worker not found")
	case errors.Is(err, worker.ErrWorkerCodeExists):
		Conflict(w, "Worker code already exists")
	case errors.Is(err, worker.ErrWorkerInactive):
		Conflict(w, "Worker is inactive")

	// Pay ledger domain errors
	case errors.Is(err, payledger.ErrCalculationNotFound):
		NotFound(w, "No pay calculation recorded for this month")
	case errors.Is(err, payledger.ErrDetailNotFound):
		NotFound(w, "No pay detail recorded for this worker")
	case errors.Is(err, payledger.ErrInvalidMonthKey):
		BadRequest(w, "Month must be in YYYY-MM format", nil)
	case errors.Is(err, payledger.ErrAccumulationConflict):
		Conflict(w, "Pay calculation is locked by another process, retry shortly")

	// Report domain errors
	case errors.Is(err, report.ErrNoDataFound):
		NotFound(w, "No payroll data recorded for the requested month")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
