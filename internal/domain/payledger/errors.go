package payledger

import (
	"errors"
	"fmt"
)

var (
	ErrCalculationNotFound  = errors.New("pay calculation not found")
	ErrDetailNotFound       = errors.New("pay calculation detail not found")
	ErrInvalidMonthKey      = errors.New("month must be in YYYY-MM format")
	ErrAccumulationConflict = errors.New("pay calculation is locked by another process")
)

// ProcessingFailure is what callers see when payroll processing fails.
// Error() stays generic so internals never leak outward; the cause is kept
// on Err for errors.Is checks and is logged in full under Ref.
type ProcessingFailure struct {
	Ref string
	Err error
}

func (e *ProcessingFailure) Error() string {
	return fmt.Sprintf("could not complete payroll processing for this work order (ref: %s)", e.Ref)
}

func (e *ProcessingFailure) Unwrap() error {
	return e.Err
}
