package deduction

import (
	"context"
	"time"
)

// DeductionRepository defines data access for the deduction catalog.
type DeductionRepository interface {
	// Create inserts the type and, for wage_bracket mode, its ranges.
	Create(ctx context.Context, t DeductionType) (DeductionType, error)
	GetByID(ctx context.Context, id string) (DeductionType, error)
	GetEffectiveByCode(ctx context.Context, code string, at time.Time) (DeductionType, error)
	// ListEffective returns active types whose effective window contains at,
	// insertion-ordered, wage ranges preloaded ordered by min_wage.
	ListEffective(ctx context.Context, at time.Time) ([]DeductionType, error)
	List(ctx context.Context) ([]DeductionType, error)
	Update(ctx context.Context, req UpdateDeductionTypeRequest) error
	CloseEffectiveWindow(ctx context.Context, id string, until time.Time) error
	Deactivate(ctx context.Context, id string) error
	ReplaceWageRanges(ctx context.Context, deductionTypeID string, ranges []WageRange) error
}
