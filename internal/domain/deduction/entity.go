package deduction

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Mode enum
type Mode string

const (
	ModeFlat        Mode = "flat"
	ModeWageBracket Mode = "wage_bracket"
)

// DeductionType - one statutory or scheme deduction. At most one row per
// code is effective at any instant; superseding closes the old window.
type DeductionType struct {
	ID             string
	Code           string
	Mode           Mode
	WorkerAmount   decimal.Decimal
	EmployerAmount decimal.Decimal
	IsActive       bool
	EffectiveFrom  time.Time
	EffectiveUntil *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Loaded for wage_bracket mode, ordered by min_wage
	WageRanges []WageRange
}

// WageRange - one bracket of a wage_bracket deduction. min < max, no
// overlap within a type. Gaps are allowed; a wage falling in a gap is a
// lookup failure, never a silent zero.
type WageRange struct {
	ID              string
	DeductionTypeID string
	MinWage         decimal.Decimal
	MaxWage         decimal.Decimal
	WorkerAmount    decimal.Decimal
	EmployerAmount  decimal.Decimal
	CreatedAt       time.Time
}

// Amounts is one entry of a pay detail's deduction breakdown.
type Amounts struct {
	Worker   decimal.Decimal `json:"worker"`
	Employer decimal.Decimal `json:"employer"`
}

// EffectiveAt reports whether the type applies at the given instant.
func (t *DeductionType) EffectiveAt(at time.Time) bool {
	if !t.IsActive {
		return false
	}
	if at.Before(t.EffectiveFrom) {
		return false
	}
	if t.EffectiveUntil != nil && !at.Before(*t.EffectiveUntil) {
		return false
	}
	return true
}

// ResolveAmounts resolves the worker- and employer-side amounts for a gross
// wage. Flat mode returns the stored amounts unconditionally. Bracket mode
// looks up min_wage <= wage < max_wage; the exact boundary belongs to the
// range whose min equals the wage. A wage outside every range fails with
// ErrNoMatchingBracket.
func (t *DeductionType) ResolveAmounts(grossWage decimal.Decimal) (worker, employer decimal.Decimal, err error) {
	if t.Mode == ModeFlat {
		return t.WorkerAmount, t.EmployerAmount, nil
	}

	for _, r := range t.WageRanges {
		if grossWage.GreaterThanOrEqual(r.MinWage) && grossWage.LessThan(r.MaxWage) {
			return r.WorkerAmount, r.EmployerAmount, nil
		}
	}

	return decimal.Zero, decimal.Zero, fmt.Errorf("%w: deduction %s, gross wage %s", ErrNoMatchingBracket, t.Code, grossWage.String())
}
