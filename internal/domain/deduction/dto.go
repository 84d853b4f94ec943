package deduction

import (
	"fmt"

	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== DEDUCTION TYPE DTOs ==========

type BracketInput struct {
	MinWage        decimal.Decimal `json:"min_wage"`
	MaxWage        decimal.Decimal `json:"max_wage"`
	WorkerAmount   decimal.Decimal `json:"worker_amount"`
	EmployerAmount decimal.Decimal `json:"employer_amount"`
}

type CreateDeductionTypeRequest struct {
	Code           string           `json:"code"`
	Mode           string           `json:"mode"` // "flat" or "wage_bracket"
	WorkerAmount   *decimal.Decimal `json:"worker_amount,omitempty"`
	EmployerAmount *decimal.Decimal `json:"employer_amount,omitempty"`
	EffectiveFrom  *string          `json:"effective_from,omitempty"` // "YYYY-MM-DD", defaults to now
	Brackets       []BracketInput   `json:"brackets,omitempty"`
	// Supersede closes the effective window of an existing row with the
	// same code instead of rejecting the create.
	Supersede bool `json:"supersede,omitempty"`
}

func (r *CreateDeductionTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be 2-30 uppercase letters, digits or underscores"})
	}
	if !validator.IsInSlice(r.Mode, []string{string(ModeFlat), string(ModeWageBracket)}) {
		errs = append(errs, validator.ValidationError{Field: "mode", Message: "must be 'flat' or 'wage_bracket'"})
	}

	switch r.Mode {
	case string(ModeFlat):
		if r.WorkerAmount == nil {
			errs = append(errs, validator.ValidationError{Field: "worker_amount", Message: "is required for flat mode"})
		} else if r.WorkerAmount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "worker_amount", Message: "must be non-negative"})
		}
		if r.EmployerAmount != nil && r.EmployerAmount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "employer_amount", Message: "must be non-negative"})
		}
		if len(r.Brackets) > 0 {
			errs = append(errs, validator.ValidationError{Field: "brackets", Message: "not allowed for flat mode"})
		}
	case string(ModeWageBracket):
		if len(r.Brackets) == 0 {
			errs = append(errs, validator.ValidationError{Field: "brackets", Message: "at least one bracket is required"})
		}
		errs = append(errs, validateBrackets(r.Brackets)...)
	}

	if r.EffectiveFrom != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveFrom); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be a date in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDeductionTypeRequest struct {
	ID             string
	WorkerAmount   *decimal.Decimal `json:"worker_amount,omitempty"`
	EmployerAmount *decimal.Decimal `json:"employer_amount,omitempty"`
	IsActive       *bool            `json:"is_active,omitempty"`
	EffectiveUntil *string          `json:"effective_until,omitempty"` // "YYYY-MM-DD"
}

func (r *UpdateDeductionTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.WorkerAmount != nil && r.WorkerAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "worker_amount", Message: "must be non-negative"})
	}
	if r.EmployerAmount != nil && r.EmployerAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "employer_amount", Message: "must be non-negative"})
	}
	if r.EffectiveUntil != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveUntil); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_until", Message: "must be a date in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReplaceBracketsRequest struct {
	DeductionTypeID string         `json:"-"`
	Brackets        []BracketInput `json:"brackets"`
}

func (r *ReplaceBracketsRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Brackets) == 0 {
		errs = append(errs, validator.ValidationError{Field: "brackets", Message: "at least one bracket is required"})
	}
	errs = append(errs, validateBrackets(r.Brackets)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateBrackets enforces min < max per bracket and no overlap between
// brackets of one type. Gaps are legal.
func validateBrackets(brackets []BracketInput) validator.ValidationErrors {
	var errs validator.ValidationErrors

	for i, b := range brackets {
		field := fmt.Sprintf("brackets[%d]", i)
		if !b.MinWage.LessThan(b.MaxWage) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "min_wage must be less than max_wage"})
		}
		if b.MinWage.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "min_wage must be non-negative"})
		}
		if b.WorkerAmount.IsNegative() || b.EmployerAmount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "amounts must be non-negative"})
		}
		for j := 0; j < i; j++ {
			if b.MinWage.LessThan(brackets[j].MaxWage) && brackets[j].MinWage.LessThan(b.MaxWage) {
				errs = append(errs, validator.ValidationError{Field: field, Message: fmt.Sprintf("overlaps brackets[%d]", j)})
			}
		}
	}

	return errs
}

type WageRangeResponse struct {
	ID             string          `json:"id"`
	MinWage        decimal.Decimal `json:"min_wage"`
	MaxWage        decimal.Decimal `json:"max_wage"`
	WorkerAmount   decimal.Decimal `json:"worker_amount"`
	EmployerAmount decimal.Decimal `json:"employer_amount"`
}

type DeductionTypeResponse struct {
	ID             string              `json:"id"`
	Code           string              `json:"code"`
	Mode           string              `json:"mode"`
	WorkerAmount   decimal.Decimal     `json:"worker_amount"`
	EmployerAmount decimal.Decimal     `json:"employer_amount"`
	IsActive       bool                `json:"is_active"`
	// Effective reports whether the type applies right now; a row can be
	// active but outside its effective window.
	Effective      bool                `json:"effective"`
	EffectiveFrom  string              `json:"effective_from"`
	EffectiveUntil *string             `json:"effective_until,omitempty"`
	WageRanges     []WageRangeResponse `json:"wage_ranges,omitempty"`
}
