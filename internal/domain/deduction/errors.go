package deduction

import "errors"

var (
	ErrDeductionTypeNotFound = errors.New("deduction type not found")
	ErrDeductionCodeExists   = errors.New("an effective deduction with this code already exists")
	ErrNoMatchingBracket     = errors.New("no matching wage bracket")
	ErrNotBracketMode        = errors.New("deduction type is not in wage_bracket mode")
)
