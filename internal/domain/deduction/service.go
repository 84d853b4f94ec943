package deduction

import (
	"context"
)

type DeductionService interface {
	Create(ctx context.Context, req CreateDeductionTypeRequest) (DeductionTypeResponse, error)
	Get(ctx context.Context, id string) (DeductionTypeResponse, error)
	ListEffective(ctx context.Context) ([]DeductionTypeResponse, error)
	List(ctx context.Context) ([]DeductionTypeResponse, error)
	Update(ctx context.Context, req UpdateDeductionTypeRequest) (DeductionTypeResponse, error)
	Deactivate(ctx context.Context, id string) error
	ReplaceBrackets(ctx context.Context, req ReplaceBracketsRequest) (DeductionTypeResponse, error)
}
