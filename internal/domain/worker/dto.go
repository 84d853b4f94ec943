package worker

import (
	"github.com/shopspring/decimal"

	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
)

type CreateWorkerRequest struct {
	Code      string          `json:"code"`
	FullName  string          `json:"full_name"`
	DailyRate decimal.Decimal `json:"daily_rate"`
}

func (r *CreateWorkerRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidCode(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "must be 2-30 uppercase letters, digits or underscores"})
	}
	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	}
	if !r.DailyRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "daily_rate", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateWorkerRequest struct {
	ID        string           `json:"-"`
	FullName  *string          `json:"full_name,omitempty"`
	DailyRate *decimal.Decimal `json:"daily_rate,omitempty"`
	IsActive  *bool            `json:"is_active,omitempty"`
}

func (r *UpdateWorkerRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "must not be empty"})
	}
	if r.DailyRate != nil && !r.DailyRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "daily_rate", Message: "must be positive"})
	}
	if r.FullName == nil && r.DailyRate == nil && r.IsActive == nil {
		errs = append(errs, validator.ValidationError{Field: "body", Message: "at least one field must be provided"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorkerResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	FullName  string          `json:"full_name"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	IsActive  bool            `json:"is_active"`
	CreatedAt string          `json:"created_at"`
}

type WorkerFilter struct {
	ActiveOnly bool   `json:"active_only"`
	Search     string `json:"search"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

type ListWorkersResponse struct {
	Data       []WorkerResponse `json:"data"`
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}
