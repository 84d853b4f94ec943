package workorder

import (
	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== WORK ORDER DTOs ==========

type CreateWorkOrderRequest struct {
	Title    string  `json:"title"`
	RateType string  `json:"rate_type"`
	Notes    *string `json:"notes,omitempty"`
}

func (r *CreateWorkOrderRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{Field: "title", Message: "is required"})
	}
	if !ValidRateType(RateType(r.RateType)) {
		errs = append(errs, validator.ValidationError{Field: "rate_type", Message: "must be 'normal', 'work_days' or 'resources'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorkOrderResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	RateType       string                 `json:"rate_type"`
	Status         string                 `json:"status"`
	Notes          *string                `json:"notes,omitempty"`
	PayProcessedAt *string                `json:"pay_processed_at,omitempty"`
	CreatedAt      string                 `json:"created_at"`
	MonthKey       string                 `json:"month_key"`
	Contributions  []ContributionResponse `json:"contributions,omitempty"`
	Items          []ItemResponse         `json:"items,omitempty"`
}

type WorkOrderFilter struct {
	Status    *string `json:"status,omitempty"`
	Month     *string `json:"month,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}

type ListWorkOrdersResponse struct {
	Data       []WorkOrderResponse `json:"data"`
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}

// ========== CONTRIBUTION DTOs ==========

type AddContributionRequest struct {
	WorkOrderID  string           `json:"-"`
	WorkerID     string           `json:"worker_id"`
	WorkAreaSize *decimal.Decimal `json:"work_area_size,omitempty"`
	WorkDays     *decimal.Decimal `json:"work_days,omitempty"`
	Rate         *decimal.Decimal `json:"rate,omitempty"` // defaults to the worker's daily rate
}

func (r *AddContributionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "is required"})
	}
	if r.WorkAreaSize == nil && r.WorkDays == nil {
		errs = append(errs, validator.ValidationError{Field: "work_area_size", Message: "either work_area_size or work_days is required"})
	}
	if r.WorkAreaSize != nil && !r.WorkAreaSize.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "work_area_size", Message: "must be positive"})
	}
	if r.WorkDays != nil && !r.WorkDays.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "work_days", Message: "must be positive"})
	}
	if r.Rate != nil && !r.Rate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "rate", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ContributionResponse struct {
	ID           string           `json:"id"`
	WorkOrderID  string           `json:"work_order_id"`
	WorkerID     string           `json:"worker_id"`
	WorkerName   *string          `json:"worker_name,omitempty"`
	WorkAreaSize *decimal.Decimal `json:"work_area_size,omitempty"`
	WorkDays     *decimal.Decimal `json:"work_days,omitempty"`
	Rate         decimal.Decimal  `json:"rate"`
}

// ========== ITEM DTOs ==========

type AddItemRequest struct {
	WorkOrderID string          `json:"-"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        *string         `json:"unit,omitempty"`
}

func (r *AddItemRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	if !r.Quantity.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "quantity", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ItemResponse struct {
	ID          string          `json:"id"`
	WorkOrderID string          `json:"work_order_id"`
	Name        string          `json:"name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        *string         `json:"unit,omitempty"`
}

// ========== TRANSITION DTOs ==========

type TransitionRequest struct {
	WorkOrderID string `json:"-"`
	Event       string `json:"event"`
}

func (r *TransitionRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := ParseEvent(r.Event); !ok {
		errs = append(errs, validator.ValidationError{Field: "event", Message: "unknown event"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EventResponse struct {
	ID          string  `json:"id"`
	WorkOrderID string  `json:"work_order_id"`
	Event       string  `json:"event"`
	FromStatus  string  `json:"from_status"`
	ToStatus    string  `json:"to_status"`
	ActorID     *string `json:"actor_id,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
