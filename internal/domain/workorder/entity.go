package workorder

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusOngoing           Status = "ongoing"
	StatusPending           Status = "pending"
	StatusCompleted         Status = "completed"
	StatusRejected          Status = "rejected"
	StatusAmendmentRequired Status = "amendment_required"
)

// Event enum
type Event string

const (
	EventMarkComplete     Event = "mark_complete"
	EventApprove          Event = "approve"
	EventReject           Event = "reject"
	EventRequestAmendment Event = "request_amendment"
	EventResubmit         Event = "resubmit"
)

// RateType determines how worker pay is computed and which associations a
// work order needs before it can be marked complete.
type RateType string

const (
	RateTypeNormal    RateType = "normal"
	RateTypeWorkDays  RateType = "work_days"
	RateTypeResources RateType = "resources"
)

// WorkOrder - a unit of field work assigned to workers
type WorkOrder struct {
	ID             string
	Title          string
	RateType       RateType
	Status         Status
	Notes          *string
	PayProcessedAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Loaded associations
	Contributions []WorkerContribution
	Items         []OrderItem
}

// WorkerContribution - one worker's share of a work order.
// Quantity semantics depend on the order's rate type: work_days orders pay
// per day worked, everything else pays per area unit.
type WorkerContribution struct {
	ID           string
	WorkOrderID  string
	WorkerID     string
	WorkAreaSize *decimal.Decimal
	WorkDays     *decimal.Decimal
	Rate         decimal.Decimal
	CreatedAt    time.Time

	// Joined fields
	WorkerName *string
}

// OrderItem - a resource/material line on a work order
type OrderItem struct {
	ID          string
	WorkOrderID string
	Name        string
	Quantity    decimal.Decimal
	Unit        *string
	CreatedAt   time.Time
}

// WorkOrderEvent - one row of the transition audit log
type WorkOrderEvent struct {
	ID          string
	WorkOrderID string
	Event       Event
	FromStatus  Status
	ToStatus    Status
	ActorID     *string
	CreatedAt   time.Time
}

// HasWorkers reports whether any worker contribution rows are attached.
func (wo *WorkOrder) HasWorkers() bool {
	return len(wo.Contributions) > 0
}

// HasItems reports whether any item rows are attached.
func (wo *WorkOrder) HasItems() bool {
	return len(wo.Items) > 0
}

// Editable reports whether contribution and item rows may still change.
func (wo *WorkOrder) Editable() bool {
	return wo.Status == StatusOngoing || wo.Status == StatusAmendmentRequired
}

// MonthKey returns the pay ledger month this order belongs to, derived from
// when the work was ordered, not when it was approved.
func (wo *WorkOrder) MonthKey() string {
	return wo.CreatedAt.Format("2006-01")
}

// Quantity returns the pay quantity of a contribution under the given rate
// type: days worked for work_days orders, area size otherwise. Returns nil
// when the relevant field is unset.
func (c *WorkerContribution) Quantity(rateType RateType) *decimal.Decimal {
	if rateType == RateTypeWorkDays {
		return c.WorkDays
	}
	return c.WorkAreaSize
}
