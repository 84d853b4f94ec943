package workorder

import (
	"context"
	"time"
)

// WorkOrderRepository defines data access for work orders, their
// contribution/item rows and the transition event log.
type WorkOrderRepository interface {
	Create(ctx context.Context, wo WorkOrder) (WorkOrder, error)
	GetByID(ctx context.Context, id string) (WorkOrder, error)
	// GetByIDForUpdate locks the order row for the current transaction
	// before loading associations.
	GetByIDForUpdate(ctx context.Context, id string) (WorkOrder, error)
	List(ctx context.Context, filter WorkOrderFilter) ([]WorkOrder, int64, error)
	// UpdateStatus moves the order from one status to another; fails with
	// ErrStaleStatus when the stored status no longer matches from.
	UpdateStatus(ctx context.Context, id string, from, to Status) error
	MarkPayProcessed(ctx context.Context, id string, processedAt time.Time) error

	// Contributions
	AddContribution(ctx context.Context, c WorkerContribution) (WorkerContribution, error)
	RemoveContribution(ctx context.Context, workOrderID, contributionID string) error

	// Items
	AddItem(ctx context.Context, item OrderItem) (OrderItem, error)
	RemoveItem(ctx context.Context, workOrderID, itemID string) error

	// Event log
	AppendEvent(ctx context.Context, ev WorkOrderEvent) (WorkOrderEvent, error)
	ListEvents(ctx context.Context, workOrderID string) ([]WorkOrderEvent, error)
}
