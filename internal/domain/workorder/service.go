package workorder

import (
	"context"
)

type WorkOrderService interface {
	Create(ctx context.Context, req CreateWorkOrderRequest) (WorkOrderResponse, error)
	Get(ctx context.Context, id string) (WorkOrderResponse, error)
	List(ctx context.Context, filter WorkOrderFilter) (ListWorkOrdersResponse, error)
	// Contributions / items (editable statuses only)
	AddContribution(ctx context.Context, req AddContributionRequest) (ContributionResponse, error)
	RemoveContribution(ctx context.Context, workOrderID, contributionID string) error
	AddItem(ctx context.Context, req AddItemRequest) (ItemResponse, error)
	RemoveItem(ctx context.Context, workOrderID, itemID string) error
	// Lifecycle
	AttemptTransition(ctx context.Context, workOrderID string, event Event) (WorkOrderResponse, error)
	ListEvents(ctx context.Context, workOrderID string) ([]EventResponse, error)
}
