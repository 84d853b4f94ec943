package workorder

import "errors"

var (
	ErrWorkOrderNotFound     = errors.New("work order not found")
	ErrContributionNotFound  = errors.New("worker contribution not found")
	ErrItemNotFound          = errors.New("order item not found")
	ErrOrderNotEditable      = errors.New("work order can no longer be edited")
	ErrWorkerAlreadyAssigned = errors.New("worker already assigned to this order")
	ErrStaleStatus           = errors.New("work order status changed concurrently")
	ErrInvalidContribution   = errors.New("contribution has missing or non-positive quantity or rate")
)
