package worker

import "context"

// WorkerRepository defines the interface for worker data access.
type WorkerRepository interface {
	Create(ctx context.Context, w Worker) (Worker, error)
	GetByID(ctx context.Context, id string) (Worker, error)
	GetByCode(ctx context.Context, code string) (Worker, error)
	List(ctx context.Context, filter WorkerFilter) ([]Worker, int64, error)
	Update(ctx context.Context, w Worker) (Worker, error)
	Deactivate(ctx context.Context, id string) error
}
