package worker

import "errors"

var (
	ErrWorkerNotFound   = errors.New("worker not found")
	ErrWorkerCodeExists = errors.New("a worker with this code already exists")
	ErrWorkerInactive   = errors.New("worker is deactivated")
)
