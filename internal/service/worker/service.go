package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/agrilabor/fieldpay-backend/internal/domain/worker"
)

type WorkerServiceImpl struct {
	repo worker.WorkerRepository
}

func NewWorkerService(repo worker.WorkerRepository) worker.WorkerService {
	return &WorkerServiceImpl{repo: repo}
}

// Create implements worker.WorkerService.
func (s *WorkerServiceImpl) Create(ctx context.Context, req worker.CreateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	created, err := s.repo.Create(ctx, worker.Worker{
		Code:      req.Code,
		FullName:  req.FullName,
		DailyRate: req.DailyRate,
	})
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	slog.Info("Registered worker", "worker_id", created.ID, "code", created.Code)
	return toWorkerResponse(created), nil
}

// Get implements worker.WorkerService.
func (s *WorkerServiceImpl) Get(ctx context.Context, id string) (worker.WorkerResponse, error) {
	w, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return worker.WorkerResponse{}, err
	}
	return toWorkerResponse(w), nil
}

// List implements worker.WorkerService.
func (s *WorkerServiceImpl) List(ctx context.Context, filter worker.WorkerFilter) (worker.ListWorkersResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	workers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return worker.ListWorkersResponse{}, err
	}

	resp := worker.ListWorkersResponse{
		Data:       make([]worker.WorkerResponse, 0, len(workers)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, w := range workers {
		resp.Data = append(resp.Data, toWorkerResponse(w))
	}
	return resp, nil
}

// Update implements worker.WorkerService.
func (s *WorkerServiceImpl) Update(ctx context.Context, req worker.UpdateWorkerRequest) (worker.WorkerResponse, error) {
	if err := req.Validate(); err != nil {
		return worker.WorkerResponse{}, err
	}

	w, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	if req.FullName != nil {
		w.FullName = *req.FullName
	}
	if req.DailyRate != nil {
		w.DailyRate = *req.DailyRate
	}
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}

	updated, err := s.repo.Update(ctx, w)
	if err != nil {
		return worker.WorkerResponse{}, err
	}

	return toWorkerResponse(updated), nil
}

// Deactivate implements worker.WorkerService.
func (s *WorkerServiceImpl) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	slog.Info("Deactivated worker", "worker_id", id)
	return nil
}

func toWorkerResponse(w worker.Worker) worker.WorkerResponse {
	return worker.WorkerResponse{
		ID:        w.ID,
		Code:      w.Code,
		FullName:  w.FullName,
		DailyRate: w.DailyRate,
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
	}
}
