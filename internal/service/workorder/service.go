package workorder

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrilabor/fieldpay-backend/internal/domain/payledger"
	"github.com/agrilabor/fieldpay-backend/internal/domain/worker"
	"github.com/agrilabor/fieldpay-backend/internal/domain/workorder"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/actor"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/database"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/events"
	"github.com/agrilabor/fieldpay-backend/internal/repository/postgresql"
)

type WorkOrderServiceImpl struct {
	db            *database.DB
	workOrderRepo workorder.WorkOrderRepository
	workerRepo    worker.WorkerRepository
	payrun        payledger.PayLedgerService
	hub           *events.Hub
}

func NewWorkOrderService(
	db *database.DB,
	workOrderRepo workorder.WorkOrderRepository,
	workerRepo worker.WorkerRepository,
	payrun payledger.PayLedgerService,
	hub *events.Hub,
) workorder.WorkOrderService {
	return &WorkOrderServiceImpl{
		db:            db,
		workOrderRepo: workOrderRepo,
		workerRepo:    workerRepo,
		payrun:        payrun,
		hub:           hub,
	}
}

// Create implements workorder.WorkOrderService.
func (s *WorkOrderServiceImpl) Create(ctx context.Context, req workorder.CreateWorkOrderRequest) (workorder.WorkOrderResponse, error) {
	if err := req.Validate(); err != nil {
		return workorder.WorkOrderResponse{}, err
	}

	wo := workorder.WorkOrder{
		Title:    req.Title,
		RateType: workorder.RateType(req.RateType),
		Status:   workorder.StatusOngoing,
		Notes:    req.Notes,
	}

	created, err := s.workOrderRepo.Create(ctx, wo)
	if err != nil {
		return workorder.WorkOrderResponse{}, err
	}

	slog.Info("Created work order", "work_order_id", created.ID, "rate_type", created.RateType)
	return toWorkOrderResponse(created), nil
}

// Get implements workorder.WorkOrderService.
func (s *WorkOrderServiceImpl) Get(ctx context.Context, id string) (workorder.WorkOrderResponse, error) {
	wo, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return workorder.WorkOrderResponse{}, err
	}
	return toWorkOrderResponse(wo), nil
}

// List implements workorder.WorkOrderService.
func (s *WorkOrderServiceImpl) List(ctx context.Context, filter workorder.WorkOrderFilter) (workorder.ListWorkOrdersResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	orders, total, err := s.workOrderRepo.List(ctx, filter)
	if err != nil {
		return workorder.ListWorkOrdersResponse{}, err
	}

	resp := workorder.ListWorkOrdersResponse{
		Data:       make([]workorder.WorkOrderResponse, 0, len(orders)),
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	for _, wo := range orders {
		resp.Data = append(resp.Data, toWorkOrderResponse(wo))
	}
	return resp, nil
}

// AddContribution implements workorder.WorkOrderService. The order is
// locked while checking editability so a concurrent transition cannot
// slip in between the check and the insert.
func (s *WorkOrderServiceImpl) AddContribution(ctx context.Context, req workorder.AddContributionRequest) (workorder.ContributionResponse, error) {
	if err := req.Validate(); err != nil {
		return workorder.ContributionResponse{}, err
	}

	var created workorder.WorkerContribution
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		wo, err := s.workOrderRepo.GetByIDForUpdate(txCtx, req.WorkOrderID)
		if err != nil {
			return err
		}
		if !wo.Editable() {
			return workorder.ErrOrderNotEditable
		}

		w, err := s.workerRepo.GetByID(txCtx, req.WorkerID)
		if err != nil {
			return err
		}
		if !w.IsActive {
			return worker.ErrWorkerInactive
		}

		rate := w.DailyRate
		if req.Rate != nil {
			rate = *req.Rate
		}

		created, err = s.workOrderRepo.AddContribution(txCtx, workorder.WorkerContribution{
			WorkOrderID:  wo.ID,
			WorkerID:     w.ID,
			WorkAreaSize: req.WorkAreaSize,
			WorkDays:     req.WorkDays,
			Rate:         rate,
		})
		if err != nil {
			return err
		}
		created.WorkerName = &w.FullName
		return nil
	})
	if err != nil {
		return workorder.ContributionResponse{}, err
	}

	return toContributionResponse(created), nil
}

// RemoveContribution implements workorder.WorkOrderService.
func (s *WorkOrderServiceImpl) RemoveContribution(ctx context.Context, workOrderID, contributionID string) error {
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		wo, err := s.workOrderRepo.GetByIDForUpdate(txCtx, workOrderID)
		if err != nil {
			return err
		}
		if !wo.Editable() {
			return workorder.ErrOrderNotEditable
		}

		return s.workOrderRepo.RemoveContribution(txCtx, workOrderID, contributionID)
	})
}

// AddItem implements workorder.WorkOrderService.
func (s *WorkOrderServiceImpl) AddItem(ctx context.Context, req workorder.AddItemRequest) (workorder.ItemResponse, error) {
	if err := req.Validate(); err != nil {
		return workorder.ItemResponse{}, err
	}

	var created workorder.OrderItem
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		wo, err := s.workOrderRepo.GetByIDForUpdate(txCtx, req.WorkOrderID)
		if err != nil {
			return err
		}
		if !wo.Editable() {
			return workorder.ErrOrderNotEditable
		}

		created, err = s.workOrderRepo.AddItem(txCtx, workorder.OrderItem{
			WorkOrderID: wo.ID,
			Name:        req.Name,
			Quantity:    req.Quantity,
			Unit:        req.Unit,
		})
		return err
	})
	if err != nil {
		return workorder.ItemResponse{}, err
	}

	return toItemResponse(created), nil
}

// RemoveItem implements workorder.WorkOrderService.
func (s *WorkOrderServiceImpl) RemoveItem(ctx context.Context, workOrderID, itemID string) error {
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		wo, err := s.workOrderRepo.GetByIDForUpdate(txCtx, workOrderID)
		if err != nil {
			return err
		}
		if !wo.Editable() {
			return workorder.ErrOrderNotEditable
		}

		return s.workOrderRepo.RemoveItem(txCtx, workOrderID, itemID)
	})
}

// AttemptTransition implements workorder.WorkOrderService. The guard is
// evaluated against associations loaded under the order's row lock, the
// status update is re-guarded on the expected current status, and the
// lifecycle event row is appended in the same transaction. Approval then
// hands the committed order to payroll processing in its own
// transaction, so payroll reads a settled snapshot.
func (s *WorkOrderServiceImpl) AttemptTransition(ctx context.Context, workOrderID string, event workorder.Event) (workorder.WorkOrderResponse, error) {
	act, _ := actor.FromContext(ctx)

	var fromStatus workorder.Status
	var updated workorder.WorkOrder
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		wo, err := s.workOrderRepo.GetByIDForUpdate(txCtx, workOrderID)
		if err != nil {
			return err
		}
		fromStatus = wo.Status

		next, terr := wo.Apply(event)
		if terr != nil {
			slog.Warn("Work order transition refused",
				"actor", act.Label(),
				"kind", string(terr.Kind),
				"message", terr.Message,
				"work_order_id", wo.ID,
				"from_status", string(terr.FromStatus),
			)
			return terr
		}

		if err := s.workOrderRepo.UpdateStatus(txCtx, wo.ID, wo.Status, next.Status); err != nil {
			return err
		}

		_, err = s.workOrderRepo.AppendEvent(txCtx, workorder.WorkOrderEvent{
			WorkOrderID: wo.ID,
			Event:       event,
			FromStatus:  wo.Status,
			ToStatus:    next.Status,
			ActorID:     act.IDPtr(),
		})
		if err != nil {
			return err
		}

		updated = next
		return nil
	})
	if err != nil {
		return workorder.WorkOrderResponse{}, err
	}

	slog.Info("Work order transitioned",
		"actor", act.Label(),
		"work_order_id", updated.ID,
		"event", string(event),
		"from_status", string(fromStatus),
		"to_status", string(updated.Status),
	)
	s.hub.Publish(events.Event{Name: "work_order.transitioned", Data: workorder.EventResponse{
		WorkOrderID: updated.ID,
		Event:       string(event),
		FromStatus:  string(fromStatus),
		ToStatus:    string(updated.Status),
		ActorID:     act.IDPtr(),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}})

	if event == workorder.EventApprove {
		if _, err := s.payrun.ProcessApprovedWorkOrder(ctx, updated.ID); err != nil {
			return workorder.WorkOrderResponse{}, err
		}
		if refreshed, err := s.workOrderRepo.GetByID(ctx, updated.ID); err == nil {
			updated = refreshed
		}
	}

	return toWorkOrderResponse(updated), nil
}

// ListEvents implements workorder.WorkOrderService.
func (s *WorkOrderServiceImpl) ListEvents(ctx context.Context, workOrderID string) ([]workorder.EventResponse, error) {
	if _, err := s.workOrderRepo.GetByID(ctx, workOrderID); err != nil {
		return nil, err
	}

	rows, err := s.workOrderRepo.ListEvents(ctx, workOrderID)
	if err != nil {
		return nil, err
	}

	resp := make([]workorder.EventResponse, 0, len(rows))
	for _, e := range rows {
		resp = append(resp, toEventResponse(e))
	}
	return resp, nil
}

func toWorkOrderResponse(wo workorder.WorkOrder) workorder.WorkOrderResponse {
	resp := workorder.WorkOrderResponse{
		ID:        wo.ID,
		Title:     wo.Title,
		RateType:  string(wo.RateType),
		Status:    string(wo.Status),
		Notes:     wo.Notes,
		CreatedAt: wo.CreatedAt.Format(time.RFC3339),
		MonthKey:  wo.MonthKey(),
	}
	if wo.PayProcessedAt != nil {
		formatted := wo.PayProcessedAt.Format(time.RFC3339)
		resp.PayProcessedAt = &formatted
	}
	for _, c := range wo.Contributions {
		resp.Contributions = append(resp.Contributions, toContributionResponse(c))
	}
	for _, it := range wo.Items {
		resp.Items = append(resp.Items, toItemResponse(it))
	}
	return resp
}

func toContributionResponse(c workorder.WorkerContribution) workorder.ContributionResponse {
	return workorder.ContributionResponse{
		ID:           c.ID,
		WorkOrderID:  c.WorkOrderID,
		WorkerID:     c.WorkerID,
		WorkerName:   c.WorkerName,
		WorkAreaSize: c.WorkAreaSize,
		WorkDays:     c.WorkDays,
		Rate:         c.Rate,
	}
}

func toItemResponse(it workorder.OrderItem) workorder.ItemResponse {
	return workorder.ItemResponse{
		ID:          it.ID,
		WorkOrderID: it.WorkOrderID,
		Name:        it.Name,
		Quantity:    it.Quantity,
		Unit:        it.Unit,
	}
}

func toEventResponse(e workorder.WorkOrderEvent) workorder.EventResponse {
	return workorder.EventResponse{
		ID:          e.ID,
		WorkOrderID: e.WorkOrderID,
		Event:       string(e.Event),
		FromStatus:  string(e.FromStatus),
		ToStatus:    string(e.ToStatus),
		ActorID:     e.ActorID,
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
}
