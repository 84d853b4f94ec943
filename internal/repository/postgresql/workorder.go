package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrilabor/fieldpay-backend/internal/domain/workorder"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/database"
)

type workOrderRepositoryImpl struct {
	db *database.DB
}

func NewWorkOrderRepository(db *database.DB) workorder.WorkOrderRepository {
	return &workOrderRepositoryImpl{db: db}
}

// Create implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) Create(ctx context.Context, wo workorder.WorkOrder) (workorder.WorkOrder, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_orders (
			id, title, rate_type, status, notes,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		wo.Title, wo.RateType, wo.Status, wo.Notes,
	).Scan(&wo.ID, &wo.CreatedAt, &wo.UpdatedAt)
	if err != nil {
		return workorder.WorkOrder{}, fmt.Errorf("failed to create work order: %w", err)
	}

	return wo, nil
}

// GetByID implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) GetByID(ctx context.Context, id string) (workorder.WorkOrder, error) {
	return r.getByID(ctx, id, false)
}

// GetByIDForUpdate implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (workorder.WorkOrder, error) {
	return r.getByID(ctx, id, true)
}

func (r *workOrderRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (workorder.WorkOrder, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, title, rate_type, status, notes, pay_processed_at, created_at, updated_at
		FROM work_orders
		WHERE id = $1
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var wo workorder.WorkOrder
	err := q.QueryRow(ctx, query, id).Scan(
		&wo.ID,
		&wo.Title,
		&wo.RateType,
		&wo.Status,
		&wo.Notes,
		&wo.PayProcessedAt,
		&wo.CreatedAt,
		&wo.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return workorder.WorkOrder{}, workorder.ErrWorkOrderNotFound
		}
		return workorder.WorkOrder{}, fmt.Errorf("failed to get work order: %w", err)
	}

	wo.Contributions, err = r.listContributions(ctx, wo.ID)
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	wo.Items, err = r.listItems(ctx, wo.ID)
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	return wo, nil
}

func (r *workOrderRepositoryImpl) listContributions(ctx context.Context, workOrderID string) ([]workorder.WorkerContribution, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT wc.id, wc.work_order_id, wc.worker_id, wc.work_area_size, wc.work_days, wc.rate, wc.created_at,
			   w.full_name
		FROM worker_contributions wc
		LEFT JOIN workers w ON wc.worker_id = w.id
		WHERE wc.work_order_id = $1
		ORDER BY wc.created_at ASC
	`

	rows, err := q.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions: %w", err)
	}
	defer rows.Close()

	var contributions []workorder.WorkerContribution
	for rows.Next() {
		var c workorder.WorkerContribution
		err := rows.Scan(
			&c.ID,
			&c.WorkOrderID,
			&c.WorkerID,
			&c.WorkAreaSize,
			&c.WorkDays,
			&c.Rate,
			&c.CreatedAt,
			&c.WorkerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}

	return contributions, rows.Err()
}

func (r *workOrderRepositoryImpl) listItems(ctx context.Context, workOrderID string) ([]workorder.OrderItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, work_order_id, name, quantity, unit, created_at
		FROM order_items
		WHERE work_order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	var items []workorder.OrderItem
	for rows.Next() {
		var it workorder.OrderItem
		err := rows.Scan(&it.ID, &it.WorkOrderID, &it.Name, &it.Quantity, &it.Unit, &it.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, it)
	}

	return items, rows.Err()
}

// List implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) List(ctx context.Context, filter workorder.WorkOrderFilter) ([]workorder.WorkOrder, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.Month != nil && *filter.Month != "" {
		start, err := time.Parse("2006-01", *filter.Month)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid month filter: %w", err)
		}
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d AND created_at < $%d", argIdx, argIdx+1))
		args = append(args, start, start.AddDate(0, 1, 0))
		argIdx += 2
	}

	where := strings.Join(conditions, " AND ")

	countQuery := `SELECT COUNT(*) FROM work_orders WHERE ` + where
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count work orders: %w", err)
	}

	sortBy := "created_at"
	switch filter.SortBy {
	case "title", "status", "updated_at", "created_at":
		sortBy = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT id, title, rate_type, status, notes, pay_processed_at, created_at, updated_at
		FROM work_orders
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, where, sortBy, sortOrder, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	var orders []workorder.WorkOrder
	for rows.Next() {
		var wo workorder.WorkOrder
		err := rows.Scan(
			&wo.ID,
			&wo.Title,
			&wo.RateType,
			&wo.Status,
			&wo.Notes,
			&wo.PayProcessedAt,
			&wo.CreatedAt,
			&wo.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan work order: %w", err)
		}
		orders = append(orders, wo)
	}

	return orders, total, rows.Err()
}

// UpdateStatus implements workorder.WorkOrderRepository. The update is
// guarded on the expected current status so concurrent transitions lose
// cleanly instead of overwriting each other.
func (r *workOrderRepositoryImpl) UpdateStatus(ctx context.Context, id string, from, to workorder.Status) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_orders
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	commandTag, err := q.Exec(ctx, query, id, from, to)
	if err != nil {
		return fmt.Errorf("failed to update work order status: %w", err)
	}
	if commandTag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM work_orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check work order existence: %w", err)
	}
	if !exists {
		return workorder.ErrWorkOrderNotFound
	}
	return workorder.ErrStaleStatus
}

// MarkPayProcessed implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) MarkPayProcessed(ctx context.Context, id string, processedAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_orders
		SET pay_processed_at = $2, updated_at = NOW()
		WHERE id = $1 AND pay_processed_at IS NULL
	`

	commandTag, err := q.Exec(ctx, query, id, processedAt)
	if err != nil {
		return fmt.Errorf("failed to mark work order as processed: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return fmt.Errorf("work order %s is missing or already stamped", id)
	}
	return nil
}

// AddContribution implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) AddContribution(ctx context.Context, c workorder.WorkerContribution) (workorder.WorkerContribution, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO worker_contributions (
			id, work_order_id, worker_id, work_area_size, work_days, rate, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		c.WorkOrderID, c.WorkerID, c.WorkAreaSize, c.WorkDays, c.Rate,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err, "uk_worker_contributions_order_worker") {
			return workorder.WorkerContribution{}, workorder.ErrWorkerAlreadyAssigned
		}
		return workorder.WorkerContribution{}, fmt.Errorf("failed to add contribution: %w", err)
	}

	return c, nil
}

// RemoveContribution implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) RemoveContribution(ctx context.Context, workOrderID, contributionID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM worker_contributions
		WHERE id = $1 AND work_order_id = $2
	`

	commandTag, err := q.Exec(ctx, query, contributionID, workOrderID)
	if err != nil {
		return fmt.Errorf("failed to remove contribution: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return workorder.ErrContributionNotFound
	}
	return nil
}

// AddItem implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) AddItem(ctx context.Context, it workorder.OrderItem) (workorder.OrderItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO order_items (
			id, work_order_id, name, quantity, unit, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		it.WorkOrderID, it.Name, it.Quantity, it.Unit,
	).Scan(&it.ID, &it.CreatedAt)
	if err != nil {
		return workorder.OrderItem{}, fmt.Errorf("failed to add order item: %w", err)
	}

	return it, nil
}

// RemoveItem implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) RemoveItem(ctx context.Context, workOrderID, itemID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM order_items
		WHERE id = $1 AND work_order_id = $2
	`

	commandTag, err := q.Exec(ctx, query, itemID, workOrderID)
	if err != nil {
		return fmt.Errorf("failed to remove order item: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return workorder.ErrItemNotFound
	}
	return nil
}

// AppendEvent implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) AppendEvent(ctx context.Context, e workorder.WorkOrderEvent) (workorder.WorkOrderEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_order_events (
			id, work_order_id, event, from_status, to_status, actor_id, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		e.WorkOrderID, e.Event, e.FromStatus, e.ToStatus, e.ActorID,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return workorder.WorkOrderEvent{}, fmt.Errorf("failed to append work order event: %w", err)
	}

	return e, nil
}

// ListEvents implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) ListEvents(ctx context.Context, workOrderID string) ([]workorder.WorkOrderEvent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, work_order_id, event, from_status, to_status, actor_id, created_at
		FROM work_order_events
		WHERE work_order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work order events: %w", err)
	}
	defer rows.Close()

	var events []workorder.WorkOrderEvent
	for rows.Next() {
		var e workorder.WorkOrderEvent
		err := rows.Scan(&e.ID, &e.WorkOrderID, &e.Event, &e.FromStatus, &e.ToStatus, &e.ActorID, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
