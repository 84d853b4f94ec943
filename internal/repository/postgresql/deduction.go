package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/database"
)

type deductionRepositoryImpl struct {
	db *database.DB
}

func NewDeductionRepository(db *database.DB) deduction.DeductionRepository {
	return &deductionRepositoryImpl{db: db}
}

// Create implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) Create(ctx context.Context, t deduction.DeductionType) (deduction.DeductionType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deduction_types (
			id, code, mode, worker_amount, employer_amount,
			is_active, effective_from, effective_until,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		t.Code, t.Mode, t.WorkerAmount, t.EmployerAmount,
		t.IsActive, t.EffectiveFrom, t.EffectiveUntil,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if IsUniqueViolation(err, "uk_deduction_types_code_effective") {
			return deduction.DeductionType{}, deduction.ErrDeductionCodeExists
		}
		return deduction.DeductionType{}, fmt.Errorf("failed to create deduction type: %w", err)
	}

	for i := range t.WageRanges {
		t.WageRanges[i].DeductionTypeID = t.ID
		created, err := r.insertWageRange(ctx, t.WageRanges[i])
		if err != nil {
			return deduction.DeductionType{}, err
		}
		t.WageRanges[i] = created
	}

	return t, nil
}

func (r *deductionRepositoryImpl) insertWageRange(ctx context.Context, wr deduction.WageRange) (deduction.WageRange, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO deduction_wage_ranges (
			id, deduction_type_id, min_wage, max_wage, worker_amount, employer_amount, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		wr.DeductionTypeID, wr.MinWage, wr.MaxWage, wr.WorkerAmount, wr.EmployerAmount,
	).Scan(&wr.ID, &wr.CreatedAt)
	if err != nil {
		return deduction.WageRange{}, fmt.Errorf("failed to insert wage range: %w", err)
	}

	return wr, nil
}

// GetByID implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) GetByID(ctx context.Context, id string) (deduction.DeductionType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, mode, worker_amount, employer_amount,
			   is_active, effective_from, effective_until, created_at, updated_at
		FROM deduction_types
		WHERE id = $1
	`

	var t deduction.DeductionType
	err := q.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Code,
		&t.Mode,
		&t.WorkerAmount,
		&t.EmployerAmount,
		&t.IsActive,
		&t.EffectiveFrom,
		&t.EffectiveUntil,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return deduction.DeductionType{}, deduction.ErrDeductionTypeNotFound
		}
		return deduction.DeductionType{}, fmt.Errorf("failed to get deduction type: %w", err)
	}

	t.WageRanges, err = r.listWageRanges(ctx, []string{t.ID})
	if err != nil {
		return deduction.DeductionType{}, err
	}

	return t, nil
}

// GetEffectiveByCode implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) GetEffectiveByCode(ctx context.Context, code string, at time.Time) (deduction.DeductionType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, mode, worker_amount, employer_amount,
			   is_active, effective_from, effective_until, created_at, updated_at
		FROM deduction_types
		WHERE code = $1
		  AND is_active = TRUE
		  AND effective_from <= $2
		  AND (effective_until IS NULL OR effective_until > $2)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	var t deduction.DeductionType
	err := q.QueryRow(ctx, query, code, at).Scan(
		&t.ID,
		&t.Code,
		&t.Mode,
		&t.WorkerAmount,
		&t.EmployerAmount,
		&t.IsActive,
		&t.EffectiveFrom,
		&t.EffectiveUntil,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return deduction.DeductionType{}, deduction.ErrDeductionTypeNotFound
		}
		return deduction.DeductionType{}, fmt.Errorf("failed to get effective deduction type: %w", err)
	}

	t.WageRanges, err = r.listWageRanges(ctx, []string{t.ID})
	if err != nil {
		return deduction.DeductionType{}, err
	}

	return t, nil
}

// ListEffective implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) ListEffective(ctx context.Context, at time.Time) ([]deduction.DeductionType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, mode, worker_amount, employer_amount,
			   is_active, effective_from, effective_until, created_at, updated_at
		FROM deduction_types
		WHERE is_active = TRUE
		  AND effective_from <= $1
		  AND (effective_until IS NULL OR effective_until > $1)
		ORDER BY created_at ASC
	`

	rows, err := q.Query(ctx, query, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list effective deduction types: %w", err)
	}
	defer rows.Close()

	types, err := scanDeductionTypes(rows)
	if err != nil {
		return nil, err
	}

	return r.attachWageRanges(ctx, types)
}

// List implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) List(ctx context.Context) ([]deduction.DeductionType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, code, mode, worker_amount, employer_amount,
			   is_active, effective_from, effective_until, created_at, updated_at
		FROM deduction_types
		ORDER BY code ASC, effective_from ASC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list deduction types: %w", err)
	}
	defer rows.Close()

	types, err := scanDeductionTypes(rows)
	if err != nil {
		return nil, err
	}

	return r.attachWageRanges(ctx, types)
}

func scanDeductionTypes(rows pgx.Rows) ([]deduction.DeductionType, error) {
	var types []deduction.DeductionType
	for rows.Next() {
		var t deduction.DeductionType
		err := rows.Scan(
			&t.ID,
			&t.Code,
			&t.Mode,
			&t.WorkerAmount,
			&t.EmployerAmount,
			&t.IsActive,
			&t.EffectiveFrom,
			&t.EffectiveUntil,
			&t.CreatedAt,
			&t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deduction type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *deductionRepositoryImpl) attachWageRanges(ctx context.Context, types []deduction.DeductionType) ([]deduction.DeductionType, error) {
	if len(types) == 0 {
		return types, nil
	}

	ids := make([]string, len(types))
	index := make(map[string]int, len(types))
	for i, t := range types {
		ids[i] = t.ID
		index[t.ID] = i
	}

	ranges, err := r.listWageRanges(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, wr := range ranges {
		i := index[wr.DeductionTypeID]
		types[i].WageRanges = append(types[i].WageRanges, wr)
	}

	return types, nil
}

func (r *deductionRepositoryImpl) listWageRanges(ctx context.Context, deductionTypeIDs []string) ([]deduction.WageRange, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, deduction_type_id, min_wage, max_wage, worker_amount, employer_amount, created_at
		FROM deduction_wage_ranges
		WHERE deduction_type_id = ANY($1)
		ORDER BY min_wage ASC
	`

	rows, err := q.Query(ctx, query, deductionTypeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list wage ranges: %w", err)
	}
	defer rows.Close()

	var ranges []deduction.WageRange
	for rows.Next() {
		var wr deduction.WageRange
		err := rows.Scan(
			&wr.ID,
			&wr.DeductionTypeID,
			&wr.MinWage,
			&wr.MaxWage,
			&wr.WorkerAmount,
			&wr.EmployerAmount,
			&wr.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wage range: %w", err)
		}
		ranges = append(ranges, wr)
	}

	return ranges, rows.Err()
}

// Update implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) Update(ctx context.Context, req deduction.UpdateDeductionTypeRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID}
	argIdx := 2

	if req.WorkerAmount != nil {
		setParts = append(setParts, fmt.Sprintf("worker_amount = $%d", argIdx))
		args = append(args, *req.WorkerAmount)
		argIdx++
	}
	if req.EmployerAmount != nil {
		setParts = append(setParts, fmt.Sprintf("employer_amount = $%d", argIdx))
		args = append(args, *req.EmployerAmount)
		argIdx++
	}
	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
		argIdx++
	}
	if req.EffectiveUntil != nil {
		setParts = append(setParts, fmt.Sprintf("effective_until = $%d", argIdx))
		args = append(args, *req.EffectiveUntil)
		argIdx++
	}

	query := fmt.Sprintf(`UPDATE deduction_types SET %s WHERE id = $1`, strings.Join(setParts, ", "))

	commandTag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update deduction type: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return deduction.ErrDeductionTypeNotFound
	}
	return nil
}

// CloseEffectiveWindow implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) CloseEffectiveWindow(ctx context.Context, id string, until time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE deduction_types
		SET effective_until = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id, until)
	if err != nil {
		return fmt.Errorf("failed to close effective window: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return deduction.ErrDeductionTypeNotFound
	}
	return nil
}

// Deactivate implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) Deactivate(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE deduction_types
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate deduction type: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return deduction.ErrDeductionTypeNotFound
	}
	return nil
}

// ReplaceWageRanges implements deduction.DeductionRepository.
func (r *deductionRepositoryImpl) ReplaceWageRanges(ctx context.Context, deductionTypeID string, ranges []deduction.WageRange) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM deduction_wage_ranges WHERE deduction_type_id = $1`, deductionTypeID); err != nil {
		return fmt.Errorf("failed to clear wage ranges: %w", err)
	}

	for _, wr := range ranges {
		wr.DeductionTypeID = deductionTypeID
		if _, err := r.insertWageRange(ctx, wr); err != nil {
			return err
		}
	}

	return nil
}
