package deduction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/agrilabor/fieldpay-backend/internal/domain/deduction"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/database"
	"github.com/agrilabor/fieldpay-backend/internal/pkg/validator"
	"github.com/agrilabor/fieldpay-backend/internal/repository/postgresql"
)

type DeductionServiceImpl struct {
	db   *database.DB
	repo deduction.DeductionRepository
}

func NewDeductionService(db *database.DB, repo deduction.DeductionRepository) deduction.DeductionService {
	return &DeductionServiceImpl{db: db, repo: repo}
}

// Create implements deduction.DeductionService. With Supersede set, an
// existing effective row for the same code has its window closed at the
// new row's effective-from instant, so at most one row per code is
// effective at any time.
func (s *DeductionServiceImpl) Create(ctx context.Context, req deduction.CreateDeductionTypeRequest) (deduction.DeductionTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.DeductionTypeResponse{}, err
	}

	effectiveFrom := time.Now().UTC()
	if req.EffectiveFrom != nil {
		if parsed, ok := validator.IsValidDate(*req.EffectiveFrom); ok {
			effectiveFrom = parsed
		}
	}

	var created deduction.DeductionType
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		existing, err := s.repo.GetEffectiveByCode(txCtx, req.Code, effectiveFrom)
		switch {
		case err == nil:
			if !req.Supersede {
				return deduction.ErrDeductionCodeExists
			}
			if err := s.repo.CloseEffectiveWindow(txCtx, existing.ID, effectiveFrom); err != nil {
				return err
			}
		case !errors.Is(err, deduction.ErrDeductionTypeNotFound):
			return err
		}

		t := deduction.DeductionType{
			Code:          req.Code,
			Mode:          deduction.Mode(req.Mode),
			IsActive:      true,
			EffectiveFrom: effectiveFrom,
		}
		if req.WorkerAmount != nil {
			t.WorkerAmount = *req.WorkerAmount
		}
		if req.EmployerAmount != nil {
			t.EmployerAmount = *req.EmployerAmount
		}
		for _, b := range req.Brackets {
			t.WageRanges = append(t.WageRanges, deduction.WageRange{
				MinWage:        b.MinWage,
				MaxWage:        b.MaxWage,
				WorkerAmount:   b.WorkerAmount,
				EmployerAmount: b.EmployerAmount,
			})
		}

		created, err = s.repo.Create(txCtx, t)
		return err
	})
	if err != nil {
		return deduction.DeductionTypeResponse{}, err
	}

	slog.Info("Created deduction type", "code", created.Code, "mode", string(created.Mode), "supersede", req.Supersede)
	return toDeductionTypeResponse(created), nil
}

// Get implements deduction.DeductionService.
func (s *DeductionServiceImpl) Get(ctx context.Context, id string) (deduction.DeductionTypeResponse, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return deduction.DeductionTypeResponse{}, err
	}
	return toDeductionTypeResponse(t), nil
}

// ListEffective implements deduction.DeductionService. This is the set
// payroll processing reads: active types whose window contains now.
func (s *DeductionServiceImpl) ListEffective(ctx context.Context) ([]deduction.DeductionTypeResponse, error) {
	types, err := s.repo.ListEffective(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return toDeductionTypeResponses(types), nil
}

// List implements deduction.DeductionService.
func (s *DeductionServiceImpl) List(ctx context.Context) ([]deduction.DeductionTypeResponse, error) {
	types, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toDeductionTypeResponses(types), nil
}

// Update implements deduction.DeductionService.
func (s *DeductionServiceImpl) Update(ctx context.Context, req deduction.UpdateDeductionTypeRequest) (deduction.DeductionTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.DeductionTypeResponse{}, err
	}

	if err := s.repo.Update(ctx, req); err != nil {
		return deduction.DeductionTypeResponse{}, err
	}

	t, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return deduction.DeductionTypeResponse{}, err
	}

	slog.Info("Updated deduction type", "deduction_type_id", t.ID, "code", t.Code)
	return toDeductionTypeResponse(t), nil
}

// Deactivate implements deduction.DeductionService.
func (s *DeductionServiceImpl) Deactivate(ctx context.Context, id string) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	slog.Info("Deactivated deduction type", "deduction_type_id", id)
	return nil
}

// ReplaceBrackets implements deduction.DeductionService. The whole
// bracket table is swapped in one transaction; payroll runs only ever
// see the old set or the new set.
func (s *DeductionServiceImpl) ReplaceBrackets(ctx context.Context, req deduction.ReplaceBracketsRequest) (deduction.DeductionTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return deduction.DeductionTypeResponse{}, err
	}

	var updated deduction.DeductionType
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		t, err := s.repo.GetByID(txCtx, req.DeductionTypeID)
		if err != nil {
			return err
		}
		if t.Mode != deduction.ModeWageBracket {
			return deduction.ErrNotBracketMode
		}

		ranges := make([]deduction.WageRange, 0, len(req.Brackets))
		for _, b := range req.Brackets {
			ranges = append(ranges, deduction.WageRange{
				MinWage:        b.MinWage,
				MaxWage:        b.MaxWage,
				WorkerAmount:   b.WorkerAmount,
				EmployerAmount: b.EmployerAmount,
			})
		}
		if err := s.repo.ReplaceWageRanges(txCtx, t.ID, ranges); err != nil {
			return err
		}

		updated, err = s.repo.GetByID(txCtx, t.ID)
		return err
	})
	if err != nil {
		return deduction.DeductionTypeResponse{}, err
	}

	slog.Info("Replaced wage brackets", "deduction_type_id", updated.ID, "code", updated.Code, "bracket_count", len(updated.WageRanges))
	return toDeductionTypeResponse(updated), nil
}

func toDeductionTypeResponse(t deduction.DeductionType) deduction.DeductionTypeResponse {
	resp := deduction.DeductionTypeResponse{
		ID:             t.ID,
		Code:           t.Code,
		Mode:           string(t.Mode),
		WorkerAmount:   t.WorkerAmount,
		EmployerAmount: t.EmployerAmount,
		IsActive:       t.IsActive,
		Effective:      t.EffectiveAt(time.Now().UTC()),
		EffectiveFrom:  t.EffectiveFrom.Format(time.RFC3339),
	}
	if t.EffectiveUntil != nil {
		formatted := t.EffectiveUntil.Format(time.RFC3339)
		resp.EffectiveUntil = &formatted
	}
	for _, wr := range t.WageRanges {
		resp.WageRanges = append(resp.WageRanges, deduction.WageRangeResponse{
			ID:             wr.ID,
			MinWage:        wr.MinWage,
			MaxWage:        wr.MaxWage,
			WorkerAmount:   wr.WorkerAmount,
			EmployerAmount: wr.EmployerAmount,
		})
	}
	return resp
}

func toDeductionTypeResponses(types []deduction.DeductionType) []deduction.DeductionTypeResponse {
	resp := make([]deduction.DeductionTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, toDeductionTypeResponse(t))
	}
	return resp
}
