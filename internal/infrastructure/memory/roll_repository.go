package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var _ repository.RollRepository = (*RollRepo)(nil)

// RollRepo rollos en memoria.
type RollRepo struct {
	h handle
}

func (r *RollRepo) Create(_ context.Context, roll *entity.Roll) error {
	return r.h.write("rolls.create", func(s *state) error {
		for _, existing := range s.rolls {
			if existing.CompanyID == roll.CompanyID && existing.RollNumber == roll.RollNumber {
				return &domain.ConflictError{Resource: "roll_number", Value: roll.RollNumber}
			}
		}
		s.rolls[roll.ID] = *roll
		return nil
	})
}

func (r *RollRepo) GetByID(_ context.Context, companyID, id string) (*entity.Roll, error) {
	var out *entity.Roll
	err := r.h.read(func(s *state) error {
		if roll, ok := s.rolls[id]; ok && roll.CompanyID == companyID {
			out = &roll
		}
		return nil
	})
	return out, err
}

func (r *RollRepo) ExistsRollNumber(_ context.Context, companyID, rollNumber string) (bool, error) {
	var found bool
	err := r.h.read(func(s *state) error {
		for _, roll := range s.rolls {
			if roll.CompanyID == companyID && roll.RollNumber == rollNumber {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *RollRepo) Deduct(_ context.Context, companyID, id string, amount decimal.Decimal) (*entity.Roll, error) {
	var out *entity.Roll
	err := r.h.write("rolls.deduct", func(s *state) error {
		roll, ok := s.rolls[id]
		if !ok || roll.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if amount.GreaterThan(roll.CurrentQuantity) {
			return &domain.InsufficientQuantityError{RollID: id, Requested: amount, Available: roll.CurrentQuantity}
		}
		roll.CurrentQuantity = roll.CurrentQuantity.Sub(amount)
		roll.Exhausted = !roll.CurrentQuantity.IsPositive()
		roll.UpdatedAt = time.Now()
		s.rolls[id] = roll
		out = &roll
		return nil
	})
	return out, err
}

func (r *RollRepo) ListAvailable(_ context.Context, companyID string, f repository.RollFilter) ([]entity.Roll, error) {
	return r.list(func(roll entity.Roll) bool {
		return roll.CompanyID == companyID && roll.IsAvailable() &&
			(f.ProductID == "" || roll.ProductID == f.ProductID) &&
			(f.Color == "" || roll.Color == f.Color) &&
			(f.WarehouseID == "" || roll.WarehouseID == f.WarehouseID)
	})
}

func (r *RollRepo) ListInStock(_ context.Context, companyID string) ([]entity.Roll, error) {
	return r.list(func(roll entity.Roll) bool {
		return roll.CompanyID == companyID && roll.CurrentQuantity.IsPositive()
	})
}

func (r *RollRepo) ListByBatch(_ context.Context, companyID, batchID string) ([]entity.Roll, error) {
	return r.list(func(roll entity.Roll) bool {
		return roll.CompanyID == companyID && roll.BatchID == batchID
	})
}

func (r *RollRepo) list(match func(entity.Roll) bool) ([]entity.Roll, error) {
	var out []entity.Roll
	err := r.h.read(func(s *state) error {
		for _, roll := range s.rolls {
			if match(roll) {
				out = append(out, roll)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].RollNumber < out[j].RollNumber })
	return out, err
}
