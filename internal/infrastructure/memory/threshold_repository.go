package memory

import (
	"context"

	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var _ repository.ThresholdRepository = (*ThresholdRepo)(nil)

// ThresholdRepo umbrales en memoria.
type ThresholdRepo struct {
	h handle
}

func (r *ThresholdRepo) Upsert(_ context.Context, t *entity.StockThreshold) error {
	return r.h.write("thresholds.upsert", func(s *state) error {
		s.thresholds[key(t.CompanyID, t.ProductID)] = *t
		return nil
	})
}

func (r *ThresholdRepo) Delete(_ context.Context, companyID, productID string) error {
	return r.h.write("thresholds.delete", func(s *state) error {
		delete(s.thresholds, key(companyID, productID))
		return nil
	})
}

func (r *ThresholdRepo) List(_ context.Context, companyID string) ([]entity.StockThreshold, error) {
	var out []entity.StockThreshold
	err := r.h.read(func(s *state) error {
		for _, t := range s.thresholds {
			if t.CompanyID == companyID {
				out = append(out, t)
			}
		}
		return nil
	})
	return out, err
}
