package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var (
	_ repository.PurchaseLineRepository = (*PurchaseLineRepo)(nil)
	_ repository.OrderLineRepository    = (*OrderLineRepo)(nil)
)

// PurchaseLineRepo líneas de compra en memoria. El bloqueo de fila lo da la serialización de Run.
type PurchaseLineRepo struct {
	h handle
}

func (r *PurchaseLineRepo) GetByID(_ context.Context, companyID, id string) (*entity.PurchaseOrderLine, error) {
	var out *entity.PurchaseOrderLine
	err := r.h.read(func(s *state) error {
		if l, ok := s.purchaseLines[id]; ok && l.CompanyID == companyID {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *PurchaseLineRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrderLine, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *PurchaseLineRepo) UpdateProgress(_ context.Context, line *entity.PurchaseOrderLine) error {
	return r.h.write("purchase_lines.update", func(s *state) error {
		cur, ok := s.purchaseLines[line.ID]
		if !ok || cur.CompanyID != line.CompanyID {
			return domain.ErrNotFound
		}
		cur.ReceivedQuantity = line.ReceivedQuantity
		cur.Status = line.Status
		cur.UpdatedAt = line.UpdatedAt
		s.purchaseLines[line.ID] = cur
		return nil
	})
}

func (r *PurchaseLineRepo) ListOpen(_ context.Context, companyID string) ([]entity.PurchaseOrderLine, error) {
	var out []entity.PurchaseOrderLine
	err := r.h.read(func(s *state) error {
		for _, l := range s.purchaseLines {
			if l.CompanyID == companyID && l.Status != entity.PurchaseLineCompleted {
				out = append(out, l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

// OrderLineRepo líneas de pedido en memoria.
type OrderLineRepo struct {
	h handle
}

func (r *OrderLineRepo) GetByID(_ context.Context, companyID, id string) (*entity.OrderLine, error) {
	var out *entity.OrderLine
	err := r.h.read(func(s *state) error {
		if l, ok := s.orderLines[id]; ok && l.CompanyID == companyID {
			out = &l
		}
		return nil
	})
	return out, err
}

func (r *OrderLineRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.OrderLine, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *OrderLineRepo) UpdateProgress(_ context.Context, line *entity.OrderLine) error {
	return r.h.write("order_lines.update", func(s *state) error {
		cur, ok := s.orderLines[line.ID]
		if !ok || cur.CompanyID != line.CompanyID {
			return domain.ErrNotFound
		}
		cur.ShippedQuantity = line.ShippedQuantity
		cur.Status = line.Status
		cur.UpdatedAt = line.UpdatedAt
		s.orderLines[line.ID] = cur
		return nil
	})
}

func (r *OrderLineRepo) ListOpen(_ context.Context, companyID string) ([]entity.OrderLine, error) {
	var out []entity.OrderLine
	err := r.h.read(func(s *state) error {
		for _, l := range s.orderLines {
			if l.CompanyID == companyID && l.Status != entity.OrderLineShipped {
				out = append(out, l)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
