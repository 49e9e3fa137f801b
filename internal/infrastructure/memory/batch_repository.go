package memory

import (
	"context"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var (
	_ repository.ReceiptRepository  = (*ReceiptRepo)(nil)
	_ repository.ShipmentRepository = (*ShipmentRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// ReceiptRepo lotes de recepción en memoria.
type ReceiptRepo struct {
	h handle
}

func (r *ReceiptRepo) Create(_ context.Context, b *entity.ReceiptBatch) error {
	return r.h.write("receipts.create", func(s *state) error {
		s.receipts[b.ID] = *b
		return nil
	})
}

func (r *ReceiptRepo) GetByID(_ context.Context, companyID, id string) (*entity.ReceiptBatch, error) {
	var out *entity.ReceiptBatch
	err := r.h.read(func(s *state) error {
		if b, ok := s.receipts[id]; ok && b.CompanyID == companyID {
			out = &b
		}
		return nil
	})
	return out, err
}

// ShipmentRepo lotes de despacho en memoria.
type ShipmentRepo struct {
	h handle
}

func (r *ShipmentRepo) Create(_ context.Context, b *entity.ShipmentBatch) error {
	return r.h.write("shipments.create", func(s *state) error {
		for _, existing := range s.shipments {
			if existing.CompanyID == b.CompanyID && existing.ShipmentNumber == b.ShipmentNumber {
				return &domain.ConflictError{Resource: "shipment_number", Value: b.ShipmentNumber}
			}
		}
		s.shipments[b.ID] = *b
		return nil
	})
}

func (r *ShipmentRepo) ExistsNumber(_ context.Context, companyID, number string) (bool, error) {
	var found bool
	err := r.h.read(func(s *state) error {
		for _, existing := range s.shipments {
			if existing.CompanyID == companyID && existing.ShipmentNumber == number {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *ShipmentRepo) AddItem(_ context.Context, item *entity.ShipmentItem) error {
	return r.h.write("shipments.add_item", func(s *state) error {
		s.items = append(s.items, *item)
		return nil
	})
}

func (r *ShipmentRepo) GetByID(_ context.Context, companyID, id string) (*entity.ShipmentBatch, error) {
	var out *entity.ShipmentBatch
	err := r.h.read(func(s *state) error {
		if b, ok := s.shipments[id]; ok && b.CompanyID == companyID {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) ListItems(_ context.Context, shipmentID string) ([]entity.ShipmentItem, error) {
	var out []entity.ShipmentItem
	err := r.h.read(func(s *state) error {
		for _, it := range s.items {
			if it.ShipmentID == shipmentID {
				out = append(out, it)
			}
		}
		return nil
	})
	return out, err
}

// SequenceRepo contadores por empresa y clave.
type SequenceRepo struct {
	h handle
}

func (r *SequenceRepo) Next(_ context.Context, companyID, k string) (int64, error) {
	var next int64
	err := r.h.write("sequences.next", func(s *state) error {
		id := key(companyID, k)
		s.sequences[id]++
		next = s.sequences[id]
		return nil
	})
	return next, err
}
