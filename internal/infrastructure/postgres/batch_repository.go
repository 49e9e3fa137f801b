package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var (
	_ repository.ReceiptRepository  = (*ReceiptRepo)(nil)
	_ repository.ShipmentRepository = (*ShipmentRepo)(nil)
	_ repository.SequenceRepository = (*SequenceRepo)(nil)
)

// ReceiptRepo lotes de recepción.
type ReceiptRepo struct {
	q Querier
}

// NewReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReceiptRepository(q Querier) *ReceiptRepo {
	return &ReceiptRepo{q: q}
}

func (r *ReceiptRepo) Create(ctx context.Context, b *entity.ReceiptBatch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO receipt_batches (id, company_id, purchase_order_id, arrival_date, note, total_quantity, roll_count, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		b.ID, b.CompanyID, b.PurchaseOrderID, b.ArrivalDate, nullable(b.Note),
		b.TotalQuantity, b.RollCount, nullable(b.CreatedBy), b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create receipt batch: %w", err)
	}
	return nil
}

func (r *ReceiptRepo) GetByID(ctx context.Context, companyID, id string) (*entity.ReceiptBatch, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var (
		b         entity.ReceiptBatch
		note      *string
		createdBy *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, purchase_order_id, arrival_date, note, total_quantity, roll_count, created_by, created_at
		FROM receipt_batches WHERE company_id = $1 AND id = $2`, companyID, id,
	).Scan(&b.ID, &b.CompanyID, &b.PurchaseOrderID, &b.ArrivalDate, &note,
		&b.TotalQuantity, &b.RollCount, &createdBy, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get receipt batch: %w", err)
	}
	b.Note = deref(note)
	b.CreatedBy = deref(createdBy)
	return &b, nil
}

// ShipmentRepo lotes de despacho e ítems.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// Create inserta el lote; uq_shipments_company_number protege el número.
func (r *ShipmentRepo) Create(ctx context.Context, b *entity.ShipmentBatch) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipment_batches (id, company_id, order_id, shipment_number, shipment_date, note, total_quantity, roll_count, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.CompanyID, b.OrderID, b.ShipmentNumber, b.ShipmentDate, nullable(b.Note),
		b.TotalQuantity, b.RollCount, nullable(b.CreatedBy), b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Resource: "shipment_number", Value: b.ShipmentNumber}
		}
		return fmt.Errorf("create shipment batch: %w", err)
	}
	return nil
}

// ExistsNumber indica si el número ya fue usado (historial importado o secuencia reiniciada).
func (r *ShipmentRepo) ExistsNumber(ctx context.Context, companyID, number string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM shipment_batches WHERE company_id = $1 AND shipment_number = $2)`,
		companyID, number,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists shipment number: %w", err)
	}
	return exists, nil
}

func (r *ShipmentRepo) AddItem(ctx context.Context, it *entity.ShipmentItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO shipment_items (id, shipment_id, order_line_id, roll_id, quantity)
		VALUES ($1, $2, $3, $4, $5)`,
		it.ID, it.ShipmentID, it.OrderLineID, it.RollID, it.Quantity,
	)
	if err != nil {
		return fmt.Errorf("create shipment item: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) GetByID(ctx context.Context, companyID, id string) (*entity.ShipmentBatch, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var (
		b         entity.ShipmentBatch
		note      *string
		createdBy *string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, company_id, order_id, shipment_number, shipment_date, note, total_quantity, roll_count, created_by, created_at
		FROM shipment_batches WHERE company_id = $1 AND id = $2`, companyID, id,
	).Scan(&b.ID, &b.CompanyID, &b.OrderID, &b.ShipmentNumber, &b.ShipmentDate, &note,
		&b.TotalQuantity, &b.RollCount, &createdBy, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shipment batch: %w", err)
	}
	b.Note = deref(note)
	b.CreatedBy = deref(createdBy)
	return &b, nil
}

func (r *ShipmentRepo) ListItems(ctx context.Context, shipmentID string) ([]entity.ShipmentItem, error) {
	if !isUUID(shipmentID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, shipment_id, order_line_id, roll_id, quantity
		FROM shipment_items WHERE shipment_id = $1
		ORDER BY order_line_id, id`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment items: %w", err)
	}
	defer rows.Close()
	var out []entity.ShipmentItem
	for rows.Next() {
		var it entity.ShipmentItem
		if err := rows.Scan(&it.ID, &it.ShipmentID, &it.OrderLineID, &it.RollID, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan shipment item: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// SequenceRepo contadores por empresa y clave en document_sequences.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa y devuelve el contador en una sola sentencia (el upsert bloquea la fila).
func (r *SequenceRepo) Next(ctx context.Context, companyID, key string) (int64, error) {
	var value int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO document_sequences (company_id, key, value)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, key)
		DO UPDATE SET value = document_sequences.value + 1
		RETURNING value`, companyID, key,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", key, err)
	}
	return value, nil
}
