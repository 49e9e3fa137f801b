package repository

import (
	"context"

	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// ReceiptRepository lotes de recepción.
type ReceiptRepository interface {
	Create(ctx context.Context, batch *entity.ReceiptBatch) error
	GetByID(ctx context.Context, companyID, id string) (*entity.ReceiptBatch, error)
}

// ShipmentRepository lotes de despacho y sus ítems.
type ShipmentRepository interface {
	// Create inserta el lote. Un número de despacho repetido devuelve *domain.ConflictError.
	Create(ctx context.Context, batch *entity.ShipmentBatch) error
	ExistsNumber(ctx context.Context, companyID, number string) (bool, error)
	AddItem(ctx context.Context, item *entity.ShipmentItem) error
	GetByID(ctx context.Context, companyID, id string) (*entity.ShipmentBatch, error)
	ListItems(ctx context.Context, shipmentID string) ([]entity.ShipmentItem, error)
}

// SequenceRepository contadores atómicos por empresa y clave (ej. SH-20260116).
type SequenceRepository interface {
	Next(ctx context.Context, companyID, key string) (int64, error)
}
