package repository

import (
	"context"

	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// PurchaseLineRepository líneas de órdenes de compra. Solo se actualizan los contadores.
type PurchaseLineRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseOrderLine, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrderLine, error)
	// UpdateProgress persiste ReceivedQuantity y Status.
	UpdateProgress(ctx context.Context, line *entity.PurchaseOrderLine) error
	ListOpen(ctx context.Context, companyID string) ([]entity.PurchaseOrderLine, error)
}

// OrderLineRepository líneas de pedidos de cliente.
type OrderLineRepository interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.OrderLine, error)
	GetForUpdate(ctx context.Context, companyID, id string) (*entity.OrderLine, error)
	// UpdateProgress persiste ShippedQuantity y Status.
	UpdateProgress(ctx context.Context, line *entity.OrderLine) error
	ListOpen(ctx context.Context, companyID string) ([]entity.OrderLine, error)
}
