package repository

import (
	"context"

	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// ThresholdRepository umbrales de alerta por producto.
type ThresholdRepository interface {
	Upsert(ctx context.Context, t *entity.StockThreshold) error
	// Delete es idempotente: borrar un umbral inexistente no es error.
	Delete(ctx context.Context, companyID, productID string) error
	List(ctx context.Context, companyID string) ([]entity.StockThreshold, error)
}
