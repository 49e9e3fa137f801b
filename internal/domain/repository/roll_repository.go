package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// RollFilter filtros opcionales para listar rollos disponibles.
type RollFilter struct {
	ProductID   string
	Color       string
	WarehouseID string
}

// RollRepository puerto de persistencia del libro de rollos. Todas las consultas van por empresa.
type RollRepository interface {
	// Create inserta el rollo. Un número de rollo repetido devuelve *domain.ConflictError.
	Create(ctx context.Context, roll *entity.Roll) error
	// GetByID devuelve (nil, nil) si no existe en la empresa.
	GetByID(ctx context.Context, companyID, id string) (*entity.Roll, error)
	ExistsRollNumber(ctx context.Context, companyID, rollNumber string) (bool, error)
	// Deduct descuenta amount de forma atómica solo si alcanza (current >= amount).
	// Si no alcanza devuelve *domain.InsufficientQuantityError y el rollo queda intacto.
	Deduct(ctx context.Context, companyID, id string, amount decimal.Decimal) (*entity.Roll, error)
	ListAvailable(ctx context.Context, companyID string, f RollFilter) ([]entity.Roll, error)
	// ListInStock rollos con cantidad actual positiva (base de la agregación).
	ListInStock(ctx context.Context, companyID string) ([]entity.Roll, error)
	ListByBatch(ctx context.Context, companyID, batchID string) ([]entity.Roll, error)
}
