package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

// RollLedger crea y descuenta rollos sobre los repositorios que recibe (normalmente atados a una tx).
type RollLedger struct {
	numbers inv.RollNumberGenerator
	now     func() time.Time
}

// NewRollLedger construye el libro con el generador de números indicado.
func NewRollLedger(numbers inv.RollNumberGenerator) *RollLedger {
	return &RollLedger{numbers: numbers, now: time.Now}
}

// NewRoll datos para crear un rollo.
type NewRoll struct {
	CompanyID           string
	BatchID             string
	PurchaseOrderLineID string
	ProductID           string
	Color               string
	Quantity            decimal.Decimal
	Quality             entity.Quality
	WarehouseID         string
	Shelf               string
}

// ValidateNewRoll reglas de entrada de un rollo: cantidad positiva, bodega y grado válido.
func ValidateNewRoll(quantity decimal.Decimal, quality entity.Quality, warehouseID string) *domain.ValidationError {
	if !quantity.IsPositive() {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	if warehouseID == "" {
		return domain.Invalid("warehouse_id", "requerido")
	}
	if !quality.IsValid() {
		return domain.Invalid("quality", "debe ser A, B, C, D o defective")
	}
	return nil
}

// CreateRoll asigna número, persiste el rollo y devuelve el evento roll.created.
func (l *RollLedger) CreateRoll(ctx context.Context, rolls repository.RollRepository, in NewRoll) (*entity.Roll, entity.LedgerEvent, error) {
	if verr := ValidateNewRoll(in.Quantity, in.Quality, in.WarehouseID); verr != nil {
		verr.LineID = in.PurchaseOrderLineID
		return nil, entity.LedgerEvent{}, verr
	}

	number, err := l.allocateNumber(ctx, rolls, in.CompanyID)
	if err != nil {
		return nil, entity.LedgerEvent{}, err
	}

	now := l.now()
	roll := &entity.Roll{
		ID:                  uuid.New().String(),
		CompanyID:           in.CompanyID,
		BatchID:             in.BatchID,
		PurchaseOrderLineID: in.PurchaseOrderLineID,
		RollNumber:          number,
		ProductID:           in.ProductID,
		Color:               in.Color,
		Quality:             in.Quality,
		OriginalQuantity:    in.Quantity,
		CurrentQuantity:     in.Quantity,
		WarehouseID:         in.WarehouseID,
		Shelf:               in.Shelf,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := rolls.Create(ctx, roll); err != nil {
		return nil, entity.LedgerEvent{}, err
	}
	return roll, l.event(roll, entity.EventRollCreated, in.BatchID, roll.OriginalQuantity), nil
}

// allocateNumber: candidato normal; si existe, uno de rango amplio; si también existe, conflicto.
func (l *RollLedger) allocateNumber(ctx context.Context, rolls repository.RollRepository, companyID string) (string, error) {
	candidate := l.numbers.Next(false)
	exists, err := rolls.ExistsRollNumber(ctx, companyID, candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return candidate, nil
	}
	candidate = l.numbers.Next(true)
	exists, err = rolls.ExistsRollNumber(ctx, companyID, candidate)
	if err != nil {
		return "", err
	}
	if exists {
		return "", &domain.ConflictError{Resource: "roll_number", Value: candidate}
	}
	return candidate, nil
}

// DeductRoll descuenta amount del rollo. El chequeo current >= amount lo hace el repositorio de forma atómica.
func (l *RollLedger) DeductRoll(ctx context.Context, rolls repository.RollRepository, companyID, rollID, reference string, amount decimal.Decimal) (*entity.Roll, entity.LedgerEvent, error) {
	if !amount.IsPositive() {
		return nil, entity.LedgerEvent{}, domain.Invalid("quantity", "debe ser mayor que cero")
	}
	roll, err := rolls.Deduct(ctx, companyID, rollID, amount)
	if err != nil {
		return nil, entity.LedgerEvent{}, err
	}
	return roll, l.event(roll, entity.EventRollDeducted, reference, amount), nil
}

func (l *RollLedger) event(r *entity.Roll, kind, reference string, qty decimal.Decimal) entity.LedgerEvent {
	return entity.LedgerEvent{
		ID:          uuid.New().String(),
		CompanyID:   r.CompanyID,
		Kind:        kind,
		ProductID:   r.ProductID,
		RollID:      r.ID,
		ReferenceID: reference,
		Quantity:    qty,
		OccurredAt:  l.now(),
	}
}

// withConflictRetry reintenta fn una sola vez si falla por colisión de identificador.
func withConflictRetry(fn func() error) error {
	err := fn()
	if err != nil && errors.Is(err, domain.ErrConflict) {
		err = fn()
	}
	return err
}
