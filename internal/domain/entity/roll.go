package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quality grado de calidad asignado al rollo en la recepción (inmutable).
type Quality string

const (
	QualityA         Quality = "A"
	QualityB         Quality = "B"
	QualityC         Quality = "C"
	QualityD         Quality = "D"
	QualityDefective Quality = "defective"
)

// Qualities todos los grados, en el orden en que se reportan.
var Qualities = []Quality{QualityA, QualityB, QualityC, QualityD, QualityDefective}

// IsValid indica si el grado es uno de los cinco reconocidos.
func (q Quality) IsValid() bool {
	switch q {
	case QualityA, QualityB, QualityC, QualityD, QualityDefective:
		return true
	}
	return false
}

// Roll representa una unidad física de tela (rollo) con su propio contador de kilos.
// Invariante: 0 <= CurrentQuantity <= OriginalQuantity y Exhausted <=> CurrentQuantity <= 0.
// Nunca se elimina: los rollos en cero quedan como historial.
type Roll struct {
	ID                  string
	CompanyID           string
	BatchID             string // lote de recepción que lo creó
	PurchaseOrderLineID string
	RollNumber          string // único por empresa, legible
	ProductID           string
	Color               string
	Quality             Quality
	OriginalQuantity    decimal.Decimal // kg, fijo desde la creación
	CurrentQuantity     decimal.Decimal // kg, solo decrece
	WarehouseID         string
	Shelf               string // ubicación opcional en bodega
	Exhausted           bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsAvailable indica si el rollo puede ofrecerse para despacho.
func (r *Roll) IsAvailable() bool {
	return !r.Exhausted && r.CurrentQuantity.GreaterThan(decimal.Zero)
}
