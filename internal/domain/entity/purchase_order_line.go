package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de una línea de orden de compra.
const (
	PurchaseLinePending         = "pending"
	PurchaseLinePartialReceived = "partial_received"
	PurchaseLineCompleted       = "completed"
)

// PurchaseOrderLine línea de producto de una orden de compra a fábrica.
// La orden y sus líneas las crea el módulo de compras; aquí solo se actualiza ReceivedQuantity.
type PurchaseOrderLine struct {
	ID               string
	CompanyID        string
	PurchaseOrderID  string
	ProductID        string
	Color            string
	OrderedQuantity  decimal.Decimal
	ReceivedQuantity decimal.Decimal // acumulado
	Status           string          // derivado, ver inventory.DeriveStatus
	UpdatedAt        time.Time
}

// Remaining cantidad pendiente por recibir (puede ser negativa si hubo sobre-recepción).
func (l *PurchaseOrderLine) Remaining() decimal.Decimal {
	return l.OrderedQuantity.Sub(l.ReceivedQuantity)
}
