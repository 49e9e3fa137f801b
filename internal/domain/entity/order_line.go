package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de una línea de pedido de cliente.
const (
	OrderLinePending        = "pending"
	OrderLinePartialShipped = "partial_shipped"
	OrderLineShipped        = "shipped"
)

// OrderLine línea de producto de un pedido de cliente.
type OrderLine struct {
	ID              string
	CompanyID       string
	OrderID         string
	ProductID       string
	Color           string
	Quantity        decimal.Decimal
	ShippedQuantity decimal.Decimal // acumulado
	Status          string
	UpdatedAt       time.Time
}

// Remaining cantidad pendiente por despachar.
func (l *OrderLine) Remaining() decimal.Decimal {
	return l.Quantity.Sub(l.ShippedQuantity)
}
