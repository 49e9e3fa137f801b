package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// Progress estado de avance de una línea respecto a su cantidad pedida.
type Progress int

const (
	ProgressPending Progress = iota
	ProgressPartial
	ProgressCompleted
)

// DeriveStatus calcula el avance a partir de los dos contadores de la línea.
// Un acumulado mayor a lo pedido sigue siendo completed.
func DeriveStatus(ordered, cumulative decimal.Decimal) Progress {
	switch {
	case cumulative.LessThanOrEqual(decimal.Zero):
		return ProgressPending
	case cumulative.LessThan(ordered):
		return ProgressPartial
	default:
		return ProgressCompleted
	}
}

// PurchaseLineStatus traduce el avance al vocabulario de órdenes de compra.
func PurchaseLineStatus(ordered, received decimal.Decimal) string {
	switch DeriveStatus(ordered, received) {
	case ProgressPartial:
		return entity.PurchaseLinePartialReceived
	case ProgressCompleted:
		return entity.PurchaseLineCompleted
	}
	return entity.PurchaseLinePending
}

// OrderLineStatus traduce el avance al vocabulario de pedidos de cliente.
func OrderLineStatus(quantity, shipped decimal.Decimal) string {
	switch DeriveStatus(quantity, shipped) {
	case ProgressPartial:
		return entity.OrderLinePartialShipped
	case ProgressCompleted:
		return entity.OrderLineShipped
	}
	return entity.OrderLinePending
}

// PositiveRemaining max(0, ordered - done).
func PositiveRemaining(ordered, done decimal.Decimal) decimal.Decimal {
	r := ordered.Sub(done)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
