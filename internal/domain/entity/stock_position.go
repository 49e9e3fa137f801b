package entity

import "github.com/shopspring/decimal"

// StockPosition fila del resumen de stock por (producto, color).
type StockPosition struct {
	ProductID  string                      `json:"product_id"`
	Color      string                      `json:"color"`
	TotalStock decimal.Decimal             `json:"total_stock"`
	TotalRolls int                         `json:"total_rolls"`
	ByQuality  map[Quality]decimal.Decimal `json:"by_quality"`
	PendingIn  decimal.Decimal             `json:"pending_in"`
	PendingOut decimal.Decimal             `json:"pending_out"`
}

// GradeStock subtotal del grado indicado (cero si no hay rollos de ese grado).
func (p StockPosition) GradeStock(q Quality) decimal.Decimal {
	if v, ok := p.ByQuality[q]; ok {
		return v
	}
	return decimal.Zero
}

// PendingLine línea abierta (compra o pedido) con su saldo pendiente.
type PendingLine struct {
	LineID    string          `json:"line_id"`
	OrderID   string          `json:"order_id"` // orden de compra o pedido según el sentido
	ProductID string          `json:"product_id"`
	Color     string          `json:"color"`
	Ordered   decimal.Decimal `json:"ordered"`
	Done      decimal.Decimal `json:"done"` // recibido o despachado
	Remaining decimal.Decimal `json:"remaining"`
	Status    string          `json:"status"`
}
