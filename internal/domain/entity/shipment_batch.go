package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentBatch grupo de descuentos de rollos para un mismo despacho.
type ShipmentBatch struct {
	ID             string
	CompanyID      string
	OrderID        string
	ShipmentNumber string // SH-YYYYMMDD-NNN
	ShipmentDate   time.Time
	Note           string
	TotalQuantity  decimal.Decimal
	RollCount      int
	CreatedBy      string
	CreatedAt      time.Time
}

// ShipmentItem cantidad descontada de un rollo contra una línea del pedido.
type ShipmentItem struct {
	ID          string
	ShipmentID  string
	OrderLineID string
	RollID      string
	Quantity    decimal.Decimal
}
