package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptBatch grupo de rollos creados juntos en una llegada de mercancía.
type ReceiptBatch struct {
	ID              string
	CompanyID       string
	PurchaseOrderID string
	ArrivalDate     time.Time
	Note            string
	TotalQuantity   decimal.Decimal // desnormalizado para listados
	RollCount       int
	CreatedBy       string
	CreatedAt       time.Time
}
