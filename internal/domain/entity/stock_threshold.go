package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockThreshold piso de alerta (kg) por producto. Sin registro = nunca alerta.
type StockThreshold struct {
	CompanyID string
	ProductID string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
