package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de evento del libro de rollos.
const (
	EventRollCreated      = "roll.created"
	EventRollDeducted     = "roll.deducted"
	EventReceiptCreated   = "receipt.created"
	EventShipmentCreated  = "shipment.created"
	EventThresholdChanged = "threshold.changed"
)

// LedgerEvent notificación publicada después del commit de una mutación del libro.
// Los suscriptores (caché, Kafka, métricas) la usan para invalidar o reenviar.
type LedgerEvent struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Kind        string          `json:"kind"`
	ProductID   string          `json:"product_id,omitempty"`
	RollID      string          `json:"roll_id,omitempty"`
	ReferenceID string          `json:"reference_id,omitempty"` // lote de recepción o despacho
	Quantity    decimal.Decimal `json:"quantity"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
