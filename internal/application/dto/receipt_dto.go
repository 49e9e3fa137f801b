package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// CreateReceiptRequest body para POST /api/receipts.
type CreateReceiptRequest struct {
	PurchaseOrderID string               `json:"purchase_order_id" validate:"required"`
	ArrivalDate     string               `json:"arrival_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note            string               `json:"note,omitempty" validate:"max=500"`
	Force           bool                 `json:"force"`
	Items           []ReceiptItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceiptItemRequest un rollo recibido contra una línea de la orden de compra.
type ReceiptItemRequest struct {
	OrderLineID string          `json:"order_line_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	Quality     string          `json:"quality" validate:"required,oneof=A B C D defective"`
	WarehouseID string          `json:"warehouse_id" validate:"required"`
	Shelf       string          `json:"shelf,omitempty" validate:"max=50"`
}

// PurchaseLineResponse estado de una línea de compra tras la recepción.
type PurchaseLineResponse struct {
	ID               string          `json:"id"`
	PurchaseOrderID  string          `json:"purchase_order_id"`
	ProductID        string          `json:"product_id"`
	Color            string          `json:"color,omitempty"`
	OrderedQuantity  decimal.Decimal `json:"ordered_quantity"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Status           string          `json:"status"`
}

// ReceiptResponse lote de recepción con sus rollos.
type ReceiptResponse struct {
	ID              string                 `json:"id"`
	PurchaseOrderID string                 `json:"purchase_order_id"`
	ArrivalDate     string                 `json:"arrival_date"`
	Note            string                 `json:"note,omitempty"`
	TotalQuantity   decimal.Decimal        `json:"total_quantity"`
	RollCount       int                    `json:"roll_count"`
	CreatedBy       string                 `json:"created_by,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	Rolls           []RollResponse         `json:"rolls"`
	Lines           []PurchaseLineResponse `json:"lines,omitempty"`
}

// OverageLineResponse línea que excede lo pendiente.
type OverageLineResponse struct {
	LineID    string          `json:"line_id"`
	ProductID string          `json:"product_id"`
	Ordered   decimal.Decimal `json:"ordered"`
	Received  decimal.Decimal `json:"received"`
	Remaining decimal.Decimal `json:"remaining"`
	Proposed  decimal.Decimal `json:"proposed"`
}

// NewReceiptResponse mapea lote, rollos y líneas.
func NewReceiptResponse(b entity.ReceiptBatch, rolls []entity.Roll, lines []entity.PurchaseOrderLine) ReceiptResponse {
	resp := ReceiptResponse{
		ID:              b.ID,
		PurchaseOrderID: b.PurchaseOrderID,
		ArrivalDate:     b.ArrivalDate.Format("2006-01-02"),
		Note:            b.Note,
		TotalQuantity:   b.TotalQuantity,
		RollCount:       b.RollCount,
		CreatedBy:       b.CreatedBy,
		CreatedAt:       b.CreatedAt,
		Rolls:           NewRollResponses(rolls),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			ID:               l.ID,
			PurchaseOrderID:  l.PurchaseOrderID,
			ProductID:        l.ProductID,
			Color:            l.Color,
			OrderedQuantity:  l.OrderedQuantity,
			ReceivedQuantity: l.ReceivedQuantity,
			Status:           l.Status,
		})
	}
	return resp
}

// NewOverageLines mapea la advertencia de sobre-recepción.
func NewOverageLines(w *domain.OverageWarning) []OverageLineResponse {
	out := make([]OverageLineResponse, 0, len(w.Lines))
	for _, l := range w.Lines {
		out = append(out, OverageLineResponse(l))
	}
	return out
}
