package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// CreateShipmentRequest body para POST /api/shipments.
type CreateShipmentRequest struct {
	OrderID      string                `json:"order_id" validate:"required"`
	ShipmentDate string                `json:"shipment_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note         string                `json:"note,omitempty" validate:"max=500"`
	Items        []ShipmentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ShipmentItemRequest par (línea de pedido, rollo, kg).
// La cantidad se valida en el caso de uso para poder rechazar el par sin tumbar el despacho.
type ShipmentItemRequest struct {
	OrderLineID string          `json:"order_line_id" validate:"required"`
	RollID      string          `json:"roll_id" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ShipmentItemResponse ítem descontado.
type ShipmentItemResponse struct {
	ID          string          `json:"id"`
	OrderLineID string          `json:"order_line_id"`
	RollID      string          `json:"roll_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// OrderLineResponse estado de una línea de pedido tras el despacho.
type OrderLineResponse struct {
	ID              string          `json:"id"`
	OrderID         string          `json:"order_id"`
	ProductID       string          `json:"product_id"`
	Color           string          `json:"color,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	ShippedQuantity decimal.Decimal `json:"shipped_quantity"`
	Status          string          `json:"status"`
}

// RejectedItemResponse par rechazado con su motivo.
type RejectedItemResponse struct {
	Index       int             `json:"index"`
	OrderLineID string          `json:"order_line_id"`
	RollID      string          `json:"roll_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Reason      string          `json:"reason"`
	Message     string          `json:"message,omitempty"`
}

// OverShipmentResponse advertencia de sobre-despacho (política warn).
type OverShipmentResponse struct {
	OrderLineID string          `json:"order_line_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Shipped     decimal.Decimal `json:"shipped"`
	Remaining   decimal.Decimal `json:"remaining"`
	Proposed    decimal.Decimal `json:"proposed"`
}

// ShipmentResponse lote de despacho con ítems, rechazos y advertencias.
type ShipmentResponse struct {
	ID             string                 `json:"id"`
	ShipmentNumber string                 `json:"shipment_number"`
	OrderID        string                 `json:"order_id"`
	ShipmentDate   string                 `json:"shipment_date"`
	Note           string                 `json:"note,omitempty"`
	TotalQuantity  decimal.Decimal        `json:"total_quantity"`
	RollCount      int                    `json:"roll_count"`
	CreatedBy      string                 `json:"created_by,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	Items          []ShipmentItemResponse `json:"items"`
	Rolls          []RollResponse         `json:"rolls"`
	Lines          []OrderLineResponse    `json:"lines,omitempty"`
	Rejected       []RejectedItemResponse `json:"rejected"`
	Warnings       []OverShipmentResponse `json:"warnings"`
}

// NewShipmentResponse mapea el resultado del caso de uso.
func NewShipmentResponse(res *inventory.ShipmentResult) ShipmentResponse {
	b := res.Batch
	resp := ShipmentResponse{
		ID:             b.ID,
		ShipmentNumber: b.ShipmentNumber,
		OrderID:        b.OrderID,
		ShipmentDate:   b.ShipmentDate.Format("2006-01-02"),
		Note:           b.Note,
		TotalQuantity:  b.TotalQuantity,
		RollCount:      b.RollCount,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt,
		Items:          make([]ShipmentItemResponse, 0, len(res.Items)),
		Rolls:          NewRollResponses(res.Rolls),
		Rejected:       NewRejectedItems(res.Rejected),
		Warnings:       make([]OverShipmentResponse, 0, len(res.Warnings)),
	}
	for _, it := range res.Items {
		resp.Items = append(resp.Items, ShipmentItemResponse{
			ID:          it.ID,
			OrderLineID: it.OrderLineID,
			RollID:      it.RollID,
			Quantity:    it.Quantity,
		})
	}
	for _, l := range res.Lines {
		resp.Lines = append(resp.Lines, NewOrderLineResponse(l))
	}
	for _, w := range res.Warnings {
		resp.Warnings = append(resp.Warnings, OverShipmentResponse(w))
	}
	return resp
}

// NewOrderLineResponse mapea la entidad.
func NewOrderLineResponse(l entity.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		ID:              l.ID,
		OrderID:         l.OrderID,
		ProductID:       l.ProductID,
		Color:           l.Color,
		Quantity:        l.Quantity,
		ShippedQuantity: l.ShippedQuantity,
		Status:          l.Status,
	}
}

// NewRejectedItems mapea los rechazos; también se usa en el detalle del 422 cuando no queda ningún par.
func NewRejectedItems(items []inventory.RejectedItem) []RejectedItemResponse {
	out := make([]RejectedItemResponse, 0, len(items))
	for _, r := range items {
		item := RejectedItemResponse{
			Index:       r.Index,
			OrderLineID: r.OrderLineID,
			RollID:      r.RollID,
			Quantity:    r.Quantity,
			Reason:      r.Reason,
		}
		if r.Err != nil {
			item.Message = r.Err.Error()
		}
		out = append(out, item)
	}
	return out
}
