package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// RollResponse rollo en respuestas HTTP.
type RollResponse struct {
	ID                  string          `json:"id"`
	RollNumber          string          `json:"roll_number"`
	BatchID             string          `json:"batch_id"`
	PurchaseOrderLineID string          `json:"purchase_order_line_id"`
	ProductID           string          `json:"product_id"`
	Color               string          `json:"color,omitempty"`
	Quality             string          `json:"quality"`
	OriginalQuantity    decimal.Decimal `json:"original_quantity"`
	CurrentQuantity     decimal.Decimal `json:"current_quantity"`
	WarehouseID         string          `json:"warehouse_id"`
	Shelf               string          `json:"shelf,omitempty"`
	Exhausted           bool            `json:"exhausted"`
	CreatedAt           time.Time       `json:"created_at"`
}

// RollListQuery filtros de GET /api/rolls.
type RollListQuery struct {
	ProductID   string `query:"product_id" validate:"required"`
	Color       string `query:"color"`
	WarehouseID string `query:"warehouse_id"`
}

// NewRollResponse mapea la entidad.
func NewRollResponse(r entity.Roll) RollResponse {
	return RollResponse{
		ID:                  r.ID,
		RollNumber:          r.RollNumber,
		BatchID:             r.BatchID,
		PurchaseOrderLineID: r.PurchaseOrderLineID,
		ProductID:           r.ProductID,
		Color:               r.Color,
		Quality:             string(r.Quality),
		OriginalQuantity:    r.OriginalQuantity,
		CurrentQuantity:     r.CurrentQuantity,
		WarehouseID:         r.WarehouseID,
		Shelf:               r.Shelf,
		Exhausted:           r.Exhausted,
		CreatedAt:           r.CreatedAt,
	}
}

// NewRollResponses mapea una lista.
func NewRollResponses(rolls []entity.Roll) []RollResponse {
	out := make([]RollResponse, 0, len(rolls))
	for _, r := range rolls {
		out = append(out, NewRollResponse(r))
	}
	return out
}
