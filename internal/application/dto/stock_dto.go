package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain/entity"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
)

// StockSummaryRow fila del resumen por (producto, color).
type StockSummaryRow struct {
	ProductID  string          `json:"product_id"`
	Color      string          `json:"color"`
	TotalStock decimal.Decimal `json:"total_stock"`
	TotalRolls int             `json:"total_rolls"`
	GradeA     decimal.Decimal `json:"grade_a"`
	GradeB     decimal.Decimal `json:"grade_b"`
	GradeC     decimal.Decimal `json:"grade_c"`
	GradeD     decimal.Decimal `json:"grade_d"`
	Defective  decimal.Decimal `json:"defective"`
	PendingIn  decimal.Decimal `json:"pending_in"`
	PendingOut decimal.Decimal `json:"pending_out"`
}

// NewStockSummaryRows mapea las posiciones.
func NewStockSummaryRows(positions []entity.StockPosition) []StockSummaryRow {
	out := make([]StockSummaryRow, 0, len(positions))
	for _, p := range positions {
		out = append(out, StockSummaryRow{
			ProductID:  p.ProductID,
			Color:      p.Color,
			TotalStock: p.TotalStock,
			TotalRolls: p.TotalRolls,
			GradeA:     p.GradeStock(entity.QualityA),
			GradeB:     p.GradeStock(entity.QualityB),
			GradeC:     p.GradeStock(entity.QualityC),
			GradeD:     p.GradeStock(entity.QualityD),
			Defective:  p.GradeStock(entity.QualityDefective),
			PendingIn:  p.PendingIn,
			PendingOut: p.PendingOut,
		})
	}
	return out
}

// AlertResponse alerta de stock de un producto.
type AlertResponse struct {
	ProductID string          `json:"product_id"`
	Stock     decimal.Decimal `json:"stock"`
	Threshold decimal.Decimal `json:"threshold"`
	Ratio     decimal.Decimal `json:"ratio"`
	Level     string          `json:"level"`
}

// NewAlertResponses mapea las alertas; el ratio se redondea a 4 decimales.
func NewAlertResponses(alerts []inv.StockAlert) []AlertResponse {
	out := make([]AlertResponse, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, AlertResponse{
			ProductID: a.ProductID,
			Stock:     a.Stock,
			Threshold: a.Threshold,
			Ratio:     a.Ratio().Round(4),
			Level:     string(a.Level),
		})
	}
	return out
}

// AlertQuery filtro de GET /api/stock/alerts.
type AlertQuery struct {
	Level string `query:"level" validate:"omitempty,oneof=ok warning critical"`
}

// ThresholdRequest body para PUT /api/stock/thresholds/:product_id.
type ThresholdRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// ThresholdResponse umbral configurado.
type ThresholdResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewThresholdResponse mapea la entidad.
func NewThresholdResponse(t entity.StockThreshold) ThresholdResponse {
	return ThresholdResponse{ProductID: t.ProductID, Quantity: t.Quantity, UpdatedAt: t.UpdatedAt}
}

// NewThresholdResponses mapea una lista.
func NewThresholdResponses(list []entity.StockThreshold) []ThresholdResponse {
	out := make([]ThresholdResponse, 0, len(list))
	for _, t := range list {
		out = append(out, NewThresholdResponse(t))
	}
	return out
}
