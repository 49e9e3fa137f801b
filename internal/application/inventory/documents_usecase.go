package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
)

// PackingListLine un rollo despachado.
type PackingListLine struct {
	OrderLineID string
	RollNumber  string
	ProductID   string
	Color       string
	Quality     entity.Quality
	Quantity    decimal.Decimal
}

// PackingList datos de la lista de empaque de un despacho.
type PackingList struct {
	ShipmentNumber string
	OrderID        string
	ShipmentDate   time.Time
	Note           string
	Lines          []PackingListLine
	TotalQuantity  decimal.Decimal
	RollCount      int
}

// PackingListRenderer genera el documento imprimible (PDF).
type PackingListRenderer interface {
	RenderPackingList(ctx context.Context, pl PackingList) ([]byte, error)
}

// StockSummaryExporter exporta el resumen de stock (XLSX).
type StockSummaryExporter interface {
	ExportStockSummary(ctx context.Context, positions []entity.StockPosition, generatedAt time.Time) ([]byte, error)
}

// DocumentsUseCase documentos derivados del libro: lista de empaque y exportación de stock.
type DocumentsUseCase struct {
	shipments *ShipmentUseCase
	stock     *StockUseCase
	renderer  PackingListRenderer
	exporter  StockSummaryExporter
}

// NewDocumentsUseCase construye el caso de uso.
func NewDocumentsUseCase(shipments *ShipmentUseCase, stock *StockUseCase, renderer PackingListRenderer, exporter StockSummaryExporter) *DocumentsUseCase {
	return &DocumentsUseCase{shipments: shipments, stock: stock, renderer: renderer, exporter: exporter}
}

// BuildPackingList arma la lista de empaque a partir del despacho y sus rollos.
func BuildPackingList(res *ShipmentResult) PackingList {
	rolls := make(map[string]entity.Roll, len(res.Rolls))
	for _, r := range res.Rolls {
		rolls[r.ID] = r
	}
	pl := PackingList{
		ShipmentNumber: res.Batch.ShipmentNumber,
		OrderID:        res.Batch.OrderID,
		ShipmentDate:   res.Batch.ShipmentDate,
		Note:           res.Batch.Note,
		TotalQuantity:  res.Batch.TotalQuantity,
		RollCount:      res.Batch.RollCount,
	}
	for _, it := range res.Items {
		r := rolls[it.RollID]
		pl.Lines = append(pl.Lines, PackingListLine{
			OrderLineID: it.OrderLineID,
			RollNumber:  r.RollNumber,
			ProductID:   r.ProductID,
			Color:       r.Color,
			Quality:     r.Quality,
			Quantity:    it.Quantity,
		})
	}
	return pl
}

// PackingListPDF PDF de la lista de empaque del despacho. Devuelve también el nombre de archivo sugerido.
func (uc *DocumentsUseCase) PackingListPDF(ctx context.Context, companyID, shipmentID string) ([]byte, string, error) {
	ctx, span := tracer.Start(ctx, "inventory.PackingListPDF")
	defer span.End()

	res, err := uc.shipments.GetShipment(ctx, companyID, shipmentID)
	if err != nil {
		return nil, "", err
	}
	doc, err := uc.renderer.RenderPackingList(ctx, BuildPackingList(res))
	if err != nil {
		return nil, "", fmt.Errorf("lista de empaque %s: %w", res.Batch.ShipmentNumber, err)
	}
	return doc, res.Batch.ShipmentNumber + ".pdf", nil
}

// StockSummaryXLSX hoja de cálculo con el resumen actual de stock.
func (uc *DocumentsUseCase) StockSummaryXLSX(ctx context.Context, companyID string) ([]byte, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	positions, err := uc.stock.GetStockSummary(ctx, companyID)
	if err != nil {
		return nil, err
	}
	doc, err := uc.exporter.ExportStockSummary(ctx, positions, uc.stock.now())
	if err != nil {
		return nil, fmt.Errorf("exportar resumen de stock: %w", err)
	}
	return doc, nil
}
