// Package export genera la hoja de cálculo del resumen de stock.
package export

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
)

const sheet = "Stock"

var _ inventory.StockSummaryExporter = (*StockXLSX)(nil)

// StockXLSX implementa inventory.StockSummaryExporter con excelize.
type StockXLSX struct{}

// NewStockXLSX construye el exportador.
func NewStockXLSX() *StockXLSX { return &StockXLSX{} }

var headers = []string{
	"Producto", "Color", "Rollos", "Stock (kg)",
	"Grado A", "Grado B", "Grado C", "Grado D", "Defectuoso",
	"Por recibir (kg)", "Por despachar (kg)",
}

// ExportStockSummary una fila por (producto, color); los kilos van como número para poder sumar en la hoja.
func (x *StockXLSX) ExportStockSummary(_ context.Context, positions []entity.StockPosition, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	kg, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	_ = f.SetCellValue(sheet, "A1", "Resumen de stock generado "+generatedAt.Format("2006-01-02 15:04"))
	_ = f.SetCellStyle(sheet, "A1", "A1", bold)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(sheet, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 3)
	_ = f.SetCellStyle(sheet, "A3", last, bold)

	for i, p := range positions {
		r := i + 4
		values := []any{
			p.ProductID, p.Color, p.TotalRolls, p.TotalStock.InexactFloat64(),
			p.GradeStock(entity.QualityA).InexactFloat64(),
			p.GradeStock(entity.QualityB).InexactFloat64(),
			p.GradeStock(entity.QualityC).InexactFloat64(),
			p.GradeStock(entity.QualityD).InexactFloat64(),
			p.GradeStock(entity.QualityDefective).InexactFloat64(),
			p.PendingIn.InexactFloat64(),
			p.PendingOut.InexactFloat64(),
		}
		start, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", r, err)
		}
		from, _ := excelize.CoordinatesToCellName(4, r)
		to, _ := excelize.CoordinatesToCellName(len(headers), r)
		_ = f.SetCellStyle(sheet, from, to, kg)
	}
	_ = f.SetColWidth(sheet, "A", "B", 22)
	_ = f.SetColWidth(sheet, "C", "K", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
