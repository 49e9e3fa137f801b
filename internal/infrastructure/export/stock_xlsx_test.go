package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/infrastructure/export"
)

func TestExportStockSummary(t *testing.T) {
	positions := []entity.StockPosition{{
		ProductID:  "p1",
		Color:      "azul",
		TotalStock: decimal.NewFromInt(110),
		TotalRolls: 2,
		ByQuality: map[entity.Quality]decimal.Decimal{
			entity.QualityA: decimal.NewFromInt(60),
			entity.QualityB: decimal.NewFromInt(50),
		},
		PendingIn:  decimal.Zero,
		PendingOut: decimal.NewFromInt(5),
	}}

	doc, err := export.NewStockXLSX().ExportStockSummary(context.Background(), positions, time.Date(2026, 1, 16, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Stock", "A3")
	require.NoError(t, err)
	assert.Equal(t, "Producto", header)

	product, _ := f.GetCellValue("Stock", "A4")
	assert.Equal(t, "p1", product)
	gradeA, _ := f.GetCellValue("Stock", "E4", excelize.Options{RawCellValue: true})
	assert.Equal(t, "60", gradeA)
}
