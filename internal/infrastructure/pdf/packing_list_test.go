package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/infrastructure/pdf"
)

func TestRenderPackingList(t *testing.T) {
	g := pdf.NewPackingListGenerator("Textiles Andinos")
	doc, err := g.RenderPackingList(context.Background(), inventory.PackingList{
		ShipmentNumber: "SH-20260116-001",
		OrderID:        "o1",
		ShipmentDate:   time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC),
		Lines: []inventory.PackingListLine{
			{RollNumber: "R260116-143005-27", ProductID: "p1", Color: "azul", Quality: entity.QualityA, Quantity: decimal.NewFromInt(30)},
			{RollNumber: "R260116-143005-81", ProductID: "p1", Quality: entity.QualityB, Quantity: decimal.RequireFromString("12.5")},
		},
		TotalQuantity: decimal.RequireFromString("42.5"),
		RollCount:     2,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}
