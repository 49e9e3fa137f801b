package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
	"github.com/jhoicas/telas-api/pkg/logger"
)

func TestCreateReceipt_SobreRecepcionYForce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("pl1", "po1", "p1", "azul", 100, 0)

	in := inventory.ReceiptInput{
		CompanyID: company, UserID: "u1", PurchaseOrderID: "po1",
		Items: []inventory.ReceiptItemInput{
			{OrderLineID: "pl1", Quantity: kg(60), Quality: entity.QualityA, WarehouseID: "b1"},
			{OrderLineID: "pl1", Quantity: kg(50), Quality: entity.QualityB, WarehouseID: "b1", Shelf: "E-3"},
		},
	}

	_, err := f.receive.CreateReceipt(ctx, in)
	var warning *domain.OverageWarning
	require.ErrorAs(t, err, &warning)
	require.Len(t, warning.Lines, 1)
	assert.Equal(t, "pl1", warning.Lines[0].LineID)
	assert.True(t, warning.Lines[0].Remaining.Equal(kg(100)))
	assert.True(t, warning.Lines[0].Proposed.Equal(kg(110)))

	rolls, err := f.store.Repos().Rolls.ListInStock(ctx, company)
	require.NoError(t, err)
	assert.Empty(t, rolls, "la advertencia no escribe nada")
	assert.Empty(t, f.events)

	in.Force = true
	res, err := f.receive.CreateReceipt(ctx, in)
	require.NoError(t, err)
	assert.Len(t, res.Rolls, 2)
	assert.Equal(t, 2, res.Batch.RollCount)
	assert.True(t, res.Batch.TotalQuantity.Equal(kg(110)))
	assert.NotEqual(t, res.Rolls[0].RollNumber, res.Rolls[1].RollNumber)
	assert.Equal(t, "azul", res.Rolls[0].Color, "el color se hereda de la línea")
	assert.Equal(t, "E-3", res.Rolls[1].Shelf)

	line, err := f.store.Repos().PurchaseLines.GetByID(ctx, company, "pl1")
	require.NoError(t, err)
	assert.True(t, line.ReceivedQuantity.Equal(kg(110)))
	assert.Equal(t, entity.PurchaseLineCompleted, line.Status)

	summary, err := f.stock.GetStockSummary(ctx, company)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.True(t, summary[0].TotalStock.Equal(kg(110)))
	assert.Equal(t, 2, summary[0].TotalRolls)
	assert.True(t, summary[0].GradeStock(entity.QualityA).Equal(kg(60)))
	assert.True(t, summary[0].GradeStock(entity.QualityB).Equal(kg(50)))

	assert.Equal(t, []string{entity.EventRollCreated, entity.EventRollCreated, entity.EventReceiptCreated}, f.kinds())
}

func TestCreateReceipt_RecepcionParcial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("pl1", "po1", "p1", "", 100, 0)

	res, err := f.receive.CreateReceipt(ctx, inventory.ReceiptInput{
		CompanyID: company, PurchaseOrderID: "po1",
		Items: []inventory.ReceiptItemInput{{OrderLineID: "pl1", Quantity: kg(40), Quality: entity.QualityC, WarehouseID: "b1"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.Equal(t, entity.PurchaseLinePartialReceived, res.Lines[0].Status)
	assert.False(t, res.Batch.ArrivalDate.IsZero(), "fecha de llegada por defecto: hoy")

	got, err := f.receive.GetReceipt(ctx, company, res.Batch.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rolls, 1)

	_, err = f.receive.GetReceipt(ctx, "otra-empresa", res.Batch.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateReceipt_Validaciones(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("pl1", "po1", "p1", "", 100, 0)
	f.purchaseLine("pl-otra", "po2", "p1", "", 100, 0)

	item := func(mod func(*inventory.ReceiptItemInput)) []inventory.ReceiptItemInput {
		it := inventory.ReceiptItemInput{OrderLineID: "pl1", Quantity: kg(10), Quality: entity.QualityA, WarehouseID: "b1"}
		mod(&it)
		return []inventory.ReceiptItemInput{it}
	}
	tests := []struct {
		name  string
		items []inventory.ReceiptItemInput
		field string
	}{
		{"cantidad cero", item(func(i *inventory.ReceiptItemInput) { i.Quantity = kg(0) }), "items[0].quantity"},
		{"sin bodega", item(func(i *inventory.ReceiptItemInput) { i.WarehouseID = "" }), "items[0].warehouse_id"},
		{"grado inválido", item(func(i *inventory.ReceiptItemInput) { i.Quality = "Z" }), "items[0].quality"},
		{"línea de otra orden", item(func(i *inventory.ReceiptItemInput) { i.OrderLineID = "pl-otra" }), "order_line_id"},
		{"línea inexistente", item(func(i *inventory.ReceiptItemInput) { i.OrderLineID = "nada" }), "order_line_id"},
		{"sin ítems", nil, "items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.receive.CreateReceipt(context.Background(), inventory.ReceiptInput{
				CompanyID: company, PurchaseOrderID: "po1", Force: true, Items: tt.items,
			})
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	rolls, _ := f.store.Repos().Rolls.ListInStock(context.Background(), company)
	assert.Empty(t, rolls)
}

func TestCreateReceipt_SinEmpresa(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	_, err := f.receive.CreateReceipt(context.Background(), inventory.ReceiptInput{PurchaseOrderID: "po1"})
	assert.ErrorIs(t, err, domain.ErrMissingTenant)
}

func TestCreateReceipt_NumerosDistintosConColision(t *testing.T) {
	ctx := context.Background()
	// El segundo rollo recibe el mismo candidato que el primero y debe usar el de rango amplio.
	gen := &scriptedNumbers{script: []string{"R260116-143005-27", "R260116-143005-27", "R260116-143005-0427"}}
	f := newFixture(t, fixtureOpts{numbers: gen})
	f.purchaseLine("pl1", "po1", "p1", "", 100, 0)

	res, err := f.receive.CreateReceipt(ctx, inventory.ReceiptInput{
		CompanyID: company, PurchaseOrderID: "po1",
		Items: []inventory.ReceiptItemInput{
			{OrderLineID: "pl1", Quantity: kg(10), Quality: entity.QualityA, WarehouseID: "b1"},
			{OrderLineID: "pl1", Quantity: kg(10), Quality: entity.QualityA, WarehouseID: "b1"},
			{OrderLineID: "pl1", Quantity: kg(10), Quality: entity.QualityA, WarehouseID: "b1"},
		},
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, r := range res.Rolls {
		assert.False(t, seen[r.RollNumber], "número repetido %s", r.RollNumber)
		seen[r.RollNumber] = true
	}
	assert.True(t, seen["R260116-143005-0427"])
}

func TestCreateReceipt_ConflictoPersistenteSeReintentaUnaVez(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{numbers: &scriptedNumbers{script: []string{"X", "Y"}}})
	f.purchaseLine("pl1", "po1", "p1", "", 100, 0)
	// Ocupar X e Y con una recepción previa.
	f.receiveRolls(t, "pl1", "po1", []entity.Quality{entity.QualityA}, 5, 5)

	t.Run("segundo intento exitoso", func(t *testing.T) {
		f.receive = inventory.NewReceiveUseCase(f.store, f.store.Repos(),
			inventory.NewRollLedger(&scriptedNumbers{script: []string{"X", "Y"}}),
			f.bus, inventory.NopMetrics(), logger.Nop())
		res, err := f.receive.CreateReceipt(ctx, inventory.ReceiptInput{
			CompanyID: company, PurchaseOrderID: "po1", Force: true,
			Items: []inventory.ReceiptItemInput{{OrderLineID: "pl1", Quantity: kg(1), Quality: entity.QualityA, WarehouseID: "b1"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "AUTO-001", res.Rolls[0].RollNumber)
	})

	t.Run("dos intentos en conflicto", func(t *testing.T) {
		f.receive = inventory.NewReceiveUseCase(f.store, f.store.Repos(),
			inventory.NewRollLedger(&scriptedNumbers{script: []string{"X", "Y", "Y", "X"}}),
			f.bus, inventory.NopMetrics(), logger.Nop())
		_, err := f.receive.CreateReceipt(ctx, inventory.ReceiptInput{
			CompanyID: company, PurchaseOrderID: "po1", Force: true,
			Items: []inventory.ReceiptItemInput{{OrderLineID: "pl1", Quantity: kg(1), Quality: entity.QualityA, WarehouseID: "b1"}},
		})
		var conflict *domain.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "roll_number", conflict.Resource)
	})
}

func TestCreateReceipt_FalloDePersistenciaNoDejaRastro(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("pl1", "po1", "p1", "", 100, 0)
	f.store.FailOn("purchase_lines.update", errors.New("conexión perdida"))

	_, err := f.receive.CreateReceipt(ctx, inventory.ReceiptInput{
		CompanyID: company, PurchaseOrderID: "po1",
		Items: []inventory.ReceiptItemInput{{OrderLineID: "pl1", Quantity: kg(10), Quality: entity.QualityA, WarehouseID: "b1"}},
	})
	assert.ErrorIs(t, err, domain.ErrPersistence)

	rolls, _ := f.store.Repos().Rolls.ListAvailable(ctx, company, repository.RollFilter{ProductID: "p1"})
	assert.Empty(t, rolls, "los rollos creados antes del fallo se revierten")
	line, _ := f.store.Repos().PurchaseLines.GetByID(ctx, company, "pl1")
	assert.True(t, line.ReceivedQuantity.IsZero())
	assert.Empty(t, f.events, "no se publican eventos sin commit")
}
