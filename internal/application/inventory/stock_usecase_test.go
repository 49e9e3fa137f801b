package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

func TestGetPendingInbound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("a", "po1", "p1", "azul", 50, 20)
	f.purchaseLine("b", "po1", "p1", "azul", 30, 30)

	lines, err := f.stock.GetPendingInbound(ctx, company)
	require.NoError(t, err)
	assert.True(t, inv.SumPending(lines).Equal(kg(30)))

	summary, err := f.stock.GetStockSummary(ctx, company)
	require.NoError(t, err)
	require.Len(t, summary, 1, "el grupo aparece aunque solo tenga pendientes")
	assert.True(t, summary[0].PendingIn.Equal(kg(30)))
	assert.True(t, summary[0].TotalStock.IsZero())
}

func TestGetPendingOutbound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.orderLine("o-a", "o1", "p2", "", 40, 10)
	f.orderLine("o-b", "o1", "p1", "", 5, 0)

	lines, err := f.stock.GetPendingOutbound(ctx, company)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.True(t, lines[1].Remaining.Equal(kg(30)))
}

func TestGetStockSummary_CacheInvalidadaPorEventos(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("pl1", "po1", "p1", "", 100, 0)
	f.receiveRolls(t, "pl1", "po1", qa, 10)

	first, err := f.stock.GetStockSummary(ctx, company)
	require.NoError(t, err)
	_, cached, _ := f.cache.Get(ctx, company)
	assert.True(t, cached)

	f.receiveRolls(t, "pl1", "po1", qa, 15)
	_, cached, _ = f.cache.Get(ctx, company)
	assert.False(t, cached, "la recepción invalida la caché")

	second, err := f.stock.GetStockSummary(ctx, company)
	require.NoError(t, err)
	assert.True(t, first[0].TotalStock.Equal(kg(10)))
	assert.True(t, second[0].TotalStock.Equal(kg(25)))
}

func TestGetStockSummary_RecepcionDuranteElCalculoNoDejaCacheVieja(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("pl1", "po1", "p1", "", 100, 0)
	f.receiveRolls(t, "pl1", "po1", qa, 10)

	f.cache.beforeSet = func() { f.receiveRolls(t, "pl1", "po1", qa, 15) }
	stale, err := f.stock.GetStockSummary(ctx, company)
	require.NoError(t, err)
	assert.True(t, stale[0].TotalStock.Equal(kg(10)))

	_, cached, _ := f.cache.Get(ctx, company)
	assert.False(t, cached, "el resumen calculado antes de la recepción no debe quedar en caché")

	fresh, err := f.stock.GetStockSummary(ctx, company)
	require.NoError(t, err)
	assert.True(t, fresh[0].TotalStock.Equal(kg(25)))
}

func TestStockAlerts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("l1", "po1", "warn", "azul", 1000, 0)
	f.purchaseLine("l2", "po1", "crit", "", 1000, 0)
	f.purchaseLine("l3", "po1", "ok", "", 1000, 0)
	f.purchaseLine("l4", "po1", "warn", "rojo", 1000, 0)
	f.receiveRolls(t, "l1", "po1", qa, 50)
	f.receiveRolls(t, "l4", "po1", qa, 30) // 80 entre los dos colores
	f.receiveRolls(t, "l2", "po1", qa, 40)
	f.receiveRolls(t, "l3", "po1", qa, 150)

	for _, p := range []string{"warn", "crit", "ok"} {
		_, err := f.stock.SetThreshold(ctx, company, p, kg(100))
		require.NoError(t, err)
	}

	alerts, err := f.stock.GetStockAlerts(ctx, company, "")
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "crit", alerts[0].ProductID)
	assert.Equal(t, inv.AlertCritical, alerts[0].Level)
	assert.Equal(t, "warn", alerts[1].ProductID)
	assert.True(t, alerts[1].Stock.Equal(kg(80)))

	ok, err := f.stock.GetStockAlerts(ctx, company, "ok")
	require.NoError(t, err)
	require.Len(t, ok, 1)
	assert.Equal(t, "ok", ok[0].ProductID)

	require.NoError(t, f.stock.ClearThreshold(ctx, company, "crit"))
	alerts, err = f.stock.GetStockAlerts(ctx, company, "")
	require.NoError(t, err)
	require.Len(t, alerts, 1, "sin umbral no hay alerta")

	_, err = f.stock.GetStockAlerts(ctx, company, "rojo")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSetThreshold_Validacion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})

	_, err := f.stock.SetThreshold(ctx, company, "p1", kg(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.stock.SetThreshold(ctx, "", "p1", kg(10))
	assert.ErrorIs(t, err, domain.ErrMissingTenant)

	_, err = f.stock.SetThreshold(ctx, company, "p2", kg(10))
	require.NoError(t, err)
	_, err = f.stock.SetThreshold(ctx, company, "p1", kg(20))
	require.NoError(t, err)
	list, err := f.stock.ListThresholds(ctx, company)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ProductID)
	assert.Contains(t, f.kinds(), entity.EventThresholdChanged)

	assert.NoError(t, f.stock.ClearThreshold(ctx, company, "nunca-configurado"))
}

func TestListAvailableRolls_Filtros(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, fixtureOpts{})
	f.purchaseLine("l1", "po1", "p1", "azul", 1000, 0)
	f.purchaseLine("l2", "po1", "p1", "rojo", 1000, 0)
	f.receiveRolls(t, "l1", "po1", qa, 10, 20)
	f.receiveRolls(t, "l2", "po1", qa, 5)

	all, err := f.stock.ListAvailableRolls(ctx, company, repository.RollFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Len(t, all, 3)
	for i := 1; i < len(all); i++ {
		assert.Less(t, all[i-1].RollNumber, all[i].RollNumber)
	}

	rojo, err := f.stock.ListAvailableRolls(ctx, company, repository.RollFilter{ProductID: "p1", Color: "rojo"})
	require.NoError(t, err)
	assert.Len(t, rojo, 1)

	_, err = f.stock.ListAvailableRolls(ctx, company, repository.RollFilter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.stock.GetRoll(ctx, company, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventBus_PanicNoAfectaOtrosSuscriptores(t *testing.T) {
	bus := inventory.NewEventBus(nil)
	var got int
	bus.Subscribe(func(context.Context, []entity.LedgerEvent) { panic("x") })
	bus.Subscribe(func(_ context.Context, e []entity.LedgerEvent) { got += len(e) })

	bus.Publish(context.Background(), []entity.LedgerEvent{{Kind: entity.EventRollCreated}})
	assert.Equal(t, 1, got)
}
