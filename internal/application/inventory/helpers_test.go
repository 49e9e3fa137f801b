package inventory_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
	"github.com/jhoicas/telas-api/internal/infrastructure/memory"
	"github.com/jhoicas/telas-api/pkg/config"
	"github.com/jhoicas/telas-api/pkg/logger"
)

const company = "empresa-1"

func kg(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// scriptedNumbers devuelve primero los números del guion y luego números únicos.
type scriptedNumbers struct {
	mu     sync.Mutex
	script []string
	n      int
}

func (g *scriptedNumbers) Next(bool) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.script) > 0 {
		next := g.script[0]
		g.script = g.script[1:]
		return next
	}
	g.n++
	return fmt.Sprintf("AUTO-%03d", g.n)
}

type recordingCache struct {
	mu          sync.Mutex
	data        map[string][]entity.StockPosition
	gens        map[string]int64
	invalidated int
	// beforeSet simula una mutación que llega entre el cálculo y la escritura en caché.
	beforeSet func()
}

func (c *recordingCache) Get(_ context.Context, companyID string) ([]entity.StockPosition, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.data[companyID]
	return p, ok, nil
}

func (c *recordingCache) Generation(_ context.Context, companyID string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[companyID], nil
}

func (c *recordingCache) Set(_ context.Context, companyID string, gen int64, p []entity.StockPosition) error {
	if hook := c.beforeSet; hook != nil {
		c.beforeSet = nil
		hook()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[companyID] != gen {
		return nil
	}
	c.data[companyID] = p
	return nil
}

func (c *recordingCache) Invalidate(_ context.Context, companyID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[companyID]++
	delete(c.data, companyID)
	c.invalidated++
	return nil
}

type fixture struct {
	store   *memory.Store
	cache   *recordingCache
	bus     *inventory.EventBus
	events  []entity.LedgerEvent
	receive *inventory.ReceiveUseCase
	ship    *inventory.ShipmentUseCase
	stock   *inventory.StockUseCase
}

type fixtureOpts struct {
	policy  string
	numbers inv.RollNumberGenerator
	locker  inventory.Locker
}

func newFixture(t *testing.T, opts fixtureOpts) *fixture {
	t.Helper()
	if opts.numbers == nil {
		opts.numbers = &scriptedNumbers{}
	}
	if opts.locker == nil {
		opts.locker = inventory.NopLocker()
	}
	log := logger.Nop()
	f := &fixture{
		store: memory.NewStore(),
		cache: &recordingCache{data: make(map[string][]entity.StockPosition), gens: make(map[string]int64)},
		bus:   inventory.NewEventBus(log),
	}
	f.bus.Subscribe(func(_ context.Context, events []entity.LedgerEvent) {
		f.events = append(f.events, events...)
	})
	f.bus.Subscribe(inventory.InvalidateSummaryOn(f.cache, log))

	reads := f.store.Repos()
	ledger := inventory.NewRollLedger(opts.numbers)
	metrics := inventory.NopMetrics()
	f.receive = inventory.NewReceiveUseCase(f.store, reads, ledger, f.bus, metrics, log)
	f.ship = inventory.NewShipmentUseCase(f.store, reads, ledger, f.bus, opts.locker, metrics, log,
		config.LedgerConfig{OverShipmentPolicy: opts.policy, ShipmentPrefix: "SH"})
	f.stock = inventory.NewStockUseCase(reads, f.cache, f.bus, metrics, log)
	return f
}

func (f *fixture) purchaseLine(id, po, product, color string, ordered, received int64) {
	f.store.SeedPurchaseLine(entity.PurchaseOrderLine{
		ID: id, CompanyID: company, PurchaseOrderID: po, ProductID: product, Color: color,
		OrderedQuantity: kg(ordered), ReceivedQuantity: kg(received),
		Status: inv.PurchaseLineStatus(kg(ordered), kg(received)),
	})
}

func (f *fixture) orderLine(id, order, product, color string, qty, shipped int64) {
	f.store.SeedOrderLine(entity.OrderLine{
		ID: id, CompanyID: company, OrderID: order, ProductID: product, Color: color,
		Quantity: kg(qty), ShippedQuantity: kg(shipped),
		Status: inv.OrderLineStatus(kg(qty), kg(shipped)),
	})
}

func (f *fixture) kinds() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Kind)
	}
	return out
}

// receiveRolls recibe rollos forzados y devuelve sus ids.
func (f *fixture) receiveRolls(t *testing.T, lineID, po string, qualities []entity.Quality, qtys ...int64) []string {
	t.Helper()
	items := make([]inventory.ReceiptItemInput, 0, len(qtys))
	for i, q := range qtys {
		items = append(items, inventory.ReceiptItemInput{
			OrderLineID: lineID, Quantity: kg(q), Quality: qualities[i%len(qualities)], WarehouseID: "bodega-1",
		})
	}
	res, err := f.receive.CreateReceipt(context.Background(), inventory.ReceiptInput{
		CompanyID: company, UserID: "u1", PurchaseOrderID: po, Force: true, Items: items,
	})
	if err != nil {
		t.Fatalf("recepción: %v", err)
	}
	ids := make([]string, 0, len(res.Rolls))
	for _, r := range res.Rolls {
		ids = append(ids, r.ID)
	}
	return ids
}
