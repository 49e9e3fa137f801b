package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// state copia completa del libro; las transacciones trabajan sobre un clon.
type state struct {
	rolls         map[string]entity.Roll
	purchaseLines map[string]entity.PurchaseOrderLine
	orderLines    map[string]entity.OrderLine
	receipts      map[string]entity.ReceiptBatch
	shipments     map[string]entity.ShipmentBatch
	items         []entity.ShipmentItem
	sequences     map[string]int64
	thresholds    map[string]entity.StockThreshold
}

func newState() *state {
	return &state{
		rolls:         make(map[string]entity.Roll),
		purchaseLines: make(map[string]entity.PurchaseOrderLine),
		orderLines:    make(map[string]entity.OrderLine),
		receipts:      make(map[string]entity.ReceiptBatch),
		shipments:     make(map[string]entity.ShipmentBatch),
		sequences:     make(map[string]int64),
		thresholds:    make(map[string]entity.StockThreshold),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.rolls {
		c.rolls[k] = v
	}
	for k, v := range s.purchaseLines {
		c.purchaseLines[k] = v
	}
	for k, v := range s.orderLines {
		c.orderLines[k] = v
	}
	for k, v := range s.receipts {
		c.receipts[k] = v
	}
	for k, v := range s.shipments {
		c.shipments[k] = v
	}
	c.items = append([]entity.ShipmentItem(nil), s.items...)
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	for k, v := range s.thresholds {
		c.thresholds[k] = v
	}
	return c
}

// Store almacén en memoria del libro de rollos (desarrollo y tests).
// Las transacciones se serializan: Run trabaja sobre un clon y lo publica solo si fn termina sin error.
type Store struct {
	txMu   sync.Mutex
	dataMu sync.RWMutex
	st     *state

	faultMu sync.Mutex
	faults  map[string]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: make(map[string]error)}
}

// Repos repositorios fuera de transacción.
func (s *Store) Repos() repository.LedgerRepos {
	return reposFor(handle{store: s})
}

// Run ejecuta fn con repositorios atados a un clon del estado. Commit = reemplazar el estado.
func (s *Store) Run(ctx context.Context, fn func(repos repository.LedgerRepos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	s.dataMu.RLock()
	work := s.st.clone()
	s.dataMu.RUnlock()

	if err := fn(reposFor(handle{store: s, tx: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	s.dataMu.Lock()
	s.st = work
	s.dataMu.Unlock()
	return nil
}

// FailOn hace que la próxima llamada a op (ej. "shipments.create") falle con err.
func (s *Store) FailOn(op string, err error) {
	s.faultMu.Lock()
	s.faults[op] = err
	s.faultMu.Unlock()
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		return err
	}
	return nil
}

// SeedPurchaseLine registra una línea de orden de compra (la crea el módulo de compras).
func (s *Store) SeedPurchaseLine(l entity.PurchaseOrderLine) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.st.purchaseLines[l.ID] = l
}

// SeedOrderLine registra una línea de pedido de cliente.
func (s *Store) SeedOrderLine(l entity.OrderLine) {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.dataMu.Lock()
	defer s.dataMu.Unlock()
	s.st.orderLines[l.ID] = l
}

// handle apunta al estado vivo (tx == nil) o al clon de una transacción.
type handle struct {
	store *Store
	tx    *state
}

func (h handle) read(fn func(*state) error) error {
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.dataMu.RLock()
	defer h.store.dataMu.RUnlock()
	return fn(h.store.st)
}

func (h handle) write(op string, fn func(*state) error) error {
	if err := h.store.fault(op); err != nil {
		return err
	}
	if h.tx != nil {
		return fn(h.tx)
	}
	h.store.txMu.Lock()
	defer h.store.txMu.Unlock()
	h.store.dataMu.Lock()
	defer h.store.dataMu.Unlock()
	return fn(h.store.st)
}

func reposFor(h handle) repository.LedgerRepos {
	return repository.LedgerRepos{
		Rolls:         &RollRepo{h: h},
		PurchaseLines: &PurchaseLineRepo{h: h},
		OrderLines:    &OrderLineRepo{h: h},
		Receipts:      &ReceiptRepo{h: h},
		Shipments:     &ShipmentRepo{h: h},
		Sequences:     &SequenceRepo{h: h},
		Thresholds:    &ThresholdRepo{h: h},
	}
}

func key(parts ...string) string {
	return strings.Join(parts, "|")
}
