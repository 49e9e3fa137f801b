package inventory

import (
	"context"
	"sync"

	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/pkg/logger"
)

// EventHandler suscriptor del bus de eventos del libro.
type EventHandler func(ctx context.Context, events []entity.LedgerEvent)

// EventBus reparte los eventos del libro en el mismo proceso (caché, Kafka, métricas).
// Los handlers se llaman en orden de suscripción; un panic en uno no afecta a los demás.
type EventBus struct {
	mu       sync.RWMutex
	handlers []EventHandler
	log      *logger.Logger
}

var _ EventPublisher = (*EventBus)(nil)

// NewEventBus construye el bus.
func NewEventBus(log *logger.Logger) *EventBus {
	if log == nil {
		log = logger.Nop()
	}
	return &EventBus{log: log}
}

// Subscribe registra un handler.
func (b *EventBus) Subscribe(h EventHandler) {
	b.mu.Lock()
	b.handlers = append(b.handlers, h)
	b.mu.Unlock()
}

// Publish entrega los eventos a todos los suscriptores.
func (b *EventBus) Publish(ctx context.Context, events []entity.LedgerEvent) {
	if len(events) == 0 {
		return
	}
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.dispatch(ctx, h, events)
	}
}

func (b *EventBus) dispatch(ctx context.Context, h EventHandler, events []entity.LedgerEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithContext(ctx).Error().Interface("panic", r).Int("events", len(events)).Msg("handler de eventos falló")
		}
	}()
	h(ctx, events)
}

// InvalidateSummaryOn suscriptor que invalida la caché del resumen de cada empresa afectada.
func InvalidateSummaryOn(cache StockSummaryCache, log *logger.Logger) EventHandler {
	return func(ctx context.Context, events []entity.LedgerEvent) {
		seen := make(map[string]struct{}, 1)
		for _, e := range events {
			if _, ok := seen[e.CompanyID]; ok {
				continue
			}
			seen[e.CompanyID] = struct{}{}
			if err := cache.Invalidate(ctx, e.CompanyID); err != nil {
				log.WithContext(ctx).Warn().Err(err).Str("company_id", e.CompanyID).Msg("no se pudo invalidar caché de stock")
			}
		}
	}
}

// CountEventsOn suscriptor que alimenta las métricas.
func CountEventsOn(m Metrics) EventHandler {
	return func(_ context.Context, events []entity.LedgerEvent) {
		for _, e := range events {
			m.LedgerEvent(e)
		}
	}
}
