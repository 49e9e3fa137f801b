package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback ante cualquier error.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.LedgerRepos) error) error
}

// EventPublisher recibe los eventos del libro una vez confirmada la transacción.
type EventPublisher interface {
	Publish(ctx context.Context, events []entity.LedgerEvent)
}

// Locker candado distribuido por clave. Si la clave ya está tomada devuelve *domain.ConflictError.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, err error)
}

// StockSummaryCache caché de lectura del resumen de stock por empresa.
// Invalidate avanza la generación; Set solo guarda si la generación sigue siendo gen,
// así un resumen calculado antes de una mutación no se escribe después de su invalidación.
type StockSummaryCache interface {
	Get(ctx context.Context, companyID string) ([]entity.StockPosition, bool, error)
	Generation(ctx context.Context, companyID string) (int64, error)
	Set(ctx context.Context, companyID string, gen int64, positions []entity.StockPosition) error
	Invalidate(ctx context.Context, companyID string) error
}

// Metrics contadores de negocio.
type Metrics interface {
	LedgerEvent(e entity.LedgerEvent)
	ShipmentItemRejected(reason string)
	OverageWarning()
	SummaryCache(hit bool)
}

type nopLocker struct{}

func (nopLocker) Obtain(context.Context, string, time.Duration) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// NopLocker no bloquea nada (una sola instancia o tests).
func NopLocker() Locker { return nopLocker{} }

type nopCache struct{}

func (nopCache) Get(context.Context, string) ([]entity.StockPosition, bool, error) {
	return nil, false, nil
}
func (nopCache) Generation(context.Context, string) (int64, error)                { return 0, nil }
func (nopCache) Set(context.Context, string, int64, []entity.StockPosition) error { return nil }
func (nopCache) Invalidate(context.Context, string) error                         { return nil }

// NopCache caché deshabilitada.
func NopCache() StockSummaryCache { return nopCache{} }

type nopMetrics struct{}

func (nopMetrics) LedgerEvent(entity.LedgerEvent) {}
func (nopMetrics) ShipmentItemRejected(string)    {}
func (nopMetrics) OverageWarning()                {}
func (nopMetrics) SummaryCache(bool)              {}

// NopMetrics descarta las métricas.
func NopMetrics() Metrics { return nopMetrics{} }
