// Package metrics contadores Prometheus del libro de rollos y del API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/domain/entity"
)

const namespace = "telas"

var _ inventory.Metrics = (*Ledger)(nil)

// Ledger métricas de negocio alimentadas por el bus de eventos y los casos de uso.
type Ledger struct {
	events          *prometheus.CounterVec
	kilograms       *prometheus.CounterVec
	rejected        *prometheus.CounterVec
	overageWarnings prometheus.Counter
	summaryCache    *prometheus.CounterVec

	RequestCounter *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
}

// New registra los colectores en reg (prometheus.DefaultRegisterer en producción).
func New(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_events_total",
			Help:      "Eventos del libro de rollos por tipo",
		}, []string{"kind"}),
		kilograms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_kilograms_total",
			Help:      "Kilogramos movidos por dirección (in = recibido, out = despachado)",
		}, []string{"direction"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shipment_items_rejected_total",
			Help:      "Pares de despacho rechazados por motivo",
		}, []string{"reason"}),
		overageWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "receipt_overage_warnings_total",
			Help:      "Recepciones detenidas por exceder lo pendiente",
		}),
		summaryCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_summary_cache_total",
			Help:      "Lecturas del resumen de stock por resultado de caché",
		}, []string{"result"}),
		RequestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total de peticiones HTTP",
		}, []string{"method", "route", "status"}),
		RequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latencia de peticiones HTTP",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.events, m.kilograms, m.rejected, m.overageWarnings, m.summaryCache, m.RequestCounter, m.RequestLatency)
	return m
}

func (m *Ledger) LedgerEvent(e entity.LedgerEvent) {
	m.events.WithLabelValues(e.Kind).Inc()
	switch e.Kind {
	case entity.EventRollCreated:
		m.kilograms.WithLabelValues("in").Add(e.Quantity.InexactFloat64())
	case entity.EventRollDeducted:
		m.kilograms.WithLabelValues("out").Add(e.Quantity.InexactFloat64())
	}
}

func (m *Ledger) ShipmentItemRejected(reason string) {
	m.rejected.WithLabelValues(reason).Inc()
}

func (m *Ledger) OverageWarning() { m.overageWarnings.Inc() }

func (m *Ledger) SummaryCache(hit bool) {
	if hit {
		m.summaryCache.WithLabelValues("hit").Inc()
		return
	}
	m.summaryCache.WithLabelValues("miss").Inc()
}
