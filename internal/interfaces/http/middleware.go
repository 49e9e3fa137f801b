package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/telas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/telas-api/pkg/logger"
)

// Observability abre un span por petición (continuando el traceparent entrante),
// lo deja en c.UserContext() para los casos de uso y alimenta las métricas HTTP.
func Observability(m *metrics.Ledger, log *logger.Logger) fiber.Handler {
	tracer := otel.Tracer("telas-api/http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		carrier := propagation.HeaderCarrier(http.Header(c.GetReqHeaders()))
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), carrier)
		ctx, span := tracer.Start(ctx, c.Method()+" "+c.Path(), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(
			attribute.String("http.method", c.Method()),
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, strconv.Itoa(status))
		}
		if m != nil {
			m.RequestCounter.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
			m.RequestLatency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		}
		log.WithContext(ctx).Debug().
			Str("method", c.Method()).
			Str("route", route).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Msg("petición HTTP")
		return err
	}
}
