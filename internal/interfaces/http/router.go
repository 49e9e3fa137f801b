package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/telas-api/internal/application/inventory"
	"github.com/jhoicas/telas-api/internal/infrastructure/metrics"
	"github.com/jhoicas/telas-api/pkg/jwt"
	"github.com/jhoicas/telas-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Receive   *inventory.ReceiveUseCase
	Shipment  *inventory.ShipmentUseCase
	Stock     *inventory.StockUseCase
	Documents *inventory.DocumentsUseCase
	Metrics   *metrics.Ledger     // opcional
	Gatherer  prometheus.Gatherer // opcional; expone /metrics
	Log       *logger.Logger
	AppName   string
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app.Use(Observability(deps.Metrics, log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	// Recepciones
	receiptHandler := NewReceiptHandler(deps.Receive)
	receipts := api.Group("/receipts")
	receipts.Post("/", writers, receiptHandler.Create)
	receipts.Get("/:id", receiptHandler.GetByID)

	// Despachos
	shipmentHandler := NewShipmentHandler(deps.Shipment, deps.Documents)
	shipments := api.Group("/shipments")
	shipments.Post("/", writers, shipmentHandler.Create)
	shipments.Get("/:id/packing-list.pdf", shipmentHandler.PackingList)
	shipments.Get("/:id", shipmentHandler.GetByID)

	// Rollos
	rollHandler := NewRollHandler(deps.Stock)
	rolls := api.Group("/rolls")
	rolls.Get("/", rollHandler.ListAvailable)
	rolls.Get("/:id", rollHandler.GetByID)

	// Stock
	stockHandler := NewStockHandler(deps.Stock, deps.Documents)
	stock := api.Group("/stock")
	stock.Get("/summary", stockHandler.Summary)
	stock.Get("/summary.xlsx", stockHandler.SummaryXLSX)
	stock.Get("/pending-inbound", stockHandler.PendingInbound)
	stock.Get("/pending-outbound", stockHandler.PendingOutbound)
	stock.Get("/alerts", stockHandler.Alerts)
	stock.Get("/thresholds", stockHandler.ListThresholds)
	stock.Put("/thresholds/:product_id", adminOnly, stockHandler.SetThreshold)
	stock.Delete("/thresholds/:product_id", adminOnly, stockHandler.ClearThreshold)
}
