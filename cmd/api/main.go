package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/telas-api/docs"
	"github.com/jhoicas/telas-api/internal/application/inventory"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
	"github.com/jhoicas/telas-api/internal/domain/repository"
	"github.com/jhoicas/telas-api/internal/infrastructure/cache"
	"github.com/jhoicas/telas-api/internal/infrastructure/events"
	"github.com/jhoicas/telas-api/internal/infrastructure/export"
	"github.com/jhoicas/telas-api/internal/infrastructure/memory"
	"github.com/jhoicas/telas-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/telas-api/internal/infrastructure/pdf"
	"github.com/jhoicas/telas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/telas-api/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/telas-api/internal/interfaces/http"
	"github.com/jhoicas/telas-api/pkg/config"
	"github.com/jhoicas/telas-api/pkg/logger"
	"github.com/jhoicas/telas-api/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("overship_policy", cfg.Ledger.OverShipmentPolicy).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.Tracing.Enabled {
		shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar tracing")
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				log.Error().Err(err).Msg("apagado de tracing")
			}
		}()
	}

	// Almacén: PostgreSQL o memoria (demo / desarrollo)
	var (
		txRunner inventory.TxRunner
		reads    repository.LedgerRepos
	)
	switch cfg.DB.Driver {
	case "memory":
		store := memory.NewStore()
		if cfg.DB.SeedFile != "" {
			loadSeed(store, cfg.DB.SeedFile, log)
		}
		txRunner, reads = store, store.Repos()
		log.Warn().Msg("almacén en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Strs("applied", applied).Msg("migraciones aplicadas")
		}
		txRunner, reads = postgres.NewTxRunner(pool), postgres.NewLedgerRepos(pool)
	}

	// Caché de resumen y candado por pedido: Redis si está configurado
	var (
		summaryCache inventory.StockSummaryCache
		locker       inventory.Locker
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		summaryCache = cache.NewRedisSummaryCache(rdb, cfg.Redis.CacheTTL)
		locker = cache.NewRedisLocker(rdb)
	} else {
		summaryCache = cache.NewMemorySummaryCache(cfg.Redis.CacheTTL)
		locker = cache.NewKeyedLocker()
	}

	ledgerMetrics := metrics.New(prometheus.DefaultRegisterer)

	bus := inventory.NewEventBus(log)
	bus.Subscribe(inventory.InvalidateSummaryOn(summaryCache, log))
	bus.Subscribe(inventory.CountEventsOn(ledgerMetrics))
	if cfg.Kafka.Enabled() {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Kafka")
		}
		defer publisher.Close()
		bus.Subscribe(publisher.Handler())
	}

	ledger := inventory.NewRollLedger(inv.NewTimeRollNumbers(cfg.Ledger.RollPrefix))
	receiveUC := inventory.NewReceiveUseCase(txRunner, reads, ledger, bus, ledgerMetrics, log)
	shipmentUC := inventory.NewShipmentUseCase(txRunner, reads, ledger, bus, locker, ledgerMetrics, log, cfg.Ledger)
	stockUC := inventory.NewStockUseCase(reads, summaryCache, bus, ledgerMetrics, log)
	documentsUC := inventory.NewDocumentsUseCase(shipmentUC, stockUC,
		infrapdf.NewPackingListGenerator(cfg.App.Name), export.NewStockXLSX())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Receive:   receiveUC,
		Shipment:  shipmentUC,
		Stock:     stockUC,
		Documents: documentsUC,
		Metrics:   ledgerMetrics,
		Gatherer:  prometheus.DefaultGatherer,
		Log:       log,
		AppName:   cfg.App.Name,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func loadSeed(store *memory.Store, path string, log *logger.Logger) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("abrir CSV de líneas")
	}
	defer f.Close()
	lines, err := seed.Parse(f, false)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("leer CSV de líneas")
	}
	lines.Apply(store)
	log.Info().
		Int("purchase_lines", len(lines.Purchase)).
		Int("order_lines", len(lines.Orders)).
		Msg("almacén en memoria precargado")
}
