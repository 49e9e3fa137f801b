package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
	"github.com/jhoicas/telas-api/internal/domain/repository"
	"github.com/jhoicas/telas-api/pkg/logger"
)

// StockUseCase lecturas del libro: resumen, pendientes, alertas, umbrales y rollos disponibles.
type StockUseCase struct {
	reads   repository.LedgerRepos
	cache   StockSummaryCache
	events  EventPublisher
	metrics Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(
	reads repository.LedgerRepos,
	cache StockSummaryCache,
	events EventPublisher,
	metrics Metrics,
	log *logger.Logger,
) *StockUseCase {
	return &StockUseCase{
		reads:   reads,
		cache:   cache,
		events:  events,
		metrics: metrics,
		log:     log,
		now:     time.Now,
	}
}

// GetStockSummary filas por (producto, color) con stock por grado y pendientes.
// Se recalcula desde el almacén salvo acierto de caché.
func (uc *StockUseCase) GetStockSummary(ctx context.Context, companyID string) ([]entity.StockPosition, error) {
	ctx, span := tracer.Start(ctx, "inventory.GetStockSummary")
	defer span.End()
	span.SetAttributes(attribute.String("company.id", companyID))

	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}

	if cached, ok, err := uc.cache.Get(ctx, companyID); err != nil {
		uc.log.WithContext(ctx).Warn().Err(err).Msg("caché de stock no disponible")
	} else if ok {
		uc.metrics.SummaryCache(true)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	uc.metrics.SummaryCache(false)

	// La generación se lee antes de calcular: una invalidación concurrente descarta este resultado.
	gen, genErr := uc.cache.Generation(ctx, companyID)
	if genErr != nil {
		uc.log.WithContext(ctx).Warn().Err(genErr).Msg("caché de stock no disponible")
	}

	rolls, err := uc.reads.Rolls.ListInStock(ctx, companyID)
	if err != nil {
		return nil, domain.Persistence("listar rollos en stock", err)
	}
	inbound, err := uc.GetPendingInbound(ctx, companyID)
	if err != nil {
		return nil, err
	}
	outbound, err := uc.GetPendingOutbound(ctx, companyID)
	if err != nil {
		return nil, err
	}

	positions := inv.AggregateStock(rolls, inbound, outbound)
	if genErr == nil {
		if err := uc.cache.Set(ctx, companyID, gen, positions); err != nil {
			uc.log.WithContext(ctx).Warn().Err(err).Msg("no se pudo guardar el resumen en caché")
		}
	}
	return positions, nil
}

// GetPendingInbound líneas de compra abiertas con su saldo por recibir.
func (uc *StockUseCase) GetPendingInbound(ctx context.Context, companyID string) ([]entity.PendingLine, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	lines, err := uc.reads.PurchaseLines.ListOpen(ctx, companyID)
	if err != nil {
		return nil, domain.Persistence("listar líneas de compra abiertas", err)
	}
	out := make([]entity.PendingLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.PendingLine{
			LineID:    l.ID,
			OrderID:   l.PurchaseOrderID,
			ProductID: l.ProductID,
			Color:     l.Color,
			Ordered:   l.OrderedQuantity,
			Done:      l.ReceivedQuantity,
			Remaining: inv.PositiveRemaining(l.OrderedQuantity, l.ReceivedQuantity),
			Status:    l.Status,
		})
	}
	sortPending(out)
	return out, nil
}

// GetPendingOutbound líneas de pedido abiertas con su saldo por despachar.
func (uc *StockUseCase) GetPendingOutbound(ctx context.Context, companyID string) ([]entity.PendingLine, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	lines, err := uc.reads.OrderLines.ListOpen(ctx, companyID)
	if err != nil {
		return nil, domain.Persistence("listar líneas de pedido abiertas", err)
	}
	out := make([]entity.PendingLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, entity.PendingLine{
			LineID:    l.ID,
			OrderID:   l.OrderID,
			ProductID: l.ProductID,
			Color:     l.Color,
			Ordered:   l.Quantity,
			Done:      l.ShippedQuantity,
			Remaining: inv.PositiveRemaining(l.Quantity, l.ShippedQuantity),
			Status:    l.Status,
		})
	}
	sortPending(out)
	return out, nil
}

func sortPending(lines []entity.PendingLine) {
	sort.Slice(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.Color != b.Color {
			return a.Color < b.Color
		}
		return a.LineID < b.LineID
	})
}

// GetStockAlerts evalúa los productos con umbral. level vacío devuelve warning y critical.
func (uc *StockUseCase) GetStockAlerts(ctx context.Context, companyID, level string) ([]inv.StockAlert, error) {
	var lvl inv.AlertLevel
	if level != "" {
		l, ok := inv.ParseAlertLevel(level)
		if !ok {
			return nil, domain.Invalid("level", "debe ser ok, warning o critical")
		}
		lvl = l
	}
	positions, err := uc.GetStockSummary(ctx, companyID)
	if err != nil {
		return nil, err
	}
	thresholds, err := uc.reads.Thresholds.List(ctx, companyID)
	if err != nil {
		return nil, domain.Persistence("listar umbrales", err)
	}
	byProduct := make(map[string]decimal.Decimal, len(thresholds))
	for _, t := range thresholds {
		byProduct[t.ProductID] = t.Quantity
	}
	alerts := inv.EvaluateAlerts(inv.StockByProduct(positions), byProduct)
	return inv.FilterAlerts(alerts, lvl), nil
}

// SetThreshold crea o reemplaza el umbral del producto (kg > 0).
func (uc *StockUseCase) SetThreshold(ctx context.Context, companyID, productID string, quantity decimal.Decimal) (*entity.StockThreshold, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	if productID == "" {
		return nil, domain.Invalid("product_id", "requerido")
	}
	if !quantity.IsPositive() {
		return nil, domain.Invalid("quantity", "el umbral debe ser mayor que cero")
	}
	t := &entity.StockThreshold{
		CompanyID: companyID,
		ProductID: productID,
		Quantity:  quantity,
		UpdatedAt: uc.now(),
	}
	if err := uc.reads.Thresholds.Upsert(ctx, t); err != nil {
		return nil, domain.Persistence("guardar umbral", err)
	}
	uc.publishThreshold(ctx, companyID, productID, quantity)
	return t, nil
}

// ClearThreshold elimina el umbral; el producto deja de alertar.
func (uc *StockUseCase) ClearThreshold(ctx context.Context, companyID, productID string) error {
	if companyID == "" {
		return domain.ErrMissingTenant
	}
	if productID == "" {
		return domain.Invalid("product_id", "requerido")
	}
	if err := uc.reads.Thresholds.Delete(ctx, companyID, productID); err != nil {
		return domain.Persistence("eliminar umbral", err)
	}
	uc.publishThreshold(ctx, companyID, productID, decimal.Zero)
	return nil
}

// ListThresholds umbrales de la empresa ordenados por producto.
func (uc *StockUseCase) ListThresholds(ctx context.Context, companyID string) ([]entity.StockThreshold, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	list, err := uc.reads.Thresholds.List(ctx, companyID)
	if err != nil {
		return nil, domain.Persistence("listar umbrales", err)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ProductID < list[j].ProductID })
	return list, nil
}

func (uc *StockUseCase) publishThreshold(ctx context.Context, companyID, productID string, qty decimal.Decimal) {
	uc.events.Publish(ctx, []entity.LedgerEvent{{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		Kind:       entity.EventThresholdChanged,
		ProductID:  productID,
		Quantity:   qty,
		OccurredAt: uc.now(),
	}})
}

// ListAvailableRolls rollos con cantidad positiva del producto, por número de rollo.
func (uc *StockUseCase) ListAvailableRolls(ctx context.Context, companyID string, f repository.RollFilter) ([]entity.Roll, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	if f.ProductID == "" {
		return nil, domain.Invalid("product_id", "requerido")
	}
	rolls, err := uc.reads.Rolls.ListAvailable(ctx, companyID, f)
	if err != nil {
		return nil, domain.Persistence("listar rollos disponibles", err)
	}
	return rolls, nil
}

// GetRoll un rollo de la empresa.
func (uc *StockUseCase) GetRoll(ctx context.Context, companyID, id string) (*entity.Roll, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	roll, err := uc.reads.Rolls.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, domain.Persistence("obtener rollo", err)
	}
	if roll == nil {
		return nil, domain.ErrNotFound
	}
	return roll, nil
}
