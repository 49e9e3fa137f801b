package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
	"github.com/jhoicas/telas-api/internal/domain/repository"
	"github.com/jhoicas/telas-api/pkg/logger"
)

var tracer = otel.Tracer("telas-api/inventory")

// ReceiveUseCase concilia llegadas de mercancía contra líneas de órdenes de compra.
type ReceiveUseCase struct {
	txRunner TxRunner
	reads    repository.LedgerRepos
	ledger   *RollLedger
	events   EventPublisher
	metrics  Metrics
	log      *logger.Logger
	now      func() time.Time
}

// NewReceiveUseCase construye el caso de uso. reads se usa para consultas fuera de transacción.
func NewReceiveUseCase(
	txRunner TxRunner,
	reads repository.LedgerRepos,
	ledger *RollLedger,
	events EventPublisher,
	metrics Metrics,
	log *logger.Logger,
) *ReceiveUseCase {
	return &ReceiveUseCase{
		txRunner: txRunner,
		reads:    reads,
		ledger:   ledger,
		events:   events,
		metrics:  metrics,
		log:      log,
		now:      time.Now,
	}
}

// ReceiptItemInput un rollo físico recibido.
type ReceiptItemInput struct {
	OrderLineID string
	Quantity    decimal.Decimal
	Quality     entity.Quality
	WarehouseID string
	Shelf       string
}

// ReceiptInput entrada de CreateReceipt. ArrivalDate cero = hoy.
type ReceiptInput struct {
	CompanyID       string
	UserID          string
	PurchaseOrderID string
	ArrivalDate     time.Time
	Note            string
	Force           bool
	Items           []ReceiptItemInput
}

// ReceiptResult lote creado, sus rollos y las líneas actualizadas.
type ReceiptResult struct {
	Batch entity.ReceiptBatch
	Rolls []entity.Roll
	Lines []entity.PurchaseOrderLine
}

// CreateReceipt valida todos los ítems, verifica sobre-recepción y en una sola transacción
// crea el lote, un rollo por ítem y actualiza el recibido de cada línea (con la fila bloqueada).
// Sin Force, cualquier línea que exceda lo pendiente devuelve *domain.OverageWarning sin escribir nada.
func (uc *ReceiveUseCase) CreateReceipt(ctx context.Context, in ReceiptInput) (*ReceiptResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.CreateReceipt")
	defer span.End()
	span.SetAttributes(
		attribute.String("company.id", in.CompanyID),
		attribute.String("purchase_order.id", in.PurchaseOrderID),
		attribute.Int("items", len(in.Items)),
		attribute.Bool("force", in.Force),
	)

	if in.CompanyID == "" {
		return nil, domain.ErrMissingTenant
	}
	if err := validateReceiptInput(in); err != nil {
		span.SetStatus(codes.Error, "validación")
		return nil, err
	}

	var (
		result *ReceiptResult
		events []entity.LedgerEvent
	)
	err := withConflictRetry(func() error {
		var err error
		result, events, err = uc.receiveTx(ctx, in)
		return err
	})
	if err != nil {
		var overage *domain.OverageWarning
		if errors.As(err, &overage) {
			uc.metrics.OverageWarning()
			uc.log.WithContext(ctx).Warn().
				Str("company_id", in.CompanyID).
				Str("purchase_order_id", in.PurchaseOrderID).
				Int("lines", len(overage.Lines)).
				Msg("recepción excede lo pendiente, requiere confirmación")
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "crear recepción")
		return nil, domain.Persistence("crear recepción", err)
	}

	uc.events.Publish(ctx, events)
	uc.log.WithContext(ctx).Info().
		Str("company_id", in.CompanyID).
		Str("receipt_id", result.Batch.ID).
		Int("rolls", result.Batch.RollCount).
		Str("total_kg", result.Batch.TotalQuantity.String()).
		Msg("recepción registrada")
	return result, nil
}

func validateReceiptInput(in ReceiptInput) error {
	if in.PurchaseOrderID == "" {
		return domain.Invalid("purchase_order_id", "requerido")
	}
	if len(in.Items) == 0 {
		return domain.Invalid("items", "debe incluir al menos un rollo")
	}
	for i, it := range in.Items {
		if it.OrderLineID == "" {
			return domain.Invalid(fmt.Sprintf("items[%d].order_line_id", i), "requerido")
		}
		if verr := ValidateNewRoll(it.Quantity, it.Quality, it.WarehouseID); verr != nil {
			verr.Field = fmt.Sprintf("items[%d].%s", i, verr.Field)
			verr.LineID = it.OrderLineID
			return verr
		}
	}
	return nil
}

func (uc *ReceiveUseCase) receiveTx(ctx context.Context, in ReceiptInput) (*ReceiptResult, []entity.LedgerEvent, error) {
	var (
		result *ReceiptResult
		events []entity.LedgerEvent
	)
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		result, events = nil, nil

		// Suma propuesta por línea, en orden de primera aparición.
		proposed := make(map[string]decimal.Decimal)
		var order []string
		for _, it := range in.Items {
			if _, ok := proposed[it.OrderLineID]; !ok {
				order = append(order, it.OrderLineID)
			}
			proposed[it.OrderLineID] = proposed[it.OrderLineID].Add(it.Quantity)
		}

		// Bloqueo en orden de id para no cruzarse con otra recepción.
		lockOrder := append([]string(nil), order...)
		sort.Strings(lockOrder)
		lines := make(map[string]*entity.PurchaseOrderLine, len(order))
		for _, id := range lockOrder {
			line, err := repos.PurchaseLines.GetForUpdate(ctx, in.CompanyID, id)
			if err != nil {
				return err
			}
			if line == nil || line.PurchaseOrderID != in.PurchaseOrderID {
				return &domain.ValidationError{Field: "order_line_id", Reason: "la línea no pertenece a la orden de compra", LineID: id}
			}
			lines[id] = line
		}

		if !in.Force {
			var over []domain.LineOverage
			for _, id := range order {
				l := lines[id]
				remaining := l.Remaining()
				if proposed[id].GreaterThan(remaining) {
					over = append(over, domain.LineOverage{
						LineID:    id,
						ProductID: l.ProductID,
						Ordered:   l.OrderedQuantity,
						Received:  l.ReceivedQuantity,
						Remaining: remaining,
						Proposed:  proposed[id],
					})
				}
			}
			if len(over) > 0 {
				return &domain.OverageWarning{Lines: over}
			}
		}

		now := uc.now()
		arrival := in.ArrivalDate
		if arrival.IsZero() {
			arrival = now
		}
		batch := entity.ReceiptBatch{
			ID:              uuid.New().String(),
			CompanyID:       in.CompanyID,
			PurchaseOrderID: in.PurchaseOrderID,
			ArrivalDate:     truncateDay(arrival),
			Note:            in.Note,
			TotalQuantity:   decimal.Zero,
			RollCount:       len(in.Items),
			CreatedBy:       in.UserID,
			CreatedAt:       now,
		}
		for _, it := range in.Items {
			batch.TotalQuantity = batch.TotalQuantity.Add(it.Quantity)
		}
		if err := repos.Receipts.Create(ctx, &batch); err != nil {
			return err
		}

		res := &ReceiptResult{Batch: batch}
		for _, it := range in.Items {
			line := lines[it.OrderLineID]
			roll, ev, err := uc.ledger.CreateRoll(ctx, repos.Rolls, NewRoll{
				CompanyID:           in.CompanyID,
				BatchID:             batch.ID,
				PurchaseOrderLineID: line.ID,
				ProductID:           line.ProductID,
				Color:               line.Color,
				Quantity:            it.Quantity,
				Quality:             it.Quality,
				WarehouseID:         it.WarehouseID,
				Shelf:               it.Shelf,
			})
			if err != nil {
				return err
			}
			res.Rolls = append(res.Rolls, *roll)
			events = append(events, ev)
		}

		for _, id := range order {
			line := lines[id]
			line.ReceivedQuantity = line.ReceivedQuantity.Add(proposed[id])
			line.Status = inv.PurchaseLineStatus(line.OrderedQuantity, line.ReceivedQuantity)
			line.UpdatedAt = now
			if err := repos.PurchaseLines.UpdateProgress(ctx, line); err != nil {
				return err
			}
			res.Lines = append(res.Lines, *line)
		}

		events = append(events, entity.LedgerEvent{
			ID:          uuid.New().String(),
			CompanyID:   in.CompanyID,
			Kind:        entity.EventReceiptCreated,
			ReferenceID: batch.ID,
			Quantity:    batch.TotalQuantity,
			OccurredAt:  now,
		})
		result = res
		return nil
	})
	return result, events, err
}

// GetReceipt lote de recepción con sus rollos.
func (uc *ReceiveUseCase) GetReceipt(ctx context.Context, companyID, id string) (*ReceiptResult, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	batch, err := uc.reads.Receipts.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, domain.Persistence("obtener recepción", err)
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	rolls, err := uc.reads.Rolls.ListByBatch(ctx, companyID, id)
	if err != nil {
		return nil, domain.Persistence("listar rollos del lote", err)
	}
	return &ReceiptResult{Batch: *batch, Rolls: rolls}, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
