package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	inv "github.com/jhoicas/telas-api/internal/domain/inventory"
	"github.com/jhoicas/telas-api/internal/domain/repository"
	"github.com/jhoicas/telas-api/pkg/config"
	"github.com/jhoicas/telas-api/pkg/logger"
)

// Motivos de rechazo de un ítem de despacho.
const (
	RejectInvalidQuantity = "invalid_quantity"
	RejectLineNotInOrder  = "line_not_in_order"
	RejectRollNotFound    = "roll_not_found"
	RejectProductMismatch = "product_mismatch"
	RejectInsufficient    = "insufficient_quantity"
	RejectOverShipment    = "over_shipment"
)

const orderLockTTL = 30 * time.Second

// maxShipmentNumberSkips tope de números ya ocupados que se saltan en un mismo día.
const maxShipmentNumberSkips = 1000

// ShipmentUseCase asigna rollos a líneas de pedido y descuenta el libro.
type ShipmentUseCase struct {
	txRunner TxRunner
	reads    repository.LedgerRepos
	ledger   *RollLedger
	events   EventPublisher
	locker   Locker
	metrics  Metrics
	log      *logger.Logger
	policy   string
	prefix   string
	now      func() time.Time
}

// NewShipmentUseCase construye el caso de uso con la política de sobre-despacho (strict|warn).
func NewShipmentUseCase(
	txRunner TxRunner,
	reads repository.LedgerRepos,
	ledger *RollLedger,
	events EventPublisher,
	locker Locker,
	metrics Metrics,
	log *logger.Logger,
	cfg config.LedgerConfig,
) *ShipmentUseCase {
	prefix := cfg.ShipmentPrefix
	if prefix == "" {
		prefix = "SH"
	}
	policy := cfg.OverShipmentPolicy
	if policy == "" {
		policy = config.OverShipmentWarn
	}
	return &ShipmentUseCase{
		txRunner: txRunner,
		reads:    reads,
		ledger:   ledger,
		events:   events,
		locker:   locker,
		metrics:  metrics,
		log:      log,
		policy:   policy,
		prefix:   prefix,
		now:      time.Now,
	}
}

// ShipmentItemInput par (línea, rollo, cantidad).
type ShipmentItemInput struct {
	OrderLineID string
	RollID      string
	Quantity    decimal.Decimal
}

// ShipmentInput entrada de CreateShipment. ShipmentDate cero = hoy.
type ShipmentInput struct {
	CompanyID    string
	UserID       string
	OrderID      string
	ShipmentDate time.Time
	Note         string
	Items        []ShipmentItemInput
}

// RejectedItem par rechazado individualmente; el resto del despacho sigue.
type RejectedItem struct {
	Index       int
	OrderLineID string
	RollID      string
	Quantity    decimal.Decimal
	Reason      string
	Err         error
}

// OverShipment línea cuyo despacho supera lo pendiente (política warn).
type OverShipment struct {
	OrderLineID string
	Quantity    decimal.Decimal
	Shipped     decimal.Decimal
	Remaining   decimal.Decimal
	Proposed    decimal.Decimal
}

// ShipmentResult lote creado, ítems aceptados, rechazos y advertencias.
type ShipmentResult struct {
	Batch    entity.ShipmentBatch
	Items    []entity.ShipmentItem
	Rolls    []entity.Roll
	Lines    []entity.OrderLine
	Rejected []RejectedItem
	Warnings []OverShipment
}

// CreateShipment valida cada par por separado, aplica la política de sobre-despacho y en una
// transacción descuenta los rollos, crea el lote con número SH-YYYYMMDD-NNN y actualiza las líneas.
func (uc *ShipmentUseCase) CreateShipment(ctx context.Context, in ShipmentInput) (*ShipmentResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.CreateShipment")
	defer span.End()
	span.SetAttributes(
		attribute.String("company.id", in.CompanyID),
		attribute.String("order.id", in.OrderID),
		attribute.Int("items", len(in.Items)),
		attribute.String("policy", uc.policy),
	)

	if in.CompanyID == "" {
		return nil, domain.ErrMissingTenant
	}
	if in.OrderID == "" {
		return nil, domain.Invalid("order_id", "requerido")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("items", "debe incluir al menos un rollo")
	}

	release, err := uc.locker.Obtain(ctx, "shipment:order:"+in.CompanyID+":"+in.OrderID, orderLockTTL)
	if err != nil {
		span.RecordError(err)
		return nil, domain.Persistence("bloquear pedido", err)
	}
	defer func() {
		if rerr := release(context.WithoutCancel(ctx)); rerr != nil {
			uc.log.WithContext(ctx).Warn().Err(rerr).Str("order_id", in.OrderID).Msg("no se pudo liberar el candado del pedido")
		}
	}()

	var (
		result *ShipmentResult
		events []entity.LedgerEvent
	)
	err = withConflictRetry(func() error {
		var err error
		result, events, err = uc.shipTx(ctx, in)
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "crear despacho")
		return nil, domain.Persistence("crear despacho", err)
	}

	for _, r := range result.Rejected {
		uc.metrics.ShipmentItemRejected(r.Reason)
		uc.log.WithContext(ctx).Warn().
			Str("order_id", in.OrderID).
			Str("order_line_id", r.OrderLineID).
			Str("roll_id", r.RollID).
			Str("reason", r.Reason).
			Msg("ítem de despacho rechazado")
	}
	for _, w := range result.Warnings {
		uc.log.WithContext(ctx).Warn().
			Str("order_line_id", w.OrderLineID).
			Str("proposed", w.Proposed.String()).
			Str("remaining", w.Remaining.String()).
			Msg("despacho supera lo pendiente de la línea")
	}

	uc.events.Publish(ctx, events)
	uc.log.WithContext(ctx).Info().
		Str("company_id", in.CompanyID).
		Str("shipment_number", result.Batch.ShipmentNumber).
		Int("rolls", result.Batch.RollCount).
		Str("total_kg", result.Batch.TotalQuantity.String()).
		Msg("despacho registrado")
	return result, nil
}

// nextShipmentNumber avanza la secuencia del día hasta un número libre.
// La fila de la secuencia queda bloqueada hasta el fin de la tx, así que dos despachos no comparten candidato.
func (uc *ShipmentUseCase) nextShipmentNumber(ctx context.Context, repos repository.LedgerRepos, companyID string, now time.Time) (string, error) {
	key := uc.prefix + "-" + now.Format("20060102")
	var number string
	for i := 0; i < maxShipmentNumberSkips; i++ {
		seq, err := repos.Sequences.Next(ctx, companyID, key)
		if err != nil {
			return "", err
		}
		number = FormatShipmentNumber(uc.prefix, now, seq)
		used, err := repos.Shipments.ExistsNumber(ctx, companyID, number)
		if err != nil {
			return "", err
		}
		if !used {
			return number, nil
		}
	}
	return "", &domain.ConflictError{Resource: "shipment_number", Value: number}
}

type acceptedPair struct {
	index int
	in    ShipmentItemInput
}

func (uc *ShipmentUseCase) shipTx(ctx context.Context, in ShipmentInput) (*ShipmentResult, []entity.LedgerEvent, error) {
	var (
		result *ShipmentResult
		events []entity.LedgerEvent
	)
	err := uc.txRunner.Run(ctx, func(repos repository.LedgerRepos) error {
		result, events = nil, nil
		res := &ShipmentResult{}
		reject := func(i int, it ShipmentItemInput, reason string, err error) {
			res.Rejected = append(res.Rejected, RejectedItem{
				Index: i, OrderLineID: it.OrderLineID, RollID: it.RollID,
				Quantity: it.Quantity, Reason: reason, Err: err,
			})
		}

		// Bloquear líneas en orden de id.
		lineIDs := make([]string, 0, len(in.Items))
		seen := make(map[string]bool)
		for _, it := range in.Items {
			if it.OrderLineID != "" && !seen[it.OrderLineID] {
				seen[it.OrderLineID] = true
				lineIDs = append(lineIDs, it.OrderLineID)
			}
		}
		sort.Strings(lineIDs)
		lines := make(map[string]*entity.OrderLine, len(lineIDs))
		for _, id := range lineIDs {
			line, err := repos.OrderLines.GetForUpdate(ctx, in.CompanyID, id)
			if err != nil {
				return err
			}
			if line != nil && line.OrderID == in.OrderID {
				lines[id] = line
			}
		}

		rolls := make(map[string]*entity.Roll)
		used := make(map[string]decimal.Decimal)
		var accepted []acceptedPair
		for i, it := range in.Items {
			if !it.Quantity.IsPositive() {
				reject(i, it, RejectInvalidQuantity, &domain.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "debe ser mayor que cero", LineID: it.OrderLineID})
				continue
			}
			line, ok := lines[it.OrderLineID]
			if !ok {
				reject(i, it, RejectLineNotInOrder, &domain.ValidationError{Field: fmt.Sprintf("items[%d].order_line_id", i), Reason: "la línea no pertenece al pedido", LineID: it.OrderLineID})
				continue
			}
			roll, ok := rolls[it.RollID]
			if !ok {
				r, err := repos.Rolls.GetByID(ctx, in.CompanyID, it.RollID)
				if err != nil {
					return err
				}
				roll = r
				rolls[it.RollID] = r
			}
			if roll == nil {
				reject(i, it, RejectRollNotFound, &domain.ValidationError{Field: fmt.Sprintf("items[%d].roll_id", i), Reason: "rollo no encontrado", LineID: it.OrderLineID})
				continue
			}
			if roll.ProductID != line.ProductID {
				reject(i, it, RejectProductMismatch, &domain.ValidationError{Field: fmt.Sprintf("items[%d].roll_id", i), Reason: "el rollo no corresponde al producto de la línea", LineID: it.OrderLineID})
				continue
			}
			total := used[roll.ID].Add(it.Quantity)
			if total.GreaterThan(roll.CurrentQuantity) {
				reject(i, it, RejectInsufficient, &domain.InsufficientQuantityError{
					RollID: roll.ID, Requested: total, Available: roll.CurrentQuantity,
				})
				continue
			}
			used[roll.ID] = total
			accepted = append(accepted, acceptedPair{index: i, in: it})
		}

		accepted = uc.applyPolicy(accepted, lines, res, reject)
		if len(accepted) == 0 {
			return noValidItems(res.Rejected)
		}

		now := uc.now()
		batch := entity.ShipmentBatch{
			ID:            uuid.New().String(),
			CompanyID:     in.CompanyID,
			OrderID:       in.OrderID,
			ShipmentDate:  truncateDay(orNow(in.ShipmentDate, now)),
			Note:          in.Note,
			TotalQuantity: decimal.Zero,
			CreatedBy:     in.UserID,
			CreatedAt:     now,
		}

		// Descuento atómico; si otro despacho consumió el rollo, solo se rechaza ese par.
		shippedByLine := make(map[string]decimal.Decimal)
		var deducted []acceptedPair
		for _, p := range accepted {
			roll, ev, err := uc.ledger.DeductRoll(ctx, repos.Rolls, in.CompanyID, p.in.RollID, batch.ID, p.in.Quantity)
			if err != nil {
				var insufficient *domain.InsufficientQuantityError
				if errors.As(err, &insufficient) {
					reject(p.index, p.in, RejectInsufficient, insufficient)
					continue
				}
				return err
			}
			deducted = append(deducted, p)
			events = append(events, ev)
			res.Rolls = append(res.Rolls, *roll)
			shippedByLine[p.in.OrderLineID] = shippedByLine[p.in.OrderLineID].Add(p.in.Quantity)
			batch.TotalQuantity = batch.TotalQuantity.Add(p.in.Quantity)
		}
		if len(deducted) == 0 {
			return noValidItems(res.Rejected)
		}
		batch.RollCount = len(deducted)

		number, err := uc.nextShipmentNumber(ctx, repos, in.CompanyID, now)
		if err != nil {
			return err
		}
		batch.ShipmentNumber = number
		if err := repos.Shipments.Create(ctx, &batch); err != nil {
			return err
		}
		for _, p := range deducted {
			item := entity.ShipmentItem{
				ID:          uuid.New().String(),
				ShipmentID:  batch.ID,
				OrderLineID: p.in.OrderLineID,
				RollID:      p.in.RollID,
				Quantity:    p.in.Quantity,
			}
			if err := repos.Shipments.AddItem(ctx, &item); err != nil {
				return err
			}
			res.Items = append(res.Items, item)
		}

		for _, id := range lineIDs {
			qty, ok := shippedByLine[id]
			if !ok {
				continue
			}
			line := lines[id]
			line.ShippedQuantity = line.ShippedQuantity.Add(qty)
			line.Status = inv.OrderLineStatus(line.Quantity, line.ShippedQuantity)
			line.UpdatedAt = now
			if err := repos.OrderLines.UpdateProgress(ctx, line); err != nil {
				return err
			}
			res.Lines = append(res.Lines, *line)
		}

		sort.SliceStable(res.Rejected, func(i, j int) bool { return res.Rejected[i].Index < res.Rejected[j].Index })
		res.Batch = batch
		events = append(events, entity.LedgerEvent{
			ID:          uuid.New().String(),
			CompanyID:   in.CompanyID,
			Kind:        entity.EventShipmentCreated,
			ReferenceID: batch.ID,
			Quantity:    batch.TotalQuantity,
			OccurredAt:  now,
		})
		result = res
		return nil
	})
	return result, events, err
}

// applyPolicy compara la suma aceptada por línea contra lo pendiente.
// strict rechaza todos los pares de la línea; warn los deja pasar y registra la advertencia.
func (uc *ShipmentUseCase) applyPolicy(
	accepted []acceptedPair,
	lines map[string]*entity.OrderLine,
	res *ShipmentResult,
	reject func(int, ShipmentItemInput, string, error),
) []acceptedPair {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, p := range accepted {
		if _, ok := sums[p.in.OrderLineID]; !ok {
			order = append(order, p.in.OrderLineID)
		}
		sums[p.in.OrderLineID] = sums[p.in.OrderLineID].Add(p.in.Quantity)
	}

	over := make(map[string]bool)
	for _, id := range order {
		l := lines[id]
		remaining := l.Remaining()
		if sums[id].LessThanOrEqual(remaining) {
			continue
		}
		if uc.policy == config.OverShipmentStrict {
			over[id] = true
			continue
		}
		res.Warnings = append(res.Warnings, OverShipment{
			OrderLineID: id,
			Quantity:    l.Quantity,
			Shipped:     l.ShippedQuantity,
			Remaining:   remaining,
			Proposed:    sums[id],
		})
	}
	if len(over) == 0 {
		return accepted
	}

	kept := accepted[:0:0]
	for _, p := range accepted {
		if over[p.in.OrderLineID] {
			reject(p.index, p.in, RejectOverShipment, &domain.ValidationError{
				Field:  fmt.Sprintf("items[%d].quantity", p.index),
				Reason: "el despacho supera lo pendiente de la línea",
				LineID: p.in.OrderLineID,
			})
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

func noValidItems(rejected []RejectedItem) error {
	reason := "ningún ítem del despacho es válido"
	if len(rejected) > 0 && rejected[0].Err != nil {
		reason += ": " + rejected[0].Err.Error()
	}
	return &domain.ValidationError{Field: "items", Reason: reason}
}

// FormatShipmentNumber PREFIJO-YYYYMMDD-NNN.
func FormatShipmentNumber(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%03d", prefix, day.Format("20060102"), seq)
}

// GetShipment lote de despacho con sus ítems.
func (uc *ShipmentUseCase) GetShipment(ctx context.Context, companyID, id string) (*ShipmentResult, error) {
	if companyID == "" {
		return nil, domain.ErrMissingTenant
	}
	batch, err := uc.reads.Shipments.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, domain.Persistence("obtener despacho", err)
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.reads.Shipments.ListItems(ctx, batch.ID)
	if err != nil {
		return nil, domain.Persistence("listar ítems del despacho", err)
	}
	res := &ShipmentResult{Batch: *batch, Items: items}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if seen[it.RollID] {
			continue
		}
		seen[it.RollID] = true
		roll, err := uc.reads.Rolls.GetByID(ctx, companyID, it.RollID)
		if err != nil {
			return nil, domain.Persistence("obtener rollo", err)
		}
		if roll != nil {
			res.Rolls = append(res.Rolls, *roll)
		}
	}
	return res, nil
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
