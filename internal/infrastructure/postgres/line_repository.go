package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var (
	_ repository.PurchaseLineRepository = (*PurchaseLineRepo)(nil)
	_ repository.OrderLineRepository    = (*OrderLineRepo)(nil)
)

const purchaseLineColumns = `id, company_id, purchase_order_id, product_id, color, ordered_quantity, received_quantity, status, updated_at`

// PurchaseLineRepo líneas de órdenes de compra (solo contadores y estado).
type PurchaseLineRepo struct {
	q Querier
}

// NewPurchaseLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseLineRepository(q Querier) *PurchaseLineRepo {
	return &PurchaseLineRepo{q: q}
}

func (r *PurchaseLineRepo) GetByID(ctx context.Context, companyID, id string) (*entity.PurchaseOrderLine, error) {
	return r.get(ctx, "get purchase line", `SELECT `+purchaseLineColumns+`
		FROM purchase_order_lines WHERE company_id = $1 AND id = $2`, id, companyID, id)
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE) hasta el fin de la tx.
func (r *PurchaseLineRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.PurchaseOrderLine, error) {
	return r.get(ctx, "get purchase line for update", `SELECT `+purchaseLineColumns+`
		FROM purchase_order_lines WHERE company_id = $1 AND id = $2
		FOR UPDATE`, id, companyID, id)
}

func (r *PurchaseLineRepo) get(ctx context.Context, op, query, id string, args ...any) (*entity.PurchaseOrderLine, error) {
	if !isUUID(id) {
		return nil, nil
	}
	l, err := scanPurchaseLine(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

func (r *PurchaseLineRepo) UpdateProgress(ctx context.Context, line *entity.PurchaseOrderLine) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_order_lines
		SET received_quantity = $3, status = $4, updated_at = $5
		WHERE company_id = $1 AND id = $2`,
		line.CompanyID, line.ID, line.ReceivedQuantity, line.Status, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseLineRepo) ListOpen(ctx context.Context, companyID string) ([]entity.PurchaseOrderLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+purchaseLineColumns+`
		FROM purchase_order_lines
		WHERE company_id = $1 AND status <> $2
		ORDER BY product_id, color, id`, companyID, entity.PurchaseLineCompleted)
	if err != nil {
		return nil, fmt.Errorf("list open purchase lines: %w", err)
	}
	defer rows.Close()
	var out []entity.PurchaseOrderLine
	for rows.Next() {
		l, err := scanPurchaseLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func scanPurchaseLine(row pgx.Row) (*entity.PurchaseOrderLine, error) {
	var l entity.PurchaseOrderLine
	err := row.Scan(&l.ID, &l.CompanyID, &l.PurchaseOrderID, &l.ProductID, &l.Color,
		&l.OrderedQuantity, &l.ReceivedQuantity, &l.Status, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

const orderLineColumns = `id, company_id, order_id, product_id, color, quantity, shipped_quantity, status, updated_at`

// OrderLineRepo líneas de pedidos de cliente.
type OrderLineRepo struct {
	q Querier
}

// NewOrderLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderLineRepository(q Querier) *OrderLineRepo {
	return &OrderLineRepo{q: q}
}

func (r *OrderLineRepo) GetByID(ctx context.Context, companyID, id string) (*entity.OrderLine, error) {
	return r.get(ctx, "get order line", `SELECT `+orderLineColumns+`
		FROM order_lines WHERE company_id = $1 AND id = $2`, id, companyID, id)
}

func (r *OrderLineRepo) GetForUpdate(ctx context.Context, companyID, id string) (*entity.OrderLine, error) {
	return r.get(ctx, "get order line for update", `SELECT `+orderLineColumns+`
		FROM order_lines WHERE company_id = $1 AND id = $2
		FOR UPDATE`, id, companyID, id)
}

func (r *OrderLineRepo) get(ctx context.Context, op, query, id string, args ...any) (*entity.OrderLine, error) {
	if !isUUID(id) {
		return nil, nil
	}
	var l entity.OrderLine
	err := r.q.QueryRow(ctx, query, args...).Scan(&l.ID, &l.CompanyID, &l.OrderID, &l.ProductID, &l.Color,
		&l.Quantity, &l.ShippedQuantity, &l.Status, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &l, nil
}

func (r *OrderLineRepo) UpdateProgress(ctx context.Context, line *entity.OrderLine) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE order_lines
		SET shipped_quantity = $3, status = $4, updated_at = $5
		WHERE company_id = $1 AND id = $2`,
		line.CompanyID, line.ID, line.ShippedQuantity, line.Status, line.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderLineRepo) ListOpen(ctx context.Context, companyID string) ([]entity.OrderLine, error) {
	rows, err := r.q.Query(ctx, `SELECT `+orderLineColumns+`
		FROM order_lines
		WHERE company_id = $1 AND status <> $2
		ORDER BY product_id, color, id`, companyID, entity.OrderLineShipped)
	if err != nil {
		return nil, fmt.Errorf("list open order lines: %w", err)
	}
	defer rows.Close()
	var out []entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.OrderID, &l.ProductID, &l.Color,
			&l.Quantity, &l.ShippedQuantity, &l.Status, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
