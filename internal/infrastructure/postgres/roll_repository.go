package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var _ repository.RollRepository = (*RollRepo)(nil)

const rollColumns = `id, company_id, batch_id, purchase_order_line_id, roll_number, product_id, color, quality,
	original_quantity, current_quantity, warehouse_id, shelf, exhausted, created_at, updated_at`

// RollRepo implementación del libro de rollos sobre PostgreSQL (usable con pool o tx).
type RollRepo struct {
	q Querier
}

// NewRollRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRollRepository(q Querier) *RollRepo {
	return &RollRepo{q: q}
}

// Create inserta el rollo. uq_rolls_company_number convierte un número repetido en ConflictError.
func (r *RollRepo) Create(ctx context.Context, roll *entity.Roll) error {
	if !isUUID(roll.WarehouseID) {
		return domain.Invalid("warehouse_id", "identificador inválido")
	}
	query := `
		INSERT INTO rolls (` + rollColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		roll.ID, roll.CompanyID, roll.BatchID, nullable(roll.PurchaseOrderLineID), roll.RollNumber,
		roll.ProductID, roll.Color, string(roll.Quality), roll.OriginalQuantity, roll.CurrentQuantity,
		roll.WarehouseID, nullable(roll.Shelf), roll.Exhausted, roll.CreatedAt, roll.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.ConflictError{Resource: "roll_number", Value: roll.RollNumber}
		}
		return fmt.Errorf("create roll: %w", err)
	}
	return nil
}

// GetByID obtiene un rollo de la empresa; (nil, nil) si no existe.
func (r *RollRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Roll, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `SELECT ` + rollColumns + ` FROM rolls WHERE company_id = $1 AND id = $2`
	roll, err := scanRoll(r.q.QueryRow(ctx, query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get roll: %w", err)
	}
	return roll, nil
}

// ExistsRollNumber consulta previa a la inserción (la constraint cubre la carrera).
func (r *RollRepo) ExistsRollNumber(ctx context.Context, companyID, rollNumber string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rolls WHERE company_id = $1 AND roll_number = $2)`,
		companyID, rollNumber,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists roll number: %w", err)
	}
	return exists, nil
}

// Deduct descuenta con chequeo en la misma sentencia: si current < amount no se toca la fila.
func (r *RollRepo) Deduct(ctx context.Context, companyID, id string, amount decimal.Decimal) (*entity.Roll, error) {
	if !isUUID(id) {
		return nil, domain.ErrNotFound
	}
	query := `
		UPDATE rolls
		SET current_quantity = current_quantity - $3,
			exhausted = (current_quantity - $3) <= 0,
			updated_at = now()
		WHERE company_id = $1 AND id = $2 AND current_quantity >= $3
		RETURNING ` + rollColumns
	roll, err := scanRoll(r.q.QueryRow(ctx, query, companyID, id, amount))
	if err == nil {
		return roll, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("deduct roll: %w", err)
	}

	// Sin filas: o no existe o no alcanza.
	var available decimal.Decimal
	err = r.q.QueryRow(ctx,
		`SELECT current_quantity FROM rolls WHERE company_id = $1 AND id = $2`, companyID, id,
	).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("deduct roll: %w", err)
	}
	return nil, &domain.InsufficientQuantityError{RollID: id, Requested: amount, Available: available}
}

// ListAvailable rollos con cantidad positiva, por número de rollo.
func (r *RollRepo) ListAvailable(ctx context.Context, companyID string, f repository.RollFilter) ([]entity.Roll, error) {
	query := `SELECT ` + rollColumns + ` FROM rolls
		WHERE company_id = $1 AND NOT exhausted AND current_quantity > 0`
	args := []any{companyID}
	pos := 2
	for _, id := range []string{f.ProductID, f.WarehouseID} {
		if id != "" && !isUUID(id) {
			return nil, nil
		}
	}
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.Color != "" {
		query += fmt.Sprintf(" AND color = $%d", pos)
		args = append(args, f.Color)
		pos++
	}
	if f.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, f.WarehouseID)
	}
	query += " ORDER BY roll_number"
	return r.list(ctx, "list available rolls", query, args...)
}

// ListInStock todos los rollos con existencia de la empresa.
func (r *RollRepo) ListInStock(ctx context.Context, companyID string) ([]entity.Roll, error) {
	query := `SELECT ` + rollColumns + ` FROM rolls
		WHERE company_id = $1 AND current_quantity > 0
		ORDER BY product_id, color, roll_number`
	return r.list(ctx, "list rolls in stock", query, companyID)
}

// ListByBatch rollos creados por un lote de recepción.
func (r *RollRepo) ListByBatch(ctx context.Context, companyID, batchID string) ([]entity.Roll, error) {
	if !isUUID(batchID) {
		return nil, nil
	}
	query := `SELECT ` + rollColumns + ` FROM rolls
		WHERE company_id = $1 AND batch_id = $2
		ORDER BY roll_number`
	return r.list(ctx, "list rolls by batch", query, companyID, batchID)
}

func (r *RollRepo) list(ctx context.Context, op, query string, args ...any) ([]entity.Roll, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []entity.Roll
	for rows.Next() {
		roll, err := scanRoll(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *roll)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

func scanRoll(row pgx.Row) (*entity.Roll, error) {
	var (
		roll    entity.Roll
		quality string
		lineID  *string
		shelf   *string
	)
	err := row.Scan(
		&roll.ID, &roll.CompanyID, &roll.BatchID, &lineID, &roll.RollNumber, &roll.ProductID, &roll.Color,
		&quality, &roll.OriginalQuantity, &roll.CurrentQuantity, &roll.WarehouseID, &shelf,
		&roll.Exhausted, &roll.CreatedAt, &roll.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	roll.Quality = entity.Quality(quality)
	roll.PurchaseOrderLineID = deref(lineID)
	roll.Shelf = deref(shelf)
	return &roll, nil
}
