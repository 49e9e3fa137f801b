package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

var _ repository.ThresholdRepository = (*ThresholdRepo)(nil)

// ThresholdRepo umbrales de alerta por producto.
type ThresholdRepo struct {
	q Querier
}

// NewThresholdRepository construye el adaptador. Pasar pool o tx (Querier).
func NewThresholdRepository(q Querier) *ThresholdRepo {
	return &ThresholdRepo{q: q}
}

func (r *ThresholdRepo) Upsert(ctx context.Context, t *entity.StockThreshold) error {
	if !isUUID(t.ProductID) {
		return domain.Invalid("product_id", "identificador inválido")
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_thresholds (company_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`,
		t.CompanyID, t.ProductID, t.Quantity, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert threshold: %w", err)
	}
	return nil
}

func (r *ThresholdRepo) Delete(ctx context.Context, companyID, productID string) error {
	if !isUUID(productID) {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM stock_thresholds WHERE company_id = $1 AND product_id = $2`, companyID, productID)
	if err != nil {
		return fmt.Errorf("delete threshold: %w", err)
	}
	return nil
}

func (r *ThresholdRepo) List(ctx context.Context, companyID string) ([]entity.StockThreshold, error) {
	rows, err := r.q.Query(ctx, `
		SELECT company_id, product_id, quantity, updated_at
		FROM stock_thresholds WHERE company_id = $1
		ORDER BY product_id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list thresholds: %w", err)
	}
	defer rows.Close()
	var out []entity.StockThreshold
	for rows.Next() {
		var t entity.StockThreshold
		if err := rows.Scan(&t.CompanyID, &t.ProductID, &t.Quantity, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan threshold: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
