package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/telas-api/internal/domain/entity"
)

type groupKey struct {
	productID string
	color     string
}

// AggregateStock proyecta los rollos y las líneas abiertas en filas por (producto, color).
// Solo cuentan rollos con cantidad actual positiva. Los grupos que solo tienen
// pendientes también aparecen.
func AggregateStock(rolls []entity.Roll, inbound, outbound []entity.PendingLine) []entity.StockPosition {
	groups := make(map[groupKey]*entity.StockPosition)
	get := func(productID, color string) *entity.StockPosition {
		k := groupKey{productID, color}
		p, ok := groups[k]
		if !ok {
			p = &entity.StockPosition{
				ProductID:  productID,
				Color:      color,
				TotalStock: decimal.Zero,
				ByQuality:  make(map[entity.Quality]decimal.Decimal, len(entity.Qualities)),
				PendingIn:  decimal.Zero,
				PendingOut: decimal.Zero,
			}
			for _, q := range entity.Qualities {
				p.ByQuality[q] = decimal.Zero
			}
			groups[k] = p
		}
		return p
	}

	for i := range rolls {
		r := &rolls[i]
		if !r.CurrentQuantity.IsPositive() {
			continue
		}
		p := get(r.ProductID, r.Color)
		p.TotalStock = p.TotalStock.Add(r.CurrentQuantity)
		p.TotalRolls++
		p.ByQuality[r.Quality] = p.ByQuality[r.Quality].Add(r.CurrentQuantity)
	}
	for _, l := range inbound {
		p := get(l.ProductID, l.Color)
		p.PendingIn = p.PendingIn.Add(PositiveRemaining(l.Ordered, l.Done))
	}
	for _, l := range outbound {
		p := get(l.ProductID, l.Color)
		p.PendingOut = p.PendingOut.Add(PositiveRemaining(l.Ordered, l.Done))
	}

	out := make([]entity.StockPosition, 0, len(groups))
	for _, p := range groups {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].Color < out[j].Color
	})
	return out
}

// StockByProduct suma el stock de todos los colores de cada producto.
func StockByProduct(positions []entity.StockPosition) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, p := range positions {
		out[p.ProductID] = out[p.ProductID].Add(p.TotalStock)
	}
	return out
}

// SumPending total de saldos positivos de las líneas.
func SumPending(lines []entity.PendingLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(PositiveRemaining(l.Ordered, l.Done))
	}
	return total
}
