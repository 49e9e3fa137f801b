package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AlertLevel severidad de stock frente al umbral configurado.
type AlertLevel string

const (
	AlertOK       AlertLevel = "ok"
	AlertWarning  AlertLevel = "warning"
	AlertCritical AlertLevel = "critical"
)

var two = decimal.NewFromInt(2)

// ClassifyStock compara el stock del producto contra su umbral.
// S > T ok; T/2 < S <= T warning; S <= T/2 critical.
func ClassifyStock(stock, threshold decimal.Decimal) AlertLevel {
	if stock.GreaterThan(threshold) {
		return AlertOK
	}
	if stock.GreaterThan(threshold.Div(two)) {
		return AlertWarning
	}
	return AlertCritical
}

// ParseAlertLevel acepta ok, warning o critical.
func ParseAlertLevel(s string) (AlertLevel, bool) {
	switch AlertLevel(s) {
	case AlertOK, AlertWarning, AlertCritical:
		return AlertLevel(s), true
	}
	return "", false
}

func (l AlertLevel) rank() int {
	switch l {
	case AlertCritical:
		return 0
	case AlertWarning:
		return 1
	}
	return 2
}

// StockAlert resultado de evaluar un producto con umbral.
type StockAlert struct {
	ProductID string          `json:"product_id"`
	Stock     decimal.Decimal `json:"stock"`
	Threshold decimal.Decimal `json:"threshold"`
	Level     AlertLevel      `json:"level"`
}

// Ratio stock/umbral; el umbral siempre es positivo.
func (a StockAlert) Ratio() decimal.Decimal {
	if !a.Threshold.IsPositive() {
		return decimal.Zero
	}
	return a.Stock.Div(a.Threshold)
}

// EvaluateAlerts clasifica cada producto con umbral. Los productos sin umbral no se evalúan;
// un producto con umbral y sin stock cuenta con stock cero.
func EvaluateAlerts(stockByProduct, thresholds map[string]decimal.Decimal) []StockAlert {
	out := make([]StockAlert, 0, len(thresholds))
	for productID, t := range thresholds {
		s := stockByProduct[productID]
		out = append(out, StockAlert{
			ProductID: productID,
			Stock:     s,
			Threshold: t,
			Level:     ClassifyStock(s, t),
		})
	}
	SortAlerts(out)
	return out
}

// SortAlerts: critical primero, luego menor ratio, luego product id.
func SortAlerts(alerts []StockAlert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Level.rank() != b.Level.rank() {
			return a.Level.rank() < b.Level.rank()
		}
		if c := a.Ratio().Cmp(b.Ratio()); c != 0 {
			return c < 0
		}
		return a.ProductID < b.ProductID
	})
}

// FilterAlerts conserva solo el nivel pedido; vacío = warning y critical.
func FilterAlerts(alerts []StockAlert, level AlertLevel) []StockAlert {
	out := make([]StockAlert, 0, len(alerts))
	for _, a := range alerts {
		if level == "" && a.Level == AlertOK {
			continue
		}
		if level != "" && a.Level != level {
			continue
		}
		out = append(out, a)
	}
	return out
}
