package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/inventory"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		ordered, cumulative int64
		want                inventory.Progress
	}{
		{100, 0, inventory.ProgressPending},
		{100, 40, inventory.ProgressPartial},
		{100, 100, inventory.ProgressCompleted},
		{100, 120, inventory.ProgressCompleted},
		{100, -5, inventory.ProgressPending},
	}
	for _, tt := range tests {
		got := inventory.DeriveStatus(d(tt.ordered), d(tt.cumulative))
		assert.Equal(t, tt.want, got, "DeriveStatus(%d,%d)", tt.ordered, tt.cumulative)
	}
}

func TestLineStatusVocabulario(t *testing.T) {
	assert.Equal(t, entity.PurchaseLinePending, inventory.PurchaseLineStatus(d(100), d(0)))
	assert.Equal(t, entity.PurchaseLinePartialReceived, inventory.PurchaseLineStatus(d(100), d(40)))
	assert.Equal(t, entity.PurchaseLineCompleted, inventory.PurchaseLineStatus(d(100), d(110)))

	assert.Equal(t, entity.OrderLinePending, inventory.OrderLineStatus(d(50), d(0)))
	assert.Equal(t, entity.OrderLinePartialShipped, inventory.OrderLineStatus(d(50), d(10)))
	assert.Equal(t, entity.OrderLineShipped, inventory.OrderLineStatus(d(50), d(50)))
}

func TestPositiveRemaining(t *testing.T) {
	assert.True(t, inventory.PositiveRemaining(d(50), d(20)).Equal(d(30)))
	assert.True(t, inventory.PositiveRemaining(d(30), d(40)).IsZero())
}
