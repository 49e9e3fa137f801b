package domain_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/telas-api/internal/domain"
)

func TestTypedErrors_UnwrapToSentinels(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"validation", domain.Invalid("quantity", "debe ser mayor que cero"), domain.ErrInvalidInput},
		{"overage", &domain.OverageWarning{Lines: []domain.LineOverage{{LineID: "l1"}}}, domain.ErrOverage},
		{"insufficient", &domain.InsufficientQuantityError{RollID: "r1", Requested: decimal.NewFromInt(5), Available: decimal.NewFromInt(1)}, domain.ErrInsufficientQuantity},
		{"conflict", &domain.ConflictError{Resource: "roll_number", Value: "R1"}, domain.ErrConflict},
		{"persistence", &domain.PersistenceError{Op: "insert", Err: errors.New("boom")}, domain.ErrPersistence},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("caso de uso: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
		})
	}
}

func TestPersistence_NoEnvuelveErroresDeDominio(t *testing.T) {
	conflict := &domain.ConflictError{Resource: "shipment_number", Value: "SH-1"}
	assert.Same(t, conflict, domain.Persistence("op", conflict))

	assert.Nil(t, domain.Persistence("op", nil))

	err := domain.Persistence("crear recepción", context.DeadlineExceeded)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "la causa original debe conservarse")
}

func TestOverageWarning_MensajeListaLineas(t *testing.T) {
	w := &domain.OverageWarning{Lines: []domain.LineOverage{{LineID: "a"}, {LineID: "b"}}}
	assert.Contains(t, w.Error(), "a, b")
}
