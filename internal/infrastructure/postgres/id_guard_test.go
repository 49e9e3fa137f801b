package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
)

// invalidTextQuerier responde como PostgreSQL ante un texto que no es UUID (22P02) y cuenta las llamadas.
type invalidTextQuerier struct {
	calls int
}

var errInvalidText = &pgconn.PgError{Code: "22P02", Message: "invalid input syntax for type uuid"}

func (q *invalidTextQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	q.calls++
	return pgconn.CommandTag{}, errInvalidText
}

func (q *invalidTextQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	q.calls++
	return nil, errInvalidText
}

func (q *invalidTextQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	q.calls++
	return errRow{}
}

type errRow struct{}

func (errRow) Scan(...any) error { return errInvalidText }

const companyUUID = "6f1c2a9e-4b1d-4c55-9a51-0d8c1f7e2b10"

func TestIsUUID(t *testing.T) {
	assert.True(t, isUUID(companyUUID))
	assert.True(t, isUUID())
	assert.False(t, isUUID("abc"))
	assert.False(t, isUUID(companyUUID, ""))
}

func TestRepos_IDMalformadoEsNoEncontradoSinConsultar(t *testing.T) {
	ctx := context.Background()
	q := &invalidTextQuerier{}

	roll, err := NewRollRepository(q).GetByID(ctx, companyUUID, "abc")
	require.NoError(t, err)
	assert.Nil(t, roll)

	_, err = NewRollRepository(q).Deduct(ctx, companyUUID, "abc", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	rolls, err := NewRollRepository(q).ListAvailable(ctx, companyUUID, repository.RollFilter{ProductID: "p1"})
	require.NoError(t, err)
	assert.Empty(t, rolls)

	line, err := NewOrderLineRepository(q).GetForUpdate(ctx, companyUUID, "ol-1")
	require.NoError(t, err)
	assert.Nil(t, line)

	pline, err := NewPurchaseLineRepository(q).GetForUpdate(ctx, companyUUID, "pl-1")
	require.NoError(t, err)
	assert.Nil(t, pline)

	receipt, err := NewReceiptRepository(q).GetByID(ctx, companyUUID, "abc")
	require.NoError(t, err)
	assert.Nil(t, receipt)

	shipment, err := NewShipmentRepository(q).GetByID(ctx, companyUUID, "abc")
	require.NoError(t, err)
	assert.Nil(t, shipment)

	require.NoError(t, NewThresholdRepository(q).Delete(ctx, companyUUID, "p1"))

	assert.Zero(t, q.calls, "un id malformado no debe llegar a la base: 22P02 abortaría la tx")
}

func TestRepos_IDMalformadoEnEscrituraEsValidacion(t *testing.T) {
	ctx := context.Background()
	q := &invalidTextQuerier{}

	err := NewRollRepository(q).Create(ctx, &entity.Roll{ID: companyUUID, WarehouseID: "bodega-1"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "warehouse_id", verr.Field)

	err = NewThresholdRepository(q).Upsert(ctx, &entity.StockThreshold{CompanyID: companyUUID, ProductID: "p1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, q.calls)
}

func TestRepos_IDValidoSiConsulta(t *testing.T) {
	q := &invalidTextQuerier{}
	_, err := NewRollRepository(q).GetByID(context.Background(), companyUUID, companyUUID)
	assert.Error(t, err)
	assert.Equal(t, 1, q.calls)
}
