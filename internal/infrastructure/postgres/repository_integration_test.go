//go:build integration

package postgres

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/telas-api/internal/domain"
	"github.com/jhoicas/telas-api/internal/domain/entity"
	"github.com/jhoicas/telas-api/internal/domain/repository"
	"github.com/jhoicas/telas-api/pkg/config"
	"github.com/jhoicas/telas-api/pkg/logger"
)

// Ejecutar con: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

func seedRoll(t *testing.T, repos repository.LedgerRepos, companyID string, qty int64) *entity.Roll {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()
	batch := &entity.ReceiptBatch{
		ID: uuid.NewString(), CompanyID: companyID, PurchaseOrderID: uuid.NewString(),
		ArrivalDate: now, TotalQuantity: decimal.NewFromInt(qty), RollCount: 1, CreatedAt: now,
	}
	require.NoError(t, repos.Receipts.Create(ctx, batch))
	roll := &entity.Roll{
		ID: uuid.NewString(), CompanyID: companyID, BatchID: batch.ID,
		RollNumber: "IT-" + uuid.NewString()[:8], ProductID: uuid.NewString(), Quality: entity.QualityA,
		OriginalQuantity: decimal.NewFromInt(qty), CurrentQuantity: decimal.NewFromInt(qty),
		WarehouseID: uuid.NewString(), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Rolls.Create(ctx, roll))
	return roll
}

func TestRollRepo_DeductAtomico(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repos := NewLedgerRepos(pool)
	companyID := uuid.NewString()
	roll := seedRoll(t, repos, companyID, 30)

	_, err := repos.Rolls.Deduct(ctx, companyID, roll.ID, decimal.NewFromInt(31))
	var insufficient *domain.InsufficientQuantityError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(30)))

	unchanged, err := repos.Rolls.GetByID(ctx, companyID, roll.ID)
	require.NoError(t, err)
	assert.True(t, unchanged.CurrentQuantity.Equal(decimal.NewFromInt(30)), "un rollo corto no se modifica")
	assert.False(t, unchanged.Exhausted)

	got, err := repos.Rolls.Deduct(ctx, companyID, roll.ID, decimal.NewFromInt(30))
	require.NoError(t, err)
	assert.True(t, got.CurrentQuantity.IsZero())
	assert.True(t, got.Exhausted)

	_, err = repos.Rolls.Deduct(ctx, companyID, uuid.NewString(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRollRepo_DeductConcurrenteNoSobregira(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repos := NewLedgerRepos(pool)
	companyID := uuid.NewString()
	roll := seedRoll(t, repos, companyID, 10)

	var (
		wg sync.WaitGroup
		mu sync.Mutex
		ok int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repos.Rolls.Deduct(ctx, companyID, roll.ID, decimal.NewFromInt(3)); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 3, ok)

	final, err := repos.Rolls.GetByID(ctx, companyID, roll.ID)
	require.NoError(t, err)
	assert.True(t, final.CurrentQuantity.Equal(decimal.NewFromInt(1)))
}

func TestSequenceRepo_Next(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	seq := NewSequenceRepository(pool)
	companyID := uuid.NewString()

	first, err := seq.Next(ctx, companyID, "SH-20260116")
	require.NoError(t, err)
	second, err := seq.Next(ctx, companyID, "SH-20260116")
	require.NoError(t, err)
	other, err := seq.Next(ctx, companyID, "SH-20260117")
	require.NoError(t, err)

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
	assert.Equal(t, int64(1), other, "cada día tiene su propio contador")
}

func TestSequenceRepo_NextSeRevierteConLaTx(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	runner := NewTxRunner(pool)
	companyID := uuid.NewString()

	err := runner.Run(ctx, func(repos repository.LedgerRepos) error {
		_, err := repos.Sequences.Next(ctx, companyID, "SH-20260116")
		require.NoError(t, err)
		return domain.ErrConflict
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	next, err := NewSequenceRepository(pool).Next(ctx, companyID, "SH-20260116")
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestShipmentRepo_ExistsNumber(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	shipments := NewShipmentRepository(pool)
	companyID := uuid.NewString()
	now := time.Now().UTC()

	require.NoError(t, shipments.Create(ctx, &entity.ShipmentBatch{
		ID: uuid.NewString(), CompanyID: companyID, OrderID: uuid.NewString(),
		ShipmentNumber: "SH-20260116-001", ShipmentDate: now, TotalQuantity: decimal.Zero, CreatedAt: now,
	}))
	used, err := shipments.ExistsNumber(ctx, companyID, "SH-20260116-001")
	require.NoError(t, err)
	assert.True(t, used)

	err = shipments.Create(ctx, &entity.ShipmentBatch{
		ID: uuid.NewString(), CompanyID: companyID, OrderID: uuid.NewString(),
		ShipmentNumber: "SH-20260116-001", ShipmentDate: now, TotalQuantity: decimal.Zero, CreatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
