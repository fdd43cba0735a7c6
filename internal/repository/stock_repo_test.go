package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func stockRows(id, warehouseID, itemID uuid.UUID, qty int) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "warehouse_id", "item_id", "qty", "created_at", "updated_at"}).
		AddRow(id.String(), warehouseID.String(), itemID.String(), qty, now, now)
}

func TestStockFindForUpdateTakesRowLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStockRepository(db)

	id := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "stocks" WHERE warehouse_id = \$1 AND item_id = \$2(.+)FOR UPDATE`).
		WithArgs(warehouseID.String(), itemID.String(), 1).
		WillReturnRows(stockRows(id, warehouseID, itemID, 12))

	stock, err := repo.FindForUpdate(context.Background(), warehouseID, itemID)
	require.NoError(t, err)
	assert.Equal(t, 12, stock.Qty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockFindDoesNotLock(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStockRepository(db)

	id := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "stocks" WHERE warehouse_id = \$1 AND item_id = \$2 ORDER BY (.+) LIMIT \$3$`).
		WithArgs(warehouseID.String(), itemID.String(), 1).
		WillReturnRows(stockRows(id, warehouseID, itemID, 3))

	stock, err := repo.Find(context.Background(), warehouseID, itemID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock.Qty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockFindNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStockRepository(db)

	warehouseID := uuid.New()
	itemID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "stocks"`).
		WithArgs(warehouseID.String(), itemID.String(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Find(context.Background(), warehouseID, itemID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestStockUpdateQty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStockRepository(db)

	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "stocks" SET (.+) WHERE id = \$`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpdateQty(context.Background(), id, 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRoutesRepoThroughTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewStockRepository(db)
	tm := NewTransactionManager(db)

	id := uuid.New()
	warehouseID := uuid.New()
	itemID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "stocks" WHERE warehouse_id = \$1 AND item_id = \$2(.+)FOR UPDATE`).
		WithArgs(warehouseID.String(), itemID.String(), 1).
		WillReturnRows(stockRows(id, warehouseID, itemID, 5))
	mock.ExpectCommit()

	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		_, findErr := repo.FindForUpdate(txCtx, warehouseID, itemID)
		return findErr
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	tm := NewTransactionManager(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("boom")
	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		return wantErr
	})
	assert.True(t, errors.Is(err, wantErr))
	assert.NoError(t, mock.ExpectationsWereMet())
}
