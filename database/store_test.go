package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlexeyDemidow/restaurant-api-service/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestStore -> fresh in-memory SQLite database per test
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := NewStore(db)
	require.NoError(t, store.Migrate())
	return store
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.UTC)
}

func TestCreateAndListTables(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	window, err := store.CreateTable(ctx, "Window", 4, "hall")
	require.NoError(t, err)
	assert.NotZero(t, window.ID)

	// names are not unique
	_, err = store.CreateTable(ctx, "Window", 2, "terrace")
	require.NoError(t, err)

	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, "Window", tables[0].Name)
	assert.Equal(t, 4, tables[0].Seats)
	assert.Equal(t, "terrace", tables[1].Location)
}

func TestCreateTableRejectsNonPositiveSeats(t *testing.T) {
	store := setupTestStore(t)

	for _, seats := range []int{0, -2} {
		_, err := store.CreateTable(context.Background(), "Bar", seats, "bar")
		assert.ErrorIs(t, err, ErrInvalidSeats)
	}

	tables, err := store.ListTables(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestDeleteTable(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	table, err := store.CreateTable(ctx, "Corner", 2, "hall")
	require.NoError(t, err)

	require.NoError(t, store.DeleteTable(ctx, table.ID))

	_, err = store.GetTable(ctx, table.ID)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestDeleteMissingTableLeavesStorageUnchanged(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, err := store.CreateTable(ctx, "Corner", 2, "hall")
	require.NoError(t, err)

	err = store.DeleteTable(ctx, 999)
	assert.ErrorIs(t, err, ErrTableNotFound)

	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Len(t, tables, 1)
}

func TestDeleteTableWithReservationsIsRestricted(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	table, err := store.CreateTable(ctx, "Corner", 2, "hall")
	require.NoError(t, err)
	require.NoError(t, store.CreateReservation(ctx, &models.Reservation{
		CustomerName: "Ann", TableID: table.ID, ReservationTime: at(10, 0), DurationMinutes: 60,
	}))

	err = store.DeleteTable(ctx, table.ID)
	assert.ErrorIs(t, err, ErrTableHasReservations)

	_, err = store.GetTable(ctx, table.ID)
	assert.NoError(t, err)
}

func TestReservationCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	table, err := store.CreateTable(ctx, "Corner", 2, "hall")
	require.NoError(t, err)

	r := models.Reservation{CustomerName: "Ann", TableID: table.ID, ReservationTime: at(10, 0), DurationMinutes: 60}
	require.NoError(t, store.CreateReservation(ctx, &r))
	assert.NotZero(t, r.ID)

	all, err := store.ListReservations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ann", all[0].CustomerName)
	assert.True(t, at(10, 0).Equal(all[0].ReservationTime))
	assert.Equal(t, time.UTC, all[0].ReservationTime.Location())

	deleted, err := store.DeleteReservation(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, deleted.ID)

	_, err = store.DeleteReservation(ctx, r.ID)
	assert.ErrorIs(t, err, ErrReservationNotFound)

	all, err = store.ListReservations(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListTableReservationsOrdersByStart(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t1, _ := store.CreateTable(ctx, "One", 2, "hall")
	t2, _ := store.CreateTable(ctx, "Two", 2, "hall")

	for _, r := range []models.Reservation{
		{CustomerName: "late", TableID: t1.ID, ReservationTime: at(20, 0), DurationMinutes: 60},
		{CustomerName: "other", TableID: t2.ID, ReservationTime: at(9, 0), DurationMinutes: 60},
		{CustomerName: "early", TableID: t1.ID, ReservationTime: at(12, 0), DurationMinutes: 60},
	} {
		r := r
		require.NoError(t, store.CreateReservation(ctx, &r))
	}

	schedule, err := store.ListTableReservations(ctx, t1.ID)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, "early", schedule[0].CustomerName)
	assert.Equal(t, "late", schedule[1].CustomerName)
}

func TestFindOverlapping(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	t1, _ := store.CreateTable(ctx, "One", 2, "hall")
	t2, _ := store.CreateTable(ctx, "Two", 2, "hall")

	require.NoError(t, store.CreateReservation(ctx, &models.Reservation{
		CustomerName: "Ann", TableID: t1.ID, ReservationTime: at(10, 0), DurationMinutes: 60,
	}))
	require.NoError(t, store.CreateReservation(ctx, &models.Reservation{
		CustomerName: "Bob", TableID: t2.ID, ReservationTime: at(10, 0), DurationMinutes: 60,
	}))

	tests := []struct {
		name       string
		table      uint
		start, end time.Time
		want       int
	}{
		{"direct overlap", t1.ID, at(10, 30), at(11, 30), 1},
		{"covering", t1.ID, at(9, 0), at(12, 0), 1},
		{"back to back after", t1.ID, at(11, 0), at(12, 0), 0},
		{"back to back before", t1.ID, at(9, 0), at(10, 0), 0},
		{"other table only", t2.ID, at(10, 59), at(11, 30), 1},
		{"free table", t2.ID, at(12, 0), at(13, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.FindOverlapping(ctx, tt.table, tt.start, tt.end)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
			for _, r := range got {
				assert.Equal(t, tt.table, r.TableID)
			}
		})
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.WithTx(ctx, func(tx *Store) error {
		if _, err := tx.CreateTable(ctx, "Ghost", 2, "hall"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	tables, err := store.ListTables(ctx)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestLockTableMissing(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx *Store) error {
		_, err := tx.LockTable(ctx, 42)
		return err
	})
	assert.ErrorIs(t, err, ErrTableNotFound)
}
