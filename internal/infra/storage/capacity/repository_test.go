package capacity

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewRepository(db), mock, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

func date(s string) types.CalendarDate {
	d, err := types.ParseCalendarDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestReserve_TakesSlot(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	d := date("2026-09-15")

	mock.ExpectQuery("INSERT INTO date_capacity").
		WithArgs(d, 1, 2).
		WillReturnRows(sqlmock.NewRows([]string{"committed", "maximum"}).AddRow(1, 2))

	got, err := repo.Reserve(context.Background(), d, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Committed)
	assert.Equal(t, 2, got.Maximum)
	assert.True(t, got.Date.Equal(d))
}

func TestReserve_CapacityExceeded(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	d := date("2026-09-15")

	// WHERE committed < maximum не прошел - upsert вернул ноль строк
	mock.ExpectQuery("INSERT INTO date_capacity").
		WithArgs(d, 1, 2).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Reserve(context.Background(), d, 2)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestReserve_QueryError(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	d := date("2026-09-15")

	mock.ExpectQuery("INSERT INTO date_capacity").
		WithArgs(d, 1, 2).
		WillReturnError(errors.New("connection reset"))

	_, err := repo.Reserve(context.Background(), d, 2)
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestRelease_FreesSlot(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	d := date("2026-09-15")

	mock.ExpectExec("UPDATE date_capacity").
		WithArgs(d).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Release(context.Background(), d))
}

func TestRelease_MissingRowIsNotAnError(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	d := date("2026-09-15")

	mock.ExpectExec("UPDATE date_capacity").
		WithArgs(d).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Release(context.Background(), d))
}

func TestGet_ReturnsLedgerRow(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	d := date("2026-09-15")
	stored := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT slot_date, committed, maximum FROM date_capacity").
		WithArgs(d).
		WillReturnRows(sqlmock.NewRows([]string{"slot_date", "committed", "maximum"}).
			AddRow(stored, 1, 2))

	got, err := repo.Get(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(d))
	assert.Equal(t, 1, got.Committed)
}

func TestGet_DateNotFound(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	d := date("2026-09-15")

	mock.ExpectQuery("SELECT slot_date, committed, maximum FROM date_capacity").
		WithArgs(d).
		WillReturnRows(sqlmock.NewRows([]string{"slot_date", "committed", "maximum"}))

	_, err := repo.Get(context.Background(), d)
	assert.ErrorIs(t, err, ErrDateNotFound)
}

func TestGetByDates(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	d1 := date("2026-09-15")
	d2 := date("2026-09-16")

	mock.ExpectQuery("SELECT slot_date, committed, maximum FROM date_capacity").
		WithArgs(d1, d2).
		WillReturnRows(sqlmock.NewRows([]string{"slot_date", "committed", "maximum"}).
			AddRow(d1.Time(), 2, 2).
			AddRow(d2.Time(), 1, 2))

	got, err := repo.GetByDates(context.Background(), []types.CalendarDate{d1, d2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].Committed)
	assert.Equal(t, 1, got[1].Committed)
}

func TestGetByDates_EmptyInput(t *testing.T) {
	repo, _, cleanup := newMock(t)
	defer cleanup()

	got, err := repo.GetByDates(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListBetween(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	start := date("2026-09-01")
	end := date("2026-09-30")
	d := date("2026-09-15")

	mock.ExpectQuery("SELECT slot_date, committed, maximum FROM date_capacity").
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"slot_date", "committed", "maximum"}).
			AddRow(d.Time(), 1, 2))

	got, err := repo.ListBetween(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Date.Equal(d))
}

func TestListBetween_ScanError(t *testing.T) {
	repo, mock, cleanup := newMock(t)
	defer cleanup()

	start := date("2026-09-01")
	end := date("2026-09-30")

	mock.ExpectQuery("SELECT slot_date, committed, maximum FROM date_capacity").
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"slot_date", "committed", "maximum"}).
			AddRow("not-a-count", "x", "y"))

	_, err := repo.ListBetween(context.Background(), start, end)
	assert.ErrorIs(t, err, ErrScanRow)
}
