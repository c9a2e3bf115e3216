package get_available_dates

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

type fakeCapacityRepo struct {
	rows      []*domain.DateCapacity
	lastStart types.CalendarDate
	lastEnd   types.CalendarDate
}

func (f *fakeCapacityRepo) ListBetween(_ context.Context, start, end types.CalendarDate) ([]*domain.DateCapacity, error) {
	f.lastStart = start
	f.lastEnd = end

	out := make([]*domain.DateCapacity, 0, len(f.rows))
	for _, row := range f.rows {
		if row.Date.Before(start) || row.Date.After(end) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type fakeTime struct{ now time.Time }

func (f *fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newUseCase(repo *fakeCapacityRepo) (*UseCase, types.CalendarDate) {
	uc := NewUseCase(repo, 2, 30, 62, nopLogger{})
	now := time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)
	uc.timeProvider = &fakeTime{now: now}
	return uc, types.CalendarDateOf(now)
}

func TestExecute_SkipsFullDates(t *testing.T) {
	repo := &fakeCapacityRepo{}
	uc, today := newUseCase(repo)

	full := today.AddDays(1)
	partial := today.AddDays(2)
	repo.rows = []*domain.DateCapacity{
		{Date: full, Committed: 2, Maximum: 2},
		{Date: partial, Committed: 1, Maximum: 2},
	}

	resp, err := uc.Execute(context.Background(), &Request{Start: today, End: today.AddDays(3)})
	require.NoError(t, err)

	// 4 даты в диапазоне, одна занята полностью
	require.Len(t, resp.Dates, 3)
	for _, d := range resp.Dates {
		assert.False(t, d.Equal(full), "fully booked date %s must be excluded", full)
	}
}

func TestExecute_DatesWithoutLedgerRowAreFree(t *testing.T) {
	repo := &fakeCapacityRepo{}
	uc, today := newUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{Start: today, End: today.AddDays(6)})
	require.NoError(t, err)
	assert.Len(t, resp.Dates, 7)
}

func TestExecute_DefaultsToHorizonFromToday(t *testing.T) {
	repo := &fakeCapacityRepo{}
	uc, today := newUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	assert.True(t, repo.lastStart.Equal(today))
	assert.True(t, repo.lastEnd.Equal(today.AddDays(30)))
	assert.Len(t, resp.Dates, 31)
}

func TestExecute_PastStartClampedToToday(t *testing.T) {
	repo := &fakeCapacityRepo{}
	uc, today := newUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Start: today.AddDays(-5),
		End:   today.AddDays(2),
	})
	require.NoError(t, err)

	assert.True(t, repo.lastStart.Equal(today))
	assert.Len(t, resp.Dates, 3)
}

func TestExecute_EntirelyPastRangeIsEmpty(t *testing.T) {
	repo := &fakeCapacityRepo{}
	uc, today := newUseCase(repo)

	resp, err := uc.Execute(context.Background(), &Request{
		Start: today.AddDays(-10),
		End:   today.AddDays(-3),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Dates)
}

func TestExecute_InvalidRange(t *testing.T) {
	repo := &fakeCapacityRepo{}
	uc, today := newUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Start: today.AddDays(5),
		End:   today.AddDays(2),
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestExecute_RangeTooWide(t *testing.T) {
	repo := &fakeCapacityRepo{}
	uc, today := newUseCase(repo)

	_, err := uc.Execute(context.Background(), &Request{
		Start: today,
		End:   today.AddDays(63),
	})
	assert.ErrorIs(t, err, ErrRangeTooWide)
}

func TestExecute_PerDateMaximumOverridesDefault(t *testing.T) {
	repo := &fakeCapacityRepo{}
	uc, today := newUseCase(repo)

	// Дата с повышенным лимитом остается доступной при committed = 2
	boosted := today.AddDays(1)
	repo.rows = []*domain.DateCapacity{
		{Date: boosted, Committed: 2, Maximum: 3},
	}

	resp, err := uc.Execute(context.Background(), &Request{Start: boosted, End: boosted})
	require.NoError(t, err)
	require.Len(t, resp.Dates, 1)
	assert.True(t, resp.Dates[0].Equal(boosted))
}
