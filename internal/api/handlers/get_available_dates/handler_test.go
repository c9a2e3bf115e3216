package get_available_dates

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	getAvailableDates "github.com/bookaircon/ACS-SchedulingService/internal/usecase/get_available_dates"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	resp *getAvailableDates.Response
	err  error
}

func (f *fakeUseCase) Execute(context.Context, *getAvailableDates.Request) (*getAvailableDates.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func mustDate(t *testing.T, s string) types.CalendarDate {
	t.Helper()
	d, err := types.ParseCalendarDate(s)
	require.NoError(t, err)
	return d
}

func TestHandle_RespondsWithFlatDateArray(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableDates.Response{
		Dates: []types.CalendarDate{
			mustDate(t, "2026-09-15"),
			mustDate(t, "2026-09-16"),
		},
	}}
	h := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/available-dates", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	// Тело - плоский массив строк, без обертки
	var dates []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dates))
	assert.Equal(t, []string{"2026-09-15", "2026-09-16"}, dates)
}

func TestHandle_EmptyResultIsEmptyArray(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableDates.Response{}}
	h := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/available-dates", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandle_InvalidStartIsBadRequest(t *testing.T) {
	uc := &fakeUseCase{resp: &getAvailableDates.Response{}}
	h := NewHandler(uc, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/available-dates?start=15/09/2026", nil)
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
