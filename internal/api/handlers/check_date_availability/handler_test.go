package check_date_availability

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkDateAvailability "github.com/bookaircon/ACS-SchedulingService/internal/usecase/check_date_availability"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	resp *checkDateAvailability.Response
	err  error
}

func (f *fakeUseCase) Execute(context.Context, *checkDateAvailability.Request) (*checkDateAvailability.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func TestHandle_ResponseUsesSnakeCaseSlots(t *testing.T) {
	uc := &fakeUseCase{resp: &checkDateAvailability.Response{
		Dates: map[string]checkDateAvailability.DateStatus{
			"2026-09-15": {Available: true, RemainingSlots: 2},
			"2026-09-16": {Available: false, RemainingSlots: 0},
		},
	}}
	h := NewHandler(uc, nopLogger{})

	body := `{"dates": ["2026-09-15", "2026-09-16"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/check-date-availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Dates map[string]map[string]interface{} `json:"dates"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Dates, "2026-09-15")

	free := resp.Dates["2026-09-15"]
	assert.Equal(t, true, free["available"])
	assert.Equal(t, float64(2), free["remaining_slots"])

	full := resp.Dates["2026-09-16"]
	assert.Equal(t, false, full["available"])
	assert.Equal(t, float64(0), full["remaining_slots"])
}

func TestHandle_MalformedDateIsBadRequest(t *testing.T) {
	h := NewHandler(&fakeUseCase{}, nopLogger{})

	body := `{"dates": ["15/09/2026"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/check-date-availability", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
