package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	createBooking "github.com/bookaircon/ACS-SchedulingService/internal/usecase/create_booking"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeUseCase запоминает запрос и отвечает заранее заданным результатом
type fakeUseCase struct {
	gotReq *createBooking.Request
	resp   *createBooking.Response
	err    error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

const validBody = `{
	"name": "John Doe",
	"phone": "+15550100",
	"completeAddress": "12 Main St",
	"services": [
		{"type": "Cleaning", "date": "2026-09-15", "acTypes": [{"type": "Split"}, {"type": "Window"}]}
	]
}`

func doCreate(t *testing.T, uc *fakeUseCase, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(uc, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_CreatedResponseShape(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{
		BookingID:  1,
		CustomerID: 10,
		Status:     "pending",
		CreatedAt:  time.Now(),
	}}

	rec := doCreate(t, uc, validBody)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(1), resp["bookingId"])
	assert.Equal(t, float64(10), resp["customerId"])
	assert.Equal(t, "booking created successfully", resp["message"])
}

func TestHandle_RequestFieldsReachUseCase(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{BookingID: 1, CustomerID: 10, Status: "pending"}}

	doCreate(t, uc, validBody)
	require.NotNil(t, uc.gotReq)

	// completeAddress и acTypes-объекты формы доходят до use case
	assert.Equal(t, "12 Main St", uc.gotReq.Address)
	require.Len(t, uc.gotReq.Services, 1)
	assert.Equal(t, []string{"Split", "Window"}, uc.gotReq.Services[0].ACTypes)
	assert.Equal(t, "2026-09-15", uc.gotReq.Services[0].Date.String())
}

func TestHandle_ReplayedBookingIsOK(t *testing.T) {
	uc := &fakeUseCase{resp: &createBooking.Response{
		BookingID:  1,
		CustomerID: 10,
		Status:     "pending",
		Replayed:   true,
	}}

	rec := doCreate(t, uc, validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "booking already exists", resp["message"])
}

func TestHandle_DateUnavailableIsConflict(t *testing.T) {
	uc := &fakeUseCase{err: createBooking.ErrDateUnavailable}

	rec := doCreate(t, uc, validBody)
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["message"])
}
