package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// customerPhoneHeader заголовок идентификации клиента на маршрутах
// конкретного бронирования
const customerPhoneHeader = "X-Customer-Phone"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client низкоуровневый HTTP клиент API бронирований
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// AvailableDates получает даты со свободными слотами в диапазоне.
// Нулевые start/end опускаются, сервер применит дефолтный горизонт
func (c *Client) AvailableDates(ctx context.Context, start, end types.CalendarDate) ([]types.CalendarDate, error) {
	endpoint := c.baseURL + "/api/v1/bookings/available-dates"

	q := url.Values{}
	if !start.IsZero() {
		q.Set("start", start.String())
	}
	if !end.IsZero() {
		q.Set("end", end.String())
	}
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var body []string
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &body); err != nil {
		return nil, err
	}

	dates := make([]types.CalendarDate, 0, len(body))
	for _, raw := range body {
		date, err := types.ParseCalendarDate(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q: %v", ErrInvalidResponse, raw, err)
		}
		dates = append(dates, date)
	}

	return dates, nil
}

// CheckDateAvailability проверяет доступность набора дат одним запросом
func (c *Client) CheckDateAvailability(ctx context.Context, dates []types.CalendarDate) (map[string]DateStatus, error) {
	endpoint := c.baseURL + "/api/v1/bookings/check-date-availability"

	req := checkDateAvailabilityRequest{Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		req.Dates = append(req.Dates, d.String())
	}

	var body checkDateAvailabilityResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, req, &body); err != nil {
		return nil, err
	}

	return body.Dates, nil
}

// CreateBooking отправляет форму бронирования.
// idempotencyKey делает повтор безопасным: сервер вернет уже созданную запись
func (c *Client) CreateBooking(ctx context.Context, form *BookingForm, idempotencyKey string) (*BookingCreated, error) {
	endpoint := c.baseURL + "/api/v1/bookings"

	req := createBookingRequest{
		Name:            form.Name,
		Phone:           form.Phone,
		Email:           form.Email,
		CompleteAddress: form.Address,
		Services:        make([]serviceDraftWire, 0, len(form.Services)),
	}
	if idempotencyKey != "" {
		req.IdempotencyKey = &idempotencyKey
	}
	for _, svc := range form.Services {
		acTypes := make([]acTypeWire, 0, len(svc.ACTypes))
		for _, acType := range svc.ACTypes {
			acTypes = append(acTypes, acTypeWire{Type: acType})
		}
		req.Services = append(req.Services, serviceDraftWire{
			Type:    svc.Type,
			Date:    svc.Date.String(),
			ACTypes: acTypes,
		})
	}

	var body BookingCreated
	if err := c.doJSON(ctx, http.MethodPost, endpoint, req, &body); err != nil {
		return nil, err
	}

	return &body, nil
}

// GetBooking получает бронирование по ID.
// phone — телефон, указанный при создании: чужая запись вернет ErrAccessDenied
func (c *Client) GetBooking(ctx context.Context, id int64, phone string) (*Booking, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bookings/%d", c.baseURL, id)

	var body Booking
	if err := c.doJSONAs(ctx, http.MethodGet, endpoint, phone, nil, &body); err != nil {
		return nil, err
	}

	return &body, nil
}

// CancelBooking отменяет бронирование от имени клиента с телефоном phone
func (c *Client) CancelBooking(ctx context.Context, id int64, phone, reason string) (*Booking, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bookings/%d/cancel", c.baseURL, id)

	req := cancelBookingRequest{
		CancellationReason: reason,
	}

	var body cancelBookingResponse
	if err := c.doJSONAs(ctx, http.MethodPatch, endpoint, phone, req, &body); err != nil {
		// 409 у отмены означает конфликт статуса, а не занятость даты
		if errors.Is(err, ErrDateUnavailable) {
			return nil, fmt.Errorf("%w: id=%d", ErrCannotCancel, id)
		}
		return nil, err
	}
	if body.Appointment == nil {
		return nil, fmt.Errorf("%w: cancel response without appointment", ErrInvalidResponse)
	}

	return body.Appointment, nil
}

// doJSON выполняет запрос и декодирует JSON ответ в out
func (c *Client) doJSON(ctx context.Context, method, endpoint string, in, out interface{}) error {
	return c.doJSONAs(ctx, method, endpoint, "", in, out)
}

// doJSONAs выполняет запрос от имени клиента: непустой customerPhone
// уходит в заголовок идентификации
func (c *Client) doJSONAs(ctx context.Context, method, endpoint, customerPhone string, in, out interface{}) error {
	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if customerPhone != "" {
		req.Header.Set(customerPhoneHeader, customerPhone)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.asError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
		}
	}

	return nil
}

// asError конвертирует ответ об ошибке в типизированную ошибку клиента
func (c *Client) asError(resp *http.Response) error {
	var errBody errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &errBody)

	msg := errBody.Message
	if msg == "" {
		msg = string(raw)
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrDateUnavailable, msg)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAccessDenied, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrBookingNotFound, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	default:
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, msg)
	}
}
