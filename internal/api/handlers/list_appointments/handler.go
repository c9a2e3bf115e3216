package list_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments"
	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments/models"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

const (
	msgInvalidParams = "invalid query parameters"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments
// Query params: status, start_date, end_date, customer_id, include_cancelled (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	req, err := toServiceRequest(r)
	if err != nil {
		h.logger.Warn("GET /appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /appointments - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /appointments - Failed to list appointments: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments - Returned %d appointments", len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// toServiceRequest парсит query параметры в запрос сервиса
func toServiceRequest(r *http.Request) (*models.ListAppointmentsRequest, error) {
	q := r.URL.Query()
	req := &models.ListAppointmentsRequest{}

	if statusStr := q.Get("status"); statusStr != "" {
		req.Status = &statusStr
	}

	if startStr := q.Get("start_date"); startStr != "" {
		start, err := types.ParseCalendarDate(startStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = &start
	}

	if endStr := q.Get("end_date"); endStr != "" {
		end, err := types.ParseCalendarDate(endStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = &end
	}

	if customerIDStr := q.Get("customer_id"); customerIDStr != "" {
		customerID, err := strconv.ParseInt(customerIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.CustomerID = &customerID
	}

	if includeCancelledStr := q.Get("include_cancelled"); includeCancelledStr != "" {
		includeCancelled, err := strconv.ParseBool(includeCancelledStr)
		if err != nil {
			return nil, err
		}
		req.IncludeInactive = includeCancelled
	}

	return req, nil
}
