package check_date_availability

import (
	"errors"
	"net/http"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
	checkDateAvailability "github.com/bookaircon/ACS-SchedulingService/internal/usecase/check_date_availability"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD"
	msgNoDates            = "at least one date is required"
	msgTooManyDates       = "too many dates in one request"
)

type Handler struct {
	useCase CheckDateAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckDateAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// CheckDateAvailabilityRequest HTTP request model
type CheckDateAvailabilityRequest struct {
	Dates []string `json:"dates"` // "2026-09-15"
}

// DateStatusResponse доступность одной даты
type DateStatusResponse struct {
	Available      bool `json:"available"`
	RemainingSlots int  `json:"remaining_slots"`
}

// CheckDateAvailabilityResponse HTTP response model
type CheckDateAvailabilityResponse struct {
	Dates map[string]DateStatusResponse `json:"dates"`
}

// Handle POST /api/v1/bookings/check-date-availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CheckDateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/check-date-availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	dates := make([]types.CalendarDate, 0, len(req.Dates))
	for _, raw := range req.Dates {
		date, err := types.ParseCalendarDate(raw)
		if err != nil {
			h.logger.Warn("POST /bookings/check-date-availability - Invalid date %q: %v", raw, err)
			handlers.RespondBadRequest(w, msgInvalidDate)
			return
		}
		dates = append(dates, date)
	}

	result, err := h.useCase.Execute(r.Context(), &checkDateAvailability.Request{Dates: dates})
	if err != nil {
		switch {
		case errors.Is(err, checkDateAvailability.ErrNoDates):
			h.logger.Warn("POST /bookings/check-date-availability - No dates in request")
			handlers.RespondBadRequest(w, msgNoDates)

		case errors.Is(err, checkDateAvailability.ErrTooManyDates):
			h.logger.Warn("POST /bookings/check-date-availability - Too many dates: %d", len(req.Dates))
			handlers.RespondBadRequest(w, msgTooManyDates)

		default:
			h.logger.Error("POST /bookings/check-date-availability - Failed to check dates: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := CheckDateAvailabilityResponse{
		Dates: make(map[string]DateStatusResponse, len(result.Dates)),
	}
	for date, status := range result.Dates {
		response.Dates[date] = DateStatusResponse{
			Available:      status.Available,
			RemainingSlots: status.RemainingSlots,
		}
	}

	h.logger.Info("POST /bookings/check-date-availability - Checked %d dates", len(req.Dates))
	handlers.RespondJSON(w, http.StatusOK, response)
}
