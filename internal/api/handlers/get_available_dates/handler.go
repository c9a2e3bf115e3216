package get_available_dates

import (
	"errors"
	"net/http"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
	getAvailableDates "github.com/bookaircon/ACS-SchedulingService/internal/usecase/get_available_dates"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

const (
	msgInvalidStart = "invalid start date, expected YYYY-MM-DD"
	msgInvalidEnd   = "invalid end date, expected YYYY-MM-DD"
	msgInvalidRange = "invalid date range"
	msgRangeTooWide = "date range is too wide"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/available-dates
// Отвечает плоским массивом дат "2026-09-15", отсортированных по возрастанию
// Query params: start, end (опционально, формат YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req getAvailableDates.Request

	if startStr := r.URL.Query().Get("start"); startStr != "" {
		start, err := types.ParseCalendarDate(startStr)
		if err != nil {
			h.logger.Warn("GET /bookings/available-dates - Invalid start date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStart)
			return
		}
		req.Start = start
	}

	if endStr := r.URL.Query().Get("end"); endStr != "" {
		end, err := types.ParseCalendarDate(endStr)
		if err != nil {
			h.logger.Warn("GET /bookings/available-dates - Invalid end date: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEnd)
			return
		}
		req.End = end
	}

	result, err := h.useCase.Execute(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableDates.ErrInvalidRange):
			h.logger.Warn("GET /bookings/available-dates - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, getAvailableDates.ErrRangeTooWide):
			h.logger.Warn("GET /bookings/available-dates - Range too wide: %v", err)
			handlers.RespondBadRequest(w, msgRangeTooWide)

		default:
			h.logger.Error("GET /bookings/available-dates - Failed to get dates: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	dates := make([]string, 0, len(result.Dates))
	for _, d := range result.Dates {
		dates = append(dates, d.String())
	}

	h.logger.Info("GET /bookings/available-dates - Returned %d dates", len(dates))
	handlers.RespondJSON(w, http.StatusOK, dates)
}
