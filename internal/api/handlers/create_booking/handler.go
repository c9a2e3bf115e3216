package create_booking

import (
	"errors"
	"net/http"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
	createBooking "github.com/bookaircon/ACS-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid service date, expected YYYY-MM-DD"
	msgInvalidInput       = "invalid booking data"
	msgNoACUnits          = "each service needs at least one AC unit"
	msgMissingDate        = "each service needs a date"
	msgDateInPast         = "service date is in the past"
	msgDateUnavailable    = "selected date has no remaining slots"
	msgCreated            = "booking created successfully"
	msgReplayed           = "booking already exists"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrDateUnavailable):
			h.logger.Warn("POST /bookings - Date unavailable: phone=%s", req.Phone)
			handlers.RespondConflict(w, msgDateUnavailable)

		case errors.Is(err, createBooking.ErrNoACUnits):
			h.logger.Warn("POST /bookings - Service without AC units: phone=%s", req.Phone)
			handlers.RespondBadRequest(w, msgNoACUnits)

		case errors.Is(err, createBooking.ErrMissingDate):
			h.logger.Warn("POST /bookings - Service without date: phone=%s", req.Phone)
			handlers.RespondBadRequest(w, msgMissingDate)

		case errors.Is(err, createBooking.ErrDateInPast):
			h.logger.Warn("POST /bookings - Date in past: phone=%s", req.Phone)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: phone=%s, error=%v", req.Phone, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: phone=%s, error=%v", req.Phone, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	// Повтор по idempotency key возвращает уже созданную запись с 200
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, customer_id=%d, replayed=%t",
		result.BookingID, result.CustomerID, result.Replayed)
	handlers.RespondJSON(w, status, response)
}
