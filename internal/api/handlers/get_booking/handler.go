package get_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
	"github.com/bookaircon/ACS-SchedulingService/internal/api/middleware"
	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments"
)

const (
	msgInvalidBookingID = "invalid booking id"
	msgMissingIdentity  = "missing customer identity"
	msgNotFound         = "booking not found"
	msgForbidden        = "booking belongs to another customer"
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

// Handle GET /api/v1/bookings/{bookingId}
// Запись отдается только клиенту, чей телефон совпадает с указанным при создании
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	phone, ok := middleware.GetCustomerPhone(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - No customer phone in context: booking_id=%d", bookingID)
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	booking, err := h.service.GetForCustomer(r.Context(), bookingID, phone)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%d", bookingID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved successfully: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
