package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
	"github.com/bookaircon/ACS-SchedulingService/internal/api/middleware"
	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments"
	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidBookingID   = "invalid booking id"
	msgInvalidRequestBody = "invalid request body"
	msgMissingIdentity    = "missing customer identity"
	msgNotFound           = "booking not found"
	msgForbidden          = "booking belongs to another customer"
	msgCannotCancel       = "booking cannot be cancelled in its current status"
	msgInvalidInput       = "invalid cancellation data"
	msgCancelled          = "booking cancelled successfully"
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

// CancelBookingRequest HTTP request model.
// cancelled_by из тела не используется: сервер берет клиента из самой записи
type CancelBookingRequest struct {
	CancellationReason string `json:"cancellation_reason,omitempty"`
	CancelledBy        *int64 `json:"cancelled_by,omitempty"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Success     bool                        `json:"success"`
	Message     string                      `json:"message"`
	Appointment *models.AppointmentResponse `json:"appointment"`
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingIDStr := vars["bookingId"]

	bookingID, err := strconv.ParseInt(bookingIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	phone, ok := middleware.GetCustomerPhone(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - No customer phone in context: booking_id=%d", bookingID)
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	// Тело опционально: отмена без причины допустима
	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Cancel(r.Context(), bookingID, &models.CancelAppointmentRequest{
		Phone:              phone,
		CancellationReason: req.CancellationReason,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d", bookingID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d", bookingID)
	handlers.RespondJSON(w, http.StatusOK, CancelBookingResponse{
		Success:     true,
		Message:     msgCancelled,
		Appointment: result,
	})
}
