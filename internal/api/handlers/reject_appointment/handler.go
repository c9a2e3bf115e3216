package reject_appointment

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
	msgInvalidAppointmentID = "invalid appointment id"
	msgInvalidRequestBody   = "invalid request body"
	msgNotFound             = "appointment not found"
	msgCannotReject         = "appointment cannot be rejected in its current status"
	msgRejected             = "appointment rejected successfully"
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

// RejectAppointmentRequest HTTP request model
type RejectAppointmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// RejectAppointmentResponse HTTP response model
type RejectAppointmentResponse struct {
	Success     bool                        `json:"success"`
	Message     string                      `json:"message"`
	Appointment *models.AppointmentResponse `json:"appointment"`
}

// Handle DELETE /api/v1/appointments/{appointmentId}
// Отклонение переводит запись в rejected и освобождает её слоты,
// сама запись сохраняется для истории
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Тело опционально: отклонение без причины допустимо
	var req RejectAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("DELETE /appointments/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Reject(r.Context(), appointmentID, &models.RejectAppointmentRequest{
		Reason: req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("DELETE /appointments/{id} - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("DELETE /appointments/{id} - Cannot reject: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgCannotReject)

		default:
			h.logger.Error("DELETE /appointments/{id} - Failed to reject: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	adminID, _ := middleware.GetAdminID(r.Context())
	h.logger.Info("DELETE /appointments/{id} - Appointment rejected successfully: appointment_id=%d, admin_id=%d",
		appointmentID, adminID)
	handlers.RespondJSON(w, http.StatusOK, RejectAppointmentResponse{
		Success:     true,
		Message:     msgRejected,
		Appointment: result,
	})
}
