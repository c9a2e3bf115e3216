package complete_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments"
	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "invalid appointment id"
	msgNotFound             = "appointment not found"
	msgCannotComplete       = "appointment cannot be completed in its current status"
	msgCompleted            = "appointment completed successfully"
)

// CompleteAppointmentResponse HTTP response model
type CompleteAppointmentResponse struct {
	Success     bool                        `json:"success"`
	Message     string                      `json:"message"`
	Appointment *models.AppointmentResponse `json:"appointment"`
}

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

// Handle POST /api/v1/appointments/{appointmentId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/complete - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.Complete(r.Context(), appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/complete - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrCannotComplete):
			h.logger.Warn("POST /appointments/{id}/complete - Cannot complete: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgCannotComplete)

		default:
			h.logger.Error("POST /appointments/{id}/complete - Failed to complete: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/complete - Appointment completed successfully: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, CompleteAppointmentResponse{
		Success:     true,
		Message:     msgCompleted,
		Appointment: result,
	})
}
