package accept_appointment

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
	msgInvalidRequestBody   = "invalid request body"
	msgNotFound             = "appointment not found"
	msgCannotAccept         = "appointment cannot be accepted in its current status"
	msgAccepted             = "appointment accepted successfully"
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

// AcceptAppointmentRequest HTTP request model
type AcceptAppointmentRequest struct {
	TechnicianNames []string `json:"technician_names,omitempty"`
}

// AcceptAppointmentResponse HTTP response model
type AcceptAppointmentResponse struct {
	Success     bool                        `json:"success"`
	Message     string                      `json:"message"`
	Appointment *models.AppointmentResponse `json:"appointment"`
}

// Handle POST /api/v1/appointments/{appointmentId}/accept
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/accept - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	// Тело опционально: подтверждение без назначения техников допустимо
	var req AcceptAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("POST /appointments/{id}/accept - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Accept(r.Context(), appointmentID, &models.AcceptAppointmentRequest{
		TechnicianNames: req.TechnicianNames,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/accept - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrCannotAccept):
			h.logger.Warn("POST /appointments/{id}/accept - Cannot accept: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgCannotAccept)

		default:
			h.logger.Error("POST /appointments/{id}/accept - Failed to accept: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/accept - Appointment accepted successfully: appointment_id=%d", appointmentID)
	handlers.RespondJSON(w, http.StatusOK, AcceptAppointmentResponse{
		Success:     true,
		Message:     msgAccepted,
		Appointment: result,
	})
}
