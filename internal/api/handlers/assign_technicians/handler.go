package assign_technicians

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
	msgNoTechnicians        = "at least one technician name is required"
	msgTerminalStatus       = "appointment is in a terminal status"
	msgAssigned             = "technicians assigned successfully"
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

// AssignTechniciansRequest HTTP request model
type AssignTechniciansRequest struct {
	TechnicianNames []string `json:"technician_names"`
}

// AssignTechniciansResponse HTTP response model
type AssignTechniciansResponse struct {
	Success     bool                        `json:"success"`
	Message     string                      `json:"message"`
	Appointment *models.AppointmentResponse `json:"appointment"`
}

// Handle POST /api/v1/appointments/{appointmentId}/assign-technicians
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/assign-technicians - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req AssignTechniciansRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/assign-technicians - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AssignTechnicians(r.Context(), appointmentID, &models.AssignTechniciansRequest{
		TechnicianNames: req.TechnicianNames,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/assign-technicians - Appointment not found: appointment_id=%d",
				appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrNoTechnicians):
			h.logger.Warn("POST /appointments/{id}/assign-technicians - No technician names: appointment_id=%d",
				appointmentID)
			handlers.RespondBadRequest(w, msgNoTechnicians)

		case errors.Is(err, appointments.ErrTerminalStatus):
			h.logger.Warn("POST /appointments/{id}/assign-technicians - Terminal status: appointment_id=%d",
				appointmentID)
			handlers.RespondConflict(w, msgTerminalStatus)

		default:
			h.logger.Error("POST /appointments/{id}/assign-technicians - Failed to assign: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/assign-technicians - Technicians assigned: appointment_id=%d, count=%d",
		appointmentID, len(result.Technicians))
	handlers.RespondJSON(w, http.StatusOK, AssignTechniciansResponse{
		Success:     true,
		Message:     msgAssigned,
		Appointment: result,
	})
}
