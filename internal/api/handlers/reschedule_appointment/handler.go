package reschedule_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
	rescheduleService "github.com/bookaircon/ACS-SchedulingService/internal/usecase/reschedule_service"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

const (
	msgInvalidAppointmentID = "invalid appointment id"
	msgInvalidRequestBody   = "invalid request body"
	msgInvalidDate          = "invalid new date, expected YYYY-MM-DD"
	msgNotFound             = "appointment not found"
	msgServiceNotFound      = "service not found in appointment"
	msgNotReschedulable     = "appointment cannot be rescheduled in its current status"
	msgDateInPast           = "new date is in the past"
	msgDateUnavailable      = "new date has no remaining slots"
	msgInvalidInput         = "invalid reschedule data"
	msgRescheduled          = "service rescheduled successfully"
	msgAlreadyOnDate        = "service is already scheduled on this date"
)

type Handler struct {
	useCase RescheduleServiceUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleServiceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// RescheduleAppointmentRequest HTTP request model
type RescheduleAppointmentRequest struct {
	ServiceName string `json:"service_name"`
	NewDate     string `json:"new_date"` // "2026-09-15"
}

// RescheduleAppointmentResponse HTTP response model
type RescheduleAppointmentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	AppointmentID int64  `json:"appointmentId"`
	ServiceID     int64  `json:"serviceId"`
	OldDate       string `json:"oldDate"`
	NewDate       string `json:"newDate"`
	Changed       bool   `json:"changed"`
}

// Handle POST /api/v1/appointments/{appointmentId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req RescheduleAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	newDate, err := types.ParseCalendarDate(req.NewDate)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/reschedule - Invalid date %q: %v", req.NewDate, err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rescheduleService.Request{
		AppointmentID: appointmentID,
		ServiceName:   req.ServiceName,
		NewDate:       newDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, rescheduleService.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rescheduleService.ErrServiceNotFound):
			h.logger.Warn("POST /appointments/{id}/reschedule - Service not found: appointment_id=%d, service=%q",
				appointmentID, req.ServiceName)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, rescheduleService.ErrNotReschedulable):
			h.logger.Warn("POST /appointments/{id}/reschedule - Not reschedulable: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgNotReschedulable)

		case errors.Is(err, rescheduleService.ErrDateUnavailable):
			h.logger.Warn("POST /appointments/{id}/reschedule - Date unavailable: appointment_id=%d, date=%s",
				appointmentID, req.NewDate)
			handlers.RespondConflict(w, msgDateUnavailable)

		case errors.Is(err, rescheduleService.ErrDateInPast):
			h.logger.Warn("POST /appointments/{id}/reschedule - Date in past: appointment_id=%d, date=%s",
				appointmentID, req.NewDate)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, rescheduleService.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/reschedule - Invalid input: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments/{id}/reschedule - Failed to reschedule: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	message := msgRescheduled
	if !result.Changed {
		message = msgAlreadyOnDate
	}
	response := RescheduleAppointmentResponse{
		Success:       true,
		Message:       message,
		AppointmentID: result.AppointmentID,
		ServiceID:     result.ServiceID,
		OldDate:       result.OldDate.String(),
		NewDate:       result.NewDate.String(),
		Changed:       result.Changed,
	}

	h.logger.Info("POST /appointments/{id}/reschedule - Service rescheduled: appointment_id=%d, %s -> %s",
		appointmentID, response.OldDate, response.NewDate)
	handlers.RespondJSON(w, http.StatusOK, response)
}
