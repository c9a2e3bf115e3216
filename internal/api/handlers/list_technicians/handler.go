package list_technicians

import (
	"net/http"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
)

type Handler struct {
	service TechnicianService
	logger  Logger
}

func NewHandler(service TechnicianService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/technicians
// Отвечает плоским массивом {id, name}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("GET /appointments/technicians - Failed to list technicians: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /appointments/technicians - Returned %d technicians", len(result))
	handlers.RespondJSON(w, http.StatusOK, result)
}
