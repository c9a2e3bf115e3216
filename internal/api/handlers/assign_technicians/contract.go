package assign_technicians

import (
	"context"

	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	AssignTechnicians(ctx context.Context, id int64, req *models.AssignTechniciansRequest) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
