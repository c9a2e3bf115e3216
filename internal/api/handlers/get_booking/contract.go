package get_booking

import (
	"context"

	"github.com/bookaircon/ACS-SchedulingService/internal/service/appointments/models"
)

type AppointmentService interface {
	GetForCustomer(ctx context.Context, id int64, phone string) (*models.AppointmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
