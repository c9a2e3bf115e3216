package list_technicians

import (
	"context"

	"github.com/bookaircon/ACS-SchedulingService/internal/service/technicians"
)

type TechnicianService interface {
	List(ctx context.Context) ([]technicians.TechnicianResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
