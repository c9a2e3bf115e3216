package technicians

import (
	"context"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
)

// TechnicianRepository интерфейс репозитория техников
type TechnicianRepository interface {
	List(ctx context.Context) ([]*domain.Technician, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
