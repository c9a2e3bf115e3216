package appointments

import (
	"context"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
	Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason string, cancelledBy *int64) error
	ReplaceTechnicians(ctx context.Context, appointmentID int64, technicianIDs []int64) error
}

// CapacityRepository интерфейс capacity ledger
type CapacityRepository interface {
	Release(ctx context.Context, date types.CalendarDate) error
}

// TechnicianRepository интерфейс репозитория техников
type TechnicianRepository interface {
	UpsertByName(ctx context.Context, name string) (*domain.Technician, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
