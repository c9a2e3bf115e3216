package create_booking

import (
	"context"
	"time"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, apt *domain.Appointment) (*domain.Appointment, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Appointment, error)
}

// CapacityRepository интерфейс capacity ledger
type CapacityRepository interface {
	Reserve(ctx context.Context, date types.CalendarDate, maximum int) (*domain.DateCapacity, error)
}

// CustomerRepository интерфейс репозитория клиентов
type CustomerRepository interface {
	UpsertByPhone(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
