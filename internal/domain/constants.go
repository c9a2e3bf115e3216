package domain

import "github.com/bookaircon/ACS-SchedulingService/pkg/types"

// Default configuration values
const (
	// DefaultMaxBookingsPerDay business rule: two appointment slots per calendar date
	DefaultMaxBookingsPerDay = 2
)

// Business validation constants
const (
	MaxServicesPerAppointment   = 10
	MaxACUnitsPerService        = 20
	MaxCancellationReasonLength = 500
	MaxCustomerNameLength       = 150
	MaxAddressLength            = 500
	MaxAvailabilityBatchSize    = 62
)

// DateFormat canonical date representation, see pkg/types.CalendarDate
const DateFormat = types.CalendarDateFormat

// InactiveStatuses статусы, которые не удерживают слоты в capacity ledger
var InactiveStatuses = []AppointmentStatus{
	StatusRejected,
	StatusCancelled,
}

// ActiveStatuses статусы, удерживающие слоты
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusAccepted,
	StatusCompleted,
}

// AllStatuses все допустимые статусы (для валидации фильтров)
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusAccepted,
	StatusCompleted,
	StatusRejected,
	StatusCancelled,
}

// AppointmentsFilter фильтр для выборки записей (админ-страницы: календарь, отчеты)
type AppointmentsFilter struct {
	Status          *AppointmentStatus  // Фильтр по статусу (опционально)
	StartDate       *types.CalendarDate // Начало периода по датам услуг (опционально)
	EndDate         *types.CalendarDate // Конец периода по датам услуг (опционально)
	CustomerID      *int64              // Фильтр по клиенту (опционально)
	IncludeInactive bool                // Включать ли отклоненные и отмененные записи
}
