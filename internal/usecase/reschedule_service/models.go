package reschedule_service

import (
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// Request модель запроса переноса услуги на другую дату
type Request struct {
	AppointmentID int64
	ServiceName   string
	NewDate       types.CalendarDate
}

// Response модель ответа переноса услуги
type Response struct {
	AppointmentID int64
	ServiceID     int64
	OldDate       types.CalendarDate
	NewDate       types.CalendarDate
	Changed       bool
}
