package reschedule_appointment

import (
	"context"

	rescheduleService "github.com/bookaircon/ACS-SchedulingService/internal/usecase/reschedule_service"
)

type RescheduleServiceUseCase interface {
	Execute(ctx context.Context, req *rescheduleService.Request) (*rescheduleService.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
