package check_date_availability

import (
	"context"

	checkDateAvailability "github.com/bookaircon/ACS-SchedulingService/internal/usecase/check_date_availability"
)

type CheckDateAvailabilityUseCase interface {
	Execute(ctx context.Context, req *checkDateAvailability.Request) (*checkDateAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
