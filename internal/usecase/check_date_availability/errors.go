package check_date_availability

import "errors"

var (
	// ErrNoDates возвращается, когда в запросе нет ни одной даты
	ErrNoDates = errors.New("check_date_availability: at least one date is required")

	// ErrTooManyDates возвращается, когда размер батча превышает лимит
	ErrTooManyDates = errors.New("check_date_availability: too many dates in one request")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("check_date_availability: internal error")
)
