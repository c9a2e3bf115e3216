package get_available_dates

import "errors"

var (
	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("get_available_dates: invalid date range")

	// ErrRangeTooWide возвращается, когда запрошенный диапазон шире допустимого
	ErrRangeTooWide = errors.New("get_available_dates: date range is too wide")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_dates: internal error")
)
