package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrNoACUnits возвращается, когда у услуги не указан ни один AC-блок
	ErrNoACUnits = errors.New("create_booking: service has no AC units")

	// ErrMissingDate возвращается, когда у услуги не выбрана дата
	ErrMissingDate = errors.New("create_booking: service has no date")

	// ErrDateInPast возвращается, когда дата услуги уже прошла
	ErrDateInPast = errors.New("create_booking: service date is in the past")

	// ErrDateUnavailable возвращается, когда на одной из дат не осталось слотов
	// Включая случай, когда слот забрала конкурентная заявка между проверкой и созданием
	ErrDateUnavailable = errors.New("create_booking: date is fully booked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
