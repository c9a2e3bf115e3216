package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrCannotAccept возвращается, когда запись нельзя подтвердить из текущего статуса
	ErrCannotAccept = errors.New("appointment cannot be accepted")

	// ErrCannotComplete возвращается, когда запись нельзя завершить из текущего статуса
	ErrCannotComplete = errors.New("appointment cannot be completed")

	// ErrCannotCancel возвращается, когда запись нельзя отменить из текущего статуса
	ErrCannotCancel = errors.New("appointment cannot be cancelled")

	// ErrAccessDenied возвращается, когда клиент обращается к чужой записи
	ErrAccessDenied = errors.New("access denied")

	// ErrTerminalStatus возвращается при попытке изменить запись в терминальном статусе
	ErrTerminalStatus = errors.New("appointment is in a terminal status")

	// ErrNoTechnicians возвращается, когда после нормализации не осталось ни одного имени
	ErrNoTechnicians = errors.New("at least one technician name is required")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
