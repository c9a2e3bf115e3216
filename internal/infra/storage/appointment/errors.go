package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrServiceNotFound возвращается, когда услуга внутри записи не найдена
	ErrServiceNotFound = errors.New("appointment.repository: service not found")

	// ErrDuplicateIdempotencyKey возвращается, когда запись с таким idempotency key уже создана
	ErrDuplicateIdempotencyKey = errors.New("appointment.repository: idempotency key already used")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
