package reschedule_service

import "errors"

var (
	// ErrInvalidInput возвращается при невалидных входных данных
	ErrInvalidInput = errors.New("reschedule_service: invalid input")

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("reschedule_service: appointment not found")

	// ErrServiceNotFound возвращается, когда в записи нет услуги с таким названием
	ErrServiceNotFound = errors.New("reschedule_service: service not found in appointment")

	// ErrNotReschedulable возвращается, когда статус записи не допускает перенос
	ErrNotReschedulable = errors.New("reschedule_service: appointment cannot be rescheduled")

	// ErrDateInPast возвращается, когда новая дата в прошлом
	ErrDateInPast = errors.New("reschedule_service: new date is in the past")

	// ErrDateUnavailable возвращается, когда на новую дату нет свободных слотов
	ErrDateUnavailable = errors.New("reschedule_service: new date is fully booked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_service: internal error")
)
