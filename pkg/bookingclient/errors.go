package bookingclient

import "errors"

var (
	// ErrInvalidForm возвращается, когда форма не проходит локальную валидацию
	ErrInvalidForm = errors.New("bookingclient: invalid booking form")

	// ErrDateUnavailable возвращается, когда на одной из дат нет свободных слотов.
	// И при оптимистичной проверке, и при авторитетном отказе сервера
	ErrDateUnavailable = errors.New("bookingclient: date has no remaining slots")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("bookingclient: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому клиенту
	ErrAccessDenied = errors.New("bookingclient: booking belongs to another customer")

	// ErrCannotCancel возвращается, когда бронирование нельзя отменить
	ErrCannotCancel = errors.New("bookingclient: booking cannot be cancelled")

	// ErrBadRequest возвращается, когда сервер отклонил запрос как некорректный
	ErrBadRequest = errors.New("bookingclient: server rejected request")

	// ErrInvalidResponse возвращается при неожиданном ответе сервера
	ErrInvalidResponse = errors.New("bookingclient: invalid server response")

	// ErrInternal возвращается при транспортных и внутренних ошибках
	ErrInternal = errors.New("bookingclient: internal error")
)
