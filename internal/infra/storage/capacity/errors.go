package capacity

import "errors"

var (
	// ErrCapacityExceeded возвращается, когда на дате не осталось свободных слотов
	ErrCapacityExceeded = errors.New("capacity.repository: no remaining slots for date")

	// ErrDateNotFound возвращается, когда для даты еще нет строки ledger
	ErrDateNotFound = errors.New("capacity.repository: date not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("capacity.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("capacity.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("capacity.repository: failed to scan row")
)
