package create_booking

import (
	"time"

	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// ServiceDraft одна услуга из формы бронирования
type ServiceDraft struct {
	Type    string             // Тип услуги (Cleaning | Repair | Installation | Maintenance)
	Date    types.CalendarDate // Дата выполнения
	ACTypes []string           // Типы AC-блоков (Central | Window | Split), минимум один
}

// Request модель запроса на создание бронирования
type Request struct {
	Name           string         // Имя клиента
	Phone          string         // Телефон клиента (эффективная идентичность)
	Email          *string        // Email (опционально)
	Address        string         // Полный адрес обслуживания
	Services       []ServiceDraft // Услуги, минимум одна
	IdempotencyKey *string        // Клиентский токен для безопасного повтора (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	BookingID  int64     // ID созданной записи
	CustomerID int64     // ID клиента (созданного или найденного по телефону)
	Status     string    // Статус записи (всегда pending при создании)
	Replayed   bool      // true, если запрос был повтором по idempotency key
	CreatedAt  time.Time // Время создания
}
