package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bookaircon/ACS-SchedulingService/internal/api/handlers"
)

type contextKey string

const adminIDKey contextKey = "adminID"

// AdminIDHeader заголовок идентификации администратора
const AdminIDHeader = "X-Admin-ID"

// Auth middleware для админских маршрутов: требует валидный X-Admin-ID
// и кладет его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(AdminIDHeader)
		if raw == "" {
			handlers.RespondUnauthorized(w, "missing "+AdminIDHeader+" header")
			return
		}

		adminID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || adminID <= 0 {
			handlers.RespondUnauthorized(w, "invalid "+AdminIDHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), adminIDKey, adminID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAdminID извлекает ID администратора из контекста запроса
func GetAdminID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(adminIDKey).(int64)
	return id, ok
}

const customerPhoneKey contextKey = "customerPhone"

// CustomerPhoneHeader заголовок идентификации клиента: телефон,
// указанный при создании бронирования
const CustomerPhoneHeader = "X-Customer-Phone"

// CustomerAuth middleware для маршрутов конкретного бронирования:
// требует непустой X-Customer-Phone и кладет его в контекст запроса.
// Принадлежность записи этому телефону проверяет сервисный слой
func CustomerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		phone := r.Header.Get(CustomerPhoneHeader)
		if phone == "" {
			handlers.RespondUnauthorized(w, "missing "+CustomerPhoneHeader+" header")
			return
		}

		ctx := context.WithValue(r.Context(), customerPhoneKey, phone)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCustomerPhone извлекает телефон клиента из контекста запроса
func GetCustomerPhone(ctx context.Context) (string, bool) {
	phone, ok := ctx.Value(customerPhoneKey).(string)
	return phone, ok
}
