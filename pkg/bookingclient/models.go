package bookingclient

import (
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// ServiceDraft одна услуга формы бронирования
type ServiceDraft struct {
	Type    string             `json:"type"`    // Cleaning | Repair | Installation | Maintenance
	Date    types.CalendarDate `json:"date"`    // Дата выполнения
	ACTypes []string           `json:"acTypes"` // Central | Window | Split
}

// BookingForm данные формы бронирования
type BookingForm struct {
	Name     string         `json:"name"`
	Phone    string         `json:"phone"`
	Email    *string        `json:"email,omitempty"`
	Address  string         `json:"address"`
	Services []ServiceDraft `json:"services"`
}

// BookingCreated результат успешной отправки формы
type BookingCreated struct {
	Success    bool   `json:"success"`
	BookingID  int64  `json:"bookingId"`
	CustomerID int64  `json:"customerId"`
	Message    string `json:"message"`
}

// DateStatus доступность одной даты на момент проверки
type DateStatus struct {
	Available      bool `json:"available"`
	RemainingSlots int  `json:"remaining_slots"`
}

// Booking детали бронирования
type Booking struct {
	ID           int64            `json:"id"`
	CustomerID   int64            `json:"customerId"`
	CustomerName string           `json:"customerName"`
	Phone        string           `json:"phone"`
	Email        *string          `json:"email,omitempty"`
	Address      string           `json:"address"`
	Status       string           `json:"status"`
	Services     []BookingService `json:"services"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"`
}

// BookingService услуга в составе бронирования
type BookingService struct {
	ID      int64           `json:"id"`
	Type    string          `json:"type"`
	Date    string          `json:"date"`
	ACUnits []BookingACUnit `json:"acUnits"`
}

// BookingACUnit кондиционер в составе услуги
type BookingACUnit struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// createBookingRequest тело POST /bookings
type createBookingRequest struct {
	Name            string             `json:"name"`
	Phone           string             `json:"phone"`
	Email           *string            `json:"email,omitempty"`
	CompleteAddress string             `json:"completeAddress"`
	Services        []serviceDraftWire `json:"services"`
	IdempotencyKey  *string            `json:"idempotencyKey,omitempty"`
}

type serviceDraftWire struct {
	Type    string       `json:"type"`
	Date    string       `json:"date"`
	ACTypes []acTypeWire `json:"acTypes"`
}

type acTypeWire struct {
	Type string `json:"type"`
}

// checkDateAvailabilityRequest тело POST /bookings/check-date-availability
type checkDateAvailabilityRequest struct {
	Dates []string `json:"dates"`
}

// checkDateAvailabilityResponse тело ответа проверки доступности
type checkDateAvailabilityResponse struct {
	Dates map[string]DateStatus `json:"dates"`
}

// cancelBookingRequest тело PATCH /bookings/{id}/cancel
type cancelBookingRequest struct {
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

// cancelBookingResponse тело ответа отмены бронирования
type cancelBookingResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	Appointment *Booking `json:"appointment"`
}

// errorResponse тело ответа об ошибке
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
