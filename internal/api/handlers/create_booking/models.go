package create_booking

import (
	"fmt"

	createBooking "github.com/bookaircon/ACS-SchedulingService/internal/usecase/create_booking"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// ACTypeRequest один кондиционер в составе услуги
type ACTypeRequest struct {
	Type string `json:"type"` // Central | Window | Split
}

// ServiceDraftRequest одна услуга формы бронирования
type ServiceDraftRequest struct {
	Type    string          `json:"type"` // Cleaning | Repair | Installation | Maintenance
	Date    string          `json:"date"` // "2026-09-15"
	ACTypes []ACTypeRequest `json:"acTypes"`
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Name            string                `json:"name"`
	Phone           string                `json:"phone"`
	Email           *string               `json:"email,omitempty"`
	CompleteAddress string                `json:"completeAddress"`
	Services        []ServiceDraftRequest `json:"services"`
	IdempotencyKey  *string               `json:"idempotencyKey,omitempty"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Success    bool   `json:"success"`
	BookingID  int64  `json:"bookingId"`
	CustomerID int64  `json:"customerId"`
	Message    string `json:"message"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	services := make([]createBooking.ServiceDraft, 0, len(r.Services))
	for i, svc := range r.Services {
		date, err := types.ParseCalendarDate(svc.Date)
		if err != nil {
			return nil, fmt.Errorf("service %d: %w", i+1, err)
		}
		acTypes := make([]string, 0, len(svc.ACTypes))
		for _, unit := range svc.ACTypes {
			acTypes = append(acTypes, unit.Type)
		}
		services = append(services, createBooking.ServiceDraft{
			Type:    svc.Type,
			Date:    date,
			ACTypes: acTypes,
		})
	}

	return &createBooking.Request{
		Name:           r.Name,
		Phone:          r.Phone,
		Email:          r.Email,
		Address:        r.CompleteAddress,
		Services:       services,
		IdempotencyKey: r.IdempotencyKey,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	message := msgCreated
	if resp.Replayed {
		message = msgReplayed
	}
	return &CreateBookingResponse{
		Success:    true,
		BookingID:  resp.BookingID,
		CustomerID: resp.CustomerID,
		Message:    message,
	}
}
