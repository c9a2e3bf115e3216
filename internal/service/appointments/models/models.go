package models

import (
	"errors"
	"time"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе в фильтре
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// AcceptAppointmentRequest запрос на подтверждение записи
type AcceptAppointmentRequest struct {
	TechnicianNames []string `json:"technicianNames,omitempty"`
}

// RejectAppointmentRequest запрос на отклонение записи администратором
type RejectAppointmentRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelAppointmentRequest запрос на отмену записи клиентом.
// Phone — телефон из заголовка идентификации, не из тела запроса
type CancelAppointmentRequest struct {
	Phone              string `json:"-"`
	CancellationReason string `json:"cancellationReason,omitempty"`
}

// AssignTechniciansRequest запрос на назначение техников на запись
type AssignTechniciansRequest struct {
	TechnicianNames []string `json:"technicianNames"`
}

// ListAppointmentsRequest запрос на выборку записей с фильтрацией
type ListAppointmentsRequest struct {
	Status          *string             `json:"status,omitempty"`
	StartDate       *types.CalendarDate `json:"startDate,omitempty"`
	EndDate         *types.CalendarDate `json:"endDate,omitempty"`
	CustomerID      *int64              `json:"customerId,omitempty"`
	IncludeInactive bool                `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListAppointmentsRequest) ToDomainFilter() (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		CustomerID:      r.CustomerID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, ok := domain.ParseAppointmentStatus(*r.Status)
		if !ok {
			return filter, ErrInvalidStatus
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ACUnitResponse один кондиционер в составе услуги
type ACUnitResponse struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// ServiceResponse одна услуга записи
type ServiceResponse struct {
	ID      int64            `json:"id"`
	Type    string           `json:"type"`
	Date    string           `json:"date"` // "2026-09-15"
	ACUnits []ACUnitResponse `json:"acUnits"`
}

// TechnicianResponse назначенный техник
type TechnicianResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID           int64   `json:"id"`
	CustomerID   int64   `json:"customerId"`
	CustomerName string  `json:"customerName"`
	Phone        string  `json:"phone"`
	Email        *string `json:"email,omitempty"`
	Address      string  `json:"address"`
	Status       string  `json:"status"`

	Services    []ServiceResponse    `json:"services"`
	Technicians []TechnicianResponse `json:"technicians"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *int64  `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AppointmentListResponse ответ со списком записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}

// Методы конвертации

// FromDomainAppointment конвертирует domain модель в DTO
func FromDomainAppointment(a *domain.Appointment) *AppointmentResponse {
	if a == nil {
		return nil
	}

	resp := &AppointmentResponse{
		ID:                 a.ID,
		CustomerID:         a.CustomerID,
		CustomerName:       a.CustomerName,
		Phone:              a.Phone,
		Email:              a.Email,
		Address:            a.Address,
		Status:             string(a.Status),
		Services:           make([]ServiceResponse, 0, len(a.Services)),
		Technicians:        make([]TechnicianResponse, 0, len(a.Technicians)),
		CancellationReason: a.CancellationReason,
		CancelledBy:        a.CancelledBy,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}

	for _, svc := range a.Services {
		units := make([]ACUnitResponse, 0, len(svc.ACUnits))
		for _, u := range svc.ACUnits {
			units = append(units, ACUnitResponse{ID: u.ID, Type: string(u.Type)})
		}
		resp.Services = append(resp.Services, ServiceResponse{
			ID:      svc.ID,
			Type:    string(svc.Type),
			Date:    svc.Date.String(),
			ACUnits: units,
		})
	}

	for _, t := range a.Technicians {
		resp.Technicians = append(resp.Technicians, TechnicianResponse{ID: t.ID, Name: t.Name})
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if a.CancelledAt != nil {
		cancelledStr := a.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainAppointmentList конвертирует список domain моделей в DTO
func FromDomainAppointmentList(appointments []*domain.Appointment) *AppointmentListResponse {
	resp := &AppointmentListResponse{
		Appointments: make([]AppointmentResponse, 0, len(appointments)),
	}
	for _, a := range appointments {
		resp.Appointments = append(resp.Appointments, *FromDomainAppointment(a))
	}
	return resp
}
