package domain

import (
	"strings"
	"time"

	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusAccepted  AppointmentStatus = "accepted"
	StatusCompleted AppointmentStatus = "completed"
	StatusRejected  AppointmentStatus = "rejected"
	StatusCancelled AppointmentStatus = "cancelled"
)

// ServiceType represents the kind of work requested for one service line
type ServiceType string

const (
	ServiceCleaning     ServiceType = "Cleaning"
	ServiceRepair       ServiceType = "Repair"
	ServiceInstallation ServiceType = "Installation"
	ServiceMaintenance  ServiceType = "Maintenance"
)

// ACType represents the unit type a service is performed on
type ACType string

const (
	ACCentral ACType = "Central"
	ACWindow  ACType = "Window"
	ACSplit   ACType = "Split"
)

// ACUnit is one air-conditioning unit within a service line
type ACUnit struct {
	ID   int64
	Type ACType
}

// AppointmentService is one unit of work within an appointment.
// Each distinct service date consumes one slot of that date's capacity.
type AppointmentService struct {
	ID            int64
	AppointmentID int64
	Type          ServiceType
	Date          types.CalendarDate
	ACUnits       []ACUnit
}

// Appointment represents a customer's aggregate booking request
type Appointment struct {
	ID           int64
	CustomerID   int64
	CustomerName string
	Phone        string
	Email        *string
	Address      string
	Status       AppointmentStatus
	Services     []AppointmentService
	Technicians  []Technician

	CancellationReason *string
	CancelledBy        *int64
	CancelledAt        *time.Time

	// IdempotencyKey is the client-supplied token that makes create retries safe
	IdempotencyKey *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBeAccepted returns true if the appointment may move to accepted
func (a *Appointment) CanBeAccepted() bool {
	return a.Status == StatusPending
}

// CanBeCompleted returns true if the appointment may move to completed
func (a *Appointment) CanBeCompleted() bool {
	return a.Status == StatusAccepted
}

// CanBeCancelled returns true if the appointment may be cancelled or rejected
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusAccepted
}

// CanBeRescheduled returns true if a service date may still be moved
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusAccepted
}

// IsTerminal returns true if no further transitions are allowed
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted || a.Status == StatusRejected || a.Status == StatusCancelled
}

// IsActive returns true if the appointment still holds capacity
func (a *Appointment) IsActive() bool {
	return a.Status != StatusRejected && a.Status != StatusCancelled
}

// ServiceDates returns the distinct calendar dates of the appointment's services,
// in the order they first appear
func (a *Appointment) ServiceDates() []types.CalendarDate {
	seen := make(map[string]bool, len(a.Services))
	dates := make([]types.CalendarDate, 0, len(a.Services))
	for _, svc := range a.Services {
		key := svc.Date.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, svc.Date)
	}
	return dates
}

// FindServiceByName returns the first service whose type matches name
// (case-insensitive), or nil if none matches. The admin UI addresses
// services by their type name when rescheduling.
func (a *Appointment) FindServiceByName(name string) *AppointmentService {
	for i := range a.Services {
		if strings.EqualFold(string(a.Services[i].Type), name) {
			return &a.Services[i]
		}
	}
	return nil
}

// HoldsDate returns true if any service other than excluded one is booked on date
func (a *Appointment) HoldsDate(date types.CalendarDate, excludeServiceID int64) bool {
	for _, svc := range a.Services {
		if svc.ID == excludeServiceID {
			continue
		}
		if svc.Date.Equal(date) {
			return true
		}
	}
	return false
}

// ParseServiceType validates and converts a service type string
func ParseServiceType(s string) (ServiceType, bool) {
	for _, valid := range []ServiceType{ServiceCleaning, ServiceRepair, ServiceInstallation, ServiceMaintenance} {
		if strings.EqualFold(string(valid), s) {
			return valid, true
		}
	}
	return "", false
}

// ParseACType validates and converts an AC unit type string
func ParseACType(s string) (ACType, bool) {
	for _, valid := range []ACType{ACCentral, ACWindow, ACSplit} {
		if strings.EqualFold(string(valid), s) {
			return valid, true
		}
	}
	return "", false
}

// ParseAppointmentStatus validates and converts a status string
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	for _, valid := range AllStatuses {
		if string(valid) == s {
			return valid, true
		}
	}
	return "", false
}
