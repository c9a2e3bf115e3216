package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// validateRequest валидирует заявку локально - до любых обращений к БД.
// Незаполненный AC-блок или дата отклоняются здесь же, без резервирования слотов.
func validateRequest(req *Request, now time.Time) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(req.Name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: complete address is required", ErrInvalidInput)
	}
	if len(req.Address) > domain.MaxAddressLength {
		return fmt.Errorf("%w: address is too long", ErrInvalidInput)
	}

	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}
	if len(req.Services) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: too many services, maximum %d", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	today := types.CalendarDateOf(now)

	for i, svc := range req.Services {
		if _, ok := domain.ParseServiceType(svc.Type); !ok {
			return fmt.Errorf("%w: service #%d has unknown type %q", ErrInvalidInput, i+1, svc.Type)
		}

		if svc.Date.IsZero() {
			return fmt.Errorf("%w: service #%d", ErrMissingDate, i+1)
		}
		if svc.Date.Before(today) {
			return fmt.Errorf("%w: service #%d on %s", ErrDateInPast, i+1, svc.Date)
		}

		if len(svc.ACTypes) == 0 {
			return fmt.Errorf("%w: service #%d", ErrNoACUnits, i+1)
		}
		if len(svc.ACTypes) > domain.MaxACUnitsPerService {
			return fmt.Errorf("%w: service #%d has too many AC units, maximum %d",
				ErrInvalidInput, i+1, domain.MaxACUnitsPerService)
		}

		for _, acType := range svc.ACTypes {
			if _, ok := domain.ParseACType(acType); !ok {
				return fmt.Errorf("%w: service #%d has unknown AC type %q", ErrInvalidInput, i+1, acType)
			}
		}
	}

	return nil
}

// toDomainAppointment конвертирует валидированную заявку в domain модель
func toDomainAppointment(req *Request, customerID int64) *domain.Appointment {
	services := make([]domain.AppointmentService, 0, len(req.Services))
	for _, draft := range req.Services {
		serviceType, _ := domain.ParseServiceType(draft.Type)

		units := make([]domain.ACUnit, 0, len(draft.ACTypes))
		for _, acType := range draft.ACTypes {
			parsed, _ := domain.ParseACType(acType)
			units = append(units, domain.ACUnit{Type: parsed})
		}

		services = append(services, domain.AppointmentService{
			Type:    serviceType,
			Date:    draft.Date,
			ACUnits: units,
		})
	}

	return &domain.Appointment{
		CustomerID:     customerID,
		CustomerName:   strings.TrimSpace(req.Name),
		Phone:          strings.TrimSpace(req.Phone),
		Email:          req.Email,
		Address:        strings.TrimSpace(req.Address),
		Status:         domain.StatusPending,
		Services:       services,
		IdempotencyKey: req.IdempotencyKey,
	}
}

// distinctDates возвращает уникальные даты услуг заявки в порядке появления
// Каждая уникальная дата потребляет один слот capacity ledger
func distinctDates(req *Request) []types.CalendarDate {
	seen := make(map[string]bool, len(req.Services))
	dates := make([]types.CalendarDate, 0, len(req.Services))
	for _, svc := range req.Services {
		key := svc.Date.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, svc.Date)
	}
	return dates
}
