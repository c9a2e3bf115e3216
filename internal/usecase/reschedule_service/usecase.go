package reschedule_service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appointmentRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/appointment"
	capacityRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/capacity"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// UseCase use case переноса услуги на другую дату.
// Резерв новой даты и снятие резерва старой выполняются в одной сериализуемой
// транзакции: при любой ошибке откат возвращает ledger в исходное состояние,
// запись не может потерять слот на старой дате не получив слот на новой.
type UseCase struct {
	appointmentRepo AppointmentRepository
	capacityRepo    CapacityRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	maxPerDay       int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	capacityRepo CapacityRepository,
	txManager TransactionManager,
	maxPerDay int,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		capacityRepo:    capacityRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		maxPerDay:       maxPerDay,
		logger:          logger,
	}
}

// Execute выполняет use case переноса услуги
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleService: appointment id=%d, service=%q, new date=%s",
		req.AppointmentID, req.ServiceName, req.NewDate)

	if err := uc.validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleService: validation failed: %v", err)
		return nil, err
	}

	var resp *Response

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Читаем запись с блокировкой строки внутри транзакции
		apt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				return fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, req.AppointmentID)
			}
			uc.logger.Error("RescheduleService: failed to get appointment: %v", err)
			return fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
		}

		// 2. Перенос разрешен только для активных записей
		if !apt.CanBeRescheduled() {
			return fmt.Errorf("%w: status=%s", ErrNotReschedulable, apt.Status)
		}

		// 3. Находим услугу по названию (регистронезависимо)
		svc := apt.FindServiceByName(req.ServiceName)
		if svc == nil {
			return fmt.Errorf("%w: %q", ErrServiceNotFound, req.ServiceName)
		}

		oldDate := svc.Date

		// Перенос на ту же дату - ничего не меняем
		if oldDate.Equal(req.NewDate) {
			resp = &Response{
				AppointmentID: apt.ID,
				ServiceID:     svc.ID,
				OldDate:       oldDate,
				NewDate:       req.NewDate,
				Changed:       false,
			}
			return nil
		}

		// 4. Резервируем слот на новую дату, если запись еще не держит её
		// другой услугой. Резерв до снятия старого: при нехватке слотов
		// транзакция откатится, старая дата останется занятой.
		if !apt.HoldsDate(req.NewDate, svc.ID) {
			if _, err := uc.capacityRepo.Reserve(txCtx, req.NewDate, uc.maxPerDay); err != nil {
				if errors.Is(err, capacityRepo.ErrCapacityExceeded) {
					uc.logger.Warn("RescheduleService: date %s is fully booked", req.NewDate)
					return fmt.Errorf("%w: %s", ErrDateUnavailable, req.NewDate)
				}
				uc.logger.Error("RescheduleService: failed to reserve date %s: %v", req.NewDate, err)
				return fmt.Errorf("%w: failed to reserve date: %v", ErrInternal, err)
			}
		}

		// 5. Снимаем резерв со старой даты, если её не держит другая услуга записи
		if !apt.HoldsDate(oldDate, svc.ID) {
			if err := uc.capacityRepo.Release(txCtx, oldDate); err != nil {
				uc.logger.Error("RescheduleService: failed to release date %s: %v", oldDate, err)
				return fmt.Errorf("%w: failed to release date: %v", ErrInternal, err)
			}
		}

		// 6. Обновляем дату услуги
		if err := uc.appointmentRepo.UpdateServiceDate(txCtx, svc.ID, req.NewDate); err != nil {
			uc.logger.Error("RescheduleService: failed to update service date: %v", err)
			return fmt.Errorf("%w: failed to update service date: %v", ErrInternal, err)
		}

		resp = &Response{
			AppointmentID: apt.ID,
			ServiceID:     svc.ID,
			OldDate:       oldDate,
			NewDate:       req.NewDate,
			Changed:       true,
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	if resp.Changed {
		uc.logger.Info("RescheduleService: appointment id=%d service id=%d moved %s -> %s",
			resp.AppointmentID, resp.ServiceID, resp.OldDate, resp.NewDate)
	} else {
		uc.logger.Info("RescheduleService: appointment id=%d service id=%d already on %s",
			resp.AppointmentID, resp.ServiceID, resp.NewDate)
	}

	return resp, nil
}

// validateRequest проверяет входные данные до открытия транзакции
func (uc *UseCase) validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointment id must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(req.ServiceName) == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}
	if req.NewDate.IsZero() {
		return fmt.Errorf("%w: new date is required", ErrInvalidInput)
	}

	today := types.CalendarDateOf(uc.timeProvider.Now())
	if req.NewDate.Before(today) {
		return fmt.Errorf("%w: %s", ErrDateInPast, req.NewDate)
	}

	return nil
}
