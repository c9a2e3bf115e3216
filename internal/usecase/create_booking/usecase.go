package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	appointmentRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/appointment"
	capacityRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/capacity"
)

// UseCase use case создания бронирования.
// Закрывает гонку между проверкой доступности и созданием: все резервы дат и
// вставка записи выполняются в одной сериализуемой транзакции, поэтому заявка
// на несколько дат либо занимает слоты на всех датах, либо не занимает ни одного.
type UseCase struct {
	appointmentRepo AppointmentRepository
	capacityRepo    CapacityRepository
	customerRepo    CustomerRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	maxPerDay       int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	capacityRepo CapacityRepository,
	customerRepo CustomerRepository,
	txManager TransactionManager,
	maxPerDay int,
	logger Logger,
) *UseCase {
	if maxPerDay <= 0 {
		maxPerDay = domain.DefaultMaxBookingsPerDay
	}
	return &UseCase{
		appointmentRepo: appointmentRepo,
		capacityRepo:    capacityRepo,
		customerRepo:    customerRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		maxPerDay:       maxPerDay,
		logger:          logger,
	}
}

// Execute выполняет use case создания бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: phone=%s, services=%d", req.Phone, len(req.Services))

	// 1. Локальная валидация (включая обязательные AC-блоки и даты)
	if err := validateRequest(req, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Повтор по idempotency key: если запись уже создана, возвращаем её
	if req.IdempotencyKey != nil {
		if resp, ok, err := uc.findReplay(ctx, *req.IdempotencyKey); err != nil {
			return nil, err
		} else if ok {
			uc.logger.Info("CreateBooking: replayed booking id=%d for idempotency key", resp.BookingID)
			return resp, nil
		}
	}

	dates := distinctDates(req)

	var created *domain.Appointment

	// 3. Резервы и вставка в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Находим или создаем клиента по телефону
		customer, err := uc.customerRepo.UpsertByPhone(txCtx, &domain.Customer{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to upsert customer: %v", err)
			return fmt.Errorf("%w: failed to upsert customer: %v", ErrInternal, err)
		}

		// 3.2. Резервируем слот на каждую уникальную дату заявки.
		// Откат транзакции при любой ошибке снимает уже сделанные резервы -
		// создание all-or-nothing по всем датам.
		for _, date := range dates {
			if _, err := uc.capacityRepo.Reserve(txCtx, date, uc.maxPerDay); err != nil {
				if errors.Is(err, capacityRepo.ErrCapacityExceeded) {
					uc.logger.Warn("CreateBooking: date %s is fully booked", date)
					return fmt.Errorf("%w: %s", ErrDateUnavailable, date)
				}
				uc.logger.Error("CreateBooking: failed to reserve date %s: %v", date, err)
				return fmt.Errorf("%w: failed to reserve date: %v", ErrInternal, err)
			}
		}

		// 3.3. Создаем запись со статусом pending
		created, err = uc.appointmentRepo.Create(txCtx, toDomainAppointment(req, customer.ID))
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrDuplicateIdempotencyKey) {
				// Конкурентный повтор успел первым - наружу уйдет replay
				return err
			}
			uc.logger.Error("CreateBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		// Конкурентный повтор с тем же idempotency key: отвечаем созданной записью
		if errors.Is(err, appointmentRepo.ErrDuplicateIdempotencyKey) && req.IdempotencyKey != nil {
			if resp, ok, replayErr := uc.findReplay(ctx, *req.IdempotencyKey); replayErr == nil && ok {
				uc.logger.Info("CreateBooking: concurrent replay resolved to booking id=%d", resp.BookingID)
				return resp, nil
			}
			return nil, fmt.Errorf("%w: duplicate idempotency key", ErrInternal)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, customer id=%d, dates=%d",
		created.ID, created.CustomerID, len(dates))

	return &Response{
		BookingID:  created.ID,
		CustomerID: created.CustomerID,
		Status:     string(created.Status),
		CreatedAt:  created.CreatedAt,
	}, nil
}

// findReplay ищет ранее созданную запись по idempotency key
func (uc *UseCase) findReplay(ctx context.Context, key string) (*Response, bool, error) {
	existing, err := uc.appointmentRepo.GetByIdempotencyKey(ctx, key)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return nil, false, nil
		}
		uc.logger.Error("CreateBooking: failed to look up idempotency key: %v", err)
		return nil, false, fmt.Errorf("%w: idempotency lookup failed: %v", ErrInternal, err)
	}

	return &Response{
		BookingID:  existing.ID,
		CustomerID: existing.CustomerID,
		Status:     string(existing.Status),
		Replayed:   true,
		CreatedAt:  existing.CreatedAt,
	}, true, nil
}
