package check_date_availability

import (
	"context"
	"fmt"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// Request модель запроса батч-проверки доступности дат
type Request struct {
	Dates []types.CalendarDate
}

// DateStatus доступность одной даты на момент снапшота
type DateStatus struct {
	Available      bool
	RemainingSlots int
}

// Response модель ответа: состояние каждой запрошенной даты
type Response struct {
	Dates map[string]DateStatus // ключ - каноническая строка YYYY-MM-DD
}

// UseCase use case батч-проверки доступности перед отправкой заявки.
// Это снапшот, а не резерв: между этой проверкой и созданием заявки слот
// может забрать конкурентный клиент. Авторитетная проверка происходит в
// create_booking внутри транзакции.
type UseCase struct {
	capacityRepo CapacityRepository
	timeProvider TimeProvider
	maxPerDay    int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(capacityRepo CapacityRepository, maxPerDay int, logger Logger) *UseCase {
	return &UseCase{
		capacityRepo: capacityRepo,
		timeProvider: &RealTimeProvider{},
		maxPerDay:    maxPerDay,
		logger:       logger,
	}
}

// Execute возвращает доступность и остаток слотов для каждой запрошенной даты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Dates) == 0 {
		return nil, ErrNoDates
	}
	if len(req.Dates) > domain.MaxAvailabilityBatchSize {
		uc.logger.Warn("CheckDateAvailability: batch of %d dates exceeds limit", len(req.Dates))
		return nil, fmt.Errorf("%w: maximum %d", ErrTooManyDates, domain.MaxAvailabilityBatchSize)
	}

	capacities, err := uc.capacityRepo.GetByDates(ctx, req.Dates)
	if err != nil {
		uc.logger.Error("CheckDateAvailability: failed to get capacities: %v", err)
		return nil, fmt.Errorf("%w: failed to get capacities: %v", ErrInternal, err)
	}

	byDate := make(map[string]*domain.DateCapacity, len(capacities))
	for _, c := range capacities {
		byDate[c.Date.String()] = c
	}

	today := types.CalendarDateOf(uc.timeProvider.Now())
	result := make(map[string]DateStatus, len(req.Dates))

	for _, date := range req.Dates {
		key := date.String()

		// Прошедшие даты недоступны независимо от состояния ledger
		if date.Before(today) {
			result[key] = DateStatus{Available: false, RemainingSlots: 0}
			continue
		}

		if c, ok := byDate[key]; ok {
			result[key] = DateStatus{Available: c.IsAvailable(), RemainingSlots: c.Remaining()}
			continue
		}

		// Нет строки ledger - на дату еще не было резервов
		result[key] = DateStatus{Available: uc.maxPerDay > 0, RemainingSlots: uc.maxPerDay}
	}

	uc.logger.Info("CheckDateAvailability: checked %d dates", len(req.Dates))

	return &Response{Dates: result}, nil
}
