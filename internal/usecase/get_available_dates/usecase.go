package get_available_dates

import (
	"context"
	"fmt"

	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// Request модель запроса списка доступных дат
// Нулевые значения заменяются дефолтами: start = сегодня, end = start + horizon
type Request struct {
	Start types.CalendarDate
	End   types.CalendarDate
}

// Response модель ответа со списком доступных дат
type Response struct {
	Dates []types.CalendarDate
}

// UseCase use case списка доступных дат для формы бронирования.
// Чистая проекция над ledger: ничего не резервирует, детерминирована для
// снапшота ledger. Клиент кэширует результат оптимистично и перепроверяет
// даты перед отправкой заявки.
type UseCase struct {
	capacityRepo CapacityRepository
	timeProvider TimeProvider
	maxPerDay    int
	horizonDays  int
	maxRangeDays int
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	capacityRepo CapacityRepository,
	maxPerDay int,
	horizonDays int,
	maxRangeDays int,
	logger Logger,
) *UseCase {
	return &UseCase{
		capacityRepo: capacityRepo,
		timeProvider: &RealTimeProvider{},
		maxPerDay:    maxPerDay,
		horizonDays:  horizonDays,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Execute возвращает все даты диапазона со свободными слотами
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	today := types.CalendarDateOf(uc.timeProvider.Now())

	start := req.Start
	if start.IsZero() {
		start = today
	}
	end := req.End
	if end.IsZero() {
		end = start.AddDays(uc.horizonDays)
	}

	if end.Before(start) {
		uc.logger.Warn("GetAvailableDates: end %s before start %s", end, start)
		return nil, fmt.Errorf("%w: end before start", ErrInvalidRange)
	}
	if start.DaysUntil(end) > uc.maxRangeDays {
		uc.logger.Warn("GetAvailableDates: range %s..%s exceeds %d days", start, end, uc.maxRangeDays)
		return nil, fmt.Errorf("%w: maximum %d days", ErrRangeTooWide, uc.maxRangeDays)
	}

	// Прошедшие даты не бронируются - двигаем начало диапазона на сегодня
	if start.Before(today) {
		start = today
	}
	if end.Before(start) {
		return &Response{Dates: []types.CalendarDate{}}, nil
	}

	capacities, err := uc.capacityRepo.ListBetween(ctx, start, end)
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to list capacities: %v", err)
		return nil, fmt.Errorf("%w: failed to list capacities: %v", ErrInternal, err)
	}

	// Даты без строки ledger полностью свободны; строки с remaining 0 исключаются
	committed := make(map[string]int, len(capacities))
	maximums := make(map[string]int, len(capacities))
	for _, c := range capacities {
		committed[c.Date.String()] = c.Committed
		maximums[c.Date.String()] = c.Maximum
	}

	dates := make([]types.CalendarDate, 0, start.DaysUntil(end)+1)
	for d := start; !d.After(end); d = d.AddDays(1) {
		max := uc.maxPerDay
		if m, ok := maximums[d.String()]; ok {
			max = m
		}
		if committed[d.String()] < max {
			dates = append(dates, d)
		}
	}

	uc.logger.Info("GetAvailableDates: %d of %d dates available in %s..%s",
		len(dates), start.DaysUntil(end)+1, start, end)

	return &Response{Dates: dates}, nil
}
