package bookingclient

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// DefaultCacheTTL время жизни оптимистичного кэша доступных дат
const DefaultCacheTTL = 30 * time.Second

// submitRetries число повторов отправки при транспортных ошибках
const submitRetries = 3

// Coordinator координатор отправки формы бронирования.
// Кэш доступных дат оптимистичный: он отсекает заведомо занятые даты до
// обращения к серверу, но не гарантирует слот. Авторитетное решение всегда
// за сервером - резерв происходит в его транзакции, и Submit готов получить
// отказ по занятости даже для даты, которую кэш считал свободной.
type Coordinator struct {
	client   *Client
	cacheTTL time.Duration
	now      func() time.Time
	log      Logger

	mu          sync.Mutex
	cachedDates map[string]bool
	cachedAt    time.Time
}

// NewCoordinator создает координатор поверх клиента API
func NewCoordinator(client *Client, log Logger) *Coordinator {
	return &Coordinator{
		client:   client,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
		log:      log,
	}
}

// AvailableDates возвращает даты со свободными слотами, используя кэш.
// Свежий кэш позволяет форме мгновенно подсвечивать календарь
func (c *Coordinator) AvailableDates(ctx context.Context) ([]types.CalendarDate, error) {
	c.mu.Lock()
	if c.cachedDates != nil && c.now().Sub(c.cachedAt) < c.cacheTTL {
		dates := cachedKeys(c.cachedDates)
		c.mu.Unlock()
		return dates, nil
	}
	c.mu.Unlock()

	return c.refreshCache(ctx)
}

// Submit отправляет форму бронирования.
//
// Порядок:
//  1. локальная валидация формы;
//  2. оптимистичная проверка дат по кэшу (если кэш свежий);
//  3. авторитетная проверка check-date-availability;
//  4. создание с idempotency key - при транспортной ошибке повтор с тем же
//     ключом, сервер не создаст дубликат.
//
// Отказ по занятости на любом шаге сбрасывает кэш, чтобы форма показала
// актуальный календарь.
func (c *Coordinator) Submit(ctx context.Context, form *BookingForm) (*BookingCreated, error) {
	if err := validateForm(form); err != nil {
		return nil, err
	}

	dates := distinctDates(form)

	// Оптимистичная проверка: если свежий кэш знает, что дата занята,
	// не ходим на сервер вовсе
	if unavailable, ok := c.checkCache(dates); ok {
		c.log.Info("Submit: date %s is full according to cache", unavailable)
		return nil, fmt.Errorf("%w: %s", ErrDateUnavailable, unavailable)
	}

	// Авторитетная проверка снапшотом перед отправкой
	statuses, err := c.client.CheckDateAvailability(ctx, dates)
	if err != nil {
		return nil, err
	}
	for _, date := range dates {
		if status, ok := statuses[date.String()]; ok && !status.Available {
			c.invalidateCache()
			c.log.Info("Submit: date %s has no remaining slots", date)
			return nil, fmt.Errorf("%w: %s", ErrDateUnavailable, date)
		}
	}

	// Один ключ на все попытки: повтор после транспортной ошибки вернет
	// уже созданную запись вместо дубликата
	idempotencyKey := uuid.NewString()

	var lastErr error
	for attempt := 1; attempt <= submitRetries; attempt++ {
		created, err := c.client.CreateBooking(ctx, form, idempotencyKey)
		if err == nil {
			c.invalidateCache()
			c.log.Info("Submit: booking created, id=%d, attempt=%d", created.BookingID, attempt)
			return created, nil
		}

		// Занятость даты - повторять бесполезно, слот забрала конкурентная заявка
		if errors.Is(err, ErrDateUnavailable) {
			c.invalidateCache()
			c.log.Warn("Submit: server rejected booking, date is full: %v", err)
			return nil, err
		}

		// Отказ по валидации повторять тоже бессмысленно
		if errors.Is(err, ErrBadRequest) {
			return nil, err
		}

		lastErr = err
		c.log.Warn("Submit: attempt %d/%d failed: %v", attempt, submitRetries, err)

		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, ctx.Err())
		}
	}

	return nil, fmt.Errorf("%w: all %d attempts failed: %v", ErrInternal, submitRetries, lastErr)
}

// checkCache возвращает первую занятую по кэшу дату, если кэш свежий
func (c *Coordinator) checkCache(dates []types.CalendarDate) (types.CalendarDate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cachedDates == nil || c.now().Sub(c.cachedAt) >= c.cacheTTL {
		return types.CalendarDate{}, false
	}

	for _, date := range dates {
		if !c.cachedDates[date.String()] {
			return date, true
		}
	}

	return types.CalendarDate{}, false
}

// refreshCache перечитывает доступные даты с сервера
func (c *Coordinator) refreshCache(ctx context.Context) ([]types.CalendarDate, error) {
	dates, err := c.client.AvailableDates(ctx, types.CalendarDate{}, types.CalendarDate{})
	if err != nil {
		return nil, err
	}

	cached := make(map[string]bool, len(dates))
	for _, d := range dates {
		cached[d.String()] = true
	}

	c.mu.Lock()
	c.cachedDates = cached
	c.cachedAt = c.now()
	c.mu.Unlock()

	return dates, nil
}

// invalidateCache сбрасывает кэш доступных дат
func (c *Coordinator) invalidateCache() {
	c.mu.Lock()
	c.cachedDates = nil
	c.mu.Unlock()
}

// validateForm локальная валидация формы до обращения к серверу
func validateForm(form *BookingForm) error {
	if form == nil {
		return fmt.Errorf("%w: form is nil", ErrInvalidForm)
	}
	if strings.TrimSpace(form.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidForm)
	}
	if strings.TrimSpace(form.Phone) == "" {
		return fmt.Errorf("%w: phone is required", ErrInvalidForm)
	}
	if strings.TrimSpace(form.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidForm)
	}
	if len(form.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidForm)
	}
	for i, svc := range form.Services {
		if svc.Date.IsZero() {
			return fmt.Errorf("%w: service %d has no date", ErrInvalidForm, i+1)
		}
		if len(svc.ACTypes) == 0 {
			return fmt.Errorf("%w: service %d has no AC units", ErrInvalidForm, i+1)
		}
	}
	return nil
}

// distinctDates уникальные даты услуг формы
func distinctDates(form *BookingForm) []types.CalendarDate {
	seen := make(map[string]bool, len(form.Services))
	dates := make([]types.CalendarDate, 0, len(form.Services))
	for _, svc := range form.Services {
		key := svc.Date.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		dates = append(dates, svc.Date)
	}
	return dates
}

// cachedKeys восстанавливает отсортированный список дат из кэша
func cachedKeys(cached map[string]bool) []types.CalendarDate {
	dates := make([]types.CalendarDate, 0, len(cached))
	for key := range cached {
		if date, err := types.ParseCalendarDate(key); err == nil {
			dates = append(dates, date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}
