package create_booking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	appointmentRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/appointment"
	capacityRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/capacity"
	"github.com/bookaircon/ACS-SchedulingService/pkg/ptr"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// Фейки репозиториев. Транзакционная семантика моделируется журналом
// резервов: откат fakeTxManager возвращает ledger в исходное состояние,
// как это делает rollback настоящей транзакции.

type fakeCapacityRepo struct {
	mu        sync.Mutex
	committed map[string]int
	journal   []string // даты, зарезервированные в текущей транзакции
}

func newFakeCapacityRepo() *fakeCapacityRepo {
	return &fakeCapacityRepo{committed: make(map[string]int)}
}

func (f *fakeCapacityRepo) Reserve(_ context.Context, date types.CalendarDate, maximum int) (*domain.DateCapacity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := date.String()
	if f.committed[key] >= maximum {
		return nil, capacityRepo.ErrCapacityExceeded
	}
	f.committed[key]++
	f.journal = append(f.journal, key)

	return &domain.DateCapacity{Date: date, Committed: f.committed[key], Maximum: maximum}, nil
}

func (f *fakeCapacityRepo) rollback() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range f.journal {
		f.committed[key]--
	}
	f.journal = nil
}

func (f *fakeCapacityRepo) commit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.journal = nil
}

func (f *fakeCapacityRepo) committedOn(date types.CalendarDate) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed[date.String()]
}

type fakeAppointmentRepo struct {
	mu     sync.Mutex
	nextID int64
	byKey  map[string]*domain.Appointment
	failOn error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{nextID: 1, byKey: make(map[string]*domain.Appointment)}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failOn != nil {
		return nil, f.failOn
	}

	if apt.IdempotencyKey != nil {
		if _, exists := f.byKey[*apt.IdempotencyKey]; exists {
			return nil, appointmentRepo.ErrDuplicateIdempotencyKey
		}
	}

	apt.ID = f.nextID
	f.nextID++
	apt.CreatedAt = time.Now()

	if apt.IdempotencyKey != nil {
		f.byKey[*apt.IdempotencyKey] = apt
	}

	return apt, nil
}

func (f *fakeAppointmentRepo) GetByIdempotencyKey(_ context.Context, key string) (*domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if apt, ok := f.byKey[key]; ok {
		return apt, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

type fakeCustomerRepo struct {
	mu      sync.Mutex
	nextID  int64
	byPhone map[string]int64
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{nextID: 100, byPhone: make(map[string]int64)}
}

func (f *fakeCustomerRepo) UpsertByPhone(_ context.Context, c *domain.Customer) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if id, ok := f.byPhone[c.Phone]; ok {
		c.ID = id
		return c, nil
	}
	c.ID = f.nextID
	f.byPhone[c.Phone] = c.ID
	f.nextID++
	return c, nil
}

// fakeTxManager выполняет fn и откатывает резервы при ошибке.
// Транзакции выполняются строго по одной, как при serializable isolation.
type fakeTxManager struct {
	mu       sync.Mutex
	capacity *fakeCapacityRepo
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.capacity.rollback()
		return err
	}
	f.capacity.commit()
	return nil
}

type fakeTime struct{ now time.Time }

func (f *fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Вспомогательная сборка

type fixture struct {
	uc          *UseCase
	capacity    *fakeCapacityRepo
	appointment *fakeAppointmentRepo
	customers   *fakeCustomerRepo
	today       types.CalendarDate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	capacity := newFakeCapacityRepo()
	appointment := newFakeAppointmentRepo()
	customers := newFakeCustomerRepo()

	uc := NewUseCase(appointment, capacity, customers, &fakeTxManager{capacity: capacity}, 2, nopLogger{})

	now := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	uc.timeProvider = &fakeTime{now: now}

	return &fixture{
		uc:          uc,
		capacity:    capacity,
		appointment: appointment,
		customers:   customers,
		today:       types.CalendarDateOf(now),
	}
}

func validRequest(date types.CalendarDate) *Request {
	return &Request{
		Name:    "John Doe",
		Phone:   "+15550100",
		Address: "12 Main St, Springfield",
		Services: []ServiceDraft{
			{Type: "Cleaning", Date: date, ACTypes: []string{"Split"}},
		},
	}
}

// Тесты

func TestExecute_CreatesBooking(t *testing.T) {
	f := newFixture(t)
	date := f.today.AddDays(3)

	resp, err := f.uc.Execute(context.Background(), validRequest(date))

	require.NoError(t, err)
	assert.NotZero(t, resp.BookingID)
	assert.NotZero(t, resp.CustomerID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.False(t, resp.Replayed)
	assert.Equal(t, 1, f.capacity.committedOn(date))
}

func TestExecute_ValidationFailures(t *testing.T) {
	f := newFixture(t)
	date := f.today.AddDays(3)

	tests := []struct {
		name    string
		mutate  func(*Request)
		wantErr error
	}{
		{
			name:    "empty name",
			mutate:  func(r *Request) { r.Name = "  " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty phone",
			mutate:  func(r *Request) { r.Phone = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "empty address",
			mutate:  func(r *Request) { r.Address = "" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no services",
			mutate:  func(r *Request) { r.Services = nil },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown service type",
			mutate:  func(r *Request) { r.Services[0].Type = "Painting" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "no AC units",
			mutate:  func(r *Request) { r.Services[0].ACTypes = nil },
			wantErr: ErrNoACUnits,
		},
		{
			name:    "unknown AC type",
			mutate:  func(r *Request) { r.Services[0].ACTypes = []string{"Portable"} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing date",
			mutate:  func(r *Request) { r.Services[0].Date = types.CalendarDate{} },
			wantErr: ErrMissingDate,
		},
		{
			name:    "date in past",
			mutate:  func(r *Request) { r.Services[0].Date = f.today.AddDays(-1) },
			wantErr: ErrDateInPast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(date)
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Ни одна невалидная заявка не должна занять слот
	assert.Equal(t, 0, f.capacity.committedOn(date))
}

func TestExecute_TodayIsBookable(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), validRequest(f.today))
	require.NoError(t, err)
}

func TestExecute_CapacityExceeded(t *testing.T) {
	f := newFixture(t)
	date := f.today.AddDays(5)

	for i := 0; i < 2; i++ {
		req := validRequest(date)
		req.Phone = fmt.Sprintf("+1555010%d", i)
		_, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
	}

	_, err := f.uc.Execute(context.Background(), validRequest(date))
	assert.ErrorIs(t, err, ErrDateUnavailable)
	assert.Equal(t, 2, f.capacity.committedOn(date))
}

func TestExecute_MultiDateAllOrNothing(t *testing.T) {
	f := newFixture(t)
	freeDate := f.today.AddDays(3)
	fullDate := f.today.AddDays(4)

	// Занимаем оба слота на fullDate
	for i := 0; i < 2; i++ {
		req := validRequest(fullDate)
		req.Phone = fmt.Sprintf("+1555020%d", i)
		_, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
	}

	req := validRequest(freeDate)
	req.Services = append(req.Services, ServiceDraft{
		Type: "Repair", Date: fullDate, ACTypes: []string{"Window"},
	})

	_, err := f.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrDateUnavailable)

	// Резерв свободной даты должен быть снят откатом транзакции
	assert.Equal(t, 0, f.capacity.committedOn(freeDate))
	assert.Equal(t, 2, f.capacity.committedOn(fullDate))
}

func TestExecute_SameDateServicesConsumeOneSlot(t *testing.T) {
	f := newFixture(t)
	date := f.today.AddDays(7)

	req := validRequest(date)
	req.Services = append(req.Services, ServiceDraft{
		Type: "Maintenance", Date: date, ACTypes: []string{"Central"},
	})

	_, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	// Две услуги на одну дату занимают один слот, а не два
	assert.Equal(t, 1, f.capacity.committedOn(date))
}

func TestExecute_IdempotencyReplay(t *testing.T) {
	f := newFixture(t)
	date := f.today.AddDays(3)
	req := validRequest(date)
	req.IdempotencyKey = ptr.Ptr("client-token-42")

	first, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Replayed)

	// Повтор с тем же ключом возвращает ту же запись и не занимает слот
	retry := validRequest(date)
	retry.IdempotencyKey = ptr.Ptr("client-token-42")

	second, err := f.uc.Execute(context.Background(), retry)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.BookingID, second.BookingID)
	assert.Equal(t, 1, f.capacity.committedOn(date))
}

func TestExecute_CustomerReusedByPhone(t *testing.T) {
	f := newFixture(t)

	first, err := f.uc.Execute(context.Background(), validRequest(f.today.AddDays(1)))
	require.NoError(t, err)

	second, err := f.uc.Execute(context.Background(), validRequest(f.today.AddDays(2)))
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)
}

func TestExecute_ConcurrentLastSlot(t *testing.T) {
	f := newFixture(t)
	date := f.today.AddDays(10)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			req := validRequest(date)
			req.Phone = fmt.Sprintf("+1555100%d", n)
			_, err := f.uc.Execute(context.Background(), req)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, rejected int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		default:
			require.ErrorIs(t, err, ErrDateUnavailable)
			rejected++
		}
	}

	// Ровно maximum заявок получают слоты, остальные получают отказ
	assert.Equal(t, 2, succeeded)
	assert.Equal(t, attempts-2, rejected)
	assert.Equal(t, 2, f.capacity.committedOn(date))
}
