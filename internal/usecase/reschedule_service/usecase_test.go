package reschedule_service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookaircon/ACS-SchedulingService/internal/domain"
	appointmentRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/appointment"
	capacityRepo "github.com/bookaircon/ACS-SchedulingService/internal/infra/storage/capacity"
	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

// Фейки. Ledger моделирует журнал изменений: откат fakeTxManager
// возвращает счетчики к состоянию на начало транзакции.

type ledgerOp struct {
	date  string
	delta int
}

type fakeLedger struct {
	mu        sync.Mutex
	committed map[string]int
	maximum   int
	journal   []ledgerOp
}

func newFakeLedger(maximum int) *fakeLedger {
	return &fakeLedger{committed: make(map[string]int), maximum: maximum}
}

func (f *fakeLedger) Reserve(_ context.Context, date types.CalendarDate, maximum int) (*domain.DateCapacity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := date.String()
	if f.committed[key] >= maximum {
		return nil, capacityRepo.ErrCapacityExceeded
	}
	f.committed[key]++
	f.journal = append(f.journal, ledgerOp{date: key, delta: 1})

	return &domain.DateCapacity{Date: date, Committed: f.committed[key], Maximum: maximum}, nil
}

func (f *fakeLedger) Release(_ context.Context, date types.CalendarDate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := date.String()
	if f.committed[key] > 0 {
		f.committed[key]--
		f.journal = append(f.journal, ledgerOp{date: key, delta: -1})
	}
	return nil
}

func (f *fakeLedger) rollback() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, op := range f.journal {
		f.committed[op.date] -= op.delta
	}
	f.journal = nil
}

func (f *fakeLedger) commit() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.journal = nil
}

func (f *fakeLedger) set(date types.CalendarDate, committed int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed[date.String()] = committed
}

func (f *fakeLedger) committedOn(date types.CalendarDate) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.committed[date.String()]
}

type fakeAppointments struct {
	byID         map[int64]*domain.Appointment
	updatedSvcID int64
	updatedDate  types.CalendarDate
	updates      int
}

func (f *fakeAppointments) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if apt, ok := f.byID[id]; ok {
		return apt, nil
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (f *fakeAppointments) UpdateServiceDate(_ context.Context, serviceID int64, date types.CalendarDate) error {
	f.updatedSvcID = serviceID
	f.updatedDate = date
	f.updates++
	return nil
}

type fakeTxManager struct {
	ledger *fakeLedger
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		f.ledger.rollback()
		return err
	}
	f.ledger.commit()
	return nil
}

type fakeTime struct{ now time.Time }

func (f *fakeTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	uc           *UseCase
	ledger       *fakeLedger
	appointments *fakeAppointments
	today        types.CalendarDate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ledger := newFakeLedger(2)
	appointments := &fakeAppointments{byID: make(map[int64]*domain.Appointment)}

	uc := NewUseCase(appointments, ledger, &fakeTxManager{ledger: ledger}, 2, nopLogger{})

	now := time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)
	uc.timeProvider = &fakeTime{now: now}

	return &fixture{
		uc:           uc,
		ledger:       ledger,
		appointments: appointments,
		today:        types.CalendarDateOf(now),
	}
}

// addAppointment регистрирует запись и занимает слоты на её датах
func (f *fixture) addAppointment(apt *domain.Appointment) {
	f.appointments.byID[apt.ID] = apt
	for _, date := range apt.ServiceDates() {
		f.ledger.set(date, f.ledger.committedOn(date)+1)
	}
}

func pendingAppointment(id int64, services ...domain.AppointmentService) *domain.Appointment {
	return &domain.Appointment{
		ID:       id,
		Status:   domain.StatusPending,
		Services: services,
	}
}

func TestExecute_MovesServiceToNewDate(t *testing.T) {
	f := newFixture(t)
	oldDate := f.today.AddDays(2)
	newDate := f.today.AddDays(5)

	f.addAppointment(pendingAppointment(1,
		domain.AppointmentService{ID: 10, Type: domain.ServiceCleaning, Date: oldDate},
	))

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		ServiceName:   "cleaning",
		NewDate:       newDate,
	})

	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, int64(10), resp.ServiceID)
	assert.Equal(t, oldDate, resp.OldDate)
	assert.Equal(t, newDate, resp.NewDate)

	assert.Equal(t, 0, f.ledger.committedOn(oldDate))
	assert.Equal(t, 1, f.ledger.committedOn(newDate))
	assert.Equal(t, int64(10), f.appointments.updatedSvcID)
	assert.Equal(t, newDate, f.appointments.updatedDate)
}

func TestExecute_SameDateIsNoOp(t *testing.T) {
	f := newFixture(t)
	date := f.today.AddDays(2)

	f.addAppointment(pendingAppointment(1,
		domain.AppointmentService{ID: 10, Type: domain.ServiceRepair, Date: date},
	))

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		ServiceName:   "Repair",
		NewDate:       date,
	})

	require.NoError(t, err)
	assert.False(t, resp.Changed)
	assert.Equal(t, 1, f.ledger.committedOn(date))
	assert.Equal(t, 0, f.appointments.updates)
}

func TestExecute_NewDateFullyBooked(t *testing.T) {
	f := newFixture(t)
	oldDate := f.today.AddDays(2)
	newDate := f.today.AddDays(5)

	f.addAppointment(pendingAppointment(1,
		domain.AppointmentService{ID: 10, Type: domain.ServiceCleaning, Date: oldDate},
	))
	f.ledger.set(newDate, 2)

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		ServiceName:   "Cleaning",
		NewDate:       newDate,
	})

	require.ErrorIs(t, err, ErrDateUnavailable)

	// Старая дата остается занятой: резерв нового слота идет до снятия старого
	assert.Equal(t, 1, f.ledger.committedOn(oldDate))
	assert.Equal(t, 2, f.ledger.committedOn(newDate))
	assert.Equal(t, 0, f.appointments.updates)
}

func TestExecute_SharedDateNotReleasedTwice(t *testing.T) {
	f := newFixture(t)
	sharedDate := f.today.AddDays(2)
	newDate := f.today.AddDays(5)

	// Две услуги на одну дату держат один слот. Перенос одной из них
	// не должен снимать резерв, пока вторая остается на этой дате.
	apt := pendingAppointment(1,
		domain.AppointmentService{ID: 10, Type: domain.ServiceCleaning, Date: sharedDate},
		domain.AppointmentService{ID: 11, Type: domain.ServiceRepair, Date: sharedDate},
	)
	f.appointments.byID[apt.ID] = apt
	f.ledger.set(sharedDate, 1)

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		ServiceName:   "Cleaning",
		NewDate:       newDate,
	})

	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, 1, f.ledger.committedOn(sharedDate))
	assert.Equal(t, 1, f.ledger.committedOn(newDate))
}

func TestExecute_MoveOntoDateAlreadyHeld(t *testing.T) {
	f := newFixture(t)
	dateA := f.today.AddDays(2)
	dateB := f.today.AddDays(3)

	// Перенос услуги на дату, которую запись уже держит другой услугой:
	// новый слот не нужен, старый освобождается.
	apt := pendingAppointment(1,
		domain.AppointmentService{ID: 10, Type: domain.ServiceCleaning, Date: dateA},
		domain.AppointmentService{ID: 11, Type: domain.ServiceRepair, Date: dateB},
	)
	f.addAppointment(apt)

	resp, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		ServiceName:   "Cleaning",
		NewDate:       dateB,
	})

	require.NoError(t, err)
	assert.True(t, resp.Changed)
	assert.Equal(t, 0, f.ledger.committedOn(dateA))
	assert.Equal(t, 1, f.ledger.committedOn(dateB))
}

func TestExecute_TerminalStatusRejected(t *testing.T) {
	f := newFixture(t)
	date := f.today.AddDays(2)

	for _, status := range []domain.AppointmentStatus{
		domain.StatusCompleted,
		domain.StatusRejected,
		domain.StatusCancelled,
	} {
		apt := pendingAppointment(1,
			domain.AppointmentService{ID: 10, Type: domain.ServiceCleaning, Date: date},
		)
		apt.Status = status
		f.appointments.byID[apt.ID] = apt

		_, err := f.uc.Execute(context.Background(), &Request{
			AppointmentID: 1,
			ServiceName:   "Cleaning",
			NewDate:       f.today.AddDays(5),
		})
		assert.ErrorIs(t, err, ErrNotReschedulable, "status %s", status)
	}
}

func TestExecute_ServiceNotFound(t *testing.T) {
	f := newFixture(t)

	f.addAppointment(pendingAppointment(1,
		domain.AppointmentService{ID: 10, Type: domain.ServiceCleaning, Date: f.today.AddDays(2)},
	))

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 1,
		ServiceName:   "Installation",
		NewDate:       f.today.AddDays(5),
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		AppointmentID: 99,
		ServiceName:   "Cleaning",
		NewDate:       f.today.AddDays(5),
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{
			name:    "zero appointment id",
			req:     &Request{AppointmentID: 0, ServiceName: "Cleaning", NewDate: f.today},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "blank service name",
			req:     &Request{AppointmentID: 1, ServiceName: "   ", NewDate: f.today},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero date",
			req:     &Request{AppointmentID: 1, ServiceName: "Cleaning"},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "past date",
			req:     &Request{AppointmentID: 1, ServiceName: "Cleaning", NewDate: f.today.AddDays(-1)},
			wantErr: ErrDateInPast,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
