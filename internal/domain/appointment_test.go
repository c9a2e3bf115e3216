package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bookaircon/ACS-SchedulingService/pkg/types"
)

func TestAppointment_StatusPredicates(t *testing.T) {
	tests := []struct {
		status        AppointmentStatus
		canAccept     bool
		canComplete   bool
		canCancel     bool
		canReschedule bool
		terminal      bool
		active        bool
	}{
		{StatusPending, true, false, true, true, false, true},
		{StatusAccepted, false, true, true, true, false, true},
		{StatusCompleted, false, false, false, false, true, true},
		{StatusRejected, false, false, false, false, true, false},
		{StatusCancelled, false, false, false, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			a := &Appointment{Status: tt.status}

			assert.Equal(t, tt.canAccept, a.CanBeAccepted())
			assert.Equal(t, tt.canComplete, a.CanBeCompleted())
			assert.Equal(t, tt.canCancel, a.CanBeCancelled())
			assert.Equal(t, tt.canReschedule, a.CanBeRescheduled())
			assert.Equal(t, tt.terminal, a.IsTerminal())
			assert.Equal(t, tt.active, a.IsActive())
		})
	}
}

func TestAppointment_ServiceDates_Distinct(t *testing.T) {
	d1 := types.NewCalendarDate(2026, time.September, 15)
	d2 := types.NewCalendarDate(2026, time.September, 16)

	a := &Appointment{Services: []AppointmentService{
		{ID: 1, Type: ServiceCleaning, Date: d1},
		{ID: 2, Type: ServiceRepair, Date: d2},
		{ID: 3, Type: ServiceMaintenance, Date: d1},
	}}

	dates := a.ServiceDates()
	assert.Len(t, dates, 2)
	assert.True(t, dates[0].Equal(d1))
	assert.True(t, dates[1].Equal(d2))
}

func TestAppointment_FindServiceByName(t *testing.T) {
	a := &Appointment{Services: []AppointmentService{
		{ID: 1, Type: ServiceCleaning},
		{ID: 2, Type: ServiceRepair},
	}}

	assert.Equal(t, int64(2), a.FindServiceByName("repair").ID)
	assert.Equal(t, int64(1), a.FindServiceByName("CLEANING").ID)
	assert.Nil(t, a.FindServiceByName("Installation"))
	assert.Nil(t, a.FindServiceByName(""))
}

func TestAppointment_HoldsDate(t *testing.T) {
	d1 := types.NewCalendarDate(2026, time.September, 15)
	d2 := types.NewCalendarDate(2026, time.September, 16)

	a := &Appointment{Services: []AppointmentService{
		{ID: 1, Type: ServiceCleaning, Date: d1},
		{ID: 2, Type: ServiceRepair, Date: d1},
		{ID: 3, Type: ServiceMaintenance, Date: d2},
	}}

	// d1 is still held by service 2 when service 1 is excluded
	assert.True(t, a.HoldsDate(d1, 1))
	// d2 is held only by service 3
	assert.False(t, a.HoldsDate(d2, 3))
	assert.True(t, a.HoldsDate(d2, 1))
}

func TestNormalizeTechnicianNames(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "trims and deduplicates case-insensitively",
			input: []string{" Ivan ", "ivan", "IVAN", "Petr"},
			want:  []string{"Ivan", "Petr"},
		},
		{
			name:  "drops empty entries",
			input: []string{"", "   ", "Anna"},
			want:  []string{"Anna"},
		},
		{
			name:  "keeps first spelling",
			input: []string{"john smith", "John Smith"},
			want:  []string{"john smith"},
		},
		{
			name:  "empty input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTechnicianNames(tt.input))
		})
	}
}

func TestMergeTechnicianNames(t *testing.T) {
	merged := MergeTechnicianNames([]string{"Ivan", "Petr"}, []string{"petr", "Anna"})
	assert.Equal(t, []string{"Ivan", "Petr", "Anna"}, merged)
}

func TestDateCapacity(t *testing.T) {
	d := types.NewCalendarDate(2026, time.September, 15)

	free := &DateCapacity{Date: d, Committed: 0, Maximum: 2}
	assert.Equal(t, 2, free.Remaining())
	assert.True(t, free.IsAvailable())
	assert.False(t, free.IsFull())

	lastSlot := &DateCapacity{Date: d, Committed: 1, Maximum: 2}
	assert.Equal(t, 1, lastSlot.Remaining())
	assert.True(t, lastSlot.IsAvailable())

	full := &DateCapacity{Date: d, Committed: 2, Maximum: 2}
	assert.Equal(t, 0, full.Remaining())
	assert.False(t, full.IsAvailable())
	assert.True(t, full.IsFull())

	// An over-committed ledger row must not report negative remaining slots
	over := &DateCapacity{Date: d, Committed: 3, Maximum: 2}
	assert.Equal(t, 0, over.Remaining())
}

func TestParseServiceType(t *testing.T) {
	st, ok := ParseServiceType("Cleaning")
	assert.True(t, ok)
	assert.Equal(t, ServiceCleaning, st)

	_, ok = ParseServiceType("cleaning")
	assert.True(t, ok)

	_, ok = ParseServiceType("Painting")
	assert.False(t, ok)
}

func TestParseAppointmentStatus(t *testing.T) {
	s, ok := ParseAppointmentStatus("pending")
	assert.True(t, ok)
	assert.Equal(t, StatusPending, s)

	_, ok = ParseAppointmentStatus("unknown")
	assert.False(t, ok)
}
