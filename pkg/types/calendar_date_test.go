package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCalendarDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid date", input: "2026-09-15", want: "2026-09-15"},
		{name: "leap day", input: "2028-02-29", want: "2028-02-29"},
		{name: "wrong format", input: "15.09.2026", wantErr: true},
		{name: "not a date", input: "tomorrow", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCalendarDate(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCalendarDate)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCalendarDateOf_NormalizesToMidnightUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	evening := time.Date(2026, time.September, 15, 23, 45, 0, 0, loc)
	date := CalendarDateOf(evening)

	assert.Equal(t, "2026-09-15", date.String())
	assert.Equal(t, time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC), date.Time())

	// Same day built from different sources must compare equal
	assert.True(t, date.Equal(NewCalendarDate(2026, time.September, 15)))
}

func TestCalendarDate_Comparisons(t *testing.T) {
	d1 := NewCalendarDate(2026, time.September, 15)
	d2 := NewCalendarDate(2026, time.September, 16)

	assert.True(t, d1.Before(d2))
	assert.True(t, d2.After(d1))
	assert.False(t, d1.Equal(d2))
	assert.True(t, d1.Equal(d1))
}

func TestCalendarDate_AddDays(t *testing.T) {
	d := NewCalendarDate(2026, time.December, 30)

	assert.Equal(t, "2027-01-02", d.AddDays(3).String())
	assert.Equal(t, "2026-12-29", d.AddDays(-1).String())
	assert.Equal(t, 3, d.DaysUntil(d.AddDays(3)))
	assert.Equal(t, -1, d.DaysUntil(d.AddDays(-1)))
}

func TestCalendarDate_JSONRoundTrip(t *testing.T) {
	d := NewCalendarDate(2026, time.September, 15)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-09-15"`, string(data))

	var decoded CalendarDate
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, d.Equal(decoded))
}

func TestCalendarDate_UnmarshalJSON_Invalid(t *testing.T) {
	var d CalendarDate

	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`42`), &d))
}

func TestCalendarDate_Scan(t *testing.T) {
	var d CalendarDate

	require.NoError(t, d.Scan(time.Date(2026, time.September, 15, 13, 30, 0, 0, time.UTC)))
	assert.Equal(t, "2026-09-15", d.String())

	require.NoError(t, d.Scan("2026-10-01"))
	assert.Equal(t, "2026-10-01", d.String())

	require.NoError(t, d.Scan([]byte("2026-10-02")))
	assert.Equal(t, "2026-10-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(12345))
}
