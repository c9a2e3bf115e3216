package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// CalendarDateFormat is the canonical wire format for calendar dates
const CalendarDateFormat = "2006-01-02"

var (
	// ErrInvalidCalendarDate is returned when a string cannot be parsed as YYYY-MM-DD
	ErrInvalidCalendarDate = errors.New("invalid calendar date, expected YYYY-MM-DD")
)

// CalendarDate represents a calendar date without a time component.
// It is always normalized to UTC midnight, so two CalendarDate values
// describing the same day compare equal regardless of how they were built.
// The zero value is "no date".
type CalendarDate struct {
	t time.Time
}

// NewCalendarDate builds a CalendarDate from year, month and day
func NewCalendarDate(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// CalendarDateOf truncates a time.Time to its calendar date
func CalendarDateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return NewCalendarDate(y, m, d)
}

// ParseCalendarDate parses the canonical YYYY-MM-DD representation
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(CalendarDateFormat, s)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidCalendarDate, s)
	}
	return CalendarDateOf(t), nil
}

// String returns the canonical YYYY-MM-DD representation
func (d CalendarDate) String() string {
	return d.t.Format(CalendarDateFormat)
}

// Time returns the underlying time at UTC midnight
func (d CalendarDate) Time() time.Time {
	return d.t
}

// IsZero reports whether the date is unset
func (d CalendarDate) IsZero() bool {
	return d.t.IsZero()
}

// Equal reports whether two dates describe the same day
func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.t.Equal(other.t)
}

// Before reports whether d is an earlier day than other
func (d CalendarDate) Before(other CalendarDate) bool {
	return d.t.Before(other.t)
}

// After reports whether d is a later day than other
func (d CalendarDate) After(other CalendarDate) bool {
	return d.t.After(other.t)
}

// AddDays returns the date shifted by the given number of days
func (d CalendarDate) AddDays(days int) CalendarDate {
	return CalendarDate{t: d.t.AddDate(0, 0, days)}
}

// DaysUntil returns the number of whole days from d to other (negative if other is earlier)
func (d CalendarDate) DaysUntil(other CalendarDate) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string
func (d CalendarDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a YYYY-MM-DD string
func (d *CalendarDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidCalendarDate
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer for storing the date in a DATE column
func (d CalendarDate) Value() (driver.Value, error) {
	return d.t, nil
}

// Scan implements sql.Scanner for reading DATE columns
func (d *CalendarDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		*d = CalendarDateOf(v)
		return nil
	case []byte:
		parsed, err := ParseCalendarDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseCalendarDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = CalendarDate{}
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidCalendarDate, src)
	}
}
