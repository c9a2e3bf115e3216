package domain

import "github.com/bookaircon/ACS-SchedulingService/pkg/types"

// DateCapacity is one row of the capacity ledger: committed versus maximum
// bookable slots for a calendar date. Rows are created lazily on the first
// reservation for a date.
type DateCapacity struct {
	Date      types.CalendarDate
	Committed int
	Maximum   int
}

// Remaining returns the number of free slots, never negative
func (c *DateCapacity) Remaining() int {
	remaining := c.Maximum - c.Committed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsAvailable returns true if at least one slot is free
func (c *DateCapacity) IsAvailable() bool {
	return c.Remaining() > 0
}

// IsFull returns true if no slots are free
func (c *DateCapacity) IsFull() bool {
	return c.Remaining() == 0
}
