package domain

import "time"

// Customer represents a booking customer, keyed by phone number.
// A booking reuses the customer record if the phone is already known.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Email     *string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
