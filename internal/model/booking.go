package model

import "time"

// Booking reserves one table for one customer starting at StartTime.
// There is no stored end time: every booking occupies its table for a
// fixed two-hour window starting at StartTime, and the availability
// rules in internal/availability derive the window from that.
//
// Fields:
//  ID             – primary key identifier.
//  StartTime      – start of the reservation window (UTC).
//  NumberOfGuests – party size, 1..12 and never above the table capacity.
//  TableID        – reserved table; delete of the table is restricted.
//  CustomerID     – owning customer; delete of the customer is restricted.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Booking struct {
	ID             uint64    `json:"id"`             // bookings.id
	StartTime      time.Time `json:"startTime"`      // bookings.start_time
	NumberOfGuests int       `json:"numberOfGuests"` // bookings.number_of_guests
	TableID        uint64    `json:"tableId"`        // bookings.table_id
	CustomerID     uint64    `json:"customerId"`     // bookings.customer_id
	CreatedAt      time.Time `json:"-"`              // bookings.created_at
	UpdatedAt      time.Time `json:"-"`              // bookings.updated_at
}

// MaxGuestsPerBooking is the absolute cap on party size regardless of
// table capacity.  Larger parties are handled over the phone.
const MaxGuestsPerBooking = 12
