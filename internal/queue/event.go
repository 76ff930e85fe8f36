// Package queue defines booking lifecycle events and the RabbitMQ
// publisher/consumer pair that turns them into an audit trail.
package queue

// Event kinds published to the booking.events queue.
const (
	EventBookingCreated   = "booking.created"
	EventBookingUpdated   = "booking.updated"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking mutation commits.  It
// carries enough context for downstream consumers to log or notify
// without querying the primary database.
type BookingEvent struct {
	Kind           string `json:"kind"`
	BookingID      uint64 `json:"booking_id"`
	TableID        uint64 `json:"table_id"`
	TableNumber    int    `json:"table_number"`
	CustomerID     uint64 `json:"customer_id"`
	CustomerName   string `json:"customer_name"`
	StartTime      string `json:"start_time"`
	NumberOfGuests int    `json:"number_of_guests"`
	OccurredAt     string `json:"occurred_at"`
}
