package booking

import (
	"context"
	"time"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// Tx is the set of store operations available inside one transaction.
// The SQL implementation locks the table row (SELECT ... FOR UPDATE) in
// TableByID, which serializes the conflict scan and the insert per
// table and makes the check-then-act sequence atomic.
type Tx interface {
	// TableByID loads a table and locks its row for the remainder of
	// the transaction.  Returns ErrTableNotFound when absent.
	TableByID(ctx context.Context, id uint64) (*model.Table, error)

	// CustomerByID returns ErrCustomerNotFound when absent.
	CustomerByID(ctx context.Context, id uint64) (*model.Customer, error)

	// CustomerByPhone returns ErrCustomerNotFound when no customer owns
	// the phone number.
	CustomerByPhone(ctx context.Context, phone string) (*model.Customer, error)

	// InsertCustomer stores a new customer and fills in its ID.
	// Returns ErrCustomerExists when the phone number is taken.
	InsertCustomer(ctx context.Context, c *model.Customer) error

	// BookingByID returns ErrBookingNotFound when absent.
	BookingByID(ctx context.Context, id uint64) (*model.Booking, error)

	// StartTimes returns the start times of all bookings on the table,
	// skipping the booking with ID exclude when exclude is non-zero.
	StartTimes(ctx context.Context, tableID, exclude uint64) ([]time.Time, error)

	// InsertBooking stores a new booking and fills in its ID.
	InsertBooking(ctx context.Context, b *model.Booking) error

	// UpdateBooking persists all mutable fields of the booking.
	UpdateBooking(ctx context.Context, b *model.Booking) error

	// DeleteBooking removes the booking, returning ErrBookingNotFound
	// when it does not exist.
	DeleteBooking(ctx context.Context, id uint64) error
}

// Store is the durable state the booking service runs against.  All
// mutations go through InTx; the reads outside InTx serve the table
// guards and need no locking.
type Store interface {
	// InTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise.  A lost serialization race surfaces
	// as ErrTxConflict.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	// MaxFutureGuests returns the largest guest count among bookings on
	// the table starting strictly after the given instant, or zero when
	// there are none.
	MaxFutureGuests(ctx context.Context, tableID uint64, after time.Time) (int, error)

	// HasFutureBookings reports whether any booking on the table starts
	// strictly after the given instant.
	HasFutureBookings(ctx context.Context, tableID uint64, after time.Time) (bool, error)
}
