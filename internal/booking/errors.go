// Package booking implements the booking lifecycle: validated
// create/update/delete of bookings, with the availability rules as a
// gate and all check-then-act sequences wrapped in a store transaction
// so concurrent requests cannot double-book a table.
package booking

import "errors"

// ErrSlotUnavailable is returned when the requested table already has
// a booking whose two-hour window overlaps the requested one.
// Handlers translate this into HTTP 409.
var ErrSlotUnavailable = errors.New("table is not available at the requested time")

// ErrCapacityExceeded is returned when the party is larger than the
// table's seating capacity.
var ErrCapacityExceeded = errors.New("too many guests for this table")

// ErrInvalidGuestCount is returned when the guest count is below one
// or above the absolute per-booking cap.
var ErrInvalidGuestCount = errors.New("number of guests must be between 1 and 12")

// ErrTableNotFound is returned when a referenced table does not exist.
var ErrTableNotFound = errors.New("table not found")

// ErrCustomerNotFound is returned when a referenced customer does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrBookingNotFound is returned when the booking being updated or
// deleted does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrCustomerExists is returned by Tx.InsertCustomer when another
// customer already owns the phone number.  CreateForGuest resolves it
// by re-reading the winning row.
var ErrCustomerExists = errors.New("customer with this phone number already exists")

// ErrReferentialConflict is returned by the table guards when future
// bookings block a capacity reduction or a table delete.
var ErrReferentialConflict = errors.New("table has future bookings")

// ErrTxConflict is returned by the store when a transaction loses a
// serialization race (deadlock or lock wait timeout).  The service
// retries once and then surfaces ErrSlotUnavailable.
var ErrTxConflict = errors.New("transaction conflict")
