package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MyNameJaeff/ByteAndBrew/internal/availability"
	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// CreateInput carries the caller-supplied fields for a new or updated
// booking.  CustomerID is ignored by CreateForGuest, which resolves the
// customer by phone number instead.
type CreateInput struct {
	StartTime      time.Time
	NumberOfGuests int
	TableID        uint64
	CustomerID     uint64
}

// Service orchestrates the booking lifecycle.  Every mutation runs
// inside a store transaction with the target table row locked, so the
// availability check and the write cannot interleave with a concurrent
// request for the same table.  The clock is injected so tests can pin
// "now" for the future-booking guards.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService constructs a Service.  The store must be non-nil; a nil
// now defaults to time.Now.
func NewService(store Store, now func() time.Time) *Service {
	if store == nil {
		panic("nil store passed to NewService")
	}
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, now: now}
}

// Create validates and persists a new booking.  Validation order
// follows the API contract: customer existence, table existence, guest
// count bounds, capacity, then availability.  Nothing is written when
// any step fails.
func (s *Service) Create(ctx context.Context, in CreateInput) (*model.Booking, error) {
	var out *model.Booking
	err := s.inTxRetry(ctx, func(tx Tx) error {
		if _, err := tx.CustomerByID(ctx, in.CustomerID); err != nil {
			return err
		}
		b, err := s.createTx(ctx, tx, in.CustomerID, in)
		if err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateForGuest is the composite used by the public booking wizard:
// find or create a customer by phone number, then create the booking,
// all in one transaction.  When a concurrent request creates the same
// customer first, the unique phone constraint rejects our insert; the
// whole transaction is then rerun once, because the failing
// transaction's read snapshot predates the winner's commit and a
// re-read inside it would still miss the row.  The fresh transaction
// finds the winner by phone and reuses it.
func (s *Service) CreateForGuest(ctx context.Context, name, phone string, in CreateInput) (*model.Booking, error) {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	var out *model.Booking
	attempt := func() error {
		return s.inTxRetry(ctx, func(tx Tx) error {
			cust, err := tx.CustomerByPhone(ctx, phone)
			if errors.Is(err, ErrCustomerNotFound) {
				cust = &model.Customer{Name: name, PhoneNumber: phone}
				err = tx.InsertCustomer(ctx, cust)
			}
			if err != nil {
				return err
			}
			b, err := s.createTx(ctx, tx, cust.ID, in)
			if err != nil {
				return err
			}
			out = b
			return nil
		})
	}
	err := attempt()
	if errors.Is(err, ErrCustomerExists) {
		err = attempt()
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Update re-validates every field exactly like Create, except that the
// booking being updated is excluded from the conflict scan so it never
// conflicts with itself.  All four fields are applied atomically.
func (s *Service) Update(ctx context.Context, id uint64, in CreateInput) (*model.Booking, error) {
	var out *model.Booking
	err := s.inTxRetry(ctx, func(tx Tx) error {
		b, err := tx.BookingByID(ctx, id)
		if err != nil {
			return err
		}
		if _, err := tx.CustomerByID(ctx, in.CustomerID); err != nil {
			return err
		}
		table, err := tx.TableByID(ctx, in.TableID)
		if err != nil {
			return err
		}
		if err := validateGuests(in.NumberOfGuests, table.Capacity); err != nil {
			return err
		}
		times, err := tx.StartTimes(ctx, in.TableID, id)
		if err != nil {
			return err
		}
		if !availability.FreeAt(times, in.StartTime) {
			return ErrSlotUnavailable
		}
		b.StartTime = in.StartTime
		b.NumberOfGuests = in.NumberOfGuests
		b.TableID = in.TableID
		b.CustomerID = in.CustomerID
		if err := tx.UpdateBooking(ctx, b); err != nil {
			return err
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a booking.  Bookings are leaves, so nothing cascades.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	return s.store.InTx(ctx, func(tx Tx) error {
		return tx.DeleteBooking(ctx, id)
	})
}

// GuardCapacityReduction rejects a table capacity change when a future
// booking holds more guests than the new capacity would seat.  "Future"
// means a start time strictly after the injected clock's now.
func (s *Service) GuardCapacityReduction(ctx context.Context, tableID uint64, newCapacity int) error {
	maxGuests, err := s.store.MaxFutureGuests(ctx, tableID, s.now())
	if err != nil {
		return err
	}
	if maxGuests > newCapacity {
		return ErrReferentialConflict
	}
	return nil
}

// GuardTableDelete rejects deleting a table that still has future
// bookings.  Past bookings do not block deletion.
func (s *Service) GuardTableDelete(ctx context.Context, tableID uint64) error {
	has, err := s.store.HasFutureBookings(ctx, tableID, s.now())
	if err != nil {
		return err
	}
	if has {
		return ErrReferentialConflict
	}
	return nil
}

// createTx runs steps 2-5 of the create flow inside the transaction:
// lock the table row, validate guest count and capacity, scan for
// conflicts, insert.  The caller has already resolved the customer.
func (s *Service) createTx(ctx context.Context, tx Tx, customerID uint64, in CreateInput) (*model.Booking, error) {
	table, err := tx.TableByID(ctx, in.TableID)
	if err != nil {
		return nil, err
	}
	if err := validateGuests(in.NumberOfGuests, table.Capacity); err != nil {
		return nil, err
	}
	times, err := tx.StartTimes(ctx, in.TableID, 0)
	if err != nil {
		return nil, err
	}
	if !availability.FreeAt(times, in.StartTime) {
		return nil, ErrSlotUnavailable
	}
	b := &model.Booking{
		StartTime:      in.StartTime,
		NumberOfGuests: in.NumberOfGuests,
		TableID:        in.TableID,
		CustomerID:     customerID,
	}
	if err := tx.InsertBooking(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// inTxRetry runs fn in a transaction, retrying once when the store
// reports a serialization conflict.  A second conflict means another
// request won the slot; report the table as taken.
func (s *Service) inTxRetry(ctx context.Context, fn func(tx Tx) error) error {
	err := s.store.InTx(ctx, fn)
	if errors.Is(err, ErrTxConflict) {
		err = s.store.InTx(ctx, fn)
		if errors.Is(err, ErrTxConflict) {
			return ErrSlotUnavailable
		}
	}
	return err
}

func validateGuests(guests, capacity int) error {
	if guests < 1 || guests > model.MaxGuestsPerBooking {
		return ErrInvalidGuestCount
	}
	if guests > capacity {
		return ErrCapacityExceeded
	}
	return nil
}
