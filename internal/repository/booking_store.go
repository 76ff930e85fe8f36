package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MyNameJaeff/ByteAndBrew/internal/booking"
	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// BookingStore is the SQL implementation of the booking service's
// Store.  Inside a transaction TableByID takes a row lock on the
// table, so two requests racing for the same table serialize: the
// second one waits, then sees the first one's booking in its conflict
// scan.  Lost races (deadlocks) surface as booking.ErrTxConflict so
// the service can retry.
type BookingStore struct {
	db *sql.DB
}

// NewBookingStore constructs a BookingStore bound to the given database.
func NewBookingStore(db *sql.DB) *BookingStore { return &BookingStore{db: db} }

// InTx runs fn inside a transaction, committing on nil and rolling
// back otherwise.
func (s *BookingStore) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&storeTx{tx: tx}); err != nil {
		if isSerializationFailure(err) {
			return booking.ErrTxConflict
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		if isSerializationFailure(err) {
			return booking.ErrTxConflict
		}
		return err
	}
	committed = true
	return nil
}

// MaxFutureGuests returns the largest party size among bookings on the
// table starting strictly after the given instant.
func (s *BookingStore) MaxFutureGuests(ctx context.Context, tableID uint64, after time.Time) (int, error) {
	const q = `SELECT COALESCE(MAX(number_of_guests), 0) FROM bookings WHERE table_id = ? AND start_time > ?`
	var n int
	if err := s.db.QueryRowContext(ctx, q, tableID, after).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// HasFutureBookings reports whether any booking on the table starts
// strictly after the given instant.
func (s *BookingStore) HasFutureBookings(ctx context.Context, tableID uint64, after time.Time) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM bookings WHERE table_id = ? AND start_time > ?)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, tableID, after).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// storeTx adapts one *sql.Tx to the booking.Tx contract.
type storeTx struct {
	tx *sql.Tx
}

// TableByID locks the table row for the rest of the transaction.
func (t *storeTx) TableByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_tables WHERE id = ? FOR UPDATE`
	var tb model.Table
	if err := scanTable(t.tx.QueryRowContext(ctx, q, id), &tb); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrTableNotFound
		}
		return nil, err
	}
	return &tb, nil
}

func (t *storeTx) CustomerByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	var c model.Customer
	if err := scanCustomer(t.tx.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (t *storeTx) CustomerByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = ?`
	var c model.Customer
	if err := scanCustomer(t.tx.QueryRowContext(ctx, q, phone), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (t *storeTx) InsertCustomer(ctx context.Context, c *model.Customer) error {
	const q = `INSERT INTO customers (name, phone_number) VALUES (?, ?)`
	res, err := t.tx.ExecContext(ctx, q, c.Name, c.PhoneNumber)
	if err != nil {
		if isDuplicateEntry(err) {
			return booking.ErrCustomerExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

func (t *storeTx) BookingByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(t.tx.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (t *storeTx) StartTimes(ctx context.Context, tableID, exclude uint64) ([]time.Time, error) {
	const q = `SELECT start_time FROM bookings WHERE table_id = ? AND id != ?`
	rows, err := t.tx.QueryContext(ctx, q, tableID, exclude)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (t *storeTx) InsertBooking(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (start_time, number_of_guests, table_id, customer_id) VALUES (?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q, b.StartTime, b.NumberOfGuests, b.TableID, b.CustomerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

func (t *storeTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
	const q = `UPDATE bookings SET start_time = ?, number_of_guests = ?, table_id = ?, customer_id = ? WHERE id = ?`
	_, err := t.tx.ExecContext(ctx, q, b.StartTime, b.NumberOfGuests, b.TableID, b.CustomerID, b.ID)
	return err
}

func (t *storeTx) DeleteBooking(ctx context.Context, id uint64) error {
	const q = `DELETE FROM bookings WHERE id = ?`
	res, err := t.tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return booking.ErrBookingNotFound
	}
	return nil
}
