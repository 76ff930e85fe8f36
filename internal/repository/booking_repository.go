package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup fails.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides read access to bookings outside of the booking
// service's transactions.  It implements the availability engine's
// BookingSource.  Mutations go through the transactional BookingStore
// instead, so the conflict scan and the write share one transaction.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, start_time, number_of_guests, table_id, customer_id, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	return row.Scan(&b.ID, &b.StartTime, &b.NumberOfGuests, &b.TableID, &b.CustomerID, &b.CreatedAt, &b.UpdatedAt)
}

// GetByID returns ErrBookingNotFound when no row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	var b model.Booking
	if err := scanBooking(r.db.QueryRowContext(ctx, q, id), &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// List returns all bookings ordered by ID ascending.
func (r *BookingRepo) List(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByTable returns all bookings on one table ordered by start time.
// Used by the table handler to embed bookings for authenticated callers.
func (r *BookingRepo) ListByTable(ctx context.Context, tableID uint64) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE table_id = ? ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StartTimes returns the start times of all bookings on the table,
// skipping the booking with ID exclude when exclude is non-zero.
func (r *BookingRepo) StartTimes(ctx context.Context, tableID, exclude uint64) ([]time.Time, error) {
	const q = `SELECT start_time FROM bookings WHERE table_id = ? AND id != ?`
	rows, err := r.db.QueryContext(ctx, q, tableID, exclude)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// StartTimesForTables returns the start times of all bookings on any
// of the given tables, keyed by table ID.
func (r *BookingRepo) StartTimesForTables(ctx context.Context, tableIDs []uint64) (map[uint64][]time.Time, error) {
	out := make(map[uint64][]time.Time, len(tableIDs))
	if len(tableIDs) == 0 {
		return out, nil
	}
	placeholders := make([]string, len(tableIDs))
	args := make([]any, len(tableIDs))
	for i, id := range tableIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT table_id, start_time FROM bookings WHERE table_id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var tableID uint64
		var t time.Time
		if err := rows.Scan(&tableID, &t); err != nil {
			return nil, err
		}
		out[tableID] = append(out[tableID], t)
	}
	return out, rows.Err()
}

// StartTimesForDay returns the booked start times for one table within
// the calendar day beginning at dayStart.  Clients derive the free
// two-hour grid from this list.
func (r *BookingRepo) StartTimesForDay(ctx context.Context, tableID uint64, dayStart time.Time) ([]time.Time, error) {
	const q = `SELECT start_time FROM bookings
	           WHERE table_id = ? AND start_time >= ? AND start_time < ?
	           ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, tableID, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]time.Time, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
