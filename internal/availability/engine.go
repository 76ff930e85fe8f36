package availability

import (
	"context"
	"time"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// BookingSource yields the start times of existing bookings.  The
// repository layer implements it; tests supply fakes.
type BookingSource interface {
	// StartTimes returns the start times of all bookings on the given
	// table, excluding the booking with ID exclude when exclude is
	// non-zero.  Used when re-validating an update against itself.
	StartTimes(ctx context.Context, tableID, exclude uint64) ([]time.Time, error)

	// StartTimesForTables returns the start times of all bookings on
	// any of the given tables, keyed by table ID.  Tables without
	// bookings may be absent from the map.
	StartTimesForTables(ctx context.Context, tableIDs []uint64) (map[uint64][]time.Time, error)
}

// TableSource lists candidate tables for an availability query.
type TableSource interface {
	// ListByMinCapacity returns all tables seating at least minCapacity
	// guests, ordered by ID ascending.
	ListByMinCapacity(ctx context.Context, minCapacity int) ([]model.Table, error)
}

// Engine answers availability questions without side effects.  It
// reads booking and table state through its sources and applies the
// overlap rule from this package.
type Engine struct {
	Bookings BookingSource
	Tables   TableSource
}

// NewEngine constructs an Engine.  Both sources must be non-nil.
func NewEngine(bookings BookingSource, tables TableSource) *Engine {
	if bookings == nil || tables == nil {
		panic("nil source passed to NewEngine")
	}
	return &Engine{Bookings: bookings, Tables: tables}
}

// IsTableFree reports whether the table is free for a two-hour window
// starting at start.  When exclude is non-zero that booking is ignored,
// so a booking never conflicts with itself during an update.
func (e *Engine) IsTableFree(ctx context.Context, tableID uint64, start time.Time, exclude uint64) (bool, error) {
	times, err := e.Bookings.StartTimes(ctx, tableID, exclude)
	if err != nil {
		return false, err
	}
	return FreeAt(times, start), nil
}

// FindAvailableTables returns every table that seats at least partySize
// guests and is free for the two-hour window starting at start.  The
// result keeps the source ordering (table ID ascending) so identical
// queries return identical results.  An empty slice means no table
// qualifies; that is not an error.
func (e *Engine) FindAvailableTables(ctx context.Context, start time.Time, partySize int) ([]model.Table, error) {
	candidates, err := e.Tables.ListByMinCapacity(ctx, partySize)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []model.Table{}, nil
	}
	ids := make([]uint64, 0, len(candidates))
	for _, t := range candidates {
		ids = append(ids, t.ID)
	}
	booked, err := e.Bookings.StartTimesForTables(ctx, ids)
	if err != nil {
		return nil, err
	}
	free := make([]model.Table, 0, len(candidates))
	for _, t := range candidates {
		if FreeAt(booked[t.ID], start) {
			free = append(free, t)
		}
	}
	return free, nil
}
