package model

import "time"

// Table represents a physical dining table in the restaurant as stored
// in the `dining_tables` table.  Tables are identified to guests by
// their table number, which is unique across the restaurant, while the
// numeric ID is the stable primary key used by foreign keys.
//
// Fields:
//  ID          – primary key identifier.
//  TableNumber – guest-facing number, unique, 1..200.
//  Capacity    – maximum number of guests the table seats, 1..12.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Table struct {
	ID          uint64    `json:"id"`          // dining_tables.id
	TableNumber int       `json:"tableNumber"` // dining_tables.table_number
	Capacity    int       `json:"capacity"`    // dining_tables.capacity
	CreatedAt   time.Time `json:"-"`           // dining_tables.created_at
	UpdatedAt   time.Time `json:"-"`           // dining_tables.updated_at
}

// MaxTableNumber bounds guest-facing table numbers.
const MaxTableNumber = 200

// MaxTableCapacity bounds how many guests a single table may seat.
const MaxTableCapacity = 12
