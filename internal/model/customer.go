package model

import "time"

// Customer is a restaurant guest who owns zero or more bookings.  The
// phone number acts as the natural dedup key: the public booking flow
// finds or creates a customer by phone, and the `customers` table
// enforces uniqueness on it so concurrent creates cannot produce
// duplicates.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name, max 100 characters.
//  PhoneNumber – unique contact number, max 20 characters.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Customer struct {
	ID          uint64    `json:"id"`          // customers.id
	Name        string    `json:"name"`        // customers.name
	PhoneNumber string    `json:"phoneNumber"` // customers.phone_number
	CreatedAt   time.Time `json:"-"`           // customers.created_at
	UpdatedAt   time.Time `json:"-"`           // customers.updated_at
}
