package model

import "time"

// MenuItem is a simple CRUD entity for the café menu.  It is
// independent of the booking logic.  Name is unique; ImageUrl is
// optional and only populated for items that have a picture to show
// on the landing page.
type MenuItem struct {
	ID          uint64    `json:"id"`          // menu_items.id
	Name        string    `json:"name"`        // menu_items.name
	Price       float64   `json:"price"`       // menu_items.price (decimal(10,2))
	Description string    `json:"description"` // menu_items.description
	IsPopular   bool      `json:"isPopular"`   // menu_items.is_popular
	ImageUrl    *string   `json:"imageUrl"`    // menu_items.image_url (nullable)
	CreatedAt   time.Time `json:"-"`           // menu_items.created_at
	UpdatedAt   time.Time `json:"-"`           // menu_items.updated_at
}
