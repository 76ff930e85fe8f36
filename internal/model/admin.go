package model

import "time"

// Admin is a staff account for the admin console.  Only the bcrypt
// hash of the password is stored.  Usernames are unique.
type Admin struct {
	ID           uint64    `json:"id"`       // admins.id
	Username     string    `json:"username"` // admins.username
	PasswordHash string    `json:"-"`        // admins.password_hash
	CreatedAt    time.Time `json:"-"`        // admins.created_at
	UpdatedAt    time.Time `json:"-"`        // admins.updated_at
}
