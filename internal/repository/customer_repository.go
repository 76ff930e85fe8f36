package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// ErrCustomerNotFound is returned when a customer lookup fails.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrPhoneNumberTaken is returned when a create or update collides
// with the unique phone-number constraint.
var ErrPhoneNumberTaken = errors.New("customer with this phone number already exists")

// ErrCustomerInUse is returned when a delete is rejected because
// bookings still reference the customer.
var ErrCustomerInUse = errors.New("customer has bookings")

// CustomerRepo provides CRUD operations for customers.  The phone
// number is the natural key used by the public booking flow to find or
// create a customer; the database enforces its uniqueness so the
// find-or-create race resolves at the constraint, not in code.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo bound to the given database.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerColumns = `id, name, phone_number, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }, c *model.Customer) error {
	return row.Scan(&c.ID, &c.Name, &c.PhoneNumber, &c.CreatedAt, &c.UpdatedAt)
}

// Create inserts a new customer.  A duplicate phone number returns
// ErrPhoneNumberTaken.
func (r *CustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	const q = `INSERT INTO customers (name, phone_number) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.PhoneNumber)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrPhoneNumberTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	return scanCustomer(r.db.QueryRowContext(ctx, sel, c.ID), c)
}

// GetByID returns ErrCustomerNotFound when no row matches.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	var c model.Customer
	if err := scanCustomer(r.db.QueryRowContext(ctx, q, id), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByPhone returns ErrCustomerNotFound when no customer owns the
// phone number.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE phone_number = ?`
	var c model.Customer
	if err := scanCustomer(r.db.QueryRowContext(ctx, q, phone), &c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all customers ordered by ID ascending.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update persists the name and phone number.
func (r *CustomerRepo) Update(ctx context.Context, c *model.Customer) error {
	const q = `UPDATE customers SET name = ?, phone_number = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, c.Name, c.PhoneNumber, c.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrPhoneNumberTaken
		}
		return err
	}
	const sel = `SELECT ` + customerColumns + ` FROM customers WHERE id = ?`
	if err := scanCustomer(r.db.QueryRowContext(ctx, sel, c.ID), c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return err
	}
	return nil
}

// Delete removes a customer.  The restrictive foreign key on bookings
// rejects the delete while any booking still references the customer.
func (r *CustomerRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM customers WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		if isRowReferenced(err) {
			return ErrCustomerInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
