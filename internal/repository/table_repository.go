package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// ErrTableNotFound is returned when a table lookup fails.
var ErrTableNotFound = errors.New("table not found")

// ErrTableNumberTaken is returned when a create or update collides
// with the unique table-number constraint.
var ErrTableNumberTaken = errors.New("table number already exists")

// ErrTableInUse is returned when a delete is rejected because bookings
// still reference the table.
var ErrTableInUse = errors.New("table has bookings")

// TableRepo provides CRUD operations for dining tables.  Its
// ListByMinCapacity method doubles as the table source for the
// availability engine.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = `id, table_number, capacity, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }, t *model.Table) error {
	return row.Scan(&t.ID, &t.TableNumber, &t.Capacity, &t.CreatedAt, &t.UpdatedAt)
}

// Create inserts a new table and reads the row back so timestamps are
// populated.  A duplicate table number returns ErrTableNumberTaken.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO dining_tables (table_number, capacity) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.TableNumber, t.Capacity)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrTableNumberTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + tableColumns + ` FROM dining_tables WHERE id = ?`
	return scanTable(r.db.QueryRowContext(ctx, sel, t.ID), t)
}

// GetByID returns ErrTableNotFound when no row matches.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_tables WHERE id = ?`
	var t model.Table
	if err := scanTable(r.db.QueryRowContext(ctx, q, id), &t); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}

// List returns all tables ordered by ID ascending.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_tables ORDER BY id`
	return r.queryTables(ctx, q)
}

// ListByMinCapacity returns all tables seating at least minCapacity
// guests, ordered by ID ascending.  The ordering is what makes
// availability results deterministic.
func (r *TableRepo) ListByMinCapacity(ctx context.Context, minCapacity int) ([]model.Table, error) {
	const q = `SELECT ` + tableColumns + ` FROM dining_tables WHERE capacity >= ? ORDER BY id`
	return r.queryTables(ctx, q, minCapacity)
}

// Update persists the table number and capacity.  Returns
// ErrTableNotFound when the row does not exist and ErrTableNumberTaken
// when the new number collides with another table.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE dining_tables SET table_number = ?, capacity = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.TableNumber, t.Capacity, t.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrTableNumberTaken
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also zero for a no-op update, so confirm the
		// row really is gone before reporting not found.
		var exists bool
		const check = `SELECT EXISTS(SELECT 1 FROM dining_tables WHERE id = ?)`
		if err := r.db.QueryRowContext(ctx, check, t.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrTableNotFound
		}
	}
	const sel = `SELECT ` + tableColumns + ` FROM dining_tables WHERE id = ?`
	return scanTable(r.db.QueryRowContext(ctx, sel, t.ID), t)
}

// Delete removes a table.  The caller is expected to have run the
// future-booking guard first; the restrictive foreign key still rejects
// the delete if any booking references the table.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM dining_tables WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		if isRowReferenced(err) {
			return ErrTableInUse
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTableNotFound
	}
	return nil
}

func (r *TableRepo) queryTables(ctx context.Context, q string, args ...any) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		var t model.Table
		if err := scanTable(rows, &t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
