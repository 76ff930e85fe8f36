package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// ErrMenuItemNotFound is returned when a menu item lookup fails.
var ErrMenuItemNotFound = errors.New("menu item not found")

// ErrMenuItemNameTaken is returned when a create or update collides
// with the unique name constraint.
var ErrMenuItemNameTaken = errors.New("menu item with this name already exists")

// MenuRepo provides CRUD operations for menu items.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo constructs a MenuRepo bound to the given database.
func NewMenuRepo(db *sql.DB) *MenuRepo { return &MenuRepo{db: db} }

const menuColumns = `id, name, price, description, is_popular, image_url, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }, m *model.MenuItem) error {
	var img sql.NullString
	if err := row.Scan(&m.ID, &m.Name, &m.Price, &m.Description, &m.IsPopular, &img, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return err
	}
	if img.Valid {
		m.ImageUrl = &img.String
	}
	return nil
}

// Create inserts a new menu item.  A duplicate name returns
// ErrMenuItemNameTaken.
func (r *MenuRepo) Create(ctx context.Context, m *model.MenuItem) error {
	const q = `INSERT INTO menu_items (name, price, description, is_popular, image_url) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Price, m.Description, m.IsPopular, m.ImageUrl)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrMenuItemNameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	const sel = `SELECT ` + menuColumns + ` FROM menu_items WHERE id = ?`
	return scanMenuItem(r.db.QueryRowContext(ctx, sel, m.ID), m)
}

// GetByID returns ErrMenuItemNotFound when no row matches.
func (r *MenuRepo) GetByID(ctx context.Context, id uint64) (*model.MenuItem, error) {
	const q = `SELECT ` + menuColumns + ` FROM menu_items WHERE id = ?`
	var m model.MenuItem
	if err := scanMenuItem(r.db.QueryRowContext(ctx, q, id), &m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMenuItemNotFound
		}
		return nil, err
	}
	return &m, nil
}

// List returns all menu items ordered by ID ascending.
func (r *MenuRepo) List(ctx context.Context) ([]model.MenuItem, error) {
	const q = `SELECT ` + menuColumns + ` FROM menu_items ORDER BY id`
	return r.queryItems(ctx, q)
}

// ListPopular returns popular items that have an image to show on the
// landing page.
func (r *MenuRepo) ListPopular(ctx context.Context) ([]model.MenuItem, error) {
	const q = `SELECT ` + menuColumns + ` FROM menu_items WHERE is_popular = TRUE AND image_url IS NOT NULL ORDER BY id`
	return r.queryItems(ctx, q)
}

// Update persists all mutable fields of the menu item.
func (r *MenuRepo) Update(ctx context.Context, m *model.MenuItem) error {
	const q = `UPDATE menu_items SET name = ?, price = ?, description = ?, is_popular = ?, image_url = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, m.Name, m.Price, m.Description, m.IsPopular, m.ImageUrl, m.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrMenuItemNameTaken
		}
		return err
	}
	const sel = `SELECT ` + menuColumns + ` FROM menu_items WHERE id = ?`
	if err := scanMenuItem(r.db.QueryRowContext(ctx, sel, m.ID), m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMenuItemNotFound
		}
		return err
	}
	return nil
}

// Delete removes a menu item.
func (r *MenuRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM menu_items WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMenuItemNotFound
	}
	return nil
}

func (r *MenuRepo) queryItems(ctx context.Context, q string, args ...any) ([]model.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.MenuItem, 0)
	for rows.Next() {
		var m model.MenuItem
		if err := scanMenuItem(rows, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
