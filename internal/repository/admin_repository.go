package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/MyNameJaeff/ByteAndBrew/internal/model"
)

// ErrAdminNotFound is returned when an admin lookup fails.
var ErrAdminNotFound = errors.New("admin not found")

// ErrUsernameTaken is returned when a create or update collides with
// the unique username constraint.
var ErrUsernameTaken = errors.New("admin with this username already exists")

// AdminRepo provides CRUD operations for admin accounts.
type AdminRepo struct {
	db *sql.DB
}

// NewAdminRepo constructs an AdminRepo bound to the given database.
func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{db: db} }

const adminColumns = `id, username, password_hash, created_at, updated_at`

func scanAdmin(row interface{ Scan(...any) error }, a *model.Admin) error {
	return row.Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
}

// Create inserts a new admin.  A duplicate username returns
// ErrUsernameTaken.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	const q = `INSERT INTO admins (username, password_hash) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Username, a.PasswordHash)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrUsernameTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID returns ErrAdminNotFound when no row matches.
func (r *AdminRepo) GetByID(ctx context.Context, id uint64) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE id = ?`
	var a model.Admin
	if err := scanAdmin(r.db.QueryRowContext(ctx, q, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByUsername returns ErrAdminNotFound when no row matches.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins WHERE username = ?`
	var a model.Admin
	if err := scanAdmin(r.db.QueryRowContext(ctx, q, username), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all admins ordered by ID ascending.
func (r *AdminRepo) List(ctx context.Context) ([]model.Admin, error) {
	const q = `SELECT ` + adminColumns + ` FROM admins ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Admin, 0)
	for rows.Next() {
		var a model.Admin
		if err := scanAdmin(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of admin accounts.  The handler uses it to
// refuse deleting the last one.
func (r *AdminRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Update persists the username and password hash.
func (r *AdminRepo) Update(ctx context.Context, a *model.Admin) error {
	const q = `UPDATE admins SET username = ?, password_hash = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, a.Username, a.PasswordHash, a.ID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

// Delete removes an admin account.
func (r *AdminRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM admins WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAdminNotFound
	}
	return nil
}
