package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/2gazb/BargainDrivingServer/internal/model"
)

// UserStore is the credential store contract consumed by the auth
// handlers and middleware.  Soft-deleted accounts are invisible to
// every method.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id uint64) (model.User, error)
	FindByUsernameAndRole(ctx context.Context, username string, role model.Role) (model.User, error)
	CountByUsername(ctx context.Context, username string) (int, error)
	Insert(ctx context.Context, u model.User) (model.User, error)
	Update(ctx context.Context, u model.User) (model.User, error)
	ListAll(ctx context.Context) ([]model.User, error)
}

const userColumns = "id, username, first_name, last_name, password, role, created_at, updated_at"

// UserRepo is the MySQL implementation of UserStore over the 'users'
// table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName,
		&u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

// FindByUsername fetches an active user by exact username.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? AND deleted_at IS NULL LIMIT 1",
		username))
}

// FindByID fetches an active user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? AND deleted_at IS NULL LIMIT 1",
		id))
}

// FindByUsernameAndRole fetches an active user by username and role.
// A user that exists under a different role is reported as ErrNotFound,
// exactly like a user that does not exist at all.
func (r *UserRepo) FindByUsernameAndRole(ctx context.Context, username string, role model.Role) (model.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? AND role=? AND deleted_at IS NULL LIMIT 1",
		username, int(role)))
}

// CountByUsername counts active users with the given username.  Used as
// the advisory pre-check during registration.
func (r *UserRepo) CountByUsername(ctx context.Context, username string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE username=? AND deleted_at IS NULL",
		username).Scan(&n)
	return n, err
}

// Insert persists a new user and returns it with the assigned ID.  The
// caller is responsible for hashing the password beforehand.  A unique
// index violation on username is mapped to ErrUsernameExists.
func (r *UserRepo) Insert(ctx context.Context, u model.User) (model.User, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, first_name, last_name, password, role) VALUES (?,?,?,?,?)",
		u.Username, u.FirstName, u.LastName, u.Password, int(u.Role))
	if err != nil {
		// MySQL error 1062: duplicate entry for a unique key.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return model.User{}, ErrUsernameExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.FindByID(ctx, uint64(id))
}

// Update rewrites the mutable profile fields of an existing user.
func (r *UserRepo) Update(ctx context.Context, u model.User) (model.User, error) {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?, last_name=? WHERE id=? AND deleted_at IS NULL",
		u.FirstName, u.LastName, u.ID)
	if err != nil {
		return model.User{}, err
	}
	return r.FindByID(ctx, u.ID)
}

// ListAll returns every active user in storage order.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE deleted_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName,
			&u.Password, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
