package repository

import (
	"context"
	"database/sql"
)

// User mirrors the users table. Email carries no uniqueness constraint;
// duplicate registrations are allowed, matching the historical behavior of
// the service.
type User struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserRepo provides persistence for users.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a user record. On success the user's ID is populated.
func (r *UserRepo) Create(ctx context.Context, u *User) error {
	const q = `INSERT INTO users (name, email) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, u.Name, u.Email)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}
