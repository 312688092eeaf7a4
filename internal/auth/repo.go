package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// User is an account row from the users table. Accounts are provisioned via
// the register endpoint and read-only at runtime.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	NamaLengkap  string    `json:"nama_lengkap"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Repository persists user accounts in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert creates a user and returns its generated id.
func (r *Repository) Insert(ctx context.Context, u User) (int64, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password, nama_lengkap, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, u.Username, u.PasswordHash, u.NamaLengkap, u.Email, u.Role)
	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// FindByUsername returns the user with the given username, or nil when absent.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password, nama_lengkap, COALESCE(email, ''), role, created_at
		FROM users WHERE username = $1
	`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.NamaLengkap, &u.Email, &u.Role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
