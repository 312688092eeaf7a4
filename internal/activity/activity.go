// Package activity owns the append-only audit trail. Entries are written
// once after a mutation commits and are never updated or deleted.
package activity

import (
	"context"
	"database/sql"
	"time"
)

// Audit actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// DefaultActor captions entries whose actor is unknown.
const DefaultActor = "Sistem"

// Entry is one audit trail row.
type Entry struct {
	ID        int64     `json:"id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	EntityID  int64     `json:"entity_id"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// Repository persists audit entries in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends one entry.
func (r *Repository) Insert(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_logs (user_name, action, entity_id, details)
		VALUES ($1, $2, $3, $4)
	`, e.UserName, e.Action, e.EntityID, e.Details)
	return err
}

// ListRecent returns the newest entries first, at most limit rows.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_name, action, COALESCE(entity_id, 0), COALESCE(details, ''), created_at
		FROM activity_logs
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserName, &e.Action, &e.EntityID, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}
