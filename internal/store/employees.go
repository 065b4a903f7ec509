package store

import (
	"context"

	"github.com/example/meetingbot/internal/db"
)

// Employee is one entry of the claim-authorization roster. UserID is the
// external (Telegram) identifier; nothing else is load-bearing.
type Employee struct {
	ID       int64
	UserID   string
	Username string
}

type Employees struct {
	db *db.DB
}

func NewEmployees(d *db.DB) *Employees {
	return &Employees{db: d}
}

// Add inserts a roster entry. Returns false if the user was already there.
func (r *Employees) Add(ctx context.Context, userID string) (bool, error) {
	n, err := r.db.ExecRows(ctx, `
INSERT INTO employees(user_id) VALUES ($1)
ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Remove deletes a roster entry. Returns false if there was none.
func (r *Employees) Remove(ctx context.Context, userID string) (bool, error) {
	n, err := r.db.ExecRows(ctx, `DELETE FROM employees WHERE user_id=$1`, userID)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *Employees) Exists(ctx context.Context, userID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM employees WHERE user_id=$1)`, userID).Scan(&ok)
	return ok, err
}

func (r *Employees) List(ctx context.Context) ([]Employee, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, username FROM employees ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
