package store

import (
	"database/sql"
	"errors"
	"time"
)

// Binding maps a gesture name (built-in or custom) to an action spec.
type Binding struct {
	Gesture   string
	Action    string
	Enabled   bool
	CreatedAt time.Time
}

// BindingRepository provides CRUD operations for bindings.
type BindingRepository struct {
	db *sql.DB
}

// Bindings returns the binding repository.
func (s *Store) Bindings() *BindingRepository {
	return &BindingRepository{db: s.db}
}

// Put inserts or replaces the binding for a gesture.
func (r *BindingRepository) Put(b *Binding) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO bindings (gesture, action, enabled, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(gesture) DO UPDATE SET action = excluded.action, enabled = excluded.enabled`,
		b.Gesture, b.Action, b.Enabled, b.CreatedAt,
	)
	return err
}

// Get retrieves the binding for a gesture.
func (r *BindingRepository) Get(gesture string) (*Binding, error) {
	b := &Binding{}
	var enabled int

	err := r.db.QueryRow(
		`SELECT gesture, action, enabled, created_at FROM bindings WHERE gesture = ?`,
		gesture,
	).Scan(&b.Gesture, &b.Action, &enabled, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	b.Enabled = enabled != 0
	return b, nil
}

// List retrieves all bindings.
func (r *BindingRepository) List() ([]*Binding, error) {
	rows, err := r.db.Query(`SELECT gesture, action, enabled, created_at FROM bindings ORDER BY gesture`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bindings []*Binding
	for rows.Next() {
		b := &Binding{}
		var enabled int
		if err := rows.Scan(&b.Gesture, &b.Action, &enabled, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.Enabled = enabled != 0
		bindings = append(bindings, b)
	}

	return bindings, rows.Err()
}

// Delete removes the binding for a gesture.
func (r *BindingRepository) Delete(gesture string) error {
	result, err := r.db.Exec(`DELETE FROM bindings WHERE gesture = ?`, gesture)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
