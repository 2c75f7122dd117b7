package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/detector"
)

// Gesture is a custom gesture template definition.
type Gesture struct {
	ID        string
	Name      string
	Tolerance float64
	Samples   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GestureRepository provides CRUD operations for custom gestures.
type GestureRepository struct {
	db *sql.DB
}

// Gestures returns the gesture repository.
func (s *Store) Gestures() *GestureRepository {
	return &GestureRepository{db: s.db}
}

// Create inserts a new gesture.
func (r *GestureRepository) Create(g *Gesture) error {
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO gestures (id, name, tolerance, samples, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Tolerance, g.Samples, g.CreatedAt, g.UpdatedAt,
	)
	return err
}

// GetByID retrieves a gesture by ID.
func (r *GestureRepository) GetByID(id string) (*Gesture, error) {
	return r.get(`SELECT id, name, tolerance, samples, created_at, updated_at
		 FROM gestures WHERE id = ?`, id)
}

// GetByName retrieves a gesture by name.
func (r *GestureRepository) GetByName(name string) (*Gesture, error) {
	return r.get(`SELECT id, name, tolerance, samples, created_at, updated_at
		 FROM gestures WHERE name = ?`, name)
}

func (r *GestureRepository) get(query string, arg interface{}) (*Gesture, error) {
	g := &Gesture{}
	err := r.db.QueryRow(query, arg).
		Scan(&g.ID, &g.Name, &g.Tolerance, &g.Samples, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// Update writes the gesture's mutable fields and bumps updated_at.
func (r *GestureRepository) Update(g *Gesture) error {
	g.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE gestures SET name = ?, tolerance = ?, samples = ?, updated_at = ?
		 WHERE id = ?`,
		g.Name, g.Tolerance, g.Samples, g.UpdatedAt, g.ID,
	)
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

// List retrieves all gestures, newest first.
func (r *GestureRepository) List() ([]*Gesture, error) {
	rows, err := r.db.Query(
		`SELECT id, name, tolerance, samples, created_at, updated_at
		 FROM gestures ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gestures []*Gesture
	for rows.Next() {
		g := &Gesture{}
		if err := rows.Scan(&g.ID, &g.Name, &g.Tolerance, &g.Samples, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		gestures = append(gestures, g)
	}

	return gestures, rows.Err()
}

// Delete removes a gesture; landmarks and samples cascade.
func (r *GestureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM gestures WHERE id = ?`, id)
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

// SetLandmarks replaces the template landmarks for a gesture.
func (r *GestureRepository) SetLandmarks(gestureID string, points []detector.Point3D) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM gesture_landmarks WHERE gesture_id = ?`, gestureID); err != nil {
		return err
	}

	for i, p := range points {
		_, err := tx.Exec(
			`INSERT INTO gesture_landmarks (gesture_id, landmark_index, x, y, z)
			 VALUES (?, ?, ?, ?, ?)`,
			gestureID, i, p.X, p.Y, p.Z,
		)
		if err != nil {
			return err
		}
	}

	if _, err := tx.Exec(`UPDATE gestures SET updated_at = ? WHERE id = ?`, time.Now(), gestureID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetLandmarks loads the template landmarks for a gesture in index order.
func (r *GestureRepository) GetLandmarks(gestureID string) ([]detector.Point3D, error) {
	rows, err := r.db.Query(
		`SELECT x, y, z FROM gesture_landmarks
		 WHERE gesture_id = ? ORDER BY landmark_index`,
		gestureID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []detector.Point3D
	for rows.Next() {
		var p detector.Point3D
		if err := rows.Scan(&p.X, &p.Y, &p.Z); err != nil {
			return nil, err
		}
		points = append(points, p)
	}

	return points, rows.Err()
}
