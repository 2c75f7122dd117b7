package store

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Sample is one raw recorded landmark set kept for retraining.
type Sample struct {
	ID          int64
	GestureID   string
	SampleIndex int
	Data        json.RawMessage
	CreatedAt   time.Time
}

// SampleRepository provides access to recorded samples.
type SampleRepository struct {
	db *sql.DB
}

// Samples returns the sample repository.
func (s *Store) Samples() *SampleRepository {
	return &SampleRepository{db: s.db}
}

// Add stores a sample for a gesture.
func (r *SampleRepository) Add(gestureID string, index int, data json.RawMessage) error {
	_, err := r.db.Exec(
		`INSERT INTO gesture_samples (gesture_id, sample_index, data, created_at)
		 VALUES (?, ?, ?, ?)`,
		gestureID, index, string(data), time.Now(),
	)
	return err
}

// AddBatch stores samples starting at startIndex and bumps the
// gesture's sample count, all in one transaction so a failed insert
// leaves neither orphaned rows nor a wrong count.
func (r *SampleRepository) AddBatch(gestureID string, startIndex int, samples []json.RawMessage) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for i, data := range samples {
		_, err := tx.Exec(
			`INSERT INTO gesture_samples (gesture_id, sample_index, data, created_at)
			 VALUES (?, ?, ?, ?)`,
			gestureID, startIndex+i, string(data), now,
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(
		`UPDATE gestures SET samples = samples + ?, updated_at = ? WHERE id = ?`,
		len(samples), now, gestureID,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ListByGesture retrieves all samples for a gesture in recording order.
func (r *SampleRepository) ListByGesture(gestureID string) ([]*Sample, error) {
	rows, err := r.db.Query(
		`SELECT id, gesture_id, sample_index, data, created_at
		 FROM gesture_samples WHERE gesture_id = ? ORDER BY sample_index`,
		gestureID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []*Sample
	for rows.Next() {
		s := &Sample{}
		var data string
		if err := rows.Scan(&s.ID, &s.GestureID, &s.SampleIndex, &data, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.Data = json.RawMessage(data)
		samples = append(samples, s)
	}

	return samples, rows.Err()
}

// DeleteByGesture removes all samples for a gesture.
func (r *SampleRepository) DeleteByGesture(gestureID string) error {
	_, err := r.db.Exec(`DELETE FROM gesture_samples WHERE gesture_id = ?`, gestureID)
	return err
}
