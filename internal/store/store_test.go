package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/google/uuid"
)

func testStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "mudra-test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() returned %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

func TestGestureRepository_CRUD(t *testing.T) {
	s := testStore(t)
	repo := s.Gestures()

	g := &Gesture{
		ID:        uuid.NewString(),
		Name:      "rock-on",
		Tolerance: 0.2,
		Samples:   3,
	}

	if err := repo.Create(g); err != nil {
		t.Fatalf("Create() returned %v", err)
	}

	got, err := repo.GetByID(g.ID)
	if err != nil {
		t.Fatalf("GetByID() returned %v", err)
	}
	if got.Name != "rock-on" || got.Tolerance != 0.2 || got.Samples != 3 {
		t.Errorf("GetByID() = %+v, want name rock-on tolerance 0.2 samples 3", got)
	}

	byName, err := repo.GetByName("rock-on")
	if err != nil {
		t.Fatalf("GetByName() returned %v", err)
	}
	if byName.ID != g.ID {
		t.Errorf("GetByName() ID = %q, want %q", byName.ID, g.ID)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() returned %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() returned %d gestures, want 1", len(list))
	}

	if err := repo.Delete(g.ID); err != nil {
		t.Fatalf("Delete() returned %v", err)
	}
	if _, err := repo.GetByID(g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
}

func TestGestureRepository_Landmarks(t *testing.T) {
	s := testStore(t)
	repo := s.Gestures()

	g := &Gesture{ID: uuid.NewString(), Name: "pinky-promise", Tolerance: 0.15}
	if err := repo.Create(g); err != nil {
		t.Fatalf("Create() returned %v", err)
	}

	points := []detector.Point3D{
		{X: 0.1, Y: 0.2, Z: 0.3},
		{X: 0.4, Y: 0.5, Z: 0.6},
	}
	if err := repo.SetLandmarks(g.ID, points); err != nil {
		t.Fatalf("SetLandmarks() returned %v", err)
	}

	got, err := repo.GetLandmarks(g.ID)
	if err != nil {
		t.Fatalf("GetLandmarks() returned %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetLandmarks() returned %d points, want 2", len(got))
	}
	if got[0] != points[0] || got[1] != points[1] {
		t.Errorf("GetLandmarks() = %+v, want %+v", got, points)
	}

	// Replacing landmarks drops the old set.
	if err := repo.SetLandmarks(g.ID, points[:1]); err != nil {
		t.Fatalf("SetLandmarks() replace returned %v", err)
	}
	got, err = repo.GetLandmarks(g.ID)
	if err != nil {
		t.Fatalf("GetLandmarks() returned %v", err)
	}
	if len(got) != 1 {
		t.Errorf("GetLandmarks() after replace returned %d points, want 1", len(got))
	}
}

func TestGestureRepository_DeleteCascades(t *testing.T) {
	s := testStore(t)
	repo := s.Gestures()

	g := &Gesture{ID: uuid.NewString(), Name: "wave", Tolerance: 0.15}
	if err := repo.Create(g); err != nil {
		t.Fatalf("Create() returned %v", err)
	}
	if err := repo.SetLandmarks(g.ID, []detector.Point3D{{X: 1}}); err != nil {
		t.Fatalf("SetLandmarks() returned %v", err)
	}

	if err := repo.Delete(g.ID); err != nil {
		t.Fatalf("Delete() returned %v", err)
	}

	points, err := repo.GetLandmarks(g.ID)
	if err != nil {
		t.Fatalf("GetLandmarks() returned %v", err)
	}
	if len(points) != 0 {
		t.Errorf("landmarks survived gesture delete: %+v", points)
	}
}

func TestBindingRepository(t *testing.T) {
	s := testStore(t)
	repo := s.Bindings()

	b := &Binding{Gesture: "FIST", Action: "right_click", Enabled: true}
	if err := repo.Put(b); err != nil {
		t.Fatalf("Put() returned %v", err)
	}

	got, err := repo.Get("FIST")
	if err != nil {
		t.Fatalf("Get() returned %v", err)
	}
	if got.Action != "right_click" || !got.Enabled {
		t.Errorf("Get() = %+v, want right_click enabled", got)
	}

	// Put on the same gesture replaces the action.
	b.Action = "double_click"
	b.Enabled = false
	if err := repo.Put(b); err != nil {
		t.Fatalf("Put() replace returned %v", err)
	}
	got, err = repo.Get("FIST")
	if err != nil {
		t.Fatalf("Get() returned %v", err)
	}
	if got.Action != "double_click" || got.Enabled {
		t.Errorf("Get() after replace = %+v, want double_click disabled", got)
	}

	list, err := repo.List()
	if err != nil {
		t.Fatalf("List() returned %v", err)
	}
	if len(list) != 1 {
		t.Errorf("List() returned %d bindings, want 1", len(list))
	}

	if err := repo.Delete("FIST"); err != nil {
		t.Fatalf("Delete() returned %v", err)
	}
	if _, err := repo.Get("FIST"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if err := repo.Delete("FIST"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing binding error = %v, want ErrNotFound", err)
	}
}

func TestSampleRepository(t *testing.T) {
	s := testStore(t)

	g := &Gesture{ID: uuid.NewString(), Name: "salute", Tolerance: 0.15}
	if err := s.Gestures().Create(g); err != nil {
		t.Fatalf("Create() returned %v", err)
	}

	repo := s.Samples()
	for i := 0; i < 3; i++ {
		data, _ := json.Marshal(map[string]int{"index": i})
		if err := repo.Add(g.ID, i, data); err != nil {
			t.Fatalf("Add() %d returned %v", i, err)
		}
	}

	samples, err := repo.ListByGesture(g.ID)
	if err != nil {
		t.Fatalf("ListByGesture() returned %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("ListByGesture() returned %d samples, want 3", len(samples))
	}
	for i, sample := range samples {
		if sample.SampleIndex != i {
			t.Errorf("sample %d has index %d", i, sample.SampleIndex)
		}
	}

	if err := repo.DeleteByGesture(g.ID); err != nil {
		t.Fatalf("DeleteByGesture() returned %v", err)
	}
	samples, err = repo.ListByGesture(g.ID)
	if err != nil {
		t.Fatalf("ListByGesture() returned %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("samples survived delete: %d", len(samples))
	}
}

func TestSampleRepository_AddBatch(t *testing.T) {
	s := testStore(t)

	g := &Gesture{ID: uuid.NewString(), Name: "vulcan", Tolerance: 0.15}
	if err := s.Gestures().Create(g); err != nil {
		t.Fatalf("Create() returned %v", err)
	}

	repo := s.Samples()
	batch := []json.RawMessage{
		json.RawMessage(`[{"x":0.1}]`),
		json.RawMessage(`[{"x":0.2}]`),
	}
	if err := repo.AddBatch(g.ID, 0, batch); err != nil {
		t.Fatalf("AddBatch() returned %v", err)
	}

	samples, err := repo.ListByGesture(g.ID)
	if err != nil {
		t.Fatalf("ListByGesture() returned %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("ListByGesture() returned %d samples, want 2", len(samples))
	}

	got, err := s.Gestures().GetByID(g.ID)
	if err != nil {
		t.Fatalf("GetByID() returned %v", err)
	}
	if got.Samples != 2 {
		t.Errorf("sample count = %d, want 2", got.Samples)
	}

	// A second batch continues the index sequence and the count.
	if err := repo.AddBatch(g.ID, got.Samples, batch[:1]); err != nil {
		t.Fatalf("AddBatch() returned %v", err)
	}
	samples, _ = repo.ListByGesture(g.ID)
	if len(samples) != 3 || samples[2].SampleIndex != 2 {
		t.Errorf("got %d samples, last index %d, want 3 samples ending at 2",
			len(samples), samples[len(samples)-1].SampleIndex)
	}

	// A batch against a missing gesture fails the foreign key and
	// leaves nothing behind.
	if err := repo.AddBatch("no-such-gesture", 0, batch); err == nil {
		t.Fatal("AddBatch() for unknown gesture succeeded")
	}
	orphans, err := repo.ListByGesture("no-such-gesture")
	if err != nil {
		t.Fatalf("ListByGesture() returned %v", err)
	}
	if len(orphans) != 0 {
		t.Errorf("rolled-back batch left %d rows", len(orphans))
	}
}

func TestSettingsRepository(t *testing.T) {
	s := testStore(t)
	repo := s.Settings()

	if _, err := repo.Get("mode"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() of missing key error = %v, want ErrNotFound", err)
	}

	if err := repo.Set("mode", "pointer"); err != nil {
		t.Fatalf("Set() returned %v", err)
	}
	if err := repo.Set("mode", "both"); err != nil {
		t.Fatalf("Set() update returned %v", err)
	}

	got, err := repo.Get("mode")
	if err != nil {
		t.Fatalf("Get() returned %v", err)
	}
	if got != "both" {
		t.Errorf("Get() = %q, want both", got)
	}

	if err := repo.Delete("mode"); err != nil {
		t.Fatalf("Delete() returned %v", err)
	}
	if _, err := repo.Get("mode"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
}
