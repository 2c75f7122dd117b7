package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/store"
)

// SamplesHandler handles HTTP requests for recorded gesture samples.
type SamplesHandler struct {
	store *store.Store
}

// NewSamplesHandler creates a SamplesHandler over the given store.
func NewSamplesHandler(s *store.Store) *SamplesHandler {
	return &SamplesHandler{store: s}
}

// ServeHTTP handles /api/gestures/{id}/samples.
func (h *SamplesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[1] != "samples" {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	gestureID := parts[0]

	switch r.Method {
	case http.MethodGet:
		h.list(w, r, gestureID)
	case http.MethodPost:
		h.create(w, r, gestureID)
	case http.MethodDelete:
		h.clear(w, r, gestureID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type createSamplesRequest struct {
	Samples []json.RawMessage `json:"samples"`
}

type sampleResponse struct {
	ID          int64           `json:"id"`
	GestureID   string          `json:"gesture_id"`
	SampleIndex int             `json:"sample_index"`
	Data        json.RawMessage `json:"data"`
	CreatedAt   string          `json:"created_at"`
}

type listSamplesResponse struct {
	Samples []sampleResponse `json:"samples"`
}

// list handles GET /api/gestures/{id}/samples.
func (h *SamplesHandler) list(w http.ResponseWriter, r *http.Request, gestureID string) {
	samples, err := h.store.Samples().ListByGesture(gestureID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list samples")
		return
	}

	response := listSamplesResponse{
		Samples: make([]sampleResponse, 0, len(samples)),
	}
	for _, s := range samples {
		response.Samples = append(response.Samples, sampleResponse{
			ID:          s.ID,
			GestureID:   s.GestureID,
			SampleIndex: s.SampleIndex,
			Data:        s.Data,
			CreatedAt:   s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/gestures/{id}/samples. Each sample must be a
// full set of normalized hand landmarks.
func (h *SamplesHandler) create(w http.ResponseWriter, r *http.Request, gestureID string) {
	g, err := h.store.Gestures().GetByID(gestureID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify gesture")
		return
	}

	var req createSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Samples) == 0 {
		writeError(w, http.StatusBadRequest, "At least one sample is required")
		return
	}

	for i, raw := range req.Samples {
		var points []detector.Point3D
		if err := json.Unmarshal(raw, &points); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Sample %d is not a landmark list", i))
			return
		}
		if len(points) != detector.NumLandmarks {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("Sample %d has %d landmarks, want %d", i, len(points), detector.NumLandmarks))
			return
		}
	}

	if err := h.store.Samples().AddBatch(gestureID, g.Samples, req.Samples); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save samples")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "ok",
		"samples": g.Samples + len(req.Samples),
	})
}

// clear handles DELETE /api/gestures/{id}/samples, discarding all
// recorded samples for the gesture.
func (h *SamplesHandler) clear(w http.ResponseWriter, r *http.Request, gestureID string) {
	g, err := h.store.Gestures().GetByID(gestureID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to verify gesture")
		return
	}

	if err := h.store.Samples().DeleteByGesture(gestureID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete samples")
		return
	}

	g.Samples = 0
	if err := h.store.Gestures().Update(g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update sample count")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
