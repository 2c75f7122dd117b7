// Package api provides the HTTP API handlers for gesture control
// configuration.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// DefaultTolerance is applied to new gestures that do not specify one.
const DefaultTolerance = 0.15

// GestureHandler handles HTTP requests for custom gesture resources.
// When a matcher is set, training and deletion keep it in sync so
// changes take effect without a restart.
type GestureHandler struct {
	store   *store.Store
	matcher *gesture.Matcher
}

// NewGestureHandler creates a GestureHandler. The matcher may be nil.
func NewGestureHandler(s *store.Store, m *gesture.Matcher) *GestureHandler {
	return &GestureHandler{store: s, matcher: m}
}

// ServeHTTP routes between the collection, item and train endpoints.
// Expected paths: /api/gestures, /api/gestures/{id},
// /api/gestures/{id}/train.
func (h *GestureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/gestures")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if id, ok := strings.CutSuffix(path, "/train"); ok {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.train(w, r, id)
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createGestureRequest struct {
	Name      string  `json:"name"`
	Tolerance float64 `json:"tolerance"`
}

type updateGestureRequest struct {
	Name      string  `json:"name"`
	Tolerance float64 `json:"tolerance"`
}

type gestureResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Tolerance float64 `json:"tolerance"`
	Samples   int     `json:"samples"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type listGesturesResponse struct {
	Gestures []gestureResponse `json:"gestures"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toResponse converts a store.Gesture to a gestureResponse.
func toResponse(g *store.Gesture) gestureResponse {
	return gestureResponse{
		ID:        g.ID,
		Name:      g.Name,
		Tolerance: g.Tolerance,
		Samples:   g.Samples,
		CreatedAt: g.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: g.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/gestures.
func (h *GestureHandler) list(w http.ResponseWriter, r *http.Request) {
	gestures, err := h.store.Gestures().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list gestures")
		return
	}

	response := listGesturesResponse{
		Gestures: make([]gestureResponse, 0, len(gestures)),
	}
	for _, g := range gestures {
		response.Gestures = append(response.Gestures, toResponse(g))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/gestures/{id}.
func (h *GestureHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(g))
}

// create handles POST /api/gestures.
func (h *GestureHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	tolerance := req.Tolerance
	if tolerance == 0 {
		tolerance = DefaultTolerance
	}

	g := &store.Gesture{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Tolerance: tolerance,
	}

	if err := h.store.Gestures().Create(g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create gesture")
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(g))
}

// update handles PUT /api/gestures/{id}.
func (h *GestureHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	var req updateGestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		g.Name = req.Name
	}
	if req.Tolerance != 0 {
		g.Tolerance = req.Tolerance
	}

	if err := h.store.Gestures().Update(g); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update gesture")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(g))
}

// delete handles DELETE /api/gestures/{id}.
func (h *GestureHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Gestures().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete gesture")
		return
	}

	if h.matcher != nil {
		h.matcher.Remove(id)
	}

	w.WriteHeader(http.StatusNoContent)
}

// train handles POST /api/gestures/{id}/train. It averages the recorded
// samples into template landmarks, stores them, and installs the
// template in the live matcher.
func (h *GestureHandler) train(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.store.Gestures().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Gesture not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get gesture")
		return
	}

	samples, err := h.store.Samples().ListByGesture(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load samples")
		return
	}
	if len(samples) == 0 {
		writeError(w, http.StatusBadRequest, "No samples recorded for this gesture")
		return
	}

	sets := make([][]detector.Point3D, 0, len(samples))
	for _, s := range samples {
		var points []detector.Point3D
		if err := json.Unmarshal(s.Data, &points); err != nil {
			writeError(w, http.StatusInternalServerError, "Corrupt sample data")
			return
		}
		sets = append(sets, points)
	}

	landmarks, err := gesture.Train(sets)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Gestures().SetLandmarks(id, landmarks); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store landmarks")
		return
	}

	if h.matcher != nil {
		h.matcher.Remove(id)
		h.matcher.Add(&gesture.Template{
			ID:        g.ID,
			Name:      g.Name,
			Landmarks: landmarks,
			Tolerance: g.Tolerance,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "trained",
		"samples":   len(samples),
		"landmarks": len(landmarks),
	})
}
