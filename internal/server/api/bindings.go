package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/store"
)

// BindingHandler handles HTTP requests for gesture-to-action bindings.
// After every mutation it calls reload so the running dispatcher picks
// up the change.
type BindingHandler struct {
	store  *store.Store
	reload func() error
}

// NewBindingHandler creates a BindingHandler. reload must not be nil.
func NewBindingHandler(s *store.Store, reload func() error) *BindingHandler {
	return &BindingHandler{store: s, reload: reload}
}

// ServeHTTP routes /api/bindings and /api/bindings/{gesture}.
func (h *BindingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/bindings")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	}

	gesture := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, gesture)
	case http.MethodPut:
		h.put(w, r, gesture)
	case http.MethodDelete:
		h.delete(w, r, gesture)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type putBindingRequest struct {
	Action  string `json:"action"`
	Enabled *bool  `json:"enabled"`
}

type bindingResponse struct {
	Gesture string `json:"gesture"`
	Action  string `json:"action"`
	Enabled bool   `json:"enabled"`
}

type listBindingsResponse struct {
	Bindings []bindingResponse `json:"bindings"`
}

func toBindingResponse(b *store.Binding) bindingResponse {
	return bindingResponse{
		Gesture: b.Gesture,
		Action:  b.Action,
		Enabled: b.Enabled,
	}
}

// list handles GET /api/bindings and returns the stored overrides.
func (h *BindingHandler) list(w http.ResponseWriter, r *http.Request) {
	bindings, err := h.store.Bindings().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bindings")
		return
	}

	response := listBindingsResponse{
		Bindings: make([]bindingResponse, 0, len(bindings)),
	}
	for _, b := range bindings {
		response.Bindings = append(response.Bindings, toBindingResponse(b))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/bindings/{gesture}.
func (h *BindingHandler) get(w http.ResponseWriter, r *http.Request, gesture string) {
	b, err := h.store.Bindings().Get(gesture)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// put handles PUT /api/bindings/{gesture}, creating or replacing the
// binding for a gesture.
func (h *BindingHandler) put(w http.ResponseWriter, r *http.Request, gesture string) {
	var req putBindingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Action == "" {
		writeError(w, http.StatusBadRequest, "action is required")
		return
	}
	if _, err := action.Parse(req.Action); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	b := &store.Binding{
		Gesture: gesture,
		Action:  req.Action,
		Enabled: enabled,
	}
	if err := h.store.Bindings().Put(b); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save binding")
		return
	}

	if err := h.reload(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to apply binding")
		return
	}

	writeJSON(w, http.StatusOK, toBindingResponse(b))
}

// delete handles DELETE /api/bindings/{gesture}, removing the stored
// override. The gesture reverts to its built-in binding, if any.
func (h *BindingHandler) delete(w http.ResponseWriter, r *http.Request, gesture string) {
	if err := h.store.Bindings().Delete(gesture); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Binding not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete binding")
		return
	}

	if err := h.reload(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to apply binding change")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
