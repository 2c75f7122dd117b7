// Package server exposes the HTTP API for configuring gesture control at
// runtime: custom gestures, samples, bindings and the control state.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Store     *store.Store
	App       *app.App
	StaticDir string
}

// Server is the HTTP API server.
type Server struct {
	config    Config
	mux       *http.ServeMux
	landmarks *LandmarksHandler
	start     time.Time
}

// New creates a Server with the given configuration.
func New(cfg Config) *Server {
	s := &Server{
		config:    cfg,
		mux:       http.NewServeMux(),
		landmarks: NewLandmarksHandler(),
		start:     time.Now(),
	}
	s.setupRoutes()
	return s
}

// Landmarks returns the WebSocket broadcast handler so the pipeline can
// be wired to publish into it.
func (s *Server) Landmarks() *LandmarksHandler {
	return s.landmarks
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.Handle("/api/landmarks", s.landmarks)

	if s.config.App != nil {
		s.mux.HandleFunc("/api/control", s.handleControl)
	}

	if s.config.Store != nil {
		var gestureHandler *api.GestureHandler
		if s.config.App != nil {
			gestureHandler = api.NewGestureHandler(s.config.Store, s.config.App.Matcher())
		} else {
			gestureHandler = api.NewGestureHandler(s.config.Store, nil)
		}
		samplesHandler := api.NewSamplesHandler(s.config.Store)

		// Route /api/gestures/{id}/samples to the samples handler,
		// everything else under /api/gestures to the gesture handler.
		gestureRouter := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/samples") {
				samplesHandler.ServeHTTP(w, r)
				return
			}
			gestureHandler.ServeHTTP(w, r)
		})
		s.mux.Handle("/api/gestures", gestureRouter)
		s.mux.Handle("/api/gestures/", gestureRouter)

		reload := func() error { return nil }
		if s.config.App != nil {
			reload = s.config.App.LoadBindings
		}
		bindingHandler := api.NewBindingHandler(s.config.Store, reload)
		s.mux.Handle("/api/bindings", bindingHandler)
		s.mux.Handle("/api/bindings/", bindingHandler)
	}

	if s.config.StaticDir != "" {
		s.mux.Handle("/", http.FileServer(http.Dir(s.config.StaticDir)))
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["enabled"] = s.config.App.IsEnabled()
		response["mode"] = string(s.config.App.Mode())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type controlRequest struct {
	Enabled *bool  `json:"enabled"`
	Mode    string `json:"mode"`
}

// handleControl handles GET and POST /api/control, reading and changing
// the runtime control state.
func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		var req controlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		if req.Mode != "" {
			mode := config.Mode(req.Mode)
			if mode != config.ModePointer && mode != config.ModeGesture && mode != config.ModeBoth {
				http.Error(w, "Invalid mode", http.StatusBadRequest)
				return
			}
			s.config.App.SetMode(mode)
		}
		if req.Enabled != nil {
			s.config.App.SetEnabled(*req.Enabled)
		}
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"enabled": s.config.App.IsEnabled(),
		"mode":    string(s.config.App.Mode()),
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
