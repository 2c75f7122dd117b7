// Package app wires the capture, detection, classification and control
// stages into the gesture control pipeline.
package app

import (
	"log"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the capture rate while no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the capture rate during active tracking.
	ActiveFPS = 15
	// IdleTimeout is how long after the last motion the pipeline drops
	// back to the idle rate.
	IdleTimeout = 2 * time.Second
)

// Gesture hold thresholds, matching the control semantics: one-shot
// actions need a deliberate hold and expire if held too long, repeating
// actions re-fire while held.
const (
	// HoldOnceMin is when a one-shot action (clicks, keys, commands)
	// becomes eligible to fire.
	HoldOnceMin = 1 * time.Second
	// HoldOnceMax is when an unfired one-shot action expires.
	HoldOnceMax = 1500 * time.Millisecond
	// HoldRepeat is when repeating actions (scrolling) start firing.
	HoldRepeat = 800 * time.Millisecond
	// HoldReset is when a reset action fires.
	HoldReset = 500 * time.Millisecond
)

// DefaultBindings are the built-in gesture-to-action mappings, applied
// unless the store overrides them.
var DefaultBindings = map[string]string{
	string(gesture.Fist):     action.RightClick,
	string(gesture.Peace):    action.DoubleClick,
	string(gesture.ThumbsUp): action.ScrollUp,
	string(gesture.OK):       action.ScrollDown,
	string(gesture.OpenHand): action.Reset,
}

// Deps lets callers (and tests) substitute pipeline components. Nil
// fields get real implementations.
type Deps struct {
	Camera   capture.Camera
	Detector detector.Detector
	Input    control.Input
	Store    *store.Store
}

// App orchestrates the per-frame control loop.
type App struct {
	cfg        config.Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	detector   detector.Detector
	controller *control.Controller
	dispatcher *action.Dispatcher
	matcher    *gesture.Matcher
	history    *gesture.History
	store      *store.Store

	mu      sync.RWMutex
	enabled bool
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// now is swappable for tests that exercise hold timing.
	now func() time.Time

	// preview is nil when running headless.
	preview *Preview

	// onGesture, when set, receives every voted non-None label. Used by
	// the tray and the landmark stream.
	onGesture func(label string, hand *detector.Hand)

	// Hold-gating state, owned by the pipeline goroutine.
	holdLabel   string
	holdStart   time.Time
	holdFired   bool
	pinchClosed bool
	pointerOn   bool
}

// New creates an App from the config, filling missing dependencies with
// real implementations.
func New(cfg config.Config, deps Deps) *App {
	camera := deps.Camera
	if camera == nil {
		camera = capture.NewCamera(cfg.CameraID)
	}
	camera.SetMirror(cfg.Mirror)

	det := deps.Detector
	if det == nil {
		detCfg := detector.Config{
			MaxHands:               1,
			MinDetectionConfidence: cfg.MinDetectionConfidence,
			MinTrackingConfidence:  cfg.MinTrackingConfidence,
		}
		if mp, err := detector.NewMediaPipeDetector(detCfg); err == nil {
			det = mp
			log.Println("using MediaPipe hand detection")
		} else {
			log.Printf("MediaPipe not available (%v), using mock detector", err)
			det = detector.NewMockDetector()
		}
	}

	input := deps.Input
	if input == nil {
		input = control.NewInput()
	}

	controller := control.NewController(input, control.Options{
		Smoothing:     cfg.Smoothing,
		ClickCooldown: cfg.ClickCooldown,
		ScrollStep:    cfg.ScrollStep,
	})

	a := &App{
		cfg:        cfg,
		camera:     camera,
		motion:     capture.NewMotionDetector(cfg.MotionThreshold),
		detector:   det,
		controller: controller,
		dispatcher: action.NewDispatcher(controller, 0),
		matcher:    gesture.NewMatcher(),
		history:    gesture.NewHistory(gesture.DefaultHistorySize),
		store:      deps.Store,
		now:        time.Now,
	}

	return a
}

// LoadBindings installs the default gesture bindings, then applies any
// overrides from the store.
func (a *App) LoadBindings() error {
	// Start from a clean slate so bindings deleted from the store do
	// not survive a reload.
	a.dispatcher.Reset()

	for g, spec := range DefaultBindings {
		if err := a.dispatcher.Bind(g, spec); err != nil {
			return err
		}
	}

	if a.store == nil {
		return nil
	}

	bindings, err := a.store.Bindings().List()
	if err != nil {
		return err
	}

	for _, b := range bindings {
		if !b.Enabled {
			a.dispatcher.Unbind(b.Gesture)
			continue
		}
		if err := a.dispatcher.Bind(b.Gesture, b.Action); err != nil {
			log.Printf("skipping binding %s -> %s: %v", b.Gesture, b.Action, err)
		}
	}

	return nil
}

// LoadTemplates loads custom gesture templates from the store into the
// matcher.
func (a *App) LoadTemplates() error {
	if a.store == nil {
		return nil
	}

	gestures, err := a.store.Gestures().List()
	if err != nil {
		return err
	}

	for _, g := range gestures {
		landmarks, err := a.store.Gestures().GetLandmarks(g.ID)
		if err != nil {
			log.Printf("failed to load landmarks for %s: %v", g.Name, err)
			continue
		}
		if len(landmarks) == 0 {
			continue
		}

		a.matcher.Add(&gesture.Template{
			ID:        g.ID,
			Name:      g.Name,
			Landmarks: landmarks,
			Tolerance: g.Tolerance,
		})
	}

	log.Printf("loaded %d custom gestures", a.matcher.Len())
	return nil
}

// SetEnabled turns gesture control on or off.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether gesture control is active.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// ToggleEnabled flips the enabled state and returns the new value.
func (a *App) ToggleEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = !a.enabled
	return a.enabled
}

// OnGesture registers a callback invoked with every voted gesture label.
func (a *App) OnGesture(fn func(label string, hand *detector.Hand)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onGesture = fn
}

// Mode returns the active control mode.
func (a *App) Mode() config.Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg.Mode
}

// SetMode switches the control mode at runtime.
func (a *App) SetMode(mode config.Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cfg.Mode = mode
}

// Controller returns the input controller.
func (a *App) Controller() *control.Controller {
	return a.controller
}

// Dispatcher returns the action dispatcher.
func (a *App) Dispatcher() *action.Dispatcher {
	return a.dispatcher
}

// Matcher returns the custom template matcher.
func (a *App) Matcher() *gesture.Matcher {
	return a.matcher
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	return a.detector
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Start opens the camera and launches the pipeline goroutine.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return err
	}
	a.camera.SetFPS(IdleFPS)

	if a.cfg.Preview {
		a.preview = NewPreview()
	}

	a.stopCh = make(chan struct{})
	a.wg.Add(1)
	go func(stopCh chan struct{}) {
		defer a.wg.Done()
		a.run(stopCh)
	}(a.stopCh)

	log.Println("gesture pipeline started")
	return nil
}

// Stop halts the pipeline and releases the camera and detector.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh := a.stopCh
	a.stopCh = nil
	a.mu.Unlock()

	// Wait for the in-flight frame outside the lock; the run goroutine
	// takes the read lock on its way through a frame.
	if stopCh != nil {
		close(stopCh)
		a.wg.Wait()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		log.Printf("closing camera: %v", err)
	}

	a.motion.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("closing detector: %v", err)
		}
	}

	if a.preview != nil {
		a.preview.Close()
		a.preview = nil
	}

	log.Println("gesture pipeline stopped")
}
