// Package tray provides the system tray interface for controlling the
// gesture pipeline.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/config"
)

// Tray is the system tray menu. It mirrors the pipeline's enabled state
// and control mode and forwards user choices through callbacks.
type Tray struct {
	onToggle func(enabled bool)
	onMode   func(mode config.Mode)
	onQuit   func()
	enabled  bool
	mode     config.Mode
	mu       sync.RWMutex

	// Menu items kept for later updates.
	menuToggle      *systray.MenuItem
	menuLastGesture *systray.MenuItem
	menuPointer     *systray.MenuItem
	menuGesture     *systray.MenuItem
	menuBoth        *systray.MenuItem
}

// New creates a Tray reflecting the given initial state.
func New(enabled bool, mode config.Mode) *Tray {
	return &Tray{
		enabled: enabled,
		mode:    mode,
	}
}

// OnToggle sets the callback invoked when gesture control is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback invoked when the control mode is changed.
func (t *Tray) OnMode(fn func(mode config.Mode)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnQuit sets the callback invoked when the quit item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the tray loop. Blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("Mudra")
	systray.SetTooltip("Mudra hand gesture control")

	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle gesture control")
	systray.AddSeparator()

	t.menuLastGesture = systray.AddMenuItem("Last: none", "Last recognized gesture")
	t.menuLastGesture.Disable()
	systray.AddSeparator()

	t.menuPointer = systray.AddMenuItemCheckbox("Pointer only", "Cursor control only", t.mode == config.ModePointer)
	t.menuGesture = systray.AddMenuItemCheckbox("Gestures only", "Gesture actions only", t.mode == config.ModeGesture)
	t.menuBoth = systray.AddMenuItemCheckbox("Pointer + gestures", "Cursor control and gesture actions", t.mode == config.ModeBoth)
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit Mudra")

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-t.menuPointer.ClickedCh:
				t.handleMode(config.ModePointer)
			case <-t.menuGesture.ClickedCh:
				t.handleMode(config.ModeGesture)
			case <-t.menuBoth.ClickedCh:
				t.handleMode(config.ModeBoth)
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

func (t *Tray) onExit() {}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.menuToggle.SetTitle(toggleTitle(enabled))
	callback := t.onToggle
	t.mu.Unlock()

	// Call outside the lock to prevent deadlocks.
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleMode(mode config.Mode) {
	t.mu.Lock()
	t.mode = mode
	t.checkMode(mode)
	callback := t.onMode
	t.mu.Unlock()

	if callback != nil {
		callback(mode)
	}
}

// checkMode updates the mode checkboxes. Callers must hold the lock.
func (t *Tray) checkMode(mode config.Mode) {
	items := map[config.Mode]*systray.MenuItem{
		config.ModePointer: t.menuPointer,
		config.ModeGesture: t.menuGesture,
		config.ModeBoth:    t.menuBoth,
	}
	for m, item := range items {
		if item == nil {
			continue
		}
		if m == mode {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetEnabled updates the toggle display when the state changes
// elsewhere, for example via the hotkey.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.enabled = enabled
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(enabled))
	}
}

// SetLastGesture updates the last gesture display.
func (t *Tray) SetLastGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastGesture == nil {
		return
	}
	if name == "" || name == "NONE" {
		t.menuLastGesture.SetTitle("Last: none")
	} else {
		t.menuLastGesture.SetTitle("Last: " + name)
	}
}

// IsEnabled returns the tray's view of the enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}
