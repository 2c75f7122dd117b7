// Package hotkey registers a global keyboard shortcut for toggling
// gesture control.
package hotkey

import (
	"fmt"
	"log"
	"strings"

	gohook "github.com/robotn/gohook"
)

// Listener owns the global hook event loop.
type Listener struct {
	keys     []string
	callback func()
	started  bool
}

// New creates a Listener for a chord like "Ctrl+Shift+G". The callback
// runs on the hook goroutine, so it must not block.
func New(chord string, callback func()) (*Listener, error) {
	keys, err := ParseChord(chord)
	if err != nil {
		return nil, err
	}
	return &Listener{keys: keys, callback: callback}, nil
}

// Start registers the chord and runs the hook loop in the background.
func (l *Listener) Start() {
	if l.started {
		return
	}
	l.started = true

	gohook.Register(gohook.KeyDown, l.keys, func(e gohook.Event) {
		l.callback()
	})

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey listener panicked: %v", r)
			}
		}()

		log.Printf("hotkey registered: %s", strings.Join(l.keys, "+"))
		<-gohook.Process(gohook.Start())
	}()
}

// Stop ends the hook loop.
func (l *Listener) Stop() {
	if !l.started {
		return
	}
	l.started = false
	gohook.End()
}

// ParseChord converts a chord like "Ctrl+Shift+G" into the key names
// the hook library expects.
func ParseChord(chord string) ([]string, error) {
	parts := strings.Split(chord, "+")
	var keys []string

	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			return nil, fmt.Errorf("empty key in chord %q", chord)
		}

		switch part {
		case "ctrl", "control":
			keys = append(keys, "ctrl")
		case "alt", "option":
			keys = append(keys, "alt")
		case "shift":
			keys = append(keys, "shift")
		case "win", "cmd", "super", "meta":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}

	if len(keys) < 2 {
		return nil, fmt.Errorf("chord %q needs a modifier and a key", chord)
	}

	return keys, nil
}
