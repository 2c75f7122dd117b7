package action

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/ayusman/mudra/internal/control"
)

// DefaultExecTimeout bounds exec: action run time.
const DefaultExecTimeout = 5 * time.Second

// Dispatcher maps gesture names to actions and executes them through
// the controller.
type Dispatcher struct {
	controller  *control.Controller
	execTimeout time.Duration

	mu       sync.RWMutex
	bindings map[string]Action
}

// NewDispatcher creates a Dispatcher with no bindings.
func NewDispatcher(controller *control.Controller, execTimeout time.Duration) *Dispatcher {
	if execTimeout <= 0 {
		execTimeout = DefaultExecTimeout
	}
	return &Dispatcher{
		controller:  controller,
		execTimeout: execTimeout,
		bindings:    make(map[string]Action),
	}
}

// Bind associates a gesture name with an action spec.
func (d *Dispatcher) Bind(gesture, spec string) error {
	a, err := Parse(spec)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings[gesture] = a
	return nil
}

// Unbind removes a gesture binding.
func (d *Dispatcher) Unbind(gesture string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.bindings, gesture)
}

// Reset removes all gesture bindings.
func (d *Dispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.bindings = make(map[string]Action)
}

// Binding returns the action bound to a gesture, if any.
func (d *Dispatcher) Binding(gesture string) (Action, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.bindings[gesture]
	return a, ok
}

// Bindings returns a copy of all gesture bindings.
func (d *Dispatcher) Bindings() map[string]Action {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make(map[string]Action, len(d.bindings))
	for g, a := range d.bindings {
		out[g] = a
	}
	return out
}

// Dispatch executes the action bound to the gesture. A gesture with no
// binding is not an error; it simply does nothing.
func (d *Dispatcher) Dispatch(gesture string) error {
	a, ok := d.Binding(gesture)
	if !ok {
		return nil
	}
	return d.Execute(a)
}

// Execute runs a single action.
func (d *Dispatcher) Execute(a Action) error {
	switch a.Kind {
	case LeftClick:
		d.controller.Click(control.ButtonLeft, false)
	case RightClick:
		d.controller.Click(control.ButtonRight, false)
	case DoubleClick:
		d.controller.Click(control.ButtonLeft, true)
	case ScrollUp:
		d.controller.ScrollUp()
	case ScrollDown:
		d.controller.ScrollDown()
	case Reset:
		d.controller.Reset()
	case "key":
		d.controller.PressKey(a.Arg)
	case "type":
		d.controller.TypeText(a.Arg)
	case "exec":
		return d.runCommand(a.Arg)
	default:
		return fmt.Errorf("unknown action kind %q", a.Kind)
	}
	return nil
}

// runCommand executes a shell command with a timeout so a wedged command
// cannot stall the pipeline.
func (d *Dispatcher) runCommand(command string) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.execTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("command timed out after %s: %q", d.execTimeout, command)
	}
	if err != nil {
		if s := stderr.String(); s != "" {
			return fmt.Errorf("command failed: %w, stderr: %s", err, s)
		}
		return fmt.Errorf("command failed: %w", err)
	}

	log.Printf("executed command for gesture action: %q", command)
	return nil
}
