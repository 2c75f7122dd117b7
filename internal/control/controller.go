package control

import (
	"log"
	"sync"
	"time"
)

// DefaultClickCooldown is the minimum spacing between injected clicks.
const DefaultClickCooldown = 300 * time.Millisecond

// DefaultScrollStep is the number of scroll units per scroll action.
const DefaultScrollStep = 3

// Options configures a Controller.
type Options struct {
	// Smoothing is the EMA factor applied to cursor movement (0..1].
	Smoothing float64
	// ClickCooldown is the minimum time between clicks; zero means
	// DefaultClickCooldown.
	ClickCooldown time.Duration
	// ScrollStep is the scroll amount per action; zero means
	// DefaultScrollStep.
	ScrollStep int
}

// Controller drives the OS cursor from normalized fingertip positions.
// It owns the coordinate mapping, smoothing, clamping and click
// debouncing; actual event injection goes through the Input.
type Controller struct {
	input        Input
	smoother     *Smoother
	cooldown     time.Duration
	scrollStep   int
	screenWidth  int
	screenHeight int

	mu        sync.Mutex
	lastClick time.Time
	dragging  bool
}

// NewController creates a Controller over the given Input.
func NewController(input Input, opts Options) *Controller {
	cooldown := opts.ClickCooldown
	if cooldown <= 0 {
		cooldown = DefaultClickCooldown
	}
	step := opts.ScrollStep
	if step <= 0 {
		step = DefaultScrollStep
	}

	w, h := input.ScreenSize()

	return &Controller{
		input:        input,
		smoother:     NewSmoother(opts.Smoothing),
		cooldown:     cooldown,
		scrollStep:   step,
		screenWidth:  w,
		screenHeight: h,
	}
}

// MapToScreen converts a normalized frame position ([0,1]x[0,1]) to
// smoothed, clamped screen pixels. Set flipX for mirror mode when the
// frames themselves are not flipped.
func (c *Controller) MapToScreen(x, y float64, flipX bool) (int, int) {
	if flipX {
		x = 1.0 - x
	}

	sx := x * float64(c.screenWidth)
	sy := y * float64(c.screenHeight)

	sx, sy = c.smoother.Update(sx, sy)

	return clamp(int(sx), 0, c.screenWidth-1), clamp(int(sy), 0, c.screenHeight-1)
}

// MoveMouse moves the cursor to the given screen position.
func (c *Controller) MoveMouse(x, y int) {
	c.input.MoveMouse(x, y)
}

// Click injects a click unless one fired within the cooldown window.
// Returns whether the click was injected.
func (c *Controller) Click(button string, double bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.Sub(c.lastClick) < c.cooldown {
		return false
	}

	c.input.Click(button, double)
	c.lastClick = now
	return true
}

// ScrollUp scrolls up by the configured step.
func (c *Controller) ScrollUp() {
	c.input.Scroll(c.scrollStep)
}

// ScrollDown scrolls down by the configured step.
func (c *Controller) ScrollDown() {
	c.input.Scroll(-c.scrollStep)
}

// StartDrag presses and holds the left button at the current position.
func (c *Controller) StartDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.dragging {
		return
	}
	c.input.Toggle(ButtonLeft, true)
	c.dragging = true
}

// EndDrag releases a held drag, if any.
func (c *Controller) EndDrag() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dragging {
		return
	}
	c.input.Toggle(ButtonLeft, false)
	c.dragging = false
}

// PressKey taps a keyboard key by name.
func (c *Controller) PressKey(key string) {
	if err := c.input.KeyTap(key); err != nil {
		log.Printf("key tap %q: %v", key, err)
	}
}

// TypeText types a string.
func (c *Controller) TypeText(text string) {
	c.input.TypeText(text)
}

// Reset drops smoothing state and releases any held drag.
func (c *Controller) Reset() {
	c.EndDrag()
	c.smoother.Reset()
}

// ScreenSize returns the target screen dimensions.
func (c *Controller) ScreenSize() (int, int) {
	return c.screenWidth, c.screenHeight
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
