// Package control translates fingertip positions into OS cursor and
// keyboard events.
package control

import "github.com/go-vgo/robotgo"

// Input abstracts OS-level input injection so the controller can be
// tested without moving the real cursor.
type Input interface {
	ScreenSize() (width, height int)
	MoveMouse(x, y int)
	Click(button string, double bool)
	Toggle(button string, down bool)
	Scroll(amount int)
	KeyTap(key string) error
	TypeText(text string)
}

// Mouse button names accepted by Click and Toggle.
const (
	ButtonLeft   = "left"
	ButtonRight  = "right"
	ButtonMiddle = "middle"
)

// robotgoInput injects events through the robotgo automation library.
type robotgoInput struct{}

// NewInput returns the robotgo-backed Input.
func NewInput() Input {
	return robotgoInput{}
}

func (robotgoInput) ScreenSize() (int, int) {
	return robotgo.GetScreenSize()
}

func (robotgoInput) MoveMouse(x, y int) {
	robotgo.Move(x, y)
}

func (robotgoInput) Click(button string, double bool) {
	robotgo.Click(button, double)
}

func (robotgoInput) Toggle(button string, down bool) {
	state := "up"
	if down {
		state = "down"
	}
	robotgo.Toggle(button, state)
}

func (robotgoInput) Scroll(amount int) {
	// Positive scrolls up, negative down.
	robotgo.Scroll(0, amount)
}

func (robotgoInput) KeyTap(key string) error {
	return robotgo.KeyTap(key)
}

func (robotgoInput) TypeText(text string) {
	robotgo.TypeStr(text)
}
