package control

import "sync"

// MockInput records injected events for tests.
type MockInput struct {
	mu     sync.Mutex
	width  int
	height int

	Moves   []MoveEvent
	Clicks  []ClickEvent
	Toggles []ToggleEvent
	Scrolls []int
	Keys    []string
	Typed   []string
}

// MoveEvent is one recorded cursor move.
type MoveEvent struct {
	X, Y int
}

// ClickEvent is one recorded click.
type ClickEvent struct {
	Button string
	Double bool
}

// ToggleEvent is one recorded button press or release.
type ToggleEvent struct {
	Button string
	Down   bool
}

// NewMockInput creates a MockInput reporting the given screen size.
func NewMockInput(width, height int) *MockInput {
	return &MockInput{width: width, height: height}
}

func (m *MockInput) ScreenSize() (int, int) {
	return m.width, m.height
}

func (m *MockInput) MoveMouse(x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Moves = append(m.Moves, MoveEvent{X: x, Y: y})
}

func (m *MockInput) Click(button string, double bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clicks = append(m.Clicks, ClickEvent{Button: button, Double: double})
}

func (m *MockInput) Toggle(button string, down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Toggles = append(m.Toggles, ToggleEvent{Button: button, Down: down})
}

func (m *MockInput) Scroll(amount int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Scrolls = append(m.Scrolls, amount)
}

func (m *MockInput) KeyTap(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Keys = append(m.Keys, key)
	return nil
}

func (m *MockInput) TypeText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Typed = append(m.Typed, text)
}

// LastMove returns the most recent recorded move, if any.
func (m *MockInput) LastMove() (MoveEvent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Moves) == 0 {
		return MoveEvent{}, false
	}
	return m.Moves[len(m.Moves)-1], true
}
