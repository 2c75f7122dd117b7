package control

import (
	"testing"
	"time"
)

func testController(opts Options) (*Controller, *MockInput) {
	input := NewMockInput(1920, 1080)
	return NewController(input, opts), input
}

func TestMapToScreen_Scaling(t *testing.T) {
	c, _ := testController(Options{Smoothing: 1})

	x, y := c.MapToScreen(0.5, 0.5, false)
	if x != 960 || y != 540 {
		t.Errorf("MapToScreen(0.5, 0.5) = (%d, %d), want (960, 540)", x, y)
	}
}

func TestMapToScreen_FlipX(t *testing.T) {
	c, _ := testController(Options{Smoothing: 1})

	x, _ := c.MapToScreen(0.25, 0.5, true)
	want := int(0.75 * 1920)
	if x != want {
		t.Errorf("flipped x = %d, want %d", x, want)
	}
}

func TestMapToScreen_Clamping(t *testing.T) {
	c, _ := testController(Options{Smoothing: 1})

	tests := []struct {
		name         string
		x, y         float64
		wantX, wantY int
	}{
		{"past right bottom", 1.5, 1.5, 1919, 1079},
		{"past left top", -0.5, -0.5, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.Reset()
			x, y := c.MapToScreen(tt.x, tt.y, false)
			if x != tt.wantX || y != tt.wantY {
				t.Errorf("MapToScreen(%f, %f) = (%d, %d), want (%d, %d)",
					tt.x, tt.y, x, y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMapToScreen_Smoothing(t *testing.T) {
	c, _ := testController(Options{Smoothing: 0.5})

	c.MapToScreen(0, 0, false)
	x, _ := c.MapToScreen(1.0, 0, false)

	// Halfway between 0 and 1919-ish with factor 0.5.
	if x < 900 || x > 1000 {
		t.Errorf("smoothed x = %d, want roughly 960", x)
	}
}

func TestClick_Cooldown(t *testing.T) {
	c, input := testController(Options{Smoothing: 1, ClickCooldown: 100 * time.Millisecond})

	if !c.Click(ButtonLeft, false) {
		t.Fatal("first click should fire")
	}
	if c.Click(ButtonLeft, false) {
		t.Error("second immediate click should be suppressed")
	}
	if len(input.Clicks) != 1 {
		t.Fatalf("injected %d clicks, want 1", len(input.Clicks))
	}

	time.Sleep(120 * time.Millisecond)
	if !c.Click(ButtonRight, false) {
		t.Error("click after cooldown should fire")
	}
	if len(input.Clicks) != 2 {
		t.Fatalf("injected %d clicks, want 2", len(input.Clicks))
	}
	if input.Clicks[1].Button != ButtonRight {
		t.Errorf("second click button = %q, want %q", input.Clicks[1].Button, ButtonRight)
	}
}

func TestScroll(t *testing.T) {
	c, input := testController(Options{Smoothing: 1, ScrollStep: 4})

	c.ScrollUp()
	c.ScrollDown()

	if len(input.Scrolls) != 2 {
		t.Fatalf("recorded %d scrolls, want 2", len(input.Scrolls))
	}
	if input.Scrolls[0] != 4 {
		t.Errorf("scroll up amount = %d, want 4", input.Scrolls[0])
	}
	if input.Scrolls[1] != -4 {
		t.Errorf("scroll down amount = %d, want -4", input.Scrolls[1])
	}
}

func TestDrag(t *testing.T) {
	c, input := testController(Options{Smoothing: 1})

	c.StartDrag()
	c.StartDrag() // idempotent while held
	c.EndDrag()
	c.EndDrag() // idempotent while released

	if len(input.Toggles) != 2 {
		t.Fatalf("recorded %d toggles, want 2", len(input.Toggles))
	}
	if !input.Toggles[0].Down || input.Toggles[1].Down {
		t.Errorf("toggles = %+v, want down then up", input.Toggles)
	}
}

func TestReset_ReleasesDrag(t *testing.T) {
	c, input := testController(Options{Smoothing: 1})

	c.StartDrag()
	c.Reset()

	if len(input.Toggles) != 2 || input.Toggles[1].Down {
		t.Errorf("Reset should release the drag, toggles = %+v", input.Toggles)
	}
}

func TestPressKeyAndType(t *testing.T) {
	c, input := testController(Options{Smoothing: 1})

	c.PressKey("space")
	c.TypeText("hello")

	if len(input.Keys) != 1 || input.Keys[0] != "space" {
		t.Errorf("keys = %v, want [space]", input.Keys)
	}
	if len(input.Typed) != 1 || input.Typed[0] != "hello" {
		t.Errorf("typed = %v, want [hello]", input.Typed)
	}
}
