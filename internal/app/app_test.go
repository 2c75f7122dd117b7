package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/control"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
	"gocv.io/x/gocv"
)

// fakeClock steps time manually so hold-gating can be tested without
// sleeping.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func testApp(t *testing.T, mode config.Mode) (*App, *detector.MockDetector, *control.MockInput, *fakeClock) {
	t.Helper()

	cfg := config.Default()
	cfg.Mode = mode
	cfg.Preview = false
	cfg.Smoothing = 1 // no EMA lag in assertions
	cfg.ClickCooldown = time.Millisecond

	det := detector.NewMockDetector()
	input := control.NewMockInput(1920, 1080)

	a := New(cfg, Deps{
		Camera:   capture.NewMockCamera(nil, true),
		Detector: det,
		Input:    input,
	})
	if err := a.LoadBindings(); err != nil {
		t.Fatalf("LoadBindings() returned %v", err)
	}

	clock := &fakeClock{t: time.Now()}
	a.now = clock.now

	return a, det, input, clock
}

func testFrame(t *testing.T) *gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	t.Cleanup(func() { mat.Close() })
	return &mat
}

func TestLoadBindings_DropsDeletedBinding(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "mudra.db"))
	if err != nil {
		t.Fatalf("store.New() returned %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.Preview = false
	a := New(cfg, Deps{
		Camera:   capture.NewMockCamera(nil, true),
		Detector: detector.NewMockDetector(),
		Input:    control.NewMockInput(1920, 1080),
		Store:    st,
	})

	err = st.Bindings().Put(&store.Binding{Gesture: "custom-wave", Action: "scroll_down", Enabled: true})
	if err != nil {
		t.Fatalf("Put() returned %v", err)
	}
	if err := a.LoadBindings(); err != nil {
		t.Fatalf("LoadBindings() returned %v", err)
	}
	if _, ok := a.Dispatcher().Binding("custom-wave"); !ok {
		t.Fatal("stored binding not loaded")
	}

	// Deleting the row and reloading must drop the binding; a gesture
	// with no built-in default has nothing to fall back to.
	if err := st.Bindings().Delete("custom-wave"); err != nil {
		t.Fatalf("Delete() returned %v", err)
	}
	if err := a.LoadBindings(); err != nil {
		t.Fatalf("LoadBindings() returned %v", err)
	}
	if _, ok := a.Dispatcher().Binding("custom-wave"); ok {
		t.Error("deleted binding still active after reload")
	}
	if _, ok := a.Dispatcher().Binding(string(gesture.Fist)); !ok {
		t.Error("built-in binding missing after reload")
	}
}

func TestPointerMode_PointMovesCursor(t *testing.T) {
	a, det, input, _ := testApp(t, config.ModePointer)
	frame := testFrame(t)

	hand := detector.PointHand()
	det.SetHands([]detector.Hand{hand})

	a.processFrame(frame)

	move, ok := input.LastMove()
	if !ok {
		t.Fatal("expected a cursor move for a pointing hand")
	}

	tip := hand.Points[detector.IndexTip]
	wantX := int(tip.X * 1920)
	wantY := int(tip.Y * 1080)
	if move.X != wantX || move.Y != wantY {
		t.Errorf("cursor moved to (%d, %d), want (%d, %d)", move.X, move.Y, wantX, wantY)
	}
}

func TestPointerMode_FistDoesNotMoveCursor(t *testing.T) {
	a, det, input, _ := testApp(t, config.ModePointer)
	frame := testFrame(t)

	det.SetHands([]detector.Hand{detector.FistHand()})
	a.processFrame(frame)

	if len(input.Moves) != 0 {
		t.Errorf("fist moved the cursor: %+v", input.Moves)
	}
}

func TestPointerMode_PinchClicksOnce(t *testing.T) {
	a, det, input, _ := testApp(t, config.ModePointer)
	frame := testFrame(t)

	// Held pinch across several frames clicks only on the closing edge.
	det.SetHands([]detector.Hand{detector.PinchHand()})
	for i := 0; i < 4; i++ {
		a.processFrame(frame)
	}

	if len(input.Clicks) != 1 {
		t.Fatalf("held pinch produced %d clicks, want 1", len(input.Clicks))
	}

	// Releasing and pinching again clicks once more. The controller's
	// click cooldown runs on wall time, so let it expire.
	time.Sleep(5 * time.Millisecond)
	det.SetHands([]detector.Hand{detector.OpenHand()})
	a.processFrame(frame)
	det.SetHands([]detector.Hand{detector.PinchHand()})
	a.processFrame(frame)

	if len(input.Clicks) != 2 {
		t.Errorf("re-pinch produced %d total clicks, want 2", len(input.Clicks))
	}
}

func TestGestureMode_FistRightClicksAfterHold(t *testing.T) {
	a, det, input, clock := testApp(t, config.ModeGesture)
	frame := testFrame(t)

	det.SetHands([]detector.Hand{detector.FistHand()})

	// Warm the history so the vote settles on FIST, starting the hold.
	for i := 0; i < gesture.DefaultHistorySize; i++ {
		a.processFrame(frame)
	}
	if len(input.Clicks) != 0 {
		t.Fatal("action fired before the hold window")
	}

	clock.advance(1100 * time.Millisecond)
	a.processFrame(frame)

	if len(input.Clicks) != 1 {
		t.Fatalf("recorded %d clicks, want 1", len(input.Clicks))
	}
	if input.Clicks[0].Button != control.ButtonRight {
		t.Errorf("click button = %q, want right", input.Clicks[0].Button)
	}

	// Still holding: the one-shot action must not re-fire.
	clock.advance(100 * time.Millisecond)
	a.processFrame(frame)
	if len(input.Clicks) != 1 {
		t.Errorf("one-shot action re-fired while held: %d clicks", len(input.Clicks))
	}
}

func TestGestureMode_ExpiredHoldDoesNotFire(t *testing.T) {
	a, det, input, clock := testApp(t, config.ModeGesture)
	frame := testFrame(t)

	det.SetHands([]detector.Hand{detector.FistHand()})
	for i := 0; i < gesture.DefaultHistorySize; i++ {
		a.processFrame(frame)
	}

	// Past the window without an intermediate frame: too late to fire.
	clock.advance(2 * time.Second)
	a.processFrame(frame)

	if len(input.Clicks) != 0 {
		t.Errorf("expired hold fired %d clicks, want 0", len(input.Clicks))
	}
}

func TestGestureMode_ThumbsUpScrollsRepeatedly(t *testing.T) {
	a, det, input, clock := testApp(t, config.ModeGesture)
	frame := testFrame(t)

	det.SetHands([]detector.Hand{detector.ThumbsUpHand()})
	for i := 0; i < gesture.DefaultHistorySize; i++ {
		a.processFrame(frame)
	}

	clock.advance(time.Second)
	a.processFrame(frame)
	a.processFrame(frame)
	a.processFrame(frame)

	if len(input.Scrolls) < 3 {
		t.Errorf("recorded %d scrolls, want repeated scrolling while held", len(input.Scrolls))
	}
	for _, s := range input.Scrolls {
		if s <= 0 {
			t.Errorf("scroll amount %d, want positive for scroll up", s)
		}
	}
}

func TestGestureMode_ChangingGestureResetsHold(t *testing.T) {
	a, det, input, clock := testApp(t, config.ModeGesture)
	frame := testFrame(t)

	det.SetHands([]detector.Hand{detector.FistHand()})
	for i := 0; i < gesture.DefaultHistorySize; i++ {
		a.processFrame(frame)
	}

	// Switch to a different gesture before the hold window opens. The
	// history needs a full window to flip the vote.
	det.SetHands([]detector.Hand{detector.PeaceHand()})
	for i := 0; i < gesture.DefaultHistorySize; i++ {
		a.processFrame(frame)
	}

	// Only 200ms into the PEACE hold: nothing may fire.
	clock.advance(200 * time.Millisecond)
	a.processFrame(frame)

	if len(input.Clicks) != 0 {
		t.Errorf("hold survived a gesture change: %d clicks", len(input.Clicks))
	}
}

func TestNoHand_DeactivatesPointer(t *testing.T) {
	a, det, input, _ := testApp(t, config.ModeBoth)
	frame := testFrame(t)

	det.SetHands([]detector.Hand{detector.PointHand()})
	a.processFrame(frame)
	if !a.pointerOn {
		t.Fatal("pointer should be active while pointing")
	}

	det.SetHands(nil)
	a.processFrame(frame)
	if a.pointerOn {
		t.Error("pointer should deactivate when the hand leaves")
	}

	moves := len(input.Moves)
	a.processFrame(frame)
	if len(input.Moves) != moves {
		t.Error("empty frames must not move the cursor")
	}
}

func TestNoHand_RestartsHold(t *testing.T) {
	a, det, input, clock := testApp(t, config.ModeGesture)
	frame := testFrame(t)

	det.SetHands([]detector.Hand{detector.FistHand()})
	for i := 0; i < gesture.DefaultHistorySize; i++ {
		a.processFrame(frame)
	}
	clock.advance(900 * time.Millisecond)
	a.processFrame(frame)

	// Hand leaves mid-hold, then returns. The hold must start over
	// rather than count the time the hand was gone.
	det.SetHands(nil)
	a.processFrame(frame)
	det.SetHands([]detector.Hand{detector.FistHand()})
	clock.advance(200 * time.Millisecond)
	for i := 0; i < gesture.DefaultHistorySize; i++ {
		a.processFrame(frame)
	}
	if len(input.Clicks) != 0 {
		t.Fatalf("action fired from a stale hold: %d clicks", len(input.Clicks))
	}

	clock.advance(1100 * time.Millisecond)
	a.processFrame(frame)
	if len(input.Clicks) != 1 {
		t.Errorf("recorded %d clicks after a fresh hold, want 1", len(input.Clicks))
	}
}

func TestOnGesture_Callback(t *testing.T) {
	a, det, _, _ := testApp(t, config.ModeBoth)
	frame := testFrame(t)

	var got []string
	a.OnGesture(func(label string, hand *detector.Hand) {
		got = append(got, label)
	})

	det.SetHands([]detector.Hand{detector.PointHand()})
	a.processFrame(frame)

	if len(got) != 1 || got[0] != string(gesture.Point) {
		t.Errorf("callback labels = %v, want [POINT]", got)
	}
}

func TestCustomTemplate_OverridesLabel(t *testing.T) {
	a, det, input, clock := testApp(t, config.ModeGesture)
	frame := testFrame(t)

	// Register the three-finger pose as a custom gesture bound to a
	// scroll so it repeats once held.
	pose := detector.ThreeHand()
	normalized := pose.Normalize()
	a.matcher.Add(&gesture.Template{
		ID:        "three-custom",
		Name:      "three-custom",
		Landmarks: normalized.Points[:],
		Tolerance: 0.1,
	})
	if err := a.dispatcher.Bind("three-custom", "scroll_down"); err != nil {
		t.Fatalf("Bind returned %v", err)
	}

	det.SetHands([]detector.Hand{pose})
	a.processFrame(frame)
	clock.advance(time.Second)
	a.processFrame(frame)

	if len(input.Scrolls) == 0 {
		t.Fatal("custom template binding did not fire")
	}
	if input.Scrolls[0] >= 0 {
		t.Errorf("scroll amount = %d, want negative for scroll down", input.Scrolls[0])
	}
}

func TestStartStop(t *testing.T) {
	a, _, _, _ := testApp(t, config.ModeBoth)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() returned %v", err)
	}
	if err := a.Start(); err != nil {
		t.Fatalf("second Start() returned %v", err)
	}

	// Stop joins the pipeline goroutine before releasing the camera.
	a.Stop()
	if a.Camera().IsOpen() {
		t.Error("camera still open after Stop")
	}
	a.Stop() // idempotent

	if err := a.Start(); err != nil {
		t.Fatalf("restart returned %v", err)
	}
	a.Stop()
}

func TestToggleEnabled(t *testing.T) {
	a, _, _, _ := testApp(t, config.ModeBoth)

	if a.IsEnabled() {
		t.Error("app should start disabled")
	}
	if !a.ToggleEnabled() {
		t.Error("first toggle should enable")
	}
	if a.ToggleEnabled() {
		t.Error("second toggle should disable")
	}
}
