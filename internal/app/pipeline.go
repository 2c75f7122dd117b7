package app

import (
	"log"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"gocv.io/x/gocv"
)

// run is the main control loop. Frames tick at the idle rate until
// motion is detected, then at the active rate until motion stops.
func (a *App) run(stopCh chan struct{}) {
	activeMode := false
	lastMotion := a.now()

	interval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				log.Printf("reading frame: %v", err)
				continue
			}

			motion, _ := a.motion.Detect(frame)
			if motion {
				lastMotion = a.now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
				}
			} else if activeMode && a.now().Sub(lastMotion) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				ticker.Reset(time.Second / time.Duration(IdleFPS))
				a.history.Reset()
			}

			if !activeMode {
				frame.Close()
				continue
			}

			a.processFrame(frame)
			frame.Close()
		}
	}
}

// processFrame runs detection and control for one frame.
func (a *App) processFrame(frame *gocv.Mat) {
	hands, err := a.detector.Detect(frame)
	if err != nil {
		log.Printf("detecting hands: %v", err)
		return
	}

	if len(hands) == 0 {
		a.handleNoHand(frame)
		return
	}

	// Control follows a single hand.
	hand := &hands[0]

	label := a.history.Push(gesture.Classify(hand))

	// A close custom template overrides the built-in label.
	if matches := a.matcher.Match(hand); len(matches) > 0 {
		label = gesture.Gesture(matches[0].Template.Name)
	}

	a.notifyGesture(string(label), hand)

	mode := a.Mode()
	if mode == config.ModePointer || mode == config.ModeBoth {
		a.runPointer(hand, label)
	}
	if mode == config.ModeGesture || mode == config.ModeBoth {
		a.runGesture(string(label))
	}

	if a.preview != nil {
		a.drawAndPoll(frame, hand, string(label))
	}
}

// handleNoHand resets per-hand state when the frame is empty.
func (a *App) handleNoHand(frame *gocv.Mat) {
	a.pointerOn = false
	a.pinchClosed = false
	a.holdLabel = ""
	a.holdFired = false
	a.history.Reset()
	a.notifyGesture(string(gesture.None), nil)

	if a.preview != nil {
		a.drawAndPoll(frame, nil, string(gesture.None))
	}
}

// runPointer moves the cursor while pointing and clicks on pinch edges.
func (a *App) runPointer(hand *detector.Hand, label gesture.Gesture) {
	if label == gesture.Point {
		tip := hand.Points[detector.IndexTip]
		// Frames are already mirrored by the camera, so no flip here.
		x, y := a.controller.MapToScreen(tip.X, tip.Y, false)
		a.controller.MoveMouse(x, y)
		a.pointerOn = true
	} else {
		a.pointerOn = false
	}

	// Click on the open-to-closed pinch transition only, so holding the
	// pinch does not autofire.
	pinched := gesture.IsPinch(hand, a.cfg.PinchThreshold)
	if pinched && !a.pinchClosed {
		a.controller.Click("left", false)
	}
	a.pinchClosed = pinched
}

// runGesture applies hold-time gating and dispatches the bound action.
// One-shot actions fire once inside their hold window; scrolling repeats
// while held; reset fires early.
func (a *App) runGesture(label string) {
	if label != a.holdLabel {
		a.holdLabel = label
		a.holdStart = a.now()
		a.holdFired = false
		return
	}

	binding, ok := a.dispatcher.Binding(label)
	if !ok {
		return
	}

	held := a.now().Sub(a.holdStart)

	switch binding.Kind {
	case action.ScrollUp, action.ScrollDown:
		if held >= HoldRepeat {
			a.dispatchAction(label)
		}
	case action.Reset:
		if held >= HoldReset && !a.holdFired {
			a.dispatchAction(label)
			a.holdFired = true
		}
	default:
		if held >= HoldOnceMin && held < HoldOnceMax && !a.holdFired {
			a.dispatchAction(label)
			a.holdFired = true
		}
	}
}

func (a *App) dispatchAction(label string) {
	if err := a.dispatcher.Dispatch(label); err != nil {
		log.Printf("dispatching %s: %v", label, err)
	}
}

func (a *App) notifyGesture(label string, hand *detector.Hand) {
	a.mu.RLock()
	fn := a.onGesture
	a.mu.RUnlock()

	if fn != nil {
		fn(label, hand)
	}
}

// drawAndPoll renders the preview overlay and handles its keyboard
// shortcuts.
func (a *App) drawAndPoll(frame *gocv.Mat, hand *detector.Hand, label string) {
	a.preview.Draw(frame, hand, label, string(a.Mode()), a.pointerOn)

	switch a.preview.PollKey() {
	case 'q':
		a.SetEnabled(false)
	case 'r':
		a.controller.Reset()
		log.Println("controller reset")
	}
}
