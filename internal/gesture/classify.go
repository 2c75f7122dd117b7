// Package gesture classifies hand landmarks into named poses and matches
// user-recorded templates.
package gesture

import "github.com/ayusman/mudra/internal/detector"

// Gesture is the pose label derived from one frame of landmarks.
type Gesture string

// Built-in gestures. Every classified frame yields exactly one of these.
const (
	None     Gesture = "NONE" // no hand in frame
	Unknown  Gesture = "UNKNOWN"
	Fist     Gesture = "FIST"
	Point    Gesture = "POINT"
	ThumbsUp Gesture = "THUMBS_UP"
	Peace    Gesture = "PEACE"
	OK       Gesture = "OK"
	Three    Gesture = "THREE"
	Four     Gesture = "FOUR"
	OpenHand Gesture = "OPEN_HAND"
)

// Pinch thresholds in normalized frame space.
const (
	// DefaultPinchThreshold is the thumb-to-index distance under which a
	// pinch registers.
	DefaultPinchThreshold = 0.03
	// maxPinchDistance is the fully-open thumb-to-index distance used to
	// scale pinch strength.
	maxPinchDistance = 0.15
)

// Classify maps a hand to its gesture label. The function is pure: the
// same landmarks always produce the same label.
//
// A finger counts as extended when its tip sits above the PIP joint in
// frame space. The thumb counts as extended when its tip sits further
// from the wrist centerline than its IP joint.
func Classify(h *detector.Hand) Gesture {
	if h == nil {
		return None
	}

	thumb := thumbExtended(h)
	index := fingerExtended(h, detector.IndexTip, detector.IndexPIP)
	middle := fingerExtended(h, detector.MiddleTip, detector.MiddlePIP)
	ring := fingerExtended(h, detector.RingTip, detector.RingPIP)
	pinky := fingerExtended(h, detector.PinkyTip, detector.PinkyPIP)

	count := 0
	for _, extended := range []bool{thumb, index, middle, ring, pinky} {
		if extended {
			count++
		}
	}

	switch count {
	case 0:
		return Fist
	case 1:
		if index {
			return Point
		}
		if thumb {
			return ThumbsUp
		}
	case 2:
		if index && middle {
			return Peace
		}
		if index && thumb {
			return OK
		}
	case 3:
		if index && middle && ring {
			return Three
		}
	case 4:
		if !thumb {
			return Four
		}
	case 5:
		return OpenHand
	}

	return Unknown
}

// fingerExtended reports whether a non-thumb finger is straightened.
// Y grows downward in frame space, so an extended tip has a smaller Y
// than its PIP joint.
func fingerExtended(h *detector.Hand, tip, pip int) bool {
	return h.Points[tip].Y < h.Points[pip].Y
}

// thumbExtended checks the thumb's horizontal displacement. Which
// direction counts as "out" depends on which side of the wrist the thumb
// sits on.
func thumbExtended(h *detector.Hand) bool {
	tip := h.Points[detector.ThumbTip]
	ip := h.Points[detector.ThumbIP]
	wrist := h.Points[detector.Wrist]

	if wrist.X < tip.X {
		return tip.X > ip.X
	}
	return tip.X < ip.X
}

// IsPinch reports whether the thumb and index fingertips are touching.
// A non-positive threshold falls back to DefaultPinchThreshold.
func IsPinch(h *detector.Hand, threshold float64) bool {
	if h == nil {
		return false
	}
	if threshold <= 0 {
		threshold = DefaultPinchThreshold
	}

	d := detector.Distance(h.Points[detector.ThumbTip], h.Points[detector.IndexTip])
	return d < threshold
}

// PinchStrength returns how closed the thumb-index pinch is, from 0.0
// (touching) to 1.0 (fully open).
func PinchStrength(h *detector.Hand) float64 {
	if h == nil {
		return 1.0
	}

	d := detector.Distance(h.Points[detector.ThumbTip], h.Points[detector.IndexTip])
	strength := d / maxPinchDistance
	if strength > 1.0 {
		return 1.0
	}
	return strength
}
