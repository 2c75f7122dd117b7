// Package detector provides hand landmark detection for gesture control.
package detector

import "math"

// Hand landmark indices following the MediaPipe hand model.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Point3D is a single landmark position. X and Y are normalized to the
// [0,1] frame space; Z is depth relative to the wrist.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Hand holds the 21 landmarks of one detected hand for a single frame.
type Hand struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance returns the Euclidean distance between two landmarks.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Normalize returns a copy of the hand translated so the wrist sits at the
// origin and scaled so the wrist to middle-MCP distance is 1.0. Normalized
// hands are comparable across frame positions and hand sizes, which is what
// the template matcher needs.
func (h *Hand) Normalize() *Hand {
	if h == nil {
		return nil
	}

	out := &Hand{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	wrist := h.Points[Wrist]
	for i := 0; i < NumLandmarks; i++ {
		out.Points[i] = Point3D{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
	}

	scale := Distance(Point3D{}, out.Points[MiddleMCP])
	if scale < 1e-10 {
		return out
	}

	for i := 0; i < NumLandmarks; i++ {
		out.Points[i].X /= scale
		out.Points[i].Y /= scale
		out.Points[i].Z /= scale
	}

	return out
}

// IndexTipPosition returns the index fingertip position in pixel
// coordinates for the given frame size.
func (h *Hand) IndexTipPosition(frameWidth, frameHeight int) (int, int) {
	tip := h.Points[IndexTip]
	return int(tip.X * float64(frameWidth)), int(tip.Y * float64(frameHeight))
}
