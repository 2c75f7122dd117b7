package detector

// Canned hands for tests. Each fixture produces landmarks that the
// geometric classifier resolves to the named pose: fingers are "extended"
// when the tip sits above the PIP joint, and the thumb when its tip sits
// further from the wrist centerline than its IP joint.

// finger groups the four joints of one finger plus its x column in the
// fixture hand.
type finger struct {
	mcp, pip, dip, tip int
	x                  float64
}

var (
	indexFinger  = finger{IndexMCP, IndexPIP, IndexDIP, IndexTip, 0.56}
	middleFinger = finger{MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip, 0.50}
	ringFinger   = finger{RingMCP, RingPIP, RingDIP, RingTip, 0.44}
	pinkyFinger  = finger{PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip, 0.39}
)

// fixtureBase returns a right hand with the wrist at (0.5, 0.8), every
// finger curled, and the thumb tucked in.
func fixtureBase() Hand {
	h := Hand{
		Handedness: "Right",
		Score:      0.95,
	}

	h.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	// Tucked thumb: tip pulled back behind the IP joint.
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.57, Y: 0.72}
	h.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.70}
	h.Points[ThumbTip] = Point3D{X: 0.55, Y: 0.69, Z: -0.02}

	for _, f := range []finger{indexFinger, middleFinger, ringFinger, pinkyFinger} {
		curlFinger(&h, f)
	}

	return h
}

func curlFinger(h *Hand, f finger) {
	h.Points[f.mcp] = Point3D{X: f.x, Y: 0.68}
	h.Points[f.pip] = Point3D{X: f.x, Y: 0.66, Z: -0.04}
	h.Points[f.dip] = Point3D{X: f.x - 0.02, Y: 0.70, Z: -0.04}
	h.Points[f.tip] = Point3D{X: f.x - 0.03, Y: 0.73, Z: -0.02}
}

func extendFinger(h *Hand, f finger) {
	h.Points[f.mcp] = Point3D{X: f.x, Y: 0.68}
	h.Points[f.pip] = Point3D{X: f.x, Y: 0.55}
	h.Points[f.dip] = Point3D{X: f.x, Y: 0.46}
	h.Points[f.tip] = Point3D{X: f.x, Y: 0.38}
}

func extendThumb(h *Hand) {
	h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76}
	h.Points[ThumbMCP] = Point3D{X: 0.61, Y: 0.72}
	h.Points[ThumbIP] = Point3D{X: 0.65, Y: 0.68}
	h.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.65}
}

// FistHand returns a hand with every finger curled.
func FistHand() Hand {
	return fixtureBase()
}

// PointHand returns a hand with only the index finger extended.
func PointHand() Hand {
	h := fixtureBase()
	extendFinger(&h, indexFinger)
	return h
}

// PeaceHand returns a hand with index and middle fingers extended.
func PeaceHand() Hand {
	h := fixtureBase()
	extendFinger(&h, indexFinger)
	extendFinger(&h, middleFinger)
	return h
}

// ThumbsUpHand returns a hand with only the thumb extended.
func ThumbsUpHand() Hand {
	h := fixtureBase()
	extendThumb(&h)
	return h
}

// OKHand returns a hand with thumb and index extended.
func OKHand() Hand {
	h := fixtureBase()
	extendThumb(&h)
	extendFinger(&h, indexFinger)
	return h
}

// ThreeHand returns a hand with index, middle and ring fingers extended.
func ThreeHand() Hand {
	h := fixtureBase()
	extendFinger(&h, indexFinger)
	extendFinger(&h, middleFinger)
	extendFinger(&h, ringFinger)
	return h
}

// FourHand returns a hand with all fingers but the thumb extended.
func FourHand() Hand {
	h := fixtureBase()
	extendFinger(&h, indexFinger)
	extendFinger(&h, middleFinger)
	extendFinger(&h, ringFinger)
	extendFinger(&h, pinkyFinger)
	return h
}

// OpenHand returns a hand with all five fingers extended.
func OpenHand() Hand {
	h := FourHand()
	extendThumb(&h)
	return h
}

// PinchHand returns a pointing hand with the thumb tip touching the
// index fingertip.
func PinchHand() Hand {
	h := PointHand()
	h.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.50}
	h.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.39}
	return h
}
