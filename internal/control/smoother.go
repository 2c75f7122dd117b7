package control

// Smoother applies an exponential moving average to cursor positions to
// suppress landmark jitter. With factor a and previous position p, a new
// target t yields a*t + (1-a)*p: higher factors follow the hand more
// closely, lower factors are steadier.
type Smoother struct {
	factor float64
	lastX  float64
	lastY  float64
	primed bool
}

// NewSmoother creates a Smoother with the given factor. Factors outside
// (0, 1] are clamped to 1 (no smoothing).
func NewSmoother(factor float64) *Smoother {
	if factor <= 0 || factor > 1 {
		factor = 1
	}
	return &Smoother{factor: factor}
}

// Update feeds a raw target position and returns the smoothed one. The
// first update passes through unchanged.
func (s *Smoother) Update(x, y float64) (float64, float64) {
	if !s.primed {
		s.lastX = x
		s.lastY = y
		s.primed = true
		return x, y
	}

	s.lastX = s.factor*x + (1-s.factor)*s.lastX
	s.lastY = s.factor*y + (1-s.factor)*s.lastY
	return s.lastX, s.lastY
}

// Reset forgets the previous position so the next update passes through.
func (s *Smoother) Reset() {
	s.primed = false
}
