package detector

import "gocv.io/x/gocv"

// Detector finds hands in video frames.
type Detector interface {
	// Detect analyzes a frame and returns the hands found in it.
	// Returns an empty slice when no hands are visible.
	Detect(frame *gocv.Mat) ([]Hand, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds hand detection options.
type Config struct {
	// MaxHands is the maximum number of hands to track. Control only ever
	// follows one hand, so the default is 1.
	MaxHands int

	// MinDetectionConfidence is the minimum confidence for the initial
	// palm detection (0.0-1.0).
	MinDetectionConfidence float64

	// MinTrackingConfidence is the minimum confidence for landmark
	// tracking between frames (0.0-1.0).
	MinTrackingConfidence float64
}

// DefaultConfig returns the detection thresholds used by the control loop.
func DefaultConfig() Config {
	return Config{
		MaxHands:               1,
		MinDetectionConfidence: 0.7,
		MinTrackingConfidence:  0.5,
	}
}
