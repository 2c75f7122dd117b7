// Package config loads application settings from a .env file, the
// process environment and CLI flags, in increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Mode selects which control behaviors are active.
type Mode string

const (
	// ModePointer drives only the cursor from the index fingertip.
	ModePointer Mode = "pointer"
	// ModeGesture triggers only gesture-bound actions.
	ModeGesture Mode = "gesture"
	// ModeBoth enables pointer and gesture control together.
	ModeBoth Mode = "both"
)

// Config holds all tunable settings.
type Config struct {
	CameraID int
	Mirror   bool
	Preview  bool
	Mode     Mode

	MinDetectionConfidence float64
	MinTrackingConfidence  float64

	Smoothing      float64
	PinchThreshold float64
	ClickCooldown  time.Duration
	ScrollStep     int

	MotionThreshold float64

	Hotkey  string
	Addr    string
	DataDir string
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		CameraID:               0,
		Mirror:                 true,
		Preview:                true,
		Mode:                   ModeBoth,
		MinDetectionConfidence: 0.7,
		MinTrackingConfidence:  0.5,
		Smoothing:              0.7,
		PinchThreshold:         0.03,
		ClickCooldown:          300 * time.Millisecond,
		ScrollStep:             3,
		MotionThreshold:        1.0,
		Hotkey:                 "Ctrl+Shift+G",
		Addr:                   "",
		DataDir:                defaultDataDir(),
	}
}

// Load builds a Config from defaults, a .env file (explicit path, or the
// first of ./.env, exe-dir/.env, ~/.mudra/.env) and MUDRA_* environment
// variables.
func Load(envPath string) (Config, error) {
	cfg := Default()

	if envPath == "" {
		envPath = findEnvFile()
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return cfg, fmt.Errorf("load %s: %w", envPath, err)
		}
	}

	var err error
	if v := os.Getenv("MUDRA_CAMERA"); v != "" {
		if cfg.CameraID, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("MUDRA_CAMERA: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_MIRROR"); v != "" {
		if cfg.Mirror, err = strconv.ParseBool(v); err != nil {
			return cfg, fmt.Errorf("MUDRA_MIRROR: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_PREVIEW"); v != "" {
		if cfg.Preview, err = strconv.ParseBool(v); err != nil {
			return cfg, fmt.Errorf("MUDRA_PREVIEW: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_MODE"); v != "" {
		cfg.Mode = Mode(v)
	}
	if v := os.Getenv("MUDRA_MIN_DETECTION_CONFIDENCE"); v != "" {
		if cfg.MinDetectionConfidence, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, fmt.Errorf("MUDRA_MIN_DETECTION_CONFIDENCE: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_MIN_TRACKING_CONFIDENCE"); v != "" {
		if cfg.MinTrackingConfidence, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, fmt.Errorf("MUDRA_MIN_TRACKING_CONFIDENCE: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_SMOOTHING"); v != "" {
		if cfg.Smoothing, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, fmt.Errorf("MUDRA_SMOOTHING: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_PINCH_THRESHOLD"); v != "" {
		if cfg.PinchThreshold, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, fmt.Errorf("MUDRA_PINCH_THRESHOLD: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_CLICK_COOLDOWN_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("MUDRA_CLICK_COOLDOWN_MS: %w", err)
		}
		cfg.ClickCooldown = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("MUDRA_SCROLL_STEP"); v != "" {
		if cfg.ScrollStep, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("MUDRA_SCROLL_STEP: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_MOTION_THRESHOLD"); v != "" {
		if cfg.MotionThreshold, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, fmt.Errorf("MUDRA_MOTION_THRESHOLD: %w", err)
		}
	}
	if v := os.Getenv("MUDRA_HOTKEY"); v != "" {
		cfg.Hotkey = v
	}
	if v := os.Getenv("MUDRA_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("MUDRA_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch c.Mode {
	case ModePointer, ModeGesture, ModeBoth:
	default:
		return fmt.Errorf("invalid mode %q (want pointer, gesture or both)", c.Mode)
	}

	if c.MinDetectionConfidence < 0 || c.MinDetectionConfidence > 1 {
		return fmt.Errorf("detection confidence %f out of range [0,1]", c.MinDetectionConfidence)
	}
	if c.MinTrackingConfidence < 0 || c.MinTrackingConfidence > 1 {
		return fmt.Errorf("tracking confidence %f out of range [0,1]", c.MinTrackingConfidence)
	}
	if c.Smoothing <= 0 || c.Smoothing > 1 {
		return fmt.Errorf("smoothing %f out of range (0,1]", c.Smoothing)
	}
	if c.PinchThreshold <= 0 {
		return fmt.Errorf("pinch threshold %f must be positive", c.PinchThreshold)
	}
	if c.ScrollStep <= 0 {
		return fmt.Errorf("scroll step %d must be positive", c.ScrollStep)
	}
	if c.CameraID < 0 {
		return fmt.Errorf("camera ID %d must not be negative", c.CameraID)
	}

	return nil
}

// findEnvFile probes the usual .env locations.
func findEnvFile() string {
	candidates := []string{".env"}

	if execPath, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(execPath), ".env"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".mudra", ".env"))
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}
