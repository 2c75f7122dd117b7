package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearMudraEnv unsets every MUDRA_* variable used by Load so tests do
// not leak into each other.
func clearMudraEnv(t *testing.T) {
	t.Helper()

	vars := []string{
		"MUDRA_CAMERA", "MUDRA_MIRROR", "MUDRA_PREVIEW", "MUDRA_MODE",
		"MUDRA_MIN_DETECTION_CONFIDENCE", "MUDRA_MIN_TRACKING_CONFIDENCE",
		"MUDRA_SMOOTHING", "MUDRA_PINCH_THRESHOLD", "MUDRA_CLICK_COOLDOWN_MS",
		"MUDRA_SCROLL_STEP", "MUDRA_MOTION_THRESHOLD", "MUDRA_HOTKEY",
		"MUDRA_ADDR", "MUDRA_DATA_DIR",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearMudraEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned %v", err)
	}

	want := Default()
	if cfg.CameraID != want.CameraID || cfg.Mode != want.Mode || cfg.Smoothing != want.Smoothing {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearMudraEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Error("Load() with a missing explicit file should fail")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearMudraEnv(t)

	t.Setenv("MUDRA_CAMERA", "2")
	t.Setenv("MUDRA_MODE", "pointer")
	t.Setenv("MUDRA_SMOOTHING", "0.5")
	t.Setenv("MUDRA_CLICK_COOLDOWN_MS", "150")
	t.Setenv("MUDRA_MIRROR", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned %v", err)
	}

	if cfg.CameraID != 2 {
		t.Errorf("CameraID = %d, want 2", cfg.CameraID)
	}
	if cfg.Mode != ModePointer {
		t.Errorf("Mode = %q, want pointer", cfg.Mode)
	}
	if cfg.Smoothing != 0.5 {
		t.Errorf("Smoothing = %f, want 0.5", cfg.Smoothing)
	}
	if cfg.ClickCooldown != 150*time.Millisecond {
		t.Errorf("ClickCooldown = %s, want 150ms", cfg.ClickCooldown)
	}
	if cfg.Mirror {
		t.Error("Mirror = true, want false")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearMudraEnv(t)

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "MUDRA_MODE=gesture\nMUDRA_SCROLL_STEP=5\n"
	if err := os.WriteFile(envPath, []byte(content), 0644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load() returned %v", err)
	}

	if cfg.Mode != ModeGesture {
		t.Errorf("Mode = %q, want gesture", cfg.Mode)
	}
	if cfg.ScrollStep != 5 {
		t.Errorf("ScrollStep = %d, want 5", cfg.ScrollStep)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad camera", "MUDRA_CAMERA", "not-a-number"},
		{"bad mode", "MUDRA_MODE", "telepathy"},
		{"smoothing too high", "MUDRA_SMOOTHING", "1.5"},
		{"smoothing zero", "MUDRA_SMOOTHING", "0"},
		{"negative camera", "MUDRA_CAMERA", "-1"},
		{"confidence out of range", "MUDRA_MIN_DETECTION_CONFIDENCE", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearMudraEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(""); err == nil {
				t.Errorf("Load() with %s=%s should fail", tt.key, tt.value)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg.PinchThreshold = 0
	if err := cfg.Validate(); err == nil {
		t.Error("zero pinch threshold should fail validation")
	}
}
