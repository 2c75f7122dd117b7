package capture

import (
	"testing"

	"gocv.io/x/gocv"
)

func makeTestFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()

	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
		frames[i] = &mat
	}

	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})

	return frames
}

func TestMockCamera_Playback(t *testing.T) {
	frames := makeTestFrames(t, 3)
	cam := NewMockCamera(frames, false)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() returned %v", err)
	}

	for i := 0; i < 3; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d returned %v", i, err)
		}
		frame.Close()
	}

	// Playback exhausted without looping.
	if _, err := cam.ReadFrame(); err == nil {
		t.Error("expected error after exhausting frames")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	frames := makeTestFrames(t, 2)
	cam := NewMockCamera(frames, true)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() returned %v", err)
	}

	for i := 0; i < 5; i++ {
		frame, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d returned %v with loop enabled", i, err)
		}
		frame.Close()
	}
}

func TestMockCamera_NotOpen(t *testing.T) {
	cam := NewMockCamera(nil, false)

	if _, err := cam.ReadFrame(); err != ErrCameraNotOpen {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}
