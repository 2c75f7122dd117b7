package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// mediapipeIdleShutdown is how long the Python service is kept alive
// after the last detection before it is stopped.
const mediapipeIdleShutdown = 30 * time.Second

// MediaPipeDetector runs hand detection through a Python MediaPipe
// subprocess. Frames are sent as length-prefixed JPEG and results come
// back as one JSON line per frame. The process starts lazily on the
// first Detect call and shuts itself down when idle.
type MediaPipeDetector struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a detector backed by the hands_service.py
// helper. It fails if the helper script cannot be located.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	if findHandsScript() == "" {
		return nil, fmt.Errorf("hands_service.py not found")
	}
	return &MediaPipeDetector{config: config}, nil
}

// Detect sends the frame to the service and parses the detected hands.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]Hand, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// 4-byte big-endian length prefix, then the JPEG bytes.
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := d.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	line, err := d.stdout.ReadString('\n')
	if err != nil {
		// The service died mid-frame; drop state so the next call
		// restarts it.
		d.teardown()
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Hands []wireHand `json:"hands"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	hands := make([]Hand, len(response.Hands))
	for i, h := range response.Hands {
		hands[i] = h.toHand()
	}

	d.resetIdleTimer()
	return hands, nil
}

// Close shuts down the Python subprocess.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.teardown()
}

// ensureStarted launches the service if it is not already running and
// sends the detection config as the first line on stdin.
func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	scriptPath := findHandsScript()
	if scriptPath == "" {
		return fmt.Errorf("hands_service.py not found")
	}

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, scriptPath)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start hands service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	header, err := json.Marshal(map[string]interface{}{
		"max_num_hands":            d.config.MaxHands,
		"min_detection_confidence": d.config.MinDetectionConfidence,
		"min_tracking_confidence":  d.config.MinTrackingConfidence,
	})
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if _, err := d.stdin.Write(append(header, '\n')); err != nil {
		d.teardown()
		return fmt.Errorf("send config: %w", err)
	}

	return nil
}

func (d *MediaPipeDetector) teardown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(mediapipeIdleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.teardown()
	})
}

// findHandsScript locates hands_service.py relative to the working
// directory, the executable, or ~/.mudra.
func findHandsScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/hands_service.py",
		"../scripts/hands_service.py",
		filepath.Join(execDir, "scripts/hands_service.py"),
		filepath.Join(os.Getenv("HOME"), ".mudra/scripts/hands_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a virtualenv interpreter so the service picks
// up a local mediapipe install.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".mudra/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			if absPath, err := filepath.Abs(path); err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// wireHand is the JSON shape produced by hands_service.py.
type wireHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func (w wireHand) toHand() Hand {
	h := Hand{
		Handedness: w.Handedness,
		Score:      w.Score,
	}
	for i := 0; i < NumLandmarks && i < len(w.Points); i++ {
		h.Points[i] = w.Points[i]
	}
	return h
}
