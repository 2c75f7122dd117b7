package app

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ayusman/mudra/internal/detector"
	"gocv.io/x/gocv"
)

// Preview renders the camera feed with a landmark and status overlay.
type Preview struct {
	window *gocv.Window
}

// NewPreview opens the preview window.
func NewPreview() *Preview {
	return &Preview{
		window: gocv.NewWindow("mudra"),
	}
}

// Draw renders one frame with landmarks and status text.
func (p *Preview) Draw(frame *gocv.Mat, hand *detector.Hand, label, mode string, pointerOn bool) {
	if frame == nil || frame.Empty() {
		return
	}

	w := frame.Cols()
	h := frame.Rows()

	if hand != nil {
		green := color.RGBA{G: 255}
		for _, pt := range hand.Points {
			px := int(pt.X * float64(w))
			py := int(pt.Y * float64(h))
			gocv.Circle(frame, image.Point{X: px, Y: py}, 4, green, 2)
		}

		gocv.PutText(frame, fmt.Sprintf("Hand: %s", hand.Handedness),
			image.Point{X: 10, Y: 150}, gocv.FontHersheySimplex, 0.7,
			color.RGBA{R: 255, B: 255}, 2)
	}

	gocv.PutText(frame, fmt.Sprintf("Gesture: %s", label),
		image.Point{X: 10, Y: 30}, gocv.FontHersheySimplex, 1,
		color.RGBA{G: 255}, 2)

	gocv.PutText(frame, fmt.Sprintf("Mode: %s", mode),
		image.Point{X: 10, Y: 70}, gocv.FontHersheySimplex, 0.7,
		color.RGBA{R: 255, G: 255, B: 255}, 2)

	if pointerOn {
		gocv.PutText(frame, "POINTER ACTIVE",
			image.Point{X: 10, Y: 110}, gocv.FontHersheySimplex, 0.7,
			color.RGBA{G: 255, B: 255}, 2)
	}

	p.window.IMShow(*frame)
}

// PollKey services the window event loop and returns the pressed key,
// or -1 when none.
func (p *Preview) PollKey() int {
	return p.window.WaitKey(1)
}

// Close destroys the window.
func (p *Preview) Close() error {
	return p.window.Close()
}
