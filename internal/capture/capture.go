// Package capture opens camera devices and extracts configured display
// regions from their frames.
package capture

import (
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture resolution requested from every device. Drivers that
// cannot deliver it fall back to whatever they support; region extraction
// rescales either way.
const (
	captureWidth  = 1280
	captureHeight = 720
)

// Grabber owns the open video capture devices, one per camera id, and
// hands out frames. Devices are opened lazily on first read.
type Grabber struct {
	mu   sync.Mutex
	caps map[string]*gocv.VideoCapture
}

// NewGrabber creates an empty grabber.
func NewGrabber() *Grabber {
	return &Grabber{caps: make(map[string]*gocv.VideoCapture)}
}

// open returns the capture device for a camera id, opening it if needed.
// Non-numeric ids fall back to device index 0.
func (g *Grabber) open(cameraID string) (*gocv.VideoCapture, error) {
	if cap, ok := g.caps[cameraID]; ok {
		return cap, nil
	}

	idx, err := strconv.Atoi(cameraID)
	if err != nil {
		idx = 0
	}

	cap, err := gocv.OpenVideoCapture(idx)
	if err != nil {
		return nil, fmt.Errorf("open camera %q (device %d): %w", cameraID, idx, err)
	}
	cap.Set(gocv.VideoCaptureFrameWidth, captureWidth)
	cap.Set(gocv.VideoCaptureFrameHeight, captureHeight)

	g.caps[cameraID] = cap
	return cap, nil
}

// ReadFrame grabs one frame from the camera. The returned Mat is owned by
// the caller and must be closed. On error the Mat is the zero value, which
// carries no native allocation.
func (g *Grabber) ReadFrame(cameraID string) (gocv.Mat, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	cap, err := g.open(cameraID)
	if err != nil {
		return gocv.Mat{}, err
	}

	frame := gocv.NewMat()
	if ok := cap.Read(&frame); !ok || frame.Empty() {
		_ = frame.Close()
		return gocv.Mat{}, fmt.Errorf("camera %q returned no frame", cameraID)
	}
	return frame, nil
}

// Close releases every open device.
func (g *Grabber) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for id, cap := range g.caps {
		_ = cap.Close()
		delete(g.caps, id)
	}
}
