// Package monitor evaluates extracted display frames into coarse statuses
// and runs the background capture/analysis loop.
package monitor

import (
	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"display-monitor/internal/config"
	"display-monitor/internal/glitch"
)

// Status is the coarse condition of a monitored display.
type Status string

const (
	StatusOff     Status = "OFF"
	StatusBlack   Status = "BLACK"
	StatusActive  Status = "ACTIVE"
	StatusFrozen  Status = "FROZEN"
	StatusUnknown Status = "UNKNOWN"
)

// edgeMagThreshold is the Sobel magnitude above which a pixel counts as an
// edge for the density metric.
const edgeMagThreshold = 15

// Metrics are the per-frame measurements behind a status decision.
type Metrics struct {
	Brightness     float64  `json:"brightness"`
	Variance       float64  `json:"variance"`
	EdgeDensity    float64  `json:"edge_density"`
	DiffScore      float64  `json:"diff_score"`
	FrozenCounter  int      `json:"frozen_counter"`
	Glitch         bool     `json:"glitch"`
	GlitchSeverity string   `json:"glitch_severity,omitempty"`
	GlitchTypes    []string `json:"glitch_type,omitempty"`
	OCRDetected    bool     `json:"ocr_detected"`
	OCRText        string   `json:"ocr_text,omitempty"`
	OCRPattern     string   `json:"ocr_pattern,omitempty"`
}

// Engine classifies successive frames of a single display region. It keeps
// the previous grayscale frame for temporal differencing and a frozen-frame
// counter, so one engine serves exactly one display.
type Engine struct {
	params config.MonitorParams

	prevGray      gocv.Mat
	frozenCounter int

	glitch *glitch.Detector
}

// NewEngine creates an engine with the given parameters.
func NewEngine(params config.MonitorParams) *Engine {
	return &Engine{
		params:   params,
		prevGray: gocv.NewMat(),
		glitch:   glitch.NewDetector(params),
	}
}

// Close releases the engine's retained frames.
func (e *Engine) Close() {
	if !e.prevGray.Empty() {
		_ = e.prevGray.Close()
	}
	e.glitch.Close()
}

// Evaluate classifies a BGR frame and returns the status with its metrics.
func (e *Engine) Evaluate(frame gocv.Mat) (Status, Metrics) {
	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() == 1 {
		frame.CopyTo(&gray)
	} else {
		gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	}

	pixels := grayToFloats(gray)
	brightness := stat.Mean(pixels, nil)
	variance := stat.PopVariance(pixels, nil)
	edgeDensity := e.edgeDensity(gray, len(pixels))

	diffScore := 0.0
	havePrev := !e.prevGray.Empty() &&
		e.prevGray.Rows() == gray.Rows() && e.prevGray.Cols() == gray.Cols()
	if havePrev {
		diff := gocv.NewMat()
		gocv.AbsDiff(gray, e.prevGray, &diff)
		diffScore = diff.Mean().Val1
		_ = diff.Close()
	}

	p := e.params
	status := StatusUnknown
	switch {
	case brightness < p.OffBrightness && variance < p.NoiseVariance+2 && edgeDensity < p.EdgeThreshold:
		status = StatusOff
		e.frozenCounter = 0
	case brightness < p.BlackBrightness && variance < p.NoiseVariance+5 && edgeDensity < p.EdgeThreshold:
		status = StatusBlack
		e.frozenCounter = 0
	case variance > p.ContentVariance:
		if havePrev && diffScore < p.DiffThreshold {
			e.frozenCounter++
			if e.frozenCounter >= p.FrozenFrames {
				status = StatusFrozen
			} else {
				status = StatusActive
			}
		} else {
			status = StatusActive
			e.frozenCounter = 0
		}
	default:
		if edgeDensity > p.EdgeThreshold {
			status = StatusActive
		}
		e.frozenCounter = 0
	}

	if !e.prevGray.Empty() {
		_ = e.prevGray.Close()
	}
	e.prevGray = gray.Clone()

	g := e.glitch.Detect(frame)

	return status, Metrics{
		Brightness:     brightness,
		Variance:       variance,
		EdgeDensity:    edgeDensity,
		DiffScore:      diffScore,
		FrozenCounter:  e.frozenCounter,
		Glitch:         g.Glitch,
		GlitchSeverity: g.Severity,
		GlitchTypes:    g.Types,
	}
}

// edgeDensity returns the percentage of pixels whose Sobel magnitude
// exceeds the edge threshold.
func (e *Engine) edgeDensity(gray gocv.Mat, totalPixels int) float64 {
	if totalPixels == 0 {
		return 0
	}

	gx := gocv.NewMat()
	gy := gocv.NewMat()
	absX := gocv.NewMat()
	absY := gocv.NewMat()
	mag := gocv.NewMat()
	defer func() {
		_ = gx.Close()
		_ = gy.Close()
		_ = absX.Close()
		_ = absY.Close()
		_ = mag.Close()
	}()

	gocv.Sobel(gray, &gx, gocv.MatTypeCV16S, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gy, gocv.MatTypeCV16S, 0, 1, 3, 1, 0, gocv.BorderDefault)
	gocv.ConvertScaleAbs(gx, &absX, 1, 0)
	gocv.ConvertScaleAbs(gy, &absY, 1, 0)
	gocv.Add(absX, absY, &mag)

	edgeCount := 0
	for _, v := range mag.ToBytes() {
		if v > edgeMagThreshold {
			edgeCount++
		}
	}
	return float64(edgeCount) / float64(totalPixels) * 100
}

// grayToFloats flattens a single-channel 8-bit Mat into float64 samples.
func grayToFloats(gray gocv.Mat) []float64 {
	data := gray.ToBytes()
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}
