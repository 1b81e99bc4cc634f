// Package glitch detects visual glitches (freezes, black frames, flicker,
// compression artifacts) in camera-captured display frames.
package glitch

import (
	"image"
	"math"
	"time"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/stat"

	"display-monitor/internal/config"
)

// Severity levels for a reported glitch.
const (
	SeverityLow    = "LOW"
	SeverityMedium = "MEDIUM"
	SeverityHigh   = "HIGH"
)

// Glitch type identifiers.
const (
	TypeFreeze          = "FREEZE"
	TypeBlackFrame      = "BLACK_FRAME"
	TypeFlicker         = "FLICKER"
	TypePixelGlitch     = "PIXEL_GLITCH"
	TypeBlockGlitch     = "BLOCK_GLITCH"
	TypeArtifacting     = "ARTIFACTING"
	TypeFrameCorruption = "FRAME_CORRUPTION"
)

// maxAnalysisWidth caps frame width before analysis; larger frames are
// downscaled first.
const maxAnalysisWidth = 640

// flickerHistoryLen bounds the brightness history used for flicker detection.
const flickerHistoryLen = 20

// Result is the outcome of analyzing one frame. Glitch is reported only on
// the transition into a glitching state, so consumers see one event per
// incident rather than one per frame.
type Result struct {
	Glitch    bool
	Severity  string
	Types     []string
	Metrics   ResultMetrics
	Timestamp time.Time
}

// ResultMetrics carries the raw scores behind a detection.
type ResultMetrics struct {
	DiffScore         float64
	AreaRatio         float64
	PixelOutlierRatio float64
	BlockAnomalyScore float64
	EdgeEnergy        float64
}

// Detector is a single-display glitch analyzer refined to suppress false
// positives in proper video and to handle static scenes.
type Detector struct {
	params config.MonitorParams

	prevGray      gocv.Mat
	prevGlitchNow bool

	brightnessHistory []float64

	consecutiveFreezeFrames  int
	consecutiveAnomalyFrames int
}

// NewDetector creates a detector with the given parameters.
func NewDetector(params config.MonitorParams) *Detector {
	return &Detector{
		params:   params,
		prevGray: gocv.NewMat(),
	}
}

// Close releases retained frames.
func (d *Detector) Close() {
	if !d.prevGray.Empty() {
		_ = d.prevGray.Close()
	}
}

// Detect analyzes a BGR frame.
func (d *Detector) Detect(frame gocv.Mat) Result {
	work := frame
	resized := false
	if frame.Cols() > maxAnalysisWidth {
		targetH := frame.Rows() * maxAnalysisWidth / frame.Cols()
		scaled := gocv.NewMat()
		gocv.Resize(frame, &scaled, image.Pt(maxAnalysisWidth, targetH), 0, 0, gocv.InterpolationArea)
		work = scaled
		resized = true
	}
	if resized {
		defer func() { _ = work.Close() }()
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if work.Channels() == 1 {
		work.CopyTo(&gray)
	} else {
		gocv.CvtColor(work, &gray, gocv.ColorBGRToGray)
	}
	gocv.GaussianBlur(gray, &gray, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	if d.prevGray.Empty() ||
		d.prevGray.Rows() != gray.Rows() || d.prevGray.Cols() != gray.Cols() {
		d.setPrev(gray)
		return emptyResult()
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(gray, d.prevGray, &diff)

	diffBytes := diff.ToBytes()
	grayBytes := gray.ToBytes()
	p := d.params

	var diffSum float64
	changed := 0
	for _, v := range diffBytes {
		diffSum += float64(v)
		if float64(v) > p.PixelDiff {
			changed++
		}
	}
	diffScore := diffSum / float64(len(diffBytes))
	areaRatio := float64(changed) / (float64(len(diffBytes)) + 1e-5)

	grayFloats := make([]float64, len(grayBytes))
	for i, v := range grayBytes {
		grayFloats[i] = float64(v)
	}
	mu := stat.Mean(grayFloats, nil)
	sigma := stat.PopStdDev(grayFloats, nil)

	outliers := 0
	for _, v := range grayFloats {
		if math.Abs(v-mu) > p.PixelOutlierSigma*sigma {
			outliers++
		}
	}
	outlierRatio := float64(outliers) / (float64(len(grayFloats)) + 1e-5)

	blockScore := d.blockVarianceScore(grayFloats, gray.Cols(), gray.Rows())
	edgeEnergy := cannyEdgeEnergy(gray)
	regionAnomaly := regionCorruption(diffBytes, diff.Cols(), diff.Rows())

	// Flicker: relative brightness jump against the recent history.
	d.brightnessHistory = append(d.brightnessHistory, mu)
	if len(d.brightnessHistory) > flickerHistoryLen {
		d.brightnessHistory = d.brightnessHistory[1:]
	}
	flickerDetected := false
	flickerIntensity := 0.0
	if n := len(d.brightnessHistory); n >= 6 {
		recentMean := stat.Mean(d.brightnessHistory, nil)
		flickerIntensity = math.Abs(d.brightnessHistory[n-1]-d.brightnessHistory[n-2]) / (recentMean + 1e-5)
		if flickerIntensity > p.FlickerRelThreshold {
			flickerDetected = true
		}
	}

	if diffScore < p.FreezeThreshold {
		d.consecutiveFreezeFrames++
	} else {
		d.consecutiveFreezeFrames = 0
	}
	freezeDetected := d.consecutiveFreezeFrames >= p.MinFreezeFrames

	signals := signalSet{
		temporalSpike:   diffScore > p.DiffSpike,
		localizedArea:   p.MinArea < areaRatio && areaRatio < p.MaxArea,
		pixelGlitch:     outlierRatio > 0.05 && diffScore > 1.0,
		blockGlitch:     blockScore > 15.0 && diffScore > 5.0,
		artifacting:     edgeEnergy > p.EdgeEnergyThreshold && diffScore > 2.0,
		frameCorruption: regionAnomaly,
		freeze:          freezeDetected,
		black:           mu < p.BlackThreshold,
		flicker:         flickerDetected,
	}

	visualArtifact := signals.temporalSpike &&
		(signals.localizedArea || areaRatio > p.MaxArea) &&
		(signals.pixelGlitch || signals.blockGlitch || signals.artifacting || signals.frameCorruption)

	// Visual anomalies must persist to ride out single-frame sensor jitter.
	hasVisualAnomaly := visualArtifact || signals.flicker || signals.black
	if hasVisualAnomaly {
		d.consecutiveAnomalyFrames++
	} else {
		d.consecutiveAnomalyFrames = 0
	}
	persistentVisualAnomaly := d.consecutiveAnomalyFrames >= p.MinArtifactFrames

	glitchNow := persistentVisualAnomaly || signals.freeze
	transient := glitchNow && !d.prevGlitchNow

	d.prevGlitchNow = glitchNow
	d.setPrev(gray)

	if !transient {
		return emptyResult()
	}

	return Result{
		Glitch:   true,
		Severity: d.severity(diffScore, areaRatio, outlierRatio, signals, flickerIntensity),
		Types:    glitchTypes(signals, visualArtifact || persistentVisualAnomaly),
		Metrics: ResultMetrics{
			DiffScore:         diffScore,
			AreaRatio:         areaRatio,
			PixelOutlierRatio: outlierRatio,
			BlockAnomalyScore: blockScore,
			EdgeEnergy:        edgeEnergy,
		},
		Timestamp: time.Now().UTC(),
	}
}

type signalSet struct {
	temporalSpike   bool
	localizedArea   bool
	pixelGlitch     bool
	blockGlitch     bool
	artifacting     bool
	frameCorruption bool
	freeze          bool
	black           bool
	flicker         bool
}

func (d *Detector) setPrev(gray gocv.Mat) {
	if !d.prevGray.Empty() {
		_ = d.prevGray.Close()
	}
	d.prevGray = gray.Clone()
}

// blockVarianceScore compares the most anomalous block's variance against
// the average block variance; macroblock corruption spikes this ratio.
func (d *Detector) blockVarianceScore(gray []float64, cols, rows int) float64 {
	bs := d.params.BlockSize
	if bs <= 0 {
		return 0
	}
	blocksX := cols / bs
	blocksY := rows / bs
	if blocksX == 0 || blocksY == 0 {
		return 0
	}

	var valid []float64
	block := make([]float64, bs*bs)
	for by := 0; by < blocksY; by++ {
		for bx := 0; bx < blocksX; bx++ {
			i := 0
			for y := by * bs; y < (by+1)*bs; y++ {
				for x := bx * bs; x < (bx+1)*bs; x++ {
					block[i] = gray[y*cols+x]
					i++
				}
			}
			if v := stat.PopVariance(block, nil); v > 2.0 {
				valid = append(valid, v)
			}
		}
	}
	if len(valid) == 0 {
		return 0
	}

	maxV := valid[0]
	for _, v := range valid[1:] {
		if v > maxV {
			maxV = v
		}
	}
	return maxV / (stat.Mean(valid, nil) + 1e-5)
}

// cannyEdgeEnergy measures mean Canny response on a half-size frame.
func cannyEdgeEnergy(gray gocv.Mat) float64 {
	small := gocv.NewMat()
	edges := gocv.NewMat()
	defer func() {
		_ = small.Close()
		_ = edges.Close()
	}()

	gocv.Resize(gray, &small, image.Pt(0, 0), 0.5, 0.5, gocv.InterpolationNearestNeighbor)
	gocv.Canny(small, &edges, 50, 150)
	return edges.Mean().Val1
}

// regionCorruption splits the diff into a 4x4 grid and flags a single
// region changing far more than the rest, with a floor to ignore noise in
// dark scenes.
func regionCorruption(diff []byte, cols, rows int) bool {
	const gridRows, gridCols = 4, 4
	scores := make([]float64, 0, gridRows*gridCols)

	for i := 0; i < gridRows; i++ {
		for j := 0; j < gridCols; j++ {
			y0, y1 := i*rows/gridRows, (i+1)*rows/gridRows
			x0, x1 := j*cols/gridCols, (j+1)*cols/gridCols
			var sum float64
			count := 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					sum += float64(diff[y*cols+x])
					count++
				}
			}
			if count > 0 {
				scores = append(scores, sum/float64(count))
			}
		}
	}
	if len(scores) == 0 {
		return false
	}

	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	return maxScore > 8*(stat.Mean(scores, nil)+1e-5) && maxScore > 2.0
}

// severity grades the glitch by its dominant signal's intensity.
func (d *Detector) severity(diff, area, outliers float64, signals signalSet, flickerIntensity float64) string {
	if signals.black {
		return SeverityHigh
	}

	if signals.freeze {
		switch {
		case d.consecutiveFreezeFrames > 60:
			return SeverityHigh
		case d.consecutiveFreezeFrames > 30:
			return SeverityMedium
		default:
			return SeverityLow
		}
	}

	if signals.flicker {
		switch {
		case flickerIntensity > 0.3:
			return SeverityHigh
		case flickerIntensity > 0.15:
			return SeverityMedium
		default:
			return SeverityLow
		}
	}

	score := diff*0.5 + area*100 + outliers*200
	switch {
	case score > 150:
		return SeverityHigh
	case score > 75:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func glitchTypes(signals signalSet, visualArtifact bool) []string {
	var types []string
	if signals.freeze {
		types = append(types, TypeFreeze)
	}
	if signals.black {
		types = append(types, TypeBlackFrame)
	}
	if signals.flicker {
		types = append(types, TypeFlicker)
	}
	if visualArtifact {
		if signals.pixelGlitch {
			types = append(types, TypePixelGlitch)
		}
		if signals.blockGlitch {
			types = append(types, TypeBlockGlitch)
		}
		if signals.artifacting {
			types = append(types, TypeArtifacting)
		}
		if signals.frameCorruption {
			types = append(types, TypeFrameCorruption)
		}
	}
	return types
}

func emptyResult() Result {
	return Result{Timestamp: time.Now().UTC()}
}
