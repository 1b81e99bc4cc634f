package glitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"display-monitor/internal/config"
)

func grayFrame(value uint8) gocv.Mat {
	mat := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			mat.SetUCharAt(y, x, value)
		}
	}
	return mat
}

func TestDetectorFirstFrameReportsNothing(t *testing.T) {
	d := NewDetector(config.DefaultMonitorParams())
	defer d.Close()

	frame := grayFrame(128)
	defer frame.Close()

	result := d.Detect(frame)
	assert.False(t, result.Glitch)
	assert.Empty(t, result.Types)
}

func TestDetectorReportsFreezeOnceOnTransition(t *testing.T) {
	params := config.DefaultMonitorParams()
	params.MinFreezeFrames = 3
	d := NewDetector(params)
	defer d.Close()

	frame := grayFrame(128)
	defer frame.Close()

	// Prime with the first frame, then hold the image still until the
	// freeze counter crosses the threshold.
	d.Detect(frame)

	var fired int
	var reported Result
	for i := 0; i < 6; i++ {
		if r := d.Detect(frame); r.Glitch {
			fired++
			reported = r
		}
	}

	assert.Equal(t, 1, fired, "one event per incident, not one per frame")
	assert.Contains(t, reported.Types, TypeFreeze)
	assert.Equal(t, SeverityLow, reported.Severity)
}

func TestDetectorBlackFrameSeverity(t *testing.T) {
	params := config.DefaultMonitorParams()
	params.MinArtifactFrames = 1
	d := NewDetector(params)
	defer d.Close()

	bright := grayFrame(128)
	defer bright.Close()
	d.Detect(bright)

	dark := grayFrame(0)
	defer dark.Close()
	result := d.Detect(dark)

	assert.True(t, result.Glitch)
	assert.Contains(t, result.Types, TypeBlackFrame)
	assert.Equal(t, SeverityHigh, result.Severity)
}
