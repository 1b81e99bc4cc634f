package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gocv.io/x/gocv"

	"display-monitor/internal/config"
)

// constantFrame builds a single-channel frame filled with one value.
func constantFrame(value uint8) gocv.Mat {
	mat := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			mat.SetUCharAt(y, x, value)
		}
	}
	return mat
}

// checkerFrame builds a high-contrast frame, optionally phase-shifted so
// two frames differ everywhere.
func checkerFrame(phase int) gocv.Mat {
	mat := gocv.NewMatWithSize(64, 64, gocv.MatTypeCV8UC1)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if (x/8+y/8+phase)%2 == 0 {
				mat.SetUCharAt(y, x, 255)
			}
		}
	}
	return mat
}

func TestEngineOffAndBlack(t *testing.T) {
	e := NewEngine(config.DefaultMonitorParams())
	defer e.Close()

	dark := constantFrame(0)
	defer dark.Close()
	status, metrics := e.Evaluate(dark)
	assert.Equal(t, StatusOff, status)
	assert.InDelta(t, 0, metrics.Brightness, 0.5)

	dim := constantFrame(10)
	defer dim.Close()
	status, metrics = e.Evaluate(dim)
	assert.Equal(t, StatusBlack, status)
	assert.InDelta(t, 10, metrics.Brightness, 0.5)
}

func TestEngineActiveContent(t *testing.T) {
	e := NewEngine(config.DefaultMonitorParams())
	defer e.Close()

	frame := checkerFrame(0)
	defer frame.Close()
	status, metrics := e.Evaluate(frame)
	assert.Equal(t, StatusActive, status)
	assert.Greater(t, metrics.Variance, config.DefaultMonitorParams().ContentVariance)
}

func TestEngineFreezesAfterRepeatedFrames(t *testing.T) {
	params := config.DefaultMonitorParams()
	params.FrozenFrames = 3
	e := NewEngine(params)
	defer e.Close()

	frame := checkerFrame(0)
	defer frame.Close()

	// First evaluation has no previous frame, so it cannot freeze.
	status, _ := e.Evaluate(frame)
	assert.Equal(t, StatusActive, status)

	var last Status
	for i := 0; i < 3; i++ {
		last, _ = e.Evaluate(frame)
	}
	assert.Equal(t, StatusFrozen, last)

	// Motion releases the freeze.
	moved := checkerFrame(1)
	defer moved.Close()
	status, metrics := e.Evaluate(moved)
	assert.Equal(t, StatusActive, status)
	assert.Zero(t, metrics.FrozenCounter)
}
