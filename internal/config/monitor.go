package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultMonitorPath is the conventional monitor parameter file name.
const DefaultMonitorPath = "config.yaml"

// MonitorParams are the tunables for status evaluation, glitch detection,
// and OCR scanning. Zero-value fields are filled with defaults on load.
type MonitorParams struct {
	// Status engine
	OffBrightness   float64 `yaml:"off_brightness"`
	BlackBrightness float64 `yaml:"black_brightness"`
	NoiseVariance   float64 `yaml:"noise_variance"`
	EdgeThreshold   float64 `yaml:"edge_threshold"`
	ContentVariance float64 `yaml:"content_variance"`
	DiffThreshold   float64 `yaml:"diff_threshold"`
	FrozenFrames    int     `yaml:"frozen_frames"`

	// Glitch detector
	DiffSpike           float64 `yaml:"diff_spike"`
	PixelDiff           float64 `yaml:"pixel_diff"`
	MinArea             float64 `yaml:"min_area"`
	MaxArea             float64 `yaml:"max_area"`
	BlockSize           int     `yaml:"block_size"`
	PixelOutlierSigma   float64 `yaml:"pixel_outlier_sigma"`
	EdgeEnergyThreshold float64 `yaml:"edge_energy_threshold"`
	History             int     `yaml:"history"`
	FreezeThreshold     float64 `yaml:"freeze_threshold"`
	MinFreezeFrames     int     `yaml:"min_freeze_frames"`
	MinArtifactFrames   int     `yaml:"min_artifact_frames"`
	BlackThreshold      float64 `yaml:"black_threshold"`
	FlickerRelThreshold float64 `yaml:"flicker_rel_threshold"`

	// OCR
	NegativeText []string `yaml:"negative_text"`
	OCRInterval  float64  `yaml:"ocr_interval"`
}

// DefaultMonitorParams returns the built-in thresholds.
func DefaultMonitorParams() MonitorParams {
	return MonitorParams{
		OffBrightness:   5,
		BlackBrightness: 15,
		NoiseVariance:   2,
		EdgeThreshold:   1.2,
		ContentVariance: 8,
		DiffThreshold:   0.4,
		FrozenFrames:    60,

		DiffSpike:           25.0,
		PixelDiff:           25,
		MinArea:             0.005,
		MaxArea:             0.6,
		BlockSize:           16,
		PixelOutlierSigma:   5.0,
		EdgeEnergyThreshold: 8.0,
		History:             3,
		FreezeThreshold:     0.05,
		MinFreezeFrames:     15,
		MinArtifactFrames:   2,
		BlackThreshold:      2.0,
		FlickerRelThreshold: 0.1,

		OCRInterval: 5.0,
	}
}

// rawMonitorFile tolerates both current and legacy layouts: `config` may be
// a mapping or a list of single-key mappings, and a separate
// `glitch_detector` section overrides matching keys.
type rawMonitorFile struct {
	Config         yaml.Node      `yaml:"config"`
	GlitchDetector map[string]any `yaml:"glitch_detector"`
}

// LoadMonitorParams reads monitor parameters, merging file values over the
// defaults. A missing file yields the defaults.
func LoadMonitorParams(path string) (MonitorParams, error) {
	params := DefaultMonitorParams()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return params, nil
		}
		return params, fmt.Errorf("read monitor config: %w", err)
	}

	var raw rawMonitorFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return params, fmt.Errorf("parse monitor config: %w", err)
	}

	merged := map[string]any{}
	switch raw.Config.Kind {
	case yaml.MappingNode:
		var m map[string]any
		if err := raw.Config.Decode(&m); err != nil {
			return params, fmt.Errorf("parse monitor config section: %w", err)
		}
		merged = m
	case yaml.SequenceNode:
		// Legacy list-of-entries form: flatten into one map.
		var entries []map[string]any
		if err := raw.Config.Decode(&entries); err != nil {
			return params, fmt.Errorf("parse legacy monitor config section: %w", err)
		}
		for _, entry := range entries {
			for k, v := range entry {
				merged[k] = v
			}
		}
	}
	for k, v := range raw.GlitchDetector {
		merged[k] = v
	}

	if len(merged) == 0 {
		return params, nil
	}

	// Re-encode the merged map and decode onto the defaults so YAML tags
	// drive the field mapping.
	buf, err := yaml.Marshal(merged)
	if err != nil {
		return params, fmt.Errorf("merge monitor config: %w", err)
	}
	if err := yaml.Unmarshal(buf, &params); err != nil {
		return params, fmt.Errorf("apply monitor config: %w", err)
	}
	return params, nil
}
