// Package config loads and saves the display-region layout and the monitor
// parameter configuration, both YAML files next to the binary by default.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"display-monitor/internal/region"
)

// DefaultDisplayPath is the conventional region layout file name.
const DefaultDisplayPath = "display_config.yaml"

type displayFile struct {
	Displays []region.Region `yaml:"displays"`
}

// LoadDisplays reads the region list from a YAML layout file. A missing
// file yields an empty list; malformed geometry inside a region is repaired
// rather than rejected, so a bad entry can never poison the whole layout.
func LoadDisplays(path string) ([]region.Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read display config: %w", err)
	}

	var file displayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse display config: %w", err)
	}

	for i := range file.Displays {
		file.Displays[i].Sanitize()
	}
	return file.Displays, nil
}

// SaveDisplays writes the region list, recomputing each region's bounding
// box from its corners first. Corners stay the geometric source of truth;
// the box is derived.
func SaveDisplays(path string, regions []region.Region) error {
	out := region.CloneAll(regions)
	for i := range out {
		out[i].SyncBounds()
	}

	data, err := yaml.Marshal(displayFile{Displays: out})
	if err != nil {
		return fmt.Errorf("encode display config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write display config: %w", err)
	}
	return nil
}

// LayoutBounds returns the maximum x and y coordinate appearing in any
// region's corners or legacy bounding box. The capture pipeline uses these
// as hints for the reference resolution the layout was authored against.
func LayoutBounds(regions []region.Region) (maxX, maxY float64) {
	for _, r := range regions {
		for _, c := range r.Corners {
			if c.X > maxX {
				maxX = c.X
			}
			if c.Y > maxY {
				maxY = c.Y
			}
		}
		if r.X+r.W > maxX {
			maxX = r.X + r.W
		}
		if r.Y+r.H > maxY {
			maxY = r.Y + r.H
		}
	}
	return maxX, maxY
}
