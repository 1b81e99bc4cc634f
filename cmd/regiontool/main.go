// Command regiontool extracts the configured display regions from a frame
// and writes each one as a PNG, for checking a layout without the GUI.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"display-monitor/internal/capture"
	"display-monitor/internal/config"
)

func main() {
	configPath := flag.String("config", config.DefaultDisplayPath, "display layout file")
	framePath := flag.String("frame", "", "input frame image (PNG or JPEG)")
	camera := flag.String("camera", "", "camera id to capture from when -frame is not given")
	outDir := flag.String("out", "regions", "output directory")
	flag.Parse()

	regions, err := config.LoadDisplays(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load layout: %v\n", err)
		os.Exit(1)
	}
	if len(regions) == 0 {
		fmt.Println("No regions configured")
		os.Exit(0)
	}

	frame := readFrame(*framePath, *camera)
	defer frame.Close()
	fmt.Printf("Frame: %dx%d\n", frame.Cols(), frame.Rows())

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	maxX, maxY := config.LayoutBounds(regions)
	written := 0
	for _, r := range regions {
		crop := capture.ExtractRegion(frame, r, maxX, maxY)

		name := r.Name
		if name == "" {
			name = r.ID
		}
		out := filepath.Join(*outDir, name+".png")
		if ok := gocv.IMWrite(out, crop); !ok {
			fmt.Fprintf(os.Stderr, "Failed to write %s\n", out)
		} else {
			fmt.Printf("  %-24s rotation=%3d perspective=%-5v -> %s\n",
				name, r.Rotation, r.EnablePerspective, out)
			written++
		}
		crop.Close()
	}
	fmt.Printf("Wrote %d of %d regions\n", written, len(regions))
}

func readFrame(framePath, camera string) gocv.Mat {
	if framePath != "" {
		frame := gocv.IMRead(framePath, gocv.IMReadColor)
		if frame.Empty() {
			fmt.Fprintf(os.Stderr, "Failed to read frame %s\n", framePath)
			os.Exit(1)
		}
		return frame
	}

	if camera == "" {
		fmt.Println("Usage: regiontool -frame <image> | -camera <id> [-config display_config.yaml] [-out dir]")
		os.Exit(1)
	}

	grabber := capture.NewGrabber()
	defer grabber.Close()
	frame, err := grabber.ReadFrame(camera)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to capture from camera %s: %v\n", camera, err)
		os.Exit(1)
	}
	return frame
}
