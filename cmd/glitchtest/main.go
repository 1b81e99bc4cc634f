// Command glitchtest runs the glitch detector over a video file and
// prints a per-second summary of what it found.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gocv.io/x/gocv"

	"display-monitor/internal/config"
	"display-monitor/internal/glitch"
)

type secondSummary struct {
	frames   int
	glitches int
	types    map[string]int
	severity string
}

func main() {
	videoPath := flag.String("video", "", "video file to analyze")
	monitorPath := flag.String("monitor-config", config.DefaultMonitorPath, "monitor parameter file")
	flag.Parse()

	if *videoPath == "" {
		fmt.Println("Usage: glitchtest -video <path> [-monitor-config config.yaml]")
		os.Exit(1)
	}

	params, err := config.LoadMonitorParams(*monitorPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load parameters: %v\n", err)
		os.Exit(1)
	}

	capture, err := gocv.OpenVideoCapture(*videoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open video: %v\n", err)
		os.Exit(1)
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = 25
	}
	fmt.Printf("Analyzing %s (%.1f fps)\n\n", *videoPath, fps)

	detector := glitch.NewDetector(params)
	defer detector.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	seconds := map[int]*secondSummary{}
	frameIdx := 0
	for capture.Read(&frame) {
		if frame.Empty() {
			continue
		}
		sec := int(float64(frameIdx) / fps)
		summary := seconds[sec]
		if summary == nil {
			summary = &secondSummary{types: map[string]int{}}
			seconds[sec] = summary
		}
		summary.frames++

		result := detector.Detect(frame)
		if result.Glitch {
			summary.glitches++
			for _, t := range result.Types {
				summary.types[t]++
			}
			if rankSeverity(result.Severity) > rankSeverity(summary.severity) {
				summary.severity = result.Severity
			}
		}
		frameIdx++
	}

	if frameIdx == 0 {
		fmt.Println("No frames read")
		os.Exit(1)
	}

	printReport(seconds)
}

func printReport(seconds map[int]*secondSummary) {
	keys := make([]int, 0, len(seconds))
	for sec := range seconds {
		keys = append(keys, sec)
	}
	sort.Ints(keys)

	fmt.Printf("%-8s %-8s %-10s %-10s %s\n", "Second", "Frames", "Glitches", "Severity", "Types")
	total := 0
	for _, sec := range keys {
		s := seconds[sec]
		total += s.glitches
		if s.glitches == 0 {
			fmt.Printf("%-8d %-8d %-10s %-10s\n", sec, s.frames, "-", "-")
			continue
		}

		var types []string
		for t, n := range s.types {
			types = append(types, fmt.Sprintf("%s x%d", t, n))
		}
		sort.Strings(types)
		fmt.Printf("%-8d %-8d %-10d %-10s %s\n",
			sec, s.frames, s.glitches, s.severity, strings.Join(types, ", "))
	}
	fmt.Printf("\nTotal glitch events: %d over %d seconds\n", total, len(keys))
}

func rankSeverity(s string) int {
	switch s {
	case glitch.SeverityHigh:
		return 3
	case glitch.SeverityMedium:
		return 2
	case glitch.SeverityLow:
		return 1
	}
	return 0
}
