package monitor

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"display-monitor/internal/capture"
	"display-monitor/internal/config"
	"display-monitor/internal/ocr"
	"display-monitor/internal/region"
)

// tickInterval paces the capture loop at roughly 20 evaluations per second.
const tickInterval = 50 * time.Millisecond

// DisplayStatus is the latest evaluation for one configured display.
type DisplayStatus struct {
	RegionID  string     `json:"regionId"`
	Name      string     `json:"name"`
	CameraID  string     `json:"camId"`
	Status    Status     `json:"status"`
	Metrics   Metrics    `json:"metrics"`
	OCR       ocr.Result `json:"ocr"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// System runs the background capture and evaluation loop. Regions are
// re-read from the snapshot function every tick so edits take effect
// without a restart.
type System struct {
	params   config.MonitorParams
	snapshot func() []region.Region

	grabber *capture.Grabber
	scanner *ocr.Scanner

	mu       sync.Mutex
	engines  map[string]*Engine
	statuses map[string]DisplayStatus
	lastOCR  map[string]time.Time

	stop chan struct{}
	done chan struct{}
}

// NewSystem creates a monitoring system over the given region snapshot
// source. The snapshot function must be safe to call from the loop
// goroutine.
func NewSystem(params config.MonitorParams, snapshot func() []region.Region) *System {
	return &System{
		params:   params,
		snapshot: snapshot,
		grabber:  capture.NewGrabber(),
		engines:  map[string]*Engine{},
		statuses: map[string]DisplayStatus{},
		lastOCR:  map[string]time.Time{},
	}
}

// Start launches the capture loop. It is a no-op if already running.
func (s *System) Start() {
	if s.stop != nil {
		return
	}

	if len(s.params.NegativeText) > 0 && s.scanner == nil {
		scanner, err := ocr.NewScanner(s.params.NegativeText)
		if err != nil {
			log.Warn().Err(err).Msg("OCR unavailable, text detection disabled")
		} else {
			s.scanner = scanner
		}
	}

	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run()
	log.Info().Msg("monitor system started")
}

// Stop halts the loop and releases capture and OCR resources.
func (s *System) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil

	s.grabber.Close()
	if s.scanner != nil {
		s.scanner.Close()
		s.scanner = nil
	}
	s.mu.Lock()
	for _, e := range s.engines {
		e.Close()
	}
	s.engines = map[string]*Engine{}
	s.mu.Unlock()
	log.Info().Msg("monitor system stopped")
}

// Statuses returns a copy of the latest per-display results.
func (s *System) Statuses() map[string]DisplayStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]DisplayStatus, len(s.statuses))
	for id, st := range s.statuses {
		out[id] = st
	}
	return out
}

func (s *System) run() {
	defer close(s.done)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.evaluateAll()
		}
	}
}

func (s *System) evaluateAll() {
	regions := s.snapshot()
	if len(regions) == 0 {
		return
	}
	maxX, maxY := config.LayoutBounds(regions)

	byCamera := map[string][]region.Region{}
	for _, r := range regions {
		byCamera[r.CameraID] = append(byCamera[r.CameraID], r)
	}

	for cameraID, group := range byCamera {
		frame, err := s.grabber.ReadFrame(cameraID)
		if err != nil {
			log.Debug().Err(err).Str("camera", cameraID).Msg("frame read failed")
			s.markUnknown(group)
			continue
		}
		for _, r := range group {
			s.evaluateRegion(frame, r, maxX, maxY)
		}
		frame.Close()
	}
	s.dropStale(regions)
}

func (s *System) evaluateRegion(frame gocv.Mat, r region.Region, maxX, maxY float64) {
	crop := capture.ExtractRegion(frame, r, maxX, maxY)
	defer crop.Close()

	s.mu.Lock()
	engine, ok := s.engines[r.ID]
	if !ok {
		engine = NewEngine(s.params)
		s.engines[r.ID] = engine
	}
	s.mu.Unlock()

	status, metrics := engine.Evaluate(crop)

	scanned := s.scanText(crop, r.ID, status)

	s.mu.Lock()
	prev, had := s.statuses[r.ID]
	ocrResult := prev.OCR
	if scanned != nil {
		ocrResult = *scanned
	}
	s.statuses[r.ID] = DisplayStatus{
		RegionID:  r.ID,
		Name:      r.Name,
		CameraID:  r.CameraID,
		Status:    status,
		Metrics:   metrics,
		OCR:       ocrResult,
		UpdatedAt: time.Now(),
	}
	s.mu.Unlock()

	if !had || prev.Status != status {
		log.Info().
			Str("display", r.Name).
			Str("status", string(status)).
			Msg("display status changed")
	}
}

// scanText runs OCR at most once per OCRInterval per display, and only
// when the display is showing something recognizable.
func (s *System) scanText(crop gocv.Mat, regionID string, status Status) *ocr.Result {
	if s.scanner == nil || status == StatusOff || status == StatusBlack {
		return nil
	}

	interval := time.Duration(s.params.OCRInterval * float64(time.Second))
	s.mu.Lock()
	last := s.lastOCR[regionID]
	due := time.Since(last) >= interval
	if due {
		s.lastOCR[regionID] = time.Now()
	}
	s.mu.Unlock()
	if !due {
		return nil
	}

	result, err := s.scanner.Scan(crop)
	if err != nil {
		log.Debug().Err(err).Str("region", regionID).Msg("OCR scan failed")
		return nil
	}
	if result.Detected {
		log.Warn().
			Str("region", regionID).
			Str("pattern", result.Pattern).
			Str("text", result.Text).
			Msg("negative text detected")
	}
	return &result
}

func (s *System) markUnknown(group []region.Region) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range group {
		prev := s.statuses[r.ID]
		s.statuses[r.ID] = DisplayStatus{
			RegionID:  r.ID,
			Name:      r.Name,
			CameraID:  r.CameraID,
			Status:    StatusUnknown,
			Metrics:   prev.Metrics,
			OCR:       prev.OCR,
			UpdatedAt: time.Now(),
		}
	}
}

// dropStale removes state for regions that no longer exist.
func (s *System) dropStale(regions []region.Region) {
	live := make(map[string]bool, len(regions))
	for _, r := range regions {
		live[r.ID] = true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.statuses {
		if !live[id] {
			delete(s.statuses, id)
			delete(s.lastOCR, id)
			if e, ok := s.engines[id]; ok {
				e.Close()
				delete(s.engines, id)
			}
		}
	}
}
