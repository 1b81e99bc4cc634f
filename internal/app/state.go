// Package app provides application lifecycle management, configuration, and events.
package app

import (
	"sync"

	"display-monitor/internal/config"
	"display-monitor/internal/editor"
	"display-monitor/internal/region"
)

// State holds the application state including configured regions, the
// active camera, and edit history.
type State struct {
	mu sync.RWMutex

	// Config
	ConfigPath string
	Modified   bool

	// Regions and editing
	Store      *region.Store
	History    *editor.History
	Controller *editor.Controller

	// Currently displayed camera
	ActiveCamera string

	// Monitor tunables
	Params config.MonitorParams

	// Event listeners
	listeners map[EventType][]EventListener
}

// EventType identifies different application events.
type EventType int

const (
	EventConfigLoaded EventType = iota
	EventConfigSaved
	EventRegionsChanged
	EventSelectionChanged
	EventCameraChanged
	EventModified
	EventStatusUpdated
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// NewState creates a new application state.
func NewState() *State {
	store := region.NewStore()
	history := editor.NewHistory(editor.DefaultHistoryDepth)
	return &State{
		ConfigPath: config.DefaultDisplayPath,
		Store:      store,
		History:    history,
		Controller: editor.NewController(store, history),
		Params:     config.DefaultMonitorParams(),
		listeners:  make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetModified marks the configuration as modified and emits an event.
func (s *State) SetModified(modified bool) {
	s.mu.Lock()
	s.Modified = modified
	s.mu.Unlock()
	s.Emit(EventModified, modified)
}

// SetActiveCamera switches the camera whose regions are being edited.
func (s *State) SetActiveCamera(cameraID string) {
	s.mu.Lock()
	changed := s.ActiveCamera != cameraID
	s.ActiveCamera = cameraID
	s.mu.Unlock()
	if changed {
		s.Controller.SetCamera(cameraID)
		s.Store.Select("")
		s.Emit(EventCameraChanged, cameraID)
	}
}

// LoadConfig loads the display regions from the specified path.
func (s *State) LoadConfig(path string) error {
	regions, err := config.LoadDisplays(path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ConfigPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Store.Replace(regions)
	s.Emit(EventConfigLoaded, path)
	s.Emit(EventRegionsChanged, nil)
	return nil
}

// SaveConfig writes the display regions to the specified path.
func (s *State) SaveConfig(path string) error {
	if err := config.SaveDisplays(path, s.Store.All()); err != nil {
		return err
	}

	s.mu.Lock()
	s.ConfigPath = path
	s.Modified = false
	s.mu.Unlock()

	s.Emit(EventConfigSaved, path)
	return nil
}

// RegionSnapshot returns a deep copy of the region list, safe to hand to
// the monitor goroutine.
func (s *State) RegionSnapshot() []region.Region {
	return s.Store.Snapshot()
}

// Cameras returns the distinct camera ids referenced by the configured
// regions, preserving first-seen order.
func (s *State) Cameras() []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range s.Store.All() {
		if !seen[r.CameraID] {
			seen[r.CameraID] = true
			out = append(out, r.CameraID)
		}
	}
	return out
}
