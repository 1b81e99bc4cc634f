package app

import (
	"os"
	"time"
)

// ConfigWatcher polls the display layout file and triggers a callback when
// it changes on disk. This lets edits made by other tools (or a text
// editor) show up without restarting the application.
type ConfigWatcher struct {
	path          string
	baseline      time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChanged     func() // Called when a newer file is detected
}

// NewConfigWatcher creates a watcher for the given config path. The
// baseline is the file's current modification time; a missing file has a
// zero baseline, so creating it later also counts as a change.
func NewConfigWatcher(path string, checkInterval time.Duration) *ConfigWatcher {
	w := &ConfigWatcher{
		path:          path,
		checkInterval: checkInterval,
		stopCh:        make(chan struct{}),
	}
	if info, err := os.Stat(path); err == nil {
		w.baseline = info.ModTime()
	}
	return w
}

// OnChanged sets the callback to invoke when the file changes. The
// callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (w *ConfigWatcher) OnChanged(callback func()) {
	w.onChanged = callback
}

// Start begins watching in a background goroutine.
func (w *ConfigWatcher) Start() {
	// Create a fresh stop channel in case we're restarting
	w.stopCh = make(chan struct{})
	go w.watchLoop()
}

// Stop stops the watcher goroutine.
func (w *ConfigWatcher) Stop() {
	close(w.stopCh)
}

func (w *ConfigWatcher) watchLoop() {
	ticker := time.NewTicker(w.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			if w.checkForUpdate() && w.onChanged != nil {
				w.onChanged()
			}
		}
	}
}

// checkForUpdate returns true if the file is newer than the baseline and
// advances the baseline so one edit fires one callback.
func (w *ConfigWatcher) checkForUpdate() bool {
	info, err := os.Stat(w.path)
	if err != nil {
		return false
	}
	if !info.ModTime().After(w.baseline) {
		return false
	}
	w.baseline = info.ModTime()
	return true
}

// Path returns the watched file path.
func (w *ConfigWatcher) Path() string {
	return w.path
}

// ResetBaseline updates the baseline to the file's current mod time.
// Call this after the application itself saves, so its own writes do not
// trigger a reload.
func (w *ConfigWatcher) ResetBaseline() {
	if info, err := os.Stat(w.path); err == nil {
		w.baseline = info.ModTime()
	}
}
