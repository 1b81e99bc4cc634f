// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog/log"

	"display-monitor/internal/app"
	"display-monitor/internal/capture"
	"display-monitor/internal/media"
	"display-monitor/internal/monitor"
	"display-monitor/internal/version"
	"display-monitor/ui/panels"
	"display-monitor/ui/prefs"
	"display-monitor/ui/regioncanvas"
)

// framePeriod paces the preview at roughly 20 frames per second.
const framePeriod = 50 * time.Millisecond

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State
	prefs *prefs.Prefs

	canvas        *regioncanvas.RegionCanvas
	regionPanel   *panels.RegionPanel
	propertyPanel *panels.PropertyPanel
	statusPanel   *panels.StatusPanel
	statusBar     *widget.Label
	cameraSelect  *widget.Select

	grabber *capture.Grabber
	system  *monitor.System

	monitorItem *fyne.MenuItem
	stopFrames  chan struct{}
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, preferences *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow("Display Monitor")

	mw := &MainWindow{
		Window:  win,
		app:     fyneApp,
		state:   state,
		prefs:   preferences,
		grabber: capture.NewGrabber(),
		system:  monitor.NewSystem(state.Params, state.RegionSnapshot),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupShortcuts()
	mw.setupEventHandlers()
	mw.restoreSession()

	win.SetOnClosed(mw.shutdown)
	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = regioncanvas.NewRegionCanvas(mw.state.Controller)
	mw.regionPanel = panels.NewRegionPanel(mw.state)
	mw.propertyPanel = panels.NewPropertyPanel(mw.state)
	mw.statusPanel = panels.NewStatusPanel()
	mw.statusBar = widget.NewLabel("Ready")

	mw.canvas.OnOpenPanel(func(regionID string) {
		mw.propertyPanel.Show(regionID)
		mw.regionPanel.Refresh()
	})
	mw.canvas.OnChanged(func() {
		mw.state.SetModified(true)
		mw.regionPanel.Refresh()
	})
	mw.regionPanel.OnChanged(func() {
		mw.propertyPanel.Show(mw.state.Store.Selected())
		mw.canvas.Refresh()
	})
	mw.propertyPanel.OnChanged(func() {
		mw.regionPanel.Refresh()
		mw.canvas.Refresh()
	})

	mw.cameraSelect = widget.NewSelect(mw.state.Cameras(), func(selected string) {
		mw.state.SetActiveCamera(selected)
	})

	side := container.NewAppTabs(
		container.NewTabItem("Regions", container.NewBorder(
			nil, mw.propertyPanel.Container(), nil, nil,
			mw.regionPanel.Container(),
		)),
		container.NewTabItem("Status", mw.statusPanel.Container()),
	)

	selectUnder := widget.NewCheck("Select under", func(on bool) {
		mw.canvas.SetSelectUnder(on)
		mw.prefs.SetBool(prefs.KeySelectUnder, on)
	})
	selectUnder.SetChecked(mw.prefs.Bool(prefs.KeySelectUnder, false))

	toolbar := container.NewHBox(
		widget.NewLabel("Camera:"),
		mw.cameraSelect,
		widget.NewButton("Add Camera...", mw.onAddCamera),
		selectUnder,
	)

	canvasArea := container.NewBorder(toolbar, nil, nil, nil, mw.canvas)

	split := container.NewHSplit(side, canvasArea)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,
		container.NewPadded(mw.statusBar),
		nil, nil,
		split,
	)
	mw.SetContent(content)
	mw.Resize(fyne.NewSize(
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowWidth, 1200)),
		float32(mw.prefs.FloatWithFallback(prefs.KeyWindowHeight, 760)),
	))
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Layout...", mw.onOpenLayout),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Layout", mw.onSaveLayout),
		fyne.NewMenuItem("Save Layout As...", mw.onSaveLayoutAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", mw.onUndo),
		fyne.NewMenuItem("Redo", mw.onRedo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Delete Region", mw.onDeleteRegion),
	)

	mw.monitorItem = fyne.NewMenuItem("Start Monitoring", mw.onToggleMonitoring)
	monitorMenu := fyne.NewMenu("Monitor", mw.monitorItem)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, monitorMenu, helpMenu))
}

// setupShortcuts binds undo and redo to the usual keys.
func (mw *MainWindow) setupShortcuts() {
	undo := &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(undo, func(fyne.Shortcut) { mw.onUndo() })

	redo := &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}
	mw.Canvas().AddShortcut(redo, func(fyne.Shortcut) { mw.onRedo() })
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventConfigLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle("Display Monitor - " + filepath.Base(path))
			mw.updateStatus("Layout loaded: " + path)
		}
		mw.refreshCameras()
	})

	mw.state.On(app.EventConfigSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Layout saved: " + path)
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})

	mw.state.On(app.EventCameraChanged, func(data interface{}) {
		if cam, ok := data.(string); ok {
			mw.prefs.SetString(prefs.KeyLastCamera, cam)
		}
		mw.propertyPanel.Show("")
		mw.canvas.Refresh()
	})
}

// restoreSession re-selects the camera from the previous run and starts
// the preview loop.
func (mw *MainWindow) restoreSession() {
	cameras := mw.state.Cameras()
	last := mw.prefs.String(prefs.KeyLastCamera)
	selected := ""
	for _, cam := range cameras {
		if cam == last {
			selected = cam
			break
		}
	}
	if selected == "" && len(cameras) > 0 {
		selected = cameras[0]
	}
	if selected != "" {
		mw.cameraSelect.SetSelected(selected)
	}

	mw.startFrameLoop()
}

// startFrameLoop feeds camera frames to the canvas.
func (mw *MainWindow) startFrameLoop() {
	mw.stopFrames = make(chan struct{})
	go func() {
		ticker := time.NewTicker(framePeriod)
		defer ticker.Stop()
		for {
			select {
			case <-mw.stopFrames:
				return
			case <-ticker.C:
				mw.updateFrame()
			}
		}
	}()
}

func (mw *MainWindow) updateFrame() {
	cam := mw.state.ActiveCamera
	if cam == "" {
		return
	}
	mat, err := mw.grabber.ReadFrame(cam)
	if err != nil {
		return
	}
	defer mat.Close()

	img, err := mat.ToImage()
	if err != nil {
		log.Debug().Err(err).Str("camera", cam).Msg("frame conversion failed")
		return
	}
	bounds := img.Bounds()
	src := media.Video{
		CameraID: cam,
		Dims:     media.Dimensions{Width: bounds.Dx(), Height: bounds.Dy()},
	}
	mw.canvas.SetFrame(img, src)

	if mw.system != nil {
		mw.statusPanel.Update(mw.system.Statuses())
	}
}

// refreshCameras rebuilds the camera selector from the region list.
func (mw *MainWindow) refreshCameras() {
	mw.cameraSelect.Options = mw.state.Cameras()
	mw.cameraSelect.Refresh()
}

func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func (mw *MainWindow) shutdown() {
	if mw.stopFrames != nil {
		close(mw.stopFrames)
	}
	mw.system.Stop()
	mw.grabber.Close()

	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	if err := mw.prefs.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save preferences")
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenLayout() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		if err := mw.state.LoadConfig(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	fd.Show()
}

func (mw *MainWindow) onSaveLayout() {
	if mw.state.ConfigPath == "" {
		mw.onSaveLayoutAs()
		return
	}
	if err := mw.state.SaveConfig(mw.state.ConfigPath); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onSaveLayoutAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".yaml" && filepath.Ext(path) != ".yml" {
			path += ".yaml"
		}
		if err := mw.state.SaveConfig(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName("display_config.yaml")
	fd.Show()
}

func (mw *MainWindow) onUndo() {
	if mw.state.Controller.Undo() {
		mw.state.SetModified(true)
		mw.state.Emit(app.EventRegionsChanged, nil)
		mw.canvas.Refresh()
		mw.updateStatus("Undo")
	}
}

func (mw *MainWindow) onRedo() {
	if mw.state.Controller.Redo() {
		mw.state.SetModified(true)
		mw.state.Emit(app.EventRegionsChanged, nil)
		mw.canvas.Refresh()
		mw.updateStatus("Redo")
	}
}

func (mw *MainWindow) onDeleteRegion() {
	selected := mw.state.Store.Selected()
	if selected == "" {
		return
	}
	mw.state.Controller.Delete(selected)
	mw.state.SetModified(true)
	mw.state.Emit(app.EventRegionsChanged, nil)
	mw.canvas.Refresh()
}

func (mw *MainWindow) onAddCamera() {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("camera id, e.g. 0")
	dialog.ShowForm("Add Camera", "Add", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Camera", entry)},
		func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			mw.cameraSelect.Options = append(mw.cameraSelect.Options, entry.Text)
			mw.cameraSelect.Refresh()
			mw.cameraSelect.SetSelected(entry.Text)
		}, mw.Window)
}

func (mw *MainWindow) onToggleMonitoring() {
	if mw.monitorItem.Label == "Start Monitoring" {
		mw.system.Start()
		mw.monitorItem.Label = "Stop Monitoring"
		mw.updateStatus("Monitoring started")
	} else {
		mw.system.Stop()
		mw.monitorItem.Label = "Start Monitoring"
		mw.updateStatus("Monitoring stopped")
	}
	mw.MainMenu().Refresh()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Display Monitor",
		fmt.Sprintf("Display Monitor v%s\n\n"+
			"Camera-based monitoring of video wall displays.\n\n"+
			"Built: %s\nCommit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
