// Package panels provides UI panels for the application.
package panels

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"display-monitor/internal/app"
	"display-monitor/internal/region"
)

// RegionPanel lists the regions configured for the active camera and
// exposes undo, redo, and delete.
type RegionPanel struct {
	state     *app.State
	container fyne.CanvasObject

	list       *widget.List
	undoButton *widget.Button
	redoButton *widget.Button
	delButton  *widget.Button

	// Region ids in list order, rebuilt on every refresh
	ids []string

	onChanged func()
}

// NewRegionPanel creates the region list panel.
func NewRegionPanel(state *app.State) *RegionPanel {
	rp := &RegionPanel{state: state}

	rp.list = widget.NewList(
		func() int { return len(rp.ids) },
		func() fyne.CanvasObject {
			return widget.NewLabel("region name placeholder")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			label := obj.(*widget.Label)
			r := rp.regionAt(id)
			if r == nil {
				label.SetText("")
				return
			}
			name := r.Name
			if name == "" {
				name = "(unnamed)"
			}
			label.SetText(fmt.Sprintf("%s  %d°", name, r.Rotation))
		},
	)
	rp.list.OnSelected = func(id widget.ListItemID) {
		if id >= 0 && id < len(rp.ids) {
			state.Store.Select(rp.ids[id])
			state.Emit(app.EventSelectionChanged, rp.ids[id])
			rp.notifyChanged()
		}
	}

	rp.undoButton = widget.NewButtonWithIcon("Undo", theme.ContentUndoIcon(), func() {
		if state.Controller.Undo() {
			state.SetModified(true)
			state.Emit(app.EventRegionsChanged, nil)
			rp.Refresh()
			rp.notifyChanged()
		}
	})
	rp.redoButton = widget.NewButtonWithIcon("Redo", theme.ContentRedoIcon(), func() {
		if state.Controller.Redo() {
			state.SetModified(true)
			state.Emit(app.EventRegionsChanged, nil)
			rp.Refresh()
			rp.notifyChanged()
		}
	})
	rp.delButton = widget.NewButtonWithIcon("Delete", theme.DeleteIcon(), func() {
		selected := state.Store.Selected()
		if selected == "" {
			return
		}
		state.Controller.Delete(selected)
		state.SetModified(true)
		state.Emit(app.EventRegionsChanged, nil)
		rp.Refresh()
		rp.notifyChanged()
	})

	buttons := container.NewHBox(rp.undoButton, rp.redoButton, rp.delButton)
	rp.container = container.NewBorder(
		widget.NewLabel("Regions"), buttons, nil, nil,
		rp.list,
	)

	state.On(app.EventRegionsChanged, func(interface{}) { rp.Refresh() })
	state.On(app.EventCameraChanged, func(interface{}) { rp.Refresh() })

	rp.Refresh()
	return rp
}

// Container returns the panel container.
func (rp *RegionPanel) Container() fyne.CanvasObject {
	return rp.container
}

// OnChanged sets a callback fired after any edit made from this panel.
func (rp *RegionPanel) OnChanged(callback func()) {
	rp.onChanged = callback
}

// Refresh rebuilds the list from the store and updates button state.
func (rp *RegionPanel) Refresh() {
	rp.ids = rp.ids[:0]
	for _, r := range rp.state.Store.ByCamera(rp.state.ActiveCamera) {
		rp.ids = append(rp.ids, r.ID)
	}
	rp.list.Refresh()

	selected := rp.state.Store.Selected()
	for i, id := range rp.ids {
		if id == selected {
			rp.list.Select(i)
			break
		}
	}

	setEnabled(rp.undoButton, rp.state.History.CanUndo())
	setEnabled(rp.redoButton, rp.state.History.CanRedo())
	setEnabled(rp.delButton, selected != "")
}

func (rp *RegionPanel) regionAt(id widget.ListItemID) *region.Region {
	if id < 0 || id >= len(rp.ids) {
		return nil
	}
	return rp.state.Store.Find(rp.ids[id])
}

func (rp *RegionPanel) notifyChanged() {
	if rp.onChanged != nil {
		rp.onChanged()
	}
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}
