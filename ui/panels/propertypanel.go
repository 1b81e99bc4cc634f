package panels

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"display-monitor/internal/app"
)

// PropertyPanel edits the non-geometric properties of one region: its
// name, rotation, and perspective correction flag.
type PropertyPanel struct {
	state     *app.State
	container fyne.CanvasObject

	regionID string

	nameEntry     *widget.Entry
	cameraLabel   *widget.Label
	rotationEntry *widget.Entry
	perspective   *widget.Check
	boundsLabel   *widget.Label
	applyButton   *widget.Button

	onChanged func()
}

// NewPropertyPanel creates the property editing panel.
func NewPropertyPanel(state *app.State) *PropertyPanel {
	pp := &PropertyPanel{state: state}

	pp.nameEntry = widget.NewEntry()
	pp.nameEntry.SetPlaceHolder("Display name")
	pp.cameraLabel = widget.NewLabel("")
	pp.rotationEntry = widget.NewEntry()
	pp.rotationEntry.SetPlaceHolder("0")
	pp.perspective = widget.NewCheck("Perspective correction", nil)
	pp.boundsLabel = widget.NewLabel("")
	pp.boundsLabel.Wrapping = fyne.TextWrapWord

	pp.applyButton = widget.NewButton("Apply", pp.apply)

	form := widget.NewForm(
		widget.NewFormItem("Name", pp.nameEntry),
		widget.NewFormItem("Camera", pp.cameraLabel),
		widget.NewFormItem("Rotation", pp.rotationEntry),
	)
	pp.container = container.NewVBox(
		widget.NewLabel("Properties"),
		form,
		pp.perspective,
		pp.boundsLabel,
		pp.applyButton,
	)

	state.On(app.EventSelectionChanged, func(data interface{}) {
		if id, ok := data.(string); ok {
			pp.Show(id)
		}
	})

	pp.Show("")
	return pp
}

// Container returns the panel container.
func (pp *PropertyPanel) Container() fyne.CanvasObject {
	return pp.container
}

// OnChanged sets a callback fired after Apply commits an edit.
func (pp *PropertyPanel) OnChanged(callback func()) {
	pp.onChanged = callback
}

// Show loads the given region into the form. An empty id clears and
// disables the panel.
func (pp *PropertyPanel) Show(regionID string) {
	pp.regionID = regionID
	r := pp.state.Store.Find(regionID)
	if r == nil {
		pp.regionID = ""
		pp.nameEntry.SetText("")
		pp.cameraLabel.SetText("")
		pp.rotationEntry.SetText("")
		pp.perspective.SetChecked(false)
		pp.boundsLabel.SetText("No region selected")
		pp.applyButton.Disable()
		return
	}

	pp.nameEntry.SetText(r.Name)
	pp.cameraLabel.SetText(r.CameraID)
	pp.rotationEntry.SetText(strconv.Itoa(r.Rotation))
	pp.perspective.SetChecked(r.EnablePerspective)

	b := r.Bounds()
	pp.boundsLabel.SetText(fmt.Sprintf("x=%.0f y=%.0f w=%.0f h=%.0f", b.X, b.Y, b.Width, b.Height))
	pp.applyButton.Enable()
}

func (pp *PropertyPanel) apply() {
	if pp.regionID == "" {
		return
	}
	rotation, err := strconv.Atoi(pp.rotationEntry.Text)
	if err != nil {
		r := pp.state.Store.Find(pp.regionID)
		if r != nil {
			pp.rotationEntry.SetText(strconv.Itoa(r.Rotation))
		}
		return
	}

	pp.state.Controller.EditProperties(pp.regionID, pp.nameEntry.Text, rotation, pp.perspective.Checked)
	pp.state.SetModified(true)
	pp.state.Emit(app.EventRegionsChanged, nil)
	pp.Show(pp.regionID)
	if pp.onChanged != nil {
		pp.onChanged()
	}
}
