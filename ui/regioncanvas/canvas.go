// Package regioncanvas provides the interactive camera view where display
// regions are drawn, moved, resized, and rotated.
package regioncanvas

import (
	"image"
	"image/draw"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"display-monitor/internal/editor"
	"display-monitor/internal/media"
	"display-monitor/pkg/geometry"
)

// RegionCanvas displays the current camera frame and routes pointer
// gestures to the edit controller.
type RegionCanvas struct {
	widget.BaseWidget

	controller *editor.Controller

	// Frame being displayed
	frame  *image.RGBA
	source media.Source

	// Display state
	raster *fynecanvas.Raster
	mapper editor.Mapper

	// When set, the next press selects the region underneath the
	// frontmost hit instead of the frontmost itself.
	selectUnder bool

	lastPointer geometry.Point2D

	// Callbacks
	onOpenPanel func(regionID string)
	onChanged   func()
}

// NewRegionCanvas creates a canvas bound to the given controller.
func NewRegionCanvas(controller *editor.Controller) *RegionCanvas {
	rc := &RegionCanvas{controller: controller}
	rc.raster = fynecanvas.NewRaster(rc.draw)
	rc.raster.ScaleMode = fynecanvas.ImageScalePixels
	rc.raster.SetMinSize(fyne.NewSize(640, 360))
	rc.ExtendBaseWidget(rc)
	return rc
}

// SetFrame replaces the displayed frame. A nil image clears the canvas,
// which also makes the coordinate mapper invalid and pointer input inert.
func (rc *RegionCanvas) SetFrame(img image.Image, source media.Source) {
	if img == nil {
		rc.frame = nil
		rc.source = nil
	} else {
		b := img.Bounds()
		rgba, ok := img.(*image.RGBA)
		if !ok || b.Min != (image.Point{}) {
			rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
			draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
		}
		rc.frame = rgba
		rc.source = source
	}
	rc.Refresh()
}

// SetSelectUnder toggles select-underneath mode for subsequent presses.
func (rc *RegionCanvas) SetSelectUnder(enabled bool) {
	rc.selectUnder = enabled
}

// OnOpenPanel sets the callback invoked when a gesture should open the
// property panel for a region.
func (rc *RegionCanvas) OnOpenPanel(callback func(regionID string)) {
	rc.onOpenPanel = callback
}

// OnChanged sets the callback invoked after any gesture that may have
// altered regions or selection.
func (rc *RegionCanvas) OnChanged(callback func()) {
	rc.onChanged = callback
}

// Mapper returns the coordinate mapper from the last draw.
func (rc *RegionCanvas) Mapper() editor.Mapper {
	return rc.mapper
}

// Refresh redraws the canvas.
func (rc *RegionCanvas) Refresh() {
	rc.raster.Refresh()
}

// CreateRenderer implements fyne.Widget.
func (rc *RegionCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(rc.raster)
}

// MouseDown implements desktop.Mouseable.
func (rc *RegionCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p := rc.pointerPos(ev.Position)
	rc.lastPointer = p
	under := rc.selectUnder || ev.Modifier&fyne.KeyModifierAlt != 0
	result := rc.controller.Press(p, rc.mapper, under)
	if result.OpenPanel && rc.onOpenPanel != nil {
		rc.onOpenPanel(result.RegionID)
	}
	rc.notifyChanged()
	rc.Refresh()
}

// MouseUp implements desktop.Mouseable.
func (rc *RegionCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	p := rc.pointerPos(ev.Position)
	result := rc.controller.Release(p, rc.mapper)
	if result.OpenPanel && rc.onOpenPanel != nil {
		rc.onOpenPanel(result.RegionID)
	}
	rc.notifyChanged()
	rc.Refresh()
}

// Dragged implements fyne.Draggable.
func (rc *RegionCanvas) Dragged(ev *fyne.DragEvent) {
	p := rc.pointerPos(ev.Position)
	rc.lastPointer = p
	rc.controller.Move(p, rc.mapper)
	rc.Refresh()
}

// DragEnd implements fyne.Draggable. The gesture is finished by MouseUp;
// this catches drags that leave the widget before release.
func (rc *RegionCanvas) DragEnd() {
	if rc.controller.State() == editor.Idle {
		return
	}
	result := rc.controller.Release(rc.lastPointer, rc.mapper)
	if result.OpenPanel && rc.onOpenPanel != nil {
		rc.onOpenPanel(result.RegionID)
	}
	rc.notifyChanged()
	rc.Refresh()
}

func (rc *RegionCanvas) notifyChanged() {
	if rc.onChanged != nil {
		rc.onChanged()
	}
}

func (rc *RegionCanvas) pointerPos(pos fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
}

// updateMapper recomputes the frame placement for the current widget
// size: uniform scale, letterboxed and centered.
func (rc *RegionCanvas) updateMapper(w, h int) {
	if rc.source == nil || w <= 0 || h <= 0 {
		rc.mapper = editor.Mapper{}
		return
	}
	dims := rc.source.NativeDimensions()
	if dims.Width <= 0 || dims.Height <= 0 {
		rc.mapper = editor.Mapper{}
		return
	}

	scaleX := float64(w) / float64(dims.Width)
	scaleY := float64(h) / float64(dims.Height)
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}

	renderedW := float64(dims.Width) * scale
	renderedH := float64(dims.Height) * scale
	offset := geometry.Point2D{
		X: (float64(w) - renderedW) / 2,
		Y: (float64(h) - renderedH) / 2,
	}
	rc.mapper = editor.NewMapper(rc.source, media.Viewport{
		Offset:        offset,
		RenderedWidth: renderedW,
	})
}

// draw is the raster drawing function.
func (rc *RegionCanvas) draw(w, h int) image.Image {
	rc.updateMapper(w, h)

	output := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(output.Pix); i += 4 {
		output.Pix[i] = 255
	}

	if rc.frame != nil && rc.mapper.Valid() {
		rc.blitFrame(output, w, h)
	}

	overlay := editor.BuildOverlay(rc.controller.Store(), rc.mapper, rc.controller.Camera())
	drawRegionOverlay(output, overlay)

	return output
}

// blitFrame scales the native frame into the letterboxed viewport with
// nearest-neighbor sampling.
func (rc *RegionCanvas) blitFrame(output *image.RGBA, w, h int) {
	src := rc.frame
	srcB := src.Bounds()
	scale := rc.mapper.Scale()
	if scale <= 0 {
		return
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			native := rc.mapper.ToNative(geometry.Point2D{X: float64(x), Y: float64(y)})
			sx, sy := int(native.X), int(native.Y)
			if sx < 0 || sy < 0 || sx >= srcB.Dx() || sy >= srcB.Dy() {
				continue
			}
			si := src.PixOffset(sx, sy)
			di := output.PixOffset(x, y)
			copy(output.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
}
