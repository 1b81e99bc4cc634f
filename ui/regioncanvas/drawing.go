package regioncanvas

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"display-monitor/internal/editor"
)

var (
	outlineColor  = color.RGBA{R: 0x00, G: 0xC8, B: 0xFF, A: 255}
	selectedColor = color.RGBA{R: 0x00, G: 0xE5, B: 0x76, A: 255}
	handleFill    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	rotateColor   = color.RGBA{R: 0xFF, G: 0xB3, B: 0x00, A: 255}
	labelColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// drawRegionOverlay renders outlines, handles, and the selection label on
// top of the frame.
func drawRegionOverlay(output *image.RGBA, overlay editor.Overlay) {
	for _, outline := range overlay.Outlines {
		col := outlineColor
		if outline.Selected {
			col = selectedColor
		}
		n := len(outline.Points)
		for i := 0; i < n; i++ {
			p1 := outline.Points[i]
			p2 := outline.Points[(i+1)%n]
			drawLine(output, int(p1.X), int(p1.Y), int(p2.X), int(p2.Y), col, 2, outline.Selected)
		}
	}

	for _, handle := range overlay.CornerHandles {
		drawCircle(output, int(handle.Center.X), int(handle.Center.Y), int(handle.Radius), handleFill, selectedColor)
	}

	if overlay.RotateHandle != nil {
		h := overlay.RotateHandle
		drawCircle(output, int(h.Center.X), int(h.Center.Y), int(h.Radius), rotateColor, rotateColor)
	}

	if overlay.Label != nil {
		drawText(output, overlay.Label.Text, int(overlay.Label.At.X), int(overlay.Label.At.Y))
	}
}

// drawLine draws a line using Bresenham's algorithm. Selected outlines
// use a dashed pattern so they read against any frame content.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.RGBA, thickness int, dashed bool) {
	bounds := output.Bounds()

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	step := 0

	for {
		if !dashed || step%8 < 5 {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					px, py := x1+s, y1+t
					if px >= bounds.Min.X && px < bounds.Max.X && py >= bounds.Min.Y && py < bounds.Max.Y {
						output.Set(px, py, col)
					}
				}
			}
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawCircle draws a filled circle with a 2 pixel ring of the given
// border color.
func drawCircle(output *image.RGBA, cx, cy, radius int, fill, border color.RGBA) {
	bounds := output.Bounds()
	r2 := radius * radius
	inner := radius - 2
	inner2 := inner * inner

	for y := cy - radius; y <= cy+radius; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := cx - radius; x <= cx+radius; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := x - cx
			dy := y - cy
			dist2 := dx*dx + dy*dy
			if dist2 > r2 {
				continue
			}
			if dist2 >= inner2 {
				output.Set(x, y, border)
			} else {
				output.Set(x, y, fill)
			}
		}
	}
}

// drawText renders a label with a one pixel drop shadow for contrast.
func drawText(output *image.RGBA, text string, x, y int) {
	if text == "" {
		return
	}
	shadow := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(color.RGBA{A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x+1, y+1),
	}
	shadow.DrawString(text)

	d := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(labelColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
