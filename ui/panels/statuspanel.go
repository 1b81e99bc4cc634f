package panels

import (
	"fmt"
	"sort"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"display-monitor/internal/monitor"
)

// StatusPanel shows the latest monitoring result for every configured
// display. It is fed by the main window's refresh ticker.
type StatusPanel struct {
	container fyne.CanvasObject
	list      *widget.List

	rows []monitor.DisplayStatus
}

// NewStatusPanel creates the status panel.
func NewStatusPanel() *StatusPanel {
	sp := &StatusPanel{}

	sp.list = widget.NewList(
		func() int { return len(sp.rows) },
		func() fyne.CanvasObject {
			name := widget.NewLabel("display name placeholder")
			status := widget.NewLabel("STATUS")
			status.TextStyle.Bold = true
			return container.NewBorder(nil, nil, nil, status, name)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(sp.rows) {
				return
			}
			row := sp.rows[id]
			box := obj.(*fyne.Container)
			name := box.Objects[0].(*widget.Label)
			status := box.Objects[1].(*widget.Label)

			title := row.Name
			if title == "" {
				title = row.RegionID
			}
			name.SetText(title)

			text := string(row.Status)
			if row.Metrics.Glitch {
				text = fmt.Sprintf("%s (%s)", text, row.Metrics.GlitchSeverity)
			}
			if row.OCR.Detected {
				text = fmt.Sprintf("%s [%s]", text, row.OCR.Pattern)
			}
			status.SetText(text)
		},
	)

	sp.container = container.NewBorder(
		widget.NewLabel("Display Status"), nil, nil, nil,
		sp.list,
	)
	return sp
}

// Container returns the panel container.
func (sp *StatusPanel) Container() fyne.CanvasObject {
	return sp.container
}

// Update replaces the rows with the latest results, sorted by name so
// the list is stable between refreshes.
func (sp *StatusPanel) Update(statuses map[string]monitor.DisplayStatus) {
	sp.rows = sp.rows[:0]
	for _, st := range statuses {
		sp.rows = append(sp.rows, st)
	}
	sort.Slice(sp.rows, func(i, j int) bool {
		if sp.rows[i].Name != sp.rows[j].Name {
			return sp.rows[i].Name < sp.rows[j].Name
		}
		return sp.rows[i].RegionID < sp.rows[j].RegionID
	})
	sp.list.Refresh()
}
