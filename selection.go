package planview

import "fmt"

type selectionState struct {
	selected string
	hovered  string
	hide     *DelayedAction
}

// Select makes the marker with the given ID the current selection and
// notifies OnSelect handlers, e.g. to highlight the matching table row.
// Selections from the table or search center the plan on the marker; on
// screens narrower than SmallScreenWidth they also zoom in to at least
// FocusZoom so the marker is legible.
func (e *Engine) Select(id string, source SelectSource) error {
	m, ok := e.markers.Get(id)
	if !ok {
		return fmt.Errorf("select: unknown marker %q", id)
	}
	e.selection.selected = id
	e.selection.hide.Cancel()

	if source != SelectFromMap {
		opts := CenterOptions{Duration: e.cfg.CenterDuration}
		if e.vp.Screen().Width < e.cfg.SmallScreenWidth {
			opts.MinZoom = e.cfg.FocusZoom
		}
		e.CenterOn(m.X, m.Y, opts)
	}
	e.logger.Debug("select", "marker", id, "source", source.String())
	e.fireSelect(SelectContext{Marker: m, Source: source})
	return nil
}

// Selected returns the ID of the selected marker.
func (e *Engine) Selected() (id string, ok bool) {
	return e.selection.selected, e.selection.selected != ""
}

// ClearSelection drops the current selection and fires OnClearSelection.
// It does nothing when nothing is selected.
func (e *Engine) ClearSelection() {
	if e.selection.selected == "" {
		return
	}
	e.selection.selected = ""
	e.fireClearSelection()
}

// HoverMarker shows the hover state for a marker, cancelling any pending
// hide.
func (e *Engine) HoverMarker(id string) bool {
	m, ok := e.markers.Get(id)
	if !ok {
		return false
	}
	e.selection.hide.Cancel()
	if e.selection.hovered == id {
		return true
	}
	e.selection.hovered = id
	e.fireHover(HoverContext{Marker: &m})
	return true
}

// LeaveMarker hides the hover state after HoverHideDelay. Hovering another
// marker before then cancels the hide.
func (e *Engine) LeaveMarker() {
	if e.selection.hovered == "" {
		return
	}
	e.selection.hide.Schedule(e.cfg.HoverHideDelay, func() {
		e.selection.hovered = ""
		e.fireHover(HoverContext{})
	})
}

// Hovered returns the ID of the hovered marker.
func (e *Engine) Hovered() (id string, ok bool) {
	return e.selection.hovered, e.selection.hovered != ""
}
