package planview

// Viewport is the single source of truth for the visible region of the plan.
// It stores only zoom and pan; the view box is derived on every call so no
// cached value can drift from them.
type Viewport struct {
	zoom       float64
	panX, panY float64

	baseW, baseH     float64
	minZoom, maxZoom float64

	// screen is the on-screen rectangle the view box is drawn into.
	screen Rect
}

// NewViewport creates a viewport over a baseW x baseH plan at zoom 1 (or
// minZoom if that is larger), with the screen initially matching the plan.
func NewViewport(baseW, baseH, minZoom, maxZoom float64) *Viewport {
	v := &Viewport{
		zoom:    1,
		baseW:   baseW,
		baseH:   baseH,
		minZoom: minZoom,
		maxZoom: maxZoom,
		screen:  Rect{Width: baseW, Height: baseH},
	}
	v.zoom = clamp(v.zoom, minZoom, maxZoom)
	return v
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the current pan offset.
func (v *Viewport) Pan() (x, y float64) { return v.panX, v.panY }

// ZoomBounds returns the allowed zoom range.
func (v *Viewport) ZoomBounds() (min, max float64) { return v.minZoom, v.maxZoom }

// BaseSize returns the intrinsic plan dimensions.
func (v *Viewport) BaseSize() (w, h float64) { return v.baseW, v.baseH }

// Screen returns the on-screen rectangle.
func (v *Viewport) Screen() Rect { return v.screen }

// SetScreen sets the on-screen rectangle the view box maps onto. Empty or
// non-finite rectangles are ignored.
func (v *Viewport) SetScreen(r Rect) {
	if !finite(r.X, r.Y, r.Width, r.Height) || r.Width <= 0 || r.Height <= 0 {
		return
	}
	v.screen = r
}

// SetZoom clamps z to the zoom bounds and stores it. Pan is unchanged, so the
// view stays centered on the same map point. Non-finite values are ignored.
func (v *Viewport) SetZoom(z float64) {
	if !finite(z) {
		return
	}
	v.zoom = clamp(z, v.minZoom, v.maxZoom)
}

// SetPan stores the pan offset as given; clamping policy belongs to the
// caller. Non-finite values are ignored.
func (v *Viewport) SetPan(x, y float64) {
	if !finite(x, y) {
		return
	}
	v.panX, v.panY = x, y
}

// ViewBox derives the visible region from zoom and pan.
//
//	width = baseW/zoom, x = -panX + (baseW-width)/2
//
// The view box center is therefore (baseW/2 - panX, baseH/2 - panY) at any
// zoom.
func (v *Viewport) ViewBox() ViewBox {
	return v.viewBoxAt(v.zoom, v.panX, v.panY)
}

func (v *Viewport) viewBoxAt(zoom, panX, panY float64) ViewBox {
	w := v.baseW / zoom
	h := v.baseH / zoom
	return ViewBox{
		X:      -panX + (v.baseW-w)/2,
		Y:      -panY + (v.baseH-h)/2,
		Width:  w,
		Height: h,
	}
}

// panForViewBoxOrigin solves the view box formula for the pan that puts the
// view box origin at (x, y) at the given zoom.
func (v *Viewport) panForViewBoxOrigin(zoom, x, y float64) (panX, panY float64) {
	w := v.baseW / zoom
	h := v.baseH / zoom
	return (v.baseW-w)/2 - x, (v.baseH-h)/2 - y
}

// PanRange returns the pan interval that keeps the view box inside
// [0, baseW] x [0, baseH] at the given zoom. At zoom <= 1 the interval
// collapses to the centered pan.
func (v *Viewport) PanRange(zoom float64) (minX, maxX, minY, maxY float64) {
	slackX := (v.baseW - v.baseW/zoom) / 2
	slackY := (v.baseH - v.baseH/zoom) / 2
	if slackX < 0 {
		slackX = 0
	}
	if slackY < 0 {
		slackY = 0
	}
	return -slackX, slackX, -slackY, slackY
}

// ClampPan restricts (x, y) to PanRange at the given zoom.
func (v *Viewport) ClampPan(zoom, x, y float64) (float64, float64) {
	minX, maxX, minY, maxY := v.PanRange(zoom)
	return clamp(x, minX, maxX), clamp(y, minY, maxY)
}

// screenFraction converts screen coordinates to a [0,1] fraction of the
// screen rectangle (values outside the screen fall outside [0,1]).
func (v *Viewport) screenFraction(sx, sy float64) (fx, fy float64) {
	return (sx - v.screen.X) / v.screen.Width, (sy - v.screen.Y) / v.screen.Height
}

// ScreenToMap converts screen coordinates to map-space coordinates using the
// current view box.
func (v *Viewport) ScreenToMap(sx, sy float64) (mx, my float64) {
	vb := v.ViewBox()
	fx, fy := v.screenFraction(sx, sy)
	return vb.X + fx*vb.Width, vb.Y + fy*vb.Height
}

// MapToScreen converts map-space coordinates to screen coordinates using the
// current view box.
func (v *Viewport) MapToScreen(mx, my float64) (sx, sy float64) {
	vb := v.ViewBox()
	sx = v.screen.X + (mx-vb.X)/vb.Width*v.screen.Width
	sy = v.screen.Y + (my-vb.Y)/vb.Height*v.screen.Height
	return
}

// reset restores zoom 1 (clamped) and the given pan.
func (v *Viewport) reset(panX, panY float64) {
	v.zoom = clamp(1, v.minZoom, v.maxZoom)
	v.panX, v.panY = panX, panY
}
