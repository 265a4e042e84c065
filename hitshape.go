package planview

// HitShape defines a custom hit-test region.
type HitShape interface {
	// Contains reports whether (x, y) is inside the shape.
	Contains(x, y float64) bool
}

// HitRect is an axis-aligned rectangular hit area.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return Rect(r).Contains(x, y)
}

// HitCircle is a circular hit area.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// region is a screen-space area owned by an overlay element.
type region struct {
	target Target
	shape  HitShape
}

// AddRegion registers a screen-space area, such as a control button or the
// table panel, that sits above the plan. Regions are tested in reverse
// registration order before markers.
func (e *Engine) AddRegion(t Target, shape HitShape) {
	if shape == nil {
		return
	}
	e.regions = append(e.regions, region{target: t, shape: shape})
}

// RemoveRegions drops every region registered for t.
func (e *Engine) RemoveRegions(t Target) {
	kept := e.regions[:0]
	for _, r := range e.regions {
		if r.target != t {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(e.regions); i++ {
		e.regions[i] = region{}
	}
	e.regions = kept
}

// TargetAt returns the element under screen point (sx, sy): a registered
// region, else a marker within MarkerHitRadius screen pixels, else the map.
func (e *Engine) TargetAt(sx, sy float64) Target {
	if !finite(sx, sy) {
		return MapTarget
	}
	for i := len(e.regions) - 1; i >= 0; i-- {
		if e.regions[i].shape.Contains(sx, sy) {
			return e.regions[i].target
		}
	}
	mx, my := e.vp.ScreenToMap(sx, sy)
	// Hit radius is constant on screen, so it shrinks in map units as zoom
	// grows.
	scr := e.vp.Screen()
	vb := e.vp.ViewBox()
	radius := e.cfg.MarkerHitRadius * vb.Width / scr.Width
	if m, ok := e.markers.HitTest(mx, my, radius); ok {
		return Target{Kind: TargetMarker, ID: m.ID}
	}
	return MapTarget
}
