package planview

import "math"

// DeltaMode is the unit of a wheel delta, matching the DOM WheelEvent modes.
type DeltaMode uint8

const (
	DeltaPixel DeltaMode = iota // delta is in pixels
	DeltaLine                   // delta is in lines
	DeltaPage                   // delta is in pages
)

// pinchSession is the state of one two-finger zoom gesture, owned by the
// ZoomController.
type pinchSession struct {
	startDistance float64
	startZoom     float64
}

// ZoomController implements wheel zoom, anchored at the view center, and
// two-finger pinch zoom, anchored at the gesture midpoint.
//
// The two anchors differ on purpose: desktop wheel zoom keeps the center
// fixed, touch pinch keeps the point between the fingers fixed.
type ZoomController struct {
	cfg *Config
	vp  *Viewport

	pinch *pinchSession
}

func newZoomController(cfg *Config, vp *Viewport) *ZoomController {
	return &ZoomController{cfg: cfg, vp: vp}
}

// Pinching reports whether a pinch session is active.
func (z *ZoomController) Pinching() bool { return z.pinch != nil }

// PinchStart returns the distance and zoom recorded when the active pinch
// began. ok is false when no pinch is active.
func (z *ZoomController) PinchStart() (distance, zoom float64, ok bool) {
	if z.pinch == nil {
		return 0, 0, false
	}
	return z.pinch.startDistance, z.pinch.startZoom, true
}

// normalizeDelta converts a wheel delta to pixel-equivalent units.
func (z *ZoomController) normalizeDelta(delta float64, mode DeltaMode) float64 {
	switch mode {
	case DeltaLine:
		return delta * z.cfg.LineHeight
	case DeltaPage:
		return delta * z.cfg.PageHeight
	default:
		return delta
	}
}

// wheelIntensity returns the exponential zoom coefficient for a normalized
// delta. A Ctrl-modified wheel is a trackpad pinch: it zooms harder for
// larger gestures and at higher zoom, where equal steps feel slower.
func (z *ZoomController) wheelIntensity(delta float64, mods KeyModifiers) float64 {
	if mods&ModCtrl == 0 {
		return z.cfg.WheelIntensity
	}
	deltaFactor := math.Min(1+math.Abs(delta)/z.cfg.TrackpadDeltaScale, z.cfg.TrackpadMaxDelta)
	zoomFactor := math.Max(1+(z.vp.Zoom()-1)*z.cfg.TrackpadZoomGain, 1)
	return z.cfg.TrackpadIntensity * deltaFactor * zoomFactor
}

// wheel applies one wheel event. Zoom is anchored at the view center, so pan
// is left untouched. It reports whether the zoom changed.
func (z *ZoomController) wheel(deltaY float64, mode DeltaMode, mods KeyModifiers) bool {
	if !finite(deltaY) || deltaY == 0 {
		return false
	}
	delta := z.normalizeDelta(deltaY, mode)
	next := z.vp.Zoom() * math.Exp(-delta*z.wheelIntensity(delta, mods))
	if !finite(next) {
		return false
	}
	prev := z.vp.Zoom()
	z.vp.SetZoom(next)
	return z.vp.Zoom() != prev
}

// begin starts a pinch at the given finger distance. A zero or non-finite
// distance cannot anchor a scale ratio and is refused.
func (z *ZoomController) begin(distance float64) bool {
	if !finite(distance) || distance <= 0 {
		return false
	}
	z.pinch = &pinchSession{startDistance: distance, startZoom: z.vp.Zoom()}
	return true
}

// update rescales to the current finger distance, keeping the map point
// under the screen midpoint (midX, midY) fixed. It reports whether the
// viewport changed.
func (z *ZoomController) update(distance, midX, midY float64) bool {
	p := z.pinch
	if p == nil || !finite(distance, midX, midY) || distance <= 0 {
		return false
	}
	scale := distance / p.startDistance
	adjusted := 1 + (scale-1)*z.cfg.PinchGain
	return z.zoomAt(p.startZoom*adjusted, midX, midY)
}

// end drops the pinch session. Safe to call when no pinch is active.
func (z *ZoomController) end() {
	z.pinch = nil
}

// zoomAt sets zoom to target (clamped) and solves for the pan that keeps the
// map point under screen point (sx, sy) in place.
func (z *ZoomController) zoomAt(target, sx, sy float64) bool {
	if !finite(target, sx, sy) {
		return false
	}
	lo, hi := z.vp.ZoomBounds()
	target = clamp(target, lo, hi)

	// Map point under the anchor, measured in the current view box.
	vb := z.vp.ViewBox()
	fx, fy := z.vp.screenFraction(sx, sy)
	mx := vb.X + fx*vb.Width
	my := vb.Y + fy*vb.Height

	// New view box origin that puts (mx, my) at the same screen fraction.
	baseW, baseH := z.vp.BaseSize()
	x := mx - fx*baseW/target
	y := my - fy*baseH/target
	panX, panY := z.vp.panForViewBoxOrigin(target, x, y)
	if z.cfg.ClampPinchPan {
		panX, panY = z.vp.ClampPan(target, panX, panY)
	}
	if !finite(panX, panY) {
		return false
	}

	prevZoom := z.vp.Zoom()
	prevX, prevY := z.vp.Pan()
	z.vp.SetZoom(target)
	z.vp.SetPan(panX, panY)
	return z.vp.Zoom() != prevZoom || panX != prevX || panY != prevY
}
