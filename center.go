package planview

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// CenterOptions configures a CenterOn call.
type CenterOptions struct {
	// Duration of the eased pan. Zero moves instantly.
	Duration time.Duration
	// MinZoom, when above the current zoom, zooms in before panning so a
	// focused marker is legible on small screens.
	MinZoom float64
	// Focus is the screen fraction in [0,1]² where the map point should land.
	// Nil means the center (0.5, 0.5).
	Focus *Vec2
	// OnDone runs once after the final frame has set the exact target pan.
	// It never runs for a cancelled animation.
	OnDone func()
}

// centerAnimation is an in-flight CenterOn, owned by the CenteringAnimator.
// The gween tween runs from 0 to 1 with InOutQuad easing; pan is lerped in
// float64 so the final frame can land exactly on the target.
type centerAnimation struct {
	startX, startY   float64
	targetX, targetY float64
	progress         *gween.Tween
	onDone           func()
}

// CenteringAnimator drives a timed, eased pan that brings a map point to a
// focus point of the screen.
type CenteringAnimator struct {
	cfg *Config
	vp  *Viewport

	anim *centerAnimation
}

func newCenteringAnimator(cfg *Config, vp *Viewport) *CenteringAnimator {
	return &CenteringAnimator{cfg: cfg, vp: vp}
}

// Running reports whether an animation is in flight.
func (c *CenteringAnimator) Running() bool { return c.anim != nil }

// Target returns the pan the running animation is heading to.
func (c *CenteringAnimator) Target() (x, y float64, ok bool) {
	if c.anim == nil {
		return 0, 0, false
	}
	return c.anim.targetX, c.anim.targetY, true
}

// targetPan returns the pan that places (mapX, mapY) at screen fraction
// focus at the given zoom, clamped so the view box never leaves the plan.
func (c *CenteringAnimator) targetPan(mapX, mapY, zoom float64, focus Vec2) (float64, float64) {
	baseW, baseH := c.vp.BaseSize()
	x := mapX - focus.X*baseW/zoom
	y := mapY - focus.Y*baseH/zoom
	panX, panY := c.vp.panForViewBoxOrigin(zoom, x, y)
	return c.vp.ClampPan(zoom, panX, panY)
}

// start begins centering on (mapX, mapY). When the move completes
// immediately, done is the completion callback the caller must run once the
// engine is back to idle; running is false in that case.
func (c *CenteringAnimator) start(mapX, mapY float64, opts CenterOptions) (running bool, done func(), ok bool) {
	if !finite(mapX, mapY, opts.MinZoom) {
		return false, nil, false
	}
	focus := Vec2{X: 0.5, Y: 0.5}
	if opts.Focus != nil {
		if !finite(opts.Focus.X, opts.Focus.Y) {
			return false, nil, false
		}
		focus = Vec2{X: clamp(opts.Focus.X, 0, 1), Y: clamp(opts.Focus.Y, 0, 1)}
	}
	c.anim = nil

	if opts.MinZoom > c.vp.Zoom() {
		c.vp.SetZoom(opts.MinZoom)
	}
	tx, ty := c.targetPan(mapX, mapY, c.vp.Zoom(), focus)

	if opts.Duration <= 0 {
		c.vp.SetPan(tx, ty)
		return false, opts.OnDone, true
	}

	sx, sy := c.vp.Pan()
	c.anim = &centerAnimation{
		startX:   sx,
		startY:   sy,
		targetX:  tx,
		targetY:  ty,
		progress: gween.New(0, 1, float32(opts.Duration.Seconds()), ease.InOutQuad),
		onDone:   opts.OnDone,
	}
	return true, nil, true
}

// tick advances the animation by dt. When the animation finishes this frame,
// running is false and done is its completion callback.
func (c *CenteringAnimator) tick(dt time.Duration) (running bool, done func()) {
	a := c.anim
	if a == nil {
		return false, nil
	}
	t, finished := a.progress.Update(float32(dt.Seconds()))
	if finished {
		c.vp.SetPan(a.targetX, a.targetY)
		c.anim = nil
		return false, a.onDone
	}
	k := float64(t)
	c.vp.SetPan(a.startX+(a.targetX-a.startX)*k, a.startY+(a.targetY-a.startY)*k)
	return true, nil
}

// stop cancels the animation, leaving pan wherever it got to. Safe to call
// when nothing is running.
func (c *CenteringAnimator) stop() {
	c.anim = nil
}
