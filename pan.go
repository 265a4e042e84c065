package planview

import (
	"math"
	"time"
)

// panSession is the state of one drag. It exists only between Begin and
// End (or cancel) and is owned by the PanController.
type panSession struct {
	input InputType

	originX, originY       float64 // pointer position at drag start
	originPanX, originPanY float64 // viewport pan at drag start

	lastX, lastY float64 // most recent pointer position
	lastAt       time.Duration

	// Smoothed pan velocity in map units per millisecond.
	vx, vy     float64
	moved      bool
	lastMoveAt time.Duration
}

// inertiaSession is the post-release coast of a drag.
type inertiaSession struct {
	vx, vy float64
}

// PanController implements drag-to-pan with velocity sampling, flick boost
// and exponentially decaying inertia. The engine decides when it may run;
// the controller only owns its sessions.
type PanController struct {
	cfg *Config
	vp  *Viewport

	session *panSession
	inertia *inertiaSession
}

func newPanController(cfg *Config, vp *Viewport) *PanController {
	return &PanController{cfg: cfg, vp: vp}
}

// Dragging reports whether a drag session is active.
func (p *PanController) Dragging() bool { return p.session != nil }

// Coasting reports whether an inertia session is active.
func (p *PanController) Coasting() bool { return p.inertia != nil }

// Velocity returns the velocity of the active drag or coast, or zero.
func (p *PanController) Velocity() Vec2 {
	switch {
	case p.session != nil:
		return Vec2{X: p.session.vx, Y: p.session.vy}
	case p.inertia != nil:
		return Vec2{X: p.inertia.vx, Y: p.inertia.vy}
	}
	return Vec2{}
}

// speed returns the zoom-dependent drag multiplier: PanSpeedMin at MinZoom
// rising linearly to PanSpeedMax at MaxZoom.
func (p *PanController) speed(zoom float64) float64 {
	lo, hi := p.vp.ZoomBounds()
	if hi <= lo {
		return p.cfg.PanSpeedMin
	}
	t := clamp((zoom-lo)/(hi-lo), 0, 1)
	return p.cfg.PanSpeedMin + t*(p.cfg.PanSpeedMax-p.cfg.PanSpeedMin)
}

// begin starts a drag at pointer (x, y). Any coast is dropped.
func (p *PanController) begin(x, y float64, input InputType, at time.Duration) bool {
	if !finite(x, y) {
		return false
	}
	p.inertia = nil
	panX, panY := p.vp.Pan()
	p.session = &panSession{
		input:      input,
		originX:    x,
		originY:    y,
		originPanX: panX,
		originPanY: panY,
		lastX:      x,
		lastY:      y,
		lastAt:     at,
	}
	return true
}

// update moves the plan to follow the pointer and samples velocity. It
// reports whether the viewport changed.
func (p *PanController) update(x, y float64, at time.Duration) bool {
	s := p.session
	if s == nil || !finite(x, y) {
		return false
	}

	zoom := p.vp.Zoom()
	mult := p.speed(zoom)
	if s.input == InputTouch {
		mult *= p.cfg.TouchPanMultiplier
	}
	dx := (x - s.originX) / zoom * mult
	dy := (y - s.originY) / zoom * mult

	prevX, prevY := p.vp.Pan()
	newX, newY := s.originPanX+dx, s.originPanY+dy
	if !finite(newX, newY) {
		return false
	}
	p.vp.SetPan(newX, newY)

	if dt := msec(at - s.lastAt); dt > 0 {
		a := p.cfg.VelocitySmoothing
		limit := p.cfg.MaxVelocity
		s.vx = clamp(s.vx*(1-a)+(newX-prevX)/dt*a, -limit, limit)
		s.vy = clamp(s.vy*(1-a)+(newY-prevY)/dt*a, -limit, limit)
		s.lastAt = at
	}
	if newX != prevX || newY != prevY {
		s.moved = true
		s.lastMoveAt = at
	}
	s.lastX, s.lastY = x, y
	return newX != prevX || newY != prevY
}

// rebase restarts the drag from the pointer's last position and the current
// pan, keeping the sampled velocity. Used when zoom changes mid-drag.
func (p *PanController) rebase() {
	s := p.session
	if s == nil {
		return
	}
	s.originX, s.originY = s.lastX, s.lastY
	s.originPanX, s.originPanY = p.vp.Pan()
}

// end finishes the drag and converts its velocity into a coast. It reports
// whether a coast was started.
func (p *PanController) end(at time.Duration) bool {
	s := p.session
	if s == nil {
		return false
	}
	p.session = nil

	if !s.moved {
		return false
	}
	since := at - s.lastMoveAt
	if since > p.cfg.StaleSampleWindow {
		return false
	}
	vx, vy := s.vx, s.vy
	if since <= p.cfg.FlickWindow {
		limit := p.cfg.FlickMaxVelocity
		vx = clamp(vx*p.cfg.FlickBoost, -limit, limit)
		vy = clamp(vy*p.cfg.FlickBoost, -limit, limit)
	}
	return p.coast(vx, vy)
}

// coast starts an inertia session with the given velocity unless it is below
// MinVelocity.
func (p *PanController) coast(vx, vy float64) bool {
	if !finite(vx, vy) || math.Hypot(vx, vy) < p.cfg.MinVelocity {
		p.inertia = nil
		return false
	}
	p.inertia = &inertiaSession{vx: vx, vy: vy}
	return true
}

// cancel drops the drag without starting a coast.
func (p *PanController) cancel() {
	p.session = nil
}

// stop drops any coast. Safe to call when nothing is coasting.
func (p *PanController) stop() {
	p.inertia = nil
}

// tick advances the coast by dt. It reports whether the coast is still
// running afterwards.
func (p *PanController) tick(dt time.Duration) bool {
	in := p.inertia
	if in == nil {
		return false
	}
	ms := msec(dt)
	if ms <= 0 {
		return true
	}
	panX, panY := p.vp.Pan()
	p.vp.SetPan(panX+in.vx*ms, panY+in.vy*ms)

	f := math.Pow(p.cfg.InertiaDecay, ms/msec(p.cfg.DecayInterval))
	in.vx *= f
	in.vy *= f
	if math.Hypot(in.vx, in.vy) < p.cfg.MinVelocity {
		p.inertia = nil
		return false
	}
	return true
}

// msec converts a duration to fractional milliseconds.
func msec(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
