package planview

import (
	"fmt"
	"log/slog"
	"time"
)

// RenderSink receives the view box every time the viewport changes.
type RenderSink interface {
	ApplyViewBox(vb ViewBox)
}

// RenderFunc adapts a function to RenderSink.
type RenderFunc func(vb ViewBox)

// ApplyViewBox calls f(vb).
func (f RenderFunc) ApplyViewBox(vb ViewBox) { f(vb) }

// Engine owns the viewport, its controllers and the interaction state
// machine. It is the only writer of the viewport: input goes through
// HandleInput, time goes through Tick.
//
// An Engine is driven from a single goroutine (the UI or game loop) and is
// not safe for concurrent use.
type Engine struct {
	cfg Config
	vp  *Viewport

	pan    *PanController
	zoom   *ZoomController
	center *CenteringAnimator
	router GestureRouter

	phase Phase
	now   time.Duration

	sink   RenderSink
	logger *slog.Logger
	debug  bool

	handlers  handlerRegistry
	markers   *MarkerSet
	regions   []region
	selection selectionState
	timers    []*DelayedAction

	injectQueue []syntheticEvent
	script      *ScriptRunner

	stats Stats
}

// New creates an engine from cfg. The viewport starts at zoom 1 and the
// configured default pan.
func New(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("planview: %w", err)
	}
	e := &Engine{
		cfg:    cfg,
		logger: slog.New(slog.DiscardHandler),
	}
	e.vp = NewViewport(cfg.BaseWidth, cfg.BaseHeight, cfg.MinZoom, cfg.MaxZoom)
	e.vp.SetPan(cfg.DefaultPanX, cfg.DefaultPanY)
	e.pan = newPanController(&e.cfg, e.vp)
	e.zoom = newZoomController(&e.cfg, e.vp)
	e.center = newCenteringAnimator(&e.cfg, e.vp)
	e.markers = NewMarkerSet()
	e.selection.hide = e.NewDelayedAction()
	return e, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Viewport returns the engine's viewport for read access. Writes must go
// through the engine so the state machine stays consistent.
func (e *Engine) Viewport() *Viewport { return e.vp }

// Router returns the gesture router, e.g. to install an Interactive
// predicate.
func (e *Engine) Router() *GestureRouter { return &e.router }

// Phase returns the current interaction phase.
func (e *Engine) Phase() Phase { return e.phase }

// Now returns the engine clock: the sum of all Tick durations.
func (e *Engine) Now() time.Duration { return e.now }

// ViewBox returns the current view box.
func (e *Engine) ViewBox() ViewBox { return e.vp.ViewBox() }

// Zoom returns the current zoom factor.
func (e *Engine) Zoom() float64 { return e.vp.Zoom() }

// Pan returns the current pan offset.
func (e *Engine) Pan() (x, y float64) { return e.vp.Pan() }

// SetRenderSink installs the sink that receives every view box change and
// immediately renders the current one.
func (e *Engine) SetRenderSink(sink RenderSink) {
	e.sink = sink
	e.render()
}

// SetLogger sets the logger for diagnostics. Nil restores the silent default.
func (e *Engine) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	e.logger = l
}

// SetDebugMode enables or disables debug mode. When enabled, an illegal
// phase transition or a second live gesture session panics instead of being
// logged.
func (e *Engine) SetDebugMode(enabled bool) {
	e.debug = enabled
}

// SetScreen sets the on-screen rectangle the plan is drawn into.
func (e *Engine) SetScreen(r Rect) {
	e.vp.SetScreen(r)
}

// --- Direct viewport writes ---

// SetZoom sets the zoom factor, clamped to the configured bounds. Pan is
// unchanged. A running CenterOn animation is cancelled without a snap.
func (e *Engine) SetZoom(z float64) {
	if !finite(z) {
		e.ignored("SetZoom")
		return
	}
	e.stopAnimation()
	e.vp.SetZoom(z)
	e.pan.rebase()
	e.render()
}

// SetPan sets the pan offset without clamping. Like SetZoom it cancels a
// running CenterOn animation.
func (e *Engine) SetPan(x, y float64) {
	if !finite(x, y) {
		e.ignored("SetPan")
		return
	}
	e.stopAnimation()
	e.vp.SetPan(x, y)
	e.pan.rebase()
	e.render()
}

// --- Input ---

// HandleInput routes one raw input event and reports its effect.
func (e *Engine) HandleInput(ev InputEvent) Transition {
	e.stats.Events++
	tr := e.router.route(e, ev)
	e.debugCheckSessions()
	return tr
}

// Tick advances time-driven motion (inertia, centering, delayed actions,
// injected input and scripts) by the real elapsed time dt. Physics steps are
// capped at MaxFrameDelta so a long stall does not fling the plan away.
func (e *Engine) Tick(dt time.Duration) {
	if dt <= 0 {
		return
	}
	e.now += dt
	step := dt
	if e.cfg.MaxFrameDelta > 0 && step > e.cfg.MaxFrameDelta {
		step = e.cfg.MaxFrameDelta
	}

	for _, t := range e.timers {
		t.advance(dt)
	}
	if e.script != nil {
		e.script.step(e)
	}
	e.processInjectedInput()

	switch e.phase {
	case PhaseInertial:
		running := e.pan.tick(step)
		e.render()
		if !running {
			e.setPhase(PhaseIdle)
		}
	case PhaseAnimating:
		running, done := e.center.tick(step)
		e.render()
		if !running {
			e.setPhase(PhaseIdle)
			if done != nil {
				done()
			}
		}
	}
	e.debugCheckSessions()
}

// --- Pan ---

// BeginPan starts a drag at screen point (x, y), cancelling any coast,
// centering animation or pinch first.
func (e *Engine) BeginPan(x, y float64, input InputType) bool {
	ok := e.beginPan(x, y, input, e.now)
	e.debugCheckSessions()
	return ok
}

// UpdatePan moves the active drag to screen point (x, y).
func (e *Engine) UpdatePan(x, y float64) bool {
	return e.updatePan(x, y, e.now)
}

// EndPan releases the active drag, starting a coast if it was moving fast
// enough. The pan reached by the drag itself is left untouched; inertia only
// adds to it on later ticks.
func (e *Engine) EndPan() {
	e.endPan(e.now)
	e.debugCheckSessions()
}

func (e *Engine) beginPan(x, y float64, input InputType, at time.Duration) bool {
	if !finite(x, y) {
		e.ignored("BeginPan")
		return false
	}
	switch e.phase {
	case PhasePanning:
		e.pan.cancel()
	case PhaseInertial:
		e.pan.stop()
	case PhasePinching:
		e.zoom.end()
	case PhaseAnimating:
		e.center.stop()
	}
	e.pan.begin(x, y, input, at)
	e.setPhase(PhasePanning)
	return true
}

func (e *Engine) updatePan(x, y float64, at time.Duration) bool {
	if e.phase != PhasePanning {
		return false
	}
	if !finite(x, y) {
		e.ignored("UpdatePan")
		return false
	}
	if !e.pan.update(x, y, at) {
		return false
	}
	e.render()
	return true
}

func (e *Engine) endPan(at time.Duration) {
	if e.phase != PhasePanning {
		return
	}
	if e.pan.end(at) {
		e.setPhase(PhaseInertial)
		return
	}
	e.setPhase(PhaseIdle)
}

// cancelPan abandons the drag without a coast.
func (e *Engine) cancelPan() {
	if e.phase != PhasePanning {
		return
	}
	e.pan.cancel()
	e.setPhase(PhaseIdle)
}

// --- Pinch ---

// BeginPinch starts a two-finger zoom with the given finger distance. An
// active drag is dropped without a coast; the pinch starts from the zoom at
// the moment of interruption.
func (e *Engine) BeginPinch(distance float64) bool {
	if !finite(distance) || distance <= 0 {
		e.ignored("BeginPinch")
		return false
	}
	switch e.phase {
	case PhasePanning:
		e.pan.cancel()
	case PhaseAnimating:
		e.center.stop()
	case PhaseInertial:
		e.pan.stop()
		e.setPhase(PhaseIdle)
	case PhasePinching:
		e.zoom.end()
	}
	e.zoom.begin(distance)
	e.setPhase(PhasePinching)
	e.debugCheckSessions()
	return true
}

// UpdatePinch rescales to the current finger distance, anchored at screen
// midpoint (midX, midY). Non-finite or zero input is ignored.
func (e *Engine) UpdatePinch(distance, midX, midY float64) bool {
	if e.phase != PhasePinching {
		return false
	}
	if !finite(distance, midX, midY) || distance <= 0 {
		e.ignored("UpdatePinch")
		return false
	}
	if !e.zoom.update(distance, midX, midY) {
		return false
	}
	e.render()
	return true
}

// EndPinch ends the pinch and returns to idle.
func (e *Engine) EndPinch() {
	if e.phase != PhasePinching {
		return
	}
	e.zoom.end()
	e.setPhase(PhaseIdle)
}

// --- Wheel ---

// Wheel applies a wheel delta as a center-anchored zoom. It stops a
// centering animation but leaves a coast running.
func (e *Engine) Wheel(deltaY float64, mode DeltaMode, mods KeyModifiers) bool {
	return e.wheel(deltaY, mode, mods)
}

func (e *Engine) wheel(deltaY float64, mode DeltaMode, mods KeyModifiers) bool {
	if !finite(deltaY) {
		e.ignored("Wheel")
		return false
	}
	switch e.phase {
	case PhasePinching:
		return false
	case PhaseAnimating:
		e.stopAnimation()
	}
	if !e.zoom.wheel(deltaY, mode, mods) {
		return false
	}
	e.pan.rebase()
	e.render()
	return true
}

// --- Centering ---

// CenterOn brings map point (mapX, mapY) to the focus point of the screen,
// cancelling any other motion first. With a zero Duration the move is
// instant and OnDone runs before CenterOn returns.
func (e *Engine) CenterOn(mapX, mapY float64, opts CenterOptions) bool {
	if !finite(mapX, mapY, opts.MinZoom) || (opts.Focus != nil && !finite(opts.Focus.X, opts.Focus.Y)) {
		e.ignored("CenterOn")
		return false
	}
	e.stopAll()
	running, done, _ := e.center.start(mapX, mapY, opts)
	e.render()
	if running {
		e.setPhase(PhaseAnimating)
	} else if done != nil {
		done()
	}
	e.debugCheckSessions()
	return true
}

// --- Stopping ---

// StopAllMotion ends every drag, coast, pinch and animation and returns to
// idle. Calling it when nothing is moving is a no-op.
func (e *Engine) StopAllMotion() {
	e.stopAll()
}

func (e *Engine) stopAll() {
	e.pan.cancel()
	e.pan.stop()
	e.zoom.end()
	e.center.stop()
	e.setPhase(PhaseIdle)
}

// ResetView stops all motion and restores zoom 1 and the default pan. It is
// the recovery path from any state.
func (e *Engine) ResetView() {
	e.stopAll()
	e.router.reset()
	e.vp.reset(e.cfg.DefaultPanX, e.cfg.DefaultPanY)
	e.render()
}

// --- Internals ---

// stopAnimation cancels a running CenterOn where it is and returns to idle.
// Its OnDone never runs.
func (e *Engine) stopAnimation() {
	if e.phase != PhaseAnimating {
		return
	}
	e.center.stop()
	e.setPhase(PhaseIdle)
}

func (e *Engine) render() {
	if e.sink != nil {
		e.stats.Renders++
		e.sink.ApplyViewBox(e.vp.ViewBox())
	}
}

// setPhase moves the state machine to phase to, logging and notifying
// listeners.
func (e *Engine) setPhase(to Phase) {
	from := e.phase
	if from == to {
		return
	}
	e.debugCheckTransition(from, to)
	e.phase = to
	e.stats.Transitions++
	e.logger.Debug("phase", "from", from.String(), "to", to.String())
	e.firePhaseChange(PhaseChange{From: from, To: to})
}

// ignored records an input dropped as a no-op frame. op names the event
// kind or engine call that carried it.
func (e *Engine) ignored(op string) {
	e.stats.Ignored++
	e.logger.Debug("ignored non-finite input", "op", op, "phase", e.phase.String())
}
