package planview

import (
	"math"
	"time"
)

// pressState tracks one potential tap from press to release.
type pressState struct {
	active bool
	input  InputType
	id     int // touch ID; unused for mouse
	startX float64
	startY float64
	target Target
	moved  bool
	multi  bool // a second finger joined, so this is no longer a tap
}

// lastTap remembers the previous touch tap for double-fire suppression.
type lastTap struct {
	valid  bool
	target Target
	at     time.Duration
}

// GestureRouter classifies raw input into pan, pinch, tap or nothing and
// dispatches it to the engine, keeping interactive elements out of pans.
type GestureRouter struct {
	// Interactive reports whether a target handles its own input. Presses on
	// interactive targets never start a pan. Nil means every target except
	// the map surface is interactive.
	Interactive func(Target) bool

	press pressState
	tap   lastTap
	// pinchPending is set when two fingers are down but their distance
	// could not anchor a pinch yet; the next two-finger move retries.
	pinchPending bool
}

func (r *GestureRouter) interactive(t Target) bool {
	if r.Interactive != nil {
		return r.Interactive(t)
	}
	return t.Kind != TargetMap
}

func (r *GestureRouter) reset() {
	r.press = pressState{}
	r.pinchPending = false
}

// route applies ev to e and reports the resulting transition.
func (r *GestureRouter) route(e *Engine, ev InputEvent) Transition {
	at := ev.At
	if at == 0 {
		at = e.now
	}
	tr := Transition{From: e.phase}

	switch ev.Kind {
	case EventPointerDown:
		r.onPointerDown(e, ev, at, &tr)
	case EventPointerMove:
		r.onPointerMove(e, ev, at, &tr)
	case EventPointerUp:
		r.onPointerUp(e, ev, at, &tr)
	case EventPointerCancel:
		if e.phase == PhasePanning && e.pan.session.input == InputMouse {
			e.cancelPan()
			tr.Handled = true
		}
		r.reset()
	case EventTouchStart:
		r.onTouchStart(e, ev, at, &tr)
	case EventTouchMove:
		r.onTouchMove(e, ev, at, &tr)
	case EventTouchEnd:
		r.onTouchEnd(e, ev, at, &tr)
	case EventTouchCancel:
		switch e.phase {
		case PhasePinching:
			e.EndPinch()
			tr.Handled = true
		case PhasePanning:
			e.cancelPan()
			tr.Handled = true
		}
		r.reset()
	case EventWheel:
		e.wheel(ev.DeltaY, ev.DeltaMode, ev.Modifiers)
		tr.Handled = true
		tr.PreventDefault = true
	case EventGestureStart, EventGestureChange:
		// Native gesture zoom is disabled; pinch is handled from touches.
		tr.Handled = true
		tr.PreventDefault = true
	}

	tr.To = e.phase
	return tr
}

func (r *GestureRouter) onPointerDown(e *Engine, ev InputEvent, at time.Duration, tr *Transition) {
	if !finite(ev.X, ev.Y) {
		e.ignored(ev.Kind.String())
		return
	}
	r.press = pressState{active: true, input: InputMouse, startX: ev.X, startY: ev.Y, target: ev.Target}
	if r.interactive(ev.Target) {
		return
	}
	tr.Handled = e.beginPan(ev.X, ev.Y, InputMouse, at)
}

func (r *GestureRouter) onPointerMove(e *Engine, ev InputEvent, at time.Duration, tr *Transition) {
	if !finite(ev.X, ev.Y) {
		e.ignored(ev.Kind.String())
		return
	}
	r.trackMove(ev.X, ev.Y, e.cfg.TapSlop)
	if e.phase == PhasePanning && e.pan.session.input == InputMouse {
		e.updatePan(ev.X, ev.Y, at)
		tr.Handled = true
	}
}

func (r *GestureRouter) onPointerUp(e *Engine, ev InputEvent, at time.Duration, tr *Transition) {
	if e.phase == PhasePanning && e.pan.session.input == InputMouse {
		e.endPan(at)
		tr.Handled = true
	}
	p := r.press
	r.reset()
	if p.active && p.input == InputMouse && !p.moved {
		r.tapped(e, p.target, p.startX, p.startY, InputMouse, at, tr)
	}
}

func (r *GestureRouter) onTouchStart(e *Engine, ev InputEvent, at time.Duration, tr *Transition) {
	switch n := len(ev.Touches); {
	case n == 0:
		return
	case n == 1:
		t := ev.Touches[0]
		if !finite(t.X, t.Y) {
			e.ignored(ev.Kind.String())
			return
		}
		r.press = pressState{active: true, input: InputTouch, id: t.ID, startX: t.X, startY: t.Y, target: t.Target}
		if r.interactive(t.Target) {
			return
		}
		tr.Handled = e.beginPan(t.X, t.Y, InputTouch, at)
	default:
		r.press.multi = true
		if e.phase == PhasePinching {
			// A third finger does not restart the gesture.
			tr.Handled = true
			tr.PreventDefault = true
			return
		}
		tr.Handled = true
		tr.PreventDefault = true
		if !r.beginPinch(e, ev) {
			// The second finger aborts a drag even when the pinch cannot
			// start yet, so a later release never coasts.
			e.cancelPan()
		}
	}
}

// beginPinch starts a pinch on the first two touches of ev. Coincident or
// non-finite fingers leave the pinch pending for the next move.
func (r *GestureRouter) beginPinch(e *Engine, ev InputEvent) bool {
	a, b := ev.Touches[0], ev.Touches[1]
	if !finite(a.X, a.Y, b.X, b.Y) {
		e.ignored(ev.Kind.String())
		r.pinchPending = true
		return false
	}
	dist, _, _ := pinchGeometry(a, b)
	r.pinchPending = !e.BeginPinch(dist)
	return !r.pinchPending
}

func (r *GestureRouter) onTouchMove(e *Engine, ev InputEvent, at time.Duration, tr *Transition) {
	n := len(ev.Touches)
	if n == 0 {
		return
	}
	for _, t := range ev.Touches {
		if r.press.active && t.ID == r.press.id && finite(t.X, t.Y) {
			r.trackMove(t.X, t.Y, e.cfg.TapSlop)
		}
	}
	if r.pinchPending && n >= 2 && e.phase != PhasePinching {
		r.beginPinch(e, ev)
		tr.Handled = true
		tr.PreventDefault = true
		return
	}
	switch {
	case e.phase == PhasePinching && n >= 2:
		dist, midX, midY := pinchGeometry(ev.Touches[0], ev.Touches[1])
		if !e.UpdatePinch(dist, midX, midY) && !finite(dist, midX, midY) {
			e.ignored(ev.Kind.String())
		}
		tr.Handled = true
		tr.PreventDefault = true
	case e.phase == PhasePanning && n == 1 && e.pan.session.input == InputTouch:
		t := ev.Touches[0]
		if !finite(t.X, t.Y) {
			e.ignored(ev.Kind.String())
			return
		}
		e.updatePan(t.X, t.Y, at)
		tr.Handled = true
		tr.PreventDefault = true
	}
}

func (r *GestureRouter) onTouchEnd(e *Engine, ev InputEvent, at time.Duration, tr *Transition) {
	n := len(ev.Touches)
	switch e.phase {
	case PhasePinching:
		switch n {
		case 0:
			e.EndPinch()
		case 1:
			// Hand the remaining finger to a fresh pan seeded where it is now,
			// so the plan does not jump.
			rest := ev.Touches[0]
			if finite(rest.X, rest.Y) && !r.interactive(rest.Target) {
				e.beginPan(rest.X, rest.Y, InputTouch, at)
			} else {
				e.EndPinch()
			}
		default:
			// One of three or more fingers lifted; re-anchor on the new pair.
			dist, _, _ := pinchGeometry(ev.Touches[0], ev.Touches[1])
			e.BeginPinch(dist)
		}
		tr.Handled = true
	case PhasePanning:
		if n == 0 && e.pan.session.input == InputTouch {
			e.endPan(at)
			tr.Handled = true
		}
	}

	if n > 0 {
		return
	}
	p := r.press
	r.reset()
	if p.active && p.input == InputTouch && !p.moved && !p.multi {
		r.tapped(e, p.target, p.startX, p.startY, InputTouch, at, tr)
	}
}

// trackMove marks the press as moved once the pointer leaves the tap slop.
func (r *GestureRouter) trackMove(x, y, slop float64) {
	if !r.press.active || r.press.moved {
		return
	}
	if math.Hypot(x-r.press.startX, y-r.press.startY) > slop {
		r.press.moved = true
	}
}

// tapped handles a completed tap. A touch tap repeating the previous tap's
// target inside the tap window is swallowed; otherwise tap handlers fire
// and a tap on the empty map clears the selection.
func (r *GestureRouter) tapped(e *Engine, target Target, x, y float64, input InputType, at time.Duration, tr *Transition) {
	if input == InputTouch {
		if r.tap.valid && r.tap.target == target && at-r.tap.at <= e.cfg.TapWindow {
			r.tap.at = at
			tr.Suppressed = true
			tr.Handled = true
			return
		}
		r.tap = lastTap{valid: true, target: target, at: at}
	}
	e.fireTap(TapContext{Target: target, X: x, Y: y, Input: input})
	switch target.Kind {
	case TargetMap:
		e.ClearSelection()
	case TargetMarker:
		if _, ok := e.markers.Get(target.ID); ok {
			_ = e.Select(target.ID, SelectFromMap)
		}
	}
}
