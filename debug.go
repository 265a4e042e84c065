package planview

import "fmt"

// Stats holds counters for diagnosing input handling. Counting is always
// on; it costs a few increments per event.
type Stats struct {
	Events      int // events passed to HandleInput
	Ignored     int // non-finite inputs dropped as no-op frames
	Renders     int // view boxes sent to the render sink
	Transitions int // phase changes
	Illegal     int // transitions without a direct edge (always 0 in debug mode)
}

// Stats returns the engine's counters.
func (e *Engine) Stats() Stats { return e.stats }

// debugCheckTransition reports an illegal phase change. In debug mode it
// panics with a descriptive message; otherwise it logs a warning.
func (e *Engine) debugCheckTransition(from, to Phase) {
	if CanTransition(from, to) {
		return
	}
	e.stats.Illegal++
	if e.debug {
		panic(fmt.Sprintf("planview debug: illegal transition %s -> %s", from, to))
	}
	e.logger.Warn("illegal phase transition", "from", from.String(), "to", to.String())
}

// sessionsConsistent reports whether at most one gesture session is live
// and it is the one the current phase owns.
func (e *Engine) sessionsConsistent() bool {
	live := 0
	for _, on := range []bool{e.pan.session != nil, e.pan.inertia != nil, e.zoom.pinch != nil, e.center.anim != nil} {
		if on {
			live++
		}
	}
	switch e.phase {
	case PhaseIdle:
		return live == 0
	case PhasePanning:
		return live == 1 && e.pan.session != nil
	case PhaseInertial:
		return live == 1 && e.pan.inertia != nil
	case PhasePinching:
		return live == 1 && e.zoom.pinch != nil
	case PhaseAnimating:
		return live == 1 && e.center.anim != nil
	}
	return false
}

// debugCheckSessions panics in debug mode when the live sessions disagree
// with the phase. In release mode it is skipped entirely.
func (e *Engine) debugCheckSessions() {
	if !e.debug || e.sessionsConsistent() {
		return
	}
	panic(fmt.Sprintf("planview debug: gesture sessions inconsistent with phase %s", e.phase))
}
