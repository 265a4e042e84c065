package planview

// syntheticEvent is one queued input event. Targets are resolved when the
// event is replayed, against the view at that moment, exactly like real
// input.
type syntheticEvent struct {
	kind    EventKind
	x, y    float64
	touches []Vec2
	deltaY  float64
	mode    DeltaMode
	mods    KeyModifiers
}

// InjectPress queues a mouse press at the given screen coordinates. The
// event is consumed on the next Tick.
func (e *Engine) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: EventPointerDown, x: x, y: y})
}

// InjectMove queues a mouse move with the button held down. Use this
// between InjectPress and InjectRelease to simulate a drag.
func (e *Engine) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: EventPointerMove, x: x, y: y})
}

// InjectRelease queues a mouse release at the given screen coordinates.
func (e *Engine) InjectRelease(x, y float64) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: EventPointerUp, x: x, y: y})
}

// InjectClick queues a press followed by a release at the same screen
// coordinates. Consumes two ticks.
func (e *Engine) InjectClick(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2
// linearly interpolated moves and a release at (toX, toY). The sequence
// consumes frames ticks; the minimum is 2.
func (e *Engine) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectRelease(toX, toY)
}

// InjectPinch queues a horizontal two-finger pinch centered on (cx, cy)
// whose finger distance goes from fromDist to toDist. Like InjectDrag it
// consumes frames ticks: two fingers down, frames-2 moves, both fingers up.
func (e *Engine) InjectPinch(cx, cy, fromDist, toDist float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	pair := func(d float64) []Vec2 {
		return []Vec2{{X: cx - d/2, Y: cy}, {X: cx + d/2, Y: cy}}
	}
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: EventTouchStart, touches: pair(fromDist)})
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		e.injectQueue = append(e.injectQueue, syntheticEvent{kind: EventTouchMove, touches: pair(fromDist + (toDist-fromDist)*t)})
	}
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: EventTouchEnd})
}

// InjectWheel queues a wheel event.
func (e *Engine) InjectWheel(deltaY float64, mode DeltaMode, mods KeyModifiers) {
	e.injectQueue = append(e.injectQueue, syntheticEvent{kind: EventWheel, deltaY: deltaY, mode: mode, mods: mods})
}

// processInjectedInput pops one event from the inject queue and routes it.
// Returns true if an event was consumed.
func (e *Engine) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	evt := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue[len(e.injectQueue)-1] = syntheticEvent{}
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]

	ev := InputEvent{
		Kind:      evt.kind,
		X:         evt.x,
		Y:         evt.y,
		DeltaY:    evt.deltaY,
		DeltaMode: evt.mode,
		Modifiers: evt.mods,
	}
	switch evt.kind {
	case EventPointerDown, EventPointerUp:
		ev.Target = e.TargetAt(evt.x, evt.y)
	case EventTouchStart, EventTouchMove:
		ev.Touches = make([]Touch, len(evt.touches))
		for i, p := range evt.touches {
			ev.Touches[i] = Touch{ID: i, X: p.X, Y: p.Y, Target: e.TargetAt(p.X, p.Y)}
		}
	}
	e.HandleInput(ev)
	return true
}

// PendingInput returns the number of queued synthetic events.
func (e *Engine) PendingInput() int { return len(e.injectQueue) }
