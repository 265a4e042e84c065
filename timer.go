package planview

import "time"

// DelayedAction is a cancellable one-shot timer on the engine clock. Each
// Schedule supersedes the previous one, so at most one action is pending per
// handle.
//
// Handles are meant to be long-lived, one per tooltip or debounce site.
// Call Release when a handle is no longer needed.
type DelayedAction struct {
	owner     *Engine
	remaining time.Duration
	fn        func()
	pending   bool
}

// NewDelayedAction creates a delayed action driven by e.Tick.
func (e *Engine) NewDelayedAction() *DelayedAction {
	d := &DelayedAction{owner: e}
	e.timers = append(e.timers, d)
	return d
}

// Release cancels the action and detaches the handle from its engine.
// Schedule on a released handle does nothing. Releasing twice is harmless.
func (d *DelayedAction) Release() {
	d.Cancel()
	e := d.owner
	if e == nil {
		return
	}
	d.owner = nil
	// Build a new slice so a Tick ranging over the old one is unaffected.
	kept := make([]*DelayedAction, 0, len(e.timers))
	for _, t := range e.timers {
		if t != d {
			kept = append(kept, t)
		}
	}
	e.timers = kept
}

// Schedule arranges for fn to run after delay, cancelling whatever was
// scheduled before. A non-positive delay runs fn on the next tick.
func (d *DelayedAction) Schedule(delay time.Duration, fn func()) {
	if d.owner == nil {
		return
	}
	if fn == nil {
		d.Cancel()
		return
	}
	d.remaining = max(delay, 0)
	d.fn = fn
	d.pending = true
}

// Cancel drops the pending action, if any.
func (d *DelayedAction) Cancel() {
	d.pending = false
	d.fn = nil
	d.remaining = 0
}

// Pending reports whether an action is waiting to run.
func (d *DelayedAction) Pending() bool { return d.pending }

// advance moves the timer forward by dt and runs the action if it is due.
func (d *DelayedAction) advance(dt time.Duration) {
	if !d.pending {
		return
	}
	d.remaining -= dt
	if d.remaining > 0 {
		return
	}
	fn := d.fn
	d.Cancel()
	fn()
}
