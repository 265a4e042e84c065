package planview

import (
	"encoding/json"
	"fmt"
	"time"
)

// scriptStep represents a single action in a session script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	ID     string  `json:"id,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	From   float64 `json:"from,omitempty"` // pinch start distance
	To     float64 `json:"to,omitempty"`   // pinch end distance
	DeltaY float64 `json:"deltaY,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
	Zoom   float64 `json:"zoom,omitempty"`
	Ms     int     `json:"ms,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a session script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"snapshot": true,
	"click":    true,
	"drag":     true,
	"pinch":    true,
	"wheel":    true,
	"center":   true,
	"select":   true,
	"wait":     true,
	"reset":    true,
}

// Snapshot is the view recorded by a "snapshot" step.
type Snapshot struct {
	Label   string
	At      time.Duration
	ViewBox ViewBox
	Zoom    float64
	Phase   Phase
}

// ScriptRunner replays a scripted interaction session against an Engine,
// one step per tick, recording snapshots along the way. Attach it with
// Engine.SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	snapshots []Snapshot
	err       error
}

// LoadScript parses a JSON session script, e.g.
//
//	{"steps": [
//	  {"action": "drag", "fromX": 100, "fromY": 100, "toX": 300, "toY": 100, "frames": 6},
//	  {"action": "wait", "frames": 30},
//	  {"action": "snapshot", "label": "after-drag"}
//	]}
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var s script
	if err := json.Unmarshal(jsonData, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range s.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: s.Steps}, nil
}

// SetScriptRunner attaches a runner to the engine. The runner's step method
// is called from Tick before injected input is processed. Nil detaches.
func (e *Engine) SetScriptRunner(r *ScriptRunner) {
	e.script = r
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool { return r.done }

// Snapshots returns the snapshots recorded so far.
func (r *ScriptRunner) Snapshots() []Snapshot { return r.snapshots }

// Err returns the first error raised by a step, such as selecting an
// unknown marker. Failing steps are skipped.
func (r *ScriptRunner) Err() error { return r.err }

// step advances the runner by one tick.
func (r *ScriptRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "snapshot":
		r.snapshots = append(r.snapshots, Snapshot{
			Label:   st.Label,
			At:      e.now,
			ViewBox: e.ViewBox(),
			Zoom:    e.Zoom(),
			Phase:   e.phase,
		})
	case "click":
		e.InjectClick(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "pinch":
		e.InjectPinch(st.X, st.Y, st.From, st.To, st.Frames)
	case "wheel":
		var mods KeyModifiers
		if st.Ctrl {
			mods |= ModCtrl
		}
		e.InjectWheel(st.DeltaY, DeltaPixel, mods)
	case "center":
		e.CenterOn(st.X, st.Y, CenterOptions{
			Duration: time.Duration(st.Ms) * time.Millisecond,
			MinZoom:  st.Zoom,
		})
	case "select":
		if err := e.Select(st.ID, SelectFromSearch); err != nil && r.err == nil {
			r.err = fmt.Errorf("script step %d: %w", r.cursor-1, err)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "reset":
		e.ResetView()
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}
