package planview

import (
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

func TestInjectClickSelectsMarker(t *testing.T) {
	e := newTestEngine(t)
	e.Markers().Add(Marker{ID: "m1", X: 200, Y: 300})
	var selected string
	e.OnSelect(func(c SelectContext) { selected = c.Marker.ID })

	e.InjectClick(200, 300)
	if e.PendingInput() != 2 {
		t.Fatalf("expected 2 queued events, got %d", e.PendingInput())
	}
	e.Tick(frame)
	if e.PendingInput() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", e.PendingInput())
	}
	if selected != "" {
		t.Error("selection should not happen on the press frame")
	}
	e.Tick(frame)
	if selected != "m1" {
		t.Errorf("selected = %q, want m1", selected)
	}
}

func TestInjectDrag(t *testing.T) {
	e := newTestEngine(t)
	e.SetZoom(2)
	phases := recordPhases(t, e)

	// frame 0: press, frames 1-3: moves, frame 4: release
	e.InjectDrag(300, 300, 200, 300, 5)
	if e.PendingInput() != 5 {
		t.Fatalf("expected 5 queued events, got %d", e.PendingInput())
	}
	for i := 0; i < 5; i++ {
		e.Tick(frame)
	}
	if len(*phases) < 2 || (*phases)[0].To != PhasePanning {
		t.Fatalf("transitions = %v", *phases)
	}
	if x, _ := e.Pan(); x >= 0 {
		t.Errorf("dragging left moved pan to %v", x)
	}
}

func TestInjectPinch(t *testing.T) {
	e := newTestEngine(t)
	e.InjectPinch(575, 680, 100, 150, 4)
	for i := 0; i < 3; i++ {
		e.Tick(frame)
	}
	if e.Phase() != PhasePinching {
		t.Fatalf("phase = %s, want pinching", e.Phase())
	}
	if !approxEqual(e.Zoom(), 2, epsilon) {
		t.Errorf("zoom = %v, want 2", e.Zoom())
	}
	e.Tick(frame)
	if e.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle after release", e.Phase())
	}
}

func TestInjectWheel(t *testing.T) {
	e := newTestEngine(t)
	e.InjectWheel(-100, DeltaPixel, 0)
	e.Tick(frame)
	if e.Zoom() <= 1 {
		t.Errorf("zoom = %v, want > 1", e.Zoom())
	}
}

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "snapshot", "label": "initial"},
			{"action": "click", "x": 100, "y": 200},
			{"action": "wait", "frames": 3},
			{"action": "pinch", "x": 575, "y": 680, "from": 100, "to": 200, "frames": 4}
		]
	}`)
	r, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.steps) != 4 {
		t.Fatalf("expected 4 steps, got %d", len(r.steps))
	}
	if r.steps[1].Action != "click" || r.steps[1].X != 100 || r.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	if r.steps[3].From != 100 || r.steps[3].To != 200 || r.steps[3].Frames != 4 {
		t.Error("step 3 mismatch")
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := map[string]string{
		"invalid json":   `not json`,
		"empty":          `{"steps": []}`,
		"unknown action": `{"steps": [{"action": "explode"}]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadScript([]byte(data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestScriptRunnerSession(t *testing.T) {
	e := newTestEngine(t)
	e.Markers().Add(Marker{ID: "m1", X: 500, Y: 600})
	data := []byte(`{"steps": [
		{"action": "snapshot", "label": "start"},
		{"action": "center", "x": 500, "y": 600, "zoom": 4, "ms": 0},
		{"action": "snapshot", "label": "centered"},
		{"action": "reset"},
		{"action": "select", "id": "m1"},
		{"action": "wait", "frames": 60},
		{"action": "snapshot", "label": "selected"},
		{"action": "select", "id": "ghost"}
	]}`)
	r, err := LoadScript(data)
	if err != nil {
		t.Fatal(err)
	}
	e.SetScriptRunner(r)
	for i := 0; i < 200 && !r.Done(); i++ {
		e.Tick(frame)
	}
	if !r.Done() {
		t.Fatal("script did not finish")
	}

	snaps := r.Snapshots()
	if len(snaps) != 3 {
		t.Fatalf("snapshots = %d, want 3", len(snaps))
	}
	if snaps[0].Label != "start" || snaps[0].ViewBox != (ViewBox{0, 0, 1150, 1360}) {
		t.Errorf("start snapshot = %+v", snaps[0])
	}
	if snaps[1].Zoom != 4 || snaps[1].ViewBox.Center() != (Vec2{X: 500, Y: 600}) {
		t.Errorf("centered snapshot = %+v", snaps[1])
	}
	if snaps[2].Phase != PhaseIdle {
		t.Errorf("selected snapshot phase = %s, want idle", snaps[2].Phase)
	}
	if id, _ := e.Selected(); id != "m1" {
		t.Errorf("selected = %q, want m1", id)
	}
	if r.Err() == nil {
		t.Error("expected an error for the unknown marker")
	}
}
