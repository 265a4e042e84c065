package planview

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"
)

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxZoom = 0.5
	if _, err := New(cfg); err == nil {
		t.Error("expected error for max_zoom below min_zoom")
	}
}

func TestNewDefaults(t *testing.T) {
	e := newTestEngine(t)
	if e.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle", e.Phase())
	}
	if e.ViewBox() != (ViewBox{0, 0, 1150, 1360}) {
		t.Errorf("ViewBox = %v", e.ViewBox())
	}
}

func TestPhaseTransitionTable(t *testing.T) {
	legal := map[[2]Phase]bool{
		{PhaseIdle, PhasePanning}:       true,
		{PhaseIdle, PhasePinching}:      true,
		{PhaseIdle, PhaseAnimating}:     true,
		{PhasePanning, PhaseIdle}:       true,
		{PhasePanning, PhaseInertial}:   true,
		{PhasePanning, PhasePinching}:   true,
		{PhaseInertial, PhaseIdle}:      true,
		{PhaseInertial, PhasePanning}:   true,
		{PhasePinching, PhaseIdle}:      true,
		{PhasePinching, PhasePanning}:   true,
		{PhaseAnimating, PhaseIdle}:     true,
		{PhaseAnimating, PhasePanning}:  true,
		{PhaseAnimating, PhasePinching}: true,
	}
	for from := PhaseIdle; from <= PhaseAnimating; from++ {
		for to := PhaseIdle; to <= PhaseAnimating; to++ {
			want := legal[[2]Phase{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
	if CanTransition(Phase(9), PhaseIdle) {
		t.Error("unknown phase allowed")
	}
}

// recordPhases collects every transition and fails on any illegal one.
func recordPhases(t *testing.T, e *Engine) *[]PhaseChange {
	t.Helper()
	var got []PhaseChange
	e.OnTransition(func(c PhaseChange) {
		if !CanTransition(c.From, c.To) {
			t.Errorf("illegal transition %s -> %s", c.From, c.To)
		}
		got = append(got, c)
	})
	return &got
}

// flingRight drags the map quickly to the right and releases, leaving the
// engine coasting.
func flingRight(t *testing.T, e *Engine) {
	t.Helper()
	start := e.Now()
	e.HandleInput(InputEvent{Kind: EventPointerDown, At: start + ms(1), X: 100, Y: 100, Target: MapTarget})
	for i := 1; i <= 10; i++ {
		e.HandleInput(InputEvent{Kind: EventPointerMove, At: start + ms(1+i*10), X: float64(100 + i*40), Y: 100})
	}
	e.HandleInput(InputEvent{Kind: EventPointerUp, At: start + ms(110), X: 500, Y: 100})
	if e.Phase() != PhaseInertial {
		t.Fatalf("phase after fling = %s, want inertial", e.Phase())
	}
}

func TestDragCoastStop(t *testing.T) {
	e := newTestEngine(t)
	e.SetZoom(2)
	phases := recordPhases(t, e)
	flingRight(t, e)
	x0, _ := e.Pan()
	tickUntilIdle(t, e)
	x1, _ := e.Pan()
	if x1 <= x0 {
		t.Errorf("coast did not carry the plan: %v -> %v", x0, x1)
	}
	want := []Phase{PhasePanning, PhaseInertial, PhaseIdle}
	if len(*phases) != len(want) {
		t.Fatalf("transitions = %v, want to %v", *phases, want)
	}
	for i, c := range *phases {
		if c.To != want[i] {
			t.Errorf("transition %d to %s, want %s", i, c.To, want[i])
		}
	}
}

func TestTickClampsLongFrames(t *testing.T) {
	a := newTestEngine(t)
	b := newTestEngine(t)
	for _, e := range []*Engine{a, b} {
		e.SetZoom(2)
		e.pan.coast(0.5, 0)
		e.phase = PhasePanning
		e.setPhase(PhaseInertial)
	}
	a.Tick(5 * time.Second)
	b.Tick(250 * time.Millisecond)
	ax, _ := a.Pan()
	bx, _ := b.Pan()
	if ax != bx {
		t.Errorf("5s frame moved pan to %v, 250ms frame to %v", ax, bx)
	}
	if a.Now() != 5*time.Second {
		t.Errorf("Now = %v, want the real elapsed time", a.Now())
	}
}

func TestStopAllMotionIdempotent(t *testing.T) {
	e := newTestEngine(t)
	phases := recordPhases(t, e)
	e.StopAllMotion()
	e.StopAllMotion()
	if len(*phases) != 0 {
		t.Errorf("StopAllMotion from idle changed phase: %v", *phases)
	}

	e.SetZoom(2)
	flingRight(t, e)
	e.StopAllMotion()
	x, y := e.Pan()
	e.StopAllMotion()
	e.Tick(16 * time.Millisecond)
	if e.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle", e.Phase())
	}
	if x2, y2 := e.Pan(); x2 != x || y2 != y {
		t.Error("plan moved after StopAllMotion")
	}
	if !e.sessionsConsistent() {
		t.Error("sessions left behind")
	}
}

func TestResetViewFromEveryPhase(t *testing.T) {
	setups := map[string]func(t *testing.T, e *Engine){
		"idle": func(t *testing.T, e *Engine) {},
		"panning": func(t *testing.T, e *Engine) {
			e.BeginPan(10, 10, InputMouse)
			e.UpdatePan(90, 40)
		},
		"inertial": func(t *testing.T, e *Engine) { flingRight(t, e) },
		"pinching": func(t *testing.T, e *Engine) {
			e.BeginPinch(100)
			e.UpdatePinch(300, 200, 200)
		},
		"animating": func(t *testing.T, e *Engine) {
			e.CenterOn(100, 100, CenterOptions{Duration: time.Second, MinZoom: 3})
		},
	}
	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			e := newTestEngine(t)
			e.SetZoom(2)
			setup(t, e)
			e.ResetView()
			if e.Phase() != PhaseIdle {
				t.Errorf("phase = %s, want idle", e.Phase())
			}
			if e.Zoom() != 1 {
				t.Errorf("zoom = %v, want 1", e.Zoom())
			}
			if x, y := e.Pan(); x != 0 || y != 0 {
				t.Errorf("pan = (%v,%v), want default", x, y)
			}
			e.Tick(100 * time.Millisecond)
			if e.Phase() != PhaseIdle || e.Zoom() != 1 {
				t.Error("motion resumed after reset")
			}
		})
	}
}

func TestNonFiniteInputIgnored(t *testing.T) {
	e := newTestEngine(t)
	e.SetZoom(2)
	e.SetPan(10, 10)
	before := e.ViewBox()
	nan := math.NaN()

	e.SetZoom(nan)
	e.SetPan(nan, 0)
	e.SetPan(0, math.Inf(-1))
	e.HandleInput(InputEvent{Kind: EventPointerDown, X: nan, Y: 0})
	e.HandleInput(InputEvent{Kind: EventWheel, DeltaY: nan})
	e.HandleInput(InputEvent{Kind: EventTouchStart, Touches: []Touch{{ID: 0, X: nan, Y: 1}}})
	if e.BeginPinch(nan) {
		t.Error("BeginPinch accepted NaN")
	}
	if e.ViewBox() != before {
		t.Errorf("view box changed: %v -> %v", before, e.ViewBox())
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle", e.Phase())
	}
	if e.Stats().Ignored == 0 {
		t.Error("ignored frames not counted")
	}

	// Mid-pan garbage is dropped without ending the drag.
	e.BeginPan(100, 100, InputMouse)
	e.UpdatePan(nan, 120)
	if e.Phase() != PhasePanning {
		t.Errorf("phase = %s, want panning", e.Phase())
	}
}

func TestWheelCancelsAnimationNotInertia(t *testing.T) {
	e := newTestEngine(t)
	e.SetZoom(2)
	flingRight(t, e)
	e.Wheel(-100, DeltaPixel, 0)
	if e.Phase() != PhaseInertial {
		t.Errorf("wheel during coast: phase = %s, want inertial", e.Phase())
	}

	e.StopAllMotion()
	e.CenterOn(300, 300, CenterOptions{Duration: time.Second})
	e.Wheel(-100, DeltaPixel, 0)
	if e.Phase() != PhaseIdle {
		t.Errorf("wheel during animation: phase = %s, want idle", e.Phase())
	}
	if e.center.Running() {
		t.Error("animation still running after wheel")
	}
}

func TestWheelDuringDragRebases(t *testing.T) {
	e := newTestEngine(t)
	e.SetZoom(2)
	e.BeginPan(100, 100, InputMouse)
	e.UpdatePan(140, 100)
	x0, _ := e.Pan()
	e.Wheel(-100, DeltaPixel, 0)
	e.UpdatePan(140, 100)
	if x, _ := e.Pan(); x != x0 {
		t.Errorf("pan jumped after wheel: %v -> %v", x0, x)
	}
}

func TestBeginPanStopsAnimation(t *testing.T) {
	e := newTestEngine(t)
	done := false
	e.CenterOn(200, 200, CenterOptions{Duration: time.Second, MinZoom: 3, OnDone: func() { done = true }})
	e.Tick(100 * time.Millisecond)
	e.BeginPan(50, 50, InputTouch)
	if e.Phase() != PhasePanning {
		t.Fatalf("phase = %s, want panning", e.Phase())
	}
	e.EndPan()
	for i := 0; i < 100; i++ {
		e.Tick(16 * time.Millisecond)
	}
	if done {
		t.Error("OnDone fired after the user took over")
	}
}

func TestBeginPinchFromInertia(t *testing.T) {
	e := newTestEngine(t)
	e.SetZoom(2)
	phases := recordPhases(t, e)
	flingRight(t, e)
	if !e.BeginPinch(120) {
		t.Fatal("BeginPinch refused")
	}
	if e.Phase() != PhasePinching {
		t.Fatalf("phase = %s, want pinching", e.Phase())
	}
	if e.pan.Coasting() {
		t.Error("coast survived the pinch")
	}
	n := len(*phases)
	if (*phases)[n-2].To != PhaseIdle || (*phases)[n-1].To != PhasePinching {
		t.Errorf("inertial -> pinching did not go through idle: %v", *phases)
	}
	x, y := e.Pan()
	for i := 0; i < 20; i++ {
		e.Tick(16 * time.Millisecond)
	}
	if x2, y2 := e.Pan(); x2 != x || y2 != y {
		t.Error("inertia moved the plan during a pinch")
	}
}

func TestRenderSinkReceivesEveryChange(t *testing.T) {
	e := newTestEngine(t)
	var got []ViewBox
	e.SetRenderSink(RenderFunc(func(vb ViewBox) { got = append(got, vb) }))
	if len(got) != 1 {
		t.Fatalf("SetRenderSink rendered %d times, want 1", len(got))
	}
	e.SetZoom(2)
	e.SetPan(10, 0)
	if len(got) != 3 {
		t.Fatalf("renders = %d, want 3", len(got))
	}
	if got[2] != e.ViewBox() {
		t.Errorf("last render %v, want %v", got[2], e.ViewBox())
	}
	if e.Stats().Renders != 3 {
		t.Errorf("Stats().Renders = %d, want 3", e.Stats().Renders)
	}
}

func TestLoggerRecordsTransitions(t *testing.T) {
	e := newTestEngine(t)
	var buf bytes.Buffer
	e.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	e.BeginPan(0, 0, InputMouse)
	if !strings.Contains(buf.String(), "to=panning") {
		t.Errorf("log missing transition: %q", buf.String())
	}
	e.SetLogger(nil)
	e.EndPan()
}

func TestLoggerNamesIgnoredCall(t *testing.T) {
	tests := []struct {
		call func(e *Engine)
		want string
	}{
		{func(e *Engine) { e.SetZoom(math.NaN()) }, "op=SetZoom"},
		{func(e *Engine) { e.SetPan(math.Inf(1), 0) }, "op=SetPan"},
		{func(e *Engine) { e.CenterOn(math.NaN(), 0, CenterOptions{}) }, "op=CenterOn"},
		{func(e *Engine) { e.Wheel(math.NaN(), DeltaPixel, 0) }, "op=Wheel"},
		{func(e *Engine) {
			e.HandleInput(InputEvent{Kind: EventPointerDown, X: math.NaN(), Target: MapTarget})
		}, "op=pointerdown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			e := newTestEngine(t)
			var buf bytes.Buffer
			e.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
			tt.call(e)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("log = %q, want %s", buf.String(), tt.want)
			}
		})
	}
}

func TestIllegalTransitionPanicsInDebug(t *testing.T) {
	e := newTestEngine(t)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for idle -> inertial")
		}
	}()
	e.setPhase(PhaseInertial)
}

func TestIllegalTransitionWarnsInRelease(t *testing.T) {
	e := newTestEngine(t)
	e.SetDebugMode(false)
	var buf bytes.Buffer
	e.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	e.setPhase(PhaseInertial)
	if !strings.Contains(buf.String(), "illegal phase transition") {
		t.Errorf("log = %q", buf.String())
	}
	if e.Stats().Illegal != 1 {
		t.Errorf("Stats().Illegal = %d, want 1", e.Stats().Illegal)
	}
}
