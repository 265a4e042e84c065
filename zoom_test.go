package planview

import (
	"math"
	"testing"
)

func newTestZoom() (*ZoomController, *Viewport, *Config) {
	cfg := DefaultConfig()
	vp := NewViewport(cfg.BaseWidth, cfg.BaseHeight, cfg.MinZoom, cfg.MaxZoom)
	return newZoomController(&cfg, vp), vp, &cfg
}

func TestNormalizeDelta(t *testing.T) {
	z, _, _ := newTestZoom()
	tests := []struct {
		delta float64
		mode  DeltaMode
		want  float64
	}{
		{10, DeltaPixel, 10},
		{3, DeltaLine, 48},
		{-1, DeltaPage, -800},
	}
	for _, tt := range tests {
		if got := z.normalizeDelta(tt.delta, tt.mode); got != tt.want {
			t.Errorf("normalizeDelta(%v, %v) = %v, want %v", tt.delta, tt.mode, got, tt.want)
		}
	}
}

func TestWheelZoom(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		mode  DeltaMode
		mods  KeyModifiers
		want  float64
	}{
		{"wheel in", -100, DeltaPixel, 0, 2 * math.Exp(0.2)},
		{"wheel out", 100, DeltaPixel, 0, 2 * math.Exp(-0.2)},
		{"line mode", -3, DeltaLine, 0, 2 * math.Exp(48*0.002)},
		// deltaFactor 1.2, zoomFactor 1.25 at zoom 2
		{"trackpad pinch", -10, DeltaPixel, ModCtrl, 2 * math.Exp(10*0.01*1.2*1.25)},
		// deltaFactor capped at 3
		{"trackpad large", -500, DeltaPixel, ModCtrl, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, vp, _ := newTestZoom()
			vp.SetZoom(2)
			vp.SetPan(30, -40)
			z.wheel(tt.delta, tt.mode, tt.mods)
			if !approxEqual(vp.Zoom(), tt.want, 1e-9) {
				t.Errorf("zoom = %v, want %v", vp.Zoom(), tt.want)
			}
			if x, y := vp.Pan(); x != 30 || y != -40 {
				t.Errorf("wheel moved pan to (%v,%v)", x, y)
			}
		})
	}
}

func TestWheelZoomClamped(t *testing.T) {
	z, vp, _ := newTestZoom()
	for _, d := range []float64{-1e6, -5000, 1e6, 1e308, -1e308} {
		z.wheel(d, DeltaPage, ModCtrl)
		if zz := vp.Zoom(); zz < 1 || zz > 8 || math.IsNaN(zz) {
			t.Errorf("wheel(%v): zoom = %v out of bounds", d, zz)
		}
	}
}

func TestWheelIgnoresNaN(t *testing.T) {
	z, vp, _ := newTestZoom()
	vp.SetZoom(3)
	if z.wheel(math.NaN(), DeltaPixel, 0) {
		t.Error("NaN wheel reported a change")
	}
	if vp.Zoom() != 3 {
		t.Errorf("zoom = %v, want 3", vp.Zoom())
	}
}

func TestPinchAnchorPreserved(t *testing.T) {
	tests := []struct {
		name       string
		midX, midY float64
		to         float64
	}{
		{"center", 575, 680, 150},
		{"off center", 300, 400, 150},
		{"corner-ish", 1000, 1200, 130},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z, vp, _ := newTestZoom()
			mx0, my0 := vp.ScreenToMap(tt.midX, tt.midY)
			z.begin(100)
			z.update(tt.to, tt.midX, tt.midY)
			mx, my := vp.ScreenToMap(tt.midX, tt.midY)
			if !approxEqual(mx, mx0, 1e-9) || !approxEqual(my, my0, 1e-9) {
				t.Errorf("anchor moved from (%v,%v) to (%v,%v)", mx0, my0, mx, my)
			}
		})
	}
}

func TestPinchAnchorAcrossMoves(t *testing.T) {
	e := newTestEngine(t)
	// Offset, letterboxed screen as the ebiten adapter may lay it out.
	e.SetScreen(Rect{X: 100, Y: 50, Width: 800, Height: 450})
	pair := func(midX, midY, dist float64) []Touch {
		return []Touch{touch(0, midX-dist/2, midY), touch(1, midX+dist/2, midY)}
	}
	e.HandleInput(InputEvent{Kind: EventTouchStart, Touches: pair(400, 200, 100)})
	if e.Phase() != PhasePinching {
		t.Fatalf("phase = %s, want pinching", e.Phase())
	}

	moves := []struct {
		midX, midY, dist float64
	}{
		{420, 230, 120},
		{470, 260, 140},
		{520, 320, 170},
		{560, 330, 200},
	}
	for i, m := range moves {
		mx0, my0 := e.Viewport().ScreenToMap(m.midX, m.midY)
		e.HandleInput(InputEvent{Kind: EventTouchMove, Touches: pair(m.midX, m.midY, m.dist)})
		mx, my := e.Viewport().ScreenToMap(m.midX, m.midY)
		if !approxEqual(mx, mx0, 1e-9) || !approxEqual(my, my0, 1e-9) {
			t.Errorf("move %d: anchor moved from (%v,%v) to (%v,%v)", i, mx0, my0, mx, my)
		}
		want := 1 + (m.dist/100-1)*e.Config().PinchGain
		if !approxEqual(e.Zoom(), want, epsilon) {
			t.Errorf("move %d: zoom = %v, want %v", i, e.Zoom(), want)
		}
	}
	vb := e.ViewBox()
	if vb.X < -epsilon || vb.Y < -epsilon || vb.X+vb.Width > 1150+epsilon || vb.Y+vb.Height > 1360+epsilon {
		t.Errorf("view box %v left the plan", vb)
	}
}

func TestPinchGain(t *testing.T) {
	z, vp, _ := newTestZoom()
	vp.SetZoom(2)
	z.begin(200)
	z.update(250, 575, 680)
	// scale 1.25, adjusted 1.5
	if !approxEqual(vp.Zoom(), 3, epsilon) {
		t.Errorf("zoom = %v, want 3", vp.Zoom())
	}
	if _, startZoom, _ := z.PinchStart(); startZoom != 2 {
		t.Errorf("startZoom = %v, want 2", startZoom)
	}
}

func TestPinchZoomClamped(t *testing.T) {
	z, vp, _ := newTestZoom()
	z.begin(100)
	for _, d := range []float64{1, 10, 50, 99, 100, 101, 500, 5000, 1e9} {
		z.update(d, 123, 456)
		if zz := vp.Zoom(); zz < 1 || zz > 8 {
			t.Errorf("update(%v): zoom = %v out of bounds", d, zz)
		}
	}
}

func TestPinchOutClampsPan(t *testing.T) {
	z, vp, _ := newTestZoom()
	vp.SetZoom(2)
	vp.SetPan(200, 200)
	z.begin(200)
	z.update(20, 100, 100)
	if vp.Zoom() != 1 {
		t.Errorf("zoom = %v, want 1", vp.Zoom())
	}
	if x, y := vp.Pan(); x != 0 || y != 0 {
		t.Errorf("pan = (%v,%v), want (0,0) at zoom 1", x, y)
	}
}

func TestPinchRejectsBadInput(t *testing.T) {
	z, vp, _ := newTestZoom()
	if z.begin(0) || z.begin(-5) || z.begin(math.Inf(1)) {
		t.Error("begin accepted an unusable distance")
	}
	if z.Pinching() {
		t.Fatal("pinch session created from bad input")
	}
	z.begin(100)
	vp.SetZoom(2)
	for _, args := range [][3]float64{
		{math.NaN(), 10, 10},
		{120, math.NaN(), 10},
		{0, 10, 10},
	} {
		if z.update(args[0], args[1], args[2]) {
			t.Errorf("update%v reported a change", args)
		}
	}
	if vp.Zoom() != 2 {
		t.Errorf("zoom = %v, want 2", vp.Zoom())
	}
}
