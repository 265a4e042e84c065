package ebitenview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/planview"
)

const maxTouches = 10

// rawTouch is one touch as reported by ebiten this tick.
type rawTouch struct {
	id   ebiten.TouchID
	x, y float64
}

// touchTracker maps ebiten touch IDs to small stable slots and turns the
// per-tick touch list into start, move and end events.
type touchTracker struct {
	used  [maxTouches]bool
	ids   [maxTouches]ebiten.TouchID
	lastX [maxTouches]float64
	lastY [maxTouches]float64
}

// slot returns the existing slot for tid or allocates a new one. Returns -1
// if full.
func (t *touchTracker) slot(tid ebiten.TouchID) (int, bool) {
	for i := range t.used {
		if t.used[i] && t.ids[i] == tid {
			return i, false
		}
	}
	for i := range t.used {
		if !t.used[i] {
			t.used[i] = true
			t.ids[i] = tid
			return i, true
		}
	}
	return -1, false
}

// update diffs cur against the previous tick. resolve maps a screen point to
// the element under it.
func (t *touchTracker) update(cur []rawTouch, resolve func(x, y float64) planview.Target) []planview.InputEvent {
	var (
		active  [maxTouches]bool
		started []int
		moved   bool
	)
	for _, rt := range cur {
		i, isNew := t.slot(rt.id)
		if i < 0 {
			continue
		}
		active[i] = true
		if isNew {
			started = append(started, i)
		} else if rt.x != t.lastX[i] || rt.y != t.lastY[i] {
			moved = true
		}
		t.lastX[i], t.lastY[i] = rt.x, rt.y
	}

	var ended []planview.Touch
	for i := range t.used {
		if t.used[i] && !active[i] {
			ended = append(ended, planview.Touch{ID: i, X: t.lastX[i], Y: t.lastY[i], Target: resolve(t.lastX[i], t.lastY[i])})
			t.used[i] = false
		}
	}

	touches := func(first []int) []planview.Touch {
		var out []planview.Touch
		// Newly started touches lead so a single new finger is Touches[0].
		for _, i := range first {
			out = append(out, planview.Touch{ID: i, X: t.lastX[i], Y: t.lastY[i], Target: resolve(t.lastX[i], t.lastY[i])})
		}
		for i := range t.used {
			if !t.used[i] || contains(first, i) {
				continue
			}
			out = append(out, planview.Touch{ID: i, X: t.lastX[i], Y: t.lastY[i], Target: resolve(t.lastX[i], t.lastY[i])})
		}
		return out
	}

	var events []planview.InputEvent
	if len(ended) > 0 {
		remaining := touches(nil)
		// Touches that started this tick are reported by their own event.
		kept := remaining[:0]
		for _, tc := range remaining {
			if !contains(started, tc.ID) {
				kept = append(kept, tc)
			}
		}
		events = append(events, planview.InputEvent{Kind: planview.EventTouchEnd, Touches: kept, Changed: ended})
	}
	if len(started) > 0 {
		all := touches(started)
		changed := all[:len(started)]
		events = append(events, planview.InputEvent{Kind: planview.EventTouchStart, Touches: all, Changed: changed})
	} else if moved {
		events = append(events, planview.InputEvent{Kind: planview.EventTouchMove, Touches: touches(nil)})
	}
	return events
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// Poller reads ebiten mouse, touch, wheel and keyboard state once per tick
// and feeds it to an engine as InputEvents.
type Poller struct {
	touches  touchTracker
	touchBuf []ebiten.TouchID
	rawBuf   []rawTouch

	mouseDown    bool
	lastMX       float64
	lastMY       float64
	hoverID      string
	skipMouse    bool
	KeyZoomDelta float64 // wheel pixels per +/- key press
}

// NewPoller creates a poller.
func NewPoller() *Poller {
	return &Poller{KeyZoomDelta: 120}
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() planview.KeyModifiers {
	var mods planview.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= planview.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= planview.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= planview.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= planview.ModMeta
	}
	return mods
}

// Poll routes this tick's input to e.
func (p *Poller) Poll(e *planview.Engine) {
	mods := readModifiers()
	p.pollTouches(e)
	// Mobile browsers emulate the mouse from touches; ignore it while any
	// finger is down.
	if !p.skipMouse {
		p.pollMouse(e, mods)
	}
	p.pollWheel(e, mods)
	p.pollKeys(e)
}

func (p *Poller) pollTouches(e *planview.Engine) {
	p.touchBuf = ebiten.AppendTouchIDs(p.touchBuf[:0])
	p.rawBuf = p.rawBuf[:0]
	for _, id := range p.touchBuf {
		x, y := ebiten.TouchPosition(id)
		p.rawBuf = append(p.rawBuf, rawTouch{id: id, x: float64(x), y: float64(y)})
	}
	p.skipMouse = len(p.rawBuf) > 0
	for _, ev := range p.touches.update(p.rawBuf, e.TargetAt) {
		e.HandleInput(ev)
	}
}

func (p *Poller) pollMouse(e *planview.Engine, mods planview.KeyModifiers) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)

	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		p.mouseDown = true
		e.HandleInput(planview.InputEvent{Kind: planview.EventPointerDown, X: x, Y: y, Target: e.TargetAt(x, y), Modifiers: mods})
	case p.mouseDown && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		p.mouseDown = false
		e.HandleInput(planview.InputEvent{Kind: planview.EventPointerUp, X: x, Y: y, Target: e.TargetAt(x, y), Modifiers: mods})
	case p.mouseDown && (x != p.lastMX || y != p.lastMY):
		e.HandleInput(planview.InputEvent{Kind: planview.EventPointerMove, X: x, Y: y, Modifiers: mods})
	case !p.mouseDown && (x != p.lastMX || y != p.lastMY):
		p.hover(e, e.TargetAt(x, y))
	}
	p.lastMX, p.lastMY = x, y
}

// hover drives marker hover state from the resting cursor.
func (p *Poller) hover(e *planview.Engine, t planview.Target) {
	if t.Kind == planview.TargetMarker {
		if t.ID != p.hoverID && e.HoverMarker(t.ID) {
			p.hoverID = t.ID
		}
		return
	}
	if p.hoverID != "" {
		p.hoverID = ""
		e.LeaveMarker()
	}
}

func (p *Poller) pollWheel(e *planview.Engine, mods planview.KeyModifiers) {
	_, yoff := ebiten.Wheel()
	if yoff == 0 {
		return
	}
	// ebiten reports scroll-up as positive; DOM deltaY is the opposite.
	e.HandleInput(planview.InputEvent{Kind: planview.EventWheel, DeltaY: -yoff, DeltaMode: planview.DeltaLine, Modifiers: mods})
}

func (p *Poller) pollKeys(e *planview.Engine) {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		e.Wheel(-p.KeyZoomDelta, planview.DeltaPixel, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		e.Wheel(p.KeyZoomDelta, planview.DeltaPixel, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		e.ResetView()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		e.StopAllMotion()
		e.ClearSelection()
	}
}
