package ebitenview

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/planview"
)

// Palette colors the plan drawing.
type Palette struct {
	Background color.Color
	Plan       color.Color
	Grid       color.Color
	Marker     color.Color
	Selected   color.Color
	Hovered    color.Color
}

// DefaultPalette is a dark theme that keeps markers readable over a plan
// image.
var DefaultPalette = Palette{
	Background: color.RGBA{0x23, 0x1e, 0x2d, 0xff},
	Plan:       color.RGBA{0xd0, 0xd0, 0xd0, 0xff},
	Grid:       color.RGBA{0x50, 0x50, 0x60, 0xff},
	Marker:     color.RGBA{0x4c, 0xb3, 0xe6, 0xff},
	Selected:   color.RGBA{0xff, 0xb3, 0x33, 0xff},
	Hovered:    color.RGBA{0xff, 0xff, 0xff, 0xff},
}

// Renderer draws the plan and its markers through the engine's view box. It
// is the engine's RenderSink.
type Renderer struct {
	// Plan is an optional backdrop image stretched over the whole plan.
	Plan *ebiten.Image
	// GridStep is the map-space spacing of the guide grid drawn when there
	// is no plan image. Zero disables the grid.
	GridStep float64
	Palette  Palette
	// ShowHUD prints zoom, phase and FPS in the corner.
	ShowHUD bool

	vb planview.ViewBox
}

// NewRenderer creates a renderer with the default palette.
func NewRenderer() *Renderer {
	return &Renderer{GridStep: 100, Palette: DefaultPalette, ShowHUD: true}
}

// ApplyViewBox records the latest view box; it is drawn on the next frame.
func (r *Renderer) ApplyViewBox(vb planview.ViewBox) {
	r.vb = vb
}

// ViewBox returns the last view box received.
func (r *Renderer) ViewBox() planview.ViewBox { return r.vb }

// planGeoM maps plan image pixels to screen pixels for the current view box.
func (r *Renderer) planGeoM(imgW, imgH int, baseW, baseH float64, screen planview.Rect) ebiten.GeoM {
	var m ebiten.GeoM
	m.Scale(baseW/float64(imgW), baseH/float64(imgH))
	m.Translate(-r.vb.X, -r.vb.Y)
	m.Scale(screen.Width/r.vb.Width, screen.Height/r.vb.Height)
	m.Translate(screen.X, screen.Y)
	return m
}

// Draw renders the current view of e onto screen.
func (r *Renderer) Draw(screen *ebiten.Image, e *planview.Engine) {
	screen.Fill(r.Palette.Background)
	if r.vb.Width <= 0 || r.vb.Height <= 0 {
		return
	}
	vp := e.Viewport()
	baseW, baseH := vp.BaseSize()

	if r.Plan != nil {
		b := r.Plan.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM = r.planGeoM(b.Dx(), b.Dy(), baseW, baseH, vp.Screen())
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(r.Plan, op)
	} else {
		r.drawGrid(screen, vp, baseW, baseH)
	}

	x0, y0 := vp.MapToScreen(0, 0)
	x1, y1 := vp.MapToScreen(baseW, baseH)
	vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 2, r.Palette.Plan, true)

	r.drawMarkers(screen, e)

	if r.ShowHUD {
		x, y := e.Pan()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("zoom %.2f  pan %.0f,%.0f  %s\nFPS: %.1f  TPS: %.1f",
			e.Zoom(), x, y, e.Phase(), ebiten.ActualFPS(), ebiten.ActualTPS()), 4, 4)
	}
}

func (r *Renderer) drawGrid(screen *ebiten.Image, vp *planview.Viewport, baseW, baseH float64) {
	if r.GridStep <= 0 {
		return
	}
	for gx := r.GridStep; gx < baseW; gx += r.GridStep {
		sx0, sy0 := vp.MapToScreen(gx, 0)
		sx1, sy1 := vp.MapToScreen(gx, baseH)
		vector.StrokeLine(screen, float32(sx0), float32(sy0), float32(sx1), float32(sy1), 1, r.Palette.Grid, false)
	}
	for gy := r.GridStep; gy < baseH; gy += r.GridStep {
		sx0, sy0 := vp.MapToScreen(0, gy)
		sx1, sy1 := vp.MapToScreen(baseW, gy)
		vector.StrokeLine(screen, float32(sx0), float32(sy0), float32(sx1), float32(sy1), 1, r.Palette.Grid, false)
	}
}

func (r *Renderer) drawMarkers(screen *ebiten.Image, e *planview.Engine) {
	vp := e.Viewport()
	radius := float32(e.Config().MarkerHitRadius * 0.6)
	selected, _ := e.Selected()
	hovered, _ := e.Hovered()
	for _, m := range e.Markers().All() {
		sx, sy := vp.MapToScreen(m.X, m.Y)
		cx, cy := float32(sx), float32(sy)
		vector.DrawFilledCircle(screen, cx, cy, radius, r.Palette.Marker, true)
		if tx, ty, ok := facing(m.Orientation, radius); ok {
			vector.StrokeLine(screen, cx, cy, cx+tx, cy+ty, 2, r.Palette.Plan, true)
		}
		switch m.ID {
		case selected:
			vector.StrokeCircle(screen, cx, cy, radius+4, 2, r.Palette.Selected, true)
		case hovered:
			vector.StrokeCircle(screen, cx, cy, radius+3, 1, r.Palette.Hovered, true)
			ebitenutil.DebugPrintAt(screen, m.ID, int(sx)+int(radius)+4, int(sy)-8)
		}
	}
}

// facing returns the tick offset drawn for a marker's orientation.
func facing(o planview.Orientation, r float32) (dx, dy float32, ok bool) {
	switch o {
	case planview.OrientNorth:
		return 0, -r * 1.6, true
	case planview.OrientEast:
		return r * 1.6, 0, true
	case planview.OrientSouth:
		return 0, r * 1.6, true
	case planview.OrientWest:
		return -r * 1.6, 0, true
	}
	return 0, 0, false
}
