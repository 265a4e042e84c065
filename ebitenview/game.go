// Package ebitenview runs a planview engine inside an Ebitengine window. It
// polls mouse, touch, wheel and keyboard input into the engine, drives the
// engine clock from the game tick and draws the plan through the engine's
// view box.
package ebitenview

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/planview"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowHUD prints zoom, pan, phase and FPS in the corner.
	ShowHUD bool
	// Plan is an optional backdrop image for the plan.
	Plan *ebiten.Image
	// Script replays an automated session. Snapshot steps also save a PNG
	// of the frame to ScreenshotDir.
	Script        *planview.ScriptRunner
	ScreenshotDir string
	// ExitOnScriptDone closes the window once Script has finished.
	ExitOnScriptDone bool
	Logger           *slog.Logger
}

// Game implements ebiten.Game for a planview engine.
type Game struct {
	eng      *planview.Engine
	renderer *Renderer
	poller   *Poller
	shots    screenshotter
	logger   *slog.Logger

	script    *planview.ScriptRunner
	seenSnaps int
	exitDone  bool
}

// errScriptDone ends RunGame after an automated session.
var errScriptDone = errors.New("script finished")

// NewGame wires eng to a renderer and an input poller.
func NewGame(eng *planview.Engine, cfg RunConfig) *Game {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := NewRenderer()
	r.Plan = cfg.Plan
	r.ShowHUD = cfg.ShowHUD
	eng.SetRenderSink(r)

	g := &Game{
		eng:      eng,
		renderer: r,
		poller:   NewPoller(),
		shots:    screenshotter{dir: cfg.ScreenshotDir},
		logger:   logger,
		script:   cfg.Script,
		exitDone: cfg.ExitOnScriptDone,
	}
	if g.shots.dir == "" {
		g.shots.dir = "screenshots"
	}
	if g.script != nil {
		eng.SetScriptRunner(g.script)
	}
	return g
}

// Engine returns the engine driven by the game.
func (g *Game) Engine() *planview.Engine { return g.eng }

// Renderer returns the game's renderer.
func (g *Game) Renderer() *Renderer { return g.renderer }

// Update polls input and advances the engine by one tick.
func (g *Game) Update() error {
	g.poller.Poll(g.eng)
	g.eng.Tick(time.Second / time.Duration(ebiten.TPS()))

	if g.script == nil {
		return nil
	}
	snaps := g.script.Snapshots()
	for _, s := range snaps[g.seenSnaps:] {
		g.logger.Info("snapshot", "label", s.Label, "view_box", s.ViewBox.String(), "zoom", s.Zoom, "phase", s.Phase.String())
		g.shots.request(s.Label)
	}
	g.seenSnaps = len(snaps)

	if g.script.Done() && g.exitDone && len(g.shots.queue) == 0 {
		if err := g.script.Err(); err != nil {
			return fmt.Errorf("script: %w", err)
		}
		return errScriptDone
	}
	return nil
}

// Draw renders the plan and writes any pending screenshots.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.eng)
	n := len(g.shots.written)
	if err := g.shots.flush(screen); err != nil {
		g.logger.Error("screenshot failed", "err", err)
		return
	}
	for _, path := range g.shots.written[n:] {
		g.logger.Info("screenshot saved", "path", path)
	}
}

// Layout sizes the engine's screen rect to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	scr := planview.Rect{Width: float64(outsideWidth), Height: float64(outsideHeight)}
	if g.eng.Viewport().Screen() != scr {
		g.eng.SetScreen(scr)
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and blocks until it is closed.
func Run(eng *planview.Engine, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "planview"
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1150/2, 1360/2
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(NewGame(eng, cfg))
	if errors.Is(err, errScriptDone) {
		return nil
	}
	return err
}
