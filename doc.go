// Package planview is the viewport engine behind an interactive floor-plan
// viewer: a pannable, zoomable plan with clickable poster-mount markers.
//
// The package is headless. It turns raw pointer, touch and wheel input into
// a view box (the visible region of the plan in map coordinates) and hands
// every change to a [RenderSink]. The [Ebitengine] adapter in
// planview/ebitenview polls real input and draws the plan; any other
// backend only needs to build [InputEvent] values and apply view boxes.
//
// # Quick start
//
//	eng, err := planview.New(planview.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	eng.SetRenderSink(planview.RenderFunc(func(vb planview.ViewBox) {
//		svg.SetAttribute("viewBox", vb.String())
//	}))
//
//	// Per frame:
//	eng.HandleInput(ev) // for each input event
//	eng.Tick(dt)
//
// # Interaction phases
//
// An [Engine] is always in exactly one [Phase]: Idle, Panning, Inertial,
// Pinching or Animating. Only the controller that owns the phase writes the
// viewport, and entering Panning or Pinching stops any coast or animation
// first, so a late inertia frame can never undo a pinch. [Engine.OnTransition]
// observes every change.
//
// # Gestures
//
// A press on the map starts a drag. The plan follows the pointer faster at
// higher zoom (and faster still on touch screens), and a released drag
// coasts with exponentially decaying velocity. A quick flick gets a boost.
//
// A second finger aborts the drag without a coast and starts a pinch that
// keeps the point between the fingers fixed. Lifting one finger hands the
// remaining one to a fresh drag without a jump.
//
// The wheel zooms around the view center. A Ctrl-modified wheel is treated
// as a trackpad pinch and zooms harder for larger gestures.
//
// Presses on markers, control buttons and panels never start a drag; see
// [GestureRouter.Interactive] and [Engine.AddRegion].
//
// # Centering and selection
//
// [Engine.CenterOn] eases a map point to a focus point of the screen (via
// [gween]), optionally zooming in first. [Engine.Select] does this for a
// marker chosen from the data table or a search, and notifies
// [Engine.OnSelect] handlers so the table can highlight the matching row.
// A tap on the empty map clears the selection.
//
// # Configuration
//
// All tuning lives in [Config]. [LoadConfig] layers a YAML file and
// PLANVIEW_* environment variables over [DefaultConfig].
//
// # Automated sessions
//
// [Engine.InjectDrag], [Engine.InjectPinch] and friends queue synthetic
// input consumed one event per tick. [LoadScript] builds a [ScriptRunner]
// from JSON that replays a whole session and records view box snapshots.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
package planview
