package planview

import (
	"math"
	"time"
)

// EventKind identifies a kind of raw input event.
type EventKind uint8

const (
	EventPointerDown   EventKind = iota // mouse button pressed
	EventPointerMove                    // mouse moved
	EventPointerUp                      // mouse button released
	EventPointerCancel                  // pointer capture lost
	EventTouchStart                     // a finger touched down
	EventTouchMove                      // one or more fingers moved
	EventTouchEnd                       // a finger lifted
	EventTouchCancel                    // the platform aborted the touch sequence
	EventWheel                          // wheel or trackpad scroll
	EventGestureStart                   // native (Safari) gesture began
	EventGestureChange                  // native (Safari) gesture changed
)

var eventKindNames = [...]string{
	"pointerdown", "pointermove", "pointerup", "pointercancel",
	"touchstart", "touchmove", "touchend", "touchcancel",
	"wheel", "gesturestart", "gesturechange",
}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// TargetKind classifies what an event landed on.
type TargetKind uint8

const (
	TargetMap     TargetKind = iota // empty plan surface
	TargetMarker                    // a poster-mount marker
	TargetControl                   // a UI control button
	TargetPanel                     // an overlay panel such as the data table
)

// Target identifies the element under an event.
type Target struct {
	Kind TargetKind
	ID   string
}

// MapTarget is the empty plan surface.
var MapTarget = Target{Kind: TargetMap}

// Touch is one active touch point in screen coordinates.
type Touch struct {
	ID     int
	X, Y   float64
	Target Target
}

// InputEvent is a raw pointer, touch, wheel or gesture event.
type InputEvent struct {
	Kind EventKind
	// At is the event time on the host's monotonic clock. Zero means "now"
	// on the engine's own clock.
	At time.Duration

	// Pointer and wheel events.
	X, Y   float64
	Target Target

	// Touch events. Touches lists the touches still down after the event;
	// Changed lists the touches that started, moved or ended in it.
	Touches []Touch
	Changed []Touch

	// Wheel events.
	DeltaY    float64
	DeltaMode DeltaMode

	Modifiers KeyModifiers
}

// pinchGeometry returns the distance between two touches and their midpoint.
func pinchGeometry(a, b Touch) (dist, midX, midY float64) {
	return math.Hypot(b.X-a.X, b.Y-a.Y), (a.X + b.X) / 2, (a.Y + b.Y) / 2
}
