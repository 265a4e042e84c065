package planview

// Phase is the interaction state of an Engine. Exactly one phase is active
// and only the controller owning it may write the viewport.
type Phase uint8

const (
	PhaseIdle      Phase = iota // nothing moving
	PhasePanning                // a pointer or finger is dragging the plan
	PhaseInertial               // the plan coasts after a released drag
	PhasePinching               // two fingers are zooming
	PhaseAnimating              // a programmatic CenterOn is running
)

var phaseNames = [...]string{"idle", "panning", "inertial", "pinching", "animating"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// legalTransitions lists the direct edges of the interaction state machine.
// Any phase may stop to Idle; other moves without a direct edge go through
// Idle first.
var legalTransitions = [5][5]bool{
	PhaseIdle: {
		PhasePanning:   true,
		PhasePinching:  true,
		PhaseAnimating: true,
	},
	PhasePanning: {
		PhaseIdle:     true,
		PhaseInertial: true,
		PhasePinching: true,
	},
	PhaseInertial: {
		PhaseIdle:    true,
		PhasePanning: true,
	},
	PhasePinching: {
		PhaseIdle:    true,
		PhasePanning: true,
	},
	PhaseAnimating: {
		PhaseIdle:     true,
		PhasePanning:  true,
		PhasePinching: true,
	},
}

// CanTransition reports whether from -> to is a direct edge of the state
// machine.
func CanTransition(from, to Phase) bool {
	if int(from) >= len(legalTransitions) || int(to) >= len(legalTransitions) {
		return false
	}
	return legalTransitions[from][to]
}

// Transition describes the effect of one HandleInput call.
type Transition struct {
	From, To Phase
	// Handled is true when the event was consumed by the engine rather than
	// left to the target element's own handler.
	Handled bool
	// PreventDefault asks the host to suppress the platform's default
	// action (native scrolling, browser pinch zoom).
	PreventDefault bool
	// Suppressed is true for a duplicate tap swallowed by the tap window.
	Suppressed bool
}

// Changed reports whether the phase changed.
func (t Transition) Changed() bool {
	return t.From != t.To
}
