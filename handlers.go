package planview

// PhaseChange is passed to OnTransition callbacks.
type PhaseChange struct {
	From, To Phase
}

// TapContext is passed to OnTap callbacks.
type TapContext struct {
	Target Target
	X, Y   float64 // screen coordinates of the press
	Input  InputType
}

// SelectSource says where a selection came from. Selections from the table
// or search box center the plan on the marker; selections made by tapping
// the marker itself do not move the plan.
type SelectSource uint8

const (
	SelectFromMap    SelectSource = iota // marker tapped on the plan
	SelectFromTable                      // row clicked in the data table
	SelectFromSearch                     // search result chosen
)

var selectSourceNames = [...]string{"map", "table", "search"}

func (s SelectSource) String() string {
	if int(s) < len(selectSourceNames) {
		return selectSourceNames[s]
	}
	return "unknown"
}

// SelectContext is passed to OnSelect callbacks.
type SelectContext struct {
	Marker Marker
	Source SelectSource
}

// HoverContext is passed to OnHover callbacks. Marker is nil when the hover
// tooltip should hide.
type HoverContext struct {
	Marker *Marker
}

type callbackKind uint8

const (
	callbackTransition callbackKind = iota
	callbackTap
	callbackSelect
	callbackClearSelection
	callbackHover
)

type handler[T any] struct {
	id uint32
	fn func(T)
}

type handlerRegistry struct {
	transition     []handler[PhaseChange]
	tap            []handler[TapContext]
	selection      []handler[SelectContext]
	clearSelection []handler[struct{}]
	hover          []handler[HoverContext]
	nextID         uint32
}

// CallbackHandle allows removing a registered engine callback.
type CallbackHandle struct {
	id   uint32
	reg  *handlerRegistry
	kind callbackKind
}

// Remove unregisters this callback so it no longer fires. Removing twice is
// harmless.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	switch h.kind {
	case callbackTransition:
		h.reg.transition = removeHandler(h.reg.transition, h.id)
	case callbackTap:
		h.reg.tap = removeHandler(h.reg.tap, h.id)
	case callbackSelect:
		h.reg.selection = removeHandler(h.reg.selection, h.id)
	case callbackClearSelection:
		h.reg.clearSelection = removeHandler(h.reg.clearSelection, h.id)
	case callbackHover:
		h.reg.hover = removeHandler(h.reg.hover, h.id)
	}
}

func removeHandler[T any](s []handler[T], id uint32) []handler[T] {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = handler[T]{}
			return s[:len(s)-1]
		}
	}
	return s
}

func addHandler[T any](reg *handlerRegistry, s *[]handler[T], kind callbackKind, fn func(T)) CallbackHandle {
	reg.nextID++
	id := reg.nextID
	*s = append(*s, handler[T]{id: id, fn: fn})
	return CallbackHandle{id: id, reg: reg, kind: kind}
}

// fire calls every handler in s. The slice is copied first so a handler may
// remove itself.
func fire[T any](s []handler[T], v T) {
	if len(s) == 0 {
		return
	}
	hs := make([]handler[T], len(s))
	copy(hs, s)
	for _, h := range hs {
		h.fn(v)
	}
}

// --- Engine-level registration ---

// OnTransition registers a callback for every phase change.
func (e *Engine) OnTransition(fn func(PhaseChange)) CallbackHandle {
	return addHandler(&e.handlers, &e.handlers.transition, callbackTransition, fn)
}

// OnTap registers a callback for completed, unsuppressed taps and clicks.
func (e *Engine) OnTap(fn func(TapContext)) CallbackHandle {
	return addHandler(&e.handlers, &e.handlers.tap, callbackTap, fn)
}

// OnSelect registers a callback for marker selection.
func (e *Engine) OnSelect(fn func(SelectContext)) CallbackHandle {
	return addHandler(&e.handlers, &e.handlers.selection, callbackSelect, fn)
}

// OnClearSelection registers a callback fired when a selection is cleared.
func (e *Engine) OnClearSelection(fn func()) CallbackHandle {
	return addHandler(&e.handlers, &e.handlers.clearSelection, callbackClearSelection, func(struct{}) { fn() })
}

// OnHover registers a callback for marker hover changes.
func (e *Engine) OnHover(fn func(HoverContext)) CallbackHandle {
	return addHandler(&e.handlers, &e.handlers.hover, callbackHover, fn)
}

func (e *Engine) firePhaseChange(c PhaseChange) { fire(e.handlers.transition, c) }

func (e *Engine) fireTap(c TapContext) { fire(e.handlers.tap, c) }

func (e *Engine) fireSelect(c SelectContext) { fire(e.handlers.selection, c) }

func (e *Engine) fireClearSelection() { fire(e.handlers.clearSelection, struct{}{}) }

func (e *Engine) fireHover(c HoverContext) { fire(e.handlers.hover, c) }
