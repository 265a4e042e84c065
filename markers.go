package planview

import (
	"fmt"
	"math"
)

// Orientation is the facing of a poster mount on the plan.
type Orientation uint8

const (
	OrientNone Orientation = iota
	OrientNorth
	OrientEast
	OrientSouth
	OrientWest
)

var orientationNames = [...]string{"", "north", "east", "south", "west"}

func (o Orientation) String() string {
	if int(o) < len(orientationNames) {
		return orientationNames[o]
	}
	return "unknown"
}

// ParseOrientation parses a facing name such as "north" or "N". An empty
// string is OrientNone.
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "":
		return OrientNone, nil
	case "n", "N", "north", "North":
		return OrientNorth, nil
	case "e", "E", "east", "East":
		return OrientEast, nil
	case "s", "S", "south", "South":
		return OrientSouth, nil
	case "w", "W", "west", "West":
		return OrientWest, nil
	}
	return OrientNone, fmt.Errorf("unknown orientation %q", s)
}

// Marker is one poster mount placed on the plan in map coordinates.
type Marker struct {
	ID          string
	X, Y        float64
	Orientation Orientation
	// Fields holds the display fields shown in the info panel.
	Fields map[string]string
}

// MarkerSet is an ordered collection of markers keyed by ID.
type MarkerSet struct {
	list  []Marker
	index map[string]int
}

// NewMarkerSet creates an empty marker set.
func NewMarkerSet() *MarkerSet {
	return &MarkerSet{index: make(map[string]int)}
}

// Add inserts m, or replaces the marker with the same ID in place. Markers
// need a non-empty ID and finite coordinates.
func (s *MarkerSet) Add(m Marker) error {
	if m.ID == "" {
		return fmt.Errorf("marker: empty id")
	}
	if !finite(m.X, m.Y) {
		return fmt.Errorf("marker %q: non-finite position (%g, %g)", m.ID, m.X, m.Y)
	}
	if i, ok := s.index[m.ID]; ok {
		s.list[i] = m
		return nil
	}
	s.index[m.ID] = len(s.list)
	s.list = append(s.list, m)
	return nil
}

// Get returns the marker with the given ID.
func (s *MarkerSet) Get(id string) (Marker, bool) {
	i, ok := s.index[id]
	if !ok {
		return Marker{}, false
	}
	return s.list[i], true
}

// All returns the markers in insertion order. The slice must not be
// modified.
func (s *MarkerSet) All() []Marker { return s.list }

// Len returns the number of markers.
func (s *MarkerSet) Len() int { return len(s.list) }

// HitTest returns the marker nearest to map point (x, y) within radius, in
// map units. Later markers win ties since they are drawn on top.
func (s *MarkerSet) HitTest(x, y, radius float64) (Marker, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := len(s.list) - 1; i >= 0; i-- {
		m := s.list[i]
		c := HitCircle{CenterX: m.X, CenterY: m.Y, Radius: radius}
		if !c.Contains(x, y) {
			continue
		}
		if d := math.Hypot(x-m.X, y-m.Y); d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return Marker{}, false
	}
	return s.list[best], true
}

// Markers returns the engine's marker set.
func (e *Engine) Markers() *MarkerSet { return e.markers }
