package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/planview"
)

// markerFile is the YAML layout of a marker list:
//
//	markers:
//	  - id: P-101
//	    x: 412
//	    y: 230
//	    orientation: north
//	    fields:
//	      title: Sensor fusion for indoor mapping
type markerFile struct {
	Markers []markerEntry `yaml:"markers"`
}

type markerEntry struct {
	ID          string            `yaml:"id"`
	X           float64           `yaml:"x"`
	Y           float64           `yaml:"y"`
	Orientation string            `yaml:"orientation"`
	Fields      map[string]string `yaml:"fields"`
}

// loadMarkers reads a marker file into set.
func loadMarkers(path string, set *planview.MarkerSet) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read markers: %w", err)
	}
	var mf markerFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return 0, fmt.Errorf("parse markers %s: %w", path, err)
	}
	for i, m := range mf.Markers {
		o, err := planview.ParseOrientation(m.Orientation)
		if err != nil {
			return i, fmt.Errorf("marker %d (%s): %w", i, m.ID, err)
		}
		if err := set.Add(planview.Marker{ID: m.ID, X: m.X, Y: m.Y, Orientation: o, Fields: m.Fields}); err != nil {
			return i, fmt.Errorf("marker %d: %w", i, err)
		}
	}
	return len(mf.Markers), nil
}
