// Package geodata models a parsed GeoJSON FeatureCollection as immutable
// features owning polygon boundaries. Parsing is the cheap first phase of the
// pipeline; mesh construction happens later, on demand, per polygon.
package geodata

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Feature is one GeoJSON feature and the polygons it owns. A MultiPolygon
// geometry expands into several Polygons sharing the same Feature. Read-only
// after Parse.
type Feature struct {
	Index      int
	Properties geojson.Properties
	Polygons   []*Polygon
}

// Name returns a display name from the feature properties, checking the
// property keys commonly used by country/region datasets.
func (f *Feature) Name() string {
	for _, key := range []string{"name", "NAME", "Name", "ADMIN", "admin"} {
		if s, ok := f.Properties[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// Polygon is one exterior ring plus zero or more hole rings in geodetic
// degrees. Read-only after Parse; a Polygon can produce any number of meshes
// without being mutated.
type Polygon struct {
	FeatureIndex int
	Index        int // position within the owning feature
	rings        orb.Polygon
}

// Rings returns a copy of the boundary rings, exterior first. The copy keeps
// the stored polygon immutable under caller edits.
func (p *Polygon) Rings() orb.Polygon {
	return p.rings.Clone()
}

// Exterior returns a copy of the exterior ring.
func (p *Polygon) Exterior() orb.Ring {
	return p.rings[0].Clone()
}

// Dataset is the result of parsing a FeatureCollection: the features in
// document order and all polygons flattened across them (feature order, then
// ring order within a feature). Skipped lists per-feature parse failures;
// siblings of a failed feature are unaffected.
type Dataset struct {
	Features []*Feature
	Polygons []*Polygon
	Skipped  []*MalformedInputError
}
