package geodata

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// MalformedInputError records a feature (and optionally one of its polygons)
// that could not be parsed. PolygonIndex is -1 when the failure is not tied
// to a single polygon.
type MalformedInputError struct {
	FeatureIndex int
	PolygonIndex int
	Reason       string
	Err          error
}

func (e *MalformedInputError) Error() string {
	if e.PolygonIndex >= 0 {
		return fmt.Sprintf("malformed input: feature %d polygon %d: %s", e.FeatureIndex, e.PolygonIndex, e.Reason)
	}
	return fmt.Sprintf("malformed input: feature %d: %s", e.FeatureIndex, e.Reason)
}

func (e *MalformedInputError) Unwrap() error { return e.Err }

// Parse converts an already-decoded FeatureCollection into a Dataset. Only a
// nil collection is a fatal error; features with unsupported geometry or
// unusable rings are skipped and recorded in Dataset.Skipped, so one bad
// feature never fails the batch.
func Parse(fc *geojson.FeatureCollection) (*Dataset, error) {
	if fc == nil {
		return nil, fmt.Errorf("parse geodata: nil feature collection")
	}

	ds := &Dataset{}
	for i, f := range fc.Features {
		addFeature(ds, i, f)
	}
	return ds, nil
}

// ParseJSON decodes raw GeoJSON bytes and parses them. The document must be
// a valid JSON FeatureCollection at the top level; individual features that
// fail to decode are skipped and recorded, matching Parse.
func ParseJSON(data []byte) (*Dataset, error) {
	var envelope struct {
		Type     string            `json:"type"`
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse geodata: invalid JSON document: %w", err)
	}
	if envelope.Type != "FeatureCollection" {
		return nil, fmt.Errorf("parse geodata: top-level type is %q, want FeatureCollection", envelope.Type)
	}

	ds := &Dataset{}
	for i, raw := range envelope.Features {
		f, err := geojson.UnmarshalFeature(raw)
		if err != nil {
			ds.Skipped = append(ds.Skipped, &MalformedInputError{
				FeatureIndex: i,
				PolygonIndex: -1,
				Reason:       "feature does not decode",
				Err:          err,
			})
			continue
		}
		addFeature(ds, i, f)
	}
	return ds, nil
}

// addFeature converts one decoded feature, expanding MultiPolygon members
// into separate Polygons that share the feature identity.
func addFeature(ds *Dataset, index int, f *geojson.Feature) {
	if f == nil || f.Geometry == nil {
		ds.Skipped = append(ds.Skipped, &MalformedInputError{
			FeatureIndex: index,
			PolygonIndex: -1,
			Reason:       "missing geometry",
		})
		return
	}

	var members []orb.Polygon
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		members = []orb.Polygon{g}
	case orb.MultiPolygon:
		members = g
	default:
		ds.Skipped = append(ds.Skipped, &MalformedInputError{
			FeatureIndex: index,
			PolygonIndex: -1,
			Reason:       fmt.Sprintf("unsupported geometry type %q", f.Geometry.GeoJSONType()),
		})
		return
	}

	feature := &Feature{
		Index:      index,
		Properties: f.Properties,
	}

	for mi, member := range members {
		rings, err := closeRings(member)
		if err != nil {
			ds.Skipped = append(ds.Skipped, &MalformedInputError{
				FeatureIndex: index,
				PolygonIndex: mi,
				Reason:       err.Error(),
			})
			continue
		}
		poly := &Polygon{
			FeatureIndex: index,
			Index:        len(feature.Polygons),
			rings:        rings,
		}
		feature.Polygons = append(feature.Polygons, poly)
		ds.Polygons = append(ds.Polygons, poly)
	}

	// A feature whose polygons all failed carries no geometry worth keeping.
	if len(feature.Polygons) > 0 {
		ds.Features = append(ds.Features, feature)
	}
}

// closeRings validates and auto-closes every ring of a polygon. A ring with
// fewer than 3 distinct points cannot form a boundary.
func closeRings(p orb.Polygon) (orb.Polygon, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("polygon has no rings")
	}
	out := make(orb.Polygon, 0, len(p))
	for ri, r := range p {
		ring := r.Clone()
		// Ring.Closed also requires 4 points, so compare endpoints directly
		// or a short closed ring would be closed a second time.
		if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		if distinctPoints(ring) < 3 {
			return nil, fmt.Errorf("ring %d has fewer than 3 distinct points", ri)
		}
		out = append(out, ring)
	}
	return out, nil
}

// distinctPoints counts the boundary vertices of a closed ring: consecutive
// duplicates collapse and the closing run back onto the first point does not
// count.
func distinctPoints(r orb.Ring) int {
	pts := make([]orb.Point, 0, len(r))
	for _, pt := range r {
		if len(pts) > 0 && pt == pts[len(pts)-1] {
			continue
		}
		pts = append(pts, pt)
	}
	for len(pts) > 1 && pts[len(pts)-1] == pts[0] {
		pts = pts[:len(pts)-1]
	}
	return len(pts)
}
