package geodata

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

func square(x, y, size float64) orb.Ring {
	return orb.Ring{
		{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y},
	}
}

func TestParseMultiPolygon(t *testing.T) {
	// Two disjoint squares in one MultiPolygon: one feature, two polygons.
	fc := geojson.NewFeatureCollection()
	f := geojson.NewFeature(orb.MultiPolygon{
		{square(0, 0, 1)},
		{square(5, 5, 1)},
	})
	f.Properties = geojson.Properties{"name": "islands"}
	fc.Append(f)

	ds, err := Parse(fc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(ds.Features) != 1 {
		t.Fatalf("len(Features) = %d, want 1", len(ds.Features))
	}
	if len(ds.Features[0].Polygons) != 2 {
		t.Errorf("feature polygons = %d, want 2", len(ds.Features[0].Polygons))
	}
	if len(ds.Polygons) != 2 {
		t.Errorf("flattened polygons = %d, want 2", len(ds.Polygons))
	}
	if got := ds.Features[0].Name(); got != "islands" {
		t.Errorf("Name() = %q, want %q", got, "islands")
	}
	for i, p := range ds.Polygons {
		if p.FeatureIndex != 0 || p.Index != i {
			t.Errorf("polygon %d has FeatureIndex=%d Index=%d", i, p.FeatureIndex, p.Index)
		}
	}
}

func TestParseOrderFlattened(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{square(0, 0, 1)}))
	fc.Append(geojson.NewFeature(orb.MultiPolygon{{square(2, 0, 1)}, {square(4, 0, 1)}}))

	ds, err := Parse(fc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ds.Polygons) != 3 {
		t.Fatalf("flattened polygons = %d, want 3", len(ds.Polygons))
	}
	wantFeature := []int{0, 1, 1}
	for i, p := range ds.Polygons {
		if p.FeatureIndex != wantFeature[i] {
			t.Errorf("polygon %d FeatureIndex = %d, want %d", i, p.FeatureIndex, wantFeature[i])
		}
	}
}

func TestParseSkipsUnsupportedGeometry(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))
	fc.Append(geojson.NewFeature(orb.Polygon{square(0, 0, 1)}))

	ds, err := Parse(fc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ds.Features) != 1 {
		t.Errorf("len(Features) = %d, want 1", len(ds.Features))
	}
	if len(ds.Skipped) != 1 {
		t.Fatalf("len(Skipped) = %d, want 1", len(ds.Skipped))
	}
	if ds.Skipped[0].FeatureIndex != 0 {
		t.Errorf("skipped FeatureIndex = %d, want 0", ds.Skipped[0].FeatureIndex)
	}
}

func TestParseAutoClosesRing(t *testing.T) {
	open := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 1}} // not closed
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{open}))

	ds, err := Parse(fc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ds.Polygons) != 1 {
		t.Fatalf("flattened polygons = %d, want 1", len(ds.Polygons))
	}
	ext := ds.Polygons[0].Exterior()
	if !ext.Closed() {
		t.Error("exterior ring not auto-closed")
	}
}

func TestParseRejectsTinyRing(t *testing.T) {
	// Closure handling must not manufacture a third distinct point: a short
	// closed ring gains nothing from auto-closing, and a duplicated closing
	// vertex still only closes the ring.
	rings := []orb.Ring{
		{{0, 0}, {1, 1}, {0, 0}},
		{{0, 0}, {1, 1}, {0, 0}, {0, 0}},
		{{0, 0}, {1, 1}},
		{{0, 0}},
	}
	for _, ring := range rings {
		fc := geojson.NewFeatureCollection()
		fc.Append(geojson.NewFeature(orb.Polygon{ring}))

		ds, err := Parse(fc)
		if err != nil {
			t.Fatalf("%v: Parse failed: %v", ring, err)
		}
		if len(ds.Polygons) != 0 {
			t.Errorf("%v: flattened polygons = %d, want 0", ring, len(ds.Polygons))
		}
		if len(ds.Skipped) != 1 {
			t.Fatalf("%v: len(Skipped) = %d, want 1", ring, len(ds.Skipped))
		}
		if ds.Skipped[0].PolygonIndex != 0 {
			t.Errorf("%v: skipped PolygonIndex = %d, want 0", ring, ds.Skipped[0].PolygonIndex)
		}
	}
}

func TestParseAcceptsMinimalTriangle(t *testing.T) {
	// Three distinct points, open and closed forms.
	for _, ring := range []orb.Ring{
		{{0, 0}, {1, 0}, {0, 1}},
		{{0, 0}, {1, 0}, {0, 1}, {0, 0}},
	} {
		fc := geojson.NewFeatureCollection()
		fc.Append(geojson.NewFeature(orb.Polygon{ring}))

		ds, err := Parse(fc)
		if err != nil {
			t.Fatalf("%v: Parse failed: %v", ring, err)
		}
		if len(ds.Polygons) != 1 {
			t.Fatalf("%v: flattened polygons = %d, want 1 (skipped: %v)", ring, len(ds.Polygons), ds.Skipped)
		}
		ext := ds.Polygons[0].Exterior()
		if !ext.Closed() || len(ext) != 4 {
			t.Errorf("%v: exterior = %v, want closed 4-point ring", ring, ext)
		}
	}
}

func TestParseMultiPolygonPartialFailure(t *testing.T) {
	// One degenerate member must not take down its sibling.
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.MultiPolygon{
		{{{0, 0}, {1, 1}, {0, 0}}},
		{square(0, 0, 1)},
	}))

	ds, err := Parse(fc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(ds.Polygons) != 1 {
		t.Errorf("flattened polygons = %d, want 1", len(ds.Polygons))
	}
	if len(ds.Skipped) != 1 {
		t.Errorf("len(Skipped) = %d, want 1", len(ds.Skipped))
	}
}

func TestParseJSON(t *testing.T) {
	doc := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"properties": {"name": "box"},
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]
				}
			}
		]
	}`)

	ds, err := ParseJSON(doc)
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if len(ds.Features) != 1 || len(ds.Polygons) != 1 {
		t.Fatalf("got %d features, %d polygons, want 1 and 1", len(ds.Features), len(ds.Polygons))
	}
	if got := ds.Features[0].Name(); got != "box" {
		t.Errorf("Name() = %q, want %q", got, "box")
	}
}

func TestParseJSONTopLevelErrors(t *testing.T) {
	if _, err := ParseJSON([]byte("{not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := ParseJSON([]byte(`{"type":"Feature"}`)); err == nil {
		t.Error("expected error for non-FeatureCollection document")
	}
}

func TestParseJSONSkipsBadFeature(t *testing.T) {
	doc := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{
				"type": "Feature",
				"geometry": {"type": "Polygon", "coordinates": [[["a","b"]]]}
			},
			{
				"type": "Feature",
				"geometry": {
					"type": "Polygon",
					"coordinates": [[[0,0],[1,0],[1,1],[0,1],[0,0]]]
				}
			}
		]
	}`)

	ds, err := ParseJSON(doc)
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if len(ds.Polygons) != 1 {
		t.Errorf("flattened polygons = %d, want 1", len(ds.Polygons))
	}
	if len(ds.Skipped) != 1 {
		t.Fatalf("len(Skipped) = %d, want 1", len(ds.Skipped))
	}
	if ds.Skipped[0].FeatureIndex != 0 {
		t.Errorf("skipped FeatureIndex = %d, want 0", ds.Skipped[0].FeatureIndex)
	}
}

func TestRingsReturnsCopy(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Polygon{square(0, 0, 1)}))
	ds, err := Parse(fc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	rings := ds.Polygons[0].Rings()
	rings[0][0] = orb.Point{99, 99}

	if ds.Polygons[0].Exterior()[0] != (orb.Point{0, 0}) {
		t.Error("mutating Rings() result changed the stored polygon")
	}
}
