// Package extrude builds closed solid meshes from polygon boundaries: a
// triangulated top cap, a mirrored bottom cap, and side walls joining them.
// In flat mode the polygon is extruded along the +Z axis with lon/lat as
// planar x/y; with an ellipsoid every vertex is projected through the
// geodetic transform and the extrusion follows the local surface normal.
//
// Rings crossing the antimeridian must be longitude-unwrapped by the caller
// before building; without unwrapping the mesh spans the globe the long way
// around (no crash, documented defect surface).
package extrude

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/terradyne/globemesh/pkg/ellipsoid"
	"github.com/terradyne/globemesh/pkg/geodata"
	vmath "github.com/terradyne/globemesh/pkg/math"
	"github.com/terradyne/globemesh/pkg/triangulate"
)

// Options configures one mesh build. The zero value is a flat extrusion of
// zero thickness.
type Options struct {
	// Thickness is the extrusion distance: world units along +Z in flat
	// mode, meters above the surface in ellipsoid mode. Zero produces a
	// flat double-sided cap with zero-volume walls.
	Thickness float64

	// Ellipsoid switches to curved-surface projection when non-nil. The
	// referenced value is never mutated and may be shared across builds.
	Ellipsoid *ellipsoid.Ellipsoid

	// Resolution controls boundary tessellation density in ellipsoid mode;
	// higher is finer. Ignored in flat mode, and 0 disables subdivision.
	Resolution float64
}

// Mesh is an indexed triangle mesh: one normal per position, indices in
// triples wound so face normals point out of the solid.
type Mesh struct {
	Positions []vmath.Vec3
	Normals   []vmath.Vec3
	Indices   []uint32
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// SurfaceArea returns the summed area of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	var sum float64
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Positions[m.Indices[i]]
		b := m.Positions[m.Indices[i+1]]
		c := m.Positions[m.Indices[i+2]]
		sum += b.Sub(a).Cross(c.Sub(a)).Length() / 2
	}
	return sum
}

// Bounds returns the axis-aligned bounding box of the positions.
func (m *Mesh) Bounds() (min, max vmath.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		min = min.Min(p)
		max = max.Max(p)
	}
	return
}

// DegenerateGeometryError reports a polygon whose boundary collapsed under
// triangulation (for example a ring flattened to a line). Sibling polygons
// are unaffected; the indices identify the culprit for skip-and-continue.
type DegenerateGeometryError struct {
	FeatureIndex int
	PolygonIndex int
}

func (e *DegenerateGeometryError) Error() string {
	return fmt.Sprintf("degenerate geometry: feature %d polygon %d triangulates to nothing", e.FeatureIndex, e.PolygonIndex)
}

// Build constructs the solid mesh for one polygon. It is a pure function of
// the polygon and options: the polygon is not mutated and every call
// allocates fresh buffers, so builds for different polygons can run on
// independent goroutines.
func Build(p *geodata.Polygon, opts Options) (*Mesh, error) {
	rings := triangulate.Normalize(p.Rings())
	if opts.Ellipsoid != nil {
		rings = tessellatePolygon(rings, opts.Resolution)
	}

	tri := triangulate.Polygon(rings)
	if tri.TriangleCount() == 0 {
		return nil, &DegenerateGeometryError{
			FeatureIndex: p.FeatureIndex,
			PolygonIndex: p.Index,
		}
	}

	proj := newProjector(opts.Ellipsoid)
	m := &Mesh{}
	buildCaps(m, tri, proj, opts.Thickness)
	for _, ring := range rings {
		buildWalls(m, ring, proj, opts.Thickness)
	}
	return m, nil
}

// projector maps a parameter-space point and height to a world position and
// the local up (outward) direction.
type projector struct {
	ell *ellipsoid.Ellipsoid
}

func newProjector(ell *ellipsoid.Ellipsoid) projector {
	return projector{ell: ell}
}

func (pr projector) at(pt orb.Point, height float64) (pos, up vmath.Vec3) {
	if pr.ell == nil {
		return vmath.Vec3{X: pt[0], Y: pt[1], Z: height}, vmath.Vec3{Z: 1}
	}
	up = pr.ell.SurfaceNormal(pt[0], pt[1])
	pos = pr.ell.ToCartesian(pt[0], pt[1], height)
	return pos, up
}

// buildCaps emits the top cap at the extrusion height and the bottom cap at
// the base, sharing one triangulation. The bottom cap reverses winding and
// normals so both faces point out of the solid.
func buildCaps(m *Mesh, tri triangulate.Triangulation, proj projector, thickness float64) {
	topBase := uint32(len(m.Positions))
	for _, pt := range tri.Points {
		pos, up := proj.at(pt, thickness)
		m.Positions = append(m.Positions, pos)
		m.Normals = append(m.Normals, up)
	}
	for _, idx := range tri.Indices {
		m.Indices = append(m.Indices, topBase+uint32(idx))
	}

	bottomBase := uint32(len(m.Positions))
	for _, pt := range tri.Points {
		pos, up := proj.at(pt, 0)
		m.Positions = append(m.Positions, pos)
		m.Normals = append(m.Normals, up.Scale(-1))
	}
	for i := 0; i+2 < len(tri.Indices); i += 3 {
		m.Indices = append(m.Indices,
			bottomBase+uint32(tri.Indices[i]),
			bottomBase+uint32(tri.Indices[i+2]),
			bottomBase+uint32(tri.Indices[i+1]),
		)
	}
}

// buildWalls emits two triangles per ring edge, joining top and bottom.
// The ring must already be winding-normalized (exterior counterclockwise,
// holes clockwise) so that edgeDir × up faces away from the solid. In
// ellipsoid mode each endpoint uses its own surface normal, so walls lean
// with the curvature instead of sharing one global up.
func buildWalls(m *Mesh, ring orb.Ring, proj projector, thickness float64) {
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		if a == b {
			continue
		}

		topA, upA := proj.at(a, thickness)
		topB, upB := proj.at(b, thickness)
		botA, _ := proj.at(a, 0)
		botB, _ := proj.at(b, 0)

		edge := botB.Sub(botA)
		if edge.Length() == 0 {
			edge = topB.Sub(topA)
		}
		nA := edge.Cross(upA).Normalize()
		nB := edge.Cross(upB).Normalize()

		base := uint32(len(m.Positions))
		m.Positions = append(m.Positions, topA, topB, botA, botB)
		m.Normals = append(m.Normals, nA, nB, nA, nB)
		m.Indices = append(m.Indices,
			base, base+2, base+3,
			base, base+3, base+1,
		)
	}
}
