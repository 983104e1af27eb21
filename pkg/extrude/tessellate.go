package extrude

import (
	"math"

	"github.com/paulmach/orb"
)

// TessellateRing subdivides every edge of the ring into sub-edges so the
// boundary tracks surface curvature after projection. Each edge of angular
// length d degrees becomes ceil(d * resolution) sub-edges, so longer edges
// get proportionally more subdivisions and visual density stays roughly
// uniform. A resolution of 0 or less returns the ring unchanged; flat mode
// never calls this.
//
// Subdivision interpolates linearly in lon/lat, so a ring crossing the ±180°
// seam must be unwrapped first, same as projection.
func TessellateRing(ring orb.Ring, resolution float64) orb.Ring {
	if resolution <= 0 || len(ring) < 2 {
		return ring
	}

	out := make(orb.Ring, 0, len(ring))
	for i := 0; i < len(ring)-1; i++ {
		a, b := ring[i], ring[i+1]
		out = append(out, a)

		d := math.Hypot(b[0]-a[0], b[1]-a[1])
		n := int(math.Ceil(d * resolution))
		for k := 1; k < n; k++ {
			t := float64(k) / float64(n)
			out = append(out, orb.Point{
				a[0] + (b[0]-a[0])*t,
				a[1] + (b[1]-a[1])*t,
			})
		}
	}
	out = append(out, ring[len(ring)-1])
	return out
}

// tessellatePolygon applies TessellateRing to every ring.
func tessellatePolygon(p orb.Polygon, resolution float64) orb.Polygon {
	if resolution <= 0 {
		return p
	}
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		out[i] = TessellateRing(r, resolution)
	}
	return out
}
