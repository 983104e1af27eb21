// Package ellipsoid maps geodetic coordinates onto a reference spheroid.
//
// Longitudes and latitudes are in degrees, heights in the same unit as the
// ellipsoid radii (meters for WGS84). Callers are responsible for consistent
// longitude unwrapping: a ring that crosses the ±180° seam must be unwrapped
// before projection or the produced geometry wraps the long way around.
package ellipsoid

import (
	"math"

	vmath "github.com/terradyne/globemesh/pkg/math"
)

// Ellipsoid is an oblate spheroid defined by its semi-major and semi-minor
// radii. The zero value is not usable; construct with New or use WGS84.
// Ellipsoid values are immutable and safe to share across goroutines.
type Ellipsoid struct {
	a, b float64 // semi-major (equatorial), semi-minor (polar)
	e2   float64 // first eccentricity squared
	ep2  float64 // second eccentricity squared
}

// WGS84 is the standard Earth reference ellipsoid, radii in meters.
var WGS84 = New(6378137.0, 6356752.314245)

// New creates an ellipsoid from semi-major and semi-minor radii.
func New(semiMajor, semiMinor float64) Ellipsoid {
	a2 := semiMajor * semiMajor
	b2 := semiMinor * semiMinor
	return Ellipsoid{
		a:   semiMajor,
		b:   semiMinor,
		e2:  (a2 - b2) / a2,
		ep2: (a2 - b2) / b2,
	}
}

// SemiMajor returns the equatorial radius.
func (e Ellipsoid) SemiMajor() float64 { return e.a }

// SemiMinor returns the polar radius.
func (e Ellipsoid) SemiMinor() float64 { return e.b }

// SurfaceNormal returns the outward geodetic unit normal at the given
// longitude/latitude in degrees. This is the normal of the ellipsoid surface
// itself, independent of any triangulation, so adjacent vertices shade
// smoothly across curvature.
func (e Ellipsoid) SurfaceNormal(lonDeg, latDeg float64) vmath.Vec3 {
	lon := lonDeg * math.Pi / 180
	lat := latDeg * math.Pi / 180
	cosLat := math.Cos(lat)
	return vmath.Vec3{
		X: cosLat * math.Cos(lon),
		Y: cosLat * math.Sin(lon),
		Z: math.Sin(lat),
	}
}

// ToCartesian converts a geodetic coordinate and height above the surface to
// an ECEF-style Cartesian position. The height offset moves the point along
// the local surface normal. Stable at the poles (cos(lat) reaching zero only
// zeroes the equatorial components).
func (e Ellipsoid) ToCartesian(lonDeg, latDeg, height float64) vmath.Vec3 {
	lon := lonDeg * math.Pi / 180
	lat := latDeg * math.Pi / 180
	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)

	// Prime vertical radius of curvature.
	n := e.a / math.Sqrt(1-e.e2*sinLat*sinLat)

	return vmath.Vec3{
		X: (n + height) * cosLat * math.Cos(lon),
		Y: (n + height) * cosLat * math.Sin(lon),
		Z: (n*(1-e.e2) + height) * sinLat,
	}
}

// ToGeodetic inverts ToCartesian, returning longitude/latitude in degrees and
// height above the surface. Uses Bowring's single-iteration approximation,
// which is accurate to well below a millimeter for points near the surface.
func (e Ellipsoid) ToGeodetic(p vmath.Vec3) (lonDeg, latDeg, height float64) {
	lon := math.Atan2(p.Y, p.X)
	rho := math.Hypot(p.X, p.Y)

	if rho < 1e-9*e.a {
		// On the polar axis.
		lat := math.Pi / 2
		if p.Z < 0 {
			lat = -lat
		}
		return lon * 180 / math.Pi, lat * 180 / math.Pi, math.Abs(p.Z) - e.b
	}

	theta := math.Atan2(p.Z*e.a, rho*e.b)
	sinT := math.Sin(theta)
	cosT := math.Cos(theta)
	lat := math.Atan2(
		p.Z+e.ep2*e.b*sinT*sinT*sinT,
		rho-e.e2*e.a*cosT*cosT*cosT,
	)

	sinLat := math.Sin(lat)
	cosLat := math.Cos(lat)
	n := e.a / math.Sqrt(1-e.e2*sinLat*sinLat)
	// Use whichever height formula is better conditioned at this latitude.
	if math.Abs(cosLat) > math.Abs(sinLat) {
		height = rho/cosLat - n
	} else {
		height = p.Z/sinLat - n*(1-e.e2)
	}

	return lon * 180 / math.Pi, lat * 180 / math.Pi, height
}
