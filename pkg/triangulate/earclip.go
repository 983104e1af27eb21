// Package triangulate converts polygon rings into planar triangle lists.
//
// Coordinates are treated as planar x/y; for geographic rings that means
// longitude/latitude degrees. The algorithm is ear clipping with hole
// elimination: each hole is joined to the outer boundary by a bridge edge,
// reducing the polygon to a single loop that is then clipped ear by ear.
// Degenerate (zero-area) ears are dropped rather than emitted, and input the
// clipper cannot make progress on is abandoned best-effort instead of
// failing.
package triangulate

import (
	"sort"

	"github.com/paulmach/orb"
)

// Triangulation is a triangle list over a flattened point set. Points holds
// the exterior ring followed by hole rings, closing vertices dropped.
// Indices come in triples, each a counterclockwise triangle into Points.
type Triangulation struct {
	Points  []orb.Point
	Indices []int
}

// TriangleCount returns the number of triangles.
func (t Triangulation) TriangleCount() int { return len(t.Indices) / 3 }

// Polygon triangulates the interior of p, excluding hole regions. The first
// ring is the exterior, the rest are holes. Winding is normalized internally,
// so input winding does not matter. A polygon whose exterior collapses to
// fewer than 3 distinct points yields an empty triangulation.
func Polygon(p orb.Polygon) Triangulation {
	var t Triangulation
	if len(p) == 0 {
		return t
	}

	np := Normalize(p)
	outer := open(np[0])
	if len(outer) < 3 {
		return t
	}
	t.Points = append(t.Points, outer...)

	// A plain triangle needs no clipping, unless it has no area.
	if len(np) == 1 && len(outer) == 3 {
		a, b, c := outer[0], outer[1], outer[2]
		if (b[0]-a[0])*(c[1]-a[1])-(b[1]-a[1])*(c[0]-a[0]) > areaEpsilon(outer) {
			t.Indices = []int{0, 1, 2}
		}
		return t
	}

	head := buildLoop(outer, 0)

	var holes []*node
	for _, hr := range np[1:] {
		pts := open(hr)
		if len(pts) < 3 {
			continue
		}
		holes = append(holes, buildLoop(pts, len(t.Points)))
		t.Points = append(t.Points, pts...)
	}

	// Join holes right to left so each bridge is cast against the loop as
	// already merged. An unreachable hole stays disconnected and is dropped.
	sort.SliceStable(holes, func(i, j int) bool {
		return rightmost(holes[i]).x > rightmost(holes[j]).x
	})
	for _, h := range holes {
		spliceHole(head, h)
	}

	eps := areaEpsilon(t.Points)
	t.Indices = earClip(head, loopLen(head), eps)
	return t
}

func loopLen(head *node) int {
	count := 1
	for n := head.next; n != head; n = n.next {
		count++
	}
	return count
}

// Normalize returns a copy of p with the exterior wound counterclockwise and
// every hole clockwise. Closing vertices are preserved as given.
func Normalize(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		r = r.Clone()
		switch {
		case i == 0 && r.Orientation() == orb.CW:
			r.Reverse()
		case i > 0 && r.Orientation() == orb.CCW:
			r.Reverse()
		}
		out[i] = r
	}
	return out
}

// node is a vertex in the circular doubly-linked clipping loop. Bridge edges
// duplicate nodes, so two nodes may carry the same point index.
type node struct {
	i          int // index into Triangulation.Points
	x, y       float64
	prev, next *node
}

// open returns the distinct vertices of a ring, dropping consecutive
// duplicates and the closing vertex.
func open(r orb.Ring) []orb.Point {
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
	return pts
}

func buildLoop(pts []orb.Point, base int) *node {
	nodes := make([]node, len(pts))
	for i, pt := range pts {
		nodes[i] = node{i: base + i, x: pt[0], y: pt[1]}
	}
	for i := range nodes {
		nodes[i].prev = &nodes[(i+len(nodes)-1)%len(nodes)]
		nodes[i].next = &nodes[(i+1)%len(nodes)]
	}
	return &nodes[0]
}

func rightmost(head *node) *node {
	best := head
	for n := head.next; n != head; n = n.next {
		if n.x > best.x || (n.x == best.x && n.y > best.y) {
			best = n
		}
	}
	return best
}

// areaEpsilon scales the degenerate-triangle threshold to the extent of the
// input so tiny polygons are not clipped away wholesale.
func areaEpsilon(pts []orb.Point) float64 {
	if len(pts) == 0 {
		return 0
	}
	minX, minY := pts[0][0], pts[0][1]
	maxX, maxY := minX, minY
	for _, pt := range pts[1:] {
		minX = min(minX, pt[0])
		minY = min(minY, pt[1])
		maxX = max(maxX, pt[0])
		maxY = max(maxY, pt[1])
	}
	dx := maxX - minX
	dy := maxY - minY
	return (dx*dx + dy*dy) * 1e-14
}

// area2 is twice the signed area of triangle abc; positive when
// counterclockwise.
func area2(a, b, c *node) float64 {
	return (b.x-a.x)*(c.y-a.y) - (b.y-a.y)*(c.x-a.x)
}

// spliceHole joins the hole loop to the outer loop with a bridge edge from
// the hole's rightmost vertex to a visible outer vertex. Reports whether the
// hole could be connected; an unreachable hole is skipped best-effort.
func spliceHole(outer *node, hole *node) bool {
	m := rightmost(hole)
	p := findBridge(outer, m)
	if p == nil {
		return false
	}

	// Duplicate the junction vertices and stitch:
	//   ... p -> m -> (around hole) -> m2 -> p2 -> p.next ...
	m2 := &node{i: m.i, x: m.x, y: m.y}
	p2 := &node{i: p.i, x: p.x, y: p.y}

	p2.next = p.next
	p.next.prev = p2
	m2.next = p2
	p2.prev = m2
	m2.prev = m.prev
	m.prev.next = m2
	p.next = m
	m.prev = p
	return true
}

// findBridge locates an outer-loop vertex visible from hole vertex m, using
// the ray-cast construction: shoot a ray from m in +x, take the nearest
// intersected edge, then resolve occluding reflex vertices by smallest angle
// to the ray.
func findBridge(outer *node, m *node) *node {
	var (
		hit  *node // endpoint of the nearest intersected edge
		hitX = 0.0
	)

	n := outer
	for {
		a, b := n, n.next
		if a.y != b.y && (a.y <= m.y && b.y >= m.y || b.y <= m.y && a.y >= m.y) {
			x := a.x + (m.y-a.y)*(b.x-a.x)/(b.y-a.y)
			if x >= m.x && (hit == nil || x < hitX) {
				hitX = x
				if a.x > b.x {
					hit = a
				} else {
					hit = b
				}
			}
		}
		n = n.next
		if n == outer {
			break
		}
	}
	if hit == nil {
		return nil
	}

	// If the candidate triangle (m, intersection, hit) contains reflex outer
	// vertices, the bridge must go to the one closest in angle to the ray.
	best := hit
	ix, iy := hitX, m.y
	n = outer
	for {
		if n != hit && n.x >= m.x && n.x <= hit.x &&
			pointInTriangleRaw(m.x, m.y, ix, iy, hit.x, hit.y, n.x, n.y) &&
			area2(n.prev, n, n.next) < 0 {
			if betterBridge(m, n, best) {
				best = n
			}
		}
		n = n.next
		if n == outer {
			break
		}
	}
	return best
}

// betterBridge reports whether candidate a beats candidate b as the bridge
// target for m: smaller angle off the +x ray wins, distance breaks ties.
func betterBridge(m, a, b *node) bool {
	tanA := abs(a.y-m.y) / (a.x - m.x)
	tanB := abs(b.y-m.y) / (b.x - m.x)
	if tanA != tanB {
		return tanA < tanB
	}
	da := (a.x-m.x)*(a.x-m.x) + (a.y-m.y)*(a.y-m.y)
	db := (b.x-m.x)*(b.x-m.x) + (b.y-m.y)*(b.y-m.y)
	return da < db
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// earClip clips ears off the loop until it is exhausted. Degenerate
// candidates (collinear vertices, as tessellated boundaries produce in
// quantity) are skipped, not removed; they become proper ears once the loop
// deforms around them, which keeps every boundary vertex in the cap so caps
// stay sealed against the side walls. When a full pass finds no ear
// (self-intersecting or fully collapsed input) the remainder is abandoned
// rather than looping forever.
func earClip(head *node, count int, eps float64) []int {
	var indices []int
	if count < 3 {
		return indices
	}

	cur := head
	stuck := 0
	for count > 3 {
		if isEar(cur, eps) {
			indices = append(indices, cur.prev.i, cur.i, cur.next.i)
			cur = removeNode(cur)
			count--
			stuck = 0
			continue
		}
		cur = cur.next
		stuck++
		if stuck >= count {
			return indices
		}
	}

	if area2(cur.prev, cur, cur.next) > eps {
		indices = append(indices, cur.prev.i, cur.i, cur.next.i)
	}
	return indices
}

// removeNode unlinks cur and returns the node to continue from.
func removeNode(cur *node) *node {
	cur.prev.next = cur.next
	cur.next.prev = cur.prev
	return cur.next
}

// isEar reports whether cur is a convex vertex whose triangle contains no
// other loop vertex.
func isEar(cur *node, eps float64) bool {
	a, b, c := cur.prev, cur, cur.next
	if area2(a, b, c) <= eps {
		return false // reflex or degenerate
	}
	for n := c.next; n != a; n = n.next {
		// Bridge duplicates share coordinates with the corners; those never
		// block an ear.
		if sameCoords(n, a) || sameCoords(n, b) || sameCoords(n, c) {
			continue
		}
		if pointInTriangleRaw(a.x, a.y, b.x, b.y, c.x, c.y, n.x, n.y) {
			return false
		}
	}
	return true
}

func sameCoords(a, b *node) bool {
	return a.x == b.x && a.y == b.y
}

// pointInTriangleRaw reports whether (px,py) lies inside or on the triangle
// (ax,ay)-(bx,by)-(cx,cy), winding-independent.
func pointInTriangleRaw(ax, ay, bx, by, cx, cy, px, py float64) bool {
	d1 := (px-ax)*(by-ay) - (py-ay)*(bx-ax)
	d2 := (px-bx)*(cy-by) - (py-by)*(cx-bx)
	d3 := (px-cx)*(ay-cy) - (py-cy)*(ax-cx)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}
