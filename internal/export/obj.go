// Package export writes built meshes to interchange formats for inspection
// in external viewers.
package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/terradyne/globemesh/pkg/extrude"
)

// Object is one named mesh in an export.
type Object struct {
	Name string
	Mesh *extrude.Mesh
}

// WriteOBJ writes the objects as Wavefront OBJ: positions, per-vertex
// normals, and triangle faces. OBJ indices are global and 1-based, so each
// object's faces are offset by the vertices written before it.
func WriteOBJ(w io.Writer, objects []Object) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "# generated by globemesh")

	offset := 1
	for oi, obj := range objects {
		m := obj.Mesh
		if m == nil || len(m.Indices) == 0 {
			continue
		}

		name := sanitizeName(obj.Name)
		if name == "" {
			name = fmt.Sprintf("polygon_%d", oi)
		}
		fmt.Fprintf(bw, "o %s\n", name)

		for _, p := range m.Positions {
			fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
		}
		for _, n := range m.Normals {
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a := offset + int(m.Indices[i])
			b := offset + int(m.Indices[i+1])
			c := offset + int(m.Indices[i+2])
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c)
		}
		offset += len(m.Positions)
	}

	return bw.Flush()
}

// sanitizeName makes a feature name safe for an OBJ object line.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
}
