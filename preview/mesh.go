// Package preview renders generated block model elements as triangle meshes
// so a model can be inspected in ordinary 3D viewers.
package preview

import (
	"errors"

	"github.com/voxelsplace/mcmodel/model"
)

// ErrEmpty is returned when there are no faces to export.
var ErrEmpty = errors.New("no elements to export")

// Vertex is a mesh corner in block units (one block spans 0..1).
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// Mesh is an indexed triangle list with two triangles per element face.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Triangles reports the number of triangles in m.
func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

// dirSpec describes one face direction. u and v are the axes spanned by the
// quad, s and t the axes the face texture runs along.
type dirSpec struct {
	normal [3]float32
	u, v   int
	s, t   int
	flipT  bool
	face   func(f *model.Faces) model.Face
}

var directions = []dirSpec{
	{[3]float32{1, 0, 0}, 1, 2, 2, 1, true, func(f *model.Faces) model.Face { return f.East }},
	{[3]float32{-1, 0, 0}, 1, 2, 2, 1, true, func(f *model.Faces) model.Face { return f.West }},
	{[3]float32{0, 1, 0}, 0, 2, 0, 2, false, func(f *model.Faces) model.Face { return f.Up }},
	{[3]float32{0, -1, 0}, 0, 2, 0, 2, false, func(f *model.Faces) model.Face { return f.Down }},
	{[3]float32{0, 0, 1}, 0, 1, 0, 1, true, func(f *model.Faces) model.Face { return f.South }},
	{[3]float32{0, 0, -1}, 0, 1, 0, 1, true, func(f *model.Faces) model.Face { return f.North }},
}

// BuildMesh emits one quad per element face. Faces hidden by neighbouring
// elements are kept; block models render them too.
func BuildMesh(elements []model.Element) *Mesh {
	mesh := &Mesh{}
	for i := range elements {
		e := &elements[i]
		for _, dir := range directions {
			addQuad(mesh, e, dir)
		}
	}
	return mesh
}

func addQuad(mesh *Mesh, e *model.Element, dir dirSpec) {
	perp := 3 - dir.u - dir.v
	if e.To[dir.u] <= e.From[dir.u] || e.To[dir.v] <= e.From[dir.v] {
		return
	}

	base := e.From
	if dir.normal[perp] > 0 {
		base[perp] = e.To[perp]
	}
	du := e.To[dir.u] - e.From[dir.u]
	dv := e.To[dir.v] - e.From[dir.v]

	corners := [4][3]float64{base, base, base, base}
	corners[1][dir.u] += du
	corners[2][dir.u] += du
	corners[2][dir.v] += dv
	corners[3][dir.v] += dv

	// Keep counter-clockwise winding when seen from outside.
	if (dir.normal[perp] < 0) != (perp == 1) {
		corners[1], corners[3] = corners[3], corners[1]
	}

	face := dir.face(&e.Faces)
	baseIdx := uint32(len(mesh.Vertices))
	for _, c := range corners {
		mesh.Vertices = append(mesh.Vertices, Vertex{
			Position: [3]float32{
				float32(c[0] / model.BlockSize),
				float32(c[1] / model.BlockSize),
				float32(c[2] / model.BlockSize),
			},
			Normal: dir.normal,
			UV:     faceUV(face, e, dir, c),
		})
	}
	mesh.Indices = append(mesh.Indices, baseIdx, baseIdx+1, baseIdx+2, baseIdx, baseIdx+2, baseIdx+3)
}

// faceUV interpolates the face's UV rectangle at corner c and maps it to the
// 0..1 texture space.
func faceUV(face model.Face, e *model.Element, dir dirSpec, c [3]float64) [2]float32 {
	fs := frac(c[dir.s], e.From[dir.s], e.To[dir.s])
	ft := frac(c[dir.t], e.From[dir.t], e.To[dir.t])
	if dir.flipT {
		ft = 1 - ft
	}
	s := face.UV[0] + fs*(face.UV[2]-face.UV[0])
	t := face.UV[1] + ft*(face.UV[3]-face.UV[1])
	return [2]float32{float32(s / model.BlockSize), float32(t / model.BlockSize)}
}

func frac(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
