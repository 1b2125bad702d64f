package preview

import (
	"github.com/unixpickle/model3d/model3d"

	"github.com/voxelsplace/mcmodel/model"
)

// TriangleMesh converts the elements into a model3d mesh in model units
// (one block spans 0..16).
func TriangleMesh(elements []model.Element) *model3d.Mesh {
	m := BuildMesh(elements)
	out := model3d.NewMesh()
	for i := 0; i+2 < len(m.Indices); i += 3 {
		var t model3d.Triangle
		for j := 0; j < 3; j++ {
			p := m.Vertices[m.Indices[i+j]].Position
			t[j] = model3d.Coord3D{
				X: float64(p[0]) * model.BlockSize,
				Y: float64(p[1]) * model.BlockSize,
				Z: float64(p[2]) * model.BlockSize,
			}
		}
		out.Add(&t)
	}
	return out
}

// WriteSTL saves the elements as an STL file at path.
func WriteSTL(path string, elements []model.Element) error {
	if len(elements) == 0 {
		return ErrEmpty
	}
	return TriangleMesh(elements).SaveGroupedSTL(path)
}
