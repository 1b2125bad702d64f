package preview

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/voxelsplace/mcmodel/model"
	"github.com/voxelsplace/mcmodel/voxel"
)

func testElements() []model.Element {
	s := model.ScaleFor(voxel.Dimensions{W: 2, H: 2, D: 2})
	return []model.Element{
		model.Project(voxel.Box{X0: 0, Y0: 0, Z0: 0, X1: 2, Y1: 1, Z1: 2}, s),
		model.Project(voxel.Box{X0: 0, Y0: 1, Z0: 0, X1: 1, Y1: 2, Z1: 1}, s),
	}
}

func sub(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func TestBuildMesh(t *testing.T) {
	elements := testElements()
	mesh := BuildMesh(elements)
	if got, want := len(mesh.Vertices), 4*6*len(elements); got != want {
		t.Fatalf("vertices = %d, want %d", got, want)
	}
	if got, want := mesh.Triangles(), 2*6*len(elements); got != want {
		t.Fatalf("triangles = %d, want %d", got, want)
	}

	for i := 0; i < len(mesh.Indices); i += 3 {
		v0 := mesh.Vertices[mesh.Indices[i]]
		v1 := mesh.Vertices[mesh.Indices[i+1]]
		v2 := mesh.Vertices[mesh.Indices[i+2]]
		n := cross(sub(v1.Position, v0.Position), sub(v2.Position, v0.Position))
		dot := n[0]*v0.Normal[0] + n[1]*v0.Normal[1] + n[2]*v0.Normal[2]
		if dot <= 0 {
			t.Fatalf("triangle %d winds against its normal %v", i/3, v0.Normal)
		}
	}

	for _, v := range mesh.Vertices {
		for _, c := range v.Position {
			if c < 0 || c > 1 {
				t.Fatalf("position %v outside the block", v.Position)
			}
		}
		for _, c := range v.UV {
			if c < 0 || c > 1 {
				t.Fatalf("uv %v outside the texture", v.UV)
			}
		}
	}
}

func TestBuildMeshUV(t *testing.T) {
	full := model.Project(voxel.Box{X1: 1, Y1: 1, Z1: 1}, model.ScaleFor(voxel.Dimensions{W: 1, H: 1, D: 1}))
	mesh := BuildMesh([]model.Element{full})
	// +X face: the top corner at z=0 maps to the texture's top left.
	for _, v := range mesh.Vertices[:4] {
		if v.Position == [3]float32{1, 1, 0} && v.UV != [2]float32{0, 0} {
			t.Fatalf("uv at top corner = %v", v.UV)
		}
		if v.Position == [3]float32{1, 0, 1} && v.UV != [2]float32{1, 1} {
			t.Fatalf("uv at bottom corner = %v", v.UV)
		}
	}
}

func TestEncodeGLB(t *testing.T) {
	data, err := EncodeGLB(testElements())
	if err != nil {
		t.Fatalf("EncodeGLB: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("glTF")) {
		t.Fatal("output is not a binary glTF file")
	}
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Meshes) != 1 || len(doc.Meshes[0].Primitives) != 1 {
		t.Fatalf("meshes = %d", len(doc.Meshes))
	}
	if _, ok := doc.Meshes[0].Primitives[0].Attributes[gltf.TEXCOORD_0]; !ok {
		t.Fatal("missing texture coordinates")
	}
}

func TestWriteFiles(t *testing.T) {
	dir := t.TempDir()
	glbPath := filepath.Join(dir, "model.glb")
	stlPath := filepath.Join(dir, "model.stl")
	if err := WriteGLB(glbPath, testElements()); err != nil {
		t.Fatalf("WriteGLB: %v", err)
	}
	if err := WriteSTL(stlPath, testElements()); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}
	for _, p := range []string{glbPath, stlPath} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() <= 84 {
			t.Errorf("%s is only %d bytes", filepath.Base(p), info.Size())
		}
	}
}

func TestTriangleMesh(t *testing.T) {
	m := TriangleMesh(testElements())
	if got := len(m.TriangleSlice()); got != 24 {
		t.Fatalf("triangles = %d, want 24", got)
	}
}

func TestEmpty(t *testing.T) {
	if _, err := EncodeGLB(nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("EncodeGLB(nil) = %v", err)
	}
	if err := WriteSTL(filepath.Join(t.TempDir(), "x.stl"), nil); !errors.Is(err, ErrEmpty) {
		t.Errorf("WriteSTL(nil) = %v", err)
	}
}
