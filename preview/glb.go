package preview

import (
	"bytes"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/mcmodel/model"
)

func buildDocument(elements []model.Element) (*gltf.Document, error) {
	mesh := BuildMesh(elements)
	if len(mesh.Indices) == 0 {
		return nil, ErrEmpty
	}

	positions := make([][3]float32, len(mesh.Vertices))
	normals := make([][3]float32, len(mesh.Vertices))
	uvs := make([][2]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = v.Position
		normals[i] = v.Normal
		uvs[i] = v.UV
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "mcmodel block model -> GLB"

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	uvAccessor := modeler.WriteTextureCoord(doc, uvs)
	indicesAccessor := modeler.WriteIndices(doc, mesh.Indices)

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION:   posAccessor,
			gltf.NORMAL:     normalAccessor,
			gltf.TEXCOORD_0: uvAccessor,
		},
		Indices:  gltf.Index(indicesAccessor),
		Material: gltf.Index(0),
	}

	doc.Materials = []*gltf.Material{{
		Name: "all",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}}
	doc.Meshes = []*gltf.Mesh{{Name: "BlockModel", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: "BlockModel", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}

// EncodeGLB returns the elements as a binary glTF file.
func EncodeGLB(elements []model.Element) ([]byte, error) {
	doc, err := buildDocument(elements)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := gltf.NewEncoder(&buf)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode glb: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteGLB saves the elements as a binary glTF file at path.
func WriteGLB(path string, elements []model.Element) error {
	doc, err := buildDocument(elements)
	if err != nil {
		return err
	}
	return gltf.SaveBinary(doc, path)
}
