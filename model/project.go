package model

import (
	"math"

	"github.com/voxelsplace/mcmodel/voxel"
)

// BlockSize is the extent of one block along every axis in model space.
const BlockSize = 16.0

// DefaultFaceTexture is the texture variable every generated face points at.
const DefaultFaceTexture = "#all"

// Scale converts grid units to block units per axis.
type Scale struct {
	X, Y, Z float64
}

// ScaleFor stretches a grid of the given dimensions to fill one block.
func ScaleFor(d voxel.Dimensions) Scale {
	return Scale{
		X: BlockSize / float64(d.W),
		Y: BlockSize / float64(d.H),
		Z: BlockSize / float64(d.D),
	}
}

// Projector turns merged boxes into elements.
type Projector struct {
	Texture string
}

// Project converts b with the default face texture.
func Project(b voxel.Box, s Scale) Element {
	return Projector{Texture: DefaultFaceTexture}.Project(b, s)
}

// Project scales b into block space and derives the six face UVs from the
// scaled bounds. Texture V runs top to bottom while model Y runs bottom to
// top, hence the flip on the side faces; down mirrors up along Z.
func (p Projector) Project(b voxel.Box, s Scale) Element {
	from := [3]float64{round4(float64(b.X0) * s.X), round4(float64(b.Y0) * s.Y), round4(float64(b.Z0) * s.Z)}
	to := [3]float64{round4(float64(b.X1) * s.X), round4(float64(b.Y1) * s.Y), round4(float64(b.Z1) * s.Z)}
	x0, y0, z0 := from[0], from[1], from[2]
	x1, y1, z1 := to[0], to[1], to[2]

	tex := p.Texture
	if tex == "" {
		tex = DefaultFaceTexture
	}
	side := p.face(x0, BlockSize-y1, x1, BlockSize-y0, tex)
	end := p.face(z0, BlockSize-y1, z1, BlockSize-y0, tex)
	return Element{
		From: from,
		To:   to,
		Faces: Faces{
			North: side,
			South: side,
			East:  end,
			West:  end,
			Up:    p.face(x0, z0, x1, z1, tex),
			Down:  p.face(x0, z1, x1, z0, tex),
		},
	}
}

func (p Projector) face(u1, v1, u2, v2 float64, tex string) Face {
	return Face{
		UV:      [4]float64{clampUV(u1), clampUV(v1), clampUV(u2), clampUV(v2)},
		Texture: tex,
	}
}

// ProjectAll projects boxes of a grid with dimensions d.
func (p Projector) ProjectAll(boxes []voxel.Box, d voxel.Dimensions) []Element {
	s := ScaleFor(d)
	out := make([]Element, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, p.Project(b, s))
	}
	return out
}

func round4(v float64) float64 {
	r := math.Round(v*1e4) / 1e4
	if r == 0 {
		// drop negative zero
		return 0
	}
	return r
}

func clampUV(v float64) float64 {
	return math.Max(0, math.Min(BlockSize, round4(v)))
}
