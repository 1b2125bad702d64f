// Package vopl reads VOPL v3 voxel chunks, VPI18 update streams and
// .voplpack bundles so they can be converted into block models.
package vopl

import "github.com/voxelsplace/mcmodel/voxel"

const (
	Height = 16
	Width  = 16
	Depth  = 16

	chunkVolume = Width * Height * Depth
)

// Grid holds palette indices, addressed Grid[y][x][z]. 0 is empty.
type Grid [Height][Width][Depth]uint8

// Dims are the grid extents as voxel dimensions.
func Dims() voxel.Dimensions {
	return voxel.Dimensions{W: Width, H: Height, D: Depth}
}

// Voxels returns every non-empty cell of g as an occupancy set.
func (g *Grid) Voxels() *voxel.Set {
	set, _ := voxel.NewSet(Dims())
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			for z := 0; z < Depth; z++ {
				if g[y][x][z] != 0 {
					_ = set.Add(voxel.Cell{X: x, Y: y, Z: z})
				}
			}
		}
	}
	return set
}

// Count reports the number of non-empty voxels.
func (g *Grid) Count() int {
	n := 0
	for y := range g {
		for x := range g[y] {
			for _, c := range g[y][x] {
				if c != 0 {
					n++
				}
			}
		}
	}
	return n
}
