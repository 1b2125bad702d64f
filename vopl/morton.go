package vopl

import "sort"

// Chunk payloads list voxels in Morton (Z-order) sequence. The linear index
// used on either side of the permutation is x + z*Width + y*Width*Depth.
var mortonOrder = buildMortonOrder()

func spread3(v uint32) uint32 {
	v = (v | v<<16) & 0x030000FF
	v = (v | v<<8) & 0x0300F00F
	v = (v | v<<4) & 0x030C30C3
	v = (v | v<<2) & 0x09249249
	return v
}

func morton3D(x, y, z int) uint32 {
	return spread3(uint32(x)) | spread3(uint32(y))<<1 | spread3(uint32(z))<<2
}

func linearIndex(x, y, z int) int {
	return x + z*Width + y*Width*Depth
}

func buildMortonOrder() []int {
	order := make([]int, chunkVolume)
	keys := make([]uint32, chunkVolume)
	for y := 0; y < Height; y++ {
		for z := 0; z < Depth; z++ {
			for x := 0; x < Width; x++ {
				i := linearIndex(x, y, z)
				order[i] = i
				keys[i] = morton3D(x, y, z)
			}
		}
	}
	sort.Slice(order, func(a, b int) bool { return keys[order[a]] < keys[order[b]] })
	return order
}

// toMorton lays g out in payload order.
func toMorton(g *Grid) []uint8 {
	stream := make([]uint8, chunkVolume)
	for rank, lin := range mortonOrder {
		x, y, z := lin%Width, lin/(Width*Depth), (lin/Width)%Depth
		stream[rank] = g[y][x][z]
	}
	return stream
}

// fromMorton fills g from a payload-ordered stream.
func fromMorton(g *Grid, stream []uint8) {
	for rank, lin := range mortonOrder {
		x, y, z := lin%Width, lin/(Width*Depth), (lin/Width)%Depth
		g[y][x][z] = stream[rank]
	}
}
