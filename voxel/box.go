package voxel

import "fmt"

// Box is the half-open region [X0,X1)×[Y0,Y1)×[Z0,Z1) in grid coordinates.
type Box struct {
	X0, Y0, Z0 int
	X1, Y1, Z1 int
}

// Size returns the extent of the box along each axis.
func (b Box) Size() (dx, dy, dz int) {
	return b.X1 - b.X0, b.Y1 - b.Y0, b.Z1 - b.Z0
}

// Volume is the number of cells covered by the box.
func (b Box) Volume() int {
	dx, dy, dz := b.Size()
	return dx * dy * dz
}

func (b Box) Contains(c Cell) bool {
	return c.X >= b.X0 && c.X < b.X1 &&
		c.Y >= b.Y0 && c.Y < b.Y1 &&
		c.Z >= b.Z0 && c.Z < b.Z1
}

func (b Box) String() string {
	return fmt.Sprintf("[%d,%d,%d -> %d,%d,%d]", b.X0, b.Y0, b.Z0, b.X1, b.Y1, b.Z1)
}
