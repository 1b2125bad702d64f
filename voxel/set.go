// Package voxel holds the occupancy set of a voxel model and the greedy
// merger that covers it with axis-aligned boxes.
package voxel

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfBounds is returned when a cell lies outside the grid extents.
var ErrOutOfBounds = errors.New("voxel out of bounds")

// Dimensions are the grid extents along X (width), Y (height) and Z (depth).
type Dimensions struct {
	W, H, D int
}

// Validate rejects non-positive extents. Any positive size is accepted.
func (d Dimensions) Validate() error {
	if d.W <= 0 || d.H <= 0 || d.D <= 0 {
		return fmt.Errorf("invalid dimensions %dx%dx%d", d.W, d.H, d.D)
	}
	return nil
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%dx%d", d.W, d.H, d.D)
}

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y, Z int
}

// Set is a sparse occupancy set over a fixed grid. Memory grows with the
// number of filled cells, not with the grid volume.
type Set struct {
	dims  Dimensions
	cells map[Cell]struct{}
}

// NewSet returns an empty set over dims.
func NewSet(dims Dimensions) (*Set, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	return &Set{dims: dims, cells: make(map[Cell]struct{})}, nil
}

func (s *Set) Dims() Dimensions { return s.dims }

// Len reports the number of filled cells.
func (s *Set) Len() int { return len(s.cells) }

func (s *Set) inBounds(x, y, z int) bool {
	return x >= 0 && x < s.dims.W && y >= 0 && y < s.dims.H && z >= 0 && z < s.dims.D
}

// Add fills c. Adding a filled cell again is a no-op.
func (s *Set) Add(c Cell) error {
	if !s.inBounds(c.X, c.Y, c.Z) {
		return fmt.Errorf("%w: (%d,%d,%d) in %s grid", ErrOutOfBounds, c.X, c.Y, c.Z, s.dims)
	}
	s.cells[c] = struct{}{}
	return nil
}

// Has reports whether (x,y,z) is filled. Coordinates outside the grid are
// never filled.
func (s *Set) Has(x, y, z int) bool {
	_, ok := s.cells[Cell{X: x, Y: y, Z: z}]
	return ok
}

// Remove clears (x,y,z) if it is filled.
func (s *Set) Remove(x, y, z int) {
	delete(s.cells, Cell{X: x, Y: y, Z: z})
}

// Clone returns an independent copy of s.
func (s *Set) Clone() *Set {
	c := &Set{dims: s.dims, cells: make(map[Cell]struct{}, len(s.cells))}
	for cell := range s.cells {
		c.cells[cell] = struct{}{}
	}
	return c
}

// Cells lists the filled cells in ascending (z, y, x) order.
func (s *Set) Cells() []Cell {
	out := make([]Cell, 0, len(s.cells))
	for c := range s.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// less orders cells by z, then y, then x.
func (c Cell) less(o Cell) bool {
	if c.Z != o.Z {
		return c.Z < o.Z
	}
	if c.Y != o.Y {
		return c.Y < o.Y
	}
	return c.X < o.X
}
