package voxel

// Merge covers the filled cells of set with non-overlapping boxes.
//
// Each box starts at the lowest remaining cell in (z, y, x) order and grows
// greedily: first along X while the next cell is filled, then along Y while
// the whole X strip of the next layer is filled, then along Z while the whole
// X×Y rectangle of the next slice is filled. Covered cells are removed from a
// private working copy and the scan continues until nothing is left. The
// result is an exact partition of set, not a minimal one.
//
// set is not modified.
func Merge(set *Set) []Box {
	if set == nil || set.Len() == 0 {
		return nil
	}
	remaining := set.Clone()
	var boxes []Box

	// Origins are taken in (z, y, x) order. Every box grows toward +x/+y/+z
	// from its origin, so cells already passed are never refilled; cells
	// swallowed by an earlier box are skipped.
	for _, o := range set.Cells() {
		if !remaining.Has(o.X, o.Y, o.Z) {
			continue
		}

		dx := 1
		for remaining.Has(o.X+dx, o.Y, o.Z) {
			dx++
		}

		dy := 1
		for rowFilled(remaining, o.X, dx, o.Y+dy, o.Z) {
			dy++
		}

		dz := 1
		for sliceFilled(remaining, o.X, dx, o.Y, dy, o.Z+dz) {
			dz++
		}

		for z := o.Z; z < o.Z+dz; z++ {
			for y := o.Y; y < o.Y+dy; y++ {
				for x := o.X; x < o.X+dx; x++ {
					remaining.Remove(x, y, z)
				}
			}
		}
		boxes = append(boxes, Box{
			X0: o.X, Y0: o.Y, Z0: o.Z,
			X1: o.X + dx, Y1: o.Y + dy, Z1: o.Z + dz,
		})
	}
	return boxes
}

func rowFilled(s *Set, x0, dx, y, z int) bool {
	for x := x0; x < x0+dx; x++ {
		if !s.Has(x, y, z) {
			return false
		}
	}
	return true
}

func sliceFilled(s *Set, x0, dx, y0, dy, z int) bool {
	for y := y0; y < y0+dy; y++ {
		if !rowFilled(s, x0, dx, y, z) {
			return false
		}
	}
	return true
}
