package source

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/voxelsplace/mcmodel/voxel"
)

// flexInt accepts a JSON number or a numeric string. Fractional numbers
// are truncated toward zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.Errorf("not an integer: %q", s)
		}
		*f = flexInt(n)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Errorf("not an integer: %s", data)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) || math.Abs(v) > math.MaxInt32 {
		return errors.Errorf("integer out of range: %s", data)
	}
	*f = flexInt(math.Trunc(v))
	return nil
}

type structuredDimension struct {
	Width  flexInt `json:"width"`
	Height flexInt `json:"height"`
	Depth  flexInt `json:"depth"`
}

type structuredVoxel struct {
	X flexInt `json:"x"`
	Y flexInt `json:"y"`
	Z flexInt `json:"z"`
}

type structuredDoc struct {
	Dimension []structuredDimension `json:"dimension"`
	Voxels    []structuredVoxel     `json:"voxels"`
}

// ReadStructured decodes a structured voxel description:
//
//	{"dimension": [{"width": W, "height": H, "depth": D}],
//	 "voxels": [{"x": X, "y": Y, "z": Z}, ...]}
//
// Only the first dimension entry is used. Duplicate voxels collapse into one.
func ReadStructured(r io.Reader) (*voxel.Set, error) {
	var doc structuredDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, malformed(err, "read voxel description")
	}
	if len(doc.Dimension) == 0 {
		return nil, malformed(errors.New("missing dimension"), "read voxel description")
	}
	if doc.Voxels == nil {
		return nil, malformed(errors.New("missing voxels"), "read voxel description")
	}
	dim := doc.Dimension[0]
	set, err := voxel.NewSet(voxel.Dimensions{W: int(dim.Width), H: int(dim.Height), D: int(dim.Depth)})
	if err != nil {
		return nil, malformed(err, "read voxel description")
	}
	for i, v := range doc.Voxels {
		if err := set.Add(voxel.Cell{X: int(v.X), Y: int(v.Y), Z: int(v.Z)}); err != nil {
			return nil, malformed(errors.Wrapf(err, "voxel %d", i), "read voxel description")
		}
	}
	return set, nil
}

// ParseStructured is ReadStructured over an in-memory document.
func ParseStructured(data []byte) (*voxel.Set, error) {
	return ReadStructured(bytes.NewReader(data))
}

// EncodeStructured writes set in the structured voxel format, voxels in
// (z, y, x) order.
func EncodeStructured(set *voxel.Set) ([]byte, error) {
	d := set.Dims()
	doc := structuredDoc{
		Dimension: []structuredDimension{{Width: flexInt(d.W), Height: flexInt(d.H), Depth: flexInt(d.D)}},
		Voxels:    make([]structuredVoxel, 0, set.Len()),
	}
	for _, c := range set.Cells() {
		doc.Voxels = append(doc.Voxels, structuredVoxel{X: flexInt(c.X), Y: flexInt(c.Y), Z: flexInt(c.Z)})
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encode voxel description")
	}
	return data, nil
}
