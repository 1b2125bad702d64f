package source

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/voxelsplace/mcmodel/vopl"
	"github.com/voxelsplace/mcmodel/voxel"
)

// ReadVOPL decodes a .vopl chunk; every non-empty voxel is filled.
func ReadVOPL(r io.Reader) (*voxel.Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read vopl")
	}
	return ParseVOPL(data)
}

// ParseVOPL decodes a .vopl chunk and applies the VPI18 update streams in
// order before collecting the filled voxels.
func ParseVOPL(data []byte, updates ...[]byte) (*voxel.Set, error) {
	g, err := vopl.DecodeChunk(data)
	if err != nil {
		return nil, malformed(err, "decode vopl")
	}
	for i, u := range updates {
		if err := vopl.ApplyVPI18(g, u); err != nil {
			return nil, malformed(err, fmt.Sprintf("apply update %d", i))
		}
	}
	return g.Voxels(), nil
}

// ReadVPI applies a VPI18 stream to an empty chunk.
func ReadVPI(r io.Reader) (*voxel.Set, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read vpi")
	}
	g, err := vopl.DecodeVPI18(data)
	if err != nil {
		return nil, malformed(err, "decode vpi")
	}
	return g.Voxels(), nil
}
