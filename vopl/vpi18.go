package vopl

import (
	"errors"
	"io"
)

// VPI18 streams are continuous 18-bit entries: a 12-bit linear index
// (x + y*16 + z*256) above a 6-bit colour. Colour 0 clears the voxel.

// VPI18Entry is a single (index, colour) update.
type VPI18Entry struct {
	Index uint16
	Color uint8
}

// EncodeVPI18 packs entries as given, including clears.
func EncodeVPI18(entries []VPI18Entry) []byte {
	bw := newBitWriter()
	for _, e := range entries {
		bw.writeBits(uint64(e.Index&0x0FFF)<<6|uint64(e.Color&0x3F), 18)
	}
	return bw.bytes()
}

// DecodeVPI18 builds a grid from an empty chunk and a VPI18 stream.
func DecodeVPI18(data []byte) (*Grid, error) {
	g := new(Grid)
	if err := ApplyVPI18(g, data); err != nil {
		return nil, err
	}
	return g, nil
}

// ApplyVPI18 applies a VPI18 stream to g. Trailing bits that do not form a
// whole entry end the stream.
func ApplyVPI18(g *Grid, data []byte) error {
	br := newBitReader(data)
	for {
		v, err := br.readBits(18)
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil
		}
		if err != nil {
			return err
		}
		idx := int(v >> 6)
		x, y, z := idx%16, (idx/16)%16, idx/256
		g[y][x][z] = uint8(v & 0x3F)
	}
}
