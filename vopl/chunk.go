package vopl

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	chunkMagic   = "VOPL"
	chunkVersion = 3
	headerSize   = 16

	encDense   = 0
	encSparse  = 1
	encSparse2 = 3 // occupancy bitmap + non-zero values

	encZlibFlag = 0x80
)

// ErrFormat is returned for data that is not a readable VOPL chunk or pack.
var ErrFormat = errors.New("invalid vopl data")

// Header is the common part of a chunk header. The per-chunk encoding byte
// is kept next to each payload instead.
type Header struct {
	Ver uint8
	BPP uint8
	W   uint8
	H   uint8
	D   uint8
	Pal uint16
}

func (h Header) validate() error {
	if h.Ver != chunkVersion {
		return fmt.Errorf("%w: version %d", ErrFormat, h.Ver)
	}
	if h.W != Width || h.H != Height || h.D != Depth {
		return fmt.Errorf("%w: chunk size %dx%dx%d", ErrFormat, h.W, h.H, h.D)
	}
	if h.BPP < 1 || h.BPP > 8 {
		return fmt.Errorf("%w: bpp %d", ErrFormat, h.BPP)
	}
	return nil
}

// ParseChunk splits a .vopl file into header, encoding byte and payload.
func ParseChunk(data []byte) (Header, uint8, []byte, error) {
	var h Header
	if len(data) < headerSize || string(data[:4]) != chunkMagic {
		return h, 0, nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}
	h.Ver = data[4]
	enc := data[5]
	h.BPP = data[6]
	h.W, h.H, h.D = data[7], data[8], data[9]
	h.Pal = binary.LittleEndian.Uint16(data[10:12])
	plen := binary.LittleEndian.Uint32(data[12:16])
	if err := h.validate(); err != nil {
		return h, 0, nil, err
	}
	if uint32(len(data)-headerSize) != plen {
		return h, 0, nil, fmt.Errorf("%w: payload length %d, header says %d", ErrFormat, len(data)-headerSize, plen)
	}
	return h, enc, data[headerSize:], nil
}

// BuildChunk assembles a .vopl file from its parts.
func BuildChunk(h Header, enc uint8, payload []byte) []byte {
	out := make([]byte, headerSize, headerSize+len(payload))
	copy(out, chunkMagic)
	out[4] = h.Ver
	out[5] = enc
	out[6] = h.BPP
	out[7], out[8], out[9] = h.W, h.H, h.D
	binary.LittleEndian.PutUint16(out[10:12], h.Pal)
	binary.LittleEndian.PutUint32(out[12:16], uint32(len(payload)))
	return append(out, payload...)
}

// DecodeChunk parses a .vopl file.
func DecodeChunk(data []byte) (*Grid, error) {
	h, enc, payload, err := ParseChunk(data)
	if err != nil {
		return nil, err
	}
	return decodePayload(h.BPP, enc, payload)
}

// LoadChunk reads and decodes a .vopl file from disk.
func LoadChunk(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeChunk(data)
}

func decodePayload(bpp, enc uint8, payload []byte) (*Grid, error) {
	if enc&encZlibFlag != 0 {
		var err error
		if payload, err = inflate(payload); err != nil {
			return nil, fmt.Errorf("inflate chunk: %w", err)
		}
	}
	stream := make([]uint8, chunkVolume)
	switch enc &^ encZlibFlag {
	case encDense:
		br := newBitReader(payload)
		for i := range stream {
			v, err := br.readBits(bpp)
			if err != nil {
				return nil, fmt.Errorf("dense payload: %w", err)
			}
			stream[i] = uint8(v)
		}
	case encSparse:
		br := newBitReader(payload)
		n, err := br.readBits(16)
		if err != nil {
			return nil, fmt.Errorf("sparse payload: %w", err)
		}
		for i := uint64(0); i < n; i++ {
			idx, err := br.readBits(12)
			if err != nil {
				return nil, fmt.Errorf("sparse payload: %w", err)
			}
			v, err := br.readBits(bpp)
			if err != nil {
				return nil, fmt.Errorf("sparse payload: %w", err)
			}
			stream[idx] = uint8(v)
		}
	case encSparse2:
		const bitmapSize = chunkVolume / 8
		if len(payload) < bitmapSize {
			return nil, fmt.Errorf("%w: sparse2 payload too short", ErrFormat)
		}
		bitmap := payload[:bitmapSize]
		br := newBitReader(payload[bitmapSize:])
		for i := range stream {
			if bitmap[i>>3]>>(uint(i)&7)&1 == 0 {
				continue
			}
			v, err := br.readBits(bpp)
			if err != nil {
				return nil, fmt.Errorf("sparse2 payload: %w", err)
			}
			stream[i] = uint8(v)
		}
	default:
		return nil, fmt.Errorf("%w: unknown encoding %d", ErrFormat, enc)
	}
	g := new(Grid)
	fromMorton(g, stream)
	return g, nil
}

// EncodeChunk writes g as a dense .vopl file with 6 bits per voxel, zlib
// compressed when that is smaller.
func EncodeChunk(g *Grid) []byte {
	const bpp = 6
	bw := newBitWriter()
	for _, c := range toMorton(g) {
		bw.writeBits(uint64(c), bpp)
	}
	payload := bw.bytes()
	enc := uint8(encDense)
	if z := deflate(payload); len(z) < len(payload) {
		payload, enc = z, enc|encZlibFlag
	}
	h := Header{Ver: chunkVersion, BPP: bpp, W: Width, H: Height, D: Depth, Pal: 64}
	return BuildChunk(h, enc, payload)
}

func deflate(b []byte) []byte {
	var buf bytes.Buffer
	zw, _ := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	_, _ = zw.Write(b)
	_ = zw.Close()
	return buf.Bytes()
}

func inflate(b []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
