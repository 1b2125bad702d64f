package vopl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	xxhash "github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
)

// PackCompression is the codec applied to the pack content section.
type PackCompression uint8

const (
	PackCompNone PackCompression = 0
	PackCompZlib PackCompression = 1
	PackCompZstd PackCompression = 2
)

// PackLayout is how entries are stored in the content section.
type PackLayout uint8

const (
	// LayoutRaw stores each payload as an independent blob.
	LayoutRaw PackLayout = 0
	// LayoutCDC stores a shared chunk dictionary and per-entry chunk refs.
	LayoutCDC PackLayout = 1
)

const (
	packMagic    = "VOPLPACK"
	packVersion1 = 1
	packVersion2 = 2
)

// PackEntry is one chunk inside a pack.
type PackEntry struct {
	Name    string
	Enc     uint8
	Payload []byte
}

// Digest identifies the entry content. Entries with equal digests decode to
// the same grid.
func (e PackEntry) Digest() uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{e.Enc})
	_, _ = d.Write(e.Payload)
	return d.Sum64()
}

// Pack is a set of chunks sharing one header.
type Pack struct {
	Header  Header
	Entries []PackEntry
}

// Grid decodes entry i.
func (p *Pack) Grid(i int) (*Grid, error) {
	e := p.Entries[i]
	g, err := decodePayload(p.Header.BPP, e.Enc, e.Payload)
	if err != nil {
		return nil, fmt.Errorf("entry %d (%s): %w", i, e.Name, err)
	}
	return g, nil
}

// Marshal encodes p with the raw layout. Raw packs with no or zlib
// compression are written as version 1 so older readers accept them.
func (p *Pack) Marshal(comp PackCompression) ([]byte, error) {
	if err := p.Header.validate(); err != nil {
		return nil, err
	}
	version := uint8(packVersion1)
	if comp == PackCompZstd {
		version = packVersion2
	}

	var content bytes.Buffer
	writeHeader(&content, p.Header)
	if version >= packVersion2 {
		content.WriteByte(byte(LayoutRaw))
	}
	_ = binary.Write(&content, binary.LittleEndian, uint32(len(p.Entries)))
	for _, e := range p.Entries {
		if len(e.Name) > 0xFFFF {
			return nil, fmt.Errorf("entry name too long: %.32s...", e.Name)
		}
		_ = binary.Write(&content, binary.LittleEndian, uint16(len(e.Name)))
		content.WriteString(e.Name)
		content.WriteByte(e.Enc)
		_ = binary.Write(&content, binary.LittleEndian, uint32(len(e.Payload)))
		content.Write(e.Payload)
	}

	body, err := compress(comp, content.Bytes())
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(packMagic)+2+len(body))
	out = append(out, packMagic...)
	out = append(out, version, byte(comp))
	return append(out, body...), nil
}

// LoadPack reads a .voplpack file from disk.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return UnmarshalPack(data)
}

// UnmarshalPack parses a .voplpack of either version and layout.
func UnmarshalPack(data []byte) (*Pack, error) {
	if len(data) < len(packMagic)+2 || string(data[:len(packMagic)]) != packMagic {
		return nil, fmt.Errorf("%w: bad pack magic", ErrFormat)
	}
	version := data[8]
	if version != packVersion1 && version != packVersion2 {
		return nil, fmt.Errorf("%w: pack version %d", ErrFormat, version)
	}
	content, err := decompress(PackCompression(data[9]), data[10:])
	if err != nil {
		return nil, err
	}

	r := &packReader{r: bytes.NewReader(content)}
	p := &Pack{}
	p.Header.Ver = r.u8()
	p.Header.BPP = r.u8()
	p.Header.W, p.Header.H, p.Header.D = r.u8(), r.u8(), r.u8()
	p.Header.Pal = r.u16()
	layout := LayoutRaw
	if version >= packVersion2 {
		layout = PackLayout(r.u8())
	}
	if r.err != nil {
		return nil, fmt.Errorf("pack header: %w", r.err)
	}
	if err := p.Header.validate(); err != nil {
		return nil, err
	}

	switch layout {
	case LayoutRaw:
		n := r.u32()
		for i := uint32(0); i < n && r.err == nil; i++ {
			name := r.str()
			enc := r.u8()
			payload := r.bytes(int(r.u32()))
			p.Entries = append(p.Entries, PackEntry{Name: name, Enc: enc, Payload: payload})
		}
	case LayoutCDC:
		// target, min and max chunk sizes only matter to the writer
		r.u32()
		r.u32()
		r.u32()
		nb := r.u32()
		if int(nb) > r.r.Len() {
			return nil, fmt.Errorf("%w: %d dictionary blocks in %d bytes", ErrFormat, nb, r.r.Len())
		}
		blocks := make([][]byte, nb)
		for i := range blocks {
			if r.err != nil {
				break
			}
			blocks[i] = r.bytes(int(r.u32()))
		}
		n := r.u32()
		for i := uint32(0); i < n && r.err == nil; i++ {
			name := r.str()
			enc := r.u8()
			rawLen := r.u32()
			refs := r.u32()
			payload := make([]byte, 0, rawLen)
			for j := uint32(0); j < refs && r.err == nil; j++ {
				idx := r.u32()
				if int(idx) >= len(blocks) {
					return nil, fmt.Errorf("%w: block ref %d of %d", ErrFormat, idx, len(blocks))
				}
				payload = append(payload, blocks[idx]...)
			}
			if uint32(len(payload)) != rawLen {
				return nil, fmt.Errorf("%w: entry %q is %d bytes, want %d", ErrFormat, name, len(payload), rawLen)
			}
			p.Entries = append(p.Entries, PackEntry{Name: name, Enc: enc, Payload: payload})
		}
	default:
		return nil, fmt.Errorf("%w: pack layout %d", ErrFormat, layout)
	}
	if r.err != nil {
		return nil, fmt.Errorf("pack entries: %w", r.err)
	}
	return p, nil
}

func writeHeader(w *bytes.Buffer, h Header) {
	w.Write([]byte{h.Ver, h.BPP, h.W, h.H, h.D})
	_ = binary.Write(w, binary.LittleEndian, h.Pal)
}

func compress(comp PackCompression, b []byte) ([]byte, error) {
	switch comp {
	case PackCompNone:
		return b, nil
	case PackCompZlib:
		return deflate(b), nil
	case PackCompZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(b, nil), nil
	default:
		return nil, fmt.Errorf("unsupported pack compression %d", comp)
	}
}

func decompress(comp PackCompression, b []byte) ([]byte, error) {
	switch comp {
	case PackCompNone:
		return b, nil
	case PackCompZlib:
		out, err := inflate(b)
		if err != nil {
			return nil, fmt.Errorf("inflate pack: %w", err)
		}
		return out, nil
	case PackCompZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		out, err := dec.DecodeAll(b, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd pack: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: pack compression %d", ErrFormat, comp)
	}
}

// packReader reads little-endian fields and keeps the first error.
type packReader struct {
	r   *bytes.Reader
	err error
}

func (p *packReader) read(v any) {
	if p.err == nil {
		p.err = binary.Read(p.r, binary.LittleEndian, v)
	}
}

func (p *packReader) u8() (v uint8)   { p.read(&v); return }
func (p *packReader) u16() (v uint16) { p.read(&v); return }
func (p *packReader) u32() (v uint32) { p.read(&v); return }

func (p *packReader) bytes(n int) []byte {
	if p.err != nil {
		return nil
	}
	if n > p.r.Len() {
		p.err = io.ErrUnexpectedEOF
		return nil
	}
	b := make([]byte, n)
	_, p.err = io.ReadFull(p.r, b)
	return b
}

func (p *packReader) str() string {
	return string(p.bytes(int(p.u16())))
}
