package vopl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

func makeTestGrid() *Grid {
	var g Grid
	for y := 0; y < 2; y++ {
		for z := 0; z < 2; z++ {
			for x := 0; x < 4; x++ {
				g[y][x][z] = uint8(1 + (x+z+y)%6)
			}
		}
	}
	g[15][15][15] = 63
	return &g
}

func testHeader() Header {
	return Header{Ver: 3, BPP: 6, W: 16, H: 16, D: 16, Pal: 64}
}

func TestChunkRoundtrip(t *testing.T) {
	want := makeTestGrid()
	data := EncodeChunk(want)
	got, err := DecodeChunk(data)
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if *got != *want {
		t.Fatal("grid changed after encode/decode")
	}
}

func TestDecodeSparse(t *testing.T) {
	// one voxel at Morton rank 1, which is (1,0,0)
	bw := newBitWriter()
	bw.writeBits(1, 16)
	bw.writeBits(1, 12)
	bw.writeBits(9, 6)
	data := BuildChunk(testHeader(), encSparse, bw.bytes())

	g, err := DecodeChunk(data)
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if g[0][1][0] != 9 || g.Count() != 1 {
		t.Fatalf("expected single voxel 9 at (1,0,0), count %d", g.Count())
	}
}

func TestDecodeSparse2Zlib(t *testing.T) {
	// ranks 0 and 2: (0,0,0) and (0,1,0)
	bitmap := make([]byte, chunkVolume/8)
	bitmap[0] = 1 | 1<<2
	bw := newBitWriter()
	bw.writeBits(5, 6)
	bw.writeBits(7, 6)
	payload := append(bitmap, bw.bytes()...)
	data := BuildChunk(testHeader(), encSparse2|encZlibFlag, deflate(payload))

	g, err := DecodeChunk(data)
	if err != nil {
		t.Fatalf("DecodeChunk: %v", err)
	}
	if g[0][0][0] != 5 || g[1][0][0] != 7 || g.Count() != 2 {
		t.Fatalf("unexpected grid contents, count %d", g.Count())
	}
}

func TestParseChunkErrors(t *testing.T) {
	good := EncodeChunk(makeTestGrid())

	badMagic := append([]byte("NOPE"), good[4:]...)
	badVersion := append([]byte(nil), good...)
	badVersion[4] = 2
	badSize := append([]byte(nil), good...)
	badSize[7] = 32
	truncated := good[:len(good)-1]

	for name, data := range map[string][]byte{
		"magic":     badMagic,
		"version":   badVersion,
		"size":      badSize,
		"truncated": truncated,
		"short":     good[:8],
	} {
		if _, err := DecodeChunk(data); !errors.Is(err, ErrFormat) {
			t.Errorf("%s: expected ErrFormat, got %v", name, err)
		}
	}
}

func TestGridVoxels(t *testing.T) {
	g := makeTestGrid()
	set := g.Voxels()
	if set.Len() != g.Count() {
		t.Fatalf("set has %d cells, grid %d", set.Len(), g.Count())
	}
	if !set.Has(15, 15, 15) || !set.Has(3, 1, 1) || set.Has(4, 0, 0) {
		t.Fatal("set does not mirror grid occupancy")
	}
}

func TestVPI18(t *testing.T) {
	entries := []VPI18Entry{
		{Index: 0, Color: 4},
		{Index: 5 + 2*16 + 3*256, Color: 9},
		{Index: 0, Color: 0},
	}
	g, err := DecodeVPI18(EncodeVPI18(entries))
	if err != nil {
		t.Fatalf("DecodeVPI18: %v", err)
	}
	if g[0][0][0] != 0 {
		t.Errorf("clear entry not applied")
	}
	if g[2][5][3] != 9 {
		t.Errorf("voxel (5,2,3) = %d, want 9", g[2][5][3])
	}
	if g.Count() != 1 {
		t.Errorf("count = %d, want 1", g.Count())
	}
}

func TestPackRoundtrip(t *testing.T) {
	a := EncodeChunk(makeTestGrid())
	var empty Grid
	b := EncodeChunk(&empty)

	for _, comp := range []PackCompression{PackCompNone, PackCompZlib, PackCompZstd} {
		p := &Pack{Header: testHeader()}
		for i, chunk := range [][]byte{a, b, a} {
			_, enc, payload, err := ParseChunk(chunk)
			if err != nil {
				t.Fatal(err)
			}
			p.Entries = append(p.Entries, PackEntry{Name: []string{"a.vopl", "b.vopl", "c.vopl"}[i], Enc: enc, Payload: payload})
		}
		data, err := p.Marshal(comp)
		if err != nil {
			t.Fatalf("Marshal(%d): %v", comp, err)
		}
		back, err := UnmarshalPack(data)
		if err != nil {
			t.Fatalf("UnmarshalPack(%d): %v", comp, err)
		}
		if len(back.Entries) != 3 || back.Entries[1].Name != "b.vopl" {
			t.Fatalf("entries = %+v", back.Entries)
		}
		g, err := back.Grid(0)
		if err != nil {
			t.Fatal(err)
		}
		if *g != *makeTestGrid() {
			t.Fatalf("compression %d: entry grid differs", comp)
		}
		if back.Entries[0].Digest() != back.Entries[2].Digest() {
			t.Error("identical entries have different digests")
		}
		if back.Entries[0].Digest() == back.Entries[1].Digest() {
			t.Error("different entries share a digest")
		}
	}
}

func TestUnmarshalPackCDC(t *testing.T) {
	chunk := EncodeChunk(makeTestGrid())
	_, enc, payload, err := ParseChunk(chunk)
	if err != nil {
		t.Fatal(err)
	}
	half := len(payload) / 2

	var c bytes.Buffer
	writeHeader(&c, testHeader())
	c.WriteByte(byte(LayoutCDC))
	le := func(v any) { _ = binary.Write(&c, binary.LittleEndian, v) }
	le(uint32(4096))
	le(uint32(2048))
	le(uint32(16384))
	le(uint32(2))
	for _, blk := range [][]byte{payload[:half], payload[half:]} {
		le(uint32(len(blk)))
		c.Write(blk)
	}
	le(uint32(1))
	le(uint16(len("cdc.vopl")))
	c.WriteString("cdc.vopl")
	c.WriteByte(enc)
	le(uint32(len(payload)))
	le(uint32(2))
	le(uint32(0))
	le(uint32(1))

	data := append([]byte("VOPLPACK"), packVersion2, byte(PackCompNone))
	data = append(data, c.Bytes()...)

	p, err := UnmarshalPack(data)
	if err != nil {
		t.Fatalf("UnmarshalPack: %v", err)
	}
	if len(p.Entries) != 1 || !bytes.Equal(p.Entries[0].Payload, payload) {
		t.Fatal("CDC entry not reassembled")
	}
	g, err := p.Grid(0)
	if err != nil {
		t.Fatal(err)
	}
	if *g != *makeTestGrid() {
		t.Fatal("CDC entry decodes to a different grid")
	}
}

func TestUnmarshalPackErrors(t *testing.T) {
	if _, err := UnmarshalPack([]byte("VOPL")); !errors.Is(err, ErrFormat) {
		t.Errorf("short input: %v", err)
	}
	if _, err := UnmarshalPack(append([]byte("VOPLPACK"), 9, 0)); !errors.Is(err, ErrFormat) {
		t.Errorf("bad version: %v", err)
	}
	if _, err := UnmarshalPack(append([]byte("VOPLPACK"), 1, 7)); !errors.Is(err, ErrFormat) {
		t.Errorf("bad compression: %v", err)
	}
}
