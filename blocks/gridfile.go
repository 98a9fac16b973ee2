package blocks

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	xxhash "github.com/cespare/xxhash/v2"
)

const (
	gridMagic   = "VGRD"
	gridVersion = 1
)

// GridHeader holds the fixed fields of a .vgrid file.
// The palette and payload follow it.
type GridHeader struct {
	Ver      uint8
	Enc      uint8
	BPP      uint8
	X, Y, Z  uint32
	Palette  uint32
	PLen     uint32
	Checksum uint64 // xxhash64 of the header (Checksum zeroed), palette names and payload
}

// maxGridCells bounds X*Y*Z of a grid read back from disk.
const maxGridCells = 1 << 28

// SaveGrid writes cube to filename as a .vgrid file.
func SaveGrid(cube *BlockCube, filename string) error {
	data, err := MarshalGrid(cube)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// MarshalGrid encodes cube with whichever layout and codec is smallest.
func MarshalGrid(cube *BlockCube) ([]byte, error) {
	palette, stream := gridIndex(cube)
	bpp := bitsFor(len(palette))
	enc := bestEncoding(stream, bpp)

	var pal bytes.Buffer
	for _, name := range palette {
		if len(name) > 0xFFFF {
			return nil, fmt.Errorf("block id too long: %.32s...", name)
		}
		_ = binary.Write(&pal, binary.LittleEndian, uint16(len(name)))
		pal.WriteString(name)
	}
	hdr := GridHeader{
		Ver: gridVersion, Enc: enc.encoding, BPP: bpp,
		X: uint32(cube.X), Y: uint32(cube.Y), Z: uint32(cube.Z),
		Palette: uint32(len(palette)), PLen: uint32(len(enc.payload)),
	}
	hdr.Checksum = gridChecksum(hdr, pal.Bytes(), enc.payload)
	var buf bytes.Buffer
	buf.WriteString(gridMagic)
	_ = binary.Write(&buf, binary.LittleEndian, hdr)
	buf.Write(pal.Bytes())
	buf.Write(enc.payload)
	return buf.Bytes(), nil
}

// LoadGrid reads a .vgrid file. A missing or damaged file is reported as
// ErrUnreadableSource.
func LoadGrid(filename string) (*BlockCube, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	cube, err := UnmarshalGrid(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cube, nil
}

// UnmarshalGrid parses a .vgrid file from memory. Every failure wraps
// ErrUnreadableSource.
func UnmarshalGrid(data []byte) (*BlockCube, error) {
	cube, err := parseGrid(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	return cube, nil
}

func parseGrid(data []byte) (*BlockCube, error) {
	if len(data) < len(gridMagic) || string(data[:len(gridMagic)]) != gridMagic {
		return nil, fmt.Errorf("invalid format or not a grid file")
	}
	r := bytes.NewReader(data[len(gridMagic):])
	var hdr GridHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read grid header: %w", err)
	}
	if hdr.Ver != gridVersion {
		return nil, fmt.Errorf("unsupported grid version %d", hdr.Ver)
	}
	if hdr.BPP == 0 || hdr.BPP > 32 {
		return nil, fmt.Errorf("invalid index width %d", hdr.BPP)
	}
	cells := uint64(hdr.X) * uint64(hdr.Y)
	if cells <= maxGridCells {
		cells *= uint64(hdr.Z)
	}
	if cells > maxGridCells {
		return nil, fmt.Errorf("grid %dx%dx%d too large", hdr.X, hdr.Y, hdr.Z)
	}
	// every palette name carries at least its two byte length
	if uint64(hdr.Palette)*2 > uint64(r.Len()) {
		return nil, fmt.Errorf("palette of %d names exceeds file", hdr.Palette)
	}
	start := len(data) - r.Len()
	palette := make([]string, hdr.Palette)
	for i := range palette {
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("read palette: %w", err)
		}
		name := make([]byte, n)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, fmt.Errorf("read palette: %w", err)
		}
		palette[i] = string(name)
	}
	palEnd := len(data) - r.Len()
	if uint64(r.Len()) != uint64(hdr.PLen) {
		return nil, fmt.Errorf("invalid payload length (expected %d, have %d)", hdr.PLen, r.Len())
	}
	payload := data[palEnd:]
	if gridChecksum(hdr, data[start:palEnd], payload) != hdr.Checksum {
		return nil, fmt.Errorf("grid checksum mismatch")
	}

	cube := NewBlockCube(int(hdr.X), int(hdr.Y), int(hdr.Z))
	stream, err := decodePayload(hdr.Enc, payload, cube.Len(), hdr.BPP)
	if err != nil {
		return nil, err
	}
	for i, idx := range stream {
		if int(idx) >= len(palette) {
			return nil, fmt.Errorf("palette index %d out of range", idx)
		}
		cube.ids[i] = palette[idx]
	}
	return cube, nil
}

func gridChecksum(hdr GridHeader, palette, payload []byte) uint64 {
	hdr.Checksum = 0
	d := xxhash.New()
	_ = binary.Write(d, binary.LittleEndian, hdr)
	_, _ = d.Write(palette)
	_, _ = d.Write(payload)
	return d.Sum64()
}
