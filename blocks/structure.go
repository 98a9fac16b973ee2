package blocks

import (
	"fmt"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

const (
	structureFormatVersion = 1
	// BlockStateVersion is the block state version stamped on every palette entry.
	BlockStateVersion = 18103297
	AirBlockID        = "minecraft:air"
)

// StructureData is a palette-indexed structure ready to be serialised.
// Indices hold one palette index per voxel; Extra holds the secondary layer,
// which is always -1 (no block).
type StructureData struct {
	Size    [3]int32
	Indices []int32
	Extra   []int32
	Palette []string
}

// EncodeStructure indexes cube under plane. Voxels are visited x outer, y
// middle, z inner in structure space and the palette is built in first-seen order.
func EncodeStructure(cube *BlockCube, plane Plane) StructureData {
	v := plane.View(cube)
	n := v.Width * v.Height * v.Depth
	s := StructureData{
		Size:    [3]int32{int32(v.Width), int32(v.Height), int32(v.Depth)},
		Indices: make([]int32, 0, n),
		Extra:   make([]int32, 0, n),
	}
	table := make(map[string]int32)
	for x := 0; x < v.Width; x++ {
		for y := 0; y < v.Height; y++ {
			for z := 0; z < v.Depth; z++ {
				id := v.At(x, y, z)
				idx, ok := table[id]
				if !ok {
					idx = int32(len(s.Palette))
					table[id] = idx
					s.Palette = append(s.Palette, id)
				}
				s.Indices = append(s.Indices, idx)
				s.Extra = append(s.Extra, -1)
			}
		}
	}
	return s
}

// AirStructure fills a (x, y, z) grid, permuted by plane, with air.
// Loading it over a placed structure clears it.
func AirStructure(x, y, z int, plane Plane) StructureData {
	w, h, d := plane.Dims(x, y, z)
	n := w * h * d
	s := StructureData{
		Size:    [3]int32{int32(w), int32(h), int32(d)},
		Indices: make([]int32, n),
		Extra:   make([]int32, n),
		Palette: []string{AirBlockID},
	}
	for i := range s.Extra {
		s.Extra[i] = -1
	}
	return s
}

// Volume is the number of voxels the structure covers.
func (s StructureData) Volume() int {
	return int(s.Size[0]) * int(s.Size[1]) * int(s.Size[2])
}

// At returns the block id at structure coordinates (x, y, z).
func (s StructureData) At(x, y, z int) string {
	i := (x*int(s.Size[1])+y)*int(s.Size[2]) + z
	return s.Palette[s.Indices[i]]
}

type mcstructure struct {
	FormatVersion int32         `nbt:"format_version"`
	Size          []int32       `nbt:"size"`
	Structure     structureBody `nbt:"structure"`
	WorldOrigin   []int32       `nbt:"structure_world_origin"`
}

type structureBody struct {
	BlockIndices [][]int32        `nbt:"block_indices"`
	Entities     []map[string]any `nbt:"entities"`
	Palette      structurePalette `nbt:"palette"`
}

type structurePalette struct {
	Default paletteSet `nbt:"default"`
}

type paletteSet struct {
	BlockPalette      []blockState   `nbt:"block_palette"`
	BlockPositionData map[string]any `nbt:"block_position_data"`
}

type blockState struct {
	States  map[string]any `nbt:"states"`
	Version int32          `nbt:"version"`
	Name    string         `nbt:"name"`
}

// Marshal serialises the structure as little-endian NBT (.mcstructure).
func (s StructureData) Marshal() ([]byte, error) {
	if len(s.Indices) != s.Volume() || len(s.Extra) != s.Volume() {
		return nil, fmt.Errorf("structure index layers hold %d/%d entries, want %d", len(s.Indices), len(s.Extra), s.Volume())
	}
	m := mcstructure{
		FormatVersion: structureFormatVersion,
		Size:          s.Size[:],
		Structure: structureBody{
			BlockIndices: [][]int32{s.Indices, s.Extra},
			Entities:     []map[string]any{},
			Palette: structurePalette{Default: paletteSet{
				BlockPalette:      make([]blockState, len(s.Palette)),
				BlockPositionData: map[string]any{},
			}},
		},
		WorldOrigin: []int32{0, 0, 0},
	}
	for i, name := range s.Palette {
		m.Structure.Palette.Default.BlockPalette[i] = blockState{
			States:  map[string]any{},
			Version: BlockStateVersion,
			Name:    name,
		}
	}
	return nbt.MarshalEncoding(m, nbt.LittleEndian)
}

// UnmarshalStructure parses a .mcstructure produced by Marshal.
func UnmarshalStructure(data []byte) (StructureData, error) {
	var m mcstructure
	if err := nbt.UnmarshalEncoding(data, &m, nbt.LittleEndian); err != nil {
		return StructureData{}, fmt.Errorf("decode mcstructure: %w", err)
	}
	if m.FormatVersion != structureFormatVersion {
		return StructureData{}, fmt.Errorf("unsupported mcstructure format version %d", m.FormatVersion)
	}
	if len(m.Size) != 3 {
		return StructureData{}, fmt.Errorf("mcstructure size has %d components", len(m.Size))
	}
	if len(m.Structure.BlockIndices) != 2 {
		return StructureData{}, fmt.Errorf("mcstructure has %d index layers", len(m.Structure.BlockIndices))
	}
	s := StructureData{
		Size:    [3]int32{m.Size[0], m.Size[1], m.Size[2]},
		Indices: m.Structure.BlockIndices[0],
		Extra:   m.Structure.BlockIndices[1],
	}
	for _, b := range m.Structure.Palette.Default.BlockPalette {
		s.Palette = append(s.Palette, b.Name)
	}
	if len(s.Indices) != s.Volume() {
		return StructureData{}, fmt.Errorf("mcstructure holds %d indices for %d voxels", len(s.Indices), s.Volume())
	}
	for _, i := range s.Indices {
		if i < 0 || int(i) >= len(s.Palette) {
			return StructureData{}, fmt.Errorf("palette index %d out of range", i)
		}
	}
	return s, nil
}
