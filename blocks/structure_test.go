package blocks

import (
	"reflect"
	"testing"
)

func TestEncodeStructurePaletteFirstSeen(t *testing.T) {
	cube := cubeFromRows("ab", "ba")
	s := EncodeStructure(cube, PlaneXY)
	if s.Size != [3]int32{2, 2, 1} {
		t.Fatalf("size %v", s.Size)
	}
	if !reflect.DeepEqual(s.Palette, []string{"a", "b"}) {
		t.Fatalf("palette %v", s.Palette)
	}
	if !reflect.DeepEqual(s.Indices, []int32{0, 1, 1, 0}) {
		t.Fatalf("indices %v", s.Indices)
	}
	for _, e := range s.Extra {
		if e != -1 {
			t.Fatalf("secondary layer holds %d", e)
		}
	}
}

func TestEncodeStructurePermutesSize(t *testing.T) {
	cube := cubeFromRows("abc", "def")
	xz := EncodeStructure(cube, PlaneXZ)
	if xz.Size != [3]int32{3, 1, 2} {
		t.Fatalf("xz size %v", xz.Size)
	}
	if xz.At(2, 0, 1) != "f" {
		t.Fatalf("xz At(2,0,1) = %s", xz.At(2, 0, 1))
	}
	zy := EncodeStructure(cube, PlaneZY)
	if zy.Size != [3]int32{1, 2, 3} {
		t.Fatalf("zy size %v", zy.Size)
	}
	if zy.At(0, 1, 0) != "d" {
		t.Fatalf("zy At(0,1,0) = %s", zy.At(0, 1, 0))
	}
}

func TestStructureIndicesInRange(t *testing.T) {
	s := EncodeStructure(cubeFromRows("abca", "ccbb", "aaaa"), PlaneXY)
	if len(s.Indices) != s.Volume() {
		t.Fatalf("%d indices for %d voxels", len(s.Indices), s.Volume())
	}
	for _, i := range s.Indices {
		if i < 0 || int(i) >= len(s.Palette) {
			t.Fatalf("index %d outside palette of %d", i, len(s.Palette))
		}
	}
}

func TestStructureMarshalRoundTrip(t *testing.T) {
	s := EncodeStructure(cubeFromRows("ab", "bc"), PlaneXY)
	data, err := s.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	// root compound with empty name, then format_version as the first field
	if data[0] != 0x0A || data[1] != 0 || data[2] != 0 || data[3] != 0x03 {
		t.Fatalf("unexpected header % x", data[:4])
	}
	got, err := UnmarshalStructure(data)
	if err != nil {
		t.Fatalf("UnmarshalStructure: %v", err)
	}
	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
}

func TestAirStructure(t *testing.T) {
	s := AirStructure(4, 3, 1, PlaneXZ)
	if s.Size != [3]int32{4, 1, 3} {
		t.Fatalf("size %v", s.Size)
	}
	if len(s.Palette) != 1 || s.Palette[0] != AirBlockID {
		t.Fatalf("palette %v", s.Palette)
	}
	if len(s.Indices) != 12 || s.Indices[11] != 0 || s.Extra[11] != -1 {
		t.Fatalf("bad index layers")
	}
	if _, err := s.Marshal(); err != nil {
		t.Fatalf("Marshal: %v", err)
	}
}
