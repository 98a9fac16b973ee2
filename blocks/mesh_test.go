package blocks

import "testing"

func TestMeshSingleBlock(t *testing.T) {
	mesh := GenerateMesh(cubeFromRows("a"), PlaneXY)
	if len(mesh.Vertices) != 24 || len(mesh.Indices) != 36 {
		t.Fatalf("got %d vertices, %d indices", len(mesh.Vertices), len(mesh.Indices))
	}
	if len(mesh.Palette) != 1 || mesh.Palette[0] != "a" {
		t.Fatalf("palette %v", mesh.Palette)
	}
}

func TestMeshMergesEqualFaces(t *testing.T) {
	mesh := GenerateMesh(cubeFromRows("aaaa", "aaaa"), PlaneXY)
	if quads := len(mesh.Vertices) / 4; quads != 6 {
		t.Fatalf("got %d quads, want 6", quads)
	}
}

func TestMeshSkipsAir(t *testing.T) {
	cube := NewBlockCube(2, 2, 1)
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			cube.Set(x, y, 0, AirBlockID)
		}
	}
	if mesh := GenerateMesh(cube, PlaneXZ); len(mesh.Vertices) != 0 {
		t.Fatalf("air produced %d vertices", len(mesh.Vertices))
	}
}
