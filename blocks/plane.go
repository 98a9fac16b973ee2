package blocks

import "fmt"

// Plane selects how the logical (width, height, depth) axes map onto the
// grid's (x, y, z) axes. Every permutation is an involution, so Map also
// converts grid coordinates back to logical ones.
type Plane uint8

const (
	// PlaneXY keeps the image upright facing the z axis.
	PlaneXY Plane = iota
	// PlaneZY swaps the first and third axes: the image faces the x axis.
	PlaneZY
	// PlaneXZ swaps the second and third axes: the image lies flat on the ground.
	PlaneXZ
)

// ParsePlane maps a config name to a Plane. The empty string selects PlaneXY.
func ParsePlane(s string) (Plane, error) {
	switch s {
	case "", "xy", "XY_Z":
		return PlaneXY, nil
	case "zy", "ZY_X":
		return PlaneZY, nil
	case "xz", "XZ_Y":
		return PlaneXZ, nil
	}
	return 0, fmt.Errorf("unknown plane %q", s)
}

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "xy"
	case PlaneZY:
		return "zy"
	case PlaneXZ:
		return "xz"
	}
	return fmt.Sprintf("Plane(%d)", uint8(p))
}

// Valid reports whether p is one of the three conventions.
func (p Plane) Valid() bool { return p <= PlaneXZ }

// Vertical reports whether the plane stands upright (image faces are block sides).
func (p Plane) Vertical() bool { return p != PlaneXZ }

// Map permutes a coordinate triple under the plane.
func (p Plane) Map(x, y, z int) (int, int, int) {
	switch p {
	case PlaneZY:
		return z, y, x
	case PlaneXZ:
		return x, z, y
	}
	return x, y, z
}

// MapPos is Map over a Pos.
func (p Plane) MapPos(v Pos) Pos {
	x, y, z := p.Map(v.X, v.Y, v.Z)
	return Pos{X: x, Y: y, Z: z}
}

// Dims returns the logical (width, height, depth) of a grid with physical dims (x, y, z).
func (p Plane) Dims(x, y, z int) (int, int, int) {
	return p.Map(x, y, z)
}

// View is a read-only logical window over a grid under a plane.
type View struct {
	Plane  Plane
	Width  int
	Height int
	Depth  int

	cube *BlockCube
}

// View builds the logical window for cube. No cells are copied.
func (p Plane) View(cube *BlockCube) View {
	w, h, d := p.Dims(cube.X, cube.Y, cube.Z)
	return View{Plane: p, Width: w, Height: h, Depth: d, cube: cube}
}

// At returns the block id at logical (x, y, z).
func (v View) At(x, y, z int) string {
	gx, gy, gz := v.Plane.Map(x, y, z)
	return v.cube.At(gx, gy, gz)
}
