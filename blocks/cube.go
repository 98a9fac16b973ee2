package blocks

// Pos is an integer grid coordinate.
type Pos struct {
	X, Y, Z int
}

// BlockCube is a dense X*Y*Z grid of block ids. Cells are addressed as
// cube.At(x, y, z); x is the image column, y the image row counted from the
// bottom and z the frame index.
type BlockCube struct {
	X, Y, Z int
	ids     []string
}

// NewBlockCube allocates an empty grid. Negative sizes are treated as zero.
func NewBlockCube(x, y, z int) *BlockCube {
	if x < 0 || y < 0 || z < 0 {
		x, y, z = 0, 0, 0
	}
	return &BlockCube{X: x, Y: y, Z: z, ids: make([]string, x*y*z)}
}

func (c *BlockCube) index(x, y, z int) int {
	return (x*c.Y+y)*c.Z + z
}

// At returns the block id at (x, y, z).
func (c *BlockCube) At(x, y, z int) string {
	return c.ids[c.index(x, y, z)]
}

// Set stores a block id at (x, y, z).
func (c *BlockCube) Set(x, y, z int, id string) {
	c.ids[c.index(x, y, z)] = id
}

// Len is the number of voxels.
func (c *BlockCube) Len() int { return len(c.ids) }

// Empty reports whether the grid holds no voxels.
func (c *BlockCube) Empty() bool { return len(c.ids) == 0 }

// Contains reports whether (x, y, z) lies inside the grid.
func (c *BlockCube) Contains(x, y, z int) bool {
	return x >= 0 && x < c.X && y >= 0 && y < c.Y && z >= 0 && z < c.Z
}

// truncateZ drops trailing frames, keeping the first z slices.
func (c *BlockCube) truncateZ(z int) *BlockCube {
	if z >= c.Z {
		return c
	}
	out := NewBlockCube(c.X, c.Y, z)
	for x := 0; x < c.X; x++ {
		for y := 0; y < c.Y; y++ {
			for k := 0; k < z; k++ {
				out.Set(x, y, k, c.At(x, y, k))
			}
		}
	}
	return out
}
