package blocks

// Vertex is a mesh corner tagged with the palette slot of its face.
type Vertex struct {
	Position [3]float32
	Slot     uint32
}

// Mesh is an indexed triangle list. Palette maps Vertex.Slot-1 to a block id;
// slot 0 never appears since it stands for an empty cell.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Palette  []string
}

type dirSpec struct {
	normal [3]float32
	u, v   int
	du, dv [3]int
}

var directions = []dirSpec{
	{[3]float32{1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{-1, 0, 0}, 1, 2, [3]int{0, 1, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, -1, 0}, 0, 2, [3]int{1, 0, 0}, [3]int{0, 0, 1}},
	{[3]float32{0, 0, 1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
	{[3]float32{0, 0, -1}, 0, 1, [3]int{1, 0, 0}, [3]int{0, 1, 0}},
}

// slotGrid is the structure-space view of a cube as palette slots.
type slotGrid struct {
	dims  [3]int
	slots []uint32
}

func newSlotGrid(cube *BlockCube, plane Plane) (*slotGrid, []string) {
	v := plane.View(cube)
	g := &slotGrid{dims: [3]int{v.Width, v.Height, v.Depth}, slots: make([]uint32, v.Width*v.Height*v.Depth)}
	table := map[string]uint32{}
	var palette []string
	for x := 0; x < v.Width; x++ {
		for y := 0; y < v.Height; y++ {
			for z := 0; z < v.Depth; z++ {
				id := v.At(x, y, z)
				if id == "" || id == AirBlockID {
					continue
				}
				s, ok := table[id]
				if !ok {
					palette = append(palette, id)
					s = uint32(len(palette))
					table[id] = s
				}
				g.slots[(x*v.Height+y)*v.Depth+z] = s
			}
		}
	}
	return g, palette
}

func (g *slotGrid) at(x, y, z int) uint32 {
	if x < 0 || x >= g.dims[0] || y < 0 || y >= g.dims[1] || z < 0 || z >= g.dims[2] {
		return 0
	}
	return g.slots[(x*g.dims[1]+y)*g.dims[2]+z]
}

func addQuad(mesh *Mesh, dir dirSpec, start [3]int, w, h int, slot uint32, perp int) {
	base := [3]float32{}
	base[perp] = float32(start[0])
	if dir.normal[perp] > 0 {
		base[perp] += 1
	}
	base[dir.u] = float32(start[1])
	base[dir.v] = float32(start[2])

	var verts [4]Vertex
	for i, k := range [4][2]int{{0, 0}, {h, 0}, {h, w}, {0, w}} {
		p := base
		for a := 0; a < 3; a++ {
			p[a] += float32(dir.du[a]*k[0] + dir.dv[a]*k[1])
		}
		verts[i] = Vertex{Position: p, Slot: slot}
	}

	if (dir.normal[perp] < 0) != (perp == 1) {
		verts[1], verts[3] = verts[3], verts[1]
	}

	baseIdx := uint32(len(mesh.Vertices))
	mesh.Vertices = append(mesh.Vertices, verts[:]...)
	mesh.Indices = append(mesh.Indices, baseIdx, baseIdx+1, baseIdx+2, baseIdx, baseIdx+2, baseIdx+3)
}

// GenerateMesh greedy-meshes the exposed faces of cube in structure space.
// Air and unset cells are treated as empty.
func GenerateMesh(cube *BlockCube, plane Plane) *Mesh {
	grid, palette := newSlotGrid(cube, plane)
	mesh := &Mesh{Palette: palette}
	dims := grid.dims

	for _, dir := range directions {
		perp := 3 - dir.u - dir.v

		for p := 0; p < dims[perp]; p++ {
			mask := make([][]uint32, dims[dir.u])
			visited := make([][]bool, dims[dir.u])
			for i := range mask {
				mask[i] = make([]uint32, dims[dir.v])
				visited[i] = make([]bool, dims[dir.v])
			}

			for u := 0; u < dims[dir.u]; u++ {
				for v := 0; v < dims[dir.v]; v++ {
					pos := [3]int{}
					pos[dir.u] = u
					pos[dir.v] = v
					pos[perp] = p

					slot := grid.at(pos[0], pos[1], pos[2])
					if slot == 0 {
						continue
					}
					adj := pos
					if dir.normal[perp] < 0 {
						adj[perp] = p - 1
					} else {
						adj[perp] = p + 1
					}
					if grid.at(adj[0], adj[1], adj[2]) == 0 {
						mask[u][v] = slot
					}
				}
			}

			for u := 0; u < dims[dir.u]; u++ {
				for v := 0; v < dims[dir.v]; {
					if mask[u][v] == 0 || visited[u][v] {
						v++
						continue
					}
					slot := mask[u][v]
					width := 1
					for w := v + 1; w < dims[dir.v] && mask[u][w] == slot && !visited[u][w]; w++ {
						width++
					}
					height := 1
					stop := false
					for h := u + 1; h < dims[dir.u] && !stop; h++ {
						for w := v; w < v+width; w++ {
							if mask[h][w] != slot || visited[h][w] {
								stop = true
								break
							}
						}
						if !stop {
							height++
						}
					}
					for hu := u; hu < u+height; hu++ {
						for hv := v; hv < v+width; hv++ {
							visited[hu][hv] = true
						}
					}
					addQuad(mesh, dir, [3]int{p, u, v}, width, height, slot, perp)
					v += width
				}
			}
		}
	}
	return mesh
}
