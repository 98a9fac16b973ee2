package api

import (
	"bytes"
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/media"
)

// unknownColor paints blocks missing from the colour table.
var unknownColor = [4]float32{0.5, 0.5, 0.5, 1}

// GridToGLB meshes cube in world space and returns a binary glTF. colors maps
// block ids to vertex colours.
func GridToGLB(cube *blocks.BlockCube, plane blocks.Plane, colors map[string]blocks.Color) ([]byte, error) {
	mesh := blocks.GenerateMesh(cube, plane)

	positions := make([][3]float32, len(mesh.Vertices))
	vcolors := make([][4]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = v.Position
		vcolors[i] = unknownColor
		if c, ok := colors[mesh.Palette[v.Slot-1]]; ok {
			vcolors[i] = c.RGBA()
		}
	}
	indices := make([]uint32, len(mesh.Indices))
	copy(indices, mesh.Indices)

	doc := gltf.NewDocument()
	doc.Asset.Generator = "blockpack -> GLB"
	if len(indices) == 0 {
		return encodeGLB(doc)
	}
	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, flatNormals(positions, indices))
	colorAccessor := modeler.WriteColor(doc, vcolors)
	indicesAccessor := modeler.WriteIndices(doc, indices)
	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION: posAccessor,
			gltf.NORMAL:   normalAccessor,
			gltf.COLOR_0:  colorAccessor,
		},
		Indices:  gltf.Index(indicesAccessor),
		Material: gltf.Index(0),
	}
	pbr := &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 1, 1, 1}, MetallicFactor: gltf.Float(0), RoughnessFactor: gltf.Float(1)}
	doc.Materials = []*gltf.Material{{PBRMetallicRoughness: pbr, AlphaMode: gltf.AlphaOpaque}}
	doc.Meshes = []*gltf.Mesh{{Name: "BlockMesh", Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return encodeGLB(doc)
}

// flatNormals assigns every triangle corner its face normal. Quads never
// share vertices, so no corner is written twice with different values.
func flatNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		v0, v1, v2 := indices[i], indices[i+1], indices[i+2]
		p0, p1, p2 := positions[v0], positions[v1], positions[v2]
		vec1 := [3]float32{p1[0] - p0[0], p1[1] - p0[1], p1[2] - p0[2]}
		vec2 := [3]float32{p2[0] - p0[0], p2[1] - p0[1], p2[2] - p0[2]}
		cross := [3]float32{
			vec1[1]*vec2[2] - vec1[2]*vec2[1],
			vec1[2]*vec2[0] - vec1[0]*vec2[2],
			vec1[0]*vec2[1] - vec1[1]*vec2[0],
		}
		length := float32(math.Sqrt(float64(cross[0]*cross[0] + cross[1]*cross[1] + cross[2]*cross[2])))
		if length > 0 {
			cross[0] /= length
			cross[1] /= length
			cross[2] /= length
		}
		normals[v0] = cross
		normals[v1] = cross
		normals[v2] = cross
	}
	return normals
}

func encodeGLB(doc *gltf.Document) ([]byte, error) {
	var out bytes.Buffer
	enc := gltf.NewEncoder(&out)
	enc.AsBinary = true
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// PaletteColors indexes palette colours by block id.
func PaletteColors(palette []blocks.PaletteEntry) map[string]blocks.Color {
	out := make(map[string]blocks.Color, len(palette))
	for _, e := range palette {
		if _, ok := out[e.BlockID]; !ok {
			out[e.BlockID] = e.Color
		}
	}
	return out
}

// TextureSource loads the texture image named by a palette entry.
type TextureSource func(name string) (image.Image, error)

// BlockImage renders the z = 0 layer of cube as a mosaic of tile x tile
// textures, undoing the mirror and flip applied during voxelization so that
// the result reads like the source image. Blocks whose texture cannot be
// loaded are drawn in their palette colour.
func BlockImage(cube *blocks.BlockCube, palette []blocks.PaletteEntry, textures TextureSource, tile int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, cube.X*tile, cube.Y*tile))
	if cube.Empty() {
		return dst
	}
	entries := make(map[string]blocks.PaletteEntry, len(palette))
	for _, e := range palette {
		if _, ok := entries[e.BlockID]; !ok {
			entries[e.BlockID] = e
		}
	}
	tiles := make(map[string]*image.NRGBA)
	tileFor := func(id string) *image.NRGBA {
		if img, ok := tiles[id]; ok {
			return img
		}
		e := entries[id]
		var img *image.NRGBA
		if textures != nil && e.Texture != "" {
			if src, err := textures(e.Texture); err == nil {
				img = media.Thumbnail(src, tile)
			}
		}
		if img == nil {
			img = image.NewNRGBA(image.Rect(0, 0, tile, tile))
			draw.Draw(img, img.Bounds(), image.NewUniform(e.Color.NRGBA()), image.Point{}, draw.Src)
		}
		tiles[id] = img
		return img
	}
	g := gift.New()
	for x := 0; x < cube.X; x++ {
		for y := 0; y < cube.Y; y++ {
			id := cube.At(x, y, 0)
			if id == "" {
				continue
			}
			at := image.Pt((cube.X-1-x)*tile, (cube.Y-1-y)*tile)
			g.DrawAt(dst, tileFor(id), at, gift.CopyOperator)
		}
	}
	return dst
}
