package catalog

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/blang/semver"

	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/media"
)

// Filter selects catalog blocks usable for one build.
type Filter struct {
	// Face is the face that will be visible.
	Face Face
	// Alignment is the orientation the build needs.
	Alignment Alignment
	// Attributes lists the behaviours that are tolerated.
	Attributes Attribute
	// MinVersion is the oldest game version the pack targets.
	MinVersion semver.Version
}

// ForPlane derives the face and alignment from plane: upright planes show
// block sides, the ground plane shows block tops.
func ForPlane(plane blocks.Plane, attrs Attribute, minVersion semver.Version) Filter {
	f := Filter{Attributes: attrs, MinVersion: minVersion}
	if plane.Vertical() {
		f.Face, f.Alignment = Side, Vertical
	} else {
		f.Face, f.Alignment = Top, Horizontal
	}
	return f
}

// Palette narrows the catalog to palette entries in catalog order.
func (c *Catalog) Palette(f Filter) ([]blocks.PaletteEntry, error) {
	var out []blocks.PaletteEntry
	for i := range c.Blocks {
		e, ok, err := c.Blocks[i].entry(f)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (b *Block) entry(f Filter) (blocks.PaletteEntry, bool, error) {
	colors := faceMap(b.RGBColor)
	textures := faceMap(b.Texture)
	var faces Face
	for k := range colors {
		faces |= k
	}
	align := b.Alignment()
	attrs := b.Attributes()
	switch {
	case align&f.Alignment == 0:
		return blocks.PaletteEntry{}, false, nil
	case b.Debut().LT(f.MinVersion):
		return blocks.PaletteEntry{}, false, nil
	case attrs&f.Attributes != attrs:
		return blocks.PaletteEntry{}, false, nil
	case f.Face&faces == 0:
		return blocks.PaletteEntry{}, false, nil
	}
	id, ok := b.IDFor(f.MinVersion)
	if !ok {
		return blocks.PaletteEntry{}, false, nil
	}

	var texture, hex string
	if align == Horizontal|Vertical && len(colors) == 1 {
		for _, v := range colors {
			hex = v
		}
		texture = lowestFace(textures)
	} else {
		var okT, okC bool
		texture, okT = textures[f.Face]
		hex, okC = colors[f.Face]
		if !okT || !okC {
			return blocks.PaletteEntry{}, false, nil
		}
	}
	col, err := blocks.ParseHexColor(hex)
	if err != nil {
		return blocks.PaletteEntry{}, false, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return blocks.PaletteEntry{BlockID: id, Texture: texture, Color: col}, true, nil
}

func lowestFace(m map[Face]string) string {
	best := Face(0)
	out := ""
	for k, v := range m {
		if best == 0 || k < best {
			best, out = k, v
		}
	}
	return out
}

// RecolorResult reports what Recolor changed.
type RecolorResult struct {
	Updated int
	Missing []string
}

// Recolor recomputes the side and top colours of every block from the
// average colour of its textures under textureDir. Textures that cannot be
// decoded are listed in Missing and leave the colour untouched.
func (c *Catalog) Recolor(textureDir string) (RecolorResult, error) {
	var res RecolorResult
	for i := range c.Blocks {
		b := &c.Blocks[i]
		for _, key := range []string{"side", "top"} {
			name, ok := b.Texture[key]
			if !ok || name == nil {
				continue
			}
			img, err := media.Decode(filepath.Join(textureDir, *name))
			if errors.Is(err, media.ErrUnreadable) {
				res.Missing = append(res.Missing, *name)
				continue
			}
			if err != nil {
				return res, err
			}
			avg := blocks.ColorOf(media.Average(img)).Hex()
			if b.RGBColor == nil {
				b.RGBColor = map[string]*string{}
			}
			b.RGBColor[key] = &avg
			res.Updated++
		}
	}
	return res, nil
}
