package blocks

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/voxelsplace/blockpack/media"
)

// Voxelizer turns images into block grids. Images are shrunk to fit
// MaxWidth x MaxHeight (<= 0 leaves an axis unbounded) and mirrored
// horizontally before matching. When Usage is non-nil it accumulates how
// many cells each block id was assigned.
type Voxelizer struct {
	Matcher   *Matcher
	MaxWidth  int
	MaxHeight int
	Usage     map[string]int
}

// NewVoxelizer builds a Voxelizer over palette. An empty palette fails fast.
func NewVoxelizer(palette []PaletteEntry, metric Metric, maxW, maxH int) (*Voxelizer, error) {
	m, err := NewMatcher(palette, metric)
	if err != nil {
		return nil, err
	}
	return &Voxelizer{Matcher: m, MaxWidth: maxW, MaxHeight: maxH}, nil
}

// Image voxelizes a still image into a (w, h, 1) grid. Cell (col, h-1-row, 0)
// holds the block nearest to pixel (col, row) of the scaled, mirrored image.
func (v *Voxelizer) Image(img image.Image) (*BlockCube, error) {
	if v.Matcher == nil {
		return NewBlockCube(0, 0, 0), ErrEmptyPalette
	}
	if media.Empty(img) {
		return NewBlockCube(0, 0, 0), ErrUnreadableSource
	}
	px := media.Prepare(img, v.MaxWidth, v.MaxHeight)
	b := px.Bounds()
	cube := NewBlockCube(b.Dx(), b.Dy(), 1)
	v.fill(cube, px, 0)
	return cube, nil
}

// Frames voxelizes up to maxFrames frames (<= 0 means all) into one grid whose
// third axis is the frame index. If the source runs dry early the depth
// shrinks to the frames actually read.
func (v *Voxelizer) Frames(src media.FrameSource, maxFrames int) (*BlockCube, error) {
	var cube *BlockCube
	n, err := v.EachFrame(src, maxFrames, func(z int, frame *BlockCube) error {
		if cube == nil {
			cube = NewBlockCube(frame.X, frame.Y, frameDepth(src, maxFrames))
		}
		for x := 0; x < frame.X; x++ {
			for y := 0; y < frame.Y; y++ {
				cube.Set(x, y, z, frame.At(x, y, 0))
			}
		}
		return nil
	})
	if err != nil {
		return NewBlockCube(0, 0, 0), err
	}
	return cube.truncateZ(n), nil
}

// EachFrame voxelizes frames one at a time and hands each (w, h, 1) grid to fn
// along with its frame index. It returns the number of frames delivered.
// Every frame must have the size of the first.
func (v *Voxelizer) EachFrame(src media.FrameSource, maxFrames int, fn func(z int, frame *BlockCube) error) (int, error) {
	if v.Matcher == nil {
		return 0, ErrEmptyPalette
	}
	depth := frameDepth(src, maxFrames)
	if depth <= 0 {
		return 0, fmt.Errorf("%w: no frames", ErrUnreadableSource)
	}
	w, h := -1, -1
	z := 0
	for ; z < depth; z++ {
		img, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return z, fmt.Errorf("frame %d: %w", z, err)
		}
		if media.Empty(img) {
			return z, fmt.Errorf("frame %d: %w", z, ErrUnreadableSource)
		}
		px := media.Prepare(img, v.MaxWidth, v.MaxHeight)
		b := px.Bounds()
		if w < 0 {
			w, h = b.Dx(), b.Dy()
		} else if b.Dx() != w || b.Dy() != h {
			return z, fmt.Errorf("frame %d: size %dx%d differs from first frame %dx%d", z, b.Dx(), b.Dy(), w, h)
		}
		frame := NewBlockCube(w, h, 1)
		v.fill(frame, px, 0)
		if err := fn(z, frame); err != nil {
			return z, err
		}
	}
	if z == 0 {
		return 0, fmt.Errorf("%w: no frames", ErrUnreadableSource)
	}
	return z, nil
}

func frameDepth(src media.FrameSource, maxFrames int) int {
	n := src.Count()
	if maxFrames > 0 && n > maxFrames {
		n = maxFrames
	}
	return n
}

func (v *Voxelizer) fill(cube *BlockCube, px *image.NRGBA, z int) {
	b := px.Bounds()
	h := b.Dy()
	for row := 0; row < h; row++ {
		for col := 0; col < b.Dx(); col++ {
			c := px.NRGBAAt(b.Min.X+col, b.Min.Y+row)
			e := v.Matcher.Nearest(Color{R: c.R, G: c.G, B: c.B})
			cube.Set(col, h-1-row, z, e.BlockID)
			if v.Usage != nil {
				v.Usage[e.BlockID]++
			}
		}
	}
}
