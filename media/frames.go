package media

import (
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// FrameSource yields the frames of an animation in display order.
// Next returns io.EOF once the source is exhausted.
type FrameSource interface {
	// Count is the number of frames the source expects to deliver.
	Count() int
	Next() (image.Image, error)
}

// OpenFrames opens an animated GIF or a directory of numbered still images.
func OpenFrames(path string) (FrameSource, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if st.IsDir() {
		return OpenFrameDir(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return DecodeGIF(f)
	}
	img, err := DecodeReader(f)
	if err != nil {
		return nil, err
	}
	return NewSliceSource(img), nil
}

// SliceSource serves frames held in memory.
type SliceSource struct {
	frames []image.Image
	pos    int
}

func NewSliceSource(frames ...image.Image) *SliceSource {
	return &SliceSource{frames: frames}
}

func (s *SliceSource) Count() int { return len(s.frames) }

func (s *SliceSource) Next() (image.Image, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	img := s.frames[s.pos]
	s.pos++
	return img, nil
}

// DecodeGIF composites every frame of an animated GIF onto its logical screen.
func DecodeGIF(r io.Reader) (*SliceSource, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%w: gif has no frames", ErrUnreadable)
	}
	screen := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if screen.Empty() {
		screen = g.Image[0].Bounds()
	}
	canvas := image.NewNRGBA(screen)
	frames := make([]image.Image, 0, len(g.Image))
	for i, p := range g.Image {
		var restore *image.NRGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			restore = image.NewNRGBA(screen)
			copy(restore.Pix, canvas.Pix)
		}
		draw.Draw(canvas, p.Bounds(), p, p.Bounds().Min, draw.Over)
		frame := image.NewNRGBA(screen)
		copy(frame.Pix, canvas.Pix)
		frames = append(frames, frame)
		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, p.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = restore
		}
	}
	return NewSliceSource(frames...), nil
}

var frameNumber = regexp.MustCompile(`(\d+)`)

// DirSource decodes numbered images from a directory lazily, in numeric order.
type DirSource struct {
	paths []string
	pos   int
}

// OpenFrameDir lists the decodable images of dir ordered by the last number in
// their names, falling back to lexical order.
func OpenFrameDir(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	type numbered struct {
		path string
		n    int
	}
	var files []numbered
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif":
		default:
			continue
		}
		n := -1
		if m := frameNumber.FindAllString(e.Name(), -1); len(m) > 0 {
			n, _ = strconv.Atoi(m[len(m)-1])
		}
		files = append(files, numbered{path: filepath.Join(dir, e.Name()), n: n})
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no frames in %s", ErrUnreadable, dir)
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].n != files[j].n {
			return files[i].n < files[j].n
		}
		return files[i].path < files[j].path
	})
	src := &DirSource{paths: make([]string, len(files))}
	for i, f := range files {
		src.paths[i] = f.path
	}
	return src, nil
}

func (d *DirSource) Count() int { return len(d.paths) }

func (d *DirSource) Next() (image.Image, error) {
	if d.pos >= len(d.paths) {
		return nil, io.EOF
	}
	p := d.paths[d.pos]
	d.pos++
	img, err := Decode(p)
	if err != nil {
		return nil, fmt.Errorf("frame %s: %w", filepath.Base(p), err)
	}
	return img, nil
}
