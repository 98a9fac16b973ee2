package mcpack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Frame is the skeleton every pack shares.
type Frame struct {
	Root       *Dir
	Functions  *Dir // functions/<prefix>
	Structures *Dir // structures/<prefix>
	Manifest   *Manifest
}

// NewFrame lays out manifest.json, pack_icon.png, functions/tick.json and the
// prefixed functions and structures directories. A nil icon selects DefaultIcon.
func NewFrame(m *Manifest, icon []byte) (*Frame, error) {
	root := NewDir(m.Name)
	manifest, err := m.JSON()
	if err != nil {
		return nil, err
	}
	root.File("manifest.json").Set(manifest)
	if icon == nil {
		if icon, err = DefaultIcon(); err != nil {
			return nil, err
		}
	}
	root.File("pack_icon.png").Set(icon)
	f := &Frame{
		Root:       root,
		Functions:  root.Path("functions", m.PackPrefix()),
		Structures: root.Path("structures", m.PackPrefix()),
		Manifest:   m,
	}
	if err := f.SetTick(); err != nil {
		return nil, err
	}
	return f, nil
}

type tickDoc struct {
	Values []string `json:"values"`
}

// SetTick rewrites functions/tick.json with the given function paths,
// keeping entries already present.
func (f *Frame) SetTick(paths ...string) error {
	tick := f.Root.Path("functions").File("tick.json")
	doc := tickDoc{Values: []string{}}
	if tick.Len() > 0 {
		if err := json.Unmarshal(tick.Bytes(), &doc); err != nil {
			return fmt.Errorf("parse tick.json: %w", err)
		}
	}
	for _, p := range paths {
		dup := false
		for _, v := range doc.Values {
			dup = dup || v == p
		}
		if !dup {
			doc.Values = append(doc.Values, p)
		}
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return err
	}
	tick.Set(data)
	return nil
}

// Function returns functions/<prefix>/<path>.mcfunction for writing.
func (f *Frame) Function(path ...string) *File {
	dirs, name := path[:len(path)-1], path[len(path)-1]
	return f.Functions.Path(dirs...).File(name + ".mcfunction")
}

// Structure returns structures/<prefix>/<name>.mcstructure for writing.
func (f *Frame) Structure(name string) *File {
	return f.Structures.File(name + ".mcstructure")
}

// DefaultIcon renders a plain checkered icon.
func DefaultIcon() ([]byte, error) {
	const size, cell = 64, 16
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	light := color.NRGBA{0x7F, 0xB2, 0x38, 0xFF}
	dark := color.NRGBA{0x59, 0x7D, 0x27, 0xFF}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := light
			if (x/cell+y/cell)%2 == 1 {
				c = dark
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return EncodeIcon(img)
}

// EncodeIcon encodes img as PNG.
func EncodeIcon(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
