// Package api exposes the conversions on in-memory byte slices, for callers
// without a filesystem such as the wasm build.
package api

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/blang/semver"

	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/catalog"
	"github.com/voxelsplace/blockpack/mcpack"
	"github.com/voxelsplace/blockpack/media"
)

// Options are the knobs of an in-memory conversion. The zero value is not
// usable; start from DefaultOptions.
type Options struct {
	Plane       blocks.Plane
	Metric      blocks.Metric
	MaxWidth    int
	MaxHeight   int
	MaxCommands int
	Commands    blocks.CommandOptions
	Attributes  catalog.Attribute
	MinVersion  semver.Version
}

// DefaultOptions mirrors the CLI defaults.
func DefaultOptions() Options {
	return Options{
		Plane:       blocks.PlaneXY,
		Metric:      blocks.MetricPerceptual,
		MaxWidth:    480,
		MaxHeight:   270,
		MaxCommands: 9000,
		MinVersion:  semver.Version{Major: 1},
	}
}

// Palette parses catalog JSON and filters it for opts.Plane.
func Palette(catalogJSON []byte, opts Options) ([]blocks.PaletteEntry, error) {
	cat, err := catalog.Parse(catalogJSON)
	if err != nil {
		return nil, err
	}
	return cat.Palette(catalog.ForPlane(opts.Plane, opts.Attributes, opts.MinVersion))
}

// ImageToGrid voxelizes an encoded image against palette.
func ImageToGrid(img []byte, palette []blocks.PaletteEntry, opts Options) (*blocks.BlockCube, error) {
	cube, _, err := voxelize(img, palette, opts)
	return cube, err
}

func voxelize(img []byte, palette []blocks.PaletteEntry, opts Options) (*blocks.BlockCube, image.Image, error) {
	v, err := blocks.NewVoxelizer(palette, opts.Metric, opts.MaxWidth, opts.MaxHeight)
	if err != nil {
		return nil, nil, err
	}
	decoded, err := media.DecodeBytes(img)
	if err != nil {
		return nil, nil, err
	}
	cube, err := v.Image(decoded)
	return cube, decoded, err
}

// ImageToCommands returns the fill commands rebuilding img, one per line.
func ImageToCommands(img []byte, palette []blocks.PaletteEntry, opts Options) (string, error) {
	cube, err := ImageToGrid(img, palette, opts)
	if err != nil {
		return "", err
	}
	return blocks.JoinLines(blocks.Commands(cube, opts.Plane, opts.Commands)), nil
}

// ImageToStructure returns img as .mcstructure bytes.
func ImageToStructure(img []byte, palette []blocks.PaletteEntry, opts Options) ([]byte, error) {
	cube, err := ImageToGrid(img, palette, opts)
	if err != nil {
		return nil, err
	}
	return blocks.EncodeStructure(cube, opts.Plane).Marshal()
}

// ImageToMcpack builds a complete function pack (or, with structure set, a
// structure pack) named name and returns it zipped.
func ImageToMcpack(img []byte, palette []blocks.PaletteEntry, name string, structure bool, opts Options) ([]byte, error) {
	cube, decoded, err := voxelize(img, palette, opts)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "blockpack"
	}
	m := mcpack.NewManifest(name, "")
	icon, err := mcpack.EncodeIcon(media.Icon(decoded, 64))
	if err != nil {
		return nil, err
	}
	var frame *mcpack.Frame
	if structure {
		frame, err = StructurePack(cube, opts.Plane, m, icon)
	} else {
		frame, _, err = FunctionPack(cube, opts.Plane, m, icon, opts.MaxCommands, opts.Commands)
	}
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := frame.Root.WriteArchive(&out); err != nil {
		return nil, fmt.Errorf("archive pack: %w", err)
	}
	return out.Bytes(), nil
}

// GridFileToGLB converts .vgrid bytes to a binary glTF coloured by palette.
func GridFileToGLB(grid []byte, palette []blocks.PaletteEntry, plane blocks.Plane) ([]byte, error) {
	cube, err := blocks.UnmarshalGrid(grid)
	if err != nil {
		return nil, err
	}
	return GridToGLB(cube, plane, PaletteColors(palette))
}
