// Package utils holds the file-to-file pipelines behind the CLI commands.
package utils

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/catalog"
	"github.com/voxelsplace/blockpack/config"
	"github.com/voxelsplace/blockpack/mcpack"
	"github.com/voxelsplace/blockpack/media"
)

// GridExt marks a cached voxel grid written by RunVoxelize.
const GridExt = ".vgrid"

// loadPalette reads the configured catalog and filters it for the configured plane.
func loadPalette(cfg *config.Config) ([]blocks.PaletteEntry, error) {
	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	f, err := cfg.Filter()
	if err != nil {
		return nil, err
	}
	palette, err := cat.Palette(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", cfg.Catalog, err)
	}
	if len(palette) == 0 {
		return nil, fmt.Errorf("catalog %s: %w", cfg.Catalog, blocks.ErrEmptyPalette)
	}
	return palette, nil
}

func newVoxelizer(cfg *config.Config, palette []blocks.PaletteEntry) (*blocks.Voxelizer, error) {
	v, err := blocks.NewVoxelizer(palette, cfg.ParsedMetric(), cfg.MaxWidth, cfg.MaxHeight)
	if err != nil {
		return nil, err
	}
	v.Usage = make(map[string]int)
	return v, nil
}

// loadStill returns the grid for input: a .vgrid is read back as is, anything
// else is decoded and voxelized. img is nil for grid files.
func loadStill(cfg *config.Config, input string) (cube *blocks.BlockCube, img image.Image, usage map[string]int, err error) {
	if strings.EqualFold(filepath.Ext(input), GridExt) {
		cube, err = blocks.LoadGrid(input)
		return cube, nil, nil, err
	}
	palette, err := loadPalette(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	v, err := newVoxelizer(cfg, palette)
	if err != nil {
		return nil, nil, nil, err
	}
	if img, err = media.Decode(input); err != nil {
		return nil, nil, nil, err
	}
	if cube, err = v.Image(img); err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", input, err)
	}
	return cube, img, v.Usage, nil
}

// packName is the input's base name without extension.
func packName(input string) string {
	base := filepath.Base(strings.TrimRight(input, `/\`))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// packIcon renders img as the pack icon; without an image the default icon is used.
func packIcon(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, nil
	}
	return mcpack.EncodeIcon(media.Icon(img, 64))
}

// finish writes frame below cfg.Output, archiving it when configured.
func finish(cfg *config.Config, frame *mcpack.Frame, logger *log.Logger) (string, error) {
	policy, err := cfg.OverwritePolicy()
	if err != nil {
		return "", err
	}
	out, err := mcpack.Finish(frame.Root, cfg.Output, policy, cfg.Compress)
	if err != nil {
		return out, err
	}
	logger.Printf("wrote %s (%s uncompressed)", out, humanize.Bytes(uint64(frame.Root.Size())))
	return out, nil
}

// logUsage prints block usage counts, most used first.
func logUsage(logger *log.Logger, usage map[string]int) {
	ids := make([]string, 0, len(usage))
	for id := range usage {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if usage[ids[i]] != usage[ids[j]] {
			return usage[ids[i]] > usage[ids[j]]
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		logger.Printf("  %-40s %s", id, humanize.Comma(int64(usage[id])))
	}
}
