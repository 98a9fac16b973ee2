package utils

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/voxelsplace/blockpack/api"
	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/config"
	"github.com/voxelsplace/blockpack/media"
)

// BlockTile is the edge length in pixels of one block in a block image.
const BlockTile = 16

// RunBlockImage renders the conversion of input as a mosaic of block
// textures and writes it to outPath as PNG, logging how often each block
// was used.
func RunBlockImage(cfg *config.Config, input, outPath string, logger *log.Logger) error {
	cube, _, usage, err := loadStill(cfg, input)
	if err != nil {
		return err
	}
	palette, err := loadPalette(cfg)
	if err != nil {
		return err
	}
	var textures api.TextureSource
	if cfg.Textures != "" {
		textures = func(name string) (image.Image, error) {
			return media.Decode(filepath.Join(cfg.Textures, name))
		}
	}
	img := api.BlockImage(cube, palette, textures, BlockTile)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if usage == nil {
		usage = countBlocks(cube)
	}
	logger.Printf("%s: %dx%d blocks, %d distinct", outPath, cube.X, cube.Y, len(usage))
	logUsage(logger, usage)
	return nil
}

func countBlocks(cube *blocks.BlockCube) map[string]int {
	usage := make(map[string]int)
	for x := 0; x < cube.X; x++ {
		for y := 0; y < cube.Y; y++ {
			for z := 0; z < cube.Z; z++ {
				if id := cube.At(x, y, z); id != "" {
					usage[id]++
				}
			}
		}
	}
	return usage
}

// RunPreviewGLB writes a greedy-meshed .glb of the conversion of input,
// placed in world space for the configured plane and coloured from the
// catalog.
func RunPreviewGLB(cfg *config.Config, input, outPath string, logger *log.Logger) error {
	cube, _, _, err := loadStill(cfg, input)
	if err != nil {
		return err
	}
	palette, err := loadPalette(cfg)
	if err != nil {
		return err
	}
	glb, err := api.GridToGLB(cube, cfg.ParsedPlane(), api.PaletteColors(palette))
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, glb, 0644); err != nil {
		return err
	}
	logger.Printf("wrote %s (%s)", outPath, humanize.Bytes(uint64(len(glb))))
	return nil
}
