package utils

import (
	"fmt"
	"log"

	"github.com/voxelsplace/blockpack/api"
	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/config"
	"github.com/voxelsplace/blockpack/mcpack"
	"github.com/voxelsplace/blockpack/media"
)

// RunStructurePack converts an image (or a .vgrid) into a pack holding a
// single structure.
func RunStructurePack(cfg *config.Config, input string, logger *log.Logger) (string, error) {
	cube, img, _, err := loadStill(cfg, input)
	if err != nil {
		return "", err
	}
	m, err := cfg.Manifest(packName(input))
	if err != nil {
		return "", err
	}
	icon, err := packIcon(img)
	if err != nil {
		return "", err
	}
	frame, err := api.StructurePack(cube, cfg.ParsedPlane(), m, icon)
	if err != nil {
		return "", err
	}
	logger.Printf("%s: %dx%dx%d structure on %s", input, cube.X, cube.Y, cube.Z, cfg.ParsedPlane())
	return finish(cfg, frame, logger)
}

// RunVideoPack converts an animated GIF or a directory of numbered frames
// into a structure pack. With detach_frames every frame is its own structure
// played back one per tick; otherwise all frames are stacked along the depth
// axis of one structure.
func RunVideoPack(cfg *config.Config, input string, logger *log.Logger) (string, error) {
	palette, err := loadPalette(cfg)
	if err != nil {
		return "", err
	}
	v, err := newVoxelizer(cfg, palette)
	if err != nil {
		return "", err
	}
	src, err := media.OpenFrames(input)
	if err != nil {
		return "", err
	}
	m, err := cfg.Manifest(packName(input))
	if err != nil {
		return "", err
	}
	plane := cfg.ParsedPlane()

	var frame *mcpack.Frame
	if cfg.DetachFrames {
		frame, err = detachedVideo(cfg, v, src, m, logger)
	} else {
		var cube *blocks.BlockCube
		if cube, err = v.Frames(src, cfg.MaxFrames); err == nil {
			logger.Printf("%s: %d frames of %dx%d stacked into one structure", input, cube.Z, cube.X, cube.Y)
			frame, err = api.StructurePack(cube, plane, m, nil)
		}
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", input, err)
	}
	return finish(cfg, frame, logger)
}

func detachedVideo(cfg *config.Config, v *blocks.Voxelizer, src media.FrameSource, m *mcpack.Manifest, logger *log.Logger) (*mcpack.Frame, error) {
	pack, err := api.NewVideoPack(cfg.ParsedPlane(), m, nil, cfg.DedupeFrames)
	if err != nil {
		return nil, err
	}
	n, err := v.EachFrame(src, cfg.MaxFrames, func(_ int, f *blocks.BlockCube) error {
		return pack.Add(f)
	})
	if err != nil {
		return nil, err
	}
	logger.Printf("%d frames, %d distinct structures", n, pack.Stored())
	return pack.Close()
}
