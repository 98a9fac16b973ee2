package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/config"
)

// RunVoxelize matches input against the catalog and caches the grid as a
// .vgrid file, so that packs and previews can later be built from outPath
// without voxelizing again.
func RunVoxelize(cfg *config.Config, input, outPath string, logger *log.Logger) error {
	cube, _, usage, err := loadStill(cfg, input)
	if err != nil {
		return err
	}
	if usage == nil {
		return fmt.Errorf("%s is already a grid", input)
	}
	if err := blocks.SaveGrid(cube, outPath); err != nil {
		return err
	}
	st, err := os.Stat(outPath)
	if err != nil {
		return err
	}
	logger.Printf("wrote %s: %dx%dx%d, %d distinct blocks, %s",
		outPath, cube.X, cube.Y, cube.Z, len(usage), humanize.Bytes(uint64(st.Size())))
	return nil
}
