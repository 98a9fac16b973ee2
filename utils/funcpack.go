package utils

import (
	"log"

	"github.com/dustin/go-humanize"

	"github.com/voxelsplace/blockpack/api"
	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/config"
)

// RunFunctionPack converts an image (or a .vgrid) into a function pack that
// rebuilds it with fill commands, one chunk per tick. It returns the path
// written.
func RunFunctionPack(cfg *config.Config, input string, logger *log.Logger) (string, error) {
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
	plane := cfg.ParsedPlane()
	opts := blocks.CommandOptions{LegacyExecute: cfg.LegacyExecute}
	frame, plan, err := api.FunctionPack(cube, plane, m, icon, cfg.MaxCommands, opts)
	if err != nil {
		return "", err
	}
	logger.Printf("%s: %dx%d blocks on %s, %s commands in %d chunks",
		input, cube.X, cube.Y, plane, humanize.Comma(int64(plan.Total())), len(plan))
	return finish(cfg, frame, logger)
}
