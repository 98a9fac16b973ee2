package utils

import (
	"log"

	"github.com/voxelsplace/blockpack/catalog"
)

// RunRecolor recomputes every catalog colour from the average of its texture
// and saves the catalog in place.
func RunRecolor(catalogPath, textureDir string, logger *log.Logger) error {
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return err
	}
	res, err := cat.Recolor(textureDir)
	if err != nil {
		return err
	}
	for _, name := range res.Missing {
		logger.Printf("texture %s unreadable, colour kept", name)
	}
	if err := cat.Save(catalogPath); err != nil {
		return err
	}
	logger.Printf("%s: %d colours updated, %d textures missing", catalogPath, res.Updated, len(res.Missing))
	return nil
}
