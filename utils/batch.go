package utils

import (
	"errors"
	"fmt"
	"log"

	"github.com/voxelsplace/blockpack/blocks"
	"github.com/voxelsplace/blockpack/config"
)

// Converter is a pipeline that turns one input into one pack.
type Converter func(cfg *config.Config, input string, logger *log.Logger) (string, error)

// Converters maps batch kinds to pipelines.
var Converters = map[string]Converter{
	"funcpack":   RunFunctionPack,
	"structpack": RunStructurePack,
	"videopack":  RunVideoPack,
}

// BatchResult lists what a batch produced and what it skipped.
type BatchResult struct {
	Written []string
	Skipped []string
}

// RunBatch converts every input with the pipeline named by kind. Each pack
// is named after its input. Unreadable inputs are logged and skipped; any
// other failure stops the batch.
func RunBatch(cfg *config.Config, kind string, inputs []string, logger *log.Logger) (BatchResult, error) {
	var res BatchResult
	run, ok := Converters[kind]
	if !ok {
		return res, fmt.Errorf("%w: unknown batch kind %q", blocks.ErrPrecondition, kind)
	}
	item := *cfg
	item.Pack.Name = ""
	item.Pack.Prefix = ""
	for i, input := range inputs {
		out, err := run(&item, input, logger)
		switch {
		case errors.Is(err, blocks.ErrUnreadableSource):
			logger.Printf("[%d/%d] skipping %s: %v", i+1, len(inputs), input, err)
			res.Skipped = append(res.Skipped, input)
			continue
		case err != nil:
			return res, fmt.Errorf("%s: %w", input, err)
		}
		res.Written = append(res.Written, out)
	}
	logger.Printf("batch %s: %d written, %d skipped", kind, len(res.Written), len(res.Skipped))
	return res, nil
}
