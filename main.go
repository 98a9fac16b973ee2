//go:build !(js && wasm)

package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/voxelsplace/blockpack/config"
	"github.com/voxelsplace/blockpack/utils"
)

func usage() {
	fmt.Println("Usage: blockpack <command> [args]")
	fmt.Println("Commands:")
	fmt.Println("  funcpack config.yaml input.png|input.vgrid        (function pack that fills the image in, chunk per tick)")
	fmt.Println("  structpack config.yaml input.png|input.vgrid      (pack with the image as one .mcstructure)")
	fmt.Println("  videopack config.yaml input.gif|frames_dir        (structure pack replaying the frames)")
	fmt.Println("  blockimage config.yaml input.png output.png       (texture mosaic preview, prints block usage)")
	fmt.Println("  preview config.yaml input.png|input.vgrid out.glb (greedy-meshed 3D preview)")
	fmt.Println("  voxelize config.yaml input.png output.vgrid       (match once, cache the grid)")
	fmt.Println("  recolor catalog.json texture_dir                  (recompute catalog colours from textures)")
	fmt.Println("  batch config.yaml funcpack|structpack|videopack input1 [input2 ...]")
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

var errUsage = errors.New("invalid arguments")

// withConfig loads the run config and its logger, runs fn and closes the
// log file before returning.
func withConfig(path string, fn func(*config.Config, *log.Logger) error) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logger, closer := cfg.Log.SetLogger("[blockpack] ")
	defer closer.Close()
	return fn(cfg, logger)
}

// run executes one command with its arguments.
func run(cmd string, args []string) error {
	switch cmd {
	case "funcpack", "structpack", "videopack":
		if len(args) != 2 {
			return errUsage
		}
		return withConfig(args[0], func(cfg *config.Config, logger *log.Logger) error {
			_, err := utils.Converters[cmd](cfg, args[1], logger)
			return err
		})
	case "blockimage", "preview", "voxelize":
		if len(args) != 3 {
			return errUsage
		}
		return withConfig(args[0], func(cfg *config.Config, logger *log.Logger) error {
			switch cmd {
			case "blockimage":
				return utils.RunBlockImage(cfg, args[1], args[2], logger)
			case "preview":
				return utils.RunPreviewGLB(cfg, args[1], args[2], logger)
			}
			return utils.RunVoxelize(cfg, args[1], args[2], logger)
		})
	case "recolor":
		if len(args) != 2 {
			return errUsage
		}
		logger := log.New(os.Stdout, "[blockpack] ", log.LstdFlags)
		return utils.RunRecolor(args[0], args[1], logger)
	case "batch":
		if len(args) < 3 {
			return errUsage
		}
		return withConfig(args[0], func(cfg *config.Config, logger *log.Logger) error {
			_, err := utils.RunBatch(cfg, args[1], args[2:], logger)
			return err
		})
	}
	return errUsage
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	err := run(os.Args[1], os.Args[2:])
	if errors.Is(err, errUsage) {
		usage()
		os.Exit(1)
	}
	if err != nil {
		fail(err)
	}

	fmt.Println("Operation completed!")
}
