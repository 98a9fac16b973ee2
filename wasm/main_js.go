//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/blockpack/api"
	"github.com/voxelsplace/blockpack/blocks"
)

func bytesArg(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func toUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// prepare reads (data, catalogJSON, plane) and returns the data bytes, the
// filtered palette and the options for the plane.
func prepare(args []js.Value) ([]byte, []blocks.PaletteEntry, api.Options, error) {
	opts := api.DefaultOptions()
	if len(args) > 2 && args[2].Type() == js.TypeString {
		plane, err := blocks.ParsePlane(args[2].String())
		if err != nil {
			return nil, nil, opts, err
		}
		opts.Plane = plane
	}
	palette, err := api.Palette([]byte(args[1].String()), opts)
	if err != nil {
		return nil, nil, opts, err
	}
	return bytesArg(args[0]), palette, opts, nil
}

func image2commands(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("missing image bytes or catalog")
	}
	img, palette, opts, err := prepare(args)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	out, err := api.ImageToCommands(img, palette, opts)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return js.ValueOf(out)
}

func image2structure(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("missing image bytes or catalog")
	}
	img, palette, opts, err := prepare(args)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	out, err := api.ImageToStructure(img, palette, opts)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

// image2mcpack(image, catalog, plane, name, structure)
func image2mcpack(this js.Value, args []js.Value) any {
	if len(args) < 4 {
		return js.ValueOf("missing image bytes, catalog, plane or name")
	}
	img, palette, opts, err := prepare(args)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	structure := len(args) > 4 && args[4].Truthy()
	out, err := api.ImageToMcpack(img, palette, args[3].String(), structure, opts)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func grid2glb(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("missing grid bytes or catalog")
	}
	grid, palette, opts, err := prepare(args)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	out, err := api.GridFileToGLB(grid, palette, opts.Plane)
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return toUint8Array(out)
}

func main() {
	js.Global().Set("image2commands", js.FuncOf(image2commands))
	js.Global().Set("image2structure", js.FuncOf(image2structure))
	js.Global().Set("image2mcpack", js.FuncOf(image2mcpack))
	js.Global().Set("grid2glb", js.FuncOf(grid2glb))
	select {}
}
