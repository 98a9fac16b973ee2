package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestFitSize(t *testing.T) {
	cases := []struct {
		w, h, maxW, maxH int
		ew, eh           int
	}{
		{960, 540, 480, 270, 480, 270},
		{100, 50, 480, 270, 100, 50},
		{1000, 100, 0, 50, 500, 50},
		{1000, 100, 0, 0, 1000, 100},
		{1000, 1, 10, 10, 10, 1},
	}
	for _, c := range cases {
		w, h := FitSize(c.w, c.h, c.maxW, c.maxH)
		if w != c.ew || h != c.eh {
			t.Fatalf("FitSize(%d,%d,%d,%d) = %dx%d, want %dx%d", c.w, c.h, c.maxW, c.maxH, w, h, c.ew, c.eh)
		}
	}
}

func TestPrepareMirrors(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 8, 6))
	img.SetNRGBA(5, 5, color.NRGBA{255, 0, 0, 255})
	out := Prepare(img, 0, 0)
	if out.Bounds() != image.Rect(0, 0, 3, 1) {
		t.Fatalf("bounds %v", out.Bounds())
	}
	if c := out.NRGBAAt(2, 0); c.R != 255 {
		t.Fatalf("mirrored pixel %v", c)
	}
}

func TestIconAndThumbnailSizes(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 10))
	if b := Icon(img, 64).Bounds(); b != image.Rect(0, 0, 64, 64) {
		t.Fatalf("icon bounds %v", b)
	}
	if b := Thumbnail(img, 16).Bounds(); b != image.Rect(0, 0, 16, 16) {
		t.Fatalf("thumbnail bounds %v", b)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := DecodeBytes([]byte("not an image")); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable, got %v", err)
	}
	if _, err := Decode(filepath.Join(t.TempDir(), "missing.png")); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("expected ErrUnreadable for missing file, got %v", err)
	}
}

func TestDecodeGIFComposites(t *testing.T) {
	full := image.NewPaletted(image.Rect(0, 0, 4, 4), palette.Plan9)
	for i := range full.Pix {
		full.Pix[i] = uint8(full.Palette.Index(color.White))
	}
	patch := image.NewPaletted(image.Rect(1, 1, 2, 2), palette.Plan9)
	patch.Pix[0] = uint8(patch.Palette.Index(color.Black))
	var buf bytes.Buffer
	err := gif.EncodeAll(&buf, &gif.GIF{
		Image:  []*image.Paletted{full, patch},
		Delay:  []int{0, 0},
		Config: image.Config{Width: 4, Height: 4, ColorModel: color.Palette(palette.Plan9)},
	})
	if err != nil {
		t.Fatalf("encode gif: %v", err)
	}
	src, err := DecodeGIF(&buf)
	if err != nil {
		t.Fatalf("DecodeGIF: %v", err)
	}
	if src.Count() != 2 {
		t.Fatalf("count %d", src.Count())
	}
	_, _ = src.Next()
	second, err := src.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if second.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("frame not on logical screen: %v", second.Bounds())
	}
	if r, _, _, _ := second.At(0, 0).RGBA(); r>>8 != 255 {
		t.Fatalf("background lost in second frame")
	}
	if r, _, _, _ := second.At(1, 1).RGBA(); r != 0 {
		t.Fatalf("patch not drawn")
	}
	if _, err := src.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func writeFrame(t *testing.T, path string, shade uint8) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = shade, shade, shade, 255
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestFrameDirNumericOrder(t *testing.T) {
	dir := t.TempDir()
	writeFrame(t, filepath.Join(dir, "frame_10.png"), 30)
	writeFrame(t, filepath.Join(dir, "frame_2.png"), 20)
	writeFrame(t, filepath.Join(dir, "frame_1.png"), 10)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := OpenFrames(dir)
	if err != nil {
		t.Fatalf("OpenFrames: %v", err)
	}
	if src.Count() != 3 {
		t.Fatalf("count %d", src.Count())
	}
	for _, want := range []uint8{10, 20, 30} {
		img, err := src.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got := Average(img).R; got != want {
			t.Fatalf("frame shade %d, want %d", got, want)
		}
	}
}

func TestAverageSkipsTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{100, 50, 0, 255})
	got := Average(img)
	if got.R != 100 || got.G != 50 || got.B != 0 {
		t.Fatalf("average %v", got)
	}
}
