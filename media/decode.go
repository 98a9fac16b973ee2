package media

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// Decode reads a still image (PNG, JPEG or the first frame of a GIF) from disk.
func Decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()
	return DecodeReader(f)
}

// DecodeBytes decodes an in-memory image.
func DecodeBytes(data []byte) (image.Image, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader decodes any registered format and rejects empty images.
func DecodeReader(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if Empty(img) {
		return nil, fmt.Errorf("%w: image has no pixels", ErrUnreadable)
	}
	return img, nil
}

// Empty reports whether img is nil or has a zero-area bounds.
func Empty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}
