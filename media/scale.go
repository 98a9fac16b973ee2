package media

import (
	"image"

	"github.com/disintegration/gift"
)

// FitSize returns the largest size not exceeding (maxW, maxH) that keeps the
// aspect ratio of (w, h). Images are never enlarged. A bound <= 0 leaves that
// axis unconstrained; with both unconstrained the size is returned unchanged.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return w, h
	}
	ratio := 1.0
	if maxW > 0 {
		ratio = min(ratio, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		ratio = min(ratio, float64(maxH)/float64(h))
	}
	if ratio >= 1 {
		return w, h
	}
	return max(1, int(float64(w)*ratio)), max(1, int(float64(h)*ratio))
}

// LimitScale box-resamples img down to fit (maxW, maxH).
// The returned image always has its origin at (0, 0).
func LimitScale(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return render(gift.New(), img)
	}
	return render(gift.New(gift.Resize(w, h, gift.BoxResampling)), img)
}

// Mirror flips img horizontally.
func Mirror(img image.Image) *image.NRGBA {
	return render(gift.New(gift.FlipHorizontal()), img)
}

// Prepare combines LimitScale and Mirror in one filter pass.
func Prepare(img image.Image, maxW, maxH int) *image.NRGBA {
	b := img.Bounds()
	w, h := FitSize(b.Dx(), b.Dy(), maxW, maxH)
	g := gift.New()
	if w != b.Dx() || h != b.Dy() {
		g.Add(gift.Resize(w, h, gift.BoxResampling))
	}
	g.Add(gift.FlipHorizontal())
	return render(g, img)
}

// Thumbnail resizes img to exactly size x size, used for block textures.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	return render(gift.New(gift.Resize(size, size, gift.NearestNeighborResampling)), img)
}

func render(g *gift.GIFT, img image.Image) *image.NRGBA {
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, img)
	return dst
}

// Icon crops and scales img to a size x size square.
func Icon(img image.Image, size int) *image.NRGBA {
	return render(gift.New(gift.ResizeToFill(size, size, gift.BoxResampling, gift.CenterAnchor)), img)
}
