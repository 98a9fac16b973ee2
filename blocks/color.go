package blocks

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// Color is an 8-bit RGB triple. Alpha is not modelled.
type Color struct {
	R, G, B uint8
}

// ColorOf drops alpha from any image colour.
func ColorOf(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B}
}

// ParseHexColor parses "RRGGBB" with an optional leading '#'.
func ParseHexColor(hex string) (Color, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex colour length: %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex colour %q: %w", hex, err)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex renders the colour as upper-case "RRGGBB".
func (c Color) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// RGBA returns the colour as normalised floats, alpha fixed at 1.
func (c Color) RGBA() [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, 1}
}

// NRGBA returns the opaque image colour.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// Metric selects the channel weights of the similarity score.
type Metric uint8

const (
	// MetricPerceptual weights red and green over blue (0.32, 0.52, 0.16).
	MetricPerceptual Metric = iota
	// MetricLuma uses the ITU-R BT.601 luma weights (0.299, 0.587, 0.114).
	MetricLuma
)

var metricWeights = [...][3]float64{
	MetricPerceptual: {0.32, 0.52, 0.16},
	MetricLuma:       {0.299, 0.587, 0.114},
}

// ParseMetric maps a config name to a Metric. The empty string selects the default.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "", "perceptual":
		return MetricPerceptual, nil
	case "luma":
		return MetricLuma, nil
	}
	return 0, fmt.Errorf("unknown colour metric %q", s)
}

func (m Metric) String() string {
	switch m {
	case MetricPerceptual:
		return "perceptual"
	case MetricLuma:
		return "luma"
	}
	return fmt.Sprintf("Metric(%d)", uint8(m))
}

// Similarity scores two colours in (-inf, 1]; 1 means identical.
func (m Metric) Similarity(a, b Color) float64 {
	w := metricWeights[MetricPerceptual]
	if int(m) < len(metricWeights) {
		w = metricWeights[m]
	}
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return 1 - (dr*dr*w[0]+dg*dg*w[1]+db*db*w[2])/65025
}

// PaletteEntry is one candidate block: its id, texture name and representative colour.
type PaletteEntry struct {
	BlockID string
	Texture string
	Color   Color
}

// Matcher classifies colours against a fixed, non-empty palette.
// It is read-only after construction and safe to share.
type Matcher struct {
	palette []PaletteEntry
	metric  Metric
}

// NewMatcher checks the palette precondition once so per-pixel lookups need no error path.
func NewMatcher(palette []PaletteEntry, metric Metric) (*Matcher, error) {
	if len(palette) == 0 {
		return nil, ErrEmptyPalette
	}
	return &Matcher{palette: palette, metric: metric}, nil
}

// Palette returns the candidates in scan order.
func (m *Matcher) Palette() []PaletteEntry { return m.palette }

// Metric returns the similarity metric in use.
func (m *Matcher) Metric() Metric { return m.metric }

// Nearest returns the candidate with the strictly greatest similarity.
// On equal scores the earliest candidate is kept.
func (m *Matcher) Nearest(c Color) PaletteEntry {
	return m.palette[m.nearestIndex(c)]
}

func (m *Matcher) nearestIndex(c Color) int {
	best := 0
	bestScore := math.Inf(-1)
	for i := range m.palette {
		s := m.metric.Similarity(c, m.palette[i].Color)
		if s > bestScore {
			best, bestScore = i, s
		}
	}
	return best
}

// Nearest is the one-shot form of Matcher.Nearest using the default metric.
func Nearest(c Color, candidates []PaletteEntry) (PaletteEntry, error) {
	m, err := NewMatcher(candidates, MetricPerceptual)
	if err != nil {
		return PaletteEntry{}, err
	}
	return m.Nearest(c), nil
}
