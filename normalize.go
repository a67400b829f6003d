package fontid

import (
	"errors"
	"image"

	"github.com/wbrown/fontid/imageutil"
)

// NormalizedGlyph is a fixed-size glyph with ink at GlyphInk on
// GlyphPaper, the convention shared with rendered training glyphs.
type NormalizedGlyph struct {
	*imageutil.GrayImage
}

// Size returns the glyph resolution.
func (g *NormalizedGlyph) Size() image.Point {
	return image.Pt(g.Width(), g.Height())
}

// Normalizer stretches glyph candidates onto a fixed canvas. Aspect ratio
// is not preserved, so narrow glyphs such as "i" are widened and wide
// ones such as "m" are squeezed.
type Normalizer struct {
	Size          image.Point
	Interpolation imageutil.Interpolation
}

// NewNormalizer returns a Normalizer producing cfg.GlyphSize glyphs.
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{Size: cfg.GlyphSize, Interpolation: cfg.Interpolation}
}

// Normalize flips the candidate crop to glyph polarity and resizes it to
// the canvas. Candidates without ink return ErrDegenerateGlyph.
func (n *Normalizer) Normalize(c GlyphCandidate) (*NormalizedGlyph, error) {
	if c.Image == nil || c.Image.Bounds().Empty() {
		return nil, &Error{Kind: ErrDegenerateGlyph, Op: "normalize", Err: errors.New("empty crop")}
	}
	if c.Image.Histogram()[MaskInk] == 0 {
		return nil, &Error{Kind: ErrDegenerateGlyph, Op: "normalize", Err: errors.New("crop has no ink")}
	}

	// Mask ink is 255 and glyph ink is 0, so the crop only needs inverting.
	glyph := c.Image.Invert()
	return &NormalizedGlyph{
		GrayImage: imageutil.ResizeGray(glyph, n.Size.X, n.Size.Y, n.Interpolation),
	}, nil
}

// Resample resizes g to size with the normalizer's interpolation. Glyphs
// already at size come back pixel-identical.
func (n *Normalizer) Resample(g *NormalizedGlyph, size image.Point) *NormalizedGlyph {
	return &NormalizedGlyph{
		GrayImage: imageutil.ResizeGray(g.GrayImage, size.X, size.Y, n.Interpolation),
	}
}
