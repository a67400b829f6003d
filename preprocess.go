package fontid

import (
	"errors"
	"fmt"
	"image"

	"github.com/wbrown/fontid/imageutil"
)

// Pixel conventions shared by every stage.
const (
	// MaskInk is the value of foreground pixels in a BinaryMask.
	MaskInk uint8 = 255
	// MaskPaper is the value of background pixels in a BinaryMask.
	MaskPaper uint8 = 0
	// GlyphInk is the value of ink in a NormalizedGlyph, matching rendered
	// training glyphs (black text on white).
	GlyphInk uint8 = 0
	// GlyphPaper is the value of background in a NormalizedGlyph.
	GlyphPaper uint8 = 255
)

// Polarity records whether the source page had dark ink on light paper or
// the reverse.
type Polarity int

const (
	DarkOnLight Polarity = iota
	LightOnDark
)

func (p Polarity) String() string {
	switch p {
	case DarkOnLight:
		return "dark-on-light"
	case LightOnDark:
		return "light-on-dark"
	}
	return fmt.Sprintf("Polarity(%d)", int(p))
}

// BinaryMask is a two-level image with ink at MaskInk and paper at
// MaskPaper, whatever the source polarity.
type BinaryMask struct {
	*imageutil.GrayImage
	// Threshold is the global level chosen on the equalised page; it is 0
	// for pages that were too flat to threshold.
	Threshold uint8
	Polarity  Polarity
}

// Empty reports whether the mask has no ink.
func (m *BinaryMask) Empty() bool {
	return m.Histogram()[MaskInk] == 0
}

// Preprocess turns a page image into a BinaryMask: grayscale conversion,
// optional denoising, background flattening against uneven lighting,
// contrast limited adaptive equalisation over a tile grid and a single
// global Otsu threshold. The ink class is the one
// opposite the majority (paper) class; on an exact tie the page is taken
// to be light.
//
// A page whose intensity range, once flattened, is below cfg.MinContrast
// yields an empty mask rather than amplified paper texture or shading.
func Preprocess(img image.Image, cfg Config) (*BinaryMask, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, loadError("preprocess", "", errors.New("image has no pixels"))
	}

	gray := imageutil.GrayImageFromImage(img)
	switch cfg.Denoise {
	case DenoiseGaussian:
		gray = imageutil.GaussianBlurGray(gray, 1)
	case DenoiseMedian:
		gray = imageutil.MedianFilterGray(gray, 1)
	}

	gray = imageutil.FlattenBackground(gray, cfg.BackgroundCells)

	lo, hi := imageutil.Range(gray)
	if int(hi)-int(lo) < cfg.MinContrast {
		return blankMask(gray, hi), nil
	}

	eq := imageutil.EqualizeAdaptive(gray, cfg.TileGrid.X, cfg.TileGrid.Y, cfg.ClipLimit)
	hist := eq.Histogram()
	level, ok := imageutil.OtsuFromHistogram(hist)
	if !ok {
		return blankMask(gray, hi), nil
	}

	var dark int
	for v := 0; v <= int(level); v++ {
		dark += hist[v]
	}
	light := eq.Width()*eq.Height() - dark

	polarity := DarkOnLight
	if dark > light {
		polarity = LightOnDark
	}

	return &BinaryMask{
		GrayImage: imageutil.Binarize(eq, level, polarity == DarkOnLight),
		Threshold: level,
		Polarity:  polarity,
	}, nil
}

func blankMask(gray *imageutil.GrayImage, hi uint8) *BinaryMask {
	polarity := DarkOnLight
	if hi < 128 {
		polarity = LightOnDark
	}
	return &BinaryMask{
		GrayImage: imageutil.NewFilledGrayImage(gray.Width(), gray.Height(), MaskPaper),
		Polarity:  polarity,
	}
}
