package fontid

import (
	"errors"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/fontid/imageutil"
	"golang.org/x/image/font"
)

// LoadFont loads a TrueType font from file.
func LoadFont(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, loadError("load font", path, err)
	}

	f, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, loadError("load font", path, fmt.Errorf("failed to parse font: %w", err))
	}
	return f, nil
}

// FontName returns the full font name of f made safe for use as a
// directory name and label: characters illegal in file names are removed
// and spaces become dashes. fallback is used when the font has no full
// name record.
func FontName(f *truetype.Font, fallback string) string {
	name := f.Name(truetype.NameIDFontFullName)
	if name == "" {
		name = fallback
	}
	return SanitizeFontName(name)
}

// SanitizeFontName applies the FontName rules to an arbitrary string.
func SanitizeFontName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, name)
	return strings.ReplaceAll(name, " ", "-")
}

// GlyphRenderer draws single characters the way segmented glyphs look
// after normalization: black ink on white, cropped to the ink and
// stretched over the whole canvas.
type GlyphRenderer struct {
	Size          image.Point
	Interpolation imageutil.Interpolation
	// FontSize is the rendering size in points at 72 DPI, i.e. pixels.
	FontSize float64
}

// NewGlyphRenderer returns a renderer producing cfg.GlyphSize glyphs.
func NewGlyphRenderer(cfg Config) *GlyphRenderer {
	return &GlyphRenderer{
		Size:          cfg.GlyphSize,
		Interpolation: cfg.Interpolation,
		FontSize:      96,
	}
}

// Render rasterises r in f. Coverage is binarised at 25% so anti-aliased
// edges survive while the result stays two-level like a scanned mask.
// Runes missing from the font or without ink return ErrDegenerateGlyph.
func (gr *GlyphRenderer) Render(f *truetype.Font, r rune) (*NormalizedGlyph, error) {
	if f.Index(r) == 0 {
		return nil, &Error{Kind: ErrDegenerateGlyph, Op: "render", Err: fmt.Errorf("font has no glyph for %q", r)}
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    gr.FontSize,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()

	metrics := face.Metrics()
	advance, _ := face.GlyphAdvance(r)
	pad := int(gr.FontSize / 2)
	ascent := metrics.Ascent.Ceil()
	width := advance.Ceil() + 2*pad
	height := ascent + metrics.Descent.Ceil() + 2*pad

	img := image.NewAlpha(image.Rect(0, 0, width, height))

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(gr.FontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.White)
	ctx.SetHinting(font.HintingNone)

	if _, err := ctx.DrawString(string(r), freetype.Pt(pad, pad+ascent)); err != nil {
		return nil, fmt.Errorf("failed to draw %q: %w", r, err)
	}

	canvas := imageutil.NewFilledGrayImage(width, height, GlyphPaper)
	ink := image.Rectangle{}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if img.AlphaAt(x, y).A > 64 { // 25% threshold
				canvas.SetGrayValue(x, y, GlyphInk)
				ink = ink.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	if ink.Empty() {
		return nil, &Error{Kind: ErrDegenerateGlyph, Op: "render", Err: errors.New("glyph has no ink")}
	}

	return &NormalizedGlyph{
		GrayImage: imageutil.ResizeGray(canvas.Crop(ink), gr.Size.X, gr.Size.Y, gr.Interpolation),
	}, nil
}
