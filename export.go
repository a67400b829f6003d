package fontid

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/wbrown/fontid/imageutil"
)

// Exporter writes debug images to a directory. Nothing it writes is read
// back by the pipeline.
type Exporter struct {
	Dir string
}

// NewExporter returns an Exporter for dir, which is created on first write.
func NewExporter(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// GlyphPath returns the path of glyph i, char_<i>.png.
func (e *Exporter) GlyphPath(i int) string {
	return filepath.Join(e.Dir, fmt.Sprintf("char_%d.png", i))
}

// OverlayPath returns the path of the bounding box overlay.
func (e *Exporter) OverlayPath() string {
	return filepath.Join(e.Dir, "overlay.png")
}

// WriteGlyphs writes each glyph under its sequence index.
func (e *Exporter) WriteGlyphs(glyphs []*NormalizedGlyph) error {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	for i, g := range glyphs {
		if err := imageutil.SaveGrayImage(g.GrayImage, e.GlyphPath(i)); err != nil {
			return err
		}
	}
	return nil
}

// WriteOverlay draws every candidate's bounding box over the page, each in
// its own colour, and writes it as overlay.png.
func (e *Exporter) WriteOverlay(img image.Image, candidates []GlyphCandidate) error {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}

	overlay := imageutil.RGBAImageFromImage(img)
	for i, c := range candidates {
		outline(overlay, c.Bounds, boxColor(i))
	}
	return imageutil.SavePNG(overlay.RGBA, e.OverlayPath())
}

// boxColor steps around the hue wheel by the golden angle so neighbouring
// boxes never share a colour.
func boxColor(i int) imageutil.RGB {
	hue := math.Mod(float64(i)*137.508, 360)
	r, g, b := colorful.Hsv(hue, 0.9, 0.95).RGB255()
	return imageutil.RGB{R: r, G: g, B: b}
}

// outline draws a one pixel frame just outside r, clipped to the image.
func outline(img *imageutil.RGBAImage, r image.Rectangle, c imageutil.RGB) {
	frame := r.Inset(-1).Intersect(img.Bounds())
	for x := frame.Min.X; x < frame.Max.X; x++ {
		img.SetRGB(x, frame.Min.Y, c)
		img.SetRGB(x, frame.Max.Y-1, c)
	}
	for y := frame.Min.Y; y < frame.Max.Y; y++ {
		img.SetRGB(frame.Min.X, y, c)
		img.SetRGB(frame.Max.X-1, y, c)
	}
}
