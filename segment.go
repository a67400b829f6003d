package fontid

import (
	"image"
	"sort"

	"github.com/wbrown/fontid/imageutil"
)

// GlyphCandidate is one connected ink region cut out of a BinaryMask.
type GlyphCandidate struct {
	// Index is the position of the candidate in the segmentation output.
	Index int
	// Bounds is the region's bounding box in page coordinates.
	Bounds image.Rectangle
	// Area is the number of ink pixels in the region.
	Area int
	// Image is the mask inside Bounds, ink at MaskInk. Ink of neighbouring
	// regions that reaches into the box is kept.
	Image *imageutil.GrayImage
}

// Segment extracts glyph candidates from mask. Only regions that are not
// enclosed by another region are considered, so the counter of an "o" is
// not reported separately, and regions with fewer than cfg.MinArea ink
// pixels are discarded as specks. Regions larger than
// cfg.MaxRegionFraction allows are discarded too. A mask without ink
// yields no candidates.
func Segment(mask *BinaryMask, cfg Config) []GlyphCandidate {
	_, comps := imageutil.LabelComponents(mask.GrayImage, MaskInk)
	page := mask.Bounds()

	var candidates []GlyphCandidate
	for _, c := range comps {
		if !c.External || c.Area < cfg.MinArea || oversized(c, page, cfg.MaxRegionFraction) {
			continue
		}
		candidates = append(candidates, GlyphCandidate{
			Bounds: c.Bounds,
			Area:   c.Area,
			Image:  mask.Crop(c.Bounds),
		})
	}

	if cfg.ReadingOrder {
		sortReadingOrder(candidates)
	}
	for i := range candidates {
		candidates[i].Index = i
	}
	return candidates
}

// oversized reports a component no glyph could produce: more ink than
// fraction of the page, or a border-touching box covering more than
// fraction of it.
func oversized(c imageutil.Component, page image.Rectangle, fraction float64) bool {
	if fraction >= 1 {
		return false
	}
	limit := fraction * float64(page.Dx()*page.Dy())
	if float64(c.Area) > limit {
		return true
	}
	b := c.Bounds
	border := b.Min.X == page.Min.X || b.Min.Y == page.Min.Y || b.Max.X == page.Max.X || b.Max.Y == page.Max.Y
	return border && float64(b.Dx()*b.Dy()) > limit
}

// sortReadingOrder groups candidates into text lines and orders them top
// to bottom, then left to right within each line. A candidate joins the
// current line when its vertical centre falls inside the line's band.
func sortReadingOrder(candidates []GlyphCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].Bounds, candidates[j].Bounds
		if a.Min.Y != b.Min.Y {
			return a.Min.Y < b.Min.Y
		}
		return a.Min.X < b.Min.X
	})

	line := make([]int, len(candidates))
	var band image.Rectangle
	n := -1
	for i, c := range candidates {
		mid := (c.Bounds.Min.Y + c.Bounds.Max.Y) / 2
		if n < 0 || mid < band.Min.Y || mid >= band.Max.Y {
			n++
			band = c.Bounds
		} else {
			band = band.Union(c.Bounds)
		}
		line[i] = n
	}

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if line[a] != line[b] {
			return line[a] < line[b]
		}
		return candidates[a].Bounds.Min.X < candidates[b].Bounds.Min.X
	})

	sorted := make([]GlyphCandidate, len(candidates))
	for i, k := range order {
		sorted[i] = candidates[k]
	}
	copy(candidates, sorted)
}
