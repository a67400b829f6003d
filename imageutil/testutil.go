package imageutil

import (
	"image"
	"math"
)

// CreateGradientImage creates a horizontal gradient test image.
func CreateGradientImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(255 * x / (width - 1))
			img.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}
	return img
}

// CreateSolidImage creates a solid color image.
func CreateSolidImage(width, height int, c RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGB(x, y, c)
		}
	}
	return img
}

// CreateBlocksImage creates a page of the given paper colour with each
// rectangle filled in the ink colour. Rectangles stand in for glyphs.
func CreateBlocksImage(width, height int, paper, ink RGB, blocks ...image.Rectangle) *RGBAImage {
	img := CreateSolidImage(width, height, paper)
	for _, r := range blocks {
		r = r.Intersect(img.Bounds())
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				img.SetRGB(x, y, ink)
			}
		}
	}
	return img
}

// CreateRingImage creates a page with a square ring of the given stroke
// drawn in ink and, when dot is non-zero, a filled square of that size
// centred inside the ring's hole.
func CreateRingImage(width, height int, ring image.Rectangle, stroke, dot int, paper, ink RGB) *RGBAImage {
	img := CreateBlocksImage(width, height, paper, ink, ring)
	hole := ring.Inset(stroke)
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		for x := hole.Min.X; x < hole.Max.X; x++ {
			img.SetRGB(x, y, paper)
		}
	}
	if dot > 0 {
		c := image.Pt((hole.Min.X+hole.Max.X)/2, (hole.Min.Y+hole.Max.Y)/2)
		d := image.Rect(c.X-dot/2, c.Y-dot/2, c.X-dot/2+dot, c.Y-dot/2+dot)
		for y := d.Min.Y; y < d.Max.Y; y++ {
			for x := d.Min.X; x < d.Max.X; x++ {
				img.SetRGB(x, y, ink)
			}
		}
	}
	return img
}

// ApplyShadow darkens an image with a horizontal lighting gradient, from
// untouched at the left edge to strength (0..1) at the right edge. It
// imitates a photograph taken under uneven light.
func ApplyShadow(img *RGBAImage, strength float64) *RGBAImage {
	out := NewRGBAImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			f := 1 - strength*float64(x)/float64(img.Width()-1)
			c := img.RGBAAt(x, y)
			out.SetRGB(x, y, RGB{
				R: clampUint8(float64(c.R) * f),
				G: clampUint8(float64(c.G) * f),
				B: clampUint8(float64(c.B) * f),
			})
		}
	}
	return out
}

// CalculateMSEGray calculates the Mean Squared Error between two grayscale images.
func CalculateMSEGray(img1, img2 *GrayImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	count := float64(width * height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := float64(img1.GetGray(x, y)) - float64(img2.GetGray(x, y))
			sumSq += d * d
		}
	}

	return sumSq / count
}

// CalculateJaccardIndex calculates the Jaccard similarity between two binary masks.
// Returns a value between 0 (no overlap) and 1 (perfect overlap).
func CalculateJaccardIndex(mask1, mask2 *GrayImage) float64 {
	if mask1.Width() != mask2.Width() || mask1.Height() != mask2.Height() {
		return 0
	}

	width, height := mask1.Width(), mask1.Height()
	var intersection, union int

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			e1 := mask1.GetGray(x, y) > 128
			e2 := mask2.GetGray(x, y) > 128
			if e1 && e2 {
				intersection++
			}
			if e1 || e2 {
				union++
			}
		}
	}

	if union == 0 {
		return 1.0 // Both empty
	}
	return float64(intersection) / float64(union)
}
