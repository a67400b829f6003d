package imageutil

import (
	"github.com/anthonynsimon/bild/effect"
)

// MedianFilterGray replaces each pixel with the median of its
// neighbourhood of the given radius. Isolated specks smaller than the
// window vanish while stroke edges stay sharp.
func MedianFilterGray(img *GrayImage, radius float64) *GrayImage {
	if radius <= 0 {
		return img.Clone()
	}
	// bild returns an RGBA with equal channels, which ToGrayscale maps
	// back without loss.
	return ToGrayscale(RGBAImageFromImage(effect.Median(img.Gray, radius)))
}
