package imageutil

// OtsuThreshold selects the global threshold that maximises the
// between-class variance of the image histogram (equivalently, minimises
// the intra-class variance). Pixels strictly greater than the returned
// level form the light class, matching OpenCV's THRESH_OTSU.
//
// ok is false when the image holds a single intensity, in which case no
// split exists.
func OtsuThreshold(img *GrayImage) (level uint8, ok bool) {
	return OtsuFromHistogram(img.Histogram())
}

// OtsuFromHistogram is OtsuThreshold over a precomputed histogram.
func OtsuFromHistogram(hist [256]int) (level uint8, ok bool) {
	var total, sum float64
	for i, n := range hist {
		total += float64(n)
		sum += float64(i) * float64(n)
	}

	var weightB, sumB, best float64
	for t := 0; t < 256; t++ {
		weightB += float64(hist[t])
		if weightB == 0 {
			continue
		}
		weightF := total - weightB
		if weightF == 0 {
			break
		}
		sumB += float64(t) * float64(hist[t])

		meanB := sumB / weightB
		meanF := (sum - sumB) / weightF
		between := weightB * weightF * (meanB - meanF) * (meanB - meanF)
		if between > best {
			best = between
			level = uint8(t)
		}
	}
	return level, best > 0
}

// Binarize splits img at level. Pixels above level become 255 unless
// inkDark is set, in which case pixels at or below level become 255
// instead. Every other pixel is 0.
func Binarize(img *GrayImage, level uint8, inkDark bool) *GrayImage {
	on, off := uint8(255), uint8(0)
	if inkDark {
		on, off = off, on
	}
	mask := NewGrayImage(img.Width(), img.Height())
	for y := 0; y < img.Height(); y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+img.Width()]
		dst := mask.Pix[y*mask.Stride : y*mask.Stride+img.Width()]
		for x, v := range src {
			if v > level {
				dst[x] = on
			} else {
				dst[x] = off
			}
		}
	}
	return mask
}

// Range returns the darkest and lightest intensity in the image.
func Range(img *GrayImage) (lo, hi uint8) {
	lo = 255
	for y := 0; y < img.Height(); y++ {
		for _, v := range img.Pix[y*img.Stride : y*img.Stride+img.Width()] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}
